package mem_test

import (
	"testing"

	"github.com/momentics/mpr/mem"
)

func TestAllocFreeBasic(t *testing.T) {
	m := mem.NewManager(0, 0)
	b, err := m.Alloc(m.Root(), 128)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Data) != 128 {
		t.Fatalf("expected 128 bytes, got %d", len(b.Data))
	}
	m.Free(b)
}

func TestAllocQuotaExceeded(t *testing.T) {
	m := mem.NewManager(64, 0)
	if _, err := m.Alloc(m.Root(), 128); err == nil {
		t.Fatal("expected quota failure for over-budget allocation")
	}
}

func TestRedLineNotifiedOnce(t *testing.T) {
	m := mem.NewManager(0, 100)
	count := 0
	m.OnRedLine(func(allocated, max, redLine int64) { count++ })

	b1, _ := m.Alloc(m.Root(), 200)
	b2, _ := m.Alloc(m.Root(), 50)
	if count != 1 {
		t.Fatalf("expected exactly one notification, got %d", count)
	}
	m.Free(b1)
	m.Free(b2)
}

func TestDestructorVetoReparentsToRoot(t *testing.T) {
	m := mem.NewManager(0, 0)
	parent, _ := m.Alloc(m.Root(), 16)
	vetoed, _ := m.AllocWithDestructor(parent, 16, func(b *mem.Block) error {
		return errVeto
	})
	m.Free(parent)
	if vetoed.Parent() != m.Root() {
		t.Fatal("vetoed block was not reparented to the manager root")
	}
}

func TestDestructorRunsBeforeChildrenFreedAndVetoPreservesSubtree(t *testing.T) {
	m := mem.NewManager(0, 0)
	parent, _ := m.Alloc(m.Root(), 16)
	var childFreedBeforeDestructor bool
	vetoed, _ := m.AllocWithDestructor(parent, 16, func(b *mem.Block) error {
		childFreedBeforeDestructor = b.Freed()
		return errVeto
	})
	child, _ := m.Alloc(vetoed, 8)

	m.Free(parent)

	if childFreedBeforeDestructor {
		t.Fatal("destructor observed its own block already marked freed")
	}
	if vetoed.Parent() != m.Root() {
		t.Fatal("vetoed block was not reparented to the manager root")
	}
	if child.Freed() {
		t.Fatal("veto did not preserve the vetoed block's subtree: child was freed")
	}
	if child.Parent() != vetoed {
		t.Fatal("veto did not preserve parentage of the vetoed block's children")
	}
}

var errVeto = &vetoErr{}

type vetoErr struct{}

func (*vetoErr) Error() string { return "veto" }

func TestStealMovesBlockBetweenParents(t *testing.T) {
	m := mem.NewManager(0, 0)
	src, _ := m.Alloc(m.Root(), 8)
	dst, _ := m.Alloc(m.Root(), 8)
	child, _ := m.Alloc(src, 4)

	if err := m.Steal(dst, child); err != nil {
		t.Fatal(err)
	}
	if child.Parent() != dst {
		t.Fatal("steal did not reparent block")
	}
}

func TestReallocPreservesContentAndChildren(t *testing.T) {
	m := mem.NewManager(0, 0)
	b, _ := m.Alloc(m.Root(), 4)
	copy(b.Data, []byte{1, 2, 3, 4})
	child, _ := m.Alloc(b, 2)

	nb, err := m.Realloc(m.Root(), b, 8)
	if err != nil {
		t.Fatal(err)
	}
	if nb.Data[0] != 1 || nb.Data[3] != 4 {
		t.Fatal("realloc did not preserve original contents")
	}
	if child.Parent() != nb {
		t.Fatal("realloc did not transplant children onto new block")
	}
}

func TestArenaHeapFreeIsNoopUntilHeapDeath(t *testing.T) {
	m := mem.NewManager(0, 0)
	arenaRoot := m.NewHeap(m.Root(), mem.KindArena, 0)
	a, _ := m.Alloc(arenaRoot, 32)
	before := a.Size()
	m.Free(a)
	if before != 32 {
		t.Fatal("arena allocation size mismatch")
	}
	b, _ := m.Alloc(arenaRoot, 32)
	if &b.Data[0] == &a.Data[0] {
		t.Fatal("arena free returned storage for reuse before heap death")
	}
}

func TestSlabHeapReusesFreedBlocks(t *testing.T) {
	m := mem.NewManager(0, 0)
	slabRoot := m.NewHeap(m.Root(), mem.KindSlab, 64)
	a, _ := m.Alloc(slabRoot, 64)
	m.Free(a)
	b, err := m.Alloc(slabRoot, 64)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Data) != 64 {
		t.Fatal("slab reallocation size mismatch")
	}
	if &b.Data[0] != &a.Data[0] {
		t.Fatal("slab did not reuse the freed block's storage")
	}
}
