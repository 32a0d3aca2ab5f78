package fs_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/momentics/mpr/fs"
)

func TestNormalizeRejectsRootEscape(t *testing.T) {
	if _, err := fs.Normalize("/root", "../../etc/passwd"); err == nil {
		t.Fatal("expected root-escape rejection")
	}
}

func TestNormalizeCollapsesDotSegments(t *testing.T) {
	n, err := fs.Normalize("/root", "/a/./b/../c")
	if err != nil {
		t.Fatal(err)
	}
	if n != "/a/c" {
		t.Fatalf("expected /a/c, got %s", n)
	}
}

func TestDiskReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := fs.NewDisk(dir, true)
	if err := d.Mkdir("/sub", 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := d.Open("/sub/hello.txt", fs.OpenWrite|fs.OpenCreate|fs.OpenTruncate, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("hi")); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := os.Stat(filepath.Join(dir, "sub", "hello.txt")); err != nil {
		t.Fatal("file not created on real disk:", err)
	}

	rf, err := d.Open("/sub/hello.txt", fs.OpenRead, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	data, err := io.ReadAll(rf)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hi" {
		t.Fatalf("expected hi, got %s", data)
	}
}

func TestROMServesCompiledEntries(t *testing.T) {
	rom := fs.NewROM("/rom", []fs.ROMEntry{
		{Path: "/index.html", Data: []byte("<html/>")},
	}, false)

	f, err := rom.Open("/INDEX.HTML", fs.OpenRead, 0)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(f)
	if string(data) != "<html/>" {
		t.Fatalf("unexpected ROM content: %s", data)
	}

	if _, err := rom.Open("/index.html", fs.OpenWrite, 0); err == nil {
		t.Fatal("expected ROM write to fail")
	}
}

func TestSwitchResolvesLongestPrefix(t *testing.T) {
	sw := fs.NewSwitch()
	rom := fs.NewROM("/", []fs.ROMEntry{{Path: "/app/index.html", Data: []byte("x")}}, true)
	sw.Register("/app", rom)

	if _, err := sw.Stat("/app/index.html"); err != nil {
		t.Fatal(err)
	}
	if _, err := sw.Stat("/other/file"); err == nil {
		t.Fatal("expected not-found for unregistered root")
	}
}
