// Package mem implements the hierarchical memory manager: parent-owned
// blocks with destructors, and four heap kinds (page, arena, slab, malloc)
// layered over a single global quota.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package mem
