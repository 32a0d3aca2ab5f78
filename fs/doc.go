// Package fs implements Component C: a uniform filesystem switch with
// Disk and ROM providers behind one path-normalizing contract.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package fs
