// File: fs/disk.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Disk provider delegates every operation to the OS, after normalizing
// and root-escape-checking the requested path. Absolute paths are
// resolved against the process-wide working directory captured at
// startup, avoiding the TOCTOU surprise a live os.Getwd() call would risk
// if the process later chdir's.

package fs

import (
	"os"
	"path/filepath"

	"github.com/momentics/mpr/api"
)

var startupCwd = func() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}()

// Disk is a FileSystem backed directly by the OS, rooted at Root.
type Disk struct {
	Root          string
	caseSensitive bool
}

// NewDisk creates a Disk provider rooted at root. If root is relative it
// is resolved against the startup working directory, not the current one.
func NewDisk(root string, caseSensitive bool) *Disk {
	if !filepath.IsAbs(root) {
		root = JoinRoot(startupCwd, "/"+root)
	}
	return &Disk{Root: root, caseSensitive: caseSensitive}
}

func (d *Disk) resolve(p string) (string, error) {
	n, err := Normalize(d.Root, p)
	if err != nil {
		return "", err
	}
	return JoinRoot(d.Root, n), nil
}

func (d *Disk) Open(p string, flags int, perm uint32) (File, error) {
	real, err := d.resolve(p)
	if err != nil {
		return nil, err
	}
	osFlags := 0
	if flags&OpenRead != 0 && flags&OpenWrite != 0 {
		osFlags = os.O_RDWR
	} else if flags&OpenWrite != 0 {
		osFlags = os.O_WRONLY
	} else {
		osFlags = os.O_RDONLY
	}
	if flags&OpenCreate != 0 {
		osFlags |= os.O_CREATE
	}
	if flags&OpenTruncate != 0 {
		osFlags |= os.O_TRUNC
	}
	if flags&OpenAppend != 0 {
		osFlags |= os.O_APPEND
	}
	f, err := os.OpenFile(real, osFlags, os.FileMode(perm))
	if err != nil {
		return nil, translateOSError(err)
	}
	return f, nil
}

func (d *Disk) Access(p string) error {
	real, err := d.resolve(p)
	if err != nil {
		return err
	}
	if _, err := os.Stat(real); err != nil {
		return translateOSError(err)
	}
	return nil
}

func (d *Disk) Delete(p string) error {
	real, err := d.resolve(p)
	if err != nil {
		return err
	}
	return translateOSError(os.Remove(real))
}

func (d *Disk) Mkdir(p string, perm uint32) error {
	real, err := d.resolve(p)
	if err != nil {
		return err
	}
	return translateOSError(os.Mkdir(real, os.FileMode(perm)))
}

func (d *Disk) MakeLink(oldpath, newpath string, symbolic bool) error {
	realOld, err := d.resolve(oldpath)
	if err != nil {
		return err
	}
	realNew, err := d.resolve(newpath)
	if err != nil {
		return err
	}
	if symbolic {
		return translateOSError(os.Symlink(realOld, realNew))
	}
	return translateOSError(os.Link(realOld, realNew))
}

func (d *Disk) Stat(p string) (Info, error) {
	real, err := d.resolve(p)
	if err != nil {
		return Info{}, err
	}
	fi, err := os.Stat(real)
	if err != nil {
		return Info{}, translateOSError(err)
	}
	return Info{Size: fi.Size(), IsDir: fi.IsDir(), ModTime: fi.ModTime().UnixMilli()}, nil
}

func (d *Disk) Readlink(p string) (string, error) {
	real, err := d.resolve(p)
	if err != nil {
		return "", err
	}
	target, err := os.Readlink(real)
	if err != nil {
		return "", translateOSError(err)
	}
	return target, nil
}

func (d *Disk) ReadOnly() bool      { return false }
func (d *Disk) CaseSensitive() bool { return d.caseSensitive }

func translateOSError(err error) error {
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) {
		return api.ErrNotFound
	}
	if os.IsExist(err) {
		return api.ErrAlreadyExists
	}
	return err
}
