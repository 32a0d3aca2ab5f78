// File: fs/switch.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Switch registers one FileSystem per path root and dispatches calls to
// whichever provider's root is the longest prefix match of the request.

package fs

import (
	"strings"
	"sync"

	"github.com/momentics/mpr/api"
)

// Switch is the process-wide filesystem registry.
type Switch struct {
	mu        sync.RWMutex
	providers map[string]FileSystem
}

// NewSwitch creates an empty registry.
func NewSwitch() *Switch {
	return &Switch{providers: make(map[string]FileSystem)}
}

// Register binds a FileSystem to handle every path under root.
func (s *Switch) Register(root string, provider FileSystem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[root] = provider
}

// Resolve finds the provider whose registered root is the longest
// matching prefix of p.
func (s *Switch) Resolve(p string) (FileSystem, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var bestRoot string
	var best FileSystem
	for root, fsys := range s.providers {
		if strings.HasPrefix(p, root) && len(root) >= len(bestRoot) {
			bestRoot, best = root, fsys
		}
	}
	if best == nil {
		return nil, "", api.ErrNotFound
	}
	return best, bestRoot, nil
}

func (s *Switch) Open(p string, flags int, perm uint32) (File, error) {
	fsys, _, err := s.Resolve(p)
	if err != nil {
		return nil, err
	}
	return fsys.Open(p, flags, perm)
}

func (s *Switch) Stat(p string) (Info, error) {
	fsys, _, err := s.Resolve(p)
	if err != nil {
		return Info{}, err
	}
	return fsys.Stat(p)
}
