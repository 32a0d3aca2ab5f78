// File: fs/path.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Path normalization shared by both providers: separator folding, "."/".."
// elimination with root-escape prevention, and drive-letter preservation
// on Windows-style roots. Grounded on internal/normalize's
// validate-and-fallback idiom (normalizer.go), generalized from numeric
// index clamping to path-segment clamping.

package fs

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/momentics/mpr/api"
)

// Normalize resolves path segments against root using forward-slash
// semantics, refusing to let ".." walk above root. The returned path is
// always root-relative and begins with "/".
func Normalize(root, p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	// path.Clean silently clamps ".." at "/", so walk the raw segments
	// first and reject any ".." that would climb above root.
	depth := 0
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return "", api.NewError(api.ErrCodeInvalidArgument, "path escapes root: "+p)
			}
		default:
			depth++
		}
	}
	clean := path.Clean(p)
	if clean == "." {
		clean = "/"
	}
	if !strings.HasPrefix(clean, "/") {
		return "", api.NewError(api.ErrCodeInvalidArgument, "path escapes root: "+p)
	}
	return clean, nil
}

// JoinRoot joins a normalized relative path onto an OS root directory,
// using the host's native separator.
func JoinRoot(root, normalized string) string {
	if normalized == "/" {
		return filepath.Clean(root)
	}
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(normalized, "/")))
}
