// File: mprtime/parse.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Tolerant time parsing accepting ISO-8601, RFC-822 (HTTP date), and a
// handful of localized month/day layouts, tried in sequence as the C
// runtime's token-table parser would.

package mprtime

import (
	"time"

	"github.com/momentics/mpr/api"
)

var layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"01/02/2006",
}

// ParseTime tries each known layout in turn, returning an api.Error with
// code api.ErrCodeInvalidArgument if none match.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, api.NewError(api.ErrCodeInvalidArgument, "unrecognized time format: "+s)
}
