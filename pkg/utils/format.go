// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatShareCount formats a share count with comma digit grouping.
func FormatShareCount(count int64) string {
	negative := count < 0
	if negative {
		count = -count
	}

	s := fmt.Sprintf("%d", count)
	n := len(s)
	if n > 3 {
		var groups []string
		for n > 3 {
			groups = append([]string{s[n-3:]}, groups...)
			s = s[:n-3]
			n = len(s)
		}
		s = s + "," + strings.Join(groups, ",")
	}

	if negative {
		return "-" + s
	}
	return s
}

// FormatDate formats a date in the given layout, falling back to a sane
// default when the layout is empty.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = "02-Jan-2006"
	}
	return t.Format(layout)
}

// Truncate shortens a string to maxLen runes, appending an ellipsis.
func Truncate(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
