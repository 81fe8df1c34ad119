package util

import (
	"fmt"
	"strings"
)

// FormatBytes takes a byte count and returns its formatted form, example 5235745682 -> "5.2 GB"
func FormatBytes(b int64) string {
	const unit = 1000
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "kMGTPE"[exp])
}

// IsURL checks to see if a string is a url rather than a torrent file path
func IsURL(s string) bool {
	for _, scheme := range []string{"magnet:", "http://", "https://", "udp://"} {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}
