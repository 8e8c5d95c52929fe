package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFileName reduces a client-supplied file name to a safe base name.
// Directory components are stripped and anything outside [A-Za-z0-9._-] becomes "_".
// Returns an empty string when nothing usable remains.
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeFileChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" || base == "." {
		return ""
	}
	return base
}

// SplitAndTrim splits a comma-separated list, trimming blanks and dropping empty items.
func SplitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
