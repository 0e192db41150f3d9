package extractor

import "regexp"

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m") //nolint:gochecknoglobals // compiled once

// StripANSI removes SGR escape sequences (colors, bold, reset) from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
