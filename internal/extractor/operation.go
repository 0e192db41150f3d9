package extractor

import (
	"regexp"
	"unicode/utf8"
)

// Default bounds of the context window inspected for operation keywords.
const (
	DefaultWindowBefore = 200
	DefaultWindowAfter  = 100
)

// operationKeywords is checked in order; the first keyword present wins.
var operationKeywords = []struct { //nolint:gochecknoglobals // compiled once
	op      Operation
	pattern *regexp.Regexp
}{
	{OpAlter, regexp.MustCompile(`(?i)alter` + space + `+table`)},
	{OpCreate, regexp.MustCompile(`(?i)create` + space + `+table`)},
	{OpDrop, regexp.MustCompile(`(?i)drop` + space + `+table`)},
}

// InferOperation classifies the operation for a match spanning the byte
// offsets text[start:end] by looking at up to before characters ahead of it
// and after characters past it. ALTER beats CREATE, and CREATE beats DROP,
// wherever they sit in the window.
func InferOperation(text string, start, end, before, after int) Operation {
	lo := min(max(0, start), len(text))
	hi := min(max(lo, end), len(text))

	for n := 0; n < before && lo > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}

	for n := 0; n < after && hi < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}

	if lo >= hi {
		return OpUnknown
	}

	window := text[lo:hi]

	for _, kw := range operationKeywords {
		if kw.pattern.MatchString(window) {
			return kw.op
		}
	}

	return OpUnknown
}
