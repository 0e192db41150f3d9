package extractor

import (
	"regexp"
	"strings"
)

// Names of the built-in dialects.
const (
	DialectPrimary  = "primary"
	DialectSQLState = "sqlstate"
)

// SQLStateSnippetLimit bounds the raw snippet kept for SQLSTATE matches,
// whose lazy gap can span a large part of the document.
const SQLStateSnippetLimit = 150

// Dialect is one textual phrasing of a missing-table error.
type Dialect struct {
	// Name identifies the dialect in records and logs.
	Name string
	// Pattern must capture the database in group 1 and the table in group 2.
	Pattern *regexp.Regexp
	// Normalize cleans a captured identifier.
	Normalize func(string) string
	// InferOperation enables keyword inference from the surrounding text.
	// When false the record's operation is OpUnknown.
	InferOperation bool
	// SnippetLimit truncates RawSnippet to this many characters. Zero keeps the full match.
	SnippetLimit int
	// Dedup skips matches whose (database, table) was already produced
	// by an earlier dialect or an earlier match of this one.
	Dedup bool
}

// Registry holds the ordered list of dialects applied during extraction.
type Registry struct {
	dialects []Dialect
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a dialect. Dialects run in registration order.
func (r *Registry) Register(d Dialect) {
	r.dialects = append(r.dialects, d)
}

// Dialects returns all registered dialects in order.
func (r *Registry) Dialects() []Dialect {
	return r.dialects
}

// spaceClass is the body of a character class matching Unicode whitespace,
// including NBSP and the other separators that \s alone misses.
const spaceClass = `\s\v\x{1c}-\x{1f}\x{85}\p{Z}`

// space matches one whitespace character of any script.
const space = `[` + spaceClass + `]`

var (
	// primaryPattern matches "Table 'db.table' doesn't exist" with any whitespace,
	// including line breaks, between the tokens. The database is everything up
	// to the last dot inside the quotes.
	primaryPattern = regexp.MustCompile( //nolint:gochecknoglobals // compiled once
		`(?is)Table`+space+`+'([^']+)\.([^']+?)'`+space+`+doesn't`+space+`+exist`,
	)

	// sqlStatePattern matches the SQLSTATE[42S02] phrasing. The gap between the
	// tag and the Table clause is unbounded; RE2 keeps the scan linear.
	sqlStatePattern = regexp.MustCompile( //nolint:gochecknoglobals // compiled once
		`(?is)SQLSTATE\[42S02\].*?Table`+space+`+'?([^'.`+spaceClass+`]+)\.([^'`+spaceClass+`]+)'?`+
			space+`+doesn't`+space+`+exist`,
	)

	spaceRun = regexp.MustCompile(space + `+`) //nolint:gochecknoglobals // compiled once
)

// NewDefaultRegistry returns a Registry with the primary and SQLSTATE dialects.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(PrimaryDialect())
	r.Register(SQLStateDialect())

	return r
}

// PrimaryDialect matches the plain "Table '<db>.<table>' doesn't exist" phrasing.
// Identifiers split across lines by terminal wrapping are collapsed back together.
// Repeated matches are all kept since repeats feed the corruption heuristic.
func PrimaryDialect() Dialect {
	return Dialect{
		Name:           DialectPrimary,
		Pattern:        primaryPattern,
		Normalize:      CollapseWhitespace,
		InferOperation: true,
	}
}

// SQLStateDialect matches "SQLSTATE[42S02] ... Table '<db>.<table>' doesn't exist".
func SQLStateDialect() Dialect {
	return Dialect{
		Name:         DialectSQLState,
		Pattern:      sqlStatePattern,
		Normalize:    strings.TrimSpace,
		SnippetLimit: SQLStateSnippetLimit,
		Dedup:        true,
	}
}

// CollapseWhitespace removes every whitespace character from s.
func CollapseWhitespace(s string) string {
	return spaceRun.ReplaceAllString(s, "")
}
