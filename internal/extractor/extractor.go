package extractor

import (
	"io"
	"regexp"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// statementPattern captures the SQL Laravel appends right after the error
// message, e.g. "(SQL: alter table ...)" or "(Connection: mysql, SQL: ...)".
var statementPattern = regexp.MustCompile( //nolint:gochecknoglobals // compiled once
	`^[ \t]*\((?:Connection:[^,\n]*,\s*)?SQL:\s*([^\n]*)\)`,
)

// Option configures the Extractor.
type Option func(*Extractor)

// Extractor turns raw migration output into ErrorRecords.
type Extractor struct {
	registry     *Registry
	windowBefore int
	windowAfter  int
	logger       logrus.FieldLogger
}

// New creates an Extractor with the default dialects and window.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		registry:     NewDefaultRegistry(),
		windowBefore: DefaultWindowBefore,
		windowAfter:  DefaultWindowAfter,
		logger:       discardLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WithRegistry sets a custom dialect registry.
func WithRegistry(r *Registry) Option {
	return func(e *Extractor) { e.registry = r }
}

// WithWindow sets how many bytes before and after a match are searched
// for operation keywords.
func WithWindow(before, after int) Option {
	return func(e *Extractor) {
		e.windowBefore = before
		e.windowAfter = after
	}
}

// WithLogger sets the logger used for per-match debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Extractor) { e.logger = l }
}

// Extract runs the default extractor over raw.
func Extract(raw string) []ErrorRecord {
	return New().Extract(raw)
}

// Extract strips ANSI sequences from raw and applies every dialect in order.
// Records come back grouped by dialect, each group in document order.
// Text that matches no dialect yields an empty, non-nil slice.
func (e *Extractor) Extract(raw string) []ErrorRecord {
	text := StripANSI(raw)
	records := []ErrorRecord{}
	seen := make(map[TableKey]struct{})

	for _, d := range e.registry.Dialects() {
		for _, m := range d.Pattern.FindAllStringSubmatchIndex(text, -1) {
			rec, ok := e.buildRecord(text, d, m)
			if !ok {
				continue
			}

			log := e.logger.WithFields(logrus.Fields{
				"dialect":  d.Name,
				"database": rec.Database,
				"table":    rec.Table,
			})

			if _, dup := seen[rec.Key()]; dup && d.Dedup {
				log.Debug("skipping duplicate missing table")
				continue
			}

			seen[rec.Key()] = struct{}{}
			records = append(records, rec)

			log.WithField("operation", rec.Operation).Debug("missing table detected")
		}
	}

	e.logger.WithField("count", len(records)).Debug("extraction complete")

	return records
}

// buildRecord converts submatch indices into an ErrorRecord. It reports false
// when an identifier is empty after normalization.
func (e *Extractor) buildRecord(text string, d Dialect, m []int) (ErrorRecord, bool) {
	if len(m) < 6 || m[2] < 0 || m[4] < 0 {
		return ErrorRecord{}, false
	}

	normalize := d.Normalize
	if normalize == nil {
		normalize = func(s string) string { return s }
	}

	database := normalize(text[m[2]:m[3]])
	table := normalize(text[m[4]:m[5]])

	if database == "" || table == "" {
		return ErrorRecord{}, false
	}

	op := OpUnknown
	if d.InferOperation {
		op = InferOperation(text, m[0], m[1], e.windowBefore, e.windowAfter)
	}

	return ErrorRecord{
		Database:   database,
		Table:      table,
		Operation:  op,
		Kind:       KindMissingTable,
		RawSnippet: Truncate(text[m[0]:m[1]], d.SnippetLimit),
		Dialect:    d.Name,
		Statement:  captureStatement(text[m[1]:]),
	}, true
}

// captureStatement returns the SQL of a "(SQL: ...)" tail at the start of rest.
func captureStatement(rest string) string {
	sm := statementPattern.FindStringSubmatch(rest)
	if sm == nil {
		return ""
	}

	return sm[1]
}

// Truncate keeps the first limit characters of s.
// A limit of zero or less returns s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}

	cut := 0
	for n := 0; n < limit && cut < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[cut:])
		cut += size
	}

	return s[:cut]
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}
