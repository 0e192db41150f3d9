package analyzer

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/aqasim81/migration-healer/internal/extractor"
)

// Option configures the Analyzer.
type Option func(*Analyzer)

// Analyzer groups extracted records and classifies them for corruption.
type Analyzer struct {
	policy      Policy
	verifyLimit int
	logger      logrus.FieldLogger
}

// New creates a new Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	l := logrus.New()
	l.SetOutput(io.Discard)

	a := &Analyzer{
		policy:      DefaultPolicy(),
		verifyLimit: DefaultVerifyLimit,
		logger:      l,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithPolicy sets the corruption thresholds.
func WithPolicy(p Policy) Option {
	return func(a *Analyzer) { a.policy = p }
}

// WithVerifyLimit sets how many verify suggestions are emitted per database.
func WithVerifyLimit(n int) Option {
	return func(a *Analyzer) { a.verifyLimit = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// Analyze groups records by database, classifies the result, and builds the heal plan.
func (a *Analyzer) Analyze(records []extractor.ErrorRecord) *Analysis {
	deps := GroupByDatabase(records)
	verdict := Classify(records, deps, a.policy)

	a.logger.WithFields(logrus.Fields{
		"records":   len(records),
		"databases": deps.Len(),
		"tables":    deps.TotalTables(),
	}).Debug("dependency analysis complete")

	if verdict.Corrupted {
		a.logger.WithFields(logrus.Fields{
			"rule":     verdict.Rule,
			"database": verdict.Database,
			"table":    verdict.Table,
			"count":    verdict.Count,
		}).Debug("corruption rule fired")
	}

	return &Analysis{
		Records:      records,
		Dependencies: deps,
		Verdict:      verdict,
		Narrative:    SelectNarrative(verdict.Corrupted),
		Plan:         BuildHealPlan(deps, a.verifyLimit),
	}
}
