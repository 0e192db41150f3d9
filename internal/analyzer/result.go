package analyzer

import "github.com/aqasim81/migration-healer/internal/extractor"

// Analysis holds everything derived from one run's records.
type Analysis struct {
	Records      []extractor.ErrorRecord
	Dependencies DependencyMap
	Verdict      Verdict
	Narrative    Narrative
	Plan         HealPlan
}

// HasErrors returns true if any missing-table error was extracted.
func (a *Analysis) HasErrors() bool {
	return len(a.Records) > 0
}

// Corrupted returns true if the corruption verdict is positive.
func (a *Analysis) Corrupted() bool {
	return a.Verdict.Corrupted
}
