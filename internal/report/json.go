package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aqasim81/migration-healer/internal/analyzer"
)

// jsonError is one entry of the "errors" array.
type jsonError struct {
	Database  string `json:"database"`
	Table     string `json:"table"`
	Operation string `json:"operation"`
	Type      string `json:"type"`
}

// jsonDocument is the machine-readable payload consumed by automation.
// Field names and nesting are a compatibility surface.
type jsonDocument struct {
	ErrorCount   int                    `json:"error_count"`
	Errors       []jsonError            `json:"errors"`
	Dependencies analyzer.DependencyMap `json:"dependencies"`
	Suggestions  analyzer.HealPlan      `json:"suggestions"`
}

// JSON writes the analysis as an indented JSON document.
func JSON(w io.Writer, a *analyzer.Analysis) error {
	doc := jsonDocument{
		ErrorCount:   len(a.Records),
		Errors:       make([]jsonError, 0, len(a.Records)),
		Dependencies: a.Dependencies,
		Suggestions:  a.Plan,
	}

	for _, r := range a.Records {
		doc.Errors = append(doc.Errors, jsonError{
			Database:  r.Database,
			Table:     r.Table,
			Operation: string(r.Operation),
			Type:      string(r.Kind),
		})
	}

	if doc.Suggestions.DatabasesAffected == nil {
		doc.Suggestions.DatabasesAffected = []string{}
	}

	if doc.Suggestions.Actions == nil {
		doc.Suggestions.Actions = []analyzer.Suggestion{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}

	return nil
}
