package analyzer

// Narrative is the remediation story told to the user.
type Narrative int

const (
	// NarrativeIgnore says the missing tables are safe to ignore.
	NarrativeIgnore Narrative = iota
	// NarrativeNukeAndReimport says the database is corrupted and should be rebuilt.
	NarrativeNukeAndReimport
)

// SelectNarrative picks the remediation story for a corruption verdict.
func SelectNarrative(corrupted bool) Narrative {
	if corrupted {
		return NarrativeNukeAndReimport
	}

	return NarrativeIgnore
}

// String returns the kebab-case label for the narrative.
func (n Narrative) String() string {
	switch n {
	case NarrativeIgnore:
		return "ignore"
	case NarrativeNukeAndReimport:
		return "nuke-and-reimport"
	default:
		return "unknown"
	}
}
