package analyzer

import "github.com/aqasim81/migration-healer/internal/extractor"

// Default corruption thresholds.
const (
	DefaultMinDistinctTables = 3
	DefaultMinRepeats        = 2
)

// Rule names the corruption rule that produced a verdict.
type Rule string

const (
	// RuleNone means no rule fired.
	RuleNone Rule = ""
	// RuleManyMissingTables fires when one database misses too many distinct tables.
	RuleManyMissingTables Rule = "many-missing-tables"
	// RuleRepeatedCoreTable fires when a core table fails repeatedly.
	RuleRepeatedCoreTable Rule = "repeated-core-table"
)

// Policy holds the corruption thresholds. A threshold of zero or less
// disables its rule.
type Policy struct {
	MinDistinctTables int
	MinRepeats        int
	// IsCoreTable reports whether a table belongs to the ordered core
	// migrations. Nil means IsDigitPrefixed.
	IsCoreTable func(table string) bool
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinDistinctTables: DefaultMinDistinctTables,
		MinRepeats:        DefaultMinRepeats,
		IsCoreTable:       IsDigitPrefixed,
	}
}

// IsDigitPrefixed reports whether table starts with an ASCII digit,
// the naming used for numbered schema steps such as "06_orders".
func IsDigitPrefixed(table string) bool {
	return table != "" && table[0] >= '0' && table[0] <= '9'
}

// AnyTable treats every table as core, so any repeated failure counts.
func AnyTable(string) bool { return true }

// Verdict is the outcome of corruption classification.
type Verdict struct {
	Corrupted bool
	Rule      Rule
	Database  string // Database that triggered the rule
	Table     string // Table that triggered RuleRepeatedCoreTable
	Count     int    // Distinct tables (rule A) or repeat count (rule B)
}

// DetectCorruption classifies records with the default policy.
func DetectCorruption(records []extractor.ErrorRecord, deps DependencyMap) bool {
	return Classify(records, deps, DefaultPolicy()).Corrupted
}

// Classify applies the policy's rules in order: first a per-database count of
// distinct missing tables from deps, then repeat counts of (database, table)
// pairs over the raw records restricted to core tables.
func Classify(records []extractor.ErrorRecord, deps DependencyMap, p Policy) Verdict {
	if p.MinDistinctTables > 0 {
		for _, db := range deps.order {
			if n := len(deps.tables[db]); n >= p.MinDistinctTables {
				return Verdict{Corrupted: true, Rule: RuleManyMissingTables, Database: db, Count: n}
			}
		}
	}

	if p.MinRepeats <= 0 {
		return Verdict{}
	}

	isCore := p.IsCoreTable
	if isCore == nil {
		isCore = IsDigitPrefixed
	}

	counts := make(map[extractor.TableKey]int)

	var order []extractor.TableKey

	for _, r := range records {
		key := r.Key()
		if counts[key] == 0 {
			order = append(order, key)
		}

		counts[key]++
	}

	for _, key := range order {
		if counts[key] >= p.MinRepeats && isCore(key.Table) {
			return Verdict{
				Corrupted: true,
				Rule:      RuleRepeatedCoreTable,
				Database:  key.Database,
				Table:     key.Table,
				Count:     counts[key],
			}
		}
	}

	return Verdict{}
}
