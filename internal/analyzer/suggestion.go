package analyzer

import (
	"fmt"
	"strings"
)

// DefaultVerifyLimit caps verify suggestions per database.
const DefaultVerifyLimit = 5

// SuggestionType tags a Suggestion.
type SuggestionType string

// Suggestion types, in the order they are emitted.
const (
	SuggestCheckStatus SuggestionType = "check_status"
	SuggestHeal        SuggestionType = "heal"
	SuggestVerify      SuggestionType = "verify"
)

// Suggestion is a recommended action. It is never executed by this tool.
type Suggestion struct {
	Priority    int            `json:"priority"`
	Type        SuggestionType `json:"type"`
	Command     string         `json:"command"`
	Description string         `json:"description"`
}

// HealPlan is the structured suggestion payload.
type HealPlan struct {
	DatabasesAffected  []string     `json:"databases_affected"`
	TotalMissingTables int          `json:"total_missing_tables"`
	Actions            []Suggestion `json:"actions"`
}

// BuildSuggestions builds suggestions with the default verify cap.
func BuildSuggestions(deps DependencyMap) []Suggestion {
	return BuildSuggestionsLimit(deps, DefaultVerifyLimit)
}

// BuildSuggestionsLimit emits one check_status per database, a single heal,
// then verify suggestions for up to limit tables per database. A limit of
// zero or less verifies every table.
func BuildSuggestionsLimit(deps DependencyMap, limit int) []Suggestion {
	actions := make([]Suggestion, 0, deps.Len()+1+deps.TotalTables())

	for _, db := range deps.order {
		actions = append(actions, Suggestion{
			Priority:    1,
			Type:        SuggestCheckStatus,
			Command:     "migrate check " + db,
			Description: "Check migration status for " + db,
		})
	}

	actions = append(actions, Suggestion{
		Priority:    2, //nolint:mnd // heal is always second
		Type:        SuggestHeal,
		Command:     "migrate heal",
		Description: "Attempt to run pending migrations",
	})

	for _, db := range deps.order {
		for _, table := range capTables(deps.tables[db], limit) {
			actions = append(actions, Suggestion{
				Priority:    3, //nolint:mnd // verification comes last
				Type:        SuggestVerify,
				Command:     fmt.Sprintf("check table %s.%s", db, table),
				Description: fmt.Sprintf("Verify if %s actually exists in %s", table, db),
			})
		}
	}

	return actions
}

// BuildHealPlan wraps the suggestions with the affected databases and totals.
func BuildHealPlan(deps DependencyMap, verifyLimit int) HealPlan {
	return HealPlan{
		DatabasesAffected:  deps.Databases(),
		TotalMissingTables: deps.TotalTables(),
		Actions:            BuildSuggestionsLimit(deps, verifyLimit),
	}
}

// ClientName returns the client a database belongs to: the part before the
// first dash, or the whole name when there is none.
func ClientName(database string) string {
	client, _, _ := strings.Cut(database, "-")

	return client
}

// MySQLTarget identifies the MySQL service reached from inside the container.
type MySQLTarget struct {
	Host string
	User string
}

// BuildCheckCommands returns one docker exec command per missing table that
// asks MySQL whether the table exists. The commands are only printed.
func BuildCheckCommands(container string, deps DependencyMap, target MySQLTarget) []string {
	commands := make([]string, 0, deps.TotalTables())

	for _, db := range deps.order {
		for _, table := range deps.tables[db] {
			commands = append(commands, fmt.Sprintf(
				`docker exec -i %s mysql -u %s -h %s %s -N -e "SHOW TABLES LIKE '%s';"`,
				container, target.User, target.Host, db, table,
			))
		}
	}

	return commands
}

func capTables(tables []string, limit int) []string {
	if limit <= 0 || len(tables) <= limit {
		return tables
	}

	return tables[:limit]
}
