package parser //nolint:revive // intentional: does not conflict with go/parser in internal package

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Normalize returns sql with literal constants replaced by $n placeholders,
// so repeated failures of the same statement read identically. MySQL backtick
// quoting is converted to double quotes first. SQL that does not parse is
// returned trimmed but otherwise unchanged.
func Normalize(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return ""
	}

	normalized, err := pg_query.Normalize(strings.ReplaceAll(trimmed, "`", `"`))
	if err != nil {
		return trimmed
	}

	return normalized
}
