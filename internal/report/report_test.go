package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/migration-healer/internal/analyzer"
	"github.com/aqasim81/migration-healer/internal/extractor"
	"github.com/aqasim81/migration-healer/internal/report"
)

func analyze(t *testing.T, input string) *analyzer.Analysis {
	t.Helper()

	return analyzer.New().Analyze(extractor.Extract(input))
}

func TestText_noErrors(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	report.Text(buf, analyze(t, "Nothing to migrate."), report.TextOptions{})

	assert.Equal(t, report.NoErrorsMessage+"\n", buf.String())
}

func TestText_ignoreNarrative(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	report.Text(buf, analyze(t, "Table 'sherpa-eu.orders' doesn't exist"), report.TextOptions{})

	out := buf.String()
	assert.Contains(t, out, "Found 1 missing table error(s) across 1 database(s)")
	assert.Contains(t, out, "📊 Database: sherpa-eu")
	assert.Contains(t, out, "   • orders")
	assert.Contains(t, out, "1. IGNORE (Safest - already done automatically)")
	assert.Contains(t, out, "   → migrate check sherpa-eu")
	assert.Contains(t, out, `\DB::connection('sherpa-eu')->select('SHOW TABLES LIKE "orders"');`)
	assert.Contains(t, out, "5. FRESH REBUILD (DESTRUCTIVE - last resort)")
	assert.NotContains(t, out, "DATABASE CORRUPTION DETECTED")
	assert.NotContains(t, out, "NUKE AND REIMPORT")
	assert.Contains(t, out, "Error #1:\n  Database: sherpa-eu\n  Table: orders\n  Operation: UNKNOWN\n  Type: MISSING_TABLE\n")
}

func TestText_corruptionNarrative(t *testing.T) {
	t.Parallel()

	input := "Table 'sherpa-eu.06_orders' doesn't exist\nTable 'sherpa-eu.06_orders' doesn't exist"

	buf := new(bytes.Buffer)
	report.Text(buf, analyze(t, input), report.TextOptions{})

	out := buf.String()
	assert.Contains(t, out, "🔥 DATABASE CORRUPTION DETECTED")
	assert.Contains(t, out, "Trigger: core table sherpa-eu.06_orders failed 2 times")
	assert.Contains(t, out, "1. NUKE AND REIMPORT (Recommended for corrupted databases)")
	assert.Contains(t, out, "   → nuke --verify sherpa  # Check what will be deleted")
	assert.Contains(t, out, "   → cluster-import --client sherpa  # Reimport fresh data")
	assert.NotContains(t, out, "1. IGNORE")
	assert.NotContains(t, out, "5. FRESH REBUILD")
	assert.Contains(t, out, "Error #2:")
}

func TestText_verifySectionIsCapped(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"Table 'acme.a' doesn't exist",
		"Table 'acme.b' doesn't exist",
		"Table 'acme.c' doesn't exist",
		"Table 'acme.d' doesn't exist",
	}, "\n")

	buf := new(bytes.Buffer)
	report.Text(buf, analyze(t, input), report.TextOptions{})

	out := buf.String()
	assert.Equal(t, report.DefaultReportVerifyLimit, strings.Count(out, "SHOW TABLES LIKE"))
	assert.Contains(t, out, "Trigger: 4 distinct tables missing in acme")
	assert.Contains(t, out, "   Missing 4 table(s):")
}

func TestText_statementAndCheckCommands(t *testing.T) {
	t.Parallel()

	a := analyze(t, "Table 'acme.orders' doesn't exist (SQL: insert into `orders` (`id`) values (7))")
	cmds := analyzer.BuildCheckCommands("app", a.Dependencies, analyzer.MySQLTarget{Host: "mysql-service", User: "root"})

	buf := new(bytes.Buffer)
	report.Text(buf, a, report.TextOptions{CheckCommands: cmds})

	out := buf.String()
	assert.Contains(t, out, "🐳 TABLE CHECK COMMANDS")
	assert.Contains(t, out, `docker exec -i app mysql -u root -h mysql-service acme -N -e "SHOW TABLES LIKE 'orders';"`)
	assert.Contains(t, out, `  SQL: insert into "orders" ("id") values ($1)`)
}

func TestText_longMultibyteStatementStaysValidUTF8(t *testing.T) {
	t.Parallel()

	input := "Table 'acme.orders' doesn't exist (SQL: insert into `" + strings.Repeat("ß", 300) + "` (`id`) values (1))"

	buf := new(bytes.Buffer)
	report.Text(buf, analyze(t, input), report.TextOptions{})

	out := buf.String()
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "ßß...\n")
}

func TestJSON_shape(t *testing.T) {
	t.Parallel()

	input := "alter table `orders` add `x` int\n" +
		"Table 'shop.orders' doesn't exist\n" +
		"Table 'acme.users' doesn't exist\n" +
		"Table 'shop.carts' doesn't exist\n"

	buf := new(bytes.Buffer)
	require.NoError(t, report.JSON(buf, analyze(t, input)))

	assert.JSONEq(t, `{
		"error_count": 3,
		"errors": [
			{"database": "shop", "table": "orders", "operation": "ALTER", "type": "MISSING_TABLE"},
			{"database": "acme", "table": "users", "operation": "ALTER", "type": "MISSING_TABLE"},
			{"database": "shop", "table": "carts", "operation": "ALTER", "type": "MISSING_TABLE"}
		],
		"dependencies": {"shop": ["carts", "orders"], "acme": ["users"]},
		"suggestions": {
			"databases_affected": ["shop", "acme"],
			"total_missing_tables": 3,
			"actions": [
				{"priority": 1, "type": "check_status", "command": "migrate check shop", "description": "Check migration status for shop"},
				{"priority": 1, "type": "check_status", "command": "migrate check acme", "description": "Check migration status for acme"},
				{"priority": 2, "type": "heal", "command": "migrate heal", "description": "Attempt to run pending migrations"},
				{"priority": 3, "type": "verify", "command": "check table shop.carts", "description": "Verify if carts actually exists in shop"},
				{"priority": 3, "type": "verify", "command": "check table shop.orders", "description": "Verify if orders actually exists in shop"},
				{"priority": 3, "type": "verify", "command": "check table acme.users", "description": "Verify if users actually exists in acme"}
			]
		}
	}`, buf.String())

	assert.True(t, strings.Index(buf.String(), `"shop": [`) < strings.Index(buf.String(), `"acme": [`),
		"dependencies keep first-seen order")
}

func TestJSON_noErrors_rendersEmptyCollections(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	require.NoError(t, report.JSON(buf, analyze(t, "")))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.InDelta(t, 0, doc["error_count"], 0)
	assert.Equal(t, []any{}, doc["errors"])
	assert.Equal(t, map[string]any{}, doc["dependencies"])
	assert.NotContains(t, buf.String(), "null")
}

func TestShortenSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sql   string
		width int
		want  string
	}{
		{name: "fits", sql: "drop table `jobs`", width: 40, want: "drop table `jobs`"},
		{name: "exact width", sql: "drop table `jobs`", width: 17, want: "drop table `jobs`"},
		{name: "cut with marker", sql: `alter table "orders" add "total" int`, width: 15, want: `alter table ...`},
		{name: "width too small", sql: "drop table `jobs`", width: 3, want: "drop table `jobs`"},
		{name: "multibyte kept whole", sql: `insert into "zäöü_straße" values ($1)`, width: 20, want: `insert into "zäöü...`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := report.ShortenSQL(tt.sql, tt.width)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), max(tt.width, utf8.RuneCountInString(tt.sql)))
		})
	}
}
