package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aqasim81/migration-healer/internal/analyzer"
	"github.com/aqasim81/migration-healer/internal/extractor"
	"github.com/aqasim81/migration-healer/internal/parser"
)

// DefaultReportVerifyLimit caps the per-database tables listed under
// "VERIFY TABLE EXISTENCE".
const DefaultReportVerifyLimit = 3

// maxStatementLen bounds SQL shown in the technical details.
const maxStatementLen = 200

const ruleWidth = 70

// NoErrorsMessage is printed when no missing-table error was found.
const NoErrorsMessage = "✅ No migration errors detected!"

// TextOptions tunes the prose report.
type TextOptions struct {
	// VerifyLimit caps tables per database in the verify section.
	// Zero or less uses DefaultReportVerifyLimit.
	VerifyLimit int
	// CheckCommands, when non-empty, are listed in their own section.
	CheckCommands []string
}

// Text writes the human-readable remediation report for a.
func Text(w io.Writer, a *analyzer.Analysis, opts TextOptions) {
	if !a.HasErrors() {
		fmt.Fprintln(w, NoErrorsMessage)
		return
	}

	verifyLimit := opts.VerifyLimit
	if verifyLimit <= 0 {
		verifyLimit = DefaultReportVerifyLimit
	}

	deps := a.Dependencies
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	fmt.Fprintf(w, "\n%s\n🔍 MIGRATION DEPENDENCY ANALYSIS\n%s\n", heavy, heavy)
	fmt.Fprintf(w, "\nFound %d missing table error(s) across %d database(s)\n\n", len(a.Records), deps.Len())

	for _, db := range deps.Databases() {
		tables := deps.Tables(db)

		fmt.Fprintf(w, "\n📊 Database: %s\n", db)
		fmt.Fprintf(w, "   Missing %d table(s):\n", len(tables))

		for _, table := range tables {
			fmt.Fprintf(w, "   • %s\n", table)
		}
	}

	if a.Corrupted() {
		writeCorruptionWarning(w, a.Verdict)
	}

	fmt.Fprintf(w, "\n%s\n💡 RECOMMENDED SOLUTIONS\n%s\n", light, light)

	switch a.Narrative {
	case analyzer.NarrativeNukeAndReimport:
		fmt.Fprintln(w, "\n🔥 CORRUPTION DETECTED - Recommended action:")
		fmt.Fprintln(w, "\n1. NUKE AND REIMPORT (Recommended for corrupted databases)")

		for _, db := range deps.Databases() {
			client := analyzer.ClientName(db)
			fmt.Fprintln(w, "   → export ENABLE_NUKE=1")
			fmt.Fprintf(w, "   → nuke --verify %s  # Check what will be deleted\n", client)
			fmt.Fprintf(w, "   → nuke %s           # Delete corrupted database\n", client)
			fmt.Fprintf(w, "   → cluster-import --client %s  # Reimport fresh data\n", client)
		}

		fmt.Fprintln(w, "\n   ⚠️  This will DELETE all data and reimport from backup")
	default:
		fmt.Fprintln(w, "\n1. IGNORE (Safest - already done automatically)")
		fmt.Fprintln(w, "   → These warnings don't prevent other migrations from running")
		fmt.Fprintln(w, "   → Common in legacy/imported databases")
		fmt.Fprintln(w, "   → No action needed unless functionality is broken")
	}

	fmt.Fprintln(w, "\n2. CHECK MIGRATION STATUS")

	for _, db := range deps.Databases() {
		fmt.Fprintf(w, "   → migrate check %s\n", db)
	}

	fmt.Fprintln(w, "   → Look for pending migrations that create these tables")

	fmt.Fprintln(w, "\n3. VERIFY TABLE EXISTENCE")
	fmt.Fprintln(w, "   → Run: migrate tinker")

	for _, db := range deps.Databases() {
		tables := deps.Tables(db)
		if len(tables) > verifyLimit {
			tables = tables[:verifyLimit]
		}

		for _, table := range tables {
			fmt.Fprintf(w, "   → \\DB::connection('%s')->select('SHOW TABLES LIKE \"%s\"');\n", db, table)
		}
	}

	fmt.Fprintln(w, "\n4. RUN HEAL ATTEMPT")
	fmt.Fprintln(w, "   → migrate heal")
	fmt.Fprintln(w, "   → Attempts to run pending migrations that create missing tables")

	if a.Narrative != analyzer.NarrativeNukeAndReimport {
		fmt.Fprintln(w, "\n5. FRESH REBUILD (DESTRUCTIVE - last resort)")
		fmt.Fprintln(w, "   → migrate fresh customers")
		fmt.Fprintln(w, "   ⚠️  WARNING: Deletes all data in customer databases!")
	}

	if len(opts.CheckCommands) > 0 {
		fmt.Fprintf(w, "\n%s\n🐳 TABLE CHECK COMMANDS\n%s\n", light, light)

		for _, c := range opts.CheckCommands {
			fmt.Fprintf(w, "   %s\n", c)
		}
	}

	fmt.Fprintf(w, "\n%s\n📝 TECHNICAL DETAILS\n%s\n", heavy, heavy)

	for i, r := range a.Records {
		fmt.Fprintf(w, "\nError #%d:\n", i+1)
		fmt.Fprintf(w, "  Database: %s\n", r.Database)
		fmt.Fprintf(w, "  Table: %s\n", r.Table)
		fmt.Fprintf(w, "  Operation: %s\n", r.Operation)
		fmt.Fprintf(w, "  Type: %s\n", r.Kind)

		if r.Statement != "" {
			fmt.Fprintf(w, "  SQL: %s\n", ShortenSQL(parser.Normalize(r.Statement), maxStatementLen))
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", heavy)
}

func writeCorruptionWarning(w io.Writer, v analyzer.Verdict) {
	banner := strings.Repeat("⚠️ ", ruleWidth/2) //nolint:mnd // two columns per glyph

	fmt.Fprintf(w, "\n%s\n🔥 DATABASE CORRUPTION DETECTED\n%s\n", banner, banner)
	fmt.Fprintln(w, "\nThis database appears to be corrupted or incomplete.")
	fmt.Fprintln(w, "Multiple core tables are missing, suggesting:")
	fmt.Fprintln(w, "  • Incomplete import")
	fmt.Fprintln(w, "  • Partial restoration")
	fmt.Fprintln(w, "  • Database corruption")

	switch v.Rule {
	case analyzer.RuleManyMissingTables:
		fmt.Fprintf(w, "\nTrigger: %d distinct tables missing in %s\n", v.Count, v.Database)
	case analyzer.RuleRepeatedCoreTable:
		fmt.Fprintf(w, "\nTrigger: core table %s.%s failed %d times\n", v.Database, v.Table, v.Count)
	case analyzer.RuleNone:
	}

	fmt.Fprintln(w, "\n💣 RECOMMENDED: Use 'nuke' command to clean up and reimport")
}

// ellipsis marks a shortened statement.
const ellipsis = "..."

// ShortenSQL limits sql to width characters, ending in "..." when cut.
// Widths too small to hold the marker leave sql untouched.
func ShortenSQL(sql string, width int) string {
	if width <= len(ellipsis) || utf8.RuneCountInString(sql) <= width {
		return sql
	}

	return extractor.Truncate(sql, width-len(ellipsis)) + ellipsis
}
