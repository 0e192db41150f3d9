package extractor

// Operation is the SQL operation inferred from the text surrounding a match.
type Operation string

const (
	// OpCreate indicates a CREATE TABLE statement was in play.
	OpCreate Operation = "CREATE"
	// OpAlter indicates an ALTER TABLE statement was in play.
	OpAlter Operation = "ALTER"
	// OpDrop indicates a DROP TABLE statement was in play.
	OpDrop Operation = "DROP"
	// OpUnknown is used when no operation keyword was found near the match.
	OpUnknown Operation = "UNKNOWN"
)

// Kind classifies the detected error. Only missing tables are detected today.
type Kind string

// KindMissingTable marks a "table doesn't exist" assertion.
const KindMissingTable Kind = "MISSING_TABLE"

// ErrorRecord is one detected "missing table" assertion.
type ErrorRecord struct {
	Database   string    // Database (schema) name, whitespace-stripped
	Table      string    // Table name, whitespace-stripped
	Operation  Operation // Operation inferred from the surrounding text
	Kind       Kind      // Always KindMissingTable
	RawSnippet string    // Matched text, bounded by the dialect's snippet limit
	Dialect    string    // Name of the dialect that produced the record
	Statement  string    // SQL appended by Laravel as "(SQL: ...)", if any
}

// Key returns the (database, table) identity used for dedup and counting.
func (r ErrorRecord) Key() TableKey {
	return TableKey{Database: r.Database, Table: r.Table}
}

// TableKey identifies a table within a database.
type TableKey struct {
	Database string
	Table    string
}

// String returns the qualified "database.table" form.
func (k TableKey) String() string {
	return k.Database + "." + k.Table
}
