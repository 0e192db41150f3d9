package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aqasim81/migration-healer/internal/extractor"
)

// DependencyMap maps each database to the sorted, distinct names of its
// missing tables. Databases keep the order in which they were first seen.
type DependencyMap struct {
	order  []string
	tables map[string][]string
}

// GroupByDatabase builds a DependencyMap from extracted records.
// Table names are sorted ascending and appear once per database no matter
// how many records reference them.
func GroupByDatabase(records []extractor.ErrorRecord) DependencyMap {
	sets := make(map[string]map[string]struct{})

	var order []string

	for _, r := range records {
		set, ok := sets[r.Database]
		if !ok {
			set = make(map[string]struct{})
			sets[r.Database] = set
			order = append(order, r.Database)
		}

		set[r.Table] = struct{}{}
	}

	tables := make(map[string][]string, len(sets))

	for db, set := range sets {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}

		sort.Strings(names)
		tables[db] = names
	}

	return DependencyMap{order: order, tables: tables}
}

// Databases returns the database names in first-seen order.
func (d DependencyMap) Databases() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)

	return out
}

// Tables returns the sorted missing tables of db, or nil if db is unknown.
func (d DependencyMap) Tables(db string) []string {
	names, ok := d.tables[db]
	if !ok {
		return nil
	}

	out := make([]string, len(names))
	copy(out, names)

	return out
}

// Len returns the number of databases.
func (d DependencyMap) Len() int {
	return len(d.order)
}

// TotalTables returns the number of distinct (database, table) pairs.
func (d DependencyMap) TotalTables() int {
	total := 0
	for _, names := range d.tables {
		total += len(names)
	}

	return total
}

// MarshalJSON encodes the map as a JSON object whose keys follow
// first-seen database order.
func (d DependencyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, db := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(db)
		if err != nil {
			return nil, fmt.Errorf("encoding database name %q: %w", db, err)
		}

		val, err := json.Marshal(d.tables[db])
		if err != nil {
			return nil, fmt.Errorf("encoding tables of %q: %w", db, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
