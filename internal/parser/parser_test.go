package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqasim81/migration-healer/internal/parser"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "literals become placeholders",
			sql:  "insert into `orders` (`id`) values (42)",
			want: `insert into "orders" ("id") values ($1)`,
		},
		{
			name: "string literal in where clause",
			sql:  "  select * from `06_orders` where `status` = 'open'  ",
			want: `select * from "06_orders" where "status" = $1`,
		},
		{
			name: "unparseable SQL is returned trimmed",
			sql:  "  this is not ( sql  ",
			want: "this is not ( sql",
		},
		{
			name: "empty input",
			sql:  "   \n\t",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parser.Normalize(tt.sql))
		})
	}
}

func TestNormalize_ddlKeepsIdentifiers(t *testing.T) {
	t.Parallel()

	got := parser.Normalize("alter table `orders` add `total` int")
	assert.Contains(t, got, `"orders"`)
	assert.Contains(t, got, `"total"`)
}
