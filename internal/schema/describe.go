// Package schema introspects the target database catalog and renders the
// table layout that grounds generated SQL in real structure.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Schema preserves catalog order: tables by name, columns by ordinal
// position.
type Schema []Table

// Columns returns the column list for a table, or false if the table is not
// present.
func (s Schema) Columns(table string) ([]string, bool) {
	for _, t := range s {
		if t.Name == table {
			return t.Columns, true
		}
	}
	return nil, false
}

// Prompt renders the schema as one "Table(Col1, Col2)" line per table, the
// shape the generation prompt embeds.
func (s Schema) Prompt() string {
	var b strings.Builder
	for i, t := range s {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.Name)
		b.WriteByte('(')
		b.WriteString(strings.Join(t.Columns, ", "))
		b.WriteByte(')')
	}
	return b.String()
}

const describeQuery = `
SELECT TABLE_NAME, COLUMN_NAME
FROM INFORMATION_SCHEMA.COLUMNS
ORDER BY TABLE_NAME, ORDINAL_POSITION`

type Describer struct {
	db *sql.DB
}

func NewDescriber(db *sql.DB) *Describer {
	return &Describer{db: db}
}

// Describe loads the catalog fresh on every call. Nothing is cached: the
// result lives for a single request.
func (d *Describer) Describe(ctx context.Context) (Schema, error) {
	rows, err := d.db.QueryContext(ctx, describeQuery)
	if err != nil {
		return nil, fmt.Errorf("describe schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out Schema
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scan schema row: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Name != table {
			out = append(out, Table{Name: table})
		}
		out[len(out)-1].Columns = append(out[len(out)-1].Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schema rows: %w", err)
	}
	return out, nil
}
