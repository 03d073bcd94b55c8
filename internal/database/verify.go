package database

import (
	"database/sql"
	"fmt"

	"github.com/kidchores/kidchores-be/internal/models"
)

// DiscrepancyKind classifies a single difference between the declared and
// the live schema.
type DiscrepancyKind string

const (
	UnexpectedTable     DiscrepancyKind = "unexpected-table"
	MissingTable        DiscrepancyKind = "missing-table"
	ColumnCountMismatch DiscrepancyKind = "column-count-mismatch"
	UnexpectedColumn    DiscrepancyKind = "unexpected-column"
)

// Discrepancy is one reported difference, naming the table it concerns.
type Discrepancy struct {
	Kind   DiscrepancyKind
	Table  string
	Detail string
}

func (d Discrepancy) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Table)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Table, d.Detail)
}

// Result is the outcome of one verification run. It is produced fresh each
// run and never persisted.
type Result struct {
	Discrepancies []Discrepancy
}

// Valid reports whether the live schema matched the declaration exactly.
func (r Result) Valid() bool {
	return len(r.Discrepancies) == 0
}

// Verify compares the declared schema against the connected database.
// Checks run in a fixed order (unexpected tables, missing tables, then
// column sets per declared table) so repeated runs over an unchanged
// database yield identical discrepancy lists. The database is only read;
// an error is returned solely for query failures, never for mismatches.
func Verify(db *sql.DB, decl Declaration) (Result, error) {
	var result Result

	live, err := listTables(db)
	if err != nil {
		return Result{}, err
	}

	for _, name := range live {
		if _, ok := decl.Find(name); !ok {
			result.Discrepancies = append(result.Discrepancies, Discrepancy{
				Kind:  UnexpectedTable,
				Table: name,
			})
		}
	}

	liveSet := make(map[string]bool, len(live))
	for _, name := range live {
		liveSet[name] = true
	}

	for _, table := range decl.Tables {
		if !liveSet[table.Name] {
			result.Discrepancies = append(result.Discrepancies, Discrepancy{
				Kind:  MissingTable,
				Table: table.Name,
			})
		}
	}

	for _, table := range decl.Tables {
		if !liveSet[table.Name] {
			continue
		}

		columns, err := listColumns(db, table.Name)
		if err != nil {
			return Result{}, err
		}

		if len(columns) != len(table.Columns) {
			result.Discrepancies = append(result.Discrepancies, Discrepancy{
				Kind:   ColumnCountMismatch,
				Table:  table.Name,
				Detail: fmt.Sprintf("%d columns but %d expected", len(columns), len(table.Columns)),
			})
			continue
		}

		declared := make(map[string]bool, len(table.Columns))
		for _, name := range table.Columns {
			declared[name] = true
		}
		for _, name := range columns {
			if !declared[name] {
				result.Discrepancies = append(result.Discrepancies, Discrepancy{
					Kind:   UnexpectedColumn,
					Table:  table.Name,
					Detail: fmt.Sprintf("column %q", name),
				})
			}
		}
	}

	return result, nil
}

// listTables returns all user tables, excluding the sqlite catalog, in
// name order.
func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, models.NewStorageError("list tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, models.NewStorageError("scan table name", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// listColumns returns the live column names of a table in definition order.
func listColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, models.NewStorageError("list columns", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, models.NewStorageError("scan column name", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
