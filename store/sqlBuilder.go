package store

import (
	"fmt"
	"sort"
	"strings"
)

// Row is one table record keyed by column name. Rows coming out of the
// NetSuite mappers are plain maps, so the writer never needs a struct per
// table.
type Row map[string]interface{}

// columnsOf returns the row's column names in a fixed order so the
// generated SQL is deterministic.
func columnsOf(row Row) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "") + "`"
}

// BuildInsertSQL renders a multi-row INSERT for the given rows. Every row
// must carry the same columns as the first one; missing columns bind as NULL.
func BuildInsertSQL(table string, rows []Row) (string, []interface{}, error) {
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("insert into %s: no rows", table)
	}
	cols := columnsOf(rows[0])
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("insert into %s: empty row", table)
	}

	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = quoteIdent(col)
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",") + ")"
	values := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(cols))
	for i, row := range rows {
		values[i] = placeholder
		for _, col := range cols {
			args = append(args, row[col])
		}
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(values, ", "))
	return sql, args, nil
}

// BuildUpsertSQL renders INSERT ... ON DUPLICATE KEY UPDATE so re-synced
// records overwrite the previous copy in place.
func BuildUpsertSQL(table string, rows []Row) (string, []interface{}, error) {
	sql, args, err := BuildInsertSQL(table, rows)
	if err != nil {
		return "", nil, err
	}

	cols := columnsOf(rows[0])
	updates := make([]string, len(cols))
	for i, col := range cols {
		q := quoteIdent(col)
		updates[i] = fmt.Sprintf("%s = VALUES(%s)", q, q)
	}
	sql += " ON DUPLICATE KEY UPDATE " + strings.Join(updates, ", ")
	return sql, args, nil
}

// BuildDeleteWhereSQL renders a guarded bulk delete. Only <> and = are
// accepted so a mapper bug can never splice arbitrary SQL into the predicate.
func BuildDeleteWhereSQL(table string, column string, op string, value interface{}) (string, []interface{}, error) {
	if op != "<>" && op != "=" {
		return "", nil, fmt.Errorf("delete from %s: unsupported operator %q", table, op)
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s %s ?", quoteIdent(table), quoteIdent(column), op)
	return sql, []interface{}{value}, nil
}
