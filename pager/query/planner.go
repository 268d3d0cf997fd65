// Package query rewrites SQL text so a requested sort runs inside the
// engine. It never parses the statement, only enough word-level inspection
// to decide between appending an ORDER BY and wrapping the statement whole.
package query

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	orderByWord  = regexp.MustCompile(`(?i)\border\s+by\b`)
	limitWord    = regexp.MustCompile(`(?i)\blimit\b`)
	innerLimitRe = regexp.MustCompile(`(?i)\blimit\s+\d+(\s+offset\s+\d+)?`)
)

// BuildSortedQuery pushes a column sort into the SQL text. A statement with
// no ORDER BY and no LIMIT just gets the clause appended. Anything already
// carrying one of those is wrapped as a derived table, with its inner LIMIT
// removed: the wrapped statement must not truncate rows before the outer
// ordering is applied, and pagination limits belong to the executor.
func BuildSortedQuery(baseSql string, column string, dir SortDirection) string {
	if column == "" {
		return baseSql
	}

	stmt := TrimTerminators(baseSql)
	orderClause := fmt.Sprintf(`ORDER BY %s %s`, quoteIdent(column), dir.SQL())

	if !orderByWord.MatchString(stmt) && !limitWord.MatchString(stmt) {
		return stmt + " " + orderClause
	}

	inner := strings.TrimSpace(innerLimitRe.ReplaceAllString(stmt, ""))
	return fmt.Sprintf("SELECT * FROM (%s) AS sub %s", inner, orderClause)
}

// TrimTerminators drops the trailing run of semicolons and whitespace, so
// the statement can be wrapped as a derived table.
func TrimTerminators(sql string) string {
	return strings.TrimRight(strings.TrimSpace(sql), "; \t\n\r")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
