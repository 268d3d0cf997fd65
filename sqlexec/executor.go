// Package sqlexec adapts a database/sql handle to the pager's executor
// contract. Counts run through a COUNT(*) wrap, pages through LIMIT/OFFSET,
// both built on the original statement as a derived table.
package sqlexec

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dot5enko/columnar-result-pager/pager"
	"github.com/dot5enko/columnar-result-pager/pager/query"
	"github.com/dot5enko/columnar-result-pager/schema"
	"github.com/dot5enko/columnar-result-pager/vector"
)

const defaultChunkRows = 2048

type Executor struct {
	db        *sql.DB
	chunkRows int
}

func New(db *sql.DB) *Executor {
	return &Executor{
		db:        db,
		chunkRows: defaultChunkRows,
	}
}

// GetRowCount wraps the statement in a COUNT(*). Always exact, SQL engines
// do not guess here.
func (x *Executor) GetRowCount(ctx context.Context, sqlText string) (pager.CountResult, error) {
	wrapped := fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS sub", query.TrimTerminators(sqlText))

	var count int
	err := x.db.QueryRowContext(ctx, wrapped).Scan(&count)
	if err != nil {
		return pager.CountResult{}, fmt.Errorf("count query: %w", err)
	}

	return pager.CountResult{Count: count, IsEstimated: false}, nil
}

// GetPage fetches one window of rows. A window shorter than limit means the
// data ran out, LIMIT/OFFSET semantics make that certain.
func (x *Executor) GetPage(ctx context.Context, sqlText string, offset, limit int) (pager.Page, error) {
	wrapped := fmt.Sprintf("SELECT * FROM (%s) AS sub LIMIT %d OFFSET %d",
		query.TrimTerminators(sqlText), limit, offset)

	columns, rows, err := x.collect(ctx, wrapped)
	if err != nil {
		return pager.Page{}, err
	}

	return pager.Page{
		Columns: columns,
		Rows:    rows,
		Done:    len(rows) < limit,
	}, nil
}

// ExecuteQuery runs the statement whole and packs it into a chunked result,
// ready for wire encoding.
func (x *Executor) ExecuteQuery(ctx context.Context, sqlText string) (*vector.Result, error) {
	columns, rows, err := x.collect(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	return vector.BuildResult(columns, rows, x.chunkRows)
}

func (x *Executor) collect(ctx context.Context, sqlText string) ([]schema.ResultColumn, [][]any, error) {
	dbRows, err := x.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer dbRows.Close()

	columnTypes, err := dbRows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}

	var rows [][]any
	holders := make([]any, len(columnTypes))
	for dbRows.Next() {
		for i := range holders {
			holders[i] = new(any)
		}
		if err := dbRows.Scan(holders...); err != nil {
			return nil, nil, err
		}

		row := make([]any, len(holders))
		for i := range holders {
			row[i] = normalizeValue(*holders[i].(*any))
		}
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, nil, err
	}

	columns := resultColumns(columnTypes, rows)
	coerceCharacterColumns(columns, rows)
	return columns, rows, nil
}
