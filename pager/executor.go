package pager

import (
	"context"

	"github.com/dot5enko/columnar-result-pager/schema"
	"github.com/dot5enko/columnar-result-pager/vector"
)

// CountResult is a row count that may be an engine-side approximation, for
// example an EXPLAIN-derived number.
type CountResult struct {
	Count       int
	IsEstimated bool
}

// Page is one offset/limit slice of a query's result. Done is set when the
// executor knows nothing follows this page, which short-circuits the
// short-page end-of-data heuristic.
type Page struct {
	Columns []schema.ResultColumn
	Rows    [][]any
	Done    bool
}

// QueryExecutor is the engine-side capability the pager drives. All calls
// accept a context for cancellation.
type QueryExecutor interface {
	GetRowCount(ctx context.Context, sql string) (CountResult, error)
	GetPage(ctx context.Context, sql string, offset, limit int) (Page, error)
	ExecuteQuery(ctx context.Context, sql string) (*vector.Result, error)
}
