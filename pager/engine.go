// Package pager drives query results for an interactive grid: it counts,
// fetches the first page fast, opportunistically caches the full result in
// the background, and serves sorted and paginated views from the cache when
// it is trustworthy, or straight from the engine when it is not.
package pager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dot5enko/columnar-result-pager/lists"
	"github.com/dot5enko/columnar-result-pager/pager/query"
)

type Engine struct {
	exec   QueryExecutor
	cfg    Config
	counts *CountCache

	mu     sync.Mutex
	st     *pagingState
	cancel context.CancelFunc
}

func New(exec QueryExecutor, cfg Config) *Engine {
	cfg = cfg.withDefaults()

	return &Engine{
		exec:   exec,
		cfg:    cfg,
		counts: NewCountCache(cfg.CountTTL, nil),
	}
}

// Counts exposes the row-count cache so callers can invalidate after DDL.
func (e *Engine) Counts() *CountCache {
	return e.counts
}

// Run starts a new query, superseding whatever ran before. It returns as
// soon as the first page and the column schema are in hand, background
// caching continues on its own. ctx spans the whole query lifecycle: cancel
// it and the background loop dies with it.
func (e *Engine) Run(ctx context.Context, sql string) (View, error) {

	started := time.Now()

	e.mu.Lock()
	if e.cancel != nil {
		// supersede: the old query's continuations become no-ops
		e.cancel()
	}
	queryCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	queryId, _ := uuid.NewV7()
	e.st = &pagingState{
		queryId: queryId,
		sql:     sql,
		state:   StateCounting,
		payload: NewPayloadEstimator(e.cfg.SampleRows),
	}
	e.mu.Unlock()

	slog.Info("query started", "query_id", queryId, "page_size", e.cfg.PageSize)

	var firstPage Page

	g, gctx := errgroup.WithContext(queryCtx)

	g.Go(func() error {
		count, err := e.counts.Get(gctx, sql, func(ctx context.Context) (CountResult, error) {
			return e.exec.GetRowCount(ctx, sql)
		})
		if err != nil {
			// the count is advisory at this point, the first page can
			// still unblock the caller
			slog.Warn("row count failed", "query_id", queryId, "err", err.Error())
			return nil
		}

		e.withCurrent(queryId, func(st *pagingState) {
			if !st.exactCount {
				st.totalRows = count.Count
				st.isEstimated = count.IsEstimated
			}
		})
		return nil
	})

	g.Go(func() error {
		page, err := e.exec.GetPage(gctx, sql, 0, e.cfg.PageSize)
		if err != nil {
			return fmt.Errorf("first page: %w", err)
		}
		firstPage = page
		return nil
	})

	if err := g.Wait(); err != nil {
		e.withCurrent(queryId, func(st *pagingState) {
			st.execTime = time.Since(started)
		})
		return e.Snapshot(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st == nil || e.st.queryId != queryId {
		return View{}, context.Canceled
	}

	st := e.st
	st.state = StateFirstPageLoaded
	st.columns = firstPage.Columns
	st.pageRows = firstPage.Rows
	st.currentPage = 0
	st.execTime = time.Since(started)
	st.payload.ObserveAll(firstPage.Rows)

	if len(firstPage.Rows) < e.cfg.PageSize || firstPage.Done {
		// the lone page is the whole result, whatever the estimate said
		st.cache = firstPage.Rows
		st.totalRows = len(firstPage.Rows)
		st.isEstimated = false
		st.exactCount = true
		st.state = StateCacheComplete

		slog.Info("query satisfied by first page", "query_id", queryId, "rows", st.totalRows)
		return e.snapshotLocked(), nil
	}

	st.state = StateCachingInBackground
	if st.totalRows < len(firstPage.Rows) {
		// count failed or has not landed anything usable
		st.totalRows = len(firstPage.Rows)
		st.isEstimated = true
	}

	acc := make([][]any, len(firstPage.Rows))
	copy(acc, firstPage.Rows)
	go e.cacheLoop(queryCtx, queryId, sql, acc)

	return e.snapshotLocked(), nil
}

// cacheLoop pulls the remaining pages strictly in offset order, one fetch
// in flight, accumulating locally. The cache becomes visible only whole, on
// completion. Two consecutive short pages confirm end-of-data unless the
// executor declared it outright.
func (e *Engine) cacheLoop(ctx context.Context, queryId uuid.UUID, sql string, acc [][]any) {

	shortPages := 0

	for {
		if ctx.Err() != nil {
			e.dropCaching(queryId)
			return
		}

		page, err := e.exec.GetPage(ctx, sql, len(acc), e.cfg.PageSize)
		if err != nil {
			if IsCancelled(err) {
				e.dropCaching(queryId)
				return
			}

			// the first page is already on screen, a mid-loop failure
			// only downgrades the cache
			slog.Error("background caching failed", "query_id", queryId, "err", err.Error())
			e.withCurrent(queryId, func(st *pagingState) {
				st.cache = nil
				st.sorted = nil
				st.state = StateCacheAbortedTooLarge
				if st.totalRows < len(acc) {
					st.totalRows = len(acc)
					st.isEstimated = true
				}
			})
			return
		}

		acc = append(acc, page.Rows...)

		e.withCurrent(queryId, func(st *pagingState) {
			st.payload.ObserveAll(page.Rows)
		})

		if len(page.Rows) < e.cfg.PageSize {
			shortPages++
		} else {
			shortPages = 0
		}

		if shortPages >= e.cfg.EndConfirmPages || page.Done {
			e.publishComplete(queryId, acc)
			return
		}

		if len(acc) >= e.cfg.CacheThreshold {
			e.publishAborted(queryId, len(acc))
			return
		}
	}
}

func (e *Engine) publishComplete(queryId uuid.UUID, acc [][]any) {
	applied := e.withCurrent(queryId, func(st *pagingState) {
		st.cache = acc
		st.totalRows = len(acc)
		st.isEstimated = false
		st.exactCount = true
		st.state = StateCacheComplete
	})
	if applied {
		slog.Info("cache complete", "query_id", queryId, "rows", len(acc))
	}
}

func (e *Engine) publishAborted(queryId uuid.UUID, seen int) {
	applied := e.withCurrent(queryId, func(st *pagingState) {
		st.cache = nil
		st.sorted = nil
		st.state = StateCacheAbortedTooLarge

		// an exact engine-side count that covers what we saw stays, an
		// estimate gives way to a heuristic upper bound so pagination
		// controls keep working past the discovered prefix
		if st.isEstimated || st.totalRows < seen {
			st.totalRows = seen * e.cfg.OverflowMultiplier
			st.isEstimated = true
		}
	})
	if applied {
		slog.Info("cache threshold reached, direct paging from here",
			"query_id", queryId, "rows_seen", seen)
	}
}

// dropCaching unwinds a cancelled background loop: no cache is published,
// the first page stays on screen.
func (e *Engine) dropCaching(queryId uuid.UUID) {
	e.withCurrent(queryId, func(st *pagingState) {
		if st.caching() {
			st.state = StateFirstPageLoaded
		}
	})
}

// withCurrent runs fn under the lock only while queryId is still the active
// query. Stale continuations turn into no-ops here.
func (e *Engine) withCurrent(queryId uuid.UUID, fn func(st *pagingState)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st == nil || e.st.queryId != queryId {
		return false
	}
	fn(e.st)
	return true
}

// LoadPage serves page n. A complete (or sort-backed) cache is sliced in
// memory, anything else goes to the executor as an offset/limit fetch.
// Out-of-range pages are a no-op.
func (e *Engine) LoadPage(ctx context.Context, n int) (View, error) {

	e.mu.Lock()

	if e.st == nil {
		e.mu.Unlock()
		return View{}, ErrNoQuery
	}

	st := e.st
	if n < 0 || n >= st.totalPages(e.cfg.PageSize) {
		view := e.snapshotLocked()
		e.mu.Unlock()
		return view, nil
	}

	if st.cacheComplete() {
		st.currentPage = n
		st.pageRows = lists.PageOf(st.activeRows(), n, e.cfg.PageSize)
		view := e.snapshotLocked()
		e.mu.Unlock()
		return view, nil
	}

	queryId := st.queryId
	sql := st.sql
	e.mu.Unlock()

	page, err := e.exec.GetPage(ctx, sql, n*e.cfg.PageSize, e.cfg.PageSize)
	if err != nil {
		return e.Snapshot(), err
	}

	var view View
	applied := e.withCurrent(queryId, func(st *pagingState) {
		st.currentPage = n
		st.pageRows = page.Rows
		st.payload.ObserveAll(page.Rows)
		view = e.snapshotLocked()
	})
	if !applied {
		return View{}, context.Canceled
	}
	return view, nil
}

// SortByColumn applies or toggles an in-memory sort. The hard rule: only a
// complete cache may be sorted. While caching the caller is asked to wait,
// after an abort the sort is rejected toward SQL-side ordering instead.
func (e *Engine) SortByColumn(column string) (View, error) {

	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.st
	if st == nil {
		return View{}, ErrNoQuery
	}

	if st.caching() {
		return e.snapshotLocked(), ErrCacheBusy
	}
	if !st.cacheComplete() {
		st.sortColumn = ""
		st.sorted = nil
		return e.snapshotLocked(), ErrTooLargeToSort
	}

	colIdx := -1
	for i, col := range st.columns {
		if col.Name == column {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return e.snapshotLocked(), fmt.Errorf("%w: %q", ErrNoSuchColumn, column)
	}

	if st.sortColumn == column {
		st.sortDir = st.sortDir.Toggle()
	} else {
		st.sortColumn = column
		st.sortDir = query.Asc
	}

	cmp := lists.ComparatorFor(st.columns[colIdx].Type)
	st.sorted = lists.Sort(st.cache, colIdx, st.sortDir == query.Desc, cmp)
	st.currentPage = 0
	st.pageRows = lists.PageOf(st.sorted, 0, e.cfg.PageSize)

	return e.snapshotLocked(), nil
}

// ClearSort drops the sort and goes back to arrival order.
func (e *Engine) ClearSort() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.st
	if st == nil {
		return View{}
	}

	st.sortColumn = ""
	st.sorted = nil
	if st.cacheComplete() {
		st.pageRows = lists.PageOf(st.cache, st.currentPage, e.cfg.PageSize)
	}
	return e.snapshotLocked()
}

// SortedQuery rewrites the active statement with an engine-side ORDER BY,
// for re-running when the in-memory sort was rejected.
func (e *Engine) SortedQuery(column string, dir query.SortDirection) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st == nil {
		return "", ErrNoQuery
	}
	return query.BuildSortedQuery(e.st.sql, column, dir), nil
}

// Stop cancels the active query's outstanding work. Rows already shown stay.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() View {
	st := e.st
	if st == nil {
		return View{}
	}

	return View{
		QueryId:         st.queryId,
		State:           st.state,
		IsCaching:       st.caching(),
		IsCacheComplete: st.cacheComplete(),
		Columns:         st.columns,
		Rows:            st.pageRows,
		TotalRows:       st.totalRows,
		IsEstimated:     st.isEstimated,
		CurrentPage:     st.currentPage,
		TotalPages:      st.totalPages(e.cfg.PageSize),
		SortColumn:      st.sortColumn,
		SortDirection:   st.sortDir,
		PayloadBytes:    st.payload.EstimateTotal(st.totalRows),
		PayloadHuman:    st.payload.Human(st.totalRows),
		ExecutionTime:   st.execTime,
	}
}
