package pager

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dot5enko/columnar-result-pager/pager/query"
	"github.com/dot5enko/columnar-result-pager/schema"
)

type CacheState byte

const (
	StateCounting CacheState = iota
	StateFirstPageLoaded
	StateCachingInBackground
	StateCacheComplete
	StateCacheAbortedTooLarge
)

func (s CacheState) String() string {
	switch s {
	case StateCounting:
		return "counting"
	case StateFirstPageLoaded:
		return "first_page_loaded"
	case StateCachingInBackground:
		return "caching"
	case StateCacheComplete:
		return "cache_complete"
	case StateCacheAbortedTooLarge:
		return "cache_aborted_too_large"
	default:
		panic(fmt.Sprintf("unknown cache state %d", byte(s)))
	}
}

// pagingState is the per-query state, owned by the engine and mutated only
// under its lock. The cache field stays nil until it is published whole:
// background accumulation happens in loop-local storage, so no reader ever
// observes a partially filled cache.
type pagingState struct {
	queryId uuid.UUID
	sql     string

	state   CacheState
	columns []schema.ResultColumn

	totalRows   int
	isEstimated bool
	exactCount  bool // a confirmed count outranks any estimate arriving late

	cache  [][]any
	sorted [][]any

	sortColumn string
	sortDir    query.SortDirection

	currentPage int
	pageRows    [][]any

	payload  *PayloadEstimator
	execTime time.Duration
}

func (st *pagingState) caching() bool {
	return st.state == StateCachingInBackground
}

func (st *pagingState) cacheComplete() bool {
	return st.state == StateCacheComplete
}

// activeRows is the row set a cached page slice should come from.
func (st *pagingState) activeRows() [][]any {
	if st.sortColumn != "" && st.sorted != nil {
		return st.sorted
	}
	return st.cache
}

func (st *pagingState) totalPages(pageSize int) int {
	if st.totalRows <= 0 {
		return 1
	}
	return (st.totalRows + pageSize - 1) / pageSize
}

// View is the externally visible snapshot of one query's paging state.
// Everything is copied or immutable, holding a View never blocks the engine.
type View struct {
	QueryId uuid.UUID

	State           CacheState
	IsCaching       bool
	IsCacheComplete bool

	Columns []schema.ResultColumn
	Rows    [][]any

	TotalRows   int
	IsEstimated bool
	CurrentPage int
	TotalPages  int

	SortColumn    string
	SortDirection query.SortDirection

	PayloadBytes uint64
	PayloadHuman string

	ExecutionTime time.Duration
}
