package pager

type CountCacheStats struct {
	Entries int

	Hits   int
	Misses int
}
