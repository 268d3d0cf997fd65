package pager

import "time"

type Config struct {
	// PageSize is the row count of every fetch, first page included.
	PageSize int

	// CacheThreshold caps how many rows background caching may accumulate
	// before giving up. Gating is by row count, never by byte estimates.
	CacheThreshold int

	// EndConfirmPages is how many consecutive short pages confirm
	// end-of-data. Two by default: some executors emit a short page
	// mid-stream, a single one proves nothing.
	EndConfirmPages int

	// OverflowMultiplier re-estimates the total after a threshold abort,
	// as a multiple of the rows seen so far.
	OverflowMultiplier int

	// SampleRows bounds how many rows feed the advisory payload estimate.
	SampleRows int

	// CountTTL is how long cached row counts stay fresh.
	CountTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		PageSize:           100,
		CacheThreshold:     10_000,
		EndConfirmPages:    2,
		OverflowMultiplier: 10,
		SampleRows:         32,
		CountTTL:           time.Minute,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	if c.CacheThreshold <= 0 {
		c.CacheThreshold = def.CacheThreshold
	}
	if c.EndConfirmPages <= 0 {
		c.EndConfirmPages = def.EndConfirmPages
	}
	if c.OverflowMultiplier <= 1 {
		c.OverflowMultiplier = def.OverflowMultiplier
	}
	if c.SampleRows <= 0 {
		c.SampleRows = def.SampleRows
	}
	if c.CountTTL <= 0 {
		c.CountTTL = def.CountTTL
	}
	return c
}
