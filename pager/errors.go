package pager

import (
	"context"
	"errors"
)

var (
	ErrNoQuery        = errors.New("no active query")
	ErrNoSuchColumn   = errors.New("no such column")
	ErrCacheBusy      = errors.New("result still caching, retry once complete")
	ErrTooLargeToSort = errors.New("result too large to sort in memory, add an ORDER BY to the query")
)

// IsCancelled separates a user-triggered stop from a real failure.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
