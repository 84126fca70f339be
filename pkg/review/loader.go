package review

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

const loadKey = "records"

// LoadFunc produces the review table from its source.
type LoadFunc func(ctx context.Context) ([]*Record, error)

// Loader memoizes the result of a LoadFunc for its lifetime. Concurrent
// callers share a single in-flight load; failed loads are not cached.
type Loader struct {
	load  LoadFunc
	group singleflight.Group

	mu      sync.RWMutex
	records []*Record
	loaded  bool
}

// NewLoader returns a Loader backed by fn.
func NewLoader(fn LoadFunc) *Loader {
	return &Loader{load: fn}
}

// Records returns the memoized table, loading it on first use.
// The returned slice is shared and must not be modified.
func (l *Loader) Records(ctx context.Context) ([]*Record, error) {
	if l == nil || l.load == nil {
		return nil, errors.New("loader not initialized")
	}

	if list, ok := l.cached(); ok {
		return list, nil
	}

	// the shared load must not die with whichever request started it
	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(loadKey, func() (any, error) {
		if list, ok := l.cached(); ok {
			return list, nil
		}
		list, err := l.load(loadCtx)
		if err != nil {
			return nil, err
		}
		slog.Debug("review records loaded", "count", len(list))

		l.mu.Lock()
		l.records = list
		l.loaded = true
		l.mu.Unlock()
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*Record), nil
	}
}

// Summary summarizes the memoized table.
func (l *Loader) Summary(ctx context.Context, positiveScore int) (*Summary, error) {
	list, err := l.Records(ctx)
	if err != nil {
		return nil, err
	}
	return SummarizeAt(list, positiveScore)
}

// Loaded reports whether the table has been loaded.
func (l *Loader) Loaded() bool {
	_, ok := l.cached()
	return ok
}

func (l *Loader) cached() ([]*Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records, l.loaded
}
