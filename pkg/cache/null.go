package cache

import (
	"context"
	"time"
)

// NullCache backs `backend = "none"` and --no-cache: every lookup misses,
// so remote tree documents are fetched from their source on each load.
type NullCache struct{}

// NewNullCache returns a cache that keeps no documents.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
