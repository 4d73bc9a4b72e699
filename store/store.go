// Package store persists the set of launch ids that have already been notified.
//
// Drivers:
//   - file   JSON array of id strings (default)
//   - sqlite single table in a SQLite database
//   - redis  list under a single key
//
// None of the drivers lock across processes; overlapping runs are last-writer-wins.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set"

	"launch-notifier/config"
)

// NotifiedSet is an ordered list of launch ids with set semantics.
type NotifiedSet []string

// Has reports whether id has already been notified.
func (s NotifiedSet) Has(id string) bool {
	return slices.Contains(s, id)
}

// Add returns the set with id appended, unless it is already present.
func (s NotifiedSet) Add(id string) NotifiedSet {
	if s.Has(id) {
		return s
	}
	out := make(NotifiedSet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, id)
}

// Retain returns a new set holding only the ids that appear in snapshot,
// in their original order.
func (s NotifiedSet) Retain(snapshot []string) NotifiedSet {
	current := mapset.NewSet()
	for _, id := range snapshot {
		current.Add(id)
	}

	out := make(NotifiedSet, 0, len(s))
	for _, id := range s {
		if current.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

type Store interface {
	Load(ctx context.Context) (NotifiedSet, error)
	Save(ctx context.Context, set NotifiedSet) error
	Close() error
}

// Open returns the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.StoreDriver {
	case config.DriverFile, "":
		return NewFileStore(cfg.CachePath), nil
	case config.DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.CachePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		s, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		}, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}
