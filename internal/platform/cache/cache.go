// Package cache holds short-lived copies of per-user dashboard statistics.
package cache

import (
	"context"

	"practice_tracker/internal/domain/model"
)

// StatsCache maps a user id to that user's last computed dashboard. A miss
// and a backend failure look the same to callers: recompute.
//
// Readers take a Version before loading from the store and hand it to Set.
// Set drops the value if the user was invalidated in between, so a
// dashboard computed from rows older than a write is never cached.
type StatsCache interface {
	Get(ctx context.Context, userID string) (*model.DashboardStats, bool)
	Version(ctx context.Context, userID string) uint64
	Set(ctx context.Context, userID string, version uint64, stats model.DashboardStats)
	Invalidate(ctx context.Context, userID string)
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*model.DashboardStats, bool) { return nil, false }
func (Noop) Version(context.Context, string) uint64                    { return 0 }
func (Noop) Set(context.Context, string, uint64, model.DashboardStats) {}
func (Noop) Invalidate(context.Context, string)                        {}
