package app

import (
	"context"
	"fmt"

	"github.com/nexfound/apply-engine/internal/domain"
)

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// CompletionPinger is the minimal interface for a completion backend probe.
type CompletionPinger interface{ Ping(ctx domain.Context) error }

// BuildReadinessChecks returns three readiness checks: db, redis, and the
// completion backend.
func BuildReadinessChecks(pool Pinger, sessions Pinger, ai CompletionPinger) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	dbCheck := func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("db not configured")
		}
		return pool.Ping(ctx)
	}
	redisCheck := func(ctx context.Context) error {
		if sessions == nil {
			return fmt.Errorf("redis not configured")
		}
		return sessions.Ping(ctx)
	}
	aiCheck := func(ctx context.Context) error {
		if ai == nil {
			return fmt.Errorf("completion backend not configured")
		}
		return ai.Ping(ctx)
	}
	return dbCheck, redisCheck, aiCheck
}
