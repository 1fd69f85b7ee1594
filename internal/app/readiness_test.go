package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexfound/apply-engine/internal/app"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestBuildReadinessChecks(t *testing.T) {
	ctx := context.Background()
	healthy := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all healthy", func(t *testing.T) {
		db, rd, ai := app.BuildReadinessChecks(healthy, healthy, healthy)
		assert.NoError(t, db(ctx))
		assert.NoError(t, rd(ctx))
		assert.NoError(t, ai(ctx))
	})

	t.Run("propagates failures", func(t *testing.T) {
		db, rd, ai := app.BuildReadinessChecks(down, healthy, down)
		assert.Error(t, db(ctx))
		assert.NoError(t, rd(ctx))
		assert.Error(t, ai(ctx))
	})

	t.Run("nil dependencies fail", func(t *testing.T) {
		db, rd, ai := app.BuildReadinessChecks(nil, nil, nil)
		assert.Error(t, db(ctx))
		assert.Error(t, rd(ctx))
		assert.Error(t, ai(ctx))
	})
}
