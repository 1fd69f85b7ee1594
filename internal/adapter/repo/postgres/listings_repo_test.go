package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexfound/apply-engine/internal/adapter/repo/postgres"
	"github.com/nexfound/apply-engine/internal/domain"
)

func TestListingRepo_GetJob(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		set(dest[0], "job-1")
		set(dest[1], "Backend Engineer")
		set(dest[2], "Nexfound")
		set(dest[3], "Engineering")
		set(dest[4], "Senior")
		set(dest[5], []string{"Go", "PostgreSQL"})
		set(dest[6], "Build the application pipeline.")
		set(dest[7], "Own services end to end.")
		set(dest[8], "full_time")
		set(dest[9], "remote")
		set(dest[10], "London")
		set(dest[11], "5+ years of Go.")
		return nil
	}}}
	repo := postgres.NewListingRepo(pool)

	l, err := repo.Get(context.Background(), domain.ListingRef{Kind: domain.KindJob, ID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindJob, l.Kind)
	assert.Equal(t, "Backend Engineer", l.Title)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, l.SkillsRequired)
	require.NotNil(t, l.Job)
	assert.Nil(t, l.Gig)
	assert.Equal(t, "remote", l.Job.WorkMode)
}

func TestListingRepo_GetGig(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		set(dest[0], "gig-1")
		set(dest[1], "Landing Page Build")
		set(dest[2], "Acme Studio")
		set(dest[3], "Web")
		set(dest[4], "Mid")
		set(dest[5], []string{"React"})
		set(dest[6], "Build a landing page.")
		set(dest[7], "Design to deployment.")
		set(dest[8], "fixed")
		set(dest[9], "1500 USD")
		set(dest[10], "3 weeks")
		set(dest[11], "Deployed site with source.")
		return nil
	}}}
	repo := postgres.NewListingRepo(pool)

	l, err := repo.Get(context.Background(), domain.ListingRef{Kind: domain.KindGig, ID: "gig-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindGig, l.Kind)
	require.NotNil(t, l.Gig)
	assert.Nil(t, l.Job)
	assert.Equal(t, "1500 USD", l.Gig.Budget)
	assert.Equal(t, "Design to deployment.", l.Responsibilities)
}

func TestListingRepo_Get_NotFound(t *testing.T) {
	pool := &poolStub{row: rowStub{scan: func(_ ...any) error { return pgx.ErrNoRows }}}
	repo := postgres.NewListingRepo(pool)

	_, err := repo.Get(context.Background(), domain.ListingRef{Kind: domain.KindJob, ID: "missing"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Get(context.Background(), domain.ListingRef{Kind: domain.KindGig, ID: "missing"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListingRepo_Get_InvalidKind(t *testing.T) {
	repo := postgres.NewListingRepo(&poolStub{})

	_, err := repo.Get(context.Background(), domain.ListingRef{Kind: "bogus", ID: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
