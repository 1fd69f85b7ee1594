package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nexfound/apply-engine/internal/domain"
)

// ListingRepo loads jobs and gigs from their respective tables.
type ListingRepo struct{ Pool PgxPool }

// NewListingRepo constructs a ListingRepo with the given pool.
func NewListingRepo(p PgxPool) *ListingRepo { return &ListingRepo{Pool: p} }

// Get loads the listing a reference points to.
func (r *ListingRepo) Get(ctx domain.Context, ref domain.ListingRef) (domain.Listing, error) {
	switch ref.Kind {
	case domain.KindJob:
		return r.getJob(ctx, ref.ID)
	case domain.KindGig:
		return r.getGig(ctx, ref.ID)
	default:
		return domain.Listing{}, fmt.Errorf("op=listing.get: %w", domain.ErrInvalidArgument)
	}
}

func (r *ListingRepo) getJob(ctx domain.Context, id string) (domain.Listing, error) {
	tracer := otel.Tracer("repo.listings")
	ctx, span := tracer.Start(ctx, "listings.GetJob")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "jobs"),
	)
	q := `SELECT id, title, company, category, experience_level, skills_required, description, responsibilities,
	job_type, work_mode, location, requirements FROM jobs WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	l := domain.Listing{Kind: domain.KindJob, Job: &domain.JobDetails{}}
	if err := row.Scan(
		&l.ID, &l.Title, &l.Company, &l.Category, &l.ExperienceLevel, &l.SkillsRequired, &l.Description, &l.Responsibilities,
		&l.Job.JobType, &l.Job.WorkMode, &l.Job.Location, &l.Job.Requirements,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, fmt.Errorf("op=listing.get_job: %w", domain.ErrNotFound)
		}
		return domain.Listing{}, fmt.Errorf("op=listing.get_job: %w", err)
	}
	return l, nil
}

func (r *ListingRepo) getGig(ctx domain.Context, id string) (domain.Listing, error) {
	tracer := otel.Tracer("repo.listings")
	ctx, span := tracer.Start(ctx, "listings.GetGig")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "gigs"),
	)
	q := `SELECT id, title, company, category, experience_level, skills_required, description, scope,
	payment_type, budget, duration, deliverables FROM gigs WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	l := domain.Listing{Kind: domain.KindGig, Gig: &domain.GigDetails{}}
	if err := row.Scan(
		&l.ID, &l.Title, &l.Company, &l.Category, &l.ExperienceLevel, &l.SkillsRequired, &l.Description, &l.Responsibilities,
		&l.Gig.PaymentType, &l.Gig.Budget, &l.Gig.Duration, &l.Gig.Deliverables,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, fmt.Errorf("op=listing.get_gig: %w", domain.ErrNotFound)
		}
		return domain.Listing{}, fmt.Errorf("op=listing.get_gig: %w", err)
	}
	return l, nil
}
