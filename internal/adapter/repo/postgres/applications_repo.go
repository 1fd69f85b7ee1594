package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nexfound/apply-engine/internal/domain"
)

// ApplicationRepo persists applications using a minimal pgx pool.
type ApplicationRepo struct{ Pool PgxPool }

// NewApplicationRepo constructs an ApplicationRepo with the given pool.
func NewApplicationRepo(p PgxPool) *ApplicationRepo { return &ApplicationRepo{Pool: p} }

const applicationColumns = `id, user_id, job_id, gig_id, user_name, user_email, user_avatar_url, user_tagline, user_city,
	profile_snapshot, match_score, match_breakdown, profile_summary, strengths, weaknesses,
	ai_questions, status, overall_score, created_at`

// CreateOrGet inserts the application, or returns the existing row when the
// candidate already applied to the listing. Partial unique indexes on
// (user_id, job_id) and (user_id, gig_id) make this race-safe: the losing
// insert is a no-op and the winner's row is re-read.
func (r *ApplicationRepo) CreateOrGet(ctx domain.Context, a domain.Application) (domain.Application, bool, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.CreateOrGet")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "applications"),
	)

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	snapshot, err := json.Marshal(a.Snapshot)
	if err != nil {
		return domain.Application{}, false, fmt.Errorf("op=application.create_or_get: %w", err)
	}
	breakdown, err := json.Marshal(a.MatchBreakdown)
	if err != nil {
		return domain.Application{}, false, fmt.Errorf("op=application.create_or_get: %w", err)
	}
	strengths, err := json.Marshal(a.Strengths)
	if err != nil {
		return domain.Application{}, false, fmt.Errorf("op=application.create_or_get: %w", err)
	}
	weaknesses, err := json.Marshal(a.Weaknesses)
	if err != nil {
		return domain.Application{}, false, fmt.Errorf("op=application.create_or_get: %w", err)
	}
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return domain.Application{}, false, fmt.Errorf("op=application.create_or_get: %w", err)
	}

	q := `INSERT INTO applications (` + applicationColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	ON CONFLICT DO NOTHING`
	tag, err := r.Pool.Exec(ctx, q,
		a.ID, a.UserID, a.JobID, a.GigID, a.UserName, a.UserEmail, a.UserAvatarURL, a.UserTagline, a.UserCity,
		snapshot, a.MatchScore, breakdown, a.ProfileSummary, strengths, weaknesses,
		questions, a.Status, a.OverallScore, a.CreatedAt)
	if err != nil {
		return domain.Application{}, false, fmt.Errorf("op=application.create_or_get: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.FindByListing(ctx, a.UserID, a.ListingRef())
		if err != nil {
			return domain.Application{}, false, fmt.Errorf("op=application.create_or_get: %w", err)
		}
		return existing, false, nil
	}
	return a, true, nil
}

// Get loads an application by id.
func (r *ApplicationRepo) Get(ctx domain.Context, id string) (domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "applications"),
	)
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE id=$1`
	a, err := scanApplication(r.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Application{}, fmt.Errorf("op=application.get: %w", domain.ErrNotFound)
		}
		return domain.Application{}, fmt.Errorf("op=application.get: %w", err)
	}
	return a, nil
}

// FindByListing loads the candidate's application for one listing.
func (r *ApplicationRepo) FindByListing(ctx domain.Context, userID string, ref domain.ListingRef) (domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.FindByListing")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "applications"),
	)
	var q string
	switch ref.Kind {
	case domain.KindJob:
		q = `SELECT ` + applicationColumns + ` FROM applications WHERE user_id=$1 AND job_id=$2`
	case domain.KindGig:
		q = `SELECT ` + applicationColumns + ` FROM applications WHERE user_id=$1 AND gig_id=$2`
	default:
		return domain.Application{}, fmt.Errorf("op=application.find_by_listing: %w", domain.ErrInvalidArgument)
	}
	a, err := scanApplication(r.Pool.QueryRow(ctx, q, userID, ref.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Application{}, fmt.Errorf("op=application.find_by_listing: %w", domain.ErrNotFound)
		}
		return domain.Application{}, fmt.Errorf("op=application.find_by_listing: %w", err)
	}
	return a, nil
}

// List returns applications ordered by creation time, newest first.
func (r *ApplicationRepo) List(ctx domain.Context, limit, offset int) ([]domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.List")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "applications"),
	)
	q := `SELECT ` + applicationColumns + ` FROM applications ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.Pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("op=application.list: %w", err)
	}
	defer rows.Close()
	out := make([]domain.Application, 0, limit)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("op=application.list: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=application.list: %w", err)
	}
	return out, nil
}

func scanApplication(s scanner) (domain.Application, error) {
	var a domain.Application
	var snapshot, breakdown, strengths, weaknesses, questions []byte
	if err := s.Scan(
		&a.ID, &a.UserID, &a.JobID, &a.GigID, &a.UserName, &a.UserEmail, &a.UserAvatarURL, &a.UserTagline, &a.UserCity,
		&snapshot, &a.MatchScore, &breakdown, &a.ProfileSummary, &strengths, &weaknesses,
		&questions, &a.Status, &a.OverallScore, &a.CreatedAt,
	); err != nil {
		return domain.Application{}, err
	}
	if err := json.Unmarshal(snapshot, &a.Snapshot); err != nil {
		return domain.Application{}, fmt.Errorf("decode profile_snapshot: %w", err)
	}
	if err := json.Unmarshal(breakdown, &a.MatchBreakdown); err != nil {
		return domain.Application{}, fmt.Errorf("decode match_breakdown: %w", err)
	}
	if err := json.Unmarshal(strengths, &a.Strengths); err != nil {
		return domain.Application{}, fmt.Errorf("decode strengths: %w", err)
	}
	if err := json.Unmarshal(weaknesses, &a.Weaknesses); err != nil {
		return domain.Application{}, fmt.Errorf("decode weaknesses: %w", err)
	}
	if err := json.Unmarshal(questions, &a.Questions); err != nil {
		return domain.Application{}, fmt.Errorf("decode ai_questions: %w", err)
	}
	return a, nil
}
