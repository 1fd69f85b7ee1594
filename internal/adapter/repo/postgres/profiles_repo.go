package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nexfound/apply-engine/internal/domain"
)

// ProfileRepo reads candidate profile data for snapshotting.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

// GetUser loads the candidate's user row.
func (r *ProfileRepo) GetUser(ctx domain.Context, id string) (domain.UserProfile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.GetUser")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	)
	q := `SELECT id, username, full_name, email, avatar_url, tagline, current_city, about, skills FROM users WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var u domain.UserProfile
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.AvatarURL, &u.Tagline, &u.City, &u.About, &u.Skills); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserProfile{}, fmt.Errorf("op=profile.get_user: %w", domain.ErrNotFound)
		}
		return domain.UserProfile{}, fmt.Errorf("op=profile.get_user: %w", err)
	}
	return u, nil
}

// ListExperiences loads the candidate's work experiences with their nested
// positions. Experiences follow the profile's stored sort order; positions
// follow theirs, falling back to start date descending.
func (r *ProfileRepo) ListExperiences(ctx domain.Context, userID string, limit int) ([]domain.Experience, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.ListExperiences")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "work_experiences"),
	)
	q := `SELECT e.id, e.company_name, e.domain, p.id, p.position, p.start_date, p.end_date, p.description
	FROM (
		SELECT id, company_name, domain, sort_order, created_at FROM work_experiences WHERE user_id=$1 ORDER BY sort_order ASC, created_at DESC LIMIT $2
	) e
	LEFT JOIN experience_positions p ON p.experience_id = e.id
	ORDER BY e.sort_order ASC, e.created_at DESC, p.sort_order ASC, p.start_date DESC NULLS LAST`
	rows, err := r.Pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("op=profile.list_experiences: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Experience, 0, limit)
	index := map[string]int{}
	for rows.Next() {
		var e domain.Experience
		var posID, posTitle, posStart, posEnd, posDesc *string
		if err := rows.Scan(&e.ID, &e.Company, &e.Domain, &posID, &posTitle, &posStart, &posEnd, &posDesc); err != nil {
			return nil, fmt.Errorf("op=profile.list_experiences: %w", err)
		}
		i, ok := index[e.ID]
		if !ok {
			i = len(out)
			index[e.ID] = i
			e.Positions = []domain.Position{}
			out = append(out, e)
		}
		if posID != nil {
			out[i].Positions = append(out[i].Positions, domain.Position{
				ID:          *posID,
				Title:       deref(posTitle),
				StartDate:   deref(posStart),
				EndDate:     deref(posEnd),
				Description: deref(posDesc),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=profile.list_experiences: %w", err)
	}
	return out, nil
}

// ListProjects loads the candidate's most recent portfolio projects.
func (r *ProfileRepo) ListProjects(ctx domain.Context, ownerID string, limit int) ([]domain.Project, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.ListProjects")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "projects"),
	)
	q := `SELECT id, title, description, tech_stack FROM projects WHERE owner_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.Pool.Query(ctx, q, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("op=profile.list_projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, limit)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.TechStack); err != nil {
			return nil, fmt.Errorf("op=profile.list_projects: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=profile.list_projects: %w", err)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
