package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nexfound/apply-engine/internal/adapter/repo/postgres"
)

// SeedListing is one fixture row in the seed file.
type SeedListing struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Company         string   `yaml:"company"`
	Category        string   `yaml:"category"`
	ExperienceLevel string   `yaml:"experience_level"`
	SkillsRequired  []string `yaml:"skills_required"`
	Description     string   `yaml:"description"`

	// Job-only fields.
	Responsibilities string `yaml:"responsibilities"`
	JobType          string `yaml:"job_type"`
	WorkMode         string `yaml:"work_mode"`
	Location         string `yaml:"location"`
	Requirements     string `yaml:"requirements"`

	// Gig-only fields.
	Scope        string `yaml:"scope"`
	PaymentType  string `yaml:"payment_type"`
	Budget       string `yaml:"budget"`
	Duration     string `yaml:"duration"`
	Deliverables string `yaml:"deliverables"`
}

// SeedFile is the YAML document holding dev listing fixtures.
type SeedFile struct {
	Jobs []SeedListing `yaml:"jobs"`
	Gigs []SeedListing `yaml:"gigs"`
}

// SeedListings loads listing fixtures from a YAML file into the jobs and gigs
// tables. Existing rows are left untouched, so re-running on startup is safe.
func SeedListings(ctx context.Context, pool postgres.PgxPool, path string) error {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return fmt.Errorf("op=seed.read: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("op=seed.parse: %w", err)
	}

	for _, j := range f.Jobs {
		_, err := pool.Exec(ctx, `INSERT INTO jobs (id, title, company, category, experience_level, skills_required, description, responsibilities, job_type, work_mode, location, requirements)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (id) DO NOTHING`,
			j.ID, j.Title, j.Company, j.Category, j.ExperienceLevel, j.SkillsRequired,
			j.Description, j.Responsibilities, j.JobType, j.WorkMode, j.Location, j.Requirements)
		if err != nil {
			return fmt.Errorf("op=seed.job id=%s: %w", j.ID, err)
		}
	}
	for _, g := range f.Gigs {
		_, err := pool.Exec(ctx, `INSERT INTO gigs (id, title, company, category, experience_level, skills_required, description, scope, payment_type, budget, duration, deliverables)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (id) DO NOTHING`,
			g.ID, g.Title, g.Company, g.Category, g.ExperienceLevel, g.SkillsRequired,
			g.Description, g.Scope, g.PaymentType, g.Budget, g.Duration, g.Deliverables)
		if err != nil {
			return fmt.Errorf("op=seed.gig id=%s: %w", g.ID, err)
		}
	}
	slog.Info("seeded listings", slog.Int("jobs", len(f.Jobs)), slog.Int("gigs", len(f.Gigs)), slog.String("file", path))
	return nil
}
