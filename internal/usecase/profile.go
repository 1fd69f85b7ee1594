// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nexfound/apply-engine/internal/domain"
	"github.com/nexfound/apply-engine/pkg/textx"
)

const (
	maxExperiences = 10
	maxProjects    = 10

	// projectDescriptionCap bounds per-project description text in prompts.
	projectDescriptionCap = 150
)

// BuildSnapshot captures the candidate's profile as of now. The three reads
// are independent and issued concurrently.
func BuildSnapshot(ctx domain.Context, profiles domain.ProfileRepository, userID string) (domain.ProfileSnapshot, error) {
	var snap domain.ProfileSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := profiles.GetUser(gctx, userID)
		if err != nil {
			return err
		}
		snap.User = u
		return nil
	})
	g.Go(func() error {
		exps, err := profiles.ListExperiences(gctx, userID, maxExperiences)
		if err != nil {
			return err
		}
		snap.Experiences = exps
		return nil
	})
	g.Go(func() error {
		projects, err := profiles.ListProjects(gctx, userID, maxProjects)
		if err != nil {
			return err
		}
		snap.Projects = projects
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.ProfileSnapshot{}, fmt.Errorf("op=snapshot.build: %w", err)
	}
	if snap.Experiences == nil {
		snap.Experiences = []domain.Experience{}
	}
	if snap.Projects == nil {
		snap.Projects = []domain.Project{}
	}
	return snap, nil
}

// RenderCandidateText flattens a snapshot into the plain-text block used in
// prompts. User-authored free text is sanitized before it reaches the model;
// empty sections render as explicit "None listed" markers so the prompt
// structure is stable for sparse profiles.
func RenderCandidateText(snap domain.ProfileSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", orDefault(snap.User.FullName, "Unknown"))
	fmt.Fprintf(&b, "Tagline: %s\n", orDefault(textx.SanitizeText(snap.User.Tagline), "N/A"))
	fmt.Fprintf(&b, "About: %s\n", orDefault(textx.SanitizeText(snap.User.About), "N/A"))
	fmt.Fprintf(&b, "City: %s\n", orDefault(snap.User.City, "N/A"))
	fmt.Fprintf(&b, "Skills: %s\n", joinOr(snap.User.Skills, "None listed"))
	b.WriteString("Work Experience:\n")
	b.WriteString(orDefault(renderExperiences(snap.Experiences), "  None listed"))
	b.WriteString("\nProjects:\n")
	b.WriteString(orDefault(renderProjects(snap.Projects), "  None listed"))
	return b.String()
}

func renderExperiences(exps []domain.Experience) string {
	lines := make([]string, 0, len(exps))
	for _, e := range exps {
		positions := make([]string, 0, len(e.Positions))
		for _, p := range e.Positions {
			positions = append(positions, fmt.Sprintf("%s (%s - %s): %s",
				p.Title,
				orDefault(p.StartDate, "?"),
				orDefault(p.EndDate, "Present"),
				orDefault(textx.SanitizeText(p.Description), "N/A")))
		}
		lines = append(lines, fmt.Sprintf("  %s (%s):\n    %s",
			e.Company, orDefault(e.Domain, "N/A"), strings.Join(positions, "\n    ")))
	}
	return strings.Join(lines, "\n")
}

func renderProjects(projects []domain.Project) string {
	lines := make([]string, 0, len(projects))
	for _, p := range projects {
		line := fmt.Sprintf("  - %s: %s", p.Title, textx.Truncate(textx.SanitizeText(p.Description), projectDescriptionCap))
		if len(p.TechStack) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(p.TechStack, ", "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func joinOr(values []string, def string) string {
	if len(values) == 0 {
		return def
	}
	return strings.Join(values, ", ")
}
