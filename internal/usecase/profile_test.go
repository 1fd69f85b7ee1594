package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexfound/apply-engine/internal/domain"
	"github.com/nexfound/apply-engine/internal/domain/mocks"
	"github.com/nexfound/apply-engine/internal/usecase"
)

func TestBuildSnapshot(t *testing.T) {
	profiles := mocks.NewMockProfileRepository(t)
	profiles.On("GetUser", mock.Anything, "user-1").Return(domain.UserProfile{ID: "user-1", FullName: "Ada Lovelace"}, nil).Once()
	profiles.On("ListExperiences", mock.Anything, "user-1", 10).Return([]domain.Experience{{ID: "exp-1", Company: "Nexfound"}}, nil).Once()
	profiles.On("ListProjects", mock.Anything, "user-1", 10).Return(nil, nil).Once()

	snap, err := usecase.BuildSnapshot(context.Background(), profiles, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", snap.User.FullName)
	require.Len(t, snap.Experiences, 1)
	assert.NotNil(t, snap.Projects)
	assert.Empty(t, snap.Projects)
}

func TestBuildSnapshot_FetchError(t *testing.T) {
	profiles := mocks.NewMockProfileRepository(t)
	profiles.On("GetUser", mock.Anything, "user-1").Return(domain.UserProfile{}, assert.AnError).Once()
	profiles.On("ListExperiences", mock.Anything, "user-1", 10).Return([]domain.Experience{}, nil).Maybe()
	profiles.On("ListProjects", mock.Anything, "user-1", 10).Return([]domain.Project{}, nil).Maybe()

	_, err := usecase.BuildSnapshot(context.Background(), profiles, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=snapshot.build")
}

func TestRenderCandidateText(t *testing.T) {
	snap := domain.ProfileSnapshot{
		User: domain.UserProfile{
			FullName: "Ada Lovelace",
			Tagline:  "Backend engineer",
			About:    "I build data plumbing.",
			City:     "London",
			Skills:   []string{"Go", "SQL"},
		},
		Experiences: []domain.Experience{
			{
				Company: "Nexfound",
				Domain:  "SaaS",
				Positions: []domain.Position{
					{Title: "Senior Engineer", StartDate: "2023-01", Description: "Led the pipeline team."},
					{Title: "Engineer", StartDate: "2020-06", EndDate: "2022-12", Description: "Built services."},
				},
			},
		},
		Projects: []domain.Project{
			{Title: "Apply Engine", Description: "An AI-assisted pipeline.", TechStack: []string{"Go", "PostgreSQL"}},
		},
	}

	text := usecase.RenderCandidateText(snap)
	assert.Contains(t, text, "Name: Ada Lovelace")
	assert.Contains(t, text, "Skills: Go, SQL")
	assert.Contains(t, text, "Nexfound (SaaS):")
	// missing end date renders as Present
	assert.Contains(t, text, "Senior Engineer (2023-01 - Present): Led the pipeline team.")
	assert.Contains(t, text, "Engineer (2020-06 - 2022-12): Built services.")
	assert.Contains(t, text, "- Apply Engine: An AI-assisted pipeline. [Go, PostgreSQL]")
	assert.NotContains(t, text, "None listed")
}

func TestRenderCandidateText_SparseProfile(t *testing.T) {
	snap := domain.ProfileSnapshot{User: domain.UserProfile{FullName: "New Grad"}}

	text := usecase.RenderCandidateText(snap)
	assert.Contains(t, text, "Tagline: N/A")
	assert.Contains(t, text, "Skills: None listed")
	assert.Contains(t, text, "Work Experience:\n  None listed")
	assert.Contains(t, text, "Projects:\n  None listed")
}

func TestRenderCandidateText_SanitizesUserAuthoredText(t *testing.T) {
	snap := domain.ProfileSnapshot{
		User: domain.UserProfile{
			FullName: "Ada",
			Tagline:  "  Backend\x00 engineer  ",
			About:    "I build\x1b data plumbing.",
		},
		Experiences: []domain.Experience{
			{Company: "Nexfound", Positions: []domain.Position{
				{Title: "Engineer", StartDate: "2020-06", Description: "Built\x07 services."},
			}},
		},
		Projects: []domain.Project{
			{Title: "Apply Engine", Description: "An AI-assisted\x00 pipeline."},
		},
	}

	text := usecase.RenderCandidateText(snap)
	assert.Contains(t, text, "Tagline: Backend engineer")
	assert.Contains(t, text, "About: I build data plumbing.")
	assert.Contains(t, text, "Engineer (2020-06 - Present): Built services.")
	assert.Contains(t, text, "Apply Engine: An AI-assisted pipeline.")
}

func TestRenderCandidateText_MissingDatesAndDescriptions(t *testing.T) {
	snap := domain.ProfileSnapshot{
		User: domain.UserProfile{FullName: "Ada"},
		Experiences: []domain.Experience{
			{Company: "Acme", Positions: []domain.Position{{Title: "Engineer"}}},
		},
	}

	text := usecase.RenderCandidateText(snap)
	assert.Contains(t, text, "Acme (N/A):")
	assert.Contains(t, text, "Engineer (? - Present): N/A")
}

func TestRenderCandidateText_ProjectDescriptionCap(t *testing.T) {
	long := strings.Repeat("x", 400)
	snap := domain.ProfileSnapshot{
		User:     domain.UserProfile{FullName: "Ada"},
		Projects: []domain.Project{{Title: "Big", Description: long}},
	}

	text := usecase.RenderCandidateText(snap)
	assert.Contains(t, text, "- Big: "+strings.Repeat("x", 150))
	assert.NotContains(t, text, strings.Repeat("x", 151))
}
