package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nexfound/apply-engine/internal/adapter/ai"
	"github.com/nexfound/apply-engine/internal/adapter/observability"
	"github.com/nexfound/apply-engine/internal/domain"
)

// StartResult is the outcome of a start-application request. Resumed means an
// existing record was returned and no model calls were made.
type StartResult struct {
	Application domain.Application
	Resumed     bool
}

// CheckResult is the lightweight existence probe used by listing pages.
type CheckResult struct {
	Applied       bool
	ApplicationID string
	Status        domain.ApplicationStatus
	OverallScore  int
}

// ApplicationService orchestrates the application-start pipeline: idempotency
// check, listing resolution, profile snapshot, the two sequential model
// calls, parse with fallback, and the atomic insert.
type ApplicationService struct {
	Apps     domain.ApplicationRepository
	Listings domain.ListingRepository
	Profiles domain.ProfileRepository
	AI       domain.CompletionClient
	Events   domain.EventPublisher
}

// NewApplicationService constructs an ApplicationService with its dependencies.
// Events may be nil when no broker is configured.
func NewApplicationService(apps domain.ApplicationRepository, listings domain.ListingRepository, profiles domain.ProfileRepository, aiClient domain.CompletionClient, events domain.EventPublisher) ApplicationService {
	return ApplicationService{Apps: apps, Listings: listings, Profiles: profiles, AI: aiClient, Events: events}
}

// Start creates the candidate's application for a listing, or resumes the
// existing one. The only write is the final insert; any earlier failure
// leaves no partial state.
func (s ApplicationService) Start(ctx domain.Context, identity domain.Identity, ref domain.ListingRef) (StartResult, error) {
	if identity.UserID == "" {
		return StartResult{}, fmt.Errorf("%w: identity required", domain.ErrUnauthenticated)
	}
	if err := validateRef(ref); err != nil {
		return StartResult{}, err
	}

	// Idempotent resume: an existing record is returned unchanged, without
	// re-snapshotting or re-scoring.
	if existing, err := s.Apps.FindByListing(ctx, identity.UserID, ref); err == nil {
		observability.ObserveApplicationResumed(string(ref.Kind))
		return StartResult{Application: existing, Resumed: true}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return StartResult{}, fmt.Errorf("op=application.start: %w", err)
	}

	listing, err := s.Listings.Get(ctx, ref)
	if err != nil {
		return StartResult{}, err
	}

	snapshot, err := BuildSnapshot(ctx, s.Profiles, identity.UserID)
	if err != nil {
		return StartResult{}, err
	}
	candidateText := RenderCandidateText(snapshot)
	listingText := RenderListingText(listing)

	analysisRaw, err := s.AI.Complete(ctx, analysisSystemPrompt, buildAnalysisPrompt(listing, listingText, candidateText), analysisTemperature, analysisMaxTokens)
	if err != nil {
		return StartResult{}, err
	}
	analysisOut := ai.ParseAnalysis(analysisRaw)
	if analysisOut.Fallback {
		observability.ObserveParseFallback("analysis")
	}

	questionsRaw, err := s.AI.Complete(ctx, questionSystemPrompt, buildQuestionPrompt(listing, analysisOut.Analysis.Weaknesses), questionTemperature, questionMaxTokens)
	if err != nil {
		return StartResult{}, err
	}
	questionsOut := ai.ParseQuestions(questionsRaw)
	if questionsOut.Fallback {
		observability.ObserveParseFallback("questions")
	}

	app := assembleApplication(identity, ref, snapshot, analysisOut.Analysis, questionsOut.Questions)
	persisted, created, err := s.Apps.CreateOrGet(ctx, app)
	if err != nil {
		return StartResult{}, fmt.Errorf("op=application.start: %w", err)
	}
	if !created {
		// Lost the race to a concurrent duplicate start; the winner's record
		// is returned as a resume.
		observability.ObserveApplicationResumed(string(ref.Kind))
		return StartResult{Application: persisted, Resumed: true}, nil
	}

	observability.ObserveApplicationStarted(string(ref.Kind), persisted.MatchScore)
	s.publishCreated(ctx, persisted)
	return StartResult{Application: persisted, Resumed: false}, nil
}

// Check reports whether the candidate already applied to a listing.
func (s ApplicationService) Check(ctx domain.Context, identity domain.Identity, ref domain.ListingRef) (CheckResult, error) {
	if err := validateRef(ref); err != nil {
		return CheckResult{}, err
	}
	app, err := s.Apps.FindByListing(ctx, identity.UserID, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return CheckResult{}, nil
	}
	if err != nil {
		return CheckResult{}, fmt.Errorf("op=application.check: %w", err)
	}
	return CheckResult{
		Applied:       true,
		ApplicationID: app.ID,
		Status:        app.Status,
		OverallScore:  app.OverallScore,
	}, nil
}

// Get loads one application by id.
func (s ApplicationService) Get(ctx domain.Context, id string) (domain.Application, error) {
	if id == "" {
		return domain.Application{}, fmt.Errorf("%w: id required", domain.ErrInvalidArgument)
	}
	return s.Apps.Get(ctx, id)
}

// List returns applications for reviewers, newest first.
func (s ApplicationService) List(ctx domain.Context, limit, offset int) ([]domain.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Apps.List(ctx, limit, offset)
}

func validateRef(ref domain.ListingRef) error {
	if ref.ID == "" {
		return fmt.Errorf("%w: job_id or gig_id required", domain.ErrInvalidArgument)
	}
	if ref.Kind != domain.KindJob && ref.Kind != domain.KindGig {
		return fmt.Errorf("%w: unknown listing kind", domain.ErrInvalidArgument)
	}
	return nil
}

func assembleApplication(identity domain.Identity, ref domain.ListingRef, snapshot domain.ProfileSnapshot, analysis ai.Analysis, questions []domain.Question) domain.Application {
	app := domain.Application{
		UserID:         identity.UserID,
		UserName:       orDefault(snapshot.User.FullName, identity.Email),
		UserEmail:      identity.Email,
		UserAvatarURL:  snapshot.User.AvatarURL,
		UserTagline:    snapshot.User.Tagline,
		UserCity:       snapshot.User.City,
		Snapshot:       snapshot,
		MatchScore:     analysis.MatchScore,
		MatchBreakdown: analysis.MatchBreakdown,
		ProfileSummary: analysis.ProfileSummary,
		Strengths:      analysis.Strengths,
		Weaknesses:     analysis.Weaknesses,
		Questions:      questions,
		Status:         domain.ApplicationInProgress,
		CreatedAt:      time.Now().UTC(),
	}
	switch ref.Kind {
	case domain.KindJob:
		id := ref.ID
		app.JobID = &id
	case domain.KindGig:
		id := ref.ID
		app.GigID = &id
	}
	return app
}

// publishCreated emits the lifecycle event without holding up the response.
func (s ApplicationService) publishCreated(ctx domain.Context, app domain.Application) {
	if s.Events == nil {
		return
	}
	ev := domain.ApplicationCreatedEvent{
		ApplicationID: app.ID,
		UserID:        app.UserID,
		JobID:         app.JobID,
		GigID:         app.GigID,
		MatchScore:    app.MatchScore,
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.Events.PublishApplicationCreated(pubCtx, ev); err != nil {
			slog.Error("publish application.created", slog.String("application_id", app.ID), slog.Any("error", err))
		}
	}()
}
