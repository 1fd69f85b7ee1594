// Package domain holds the core entities, ports, and error taxonomy.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	ErrAIUnavailable   = errors.New("ai service unavailable")
	ErrInternal        = errors.New("internal error")
)

// Context is an alias so the domain does not spell out std context everywhere.
type Context = context.Context

// Identity is a verified candidate identity resolved from a session token.
// Handlers resolve it before any pipeline work; usecases never read ambient
// session state.
type Identity struct {
	UserID string
	Email  string
}

// ListingKind discriminates the listing union.
type ListingKind string

const (
	KindJob ListingKind = "job"
	KindGig ListingKind = "gig"
)

// ListingRef identifies exactly one job or gig.
type ListingRef struct {
	Kind ListingKind
	ID   string
}

// JobDetails carries the job-only field set.
type JobDetails struct {
	JobType      string `json:"job_type"`
	WorkMode     string `json:"work_mode"`
	Location     string `json:"location"`
	Requirements string `json:"requirements"`
}

// GigDetails carries the gig-only field set.
type GigDetails struct {
	PaymentType  string `json:"payment_type"`
	Budget       string `json:"budget"`
	Duration     string `json:"duration"`
	Deliverables string `json:"deliverables"`
}

// Listing is a tagged union: exactly one of Job/Gig is non-nil, matching Kind.
type Listing struct {
	ID              string      `json:"id"`
	Kind            ListingKind `json:"kind"`
	Title           string      `json:"title"`
	Company         string      `json:"company"`
	Category        string      `json:"category"`
	ExperienceLevel string      `json:"experience_level"`
	SkillsRequired  []string    `json:"skills_required"`
	Description     string      `json:"description"`
	// Responsibilities holds the job's responsibilities or the gig's scope.
	Responsibilities string      `json:"responsibilities"`
	Job              *JobDetails `json:"job,omitempty"`
	Gig              *GigDetails `json:"gig,omitempty"`
}

// Ref returns the listing's reference.
func (l Listing) Ref() ListingRef { return ListingRef{Kind: l.Kind, ID: l.ID} }

// UserProfile is the candidate-facing user row.
type UserProfile struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	FullName  string   `json:"full_name"`
	Email     string   `json:"email"`
	AvatarURL string   `json:"avatar_url"`
	Tagline   string   `json:"tagline"`
	City      string   `json:"current_city"`
	About     string   `json:"about"`
	Skills    []string `json:"skills"`
}

// Position is a role held within a work experience. Dates are stored as
// YYYY-MM strings; an empty start renders as "?" and an empty end as
// "Present" in prompt text.
type Position struct {
	ID          string `json:"id"`
	Title       string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

// Experience is a company with its nested positions.
type Experience struct {
	ID        string     `json:"id"`
	Company   string     `json:"company_name"`
	Domain    string     `json:"domain"`
	Positions []Position `json:"positions"`
}

// Project is a portfolio project.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
}

// ProfileSnapshot is an immutable copy of profile data captured when an
// application is created; it never tracks later profile edits.
type ProfileSnapshot struct {
	User        UserProfile  `json:"user"`
	Experiences []Experience `json:"experiences"`
	Projects    []Project    `json:"projects"`
}

// QuestionType enumerates interview question categories.
type QuestionType string

const (
	QuestionTechnical      QuestionType = "technical"
	QuestionBehavioral     QuestionType = "behavioral"
	QuestionProblemSolving QuestionType = "problem_solving"
	QuestionMotivation     QuestionType = "motivation"
	QuestionGap            QuestionType = "gap"
	QuestionGeneral        QuestionType = "general"
)

// Question is one entry of an application's interview.
// Invariants after creation: ID in 1..6, Type non-empty, Answer/Feedback
// empty and Score zero until the candidate answers.
type Question struct {
	ID       int          `json:"id"`
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
	Answer   string       `json:"answer"`
	Score    int          `json:"score"`
	Feedback string       `json:"feedback"`
}

// MatchBreakdown holds the four 0-100 sub-scores from the analysis call.
type MatchBreakdown struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Level      int `json:"level"`
	Overall    int `json:"overall"`
}

// ApplicationStatus is the application lifecycle state.
type ApplicationStatus string

const (
	ApplicationInProgress ApplicationStatus = "in_progress"
	ApplicationSubmitted  ApplicationStatus = "submitted"
	ApplicationReviewed   ApplicationStatus = "reviewed"
)

// Application is the persisted application record.
// Invariants: exactly one of JobID/GigID is set; Questions has exactly six
// entries; the snapshot and denormalized user fields are frozen at creation.
type Application struct {
	ID             string            `json:"id"`
	JobID          *string           `json:"job_id"`
	GigID          *string           `json:"gig_id"`
	UserID         string            `json:"user_id"`
	UserName       string            `json:"user_name"`
	UserEmail      string            `json:"user_email"`
	UserAvatarURL  string            `json:"user_avatar_url"`
	UserTagline    string            `json:"user_tagline"`
	UserCity       string            `json:"user_city"`
	Snapshot       ProfileSnapshot   `json:"profile_snapshot"`
	MatchScore     int               `json:"match_score"`
	MatchBreakdown MatchBreakdown    `json:"match_breakdown"`
	ProfileSummary string            `json:"profile_summary"`
	Strengths      []string          `json:"strengths"`
	Weaknesses     []string          `json:"weaknesses"`
	Questions      []Question        `json:"ai_questions"`
	Status         ApplicationStatus `json:"status"`
	OverallScore   int               `json:"overall_score"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ListingRef returns the application's listing reference.
func (a Application) ListingRef() ListingRef {
	if a.JobID != nil {
		return ListingRef{Kind: KindJob, ID: *a.JobID}
	}
	if a.GigID != nil {
		return ListingRef{Kind: KindGig, ID: *a.GigID}
	}
	return ListingRef{}
}

// Repositories (ports)

// ApplicationRepository persists applications. CreateOrGet must be atomic:
// under concurrent duplicate starts for one (candidate, listing) pair it
// returns the single surviving row, reporting created=false for the loser.
type ApplicationRepository interface {
	CreateOrGet(ctx Context, a Application) (Application, bool, error)
	Get(ctx Context, id string) (Application, error)
	FindByListing(ctx Context, userID string, ref ListingRef) (Application, error)
	List(ctx Context, limit, offset int) ([]Application, error)
}

// ListingRepository loads jobs and gigs.
type ListingRepository interface {
	Get(ctx Context, ref ListingRef) (Listing, error)
}

// ProfileRepository reads the candidate's profile for snapshotting.
type ProfileRepository interface {
	GetUser(ctx Context, id string) (UserProfile, error)
	ListExperiences(ctx Context, userID string, limit int) ([]Experience, error)
	ListProjects(ctx Context, ownerID string, limit int) ([]Project, error)
}

// CompletionClient (port)

// CompletionClient issues a single stateless chat completion and returns the
// raw assistant text. Implementations wrap connection and configuration
// failures in ErrAIUnavailable; response content is never interpreted here.
type CompletionClient interface {
	Complete(ctx Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error)
}

// SessionStore resolves a bearer token to a verified identity.
type SessionStore interface {
	Resolve(ctx Context, token string) (Identity, error)
}

// EventPublisher emits application lifecycle events. Publishing is
// best-effort; callers must not fail the request on error.
type EventPublisher interface {
	PublishApplicationCreated(ctx Context, ev ApplicationCreatedEvent) error
}

// ApplicationCreatedEvent is the payload for application.created.
type ApplicationCreatedEvent struct {
	ApplicationID string  `json:"application_id"`
	UserID        string  `json:"user_id"`
	JobID         *string `json:"job_id,omitempty"`
	GigID         *string `json:"gig_id,omitempty"`
	MatchScore    int     `json:"match_score"`
}
