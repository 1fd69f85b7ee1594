package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nexfound/apply-engine/internal/config"
	"github.com/nexfound/apply-engine/internal/domain"
	"github.com/nexfound/apply-engine/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg          config.Config
	Applications usecase.ApplicationService
	Listings     domain.ListingRepository
	Sessions     domain.SessionStore
	DBCheck      func(ctx context.Context) error
	RedisCheck   func(ctx context.Context) error
	AICheck      func(ctx context.Context) error
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// StartApplicationHandler runs the application-start pipeline for the
// authenticated candidate.
func (s *Server) StartApplicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: session required", domain.ErrUnauthenticated), nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		var req struct {
			JobID string `json:"job_id" validate:"omitempty,max=100"`
			GigID string `json:"gig_id" validate:"omitempty,max=100"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		ref, err := refFromIDs(req.JobID, req.GigID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}

		res, err := s.Applications.Start(r.Context(), identity, ref)
		if err != nil {
			LoggerFrom(r).Error("start application", slog.String("user_id", identity.UserID), slog.Any("error", err))
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": res.Application, "resumed": res.Resumed})
	}
}

// CheckApplicationHandler is the lightweight existence probe used by listing
// pages. Anonymous callers get {applied: false} rather than a 401.
func (s *Server) CheckApplicationHandler() http.HandlerFunc {
	type response struct {
		Applied       bool   `json:"applied"`
		ApplicationID string `json:"application_id,omitempty"`
		Status        string `json:"status,omitempty"`
		OverallScore  *int   `json:"overall_score,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r)
		if !ok {
			writeJSON(w, http.StatusOK, response{Applied: false})
			return
		}
		ref, err := refFromIDs(r.URL.Query().Get("job_id"), r.URL.Query().Get("gig_id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		res, err := s.Applications.Check(r.Context(), identity, ref)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if !res.Applied {
			writeJSON(w, http.StatusOK, response{Applied: false})
			return
		}
		score := res.OverallScore
		writeJSON(w, http.StatusOK, response{
			Applied:       true,
			ApplicationID: res.ApplicationID,
			Status:        string(res.Status),
			OverallScore:  &score,
		})
	}
}

// GetApplicationHandler returns one application owned by the caller.
func (s *Server) GetApplicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: session required", domain.ErrUnauthenticated), nil)
			return
		}
		app, err := s.Applications.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		// Ownership check: candidates only see their own applications.
		if app.UserID != identity.UserID {
			writeError(w, r, fmt.Errorf("%w: application", domain.ErrNotFound), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": app})
	}
}

// GetJobHandler serves a job listing for apply pages.
func (s *Server) GetJobHandler() http.HandlerFunc {
	return s.listingHandler(domain.KindJob)
}

// GetGigHandler serves a gig listing for apply pages.
func (s *Server) GetGigHandler() http.HandlerFunc {
	return s.listingHandler(domain.KindGig)
}

func (s *Server) listingHandler(kind domain.ListingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := s.Listings.Get(r.Context(), domain.ListingRef{Kind: kind, ID: chi.URLParam(r, "id")})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": l})
	}
}

// AdminApplicationsHandler lists applications for reviewers, newest first.
func (s *Server) AdminApplicationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		apps, err := s.Applications.List(r.Context(), limit, offset)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": apps, "count": len(apps)})
	}
}

// ReadyzHandler reports readiness of the service's dependencies.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details"`
	}
	probes := []struct {
		name string
		fn   func() func(ctx context.Context) error
	}{
		{"db", func() func(ctx context.Context) error { return s.DBCheck }},
		{"redis", func() func(ctx context.Context) error { return s.RedisCheck }},
		{"groq", func() func(ctx context.Context) error { return s.AICheck }},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, len(probes))
		ok := true
		for _, p := range probes {
			fn := p.fn()
			if fn == nil {
				continue
			}
			if err := fn(ctx); err != nil {
				checks = append(checks, check{Name: p.name, OK: false, Details: err.Error()})
				ok = false
			} else {
				checks = append(checks, check{Name: p.name, OK: true})
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// refFromIDs validates that exactly one listing id was supplied.
func refFromIDs(jobID, gigID string) (domain.ListingRef, error) {
	switch {
	case jobID != "" && gigID != "":
		return domain.ListingRef{}, fmt.Errorf("%w: provide job_id or gig_id, not both", domain.ErrInvalidArgument)
	case jobID != "":
		return domain.ListingRef{Kind: domain.KindJob, ID: jobID}, nil
	case gigID != "":
		return domain.ListingRef{Kind: domain.KindGig, ID: gigID}, nil
	default:
		return domain.ListingRef{}, fmt.Errorf("%w: job_id or gig_id required", domain.ErrInvalidArgument)
	}
}
