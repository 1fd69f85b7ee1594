package usecase

import (
	"fmt"
	"strings"

	"github.com/nexfound/apply-engine/internal/domain"
	"github.com/nexfound/apply-engine/pkg/textx"
)

// listingFieldCap bounds the long free-text listing fields in prompts.
const listingFieldCap = 500

// promptField prepares a long user-authored listing field for prompt text:
// control characters stripped, then capped.
func promptField(s string) string {
	return textx.Truncate(textx.SanitizeText(s), listingFieldCap)
}

// RenderListingText flattens a listing into a structurally parallel text
// block for the analysis prompt. Long fields are sanitized and capped at 500
// characters.
func RenderListingText(l domain.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", l.Title)
	switch l.Kind {
	case domain.KindJob:
		fmt.Fprintf(&b, "Company: %s\n", l.Company)
		fmt.Fprintf(&b, "Category: %s\n", orDefault(l.Category, "N/A"))
		fmt.Fprintf(&b, "Experience Level: %s\n", orDefault(l.ExperienceLevel, "any"))
		fmt.Fprintf(&b, "Job Type: %s\n", orDefault(l.Job.JobType, "full-time"))
		fmt.Fprintf(&b, "Work Mode: %s\n", orDefault(l.Job.WorkMode, "N/A"))
		fmt.Fprintf(&b, "Location: %s\n", orDefault(l.Job.Location, "N/A"))
		fmt.Fprintf(&b, "Skills Required: %s\n", joinOr(l.SkillsRequired, "N/A"))
		fmt.Fprintf(&b, "Description: %s\n", promptField(l.Description))
		fmt.Fprintf(&b, "Requirements: %s\n", promptField(l.Job.Requirements))
		fmt.Fprintf(&b, "Responsibilities: %s", promptField(l.Responsibilities))
	case domain.KindGig:
		fmt.Fprintf(&b, "Client: %s\n", orDefault(l.Company, "N/A"))
		fmt.Fprintf(&b, "Category: %s\n", orDefault(l.Category, "N/A"))
		fmt.Fprintf(&b, "Experience Level: %s\n", orDefault(l.ExperienceLevel, "any"))
		fmt.Fprintf(&b, "Payment Type: %s\n", orDefault(l.Gig.PaymentType, "fixed"))
		fmt.Fprintf(&b, "Budget: %s\n", orDefault(l.Gig.Budget, "N/A"))
		fmt.Fprintf(&b, "Duration: %s\n", orDefault(l.Gig.Duration, "N/A"))
		fmt.Fprintf(&b, "Skills Required: %s\n", joinOr(l.SkillsRequired, "N/A"))
		fmt.Fprintf(&b, "Description: %s\n", promptField(l.Description))
		fmt.Fprintf(&b, "Deliverables: %s\n", promptField(l.Gig.Deliverables))
		fmt.Fprintf(&b, "Scope: %s", promptField(l.Responsibilities))
	}
	return b.String()
}

// listingNoun is the word used for the listing in prompt text.
func listingNoun(kind domain.ListingKind) string {
	if kind == domain.KindGig {
		return "gig"
	}
	return "job"
}
