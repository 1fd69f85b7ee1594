package usecase

import (
	"fmt"
	"strings"

	"github.com/nexfound/apply-engine/internal/domain"
	"github.com/nexfound/apply-engine/pkg/textx"
)

const (
	analysisSystemPrompt = "You are an AI recruiter. Analyze the candidate profile against the job/gig. Return ONLY valid JSON, no markdown, no code fences."
	questionSystemPrompt = "You are an AI interviewer. Generate interview questions. Return ONLY valid JSON array, no markdown, no code fences."

	analysisTemperature = 0.4
	analysisMaxTokens   = 800
	questionTemperature = 0.6
	questionMaxTokens   = 1024

	// questionDescriptionCap bounds the listing description in the shorter
	// question prompt.
	questionDescriptionCap = 300
)

func buildAnalysisPrompt(l domain.Listing, listingText, candidateText string) string {
	noun := listingNoun(l.Kind)
	return fmt.Sprintf(`Analyze this candidate for the %s below.

%s DETAILS:
%s

CANDIDATE PROFILE:
%s

Return JSON:
{
  "match_score": <0-100>,
  "match_breakdown": { "skills": <0-100>, "experience": <0-100>, "level": <0-100>, "overall": <0-100> },
  "profile_summary": "<2-3 sentences>",
  "strengths": ["<strength1>", "<strength2>", ...],
  "weaknesses": ["<gap1>", "<gap2>", ...]
}`, noun, strings.ToUpper(noun), listingText, candidateText)
}

func buildQuestionPrompt(l domain.Listing, weaknesses []string) string {
	noun := listingNoun(l.Kind)
	return fmt.Sprintf(`Generate 6 interview questions for this %s.

%s: %s - %s
Level: %s
Skills: %s
Description: %s

CANDIDATE GAPS: %s

Generate exactly 6 questions: 2 technical, 1 behavioral, 1 problem-solving, 1 motivation, 1 about candidate gaps.

Return JSON array:
[
  { "id": 1, "question": "...", "type": "technical" },
  { "id": 2, "question": "...", "type": "technical" },
  { "id": 3, "question": "...", "type": "behavioral" },
  { "id": 4, "question": "...", "type": "problem_solving" },
  { "id": 5, "question": "...", "type": "motivation" },
  { "id": 6, "question": "...", "type": "gap" }
]`, noun, strings.ToUpper(noun), l.Title, orDefault(l.Category, "general"),
		orDefault(l.ExperienceLevel, "any"),
		joinOr(l.SkillsRequired, "general"),
		textx.Truncate(textx.SanitizeText(l.Description), questionDescriptionCap),
		joinOr(weaknesses, "None identified"))
}
