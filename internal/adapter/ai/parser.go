// Package ai provides parsing of model responses with deterministic fallbacks.
//
// Model output is untrusted: it may be wrapped in code fences, surrounded by
// prose, or not be JSON at all. Parse failures never abort the pipeline;
// they resolve to fixed defaults so an application can always be created.
package ai

import (
	"encoding/json"
	"strings"

	"github.com/nexfound/apply-engine/internal/domain"
)

// Analysis is the structured result of the profile analysis call.
type Analysis struct {
	MatchScore     int                   `json:"match_score"`
	MatchBreakdown domain.MatchBreakdown `json:"match_breakdown"`
	ProfileSummary string                `json:"profile_summary"`
	Strengths      []string              `json:"strengths"`
	Weaknesses     []string              `json:"weaknesses"`
}

// AnalysisOutcome carries either the parsed analysis or the fallback, with an
// explicit flag so tests can force and observe either path.
type AnalysisOutcome struct {
	Analysis Analysis
	Fallback bool
}

// QuestionsOutcome carries the normalized question list and whether the fixed
// fallback set was used.
type QuestionsOutcome struct {
	Questions []domain.Question
	Fallback  bool
}

// QuestionCount is the number of interview questions per application.
const QuestionCount = 6

// FallbackAnalysis returns the deterministic analysis default: 50 across all
// dimensions, empty summary and lists.
func FallbackAnalysis() Analysis {
	return Analysis{
		MatchScore:     50,
		MatchBreakdown: domain.MatchBreakdown{Skills: 50, Experience: 50, Level: 50, Overall: 50},
		ProfileSummary: "",
		Strengths:      []string{},
		Weaknesses:     []string{},
	}
}

// FallbackQuestions returns the fixed question set: 2 technical,
// 1 behavioral, 1 problem_solving, 1 motivation, 1 gap.
func FallbackQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Question: "What technical skills do you bring to this position?", Type: domain.QuestionTechnical},
		{ID: 2, Question: "Walk us through a recent project and the technology choices you made.", Type: domain.QuestionTechnical},
		{ID: 3, Question: "Tell us about your relevant experience for this role.", Type: domain.QuestionBehavioral},
		{ID: 4, Question: "Describe a challenging problem you solved recently and how you approached it.", Type: domain.QuestionProblemSolving},
		{ID: 5, Question: "Why are you interested in this role?", Type: domain.QuestionMotivation},
		{ID: 6, Question: "Where do you see yourself growing in this field?", Type: domain.QuestionGap},
	}
}

// CleanJSON strips code-fence wrapping and extracts the first balanced JSON
// object or array from mixed content.
func CleanJSON(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	objStart := strings.IndexByte(response, '{')
	arrStart := strings.IndexByte(response, '[')
	switch {
	case arrStart != -1 && (objStart == -1 || arrStart < objStart):
		return extractBalanced(response, arrStart, '[', ']')
	case objStart != -1:
		return extractBalanced(response, objStart, '{', '}')
	default:
		return response
	}
}

func extractBalanced(s string, start int, open, close byte) string {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		switch {
		case inString:
			if s[i] == '\\' {
				i++
			} else if s[i] == '"' {
				inString = false
			}
		case s[i] == '"':
			inString = true
		case s[i] == open:
			depth++
		case s[i] == close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

// ParseAnalysis parses the analysis response, substituting the deterministic
// fallback on any parse failure.
func ParseAnalysis(raw string) AnalysisOutcome {
	cleaned := CleanJSON(raw)
	var a Analysis
	if err := json.Unmarshal([]byte(cleaned), &a); err != nil {
		return AnalysisOutcome{Analysis: FallbackAnalysis(), Fallback: true}
	}
	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.Weaknesses == nil {
		a.Weaknesses = []string{}
	}
	return AnalysisOutcome{Analysis: a}
}

// ParseQuestions parses the question response. Any outcome that does not
// yield exactly six questions resolves to the fallback set, so the exactly-6
// invariant holds regardless of model behavior. The returned list is always
// normalized: ids 1..6, non-empty type, initialized answer/score/feedback.
func ParseQuestions(raw string) QuestionsOutcome {
	cleaned := CleanJSON(raw)
	var qs []domain.Question
	if err := json.Unmarshal([]byte(cleaned), &qs); err != nil || len(qs) != QuestionCount {
		return QuestionsOutcome{Questions: NormalizeQuestions(FallbackQuestions()), Fallback: true}
	}
	return QuestionsOutcome{Questions: NormalizeQuestions(qs)}
}

// NormalizeQuestions guarantees the structural invariants on a question list:
// positive ids defaulting to 1-based position, non-empty type defaulting to
// general, and zeroed answer/score/feedback.
func NormalizeQuestions(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	for i, q := range qs {
		if q.ID <= 0 {
			q.ID = i + 1
		}
		if q.Type == "" {
			q.Type = domain.QuestionGeneral
		}
		q.Answer = ""
		q.Score = 0
		q.Feedback = ""
		out[i] = q
	}
	return out
}
