package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexfound/apply-engine/internal/domain"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain object",
			input:    `{"match_score": 80}`,
			expected: `{"match_score": 80}`,
		},
		{
			name:     "json code fence",
			input:    "```json\n{\"match_score\": 80}\n```",
			expected: `{"match_score": 80}`,
		},
		{
			name:     "bare code fence",
			input:    "```\n[{\"id\": 1}]\n```",
			expected: `[{"id": 1}]`,
		},
		{
			name:     "surrounding prose",
			input:    "Here is the result:\n{\"match_score\": 70}\nHope this helps!",
			expected: `{"match_score": 70}`,
		},
		{
			name:     "brace inside string literal",
			input:    `{"profile_summary": "uses {braces} and \"quotes\""} trailing`,
			expected: `{"profile_summary": "uses {braces} and \"quotes\""}`,
		},
		{
			name:     "array before prose object",
			input:    "[{\"id\": 1}] see {\"note\": true}",
			expected: `[{"id": 1}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSON(tt.input))
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	raw := "```json\n{\"match_score\": 82, \"match_breakdown\": {\"skills\": 90, \"experience\": 80, \"level\": 75, \"overall\": 82}, \"profile_summary\": \"Strong backend engineer.\", \"strengths\": [\"Go\"], \"weaknesses\": [\"No Kubernetes\"]}\n```"
	out := ParseAnalysis(raw)
	require.False(t, out.Fallback)
	assert.Equal(t, 82, out.Analysis.MatchScore)
	assert.Equal(t, 90, out.Analysis.MatchBreakdown.Skills)
	assert.Equal(t, "Strong backend engineer.", out.Analysis.ProfileSummary)
	assert.Equal(t, []string{"Go"}, out.Analysis.Strengths)
	assert.Equal(t, []string{"No Kubernetes"}, out.Analysis.Weaknesses)
}

func TestParseAnalysis_Fallback(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "I cannot evaluate this candidate."} {
		out := ParseAnalysis(raw)
		require.True(t, out.Fallback, "input %q", raw)
		assert.Equal(t, 50, out.Analysis.MatchScore)
		assert.Equal(t, domain.MatchBreakdown{Skills: 50, Experience: 50, Level: 50, Overall: 50}, out.Analysis.MatchBreakdown)
		assert.Empty(t, out.Analysis.ProfileSummary)
		assert.NotNil(t, out.Analysis.Strengths)
		assert.NotNil(t, out.Analysis.Weaknesses)
	}
}

func TestParseAnalysis_NilSlices(t *testing.T) {
	out := ParseAnalysis(`{"match_score": 60}`)
	require.False(t, out.Fallback)
	assert.NotNil(t, out.Analysis.Strengths)
	assert.NotNil(t, out.Analysis.Weaknesses)
}

func TestParseQuestions(t *testing.T) {
	raw := `[
		{"id": 1, "question": "Explain Go's memory model.", "type": "technical"},
		{"id": 2, "question": "How do you test concurrent code?", "type": "technical"},
		{"id": 3, "question": "Tell us about a team conflict.", "type": "behavioral"},
		{"id": 4, "question": "Debug a failing pipeline.", "type": "problem_solving"},
		{"id": 5, "question": "Why this company?", "type": "motivation"},
		{"id": 6, "question": "How would you close your Kubernetes gap?", "type": "gap"}
	]`
	out := ParseQuestions(raw)
	require.False(t, out.Fallback)
	require.Len(t, out.Questions, QuestionCount)
	assert.Equal(t, "Explain Go's memory model.", out.Questions[0].Question)
	assert.Equal(t, domain.QuestionTechnical, out.Questions[0].Type)
}

func TestParseQuestions_Normalization(t *testing.T) {
	raw := `[
		{"question": "q1"},
		{"question": "q2", "type": "technical", "answer": "pre-filled", "score": 99, "feedback": "stale"},
		{"id": 7, "question": "q3"},
		{"question": "q4"},
		{"question": "q5"},
		{"question": "q6"}
	]`
	out := ParseQuestions(raw)
	require.False(t, out.Fallback)
	require.Len(t, out.Questions, QuestionCount)

	assert.Equal(t, 1, out.Questions[0].ID)
	assert.Equal(t, domain.QuestionGeneral, out.Questions[0].Type)

	assert.Equal(t, 2, out.Questions[1].ID)
	assert.Empty(t, out.Questions[1].Answer)
	assert.Zero(t, out.Questions[1].Score)
	assert.Empty(t, out.Questions[1].Feedback)

	// explicit ids are preserved
	assert.Equal(t, 7, out.Questions[2].ID)
}

func TestParseQuestions_Fallback(t *testing.T) {
	for _, raw := range []string{
		"",
		"not json",
		`[{"id": 1, "question": "only one", "type": "technical"}]`,
		`{"questions": "wrong shape"}`,
	} {
		out := ParseQuestions(raw)
		require.True(t, out.Fallback, "input %q", raw)
		require.Len(t, out.Questions, QuestionCount, "input %q", raw)

		counts := map[domain.QuestionType]int{}
		for i, q := range out.Questions {
			counts[q.Type]++
			assert.Equal(t, i+1, q.ID)
			assert.NotEmpty(t, q.Question)
			assert.Empty(t, q.Answer)
			assert.Zero(t, q.Score)
		}
		assert.Equal(t, 2, counts[domain.QuestionTechnical])
		assert.Equal(t, 1, counts[domain.QuestionBehavioral])
		assert.Equal(t, 1, counts[domain.QuestionProblemSolving])
		assert.Equal(t, 1, counts[domain.QuestionMotivation])
		assert.Equal(t, 1, counts[domain.QuestionGap])
	}
}
