package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validStoryJSON = `{
  "convergenceLocation": "Metro Station",
  "convergenceTime": "12:30",
  "dilemmas": [
    {
      "time": "07:00",
      "player": 1,
      "question": "You wake up and...",
      "options": ["Go to work", "Stay home"],
      "locations": ["Office", "Home"]
    },
    {
      "time": "09:00",
      "player": 2,
      "question": "Breakfast?",
      "options": ["Coffee shop", "Home breakfast"],
      "locations": ["Cafe", "Home"]
    }
  ],
  "killerPlayer": 2,
  "finalExplanation": "The metro detour put the killer at the scene."
}`

func TestDecodeStory(t *testing.T) {
	story, err := decodeStory(validStoryJSON)
	require.NoError(t, err)
	require.Equal(t, "Metro Station", story.ConvergenceLocation)
	require.Len(t, story.Dilemmas, 2)
	require.Equal(t, 2, story.KillerPlayer)
	require.False(t, story.Cached)
}

func TestDecodeStoryStripsMarkdownFence(t *testing.T) {
	fenced := "```json\n" + validStoryJSON + "\n```"
	story, err := decodeStory(fenced)
	require.NoError(t, err)
	require.Equal(t, "Metro Station", story.ConvergenceLocation)
}

func TestDecodeStoryRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name       string
		completion string
	}{
		{
			name:       "no JSON at all",
			completion: "I am sorry, I cannot write that story.",
		},
		{
			name:       "truncated JSON",
			completion: `{"convergenceLocation": "Hospital", "dilemmas": [{"time"`,
		},
		{
			name:       "wrong types",
			completion: `{"convergenceLocation": 5, "dilemmas": [], "killerPlayer": "two", "finalExplanation": ""}`,
		},
		{
			name:       "empty dilemmas",
			completion: `{"convergenceLocation": "Hospital", "dilemmas": [], "killerPlayer": 1, "finalExplanation": "x"}`,
		},
		{
			name: "killer out of range",
			completion: `{"convergenceLocation": "Hospital", "dilemmas": [
				{"time": "07:00", "player": 1, "question": "q", "options": ["a", "b"], "locations": ["x", "y"]}
			], "killerPlayer": 3, "finalExplanation": "x"}`,
		},
		{
			name: "dilemma owner out of range",
			completion: `{"convergenceLocation": "Hospital", "dilemmas": [
				{"time": "07:00", "player": 0, "question": "q", "options": ["a", "b"], "locations": ["x", "y"]}
			], "killerPlayer": 1, "finalExplanation": "x"}`,
		},
		{
			name: "locations misaligned with options",
			completion: `{"convergenceLocation": "Hospital", "dilemmas": [
				{"time": "07:00", "player": 1, "question": "q", "options": ["a", "b"], "locations": ["x"]}
			], "killerPlayer": 1, "finalExplanation": "x"}`,
		},
		{
			name: "missing explanation",
			completion: `{"convergenceLocation": "Hospital", "dilemmas": [
				{"time": "07:00", "player": 1, "question": "q", "options": ["a", "b"], "locations": ["x", "y"]}
			], "killerPlayer": 1, "finalExplanation": ""}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeStory(tt.completion)
			require.ErrorIs(t, err, ErrBadCompletion)
		})
	}
}

const validQuestionsJSON = `{
  "questions": [
    {
      "question": "What time did you leave your house?",
      "targetPlayer": 1,
      "correctAnswer": "07:30",
      "options": ["07:00", "07:30", "08:00"],
      "suspicionImpact": -15,
      "isCritical": false
    },
    {
      "question": "Which line did you take?",
      "targetPlayer": 2,
      "correctAnswer": "Blue",
      "options": ["Blue", "Red", "Green", "None"],
      "suspicionImpact": -20,
      "isCritical": true
    }
  ]
}`

func TestDecodeQuestions(t *testing.T) {
	questions, err := decodeQuestions(validQuestionsJSON)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	require.Equal(t, 1, questions[0].TargetPlayer)
	require.True(t, questions[1].IsCritical)
}

func TestDecodeQuestionsRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name       string
		completion string
	}{
		{
			name:       "empty list",
			completion: `{"questions": []}`,
		},
		{
			name: "target out of range",
			completion: `{"questions": [{"question": "q", "targetPlayer": 3,
				"correctAnswer": "a", "options": ["a", "b"], "suspicionImpact": -10, "isCritical": false}]}`,
		},
		{
			name: "correct answer not offered",
			completion: `{"questions": [{"question": "q", "targetPlayer": 1,
				"correctAnswer": "c", "options": ["a", "b"], "suspicionImpact": -10, "isCritical": false}]}`,
		},
		{
			name: "single option",
			completion: `{"questions": [{"question": "q", "targetPlayer": 1,
				"correctAnswer": "a", "options": ["a"], "suspicionImpact": -10, "isCritical": false}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeQuestions(tt.completion)
			require.ErrorIs(t, err, ErrBadCompletion)
		})
	}
}
