package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/myrjola/lastalibi/internal/errors"
)

// Canned serves pre-written completions so the game stays playable without an
// API key. Used for local development and in tests.
type Canned struct{}

func NewCanned() *Canned {
	return &Canned{}
}

// Complete inspects the prompts to decide whether a story or an interrogation
// is being asked for and fabricates a matching payload.
func (c *Canned) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	if strings.Contains(systemPrompt, "writer") {
		return cannedStory(userPrompt)
	}
	return cannedQuestions()
}

type cannedDilemma struct {
	Time      string   `json:"time"`
	Player    int      `json:"player"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Locations []string `json:"locations"`
}

// cannedStory builds a story with as many dilemmas as the prompt asks for,
// alternating seats and keeping both trails pointed at the same place.
func cannedStory(userPrompt string) (string, error) {
	count := dilemmaCount(userPrompt)

	dilemmas := make([]cannedDilemma, 0, count)
	for i := 0; i < count; i++ {
		dilemmas = append(dilemmas, cannedDilemma{
			Time:     fmt.Sprintf("%02d:00", 8+i),
			Player:   1 + i%2,
			Question: fmt.Sprintf("Errand number %d needs doing. What first?", i+1),
			Options:  []string{"Take the tram", "Walk the long way"},
			Locations: []string{
				"Metro Station",
				"Central Park",
			},
		})
	}

	payload := map[string]any{
		"convergenceLocation": "Central Park",
		"dilemmas":            dilemmas,
		"killerPlayer":        1 + count%2,
		"finalExplanation":    "Both of you ended the day in Central Park, and only one alibi held together.",
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshal canned story")
	}
	return string(out), nil
}

func cannedQuestions() (string, error) {
	payload := map[string]any{
		"questions": []map[string]any{
			{
				"question":        "Where were you at 08:00?",
				"targetPlayer":    1,
				"correctAnswer":   "Take the tram",
				"options":         []string{"Take the tram", "Walk the long way"},
				"suspicionImpact": -25,
				"isCritical":      false,
			},
			{
				"question":        "And you, where were you at 09:00?",
				"targetPlayer":    2,
				"correctAnswer":   "Take the tram",
				"options":         []string{"Take the tram", "Walk the long way"},
				"suspicionImpact": -25,
				"isCritical":      false,
			},
			{
				"question":        "Who saw you in the park?",
				"targetPlayer":    1,
				"correctAnswer":   "Take the tram",
				"options":         []string{"Take the tram", "Walk the long way"},
				"suspicionImpact": -30,
				"isCritical":      true,
			},
			{
				"question":        "Last one. What were you carrying?",
				"targetPlayer":    2,
				"correctAnswer":   "Take the tram",
				"options":         []string{"Take the tram", "Walk the long way"},
				"suspicionImpact": -30,
				"isCritical":      true,
			},
		},
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshal canned questions")
	}
	return string(out), nil
}

// dilemmaCount finds the requested dilemma count in the prompt, falling back
// to four.
func dilemmaCount(userPrompt string) int {
	const marker = " completely mundane dilemmas"
	idx := strings.Index(userPrompt, marker)
	if idx <= 0 {
		return 4
	}
	start := strings.LastIndexByte(userPrompt[:idx], ' ')
	if n, err := strconv.Atoi(userPrompt[start+1 : idx]); err == nil && n > 0 {
		return n
	}
	return 4
}
