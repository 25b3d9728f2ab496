package scenario

import (
	"fmt"
	"strings"

	"github.com/myrjola/lastalibi/internal/models"
)

const (
	storySystemPrompt     = "You are a psychological thriller writer."
	questionsSystemPrompt = "You are a manipulative detective interrogating two suspects."
)

// convergenceLocations are the places the generator may secretly route both
// players through at the same time.
var convergenceLocations = []string{
	"Hospital", "Central Park", "Metro Station", "Shopping Mall", "Public Library",
}

// dilemmaInterval describes the day's pacing to the generator.
func dilemmaInterval(d models.Difficulty) string {
	switch d {
	case models.DifficultyEasy:
		return "3-4 hours"
	case models.DifficultyMedium:
		return "2 hours"
	case models.DifficultyHard:
		return "every hour"
	}
	return "2 hours"
}

func storyPrompt(params StoryParams) string {
	return fmt.Sprintf(`TASK: Create a noir detective story for two players: %q and %q.

RULES:
1. Both characters are strangers who don't know each other
2. Generate %d completely mundane dilemmas per player between 07:00-23:30, spaced %s apart
3. Dilemmas should be simple daily choices: "Go to work / Stay home", "Take metro / Walk", "Coffee shop / Home breakfast"
4. CRITICAL: Secretly make both players visit the SAME location at the SAME TIME without them knowing (Invisible Convergence)
5. Randomly select one player as the "Real Killer" (1 or 2)
6. Create a final explanation connecting the killer's mundane choices to the crime

CONVERGENCE LOCATIONS (choose one): %s

OUTPUT FORMAT (JSON):
{
  "convergenceLocation": "exact location name",
  "convergenceTime": "HH:MM",
  "dilemmas": [
    {
      "time": "07:00",
      "player": 1,
      "question": "You wake up and...",
      "options": ["Option A", "Option B"],
      "locations": ["Location if A chosen", "Location if B chosen"]
    }
  ],
  "killerPlayer": 1 or 2,
  "finalExplanation": "Detailed explanation of how the killer's choices led to the murder"
}

IMPORTANT:
- Dilemmas must alternate between players
- Ensure at least one choice per player leads to convergenceLocation at convergenceTime
- Keep language atmospheric and noir-style
- Return ONLY valid JSON, no markdown formatting`,
		params.Player1Name,
		params.Player2Name,
		params.Difficulty.DilemmaCount(),
		dilemmaInterval(params.Difficulty),
		strings.Join(convergenceLocations, ", "),
	)
}

func questionsPrompt(params QuestionParams) string {
	return fmt.Sprintf(`SUSPECTS:
- Player 1: %s
- Player 2: %s

PLAYER 1 CHOICES:
%s

PLAYER 2 CHOICES:
%s

TASK: Generate 10 interrogation questions that test memory recall. This is a MEMORY TEST.

RULES:
1. Questions should ask about specific details from their day
2. Each question should have 3-4 plausible options (only one correct)
3. Mix easy and hard questions
4. Target both players (5 questions each)
5. Suspicion Impact: Correct = -10 to -20, Wrong = 0, Timeout (15s) = +10 to +20
6. Mark 2-3 questions as "critical" (wrong answer could end the game)

OUTPUT FORMAT (JSON):
{
  "questions": [
    {
      "question": "What time did you leave your house?",
      "targetPlayer": 1,
      "correctAnswer": "07:30",
      "options": ["07:00", "07:30", "08:00", "08:30"],
      "suspicionImpact": -15,
      "isCritical": false
    }
  ]
}

Return ONLY valid JSON, no markdown.`,
		params.Player1Name,
		params.Player2Name,
		formatChoices(params.Player1Choices),
		formatChoices(params.Player2Choices),
	)
}

func formatChoices(choices []models.Choice) string {
	var b strings.Builder
	for i, c := range choices {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s -> %s", c.Time, c.Question, c.Selected)
	}
	return b.String()
}
