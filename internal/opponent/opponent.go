// Package opponent simulates the computer-controlled second seat during the
// interrogation phase.
package opponent

import (
	"math/rand"
	"time"

	"github.com/myrjola/lastalibi/internal/models"
)

// Response is the simulated answer to one interrogation question. ResponseTime
// is cosmetic only and has no effect on scoring.
type Response struct {
	Answer       string
	Correct      bool
	ResponseTime time.Duration
}

func errorRate(difficulty models.Difficulty) float64 {
	switch difficulty {
	case models.DifficultyEasy:
		return 0.35
	case models.DifficultyMedium:
		return 0.18
	case models.DifficultyHard:
		return 0.05
	}
	return 0.18
}

func baseLatency(difficulty models.Difficulty) time.Duration {
	// The opponent thinks faster on harder tiers.
	switch difficulty {
	case models.DifficultyEasy:
		return 3 * time.Second
	case models.DifficultyMedium:
		return 2 * time.Second
	case models.DifficultyHard:
		return 1200 * time.Millisecond
	}
	return 2 * time.Second
}

// Respond draws the opponent's answer to a question. On an error draw it picks
// uniformly among the options that are not the correct answer; otherwise it
// answers correctly.
func Respond(correctAnswer string, options []string, difficulty models.Difficulty, rng *rand.Rand) Response {
	latency := baseLatency(difficulty) + time.Duration(rng.Float64()*float64(time.Second))

	if rng.Float64() < errorRate(difficulty) {
		var wrong []string
		for _, opt := range options {
			if opt != correctAnswer {
				wrong = append(wrong, opt)
			}
		}
		if len(wrong) > 0 {
			return Response{
				Answer:       wrong[rng.Intn(len(wrong))],
				Correct:      false,
				ResponseTime: latency,
			}
		}
		// Degenerate question with no distractors.
	}

	return Response{
		Answer:       correctAnswer,
		Correct:      true,
		ResponseTime: latency,
	}
}

// Name returns the display name of the opponent for the given tier.
func Name(difficulty models.Difficulty) string {
	switch difficulty {
	case models.DifficultyEasy:
		return "Neural Shadow (Trainee)"
	case models.DifficultyMedium:
		return "Neural Shadow (Agent)"
	case models.DifficultyHard:
		return "Neural Shadow (Elite)"
	}
	return "Neural Shadow"
}

// FinalSuspicion derives the opponent's suspicion from its answer accuracy with
// a difficulty-scaled random wobble. Clamped to [0, 100].
func FinalSuspicion(correct, total int, difficulty models.Difficulty, rng *rand.Rand) int {
	if total == 0 {
		return 100
	}
	accuracy := float64(correct) / float64(total)

	suspicion := 100.0
	suspicion -= accuracy * 80

	switch difficulty {
	case models.DifficultyEasy:
		suspicion += rng.Float64() * 20
	case models.DifficultyMedium:
		suspicion += rng.Float64() * 10
	case models.DifficultyHard:
		suspicion += rng.Float64() * 5
	}

	result := int(suspicion + 0.5)
	if result < 0 {
		return 0
	}
	if result > 100 {
		return 100
	}
	return result
}
