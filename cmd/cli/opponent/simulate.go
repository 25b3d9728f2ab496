// Package opponent holds CLI commands for exercising the simulated opponent.
package opponent

import (
	"math/rand"
	"time"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/opponent"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "opponent",
	Title: "Opponent tuning",
}

func init() {
	Simulate.Flags().String("difficulty", "MEDIUM", "EASY, MEDIUM or HARD")
	Simulate.Flags().Int("trials", 1000, "number of simulated interrogations")
	Simulate.Flags().Int("questions", 6, "questions per interrogation")
}

// Simulate runs interrogations against the simulated opponent and reports its
// accuracy and final suspicion distribution, which is handy when tuning the
// per-tier error rates.
var Simulate = &cobra.Command{ //nolint:exhaustruct
	Use:     "simulate",
	GroupID: "opponent",
	Short:   "Simulate opponent interrogations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		difficultyFlag, err := cmd.Flags().GetString("difficulty")
		if err != nil {
			return errors.Wrap(err, "difficulty flag")
		}
		difficulty := models.Difficulty(difficultyFlag)
		if !difficulty.Valid() {
			return errors.New("difficulty must be EASY, MEDIUM or HARD")
		}
		trials, err := cmd.Flags().GetInt("trials")
		if err != nil {
			return errors.Wrap(err, "trials flag")
		}
		questions, err := cmd.Flags().GetInt("questions")
		if err != nil {
			return errors.Wrap(err, "questions flag")
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // simulation, not security
		options := []string{"07:00", "07:30", "08:00"}
		correctAnswer := options[1]

		var answered, correct, suspicionTotal int
		for trial := 0; trial < trials; trial++ {
			trialCorrect := 0
			for q := 0; q < questions; q++ {
				response := opponent.Respond(correctAnswer, options, difficulty, rng)
				answered++
				if response.Correct {
					correct++
					trialCorrect++
				}
			}
			suspicionTotal += opponent.FinalSuspicion(trialCorrect, questions, difficulty, rng)
		}

		cmd.Printf("difficulty %s: %d trials, %d questions each\n", difficulty, trials, questions)
		cmd.Printf("observed error rate  %.1f%%\n", 100*float64(answered-correct)/float64(answered))
		cmd.Printf("mean suspicion       %.1f\n", float64(suspicionTotal)/float64(trials))
		return nil
	},
}
