package game_test

import (
	"fmt"
	"time"

	"github.com/myrjola/lastalibi/internal/game"
	"github.com/myrjola/lastalibi/internal/models"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// testScenario builds an alternating-ownership scenario with n dilemmas.
func testScenario(n int) *models.Scenario {
	dilemmas := make([]models.Dilemma, n)
	for i := range dilemmas {
		player := 1
		if i%2 == 1 {
			player = 2
		}
		dilemmas[i] = models.Dilemma{
			Time:      fmt.Sprintf("%02d:00", 7+2*i),
			Player:    player,
			Question:  fmt.Sprintf("Dilemma %d", i),
			Options:   []string{"Option A", "Option B"},
			Locations: []string{"Cafe", "Metro Station"},
		}
	}
	return &models.Scenario{
		ConvergenceLocation: "Central Park",
		Dilemmas:            dilemmas,
		KillerPlayer:        2,
		FinalExplanation:    "The mundane choices converged.",
		Cached:              false,
	}
}

func testQuestion(target int, impact int, critical bool) models.Question {
	return models.Question{
		Question:        "What time did you leave?",
		TargetPlayer:    target,
		CorrectAnswer:   "07:30",
		Options:         []string{"07:00", "07:30", "08:00"},
		SuspicionImpact: impact,
		IsCritical:      critical,
	}
}

// startedSession returns a session in the day phase with an n-dilemma scenario.
func startedSession(mode game.Mode, n int) game.Session {
	s := game.New("test-game", mode, models.DifficultyEasy,
		game.Player{Name: "Alice", Avatar: "detective"},
		game.Player{Name: "Bob", Avatar: "drifter"},
	)
	s, err := s.StartDay(testScenario(n), t0)
	if err != nil {
		panic(err)
	}
	return s
}

// interrogatedSession fast-forwards a session through the day phase and
// installs the given questions.
func interrogatedSession(mode game.Mode, questions []models.Question) game.Session {
	s := startedSession(mode, 2)
	var err error
	for s.Phase == game.PhaseDay {
		if s, err = s.Choose(0, t0); err != nil {
			panic(err)
		}
	}
	if s, err = s.BeginInterrogation(questions, t0); err != nil {
		panic(err)
	}
	return s
}
