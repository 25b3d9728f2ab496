package game

import (
	"github.com/myrjola/lastalibi/internal/errors"
)

// Results is the final report: the suspicion winner and the killer reveal.
// These are independent: the killer was assigned by the scenario before the
// first dilemma and does not care who interrogated better.
type Results struct {
	Winner         int
	WinnerName     string
	Player1        Player
	Player2        Player
	Killer         int
	KillerName     string
	Convergence    string
	Explanation    string
	Arrested       bool
	ArrestedPlayer int
}

// Results derives the final report once the session has reached the results phase.
func (s Session) Results() (Results, error) {
	if s.Phase != PhaseResults {
		return Results{}, errors.Wrap(ErrWrongPhase, "results")
	}
	if s.Scenario == nil {
		return Results{}, errors.Wrap(ErrNoDilemmas, "results")
	}

	// Lower suspicion wins; seat 2 takes ties.
	winner := 2
	if s.Players[0].Suspicion < s.Players[1].Suspicion {
		winner = 1
	}

	killer := s.Scenario.KillerPlayer

	return Results{
		Winner:         winner,
		WinnerName:     s.Player(winner).Name,
		Player1:        s.Players[0],
		Player2:        s.Players[1],
		Killer:         killer,
		KillerName:     s.Player(killer).Name,
		Convergence:    s.Scenario.ConvergenceLocation,
		Explanation:    s.Scenario.FinalExplanation,
		Arrested:       s.Arrested,
		ArrestedPlayer: s.ArrestedPlayer,
	}, nil
}
