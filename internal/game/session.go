// Package game holds the session state machine that drives a play-through:
// the day phase, the interrogation phase, scoring and arrest decisions.
//
// Session is a value. Every transition takes the current state and returns a
// new one, so a play-through is a fold over events and can be replayed
// deterministically in tests. The Manager owns the current value per game and
// serialises transitions.
package game

import (
	"time"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
)

type Mode string

const (
	// ModeLocal is hot-seat play: both players share one screen and the
	// active seat follows the dilemma owner.
	ModeLocal Mode = "local"
	// ModeOnline is networked play backed by the room row-store stub.
	ModeOnline Mode = "online"
	// ModeSolo plays against the simulated opponent in seat 2.
	ModeSolo Mode = "solo"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeLocal, ModeOnline, ModeSolo:
		return true
	}
	return false
}

type Phase string

const (
	PhaseSetup         Phase = "setup"
	PhaseDay           Phase = "day"
	PhaseInterrogation Phase = "interrogation"
	PhaseResults       Phase = "results"
)

const (
	// DilemmaBudget is how long a player has to resolve a dilemma before the
	// first option is forced.
	DilemmaBudget = 10 * time.Second
	// QuestionBudget is how long a player has to answer an interrogation
	// question before the hesitation penalty lands.
	QuestionBudget = 15 * time.Second
	// AnswerDisplayDelay is the pause after each answer before the next
	// question's countdown starts.
	AnswerDisplayDelay = 3 * time.Second
	// ThinkingDelay is how long the simulated opponent "thinks" before its
	// answer resolves.
	ThinkingDelay = time.Second
)

var (
	ErrWrongPhase    = errors.NewSentinel("operation not valid in current phase")
	ErrInvalidOption = errors.NewSentinel("option index out of range")
	ErrNoDilemmas    = errors.NewSentinel("scenario has no dilemmas")
	ErrNoQuestions   = errors.NewSentinel("no interrogation questions")
	ErrUnknownSeat   = errors.NewSentinel("player number must be 1 or 2")
	ErrNotYourSeat   = errors.NewSentinel("the opponent answers this question")
)

// Player is one seat in a session.
type Player struct {
	Name    string
	Avatar  string
	Choices []models.Choice
	// Suspicion is clamped to [0, 100]. Lower is better. Play starts at the
	// maximum: the interrogation is the only way down.
	Suspicion int
	IsKiller  bool
	Strikes   int
}

// Session is the full state of one play-through.
type Session struct {
	ID         string
	Mode       Mode
	Difficulty models.Difficulty
	Phase      Phase
	// ActivePlayer is the seat expected to act, 1 or 2.
	ActivePlayer int
	// CurrentTime is the simulated time-of-day label, HH:MM.
	CurrentTime string
	Players     [2]Player
	Scenario    *models.Scenario
	Questions   []models.Question
	// DilemmaIndex and QuestionIndex point at the pending step of their phase.
	DilemmaIndex  int
	QuestionIndex int
	Arrested       bool
	ArrestedPlayer int
	// Seq increments on every accepted transition. A timer event scheduled for
	// an earlier step carries a stale Seq and is discarded, so a late timeout
	// can never double-apply after a manual action already advanced the state.
	Seq uint64
	// Deadline is when the pending step times out. Zero when nothing is pending.
	Deadline time.Time
}

const initialSuspicion = 100

// New creates a session in the setup phase.
func New(id string, mode Mode, difficulty models.Difficulty, player1, player2 Player) Session {
	player1.Suspicion = initialSuspicion
	player2.Suspicion = initialSuspicion
	player1.Choices = nil
	player2.Choices = nil
	player1.Strikes = 0
	player2.Strikes = 0
	return Session{
		ID:             id,
		Mode:           mode,
		Difficulty:     difficulty,
		Phase:          PhaseSetup,
		ActivePlayer:   1,
		CurrentTime:    "07:00",
		Players:        [2]Player{player1, player2},
		Scenario:       nil,
		Questions:      nil,
		DilemmaIndex:   0,
		QuestionIndex:  0,
		Arrested:       false,
		ArrestedPlayer: 0,
		Seq:            0,
		Deadline:       time.Time{},
	}
}

// Player returns the seat n (1 or 2).
func (s Session) Player(n int) Player {
	return s.Players[n-1]
}

// StartDay attaches the scenario and enters the day phase.
func (s Session) StartDay(scenario *models.Scenario, now time.Time) (Session, error) {
	if s.Phase != PhaseSetup {
		return s, errors.Wrap(ErrWrongPhase, "start day")
	}
	if scenario == nil || len(scenario.Dilemmas) == 0 {
		return s, errors.Wrap(ErrNoDilemmas, "start day")
	}
	if scenario.KillerPlayer != 1 && scenario.KillerPlayer != 2 {
		return s, errors.Wrap(ErrUnknownSeat, "killer player")
	}

	s.Scenario = scenario
	s.Players[0].IsKiller = scenario.KillerPlayer == 1
	s.Players[1].IsKiller = scenario.KillerPlayer == 2
	s.Phase = PhaseDay
	s.DilemmaIndex = 0
	first := scenario.Dilemmas[0]
	s.CurrentTime = first.Time
	if s.Mode == ModeLocal && (first.Player == 1 || first.Player == 2) {
		s.ActivePlayer = first.Player
	}
	s.Seq++
	s.Deadline = now.Add(DilemmaBudget)
	return s, nil
}

func clampSuspicion(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
