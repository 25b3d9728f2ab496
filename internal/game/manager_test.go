package game_test

import (
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/myrjola/lastalibi/internal/clock"
	"github.com/myrjola/lastalibi/internal/game"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*game.Manager, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(t0)
	logger := testhelpers.NewLogger(os.Stderr)
	return game.NewManager(logger, clk, rand.New(rand.NewSource(1))), clk
}

// runOutDay expires n dilemma countdowns one by one. A forced choice schedules
// the next countdown relative to the time it fired, so each budget needs its
// own advance.
func runOutDay(clk *clock.Manual, n int) {
	for i := 0; i < n; i++ {
		clk.Advance(game.DilemmaBudget)
	}
}

func createStartedGame(t *testing.T, m *game.Manager, mode game.Mode, n int) game.Session {
	t.Helper()
	s := m.Create(mode, models.DifficultyEasy,
		game.Player{Name: "Alice", Avatar: "detective"},
		game.Player{Name: "Bob", Avatar: "drifter"},
	)
	s, err := m.StartDay(s.ID, testScenario(n))
	require.NoError(t, err)
	return s
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t)
	s := m.Create(game.ModeLocal, models.DifficultyMedium,
		game.Player{Name: "Alice", Avatar: "detective"},
		game.Player{Name: "Bob", Avatar: "drifter"},
	)
	require.NotEmpty(t, s.ID)
	require.Equal(t, game.PhaseSetup, s.Phase)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	require.Equal(t, s, got)

	_, err = m.Get("no-such-game")
	require.ErrorIs(t, err, game.ErrSessionNotFound)
}

func TestManagerDayCountdownForcesFirstOption(t *testing.T) {
	m, clk := newTestManager(t)
	s := createStartedGame(t, m, game.ModeLocal, 2)

	clk.Advance(game.DilemmaBudget)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.DilemmaIndex)
	require.Len(t, got.Player(1).Choices, 1)
	require.Equal(t, "Option A", got.Player(1).Choices[0].Selected)
	// Running out the clock on a dilemma carries no suspicion penalty.
	require.Equal(t, 100, got.Player(1).Suspicion)
}

func TestManagerManualChoiceCancelsCountdown(t *testing.T) {
	m, clk := newTestManager(t)
	s := createStartedGame(t, m, game.ModeLocal, 3)

	clk.Advance(5 * time.Second)
	s, err := m.Choose(s.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, s.DilemmaIndex)

	// The first dilemma's deadline passes, but its timer was cancelled by the
	// manual choice. Only the second dilemma's own deadline can advance it.
	clk.Advance(5 * time.Second)
	got, err := m.Get(s.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.DilemmaIndex)

	clk.Advance(5 * time.Second)
	got, err = m.Get(s.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.DilemmaIndex)
}

func TestManagerCountdownChainsThroughDay(t *testing.T) {
	m, clk := newTestManager(t)
	s := createStartedGame(t, m, game.ModeLocal, 2)

	// Each expiry schedules the next dilemma's countdown from the moment it
	// fired, so running out the clock dilemma by dilemma walks the whole day.
	runOutDay(clk, 2)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	require.Equal(t, game.PhaseInterrogation, got.Phase)
	require.Len(t, got.Player(1).Choices, 1)
	require.Len(t, got.Player(2).Choices, 1)
}

func TestManagerAnswerTimeoutPenalises(t *testing.T) {
	m, clk := newTestManager(t)
	s := createStartedGame(t, m, game.ModeLocal, 2)
	runOutDay(clk, 2)

	questions := []models.Question{
		testQuestion(1, -20, true),
		testQuestion(2, -10, false),
	}
	_, err := m.BeginInterrogation(s.ID, questions)
	require.NoError(t, err)

	clk.Advance(game.QuestionBudget)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	// 100 + abs(-20), clamped back to the ceiling.
	require.Equal(t, 100, got.Player(1).Suspicion)
	require.Zero(t, got.Player(1).Strikes)
	require.Equal(t, 1, got.QuestionIndex)
}

func TestManagerSoloOpponentAnswers(t *testing.T) {
	m, clk := newTestManager(t)
	s := createStartedGame(t, m, game.ModeSolo, 2)
	runOutDay(clk, 2)

	questions := []models.Question{
		testQuestion(2, -20, false),
		testQuestion(1, -10, false),
	}
	_, err := m.BeginInterrogation(s.ID, questions)
	require.NoError(t, err)

	// The seat belongs to the simulated opponent, not the human.
	_, _, err = m.Answer(s.ID, "07:30")
	require.ErrorIs(t, err, game.ErrNotYourSeat)

	// The opponent resolves its question after its thinking delay, with no
	// timeout ever scheduled against it.
	clk.Advance(game.ThinkingDelay)
	got, err := m.Get(s.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.QuestionIndex)
	q, err := got.CurrentQuestion()
	require.NoError(t, err)
	require.Equal(t, 1, q.TargetPlayer)
}

func TestManagerSoloHumanStillTimesOut(t *testing.T) {
	m, clk := newTestManager(t)
	s := createStartedGame(t, m, game.ModeSolo, 2)
	runOutDay(clk, 2)

	questions := []models.Question{
		testQuestion(1, -20, false),
		testQuestion(2, -10, false),
	}
	_, err := m.BeginInterrogation(s.ID, questions)
	require.NoError(t, err)

	clk.Advance(game.QuestionBudget)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	require.Equal(t, 100, got.Player(1).Suspicion)
	require.Equal(t, 1, got.QuestionIndex)
}

func TestManagerRemoveStopsTimers(t *testing.T) {
	m, clk := newTestManager(t)
	s := createStartedGame(t, m, game.ModeLocal, 2)

	m.Remove(s.ID)
	_, err := m.Get(s.ID)
	require.ErrorIs(t, err, game.ErrSessionNotFound)

	// The pending countdown is gone with the session.
	clk.Advance(game.DilemmaBudget)
	_, err = m.Get(s.ID)
	require.ErrorIs(t, err, game.ErrSessionNotFound)
}
