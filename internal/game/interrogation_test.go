package game_test

import (
	"testing"

	"github.com/myrjola/lastalibi/internal/game"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/stretchr/testify/require"
)

func TestBeginInterrogation(t *testing.T) {
	s := startedSession(game.ModeLocal, 2)
	var err error
	for s.Phase == game.PhaseDay {
		s, err = s.Choose(0, t0)
		require.NoError(t, err)
	}

	_, err = s.BeginInterrogation(nil, t0)
	require.ErrorIs(t, err, game.ErrNoQuestions)

	_, err = s.BeginInterrogation([]models.Question{testQuestion(3, -10, false)}, t0)
	require.ErrorIs(t, err, game.ErrUnknownSeat)

	s, err = s.BeginInterrogation([]models.Question{testQuestion(1, -10, false)}, t0)
	require.NoError(t, err)
	require.Equal(t, t0.Add(game.QuestionBudget), s.Deadline)

	// Questions can only be installed once.
	_, err = s.BeginInterrogation([]models.Question{testQuestion(1, -10, false)}, t0)
	require.ErrorIs(t, err, game.ErrWrongPhase)
}

func TestAnswerScoring(t *testing.T) {
	tests := []struct {
		name          string
		impact        int
		critical      bool
		answer        string
		wantSuspicion int
		wantStrikes   int
		wantCorrect   bool
	}{
		{
			name:          "correct answer reduces suspicion",
			impact:        -15,
			critical:      false,
			answer:        "07:30",
			wantSuspicion: 85,
			wantStrikes:   0,
			wantCorrect:   true,
		},
		{
			name:          "wrong answer changes nothing",
			impact:        -15,
			critical:      false,
			answer:        "08:00",
			wantSuspicion: 100,
			wantStrikes:   0,
			wantCorrect:   false,
		},
		{
			name:          "wrong critical answer earns a strike",
			impact:        -15,
			critical:      true,
			answer:        "08:00",
			wantSuspicion: 100,
			wantStrikes:   1,
			wantCorrect:   false,
		},
		{
			name:          "positive impact on correct answer is clamped at 100",
			impact:        25,
			critical:      false,
			answer:        "07:30",
			wantSuspicion: 100,
			wantStrikes:   0,
			wantCorrect:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions := []models.Question{
				testQuestion(1, tt.impact, tt.critical),
				testQuestion(2, -10, false),
			}
			s := interrogatedSession(game.ModeLocal, questions)

			s, outcome, err := s.Answer(tt.answer, t0)
			require.NoError(t, err)
			require.Equal(t, tt.wantCorrect, outcome.Correct)
			require.Equal(t, 1, outcome.Target)
			require.Equal(t, tt.wantSuspicion, s.Player(1).Suspicion)
			require.Equal(t, tt.wantStrikes, s.Player(1).Strikes)
		})
	}
}

func TestSuspicionStaysClamped(t *testing.T) {
	// A long run of correct answers with large negative impact bottoms out at 0.
	questions := make([]models.Question, 10)
	for i := range questions {
		questions[i] = testQuestion(1, -40, false)
	}
	s := interrogatedSession(game.ModeLocal, questions)

	var err error
	for s.Phase == game.PhaseInterrogation {
		s, _, err = s.Answer("07:30", t0)
		require.NoError(t, err)
		require.GreaterOrEqual(t, s.Player(1).Suspicion, 0)
		require.LessOrEqual(t, s.Player(1).Suspicion, 100)
	}
	require.Equal(t, 0, s.Player(1).Suspicion)
}

func TestTimeoutPenaltyIsAbsoluteValue(t *testing.T) {
	tests := []struct {
		name   string
		impact int
	}{
		{name: "negative impact", impact: -20},
		{name: "positive impact", impact: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions := []models.Question{
				testQuestion(1, -30, false), // answered correctly to pull suspicion down first
				testQuestion(1, tt.impact, true),
				testQuestion(2, -10, false),
			}
			s := interrogatedSession(game.ModeLocal, questions)

			s, _, err := s.Answer("07:30", t0)
			require.NoError(t, err)
			require.Equal(t, 70, s.Player(1).Suspicion)

			s, outcome, applied, err := s.TimeoutAnswer(s.Seq, t0)
			require.NoError(t, err)
			require.True(t, applied)
			require.True(t, outcome.TimedOut)
			// Hesitation always hurts, whatever the impact's sign.
			require.Equal(t, 90, s.Player(1).Suspicion)
			// And it never earns a strike, even on critical questions.
			require.Zero(t, s.Player(1).Strikes)
		})
	}
}

func TestTimeoutAnswerDiscardsStaleSeq(t *testing.T) {
	questions := []models.Question{
		testQuestion(1, -10, false),
		testQuestion(2, -10, false),
	}
	s := interrogatedSession(game.ModeLocal, questions)
	staleSeq := s.Seq

	s, _, err := s.Answer("07:30", t0)
	require.NoError(t, err)

	next, _, applied, err := s.TimeoutAnswer(staleSeq, t0)
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, s, next)
}

func TestArrestRequiresBothConditions(t *testing.T) {
	tests := []struct {
		name       string
		suspicion  int
		strikes    int
		wantArrest bool
	}{
		{name: "max suspicion without strikes", suspicion: 100, strikes: 0, wantArrest: false},
		{name: "strikes below max suspicion", suspicion: 99, strikes: 2, wantArrest: false},
		{name: "max suspicion with one strike", suspicion: 100, strikes: 1, wantArrest: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Seed seat 1 with the target totals, then run one scoring step
			// with zero impact so the totals survive the answer unchanged.
			questions := []models.Question{
				testQuestion(1, 0, false),
				testQuestion(2, -10, false),
			}
			s := interrogatedSession(game.ModeLocal, questions)
			s = setSeatState(s, 1, tt.suspicion, tt.strikes)

			s, outcome, err := s.Answer("07:30", t0)
			require.NoError(t, err)
			require.Equal(t, tt.wantArrest, outcome.Arrested)
			if tt.wantArrest {
				require.True(t, s.Arrested)
				require.Equal(t, 1, s.ArrestedPlayer)
				require.Equal(t, game.PhaseResults, s.Phase)
			} else {
				require.False(t, s.Arrested)
				require.Equal(t, game.PhaseInterrogation, s.Phase)
			}
		})
	}
}

func TestWrongCriticalAtMaxSuspicionArrestsImmediately(t *testing.T) {
	questions := []models.Question{
		testQuestion(1, -10, true),
		testQuestion(2, -10, false),
	}
	s := interrogatedSession(game.ModeLocal, questions)

	// Wrong critical answer at the starting suspicion of 100 strikes and
	// arrests in the same step.
	s, outcome, err := s.Answer("08:00", t0)
	require.NoError(t, err)
	require.True(t, outcome.Strike)
	require.True(t, outcome.Arrested)
	require.Equal(t, 1, s.Player(1).Strikes)
	require.Equal(t, 1, s.ArrestedPlayer)
	require.Equal(t, game.PhaseResults, s.Phase)
}

func TestInterrogationExhaustionLeadsToResults(t *testing.T) {
	questions := []models.Question{
		testQuestion(1, -10, false),
		testQuestion(2, -10, false),
	}
	s := interrogatedSession(game.ModeLocal, questions)

	s, outcome, err := s.Answer("07:30", t0)
	require.NoError(t, err)
	require.False(t, outcome.Finished)
	require.Equal(t, t0.Add(game.AnswerDisplayDelay+game.QuestionBudget), s.Deadline)

	s, outcome, err = s.Answer("07:30", t0)
	require.NoError(t, err)
	require.True(t, outcome.Finished)
	require.False(t, outcome.Arrested)
	require.Equal(t, game.PhaseResults, s.Phase)
}

func setSeatState(s game.Session, seat, suspicion, strikes int) game.Session {
	s.Players[seat-1].Suspicion = suspicion
	s.Players[seat-1].Strikes = strikes
	return s
}
