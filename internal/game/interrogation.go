package game

import (
	"log/slog"
	"time"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
)

// AnswerOutcome describes what one interrogation step did to the session.
type AnswerOutcome struct {
	Target         int
	Correct        bool
	TimedOut       bool
	SuspicionDelta int
	Strike         bool
	Arrested       bool
	// Finished is true when the interrogation ended, by exhaustion or arrest.
	Finished bool
}

// BeginInterrogation installs the generated questions and starts the first
// countdown. The session must have completed the day phase.
func (s Session) BeginInterrogation(questions []models.Question, now time.Time) (Session, error) {
	if s.Phase != PhaseInterrogation || s.Questions != nil {
		return s, errors.Wrap(ErrWrongPhase, "begin interrogation")
	}
	if len(questions) == 0 {
		return s, errors.Wrap(ErrNoQuestions, "begin interrogation")
	}
	for i, q := range questions {
		if q.TargetPlayer != 1 && q.TargetPlayer != 2 {
			return s, errors.Wrap(ErrUnknownSeat, "question target",
				slog.Int("question", i), slog.Int("target", q.TargetPlayer))
		}
	}
	s.Questions = questions
	s.QuestionIndex = 0
	s.Seq++
	s.Deadline = now.Add(QuestionBudget)
	return s, nil
}

// CurrentQuestion returns the pending interrogation question.
func (s Session) CurrentQuestion() (models.Question, error) {
	if s.Phase != PhaseInterrogation {
		return models.Question{}, errors.Wrap(ErrWrongPhase, "current question")
	}
	if s.QuestionIndex >= len(s.Questions) {
		return models.Question{}, errors.Wrap(ErrNoQuestions, "current question")
	}
	return s.Questions[s.QuestionIndex], nil
}

// Answer resolves the pending question with a manual answer.
//
// A correct answer applies the question's suspicion impact (normally negative)
// to the target player, clamped to [0, 100]. A wrong answer changes nothing,
// except that a wrong answer to a critical question earns a strike. The player
// is arrested only when suspicion has hit 100 AND at least one strike stands:
// a player can sit at 100% suspicion with no strikes and keep playing.
func (s Session) Answer(answer string, now time.Time) (Session, AnswerOutcome, error) {
	question, err := s.CurrentQuestion()
	if err != nil {
		return s, AnswerOutcome{}, err
	}

	correct := answer == question.CorrectAnswer
	delta := 0
	if correct {
		delta = question.SuspicionImpact
	}
	strike := !correct && question.IsCritical

	return s.applyOutcome(question, AnswerOutcome{
		Target:         question.TargetPlayer,
		Correct:        correct,
		TimedOut:       false,
		SuspicionDelta: delta,
		Strike:         strike,
		Arrested:       false,
		Finished:       false,
	}, now)
}

// TimeoutAnswer applies the hesitation penalty: the absolute value of the
// question's suspicion impact is added to the target player's suspicion, no
// matter the impact's sign. This is deliberately harsher than answering wrong,
// which costs nothing. The seq guard discards stale timers.
func (s Session) TimeoutAnswer(seq uint64, now time.Time) (Session, AnswerOutcome, bool, error) {
	if s.Phase != PhaseInterrogation || s.Seq != seq {
		return s, AnswerOutcome{}, false, nil
	}
	question, err := s.CurrentQuestion()
	if err != nil {
		return s, AnswerOutcome{}, false, err
	}

	penalty := question.SuspicionImpact
	if penalty < 0 {
		penalty = -penalty
	}

	next, outcome, err := s.applyOutcome(question, AnswerOutcome{
		Target:         question.TargetPlayer,
		Correct:        false,
		TimedOut:       true,
		SuspicionDelta: penalty,
		Strike:         false,
		Arrested:       false,
		Finished:       false,
	}, now)
	if err != nil {
		return s, AnswerOutcome{}, false, err
	}
	return next, outcome, true, nil
}

// applyOutcome mutates the copied session with the scored outcome, runs the
// arrest check and advances to the next question or to results.
func (s Session) applyOutcome(
	question models.Question, outcome AnswerOutcome, now time.Time,
) (Session, AnswerOutcome, error) {
	seat := &s.Players[question.TargetPlayer-1]
	seat.Suspicion = clampSuspicion(seat.Suspicion + outcome.SuspicionDelta)
	if outcome.Strike {
		seat.Strikes++
	}

	s.Seq++

	// Arrest needs both conditions at once.
	if seat.Suspicion >= 100 && seat.Strikes >= 1 {
		outcome.Arrested = true
		outcome.Finished = true
		s.Arrested = true
		s.ArrestedPlayer = question.TargetPlayer
		s.Phase = PhaseResults
		s.Deadline = time.Time{}
		return s, outcome, nil
	}

	if s.QuestionIndex == len(s.Questions)-1 {
		outcome.Finished = true
		s.Phase = PhaseResults
		s.Deadline = time.Time{}
		return s, outcome, nil
	}

	s.QuestionIndex++
	s.Deadline = now.Add(AnswerDisplayDelay + QuestionBudget)
	return s, outcome, nil
}
