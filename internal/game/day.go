package game

import (
	"log/slog"
	"time"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
)

// CurrentDilemma returns the pending dilemma of the day phase.
func (s Session) CurrentDilemma() (models.Dilemma, error) {
	if s.Phase != PhaseDay {
		return models.Dilemma{}, errors.Wrap(ErrWrongPhase, "current dilemma")
	}
	if s.Scenario == nil || s.DilemmaIndex >= len(s.Scenario.Dilemmas) {
		return models.Dilemma{}, errors.Wrap(ErrNoDilemmas, "current dilemma")
	}
	return s.Scenario.Dilemmas[s.DilemmaIndex], nil
}

// Choose resolves the pending dilemma with the given option index and advances
// the day. An out-of-range index is a caller bug: the UI only emits valid
// indices or the synthetic 0 on timeout.
//
// The resolved choice is appended to the dilemma's owning player. On the last
// dilemma the session moves to the interrogation phase and waits for questions.
func (s Session) Choose(optionIndex int, now time.Time) (Session, error) {
	dilemma, err := s.CurrentDilemma()
	if err != nil {
		return s, err
	}
	if optionIndex < 0 || optionIndex >= len(dilemma.Options) {
		return s, errors.Wrap(ErrInvalidOption, "choose",
			slog.Int("option_index", optionIndex), slog.Int("options", len(dilemma.Options)))
	}
	if dilemma.Player != 1 && dilemma.Player != 2 {
		return s, errors.Wrap(ErrUnknownSeat, "dilemma owner", slog.Int("player", dilemma.Player))
	}

	location := ""
	if optionIndex < len(dilemma.Locations) {
		location = dilemma.Locations[optionIndex]
	}
	choice := models.Choice{
		Time:     dilemma.Time,
		Question: dilemma.Question,
		Selected: dilemma.Options[optionIndex],
		Location: location,
	}

	// Copy-on-append keeps earlier session values intact for replay.
	seat := &s.Players[dilemma.Player-1]
	seat.Choices = append(append([]models.Choice(nil), seat.Choices...), choice)

	s.Seq++

	if s.DilemmaIndex == len(s.Scenario.Dilemmas)-1 {
		// Day complete. Questions are generated from the recorded choices and
		// installed with BeginInterrogation.
		s.Phase = PhaseInterrogation
		s.Questions = nil
		s.QuestionIndex = 0
		s.Deadline = time.Time{}
		return s, nil
	}

	s.DilemmaIndex++
	next := s.Scenario.Dilemmas[s.DilemmaIndex]
	s.CurrentTime = next.Time
	s.Deadline = now.Add(DilemmaBudget)
	if s.Mode == ModeLocal && (next.Player == 1 || next.Player == 2) {
		s.ActivePlayer = next.Player
	}
	return s, nil
}

// TimeoutChoice applies the day-phase timeout: the first option is forced with
// no penalty. The seq guard discards timers that fired after a manual choice
// already advanced the state; applied reports whether the timeout took effect.
func (s Session) TimeoutChoice(seq uint64, now time.Time) (Session, bool, error) {
	if s.Phase != PhaseDay || s.Seq != seq {
		return s, false, nil
	}
	next, err := s.Choose(0, now)
	if err != nil {
		return s, false, err
	}
	return next, true, nil
}
