package game

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/myrjola/lastalibi/internal/clock"
	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/opponent"
)

var ErrSessionNotFound = errors.NewSentinel("game session not found")

// Manager is the in-memory registry of active sessions. It serialises all
// transitions per session, owns the authoritative countdown timers, and
// resolves the simulated opponent's answers in solo mode. Timer callbacks go
// through the same transition entry points as manual input; the session's
// sequence number discards the stale ones.
type Manager struct {
	logger *slog.Logger
	clk    clock.Clock
	rng    *rand.Rand

	mu       sync.Mutex
	sessions map[string]*managedSession
}

type managedSession struct {
	state Session
	timer clock.Timer
}

func NewManager(logger *slog.Logger, clk clock.Clock, rng *rand.Rand) *Manager {
	return &Manager{
		logger:   logger.With("source", "game.Manager"),
		clk:      clk,
		rng:      rng,
		mu:       sync.Mutex{},
		sessions: make(map[string]*managedSession),
	}
}

// Create registers a new session in the setup phase and returns it.
func (m *Manager) Create(mode Mode, difficulty models.Difficulty, player1, player2 Player) Session {
	state := New(uuid.NewString(), mode, difficulty, player1, player2)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[state.ID] = &managedSession{state: state, timer: nil}
	return state
}

// Get returns a snapshot of the session.
func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	if !ok {
		return Session{}, errors.Wrap(ErrSessionNotFound, "get", slog.String("game_id", id))
	}
	return ms.state, nil
}

// Remove discards a finished or abandoned session and stops its timer.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ms, ok := m.sessions[id]; ok {
		if ms.timer != nil {
			ms.timer.Stop()
		}
		delete(m.sessions, id)
	}
}

// StartDay attaches the scenario and starts the first dilemma countdown.
func (m *Manager) StartDay(id string, scenario *models.Scenario) (Session, error) {
	return m.transition(id, func(s Session) (Session, error) {
		return s.StartDay(scenario, m.clk.Now())
	})
}

// Choose resolves the pending dilemma manually.
func (m *Manager) Choose(id string, optionIndex int) (Session, error) {
	return m.transition(id, func(s Session) (Session, error) {
		return s.Choose(optionIndex, m.clk.Now())
	})
}

// BeginInterrogation installs the generated questions and starts the first
// question countdown (or the opponent's thinking timer in solo mode).
func (m *Manager) BeginInterrogation(id string, questions []models.Question) (Session, error) {
	return m.transition(id, func(s Session) (Session, error) {
		return s.BeginInterrogation(questions, m.clk.Now())
	})
}

// Answer resolves the pending question manually. In solo mode the questions
// targeting seat 2 belong to the simulated opponent and manual answers to them
// are rejected.
func (m *Manager) Answer(id string, answer string) (Session, AnswerOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	if !ok {
		return Session{}, AnswerOutcome{}, errors.Wrap(ErrSessionNotFound, "answer", slog.String("game_id", id))
	}

	question, err := ms.state.CurrentQuestion()
	if err != nil {
		return ms.state, AnswerOutcome{}, err
	}
	if ms.state.Mode == ModeSolo && question.TargetPlayer == 2 {
		return ms.state, AnswerOutcome{}, errors.Wrap(ErrNotYourSeat, "answer")
	}

	next, outcome, err := ms.state.Answer(answer, m.clk.Now())
	if err != nil {
		return ms.state, AnswerOutcome{}, err
	}
	m.commitLocked(ms, next)
	return next, outcome, nil
}

// Timeout applies the pending step's timeout on the client's initiative. The
// sequence guard makes it race-free against the server's own timer and against
// manual input: whichever lands first wins and the rest are discarded.
func (m *Manager) Timeout(id string, seq uint64) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	if !ok {
		return Session{}, errors.Wrap(ErrSessionNotFound, "timeout", slog.String("game_id", id))
	}

	switch ms.state.Phase {
	case PhaseDay:
		next, applied, err := ms.state.TimeoutChoice(seq, m.clk.Now())
		if err != nil {
			return ms.state, err
		}
		if applied {
			m.commitLocked(ms, next)
		}
	case PhaseInterrogation:
		next, _, applied, err := ms.state.TimeoutAnswer(seq, m.clk.Now())
		if err != nil {
			return ms.state, err
		}
		if applied {
			m.commitLocked(ms, next)
		}
	case PhaseSetup, PhaseResults:
	}
	return ms.state, nil
}

// transition runs fn on the session under the lock and reschedules timers.
func (m *Manager) transition(id string, fn func(Session) (Session, error)) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	if !ok {
		return Session{}, errors.Wrap(ErrSessionNotFound, "transition", slog.String("game_id", id))
	}
	next, err := fn(ms.state)
	if err != nil {
		return ms.state, err
	}
	m.commitLocked(ms, next)
	return next, nil
}

// commitLocked swaps in the new state and schedules the pending step's timer.
// Callers hold m.mu.
func (m *Manager) commitLocked(ms *managedSession, next Session) {
	ms.state = next
	if ms.timer != nil {
		ms.timer.Stop()
		ms.timer = nil
	}

	id := next.ID
	seq := next.Seq

	switch next.Phase {
	case PhaseDay:
		if !next.Deadline.IsZero() {
			d := next.Deadline.Sub(m.clk.Now())
			ms.timer = m.clk.AfterFunc(d, func() { m.fireChoiceTimeout(id, seq) })
		}
	case PhaseInterrogation:
		question, err := next.CurrentQuestion()
		if err != nil {
			// Waiting for questions to be generated; nothing to schedule.
			return
		}
		if next.Mode == ModeSolo && question.TargetPlayer == 2 {
			// The opponent never times out, it answers after its thinking delay.
			ms.timer = m.clk.AfterFunc(ThinkingDelay, func() { m.fireOpponentAnswer(id, seq) })
			return
		}
		if !next.Deadline.IsZero() {
			d := next.Deadline.Sub(m.clk.Now())
			ms.timer = m.clk.AfterFunc(d, func() { m.fireAnswerTimeout(id, seq) })
		}
	case PhaseSetup, PhaseResults:
	}
}

func (m *Manager) fireChoiceTimeout(id string, seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	if !ok {
		return
	}
	next, applied, err := ms.state.TimeoutChoice(seq, m.clk.Now())
	if err != nil {
		m.logger.LogAttrs(context.Background(), slog.LevelError, "choice timeout failed",
			slog.String("game_id", id), errors.SlogError(err))
		return
	}
	if applied {
		m.commitLocked(ms, next)
	}
}

func (m *Manager) fireAnswerTimeout(id string, seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	if !ok {
		return
	}
	next, _, applied, err := ms.state.TimeoutAnswer(seq, m.clk.Now())
	if err != nil {
		m.logger.LogAttrs(context.Background(), slog.LevelError, "answer timeout failed",
			slog.String("game_id", id), errors.SlogError(err))
		return
	}
	if applied {
		m.commitLocked(ms, next)
	}
}

// fireOpponentAnswer resolves the simulated opponent's answer. The opponent
// follows the same scoring rules as a human, including strikes and the
// arrest check.
func (m *Manager) fireOpponentAnswer(id string, seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	if !ok || ms.state.Seq != seq {
		return
	}
	question, err := ms.state.CurrentQuestion()
	if err != nil {
		return
	}
	response := opponent.Respond(question.CorrectAnswer, question.Options, ms.state.Difficulty, m.rng)
	next, _, err := ms.state.Answer(response.Answer, m.clk.Now())
	if err != nil {
		m.logger.LogAttrs(context.Background(), slog.LevelError, "opponent answer failed",
			slog.String("game_id", id), errors.SlogError(err))
		return
	}
	m.commitLocked(ms, next)
}
