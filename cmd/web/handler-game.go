package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/game"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/opponent"
	"github.com/myrjola/lastalibi/internal/scenario"
)

type playerView struct {
	Name      string
	Avatar    string
	Suspicion int
	Strikes   int
}

type gameTemplateData struct {
	BaseTemplateData
	ID             string
	Phase          game.Phase
	Mode           game.Mode
	Difficulty     models.Difficulty
	CurrentTime    string
	ActivePlayer   int
	Player1        playerView
	Player2        playerView
	Seq            uint64
	DeadlineSecs   int
	Dilemma        *models.Dilemma
	DilemmaNumber  int
	DilemmaTotal   int
	Question       *models.Question
	QuestionNumber int
	QuestionTotal  int
	// AwaitingOpponent is set in solo mode while the simulated opponent is
	// thinking; the view polls instead of offering answers.
	AwaitingOpponent    bool
	GeneratingQuestions bool
	Cached              bool
	Results             *game.Results
}

type errorTemplateData struct {
	BaseTemplateData
	Message string
}

func (app *application) buildGameData(r *http.Request, s game.Session) gameTemplateData {
	data := gameTemplateData{ //nolint:exhaustruct // phase fields filled below
		BaseTemplateData: newBaseTemplateData(r),
		ID:               s.ID,
		Phase:            s.Phase,
		Mode:             s.Mode,
		Difficulty:       s.Difficulty,
		CurrentTime:      s.CurrentTime,
		ActivePlayer:     s.ActivePlayer,
		Player1:          playerView{Name: s.Player(1).Name, Avatar: s.Player(1).Avatar, Suspicion: s.Player(1).Suspicion, Strikes: s.Player(1).Strikes},
		Player2:          playerView{Name: s.Player(2).Name, Avatar: s.Player(2).Avatar, Suspicion: s.Player(2).Suspicion, Strikes: s.Player(2).Strikes},
		Seq:              s.Seq,
	}

	if !s.Deadline.IsZero() {
		if remaining := int(time.Until(s.Deadline).Seconds()); remaining > 0 {
			data.DeadlineSecs = remaining
		}
	}

	switch s.Phase {
	case game.PhaseDay:
		if dilemma, err := s.CurrentDilemma(); err == nil {
			data.Dilemma = &dilemma
			data.DilemmaNumber = s.DilemmaIndex + 1
			data.DilemmaTotal = len(s.Scenario.Dilemmas)
		}
	case game.PhaseInterrogation:
		if s.Questions == nil {
			data.GeneratingQuestions = true
			break
		}
		if question, err := s.CurrentQuestion(); err == nil {
			data.Question = &question
			data.QuestionNumber = s.QuestionIndex + 1
			data.QuestionTotal = len(s.Questions)
			data.AwaitingOpponent = s.Mode == game.ModeSolo && question.TargetPlayer == 2
		}
	case game.PhaseResults:
		if results, err := s.Results(); err == nil {
			data.Results = &results
			data.Cached = s.Scenario.Cached
		}
	case game.PhaseSetup:
	}

	return data
}

// gameError translates state machine sentinels into HTTP statuses.
func (app *application) gameError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		app.notFound(w, r)
	case errors.Is(err, game.ErrInvalidOption), errors.Is(err, game.ErrUnknownSeat):
		app.clientError(w, r, http.StatusBadRequest)
	case errors.Is(err, game.ErrWrongPhase):
		app.clientError(w, r, http.StatusConflict)
	case errors.Is(err, game.ErrNotYourSeat):
		app.clientError(w, r, http.StatusForbidden)
	default:
		app.serverError(w, r, err)
	}
}

func (app *application) gameCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	mode := game.Mode(r.PostForm.Get("mode"))
	difficulty := models.Difficulty(r.PostForm.Get("difficulty"))
	player1 := game.Player{ //nolint:exhaustruct // state fields are set by the session
		Name:   r.PostForm.Get("player1_name"),
		Avatar: r.PostForm.Get("player1_avatar"),
	}
	player2 := game.Player{ //nolint:exhaustruct
		Name:   r.PostForm.Get("player2_name"),
		Avatar: r.PostForm.Get("player2_avatar"),
	}
	if mode == game.ModeSolo {
		player2.Name = opponent.Name(difficulty)
		player2.Avatar = "android"
	}

	if !mode.Valid() || !difficulty.Valid() || player1.Name == "" || player2.Name == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	s := app.games.Create(mode, difficulty, player1, player2)

	story, err := app.provider.Story(r.Context(), scenario.StoryParams{
		Player1Name:   player1.Name,
		Player2Name:   player2.Name,
		Player1Avatar: player1.Avatar,
		Player2Avatar: player2.Avatar,
		Difficulty:    difficulty,
	})
	if err != nil {
		app.games.Remove(s.ID)
		app.logger.LogAttrs(r.Context(), slog.LevelError, "story acquisition failed", errors.SlogError(err))
		data := errorTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Message:          "The story could not be written. Start a new case.",
		}
		app.render(w, r, http.StatusInternalServerError, "error", data)
		return
	}

	if _, err = app.games.StartDay(s.ID, story); err != nil {
		app.games.Remove(s.ID)
		app.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/games/%s", s.ID), http.StatusSeeOther)
}

func (app *application) gameShow(w http.ResponseWriter, r *http.Request) {
	s, err := app.games.Get(r.PathValue("id"))
	if err != nil {
		app.gameError(w, r, err)
		return
	}

	// The day just ended; the interrogation needs its questions.
	if s, err = app.ensureQuestions(r.Context(), s); err != nil {
		data := errorTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Message:          "The detective lost their notes. Start a new case.",
		}
		app.render(w, r, http.StatusInternalServerError, "error", data)
		return
	}

	data := app.buildGameData(r, s)
	h := app.htmx.NewHandler(w, r)
	if h.IsHxRequest() {
		app.renderPartial(w, r, http.StatusOK, "game", "game-view", data)
		return
	}
	app.render(w, r, http.StatusOK, "game", data)
}

func (app *application) gameChoose(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	option, err := strconv.Atoi(r.PostFormValue("option"))
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	if _, err = app.games.Choose(id, option); err != nil {
		app.gameError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/games/%s", id), http.StatusSeeOther)
}

func (app *application) gameAnswer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	answer := r.PostFormValue("answer")
	if answer == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	if _, _, err := app.games.Answer(id, answer); err != nil {
		app.gameError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/games/%s", id), http.StatusSeeOther)
}

// gameTimeout lets the client report its countdown hitting zero. The sequence
// guard makes it a no-op when the server timer or a manual action got there
// first.
func (app *application) gameTimeout(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	seq, err := strconv.ParseUint(r.PostFormValue("seq"), 10, 64)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	if _, err = app.games.Timeout(id, seq); err != nil {
		app.gameError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/games/%s", id), http.StatusSeeOther)
}

func (app *application) gameRate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil || rating < 1 || rating > 5 {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	s, err := app.games.Get(id)
	if err != nil {
		app.gameError(w, r, err)
		return
	}
	if s.Phase != game.PhaseResults {
		app.clientError(w, r, http.StatusConflict)
		return
	}

	// Reused scenarios are already cached; re-saving them would pile up
	// duplicates with reset play counts.
	if !s.Scenario.Cached {
		if err = app.provider.SaveRated(r.Context(), s.Difficulty, s.Scenario, s.Questions, rating); err != nil {
			app.serverError(w, r, err)
			return
		}
	}

	app.games.Remove(id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ensureQuestions generates the interrogation questions when the session has
// finished its day and none are installed yet. Concurrent requests can race
// here; losing the race is fine, the winner's questions stand.
func (app *application) ensureQuestions(ctx context.Context, s game.Session) (game.Session, error) {
	if s.Phase != game.PhaseInterrogation || s.Questions != nil {
		return s, nil
	}

	questions, err := app.provider.Questions(ctx, scenario.QuestionParams{
		Player1Name:    s.Player(1).Name,
		Player2Name:    s.Player(2).Name,
		Player1Choices: s.Player(1).Choices,
		Player2Choices: s.Player(2).Choices,
	})
	if err != nil {
		return s, errors.Wrap(err, "generate interrogation questions")
	}

	next, err := app.games.BeginInterrogation(s.ID, questions)
	if err != nil {
		if errors.Is(err, game.ErrWrongPhase) {
			return app.games.Get(s.ID)
		}
		return s, err
	}
	return next, nil
}
