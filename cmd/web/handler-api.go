package main

import (
	"net/http"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/scenario"
)

type storyRequest struct {
	Player1Name   string            `json:"player1Name"`
	Player2Name   string            `json:"player2Name"`
	Player1Avatar string            `json:"player1Avatar"`
	Player2Avatar string            `json:"player2Avatar"`
	Difficulty    models.Difficulty `json:"difficulty"`
}

func (app *application) apiStories(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := readJSON(r, &req); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "Invalid request body"})
		return
	}

	story, err := app.provider.Story(r.Context(), scenario.StoryParams{
		Player1Name:   req.Player1Name,
		Player2Name:   req.Player2Name,
		Player1Avatar: req.Player1Avatar,
		Player2Avatar: req.Player2Avatar,
		Difficulty:    req.Difficulty,
	})
	if err != nil {
		if errors.Is(err, scenario.ErrMissingParams) {
			app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "Missing required parameters"})
			return
		}
		app.writeJSON(w, r, http.StatusInternalServerError, jsonError{
			Error:   "Failed to generate story",
			Details: err.Error(),
		})
		return
	}

	app.writeJSON(w, r, http.StatusOK, story)
}

type questionsRequest struct {
	Player1Name    string          `json:"player1Name"`
	Player2Name    string          `json:"player2Name"`
	Player1Choices []models.Choice `json:"player1Choices"`
	Player2Choices []models.Choice `json:"player2Choices"`
}

type questionsResponse struct {
	Questions []models.Question `json:"questions"`
}

func (app *application) apiQuestions(w http.ResponseWriter, r *http.Request) {
	var req questionsRequest
	if err := readJSON(r, &req); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "Invalid request body"})
		return
	}

	questions, err := app.provider.Questions(r.Context(), scenario.QuestionParams{
		Player1Name:    req.Player1Name,
		Player2Name:    req.Player2Name,
		Player1Choices: req.Player1Choices,
		Player2Choices: req.Player2Choices,
	})
	if err != nil {
		if errors.Is(err, scenario.ErrMissingParams) {
			app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "Missing required parameters"})
			return
		}
		app.writeJSON(w, r, http.StatusInternalServerError, jsonError{
			Error:   "Failed to generate questions",
			Details: err.Error(),
		})
		return
	}

	app.writeJSON(w, r, http.StatusOK, questionsResponse{Questions: questions})
}
