package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/myrjola/lastalibi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIStories(t *testing.T) {
	srv := startTestServer(t)
	ctx := context.Background()

	resp, err := srv.Client().PostJSON(ctx, "/api/stories", map[string]any{
		"player1Name":   "Alice",
		"player2Name":   "Bob",
		"player1Avatar": "detective",
		"player2Avatar": "drifter",
		"difficulty":    "EASY",
	})
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var story models.Scenario
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&story))
	assert.NotEmpty(t, story.ConvergenceLocation)
	assert.NotEmpty(t, story.FinalExplanation)
	assert.Len(t, story.Dilemmas, 4)
	assert.Contains(t, []int{1, 2}, story.KillerPlayer)
}

func TestAPIStoriesMissingParams(t *testing.T) {
	srv := startTestServer(t)
	ctx := context.Background()

	resp, err := srv.Client().PostJSON(ctx, "/api/stories", map[string]any{
		"player1Name": "Alice",
	})
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Missing required parameters", body["error"])
}

func TestAPIQuestions(t *testing.T) {
	srv := startTestServer(t)
	ctx := context.Background()

	choice := map[string]string{
		"time":     "08:00",
		"question": "Errand number 1 needs doing. What first?",
		"selected": "Take the tram",
		"location": "Metro Station",
	}
	resp, err := srv.Client().PostJSON(ctx, "/api/questions", map[string]any{
		"player1Name":    "Alice",
		"player2Name":    "Bob",
		"player1Choices": []any{choice},
		"player2Choices": []any{choice},
	})
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Questions []models.Question `json:"questions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Questions)
	for _, q := range body.Questions {
		assert.Contains(t, []int{1, 2}, q.TargetPlayer)
		assert.Contains(t, q.Options, q.CorrectAnswer)
	}
}
