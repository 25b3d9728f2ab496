package main

import (
	"net/http"

	"github.com/myrjola/lastalibi/internal/models"
)

// avatars the setup form offers. Purely cosmetic.
var avatars = []string{"detective", "drifter", "nurse", "librarian", "courier", "barista"}

type homeTemplateData struct {
	BaseTemplateData
	Difficulties []models.Difficulty
	Avatars      []string
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Difficulties:     []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard},
		Avatars:          avatars,
	}

	app.render(w, r, http.StatusOK, "home", data)
}
