package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	// Browser-facing pages carry the session, CSRF protection and template
	// context. The JSON API is session-aware but CSRF-exempt.
	dynamic := alice.New(app.sessionManager.LoadAndSave, noSurf, app.identifyPlayer, app.commonContext)
	api := alice.New(app.sessionManager.LoadAndSave, app.identifyPlayer)

	mux.Handle("GET /{$}", dynamic.ThenFunc(app.home))
	mux.Handle("POST /games", dynamic.ThenFunc(app.gameCreate))
	mux.Handle("GET /games/{id}", dynamic.ThenFunc(app.gameShow))
	mux.Handle("POST /games/{id}/choices", dynamic.ThenFunc(app.gameChoose))
	mux.Handle("POST /games/{id}/answers", dynamic.ThenFunc(app.gameAnswer))
	mux.Handle("POST /games/{id}/timeouts", dynamic.ThenFunc(app.gameTimeout))
	mux.Handle("POST /games/{id}/rating", dynamic.ThenFunc(app.gameRate))

	mux.Handle("POST /api/stories", api.ThenFunc(app.apiStories))
	mux.Handle("POST /api/questions", api.ThenFunc(app.apiQuestions))
	mux.Handle("POST /api/rooms", api.ThenFunc(app.apiRoomCreate))
	mux.Handle("POST /api/rooms/{code}/join", api.ThenFunc(app.apiRoomJoin))
	mux.Handle("GET /api/rooms/{code}/qr.png", api.ThenFunc(app.apiRoomQR))
	mux.Handle("GET /api/healthy", http.HandlerFunc(app.healthy))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
