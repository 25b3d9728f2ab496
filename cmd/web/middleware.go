package main

import (
	"fmt"
	"net/http"

	"github.com/justinas/nosurf"
	"github.com/myrjola/lastalibi/internal/contexthelpers"
	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/random"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy",
			`default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; object-src 'none'; base-uri 'none';`)

		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
		)

		app.logger.Debug("received request", "proto", proto, "method", method, "uri", uri)

		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// identifyPlayer gives every browser session an opaque player ID. Rooms use it
// to tell the host apart from the guest.
func (app *application) identifyPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playerID := app.sessionManager.GetString(r.Context(), string(playerIDSessionKey))
		if playerID == "" {
			var (
				err      error
				idLength uint = 20
			)
			if playerID, err = random.Letters(idLength); err != nil {
				app.serverError(w, r, errors.Wrap(err, "generate player ID"))
				return
			}
			app.sessionManager.Put(r.Context(), string(playerIDSessionKey), playerID)
		}
		next.ServeHTTP(w, contexthelpers.SetPlayerID(r, playerID))
	})
}

func (app *application) commonContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = contexthelpers.SetCurrentPath(r, r.URL.Path)
		r = contexthelpers.SetCSRFToken(r, nosurf.Token(r))
		next.ServeHTTP(w, r)
	})
}

// noSurf implements CSRF protection using https://github.com/justinas/nosurf
func noSurf(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.SetBaseCookie(http.Cookie{ //nolint:exhaustruct // defaults are fine
		HttpOnly: true,
		Path:     "/",
		Secure:   true,
	})
	csrfHandler.ExemptGlob("/api/*")

	return csrfHandler
}
