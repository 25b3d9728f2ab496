package contexthelpers

import (
	"context"
	"net/http"
)

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := context.WithValue(r.Context(), currentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	ctx := context.WithValue(r.Context(), csrfTokenContextKey, csrfToken)
	return r.WithContext(ctx)
}

func SetPlayerID(r *http.Request, playerID string) *http.Request {
	ctx := context.WithValue(r.Context(), playerIDContextKey, playerID)
	return r.WithContext(ctx)
}
