package contexthelpers

import (
	"context"
)

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

// PlayerID is the opaque identity of the browser session, used to tell room
// hosts and guests apart.
func PlayerID(ctx context.Context) string {
	playerID, ok := ctx.Value(playerIDContextKey).(string)
	if !ok {
		return ""
	}

	return playerID
}
