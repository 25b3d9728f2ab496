package main

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/lastalibi/internal/e2etest"
	"github.com/stretchr/testify/require"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "LASTALIBI_ADDR":
		return "localhost:0", true
	case "LASTALIBI_PPROF_ADDR":
		return ":0", true
	case "LASTALIBI_SQLITE_URL":
		return ":memory:", true
	default:
		// OPENAI_API_KEY stays unset so the server serves canned stories.
		return "", false
	}
}

// startTestServer boots the full server on a dynamic port and hands back the
// harness. The server is torn down with the test.
func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, err := e2etest.StartServer(ctx, io.Discard, testLookupEnv, run)
	require.NoError(t, err)
	return srv
}
