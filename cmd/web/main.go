package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/lastalibi/internal/ai"
	"github.com/myrjola/lastalibi/internal/clock"
	"github.com/myrjola/lastalibi/internal/envstruct"
	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/game"
	"github.com/myrjola/lastalibi/internal/logging"
	"github.com/myrjola/lastalibi/internal/pprofserver"
	"github.com/myrjola/lastalibi/internal/repositories"
	"github.com/myrjola/lastalibi/internal/scenario"
	"github.com/myrjola/lastalibi/internal/sqlite"
)

type config struct {
	// Addr is the address the server listens on. Use port 0 for a dynamically
	// allocated port.
	Addr string `env:"LASTALIBI_ADDR" envDefault:"localhost:4000"`
	// PprofAddr is the localhost port for the pprof server.
	PprofAddr string `env:"LASTALIBI_PPROF_ADDR" envDefault:":6060"`
	// SqliteURL is the path to the SQLite database file or ":memory:".
	SqliteURL string `env:"LASTALIBI_SQLITE_URL" envDefault:"./lastalibi.sqlite"`
	// OpenAIKey authenticates scenario generation requests.
	OpenAIKey string `env:"OPENAI_API_KEY" envDefault:""`
}

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	games          *game.Manager
	provider       *scenario.Provider
	rooms          *repositories.RoomRepository
}

// run wires the application and starts the server. It is separated from main
// so that tests can start the full server with their own logger and
// environment.
func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	// Initialise pprof listening on localhost so that it's not open to the world.
	pprofserver.Launch(cfg.PprofAddr, logger)

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("sqlite_url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to database", slog.String("sqlite_url", cfg.SqliteURL))
	go db.StartDatabaseOptimizer(ctx)

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	scenarios := repositories.NewScenarioRepository(db, logger)
	rooms := repositories.NewRoomRepository(db, logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // game randomness, not security

	var completer ai.Completer = ai.NewClient(cfg.OpenAIKey)
	if cfg.OpenAIKey == "" {
		logger.LogAttrs(ctx, slog.LevelWarn, "no OpenAI API key configured, serving canned stories")
		completer = ai.NewCanned()
	}
	provider := scenario.NewProvider(logger, completer, scenarios, rng)

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		games:          game.NewManager(logger, clock.NewSystem(), rng),
		provider:       provider,
		rooms:          rooms,
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// Missing .env is fine, the environment may be configured directly.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}
