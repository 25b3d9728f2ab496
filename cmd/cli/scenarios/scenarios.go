// Package scenarios holds CLI commands for inspecting and curating the
// scenario reuse cache.
package scenarios

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/repositories"
	"github.com/myrjola/lastalibi/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "scenarios",
	Title: "Scenario cache operations",
}

func init() {
	List.Flags().String("difficulty", "", "only show EASY, MEDIUM or HARD scenarios")
	Prune.Flags().Int("min-rating", 3, "delete scenarios rated below this")
}

// openRepository connects to the database configured in the environment.
func openRepository(ctx context.Context) (*repositories.ScenarioRepository, func() error, error) {
	url := os.Getenv("LASTALIBI_SQLITE_URL")
	if url == "" {
		url = "./lastalibi.sqlite"
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{ //nolint:exhaustruct
		Level: slog.LevelWarn,
	}))
	db, err := sqlite.NewDatabase(ctx, url, logger)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open database", slog.String("sqlite_url", url))
	}
	return repositories.NewScenarioRepository(db, logger), db.Close, nil
}

var List = &cobra.Command{ //nolint:exhaustruct
	Use:     "list",
	GroupID: "scenarios",
	Short:   "List cached scenarios",
	Long:    `Lists the cached scenarios with their ratings and play counts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		difficultyFlag, err := cmd.Flags().GetString("difficulty")
		if err != nil {
			return errors.Wrap(err, "difficulty flag")
		}
		difficulty := models.Difficulty(difficultyFlag)
		if difficultyFlag != "" && !difficulty.Valid() {
			return errors.New("difficulty must be EASY, MEDIUM or HARD")
		}

		repo, dbClose, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = dbClose()
		}()

		stored, err := repo.List(ctx)
		if err != nil {
			return errors.Wrap(err, "list scenarios")
		}

		shown := 0
		for _, s := range stored {
			if difficultyFlag != "" && s.Difficulty != difficulty {
				continue
			}
			cmd.Printf("%4d  %-6s  rating %d  played %3d  %s\n",
				s.ID, s.Difficulty, s.Rating, s.PlayCount, s.ConvergenceLocation)
			shown++
		}
		cmd.Printf("%d scenario(s)\n", shown)
		return nil
	},
}

var Prune = &cobra.Command{ //nolint:exhaustruct
	Use:     "prune",
	GroupID: "scenarios",
	Short:   "Delete poorly rated scenarios",
	Long:    `Deletes cached scenarios whose rating falls below the given minimum.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		minRating, err := cmd.Flags().GetInt("min-rating")
		if err != nil {
			return errors.Wrap(err, "min-rating flag")
		}

		repo, dbClose, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = dbClose()
		}()

		deleted, err := repo.Prune(ctx, minRating)
		if err != nil {
			return errors.Wrap(err, "prune scenarios")
		}
		cmd.Printf("deleted %d scenario(s)\n", deleted)
		return nil
	},
}

// seedEntry is one scenario in a seed file.
type seedEntry struct {
	Difficulty          models.Difficulty `json:"difficulty"`
	ConvergenceLocation string            `json:"convergenceLocation"`
	Dilemmas            []models.Dilemma  `json:"dilemmas"`
	Questions           []models.Question `json:"questions"`
	Rating              int               `json:"rating"`
}

var Seed = &cobra.Command{ //nolint:exhaustruct
	Use:     "seed [file]",
	GroupID: "scenarios",
	Short:   "Load scenarios from a JSON file",
	Long:    `Loads a JSON array of scenarios into the cache, for warming up a fresh database.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open seed file")
		}
		defer func() {
			_ = f.Close()
		}()
		data, err := io.ReadAll(f)
		if err != nil {
			return errors.Wrap(err, "read seed file")
		}

		var entries []seedEntry
		if err = json.Unmarshal(data, &entries); err != nil {
			return errors.Wrap(err, "parse seed file")
		}

		repo, dbClose, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = dbClose()
		}()

		for i, entry := range entries {
			if !entry.Difficulty.Valid() {
				return errors.New("invalid difficulty", slog.Int("entry", i))
			}
			stored := models.StoredScenario{
				ID:                  0,
				Difficulty:          entry.Difficulty,
				ConvergenceLocation: entry.ConvergenceLocation,
				Dilemmas:            entry.Dilemmas,
				Questions:           entry.Questions,
				Rating:              entry.Rating,
				PlayCount:           1,
			}
			if err = repo.Save(ctx, stored); err != nil {
				return errors.Wrap(err, fmt.Sprintf("save entry %d", i))
			}
		}
		cmd.Printf("seeded %d scenario(s)\n", len(entries))
		return nil
	},
}
