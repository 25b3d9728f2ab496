package repositories

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/sqlite"
)

const (
	// reuseCandidateLimit is the page size for reuse lookups. Callers treat a
	// full page as a warm cache.
	reuseCandidateLimit = 10
	// minReuseRating is the lowest rating eligible for reuse.
	minReuseRating = 3
)

type ScenarioRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewScenarioRepository(db *sqlite.Database, logger *slog.Logger) *ScenarioRepository {
	return &ScenarioRepository{
		db:     db,
		logger: logger.With("source", "ScenarioRepository"),
	}
}

// scenarioRow is the raw table shape; dilemmas and questions are JSON columns.
type scenarioRow struct {
	ID                  int64             `db:"id"`
	Difficulty          models.Difficulty `db:"difficulty"`
	ConvergenceLocation string            `db:"convergence_location"`
	Dilemmas            string            `db:"dilemmas"`
	Questions           string            `db:"questions"`
	Rating              int               `db:"rating"`
	PlayCount           int               `db:"play_count"`
}

func (r scenarioRow) toModel() (models.StoredScenario, error) {
	stored := models.StoredScenario{
		ID:                  r.ID,
		Difficulty:          r.Difficulty,
		ConvergenceLocation: r.ConvergenceLocation,
		Dilemmas:            nil,
		Questions:           nil,
		Rating:              r.Rating,
		PlayCount:           r.PlayCount,
	}
	if err := json.Unmarshal([]byte(r.Dilemmas), &stored.Dilemmas); err != nil {
		return stored, errors.Wrap(err, "unmarshal dilemmas", slog.Int64("scenario_id", r.ID))
	}
	if err := json.Unmarshal([]byte(r.Questions), &stored.Questions); err != nil {
		return stored, errors.Wrap(err, "unmarshal questions", slog.Int64("scenario_id", r.ID))
	}
	return stored, nil
}

// Eligible returns the least-played well-rated scenarios for the difficulty,
// up to one page.
func (r *ScenarioRepository) Eligible(
	ctx context.Context,
	difficulty models.Difficulty,
) ([]models.StoredScenario, error) {
	stmt := `SELECT id, difficulty, convergence_location, dilemmas, questions, rating, play_count
	FROM scenarios
	WHERE difficulty = ? AND rating >= ?
	ORDER BY play_count ASC, id ASC
	LIMIT ?`

	var rows []scenarioRow
	if err := r.db.ReadOnly.SelectContext(ctx, &rows, stmt, difficulty, minReuseRating, reuseCandidateLimit); err != nil {
		return nil, errors.Wrap(err, "query eligible scenarios")
	}

	stored := make([]models.StoredScenario, 0, len(rows))
	for _, row := range rows {
		s, err := row.toModel()
		if err != nil {
			return nil, err
		}
		stored = append(stored, s)
	}
	return stored, nil
}

// IncrementPlayCount bumps the play count in a single statement so that
// concurrent reuses cannot lose an increment.
func (r *ScenarioRepository) IncrementPlayCount(ctx context.Context, id int64) error {
	stmt := `UPDATE scenarios SET play_count = play_count + 1 WHERE id = ?`
	if _, err := r.db.ReadWrite.ExecContext(ctx, stmt, id); err != nil {
		return errors.Wrap(err, "increment play count", slog.Int64("scenario_id", id))
	}
	return nil
}

// Save persists a rated scenario with its interrogation questions.
func (r *ScenarioRepository) Save(ctx context.Context, stored models.StoredScenario) error {
	dilemmas, err := json.Marshal(stored.Dilemmas)
	if err != nil {
		return errors.Wrap(err, "marshal dilemmas")
	}
	questions, err := json.Marshal(stored.Questions)
	if err != nil {
		return errors.Wrap(err, "marshal questions")
	}

	stmt := `INSERT INTO scenarios (difficulty, convergence_location, dilemmas, questions, rating, play_count)
	VALUES (?, ?, ?, ?, ?, ?)`
	if _, err = r.db.ReadWrite.ExecContext(ctx, stmt,
		stored.Difficulty,
		stored.ConvergenceLocation,
		string(dilemmas),
		string(questions),
		stored.Rating,
		stored.PlayCount,
	); err != nil {
		return errors.Wrap(err, "insert scenario")
	}
	return nil
}

// List returns every cached scenario, most played first.
func (r *ScenarioRepository) List(ctx context.Context) ([]models.StoredScenario, error) {
	stmt := `SELECT id, difficulty, convergence_location, dilemmas, questions, rating, play_count
	FROM scenarios
	ORDER BY play_count DESC, id ASC`

	var rows []scenarioRow
	if err := r.db.ReadOnly.SelectContext(ctx, &rows, stmt); err != nil {
		return nil, errors.Wrap(err, "list scenarios")
	}

	stored := make([]models.StoredScenario, 0, len(rows))
	for _, row := range rows {
		s, err := row.toModel()
		if err != nil {
			return nil, err
		}
		stored = append(stored, s)
	}
	return stored, nil
}

// Prune deletes scenarios rated below the cut, for example rows seeded before
// a rating rule change. It returns the number of deleted rows.
func (r *ScenarioRepository) Prune(ctx context.Context, minRating int) (int64, error) {
	stmt := `DELETE FROM scenarios WHERE rating < ?`
	result, err := r.db.ReadWrite.ExecContext(ctx, stmt, minRating)
	if err != nil {
		return 0, errors.Wrap(err, "prune scenarios")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "count pruned scenarios")
	}
	return deleted, nil
}
