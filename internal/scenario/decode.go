package scenario

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
)

var ErrBadCompletion = errors.NewSentinel("completion is not a valid scenario payload")

// extractJSON cuts the first-to-last brace span out of a completion, which
// tolerates the model wrapping its JSON in markdown fences or prose.
func extractJSON(completion string) (string, error) {
	start := strings.Index(completion, "{")
	end := strings.LastIndex(completion, "}")
	if start == -1 || end < start {
		return "", errors.Wrap(ErrBadCompletion, "no JSON object in completion")
	}
	return completion[start : end+1], nil
}

// decodeStory parses and validates a generated story. Validation fails closed:
// a payload that parses but breaks a structural rule is rejected rather than
// patched up, because a malformed scenario poisons the whole play-through.
func decodeStory(completion string) (*models.Scenario, error) {
	raw, err := extractJSON(completion)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ConvergenceLocation string           `json:"convergenceLocation"`
		Dilemmas            []models.Dilemma `json:"dilemmas"`
		KillerPlayer        int              `json:"killerPlayer"`
		FinalExplanation    string           `json:"finalExplanation"`
	}
	if err = json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, errors.Wrap(ErrBadCompletion, "unmarshal story", errors.SlogError(err))
	}

	if payload.ConvergenceLocation == "" {
		return nil, errors.Wrap(ErrBadCompletion, "missing convergence location")
	}
	if len(payload.Dilemmas) == 0 {
		return nil, errors.Wrap(ErrBadCompletion, "story has no dilemmas")
	}
	if payload.KillerPlayer != 1 && payload.KillerPlayer != 2 {
		return nil, errors.Wrap(ErrBadCompletion, "killer player out of range",
			slog.Int("killer_player", payload.KillerPlayer))
	}
	if payload.FinalExplanation == "" {
		return nil, errors.Wrap(ErrBadCompletion, "missing final explanation")
	}
	for i, d := range payload.Dilemmas {
		if err = validateDilemma(d); err != nil {
			return nil, errors.Wrap(err, "invalid dilemma", slog.Int("index", i))
		}
	}

	return &models.Scenario{
		ConvergenceLocation: payload.ConvergenceLocation,
		Dilemmas:            payload.Dilemmas,
		KillerPlayer:        payload.KillerPlayer,
		FinalExplanation:    payload.FinalExplanation,
		Cached:              false,
	}, nil
}

func validateDilemma(d models.Dilemma) error {
	if d.Time == "" || d.Question == "" {
		return errors.Wrap(ErrBadCompletion, "dilemma missing time or question")
	}
	if d.Player != 1 && d.Player != 2 {
		return errors.Wrap(ErrBadCompletion, "dilemma player out of range",
			slog.Int("player", d.Player))
	}
	if len(d.Options) < 2 {
		return errors.Wrap(ErrBadCompletion, "dilemma needs at least two options")
	}
	if len(d.Locations) != len(d.Options) {
		// Options and locations are index-aligned; a mismatch would make a
		// choice land the player nowhere.
		return errors.Wrap(ErrBadCompletion, "dilemma locations do not align with options")
	}
	return nil
}

// decodeQuestions parses and validates generated interrogation questions.
func decodeQuestions(completion string) ([]models.Question, error) {
	raw, err := extractJSON(completion)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Questions []models.Question `json:"questions"`
	}
	if err = json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, errors.Wrap(ErrBadCompletion, "unmarshal questions", errors.SlogError(err))
	}
	if len(payload.Questions) == 0 {
		return nil, errors.Wrap(ErrBadCompletion, "no questions in payload")
	}

	for i, q := range payload.Questions {
		if q.Question == "" {
			return nil, errors.Wrap(ErrBadCompletion, "question missing text", slog.Int("index", i))
		}
		if q.TargetPlayer != 1 && q.TargetPlayer != 2 {
			return nil, errors.Wrap(ErrBadCompletion, "question target out of range",
				slog.Int("index", i), slog.Int("target", q.TargetPlayer))
		}
		if len(q.Options) < 2 {
			return nil, errors.Wrap(ErrBadCompletion, "question needs at least two options",
				slog.Int("index", i))
		}
		if !contains(q.Options, q.CorrectAnswer) {
			return nil, errors.Wrap(ErrBadCompletion, "correct answer not among options",
				slog.Int("index", i))
		}
	}
	return payload.Questions, nil
}

func contains(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
