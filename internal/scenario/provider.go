// Package scenario acquires stories and interrogation questions, either from
// the language model or from the cache of well-rated past scenarios.
package scenario

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/myrjola/lastalibi/internal/ai"
	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
)

var ErrMissingParams = errors.NewSentinel("missing required parameters")

const (
	// minCachedCandidates is how many eligible scenarios the cache must hold
	// before reuse is considered at all. A thin cache keeps generating so it
	// fills up with variety instead of replaying the same few stories.
	minCachedCandidates = 10
	// defaultReuseProbability is the chance an eligible cached scenario is
	// served instead of generating a fresh one.
	defaultReuseProbability = 0.4
	// minSavedRating is the lowest post-game rating worth caching.
	minSavedRating = 3

	reusedExplanation = "Story from our database of successful scenarios"
)

// Cache is the scenario reuse store.
type Cache interface {
	// Eligible returns up to minCachedCandidates well-rated scenarios for the
	// difficulty, least-played first.
	Eligible(ctx context.Context, difficulty models.Difficulty) ([]models.StoredScenario, error)
	IncrementPlayCount(ctx context.Context, id int64) error
	Save(ctx context.Context, stored models.StoredScenario) error
}

// StoryParams identifies the players a story is written for.
type StoryParams struct {
	Player1Name   string
	Player2Name   string
	Player1Avatar string
	Player2Avatar string
	Difficulty    models.Difficulty
}

func (p StoryParams) validate() error {
	if p.Player1Name == "" || p.Player2Name == "" || !p.Difficulty.Valid() {
		return errors.Wrap(ErrMissingParams, "story params")
	}
	return nil
}

// QuestionParams carries the recorded day both interrogations draw from.
type QuestionParams struct {
	Player1Name    string
	Player2Name    string
	Player1Choices []models.Choice
	Player2Choices []models.Choice
}

func (p QuestionParams) validate() error {
	if p.Player1Name == "" || p.Player2Name == "" {
		return errors.Wrap(ErrMissingParams, "question params")
	}
	return nil
}

// Provider generates stories and questions, consulting the cache first.
type Provider struct {
	logger    *slog.Logger
	completer ai.Completer
	cache     Cache

	mu  sync.Mutex
	rng *rand.Rand

	// ReuseProbability overrides the cached-scenario draw chance. Tests pin
	// it to 0 or 1 to force a branch.
	ReuseProbability float64
}

func NewProvider(logger *slog.Logger, completer ai.Completer, cache Cache, rng *rand.Rand) *Provider {
	return &Provider{
		logger:           logger.With("source", "scenario.Provider"),
		completer:        completer,
		cache:            cache,
		mu:               sync.Mutex{},
		rng:              rng,
		ReuseProbability: defaultReuseProbability,
	}
}

// Story returns a scenario for the given players, reusing a cached one when
// the cache is warm and the draw favours it. Cache trouble is logged and play
// falls through to fresh generation rather than failing the game.
func (p *Provider) Story(ctx context.Context, params StoryParams) (*models.Scenario, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	if cached := p.fromCache(ctx, params.Difficulty); cached != nil {
		return cached, nil
	}

	completion, err := p.completer.Complete(ctx, storySystemPrompt, storyPrompt(params))
	if err != nil {
		return nil, errors.Wrap(err, "generate story")
	}
	story, err := decodeStory(completion)
	if err != nil {
		return nil, errors.Wrap(err, "decode story")
	}
	return story, nil
}

// Questions generates the interrogation from the players' recorded days.
func (p *Provider) Questions(ctx context.Context, params QuestionParams) ([]models.Question, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	completion, err := p.completer.Complete(ctx, questionsSystemPrompt, questionsPrompt(params))
	if err != nil {
		return nil, errors.Wrap(err, "generate questions")
	}
	questions, err := decodeQuestions(completion)
	if err != nil {
		return nil, errors.Wrap(err, "decode questions")
	}
	return questions, nil
}

// SaveRated caches a played scenario together with its questions. Ratings
// below the cut are dropped silently so only stories worth replaying pile up.
func (p *Provider) SaveRated(
	ctx context.Context,
	difficulty models.Difficulty,
	story *models.Scenario,
	questions []models.Question,
	rating int,
) error {
	if rating < minSavedRating {
		return nil
	}
	stored := models.StoredScenario{
		ID:                  0,
		Difficulty:          difficulty,
		ConvergenceLocation: story.ConvergenceLocation,
		Dilemmas:            story.Dilemmas,
		Questions:           questions,
		Rating:              rating,
		PlayCount:           1,
	}
	if err := p.cache.Save(ctx, stored); err != nil {
		return errors.Wrap(err, "save rated scenario")
	}
	return nil
}

// fromCache returns a reused scenario, or nil when the cache is cold, the
// draw says generate, or the store misbehaves.
func (p *Provider) fromCache(ctx context.Context, difficulty models.Difficulty) *models.Scenario {
	candidates, err := p.cache.Eligible(ctx, difficulty)
	if err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "scenario cache lookup failed", errors.SlogError(err))
		return nil
	}
	if len(candidates) < minCachedCandidates {
		return nil
	}

	p.mu.Lock()
	draw := p.rng.Float64()
	pick := candidates[p.rng.Intn(len(candidates))]
	// The killer re-randomises on reuse so a repeat player cannot metagame
	// the reveal.
	killer := 1 + p.rng.Intn(2)
	p.mu.Unlock()

	if draw >= p.ReuseProbability {
		return nil
	}

	if err = p.cache.IncrementPlayCount(ctx, pick.ID); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "incrementing play count failed",
			slog.Int64("scenario_id", pick.ID), errors.SlogError(err))
	}

	p.logger.LogAttrs(ctx, slog.LevelInfo, "reusing cached scenario",
		slog.Int64("scenario_id", pick.ID), slog.Int("play_count", pick.PlayCount))

	return &models.Scenario{
		ConvergenceLocation: pick.ConvergenceLocation,
		Dilemmas:            pick.Dilemmas,
		KillerPlayer:        killer,
		FinalExplanation:    reusedExplanation,
		Cached:              true,
	}
}
