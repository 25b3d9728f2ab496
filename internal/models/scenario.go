package models

// Difficulty selects the pacing of the simulated day and the sharpness of the
// computer-controlled opponent.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Valid reports whether d is one of the known difficulty tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// DilemmaCount is the number of mundane dilemmas a scenario of this difficulty contains.
func (d Difficulty) DilemmaCount() int {
	switch d {
	case DifficultyEasy:
		return 4
	case DifficultyMedium:
		return 6
	case DifficultyHard:
		return 8
	}
	return 6
}

// Dilemma is a timed daily-choice prompt during the day phase. Options and
// Locations are index-aligned: choosing options[i] places the player at
// locations[i].
type Dilemma struct {
	Time      string   `json:"time"`
	Player    int      `json:"player"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Locations []string `json:"locations"`
}

// Scenario is one generated (or cache-reused) story: a sequence of dilemmas
// converging both players on the same location, with a secretly assigned
// killer. Immutable once created.
type Scenario struct {
	ConvergenceLocation string    `json:"convergenceLocation"`
	Dilemmas            []Dilemma `json:"dilemmas"`
	KillerPlayer        int       `json:"killerPlayer"`
	FinalExplanation    string    `json:"finalExplanation"`
	Cached              bool      `json:"cached"`
}

// Question is a memory-recall interrogation question. A wrong answer to a
// critical question earns a strike; the impact is applied as-is on a correct
// answer and as a positive penalty of the same magnitude on a timeout.
type Question struct {
	Question        string   `json:"question"`
	TargetPlayer    int      `json:"targetPlayer"`
	CorrectAnswer   string   `json:"correctAnswer"`
	Options         []string `json:"options"`
	SuspicionImpact int      `json:"suspicionImpact"`
	IsCritical      bool     `json:"isCritical"`
}

// Choice is one resolved dilemma recorded on a player. Append-only.
type Choice struct {
	Time     string `json:"time"`
	Question string `json:"question"`
	Selected string `json:"selected"`
	Location string `json:"location"`
}

// StoredScenario is a scenario persisted to the reuse cache together with the
// interrogation questions it produced and the rating earned after play.
type StoredScenario struct {
	ID                  int64      `db:"id"`
	Difficulty          Difficulty `db:"difficulty"`
	ConvergenceLocation string     `db:"convergence_location"`
	Dilemmas            []Dilemma  `db:"-"`
	Questions           []Question `db:"-"`
	Rating              int        `db:"rating"`
	PlayCount           int        `db:"play_count"`
}
