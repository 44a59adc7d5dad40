package domain

// Question is one vocabulary quiz item.
type Question struct {
	ID        int      `json:"id"`
	Prompt    string   `json:"question"`
	Answer    string   `json:"answer"`
	Choices   []string `json:"choices"`
	Etymology string   `json:"etymology,omitempty"`
	Meaning   string   `json:"meaning"`
	Example   string   `json:"example,omitempty"`
	Category  string   `json:"category,omitempty"`
}

// GameMode selects the continuation/termination rules for a session.
type GameMode string

const (
	ModeTimeAttack  GameMode = "timeAttack"
	ModeSuddenDeath GameMode = "suddenDeath"
	ModeEndless     GameMode = "endless"
)

// Valid reports whether the mode is one of the three known modes.
func (m GameMode) Valid() bool {
	switch m {
	case ModeTimeAttack, ModeSuddenDeath, ModeEndless:
		return true
	}
	return false
}

// GameConfig captures the player's pre-game choices. Immutable once a
// session starts.
type GameConfig struct {
	Mode      GameMode `json:"mode"`
	TimeLimit int      `json:"timeLimit,omitempty"` // seconds, TimeAttack only
	Category  string   `json:"category,omitempty"`  // empty means all categories
}

// Complete reports whether the config is sufficient to start a session.
func (c GameConfig) Complete() bool {
	if !c.Mode.Valid() {
		return false
	}
	if c.Mode == ModeTimeAttack && c.TimeLimit <= 0 {
		return false
	}
	return true
}

// Phase is the top-level screen/state category of a session.
type Phase string

const (
	PhaseConfiguring     Phase = "configuring"
	PhaseActive          Phase = "active"
	PhaseFinishedSummary Phase = "finishedSummary"
	PhaseFinishedDetail  Phase = "finishedDetail"
)

// Grading is the tri-state outcome for the currently displayed question.
type Grading string

const (
	GradingUngraded  Grading = "ungraded"
	GradingCorrect   Grading = "correct"
	GradingIncorrect Grading = "incorrect"
)

// AnswerResult is the immutable record of one graded answer, including a
// snapshot of the supplementary fields for the detail view.
type AnswerResult struct {
	QuestionID    int      `json:"questionId"`
	Prompt        string   `json:"question"`
	UserAnswer    string   `json:"userAnswer"`
	CorrectAnswer string   `json:"correctAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Choices       []string `json:"choices"`
	Etymology     string   `json:"etymology,omitempty"`
	Meaning       string   `json:"meaning"`
	Example       string   `json:"example,omitempty"`
	Category      string   `json:"category,omitempty"`
}

// Snapshot is the read-only view of a session handed to the presentation
// layer for rendering. It is a copy; mutating it has no effect on the game.
type Snapshot struct {
	Phase          Phase          `json:"phase"`
	Config         GameConfig     `json:"config"`
	Question       *Question      `json:"question,omitempty"` // active question, nil outside Active
	QuestionIndex  int            `json:"questionIndex"`
	TotalQuestions int            `json:"totalQuestions"`
	Score          int            `json:"score"`
	TimeRemaining  int            `json:"timeRemaining"` // TimeAttack only
	LastGrading    Grading        `json:"lastGrading"`
	Results        []AnswerResult `json:"results"`
}
