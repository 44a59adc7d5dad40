package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"yokomoji-service/internal/domain"
	"yokomoji-service/internal/supply"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis-backed, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionRepository serves the validated full question set (from cache or
// backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context) ([]domain.Question, error)
}

// GameService contains the quiz game use cases: it feeds sessions with
// freshly shuffled question sets and answers the stateless REST contracts.
type GameService struct {
	sessions  SessionRepository
	questions QuestionRepository

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewGameService(store SessionRepository, questions QuestionRepository) *GameService {
	return &GameService{
		sessions:  store,
		questions: questions,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Open creates (or resumes) a session and warms the question cache so load
// failures surface at connect time, not mid-game.
func (g *GameService) Open(ctx context.Context, sessionID string) (*Session, error) {
	if _, err := g.questions.GetQuestions(ctx); err != nil {
		return nil, err
	}
	return g.sessions.GetOrCreate(sessionID), nil
}

// Close drops a session when its client disconnects.
func (g *GameService) Close(sessionID string) {
	g.sessions.Delete(sessionID)
}

// Configure forwards a config update to the session.
func (g *GameService) Configure(sessionID string, update ConfigUpdate) {
	if session, ok := g.sessions.Get(sessionID); ok {
		session.Configure(update)
	}
}

// Start shuffles a fresh question order for the session's pending config
// and activates the session. The second return distinguishes "cannot start"
// (incomplete config or empty filtered set) from a load failure.
func (g *GameService) Start(ctx context.Context, sessionID string) (bool, error) {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	all, err := g.questions.GetQuestions(ctx)
	if err != nil {
		return false, err
	}
	cfg := session.PendingConfig()

	g.rngMu.Lock()
	shuffled := supply.ShuffleForSession(g.rng, all, cfg.Category)
	g.rngMu.Unlock()

	return session.Start(shuffled), nil
}

// SubmitAnswer grades the chosen text against the session's active question.
func (g *GameService) SubmitAnswer(sessionID, choice string) {
	if session, ok := g.sessions.Get(sessionID); ok {
		session.SubmitAnswer(choice)
	}
}

// Quit abandons the active run. The transport must gate this behind an
// explicit player confirmation.
func (g *GameService) Quit(sessionID string) {
	if session, ok := g.sessions.Get(sessionID); ok {
		session.Quit()
	}
}

// Restart leaves a finished session for a fresh configuration.
func (g *GameService) Restart(sessionID string) {
	if session, ok := g.sessions.Get(sessionID); ok {
		session.Restart()
	}
}

// ShowDetail switches a finished session to the per-answer detail view.
func (g *GameService) ShowDetail(sessionID string) {
	if session, ok := g.sessions.Get(sessionID); ok {
		session.ShowDetail()
	}
}

// BackToSummary returns a finished session to the summary view.
func (g *GameService) BackToSummary(sessionID string) {
	if session, ok := g.sessions.Get(sessionID); ok {
		session.BackToSummary()
	}
}

// Snapshot returns the render view of a session.
func (g *GameService) Snapshot(sessionID string) (domain.Snapshot, error) {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel of snapshot updates for a session. The caller
// must invoke the returned cancel function to avoid leaks.
func (g *GameService) Subscribe(sessionID string) (<-chan domain.Snapshot, func(), error) {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// ListShuffled returns the full question set in a fresh presentation order,
// choices reshuffled per question.
func (g *GameService) ListShuffled(ctx context.Context) ([]domain.Question, error) {
	all, err := g.questions.GetQuestions(ctx)
	if err != nil {
		return nil, err
	}
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	return supply.ShuffleForSession(g.rng, all, ""), nil
}

// Categories lists the distinct category tags available for filtering.
func (g *GameService) Categories(ctx context.Context) ([]string, error) {
	all, err := g.questions.GetQuestions(ctx)
	if err != nil {
		return nil, err
	}
	return supply.Categories(all), nil
}

// CheckAnswer grades a submission against the stored answer for the given
// question id, using the same normalization as SubmitAnswer.
func (g *GameService) CheckAnswer(ctx context.Context, questionID int, userAnswer string) (bool, error) {
	all, err := g.questions.GetQuestions(ctx)
	if err != nil {
		return false, err
	}
	for i := range all {
		if all[i].ID == questionID {
			return domain.AnswerMatches(all[i].Answer, userAnswer), nil
		}
	}
	return false, domain.ErrQuestionNotFound
}
