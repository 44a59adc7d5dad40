package app

import (
	"sync"
	"time"

	"yokomoji-service/internal/domain"
)

const (
	// Feedback display windows before the automatic advance. A miss gets a
	// longer window so the player can read the explanation.
	defaultCorrectDelay   = time.Second
	defaultIncorrectDelay = 1500 * time.Millisecond
)

// modeRules is the per-mode behavior table. Adding a mode means adding a
// row here, not another branch in the operations.
type modeRules struct {
	usesTimer  bool // countdown runs and reaching zero ends the session
	wraps      bool // advancing past the last question loops back to the first
	endsOnMiss bool // one incorrect answer ends the run
}

var rulesFor = map[domain.GameMode]modeRules{
	domain.ModeTimeAttack:  {usesTimer: true},
	domain.ModeSuddenDeath: {endsOnMiss: true},
	domain.ModeEndless:     {wraps: true},
}

// ConfigUpdate merges player choices into the pending game config. Nil
// fields leave the current value untouched; Reset discards the whole config
// and returns the player to mode selection.
type ConfigUpdate struct {
	Reset     bool
	Mode      *domain.GameMode
	TimeLimit *int
	Category  *string
}

// SessionOption customizes a session at construction time.
type SessionOption func(*Session)

// WithScheduler swaps the timer scheduler (tests use ManualScheduler).
func WithScheduler(s Scheduler) SessionOption {
	return func(sess *Session) { sess.scheduler = s }
}

// WithAdvanceDelays overrides the post-feedback windows.
func WithAdvanceDelays(correct, incorrect time.Duration) SessionOption {
	return func(sess *Session) {
		sess.correctDelay = correct
		sess.incorrectDelay = incorrect
	}
}

// Session is the state machine for one play-through. All mutation goes
// through its operations; invalid calls are silent no-ops, never errors.
// Each event is processed to completion under the lock before the next is
// admitted, so timer callbacks and player intents never interleave.
type Session struct {
	id             string
	scheduler      Scheduler
	correctDelay   time.Duration
	incorrectDelay time.Duration

	mu            sync.Mutex
	phase         domain.Phase
	config        domain.GameConfig
	questions     []domain.Question
	pointer       int
	score         int
	timeRemaining int
	lastGrading   domain.Grading
	results       []domain.AnswerResult

	// generation invalidates callbacks scheduled before a transition; a
	// late-firing timer from a previous phase must not touch the new one.
	generation    uint64
	cancelTick    CancelFunc
	cancelAdvance CancelFunc

	subscribers map[chan domain.Snapshot]struct{}
}

// NewSession creates a session in the Configuring phase.
func NewSession(id string, opts ...SessionOption) *Session {
	s := &Session{
		id:             id,
		scheduler:      TimerScheduler{},
		correctDelay:   defaultCorrectDelay,
		incorrectDelay: defaultIncorrectDelay,
		phase:          domain.PhaseConfiguring,
		lastGrading:    domain.GradingUngraded,
		subscribers:    make(map[chan domain.Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Configure merges player choices into the pending config. Only meaningful
// while configuring; a running or finished session ignores it.
func (s *Session) Configure(u ConfigUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseConfiguring {
		return
	}
	if u.Reset {
		s.config = domain.GameConfig{}
	}
	if u.Mode != nil {
		s.config.Mode = *u.Mode
	}
	if u.TimeLimit != nil {
		s.config.TimeLimit = *u.TimeLimit
	}
	if u.Category != nil {
		s.config.Category = *u.Category
	}
	s.broadcastLocked()
}

// PendingConfig returns the config assembled so far; the caller needs its
// category to shuffle the question set before Start.
func (s *Session) PendingConfig() domain.GameConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Start activates the session over the given (already shuffled and
// filtered) question set. It reports false when the config is incomplete,
// the set is empty, or the session is not configuring.
func (s *Session) Start(questions []domain.Question) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseConfiguring || !s.config.Complete() || len(questions) == 0 {
		return false
	}
	s.questions = questions
	s.pointer = 0
	s.score = 0
	s.results = nil
	s.lastGrading = domain.GradingUngraded
	s.transitionLocked(domain.PhaseActive)
	if rulesFor[s.config.Mode].usesTimer {
		s.timeRemaining = s.config.TimeLimit
		s.scheduleTickLocked()
	} else {
		s.timeRemaining = 0
	}
	s.broadcastLocked()
	return true
}

// Tick decrements the countdown by one second. Only meaningful for a timed
// mode while active; reaching zero ends the session exactly once.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

func (s *Session) tickLocked() {
	if s.phase != domain.PhaseActive || !rulesFor[s.config.Mode].usesTimer {
		return
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining <= 0 {
		s.endSessionLocked()
	} else {
		s.scheduleTickLocked()
	}
	s.broadcastLocked()
}

// SubmitAnswer grades the active question against the chosen text. A
// question is graded at most once; duplicate submissions before the
// auto-advance fires are ignored.
func (s *Session) SubmitAnswer(choice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseActive || s.lastGrading != domain.GradingUngraded {
		return
	}
	q := s.questions[s.pointer]
	correct := domain.AnswerMatches(q.Answer, choice)
	if correct {
		s.lastGrading = domain.GradingCorrect
		s.score++
	} else {
		s.lastGrading = domain.GradingIncorrect
	}
	s.results = append(s.results, domain.AnswerResult{
		QuestionID:    q.ID,
		Prompt:        q.Prompt,
		UserAnswer:    choice,
		CorrectAnswer: q.Answer,
		IsCorrect:     correct,
		Choices:       q.Choices,
		Etymology:     q.Etymology,
		Meaning:       q.Meaning,
		Example:       q.Example,
		Category:      q.Category,
	})

	delay := s.correctDelay
	if !correct {
		delay = s.incorrectDelay
	}
	s.scheduleAdvanceLocked(delay)
	s.broadcastLocked()
}

// advanceLocked moves to the next question per the mode table, or ends the
// session at a terminal position.
func (s *Session) advanceLocked() {
	if s.phase != domain.PhaseActive {
		return
	}
	rules := rulesFor[s.config.Mode]
	if rules.endsOnMiss && s.lastGrading == domain.GradingIncorrect {
		s.endSessionLocked()
		s.broadcastLocked()
		return
	}
	if s.pointer == len(s.questions)-1 {
		if rules.wraps {
			s.pointer = 0
		} else {
			s.endSessionLocked()
			s.broadcastLocked()
			return
		}
	} else {
		s.pointer++
	}
	s.lastGrading = domain.GradingUngraded
	s.broadcastLocked()
}

func (s *Session) endSessionLocked() {
	s.transitionLocked(domain.PhaseFinishedSummary)
}

// Quit abandons an active run and returns to configuration, discarding the
// session data. Callers must have taken the player through a confirmation
// gate first; this operation is destructive.
func (s *Session) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseActive {
		return
	}
	s.resetLocked()
	s.broadcastLocked()
}

// ShowDetail switches the finished view from summary to per-answer detail.
func (s *Session) ShowDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseFinishedSummary {
		return
	}
	s.transitionLocked(domain.PhaseFinishedDetail)
	s.broadcastLocked()
}

// BackToSummary returns from the detail view to the summary.
func (s *Session) BackToSummary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseFinishedDetail {
		return
	}
	s.transitionLocked(domain.PhaseFinishedSummary)
	s.broadcastLocked()
}

// Restart leaves either finished view for a fresh configuration. The
// question set is discarded; the next Start gets a fresh shuffle.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseFinishedSummary && s.phase != domain.PhaseFinishedDetail {
		return
	}
	s.resetLocked()
	s.broadcastLocked()
}

func (s *Session) resetLocked() {
	s.config = domain.GameConfig{}
	s.questions = nil
	s.pointer = 0
	s.score = 0
	s.timeRemaining = 0
	s.results = nil
	s.lastGrading = domain.GradingUngraded
	s.transitionLocked(domain.PhaseConfiguring)
}

// transitionLocked changes phase, bumps the generation, and cancels any
// pending timer so stale callbacks cannot mutate the new phase.
func (s *Session) transitionLocked(next domain.Phase) {
	s.phase = next
	s.generation++
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
	if s.cancelAdvance != nil {
		s.cancelAdvance()
		s.cancelAdvance = nil
	}
}

func (s *Session) scheduleTickLocked() {
	if s.cancelTick != nil {
		s.cancelTick()
	}
	gen := s.generation
	s.cancelTick = s.scheduler.ScheduleOnce(time.Second, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			return
		}
		s.cancelTick = nil
		s.tickLocked()
	})
}

func (s *Session) scheduleAdvanceLocked(delay time.Duration) {
	if s.cancelAdvance != nil {
		s.cancelAdvance()
	}
	gen := s.generation
	s.cancelAdvance = s.scheduler.ScheduleOnce(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			return
		}
		s.cancelAdvance = nil
		s.advanceLocked()
	})
}

// Snapshot returns a read-only copy of the session state for rendering.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		Phase:          s.phase,
		Config:         s.config,
		QuestionIndex:  s.pointer,
		TotalQuestions: len(s.questions),
		Score:          s.score,
		TimeRemaining:  s.timeRemaining,
		LastGrading:    s.lastGrading,
	}
	if len(s.results) > 0 {
		snap.Results = make([]domain.AnswerResult, len(s.results))
		copy(snap.Results, s.results)
	}
	if s.phase == domain.PhaseActive && s.pointer < len(s.questions) {
		q := s.questions[s.pointer]
		snap.Question = &q
	}
	return snap
}

// Subscribe returns a channel receiving a snapshot after every mutation,
// seeded with the current state. The cancel function must be called to
// avoid leaks.
func (s *Session) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest update so a slow client never blocks the game.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
