package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"yokomoji-service/internal/app"
	"yokomoji-service/internal/domain"
	"yokomoji-service/internal/infra/memory"
)

func newTestService(sched *app.ManualScheduler) *app.GameService {
	store := memory.NewSessionStore(app.WithScheduler(sched))
	repo := memory.NewQuestionRepository(memory.NewStaticLoader([]domain.Question{
		{
			Prompt:   "capital of Japan?",
			Answer:   "Tokyo",
			Choices:  []string{"Tokyo", "Kyoto", "Osaka", "Nara"},
			Meaning:  "Capital city.",
			Category: "geography",
		},
		{
			Prompt:   "2 + 2?",
			Answer:   "4",
			Choices:  []string{"3", "4", "5", "6"},
			Meaning:  "Basic arithmetic.",
			Category: "math",
		},
	}), 5*time.Minute)
	return app.NewGameService(store, repo)
}

func TestServiceRunsAGame(t *testing.T) {
	ctx := context.Background()
	sched := app.NewManualScheduler()
	service := newTestService(sched)

	if _, err := service.Open(ctx, "player-1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	mode := domain.ModeSuddenDeath
	service.Configure("player-1", app.ConfigUpdate{Mode: &mode})

	started, err := service.Start(ctx, "player-1")
	if err != nil || !started {
		t.Fatalf("expected start, got started=%v err=%v", started, err)
	}

	snap, err := service.Snapshot("player-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	service.SubmitAnswer("player-1", snap.Question.Answer)
	sched.Fire()

	snap, _ = service.Snapshot("player-1")
	if snap.Score != 1 {
		t.Fatalf("expected score 1, got %d", snap.Score)
	}
}

func TestServiceStartFiltersByCategory(t *testing.T) {
	ctx := context.Background()
	sched := app.NewManualScheduler()
	service := newTestService(sched)

	if _, err := service.Open(ctx, "player-1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	mode := domain.ModeEndless
	category := "geography"
	service.Configure("player-1", app.ConfigUpdate{Mode: &mode, Category: &category})

	started, err := service.Start(ctx, "player-1")
	if err != nil || !started {
		t.Fatalf("expected start, got started=%v err=%v", started, err)
	}
	snap, _ := service.Snapshot("player-1")
	if snap.TotalQuestions != 1 || snap.Question.Category != "geography" {
		t.Fatalf("expected only geography questions, got %+v", snap)
	}
}

func TestServiceCannotStartWithEmptyFilteredSet(t *testing.T) {
	ctx := context.Background()
	service := newTestService(app.NewManualScheduler())

	if _, err := service.Open(ctx, "player-1"); err != nil {
		t.Fatalf("open: %v", err)
	}

	mode := domain.ModeEndless
	category := "astrology"
	service.Configure("player-1", app.ConfigUpdate{Mode: &mode, Category: &category})

	started, err := service.Start(ctx, "player-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started {
		t.Fatalf("expected cannot-start for a category with no questions")
	}
	if snap, _ := service.Snapshot("player-1"); snap.Phase != domain.PhaseConfiguring {
		t.Fatalf("expected session still configuring, got %s", snap.Phase)
	}
}

func TestServiceStartRequiresSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService(app.NewManualScheduler())

	_, err := service.Start(ctx, "ghost")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestServiceCheckAnswer(t *testing.T) {
	ctx := context.Background()
	service := newTestService(app.NewManualScheduler())

	correct, err := service.CheckAnswer(ctx, 1, "  tokyo ")
	if err != nil {
		t.Fatalf("check answer: %v", err)
	}
	if !correct {
		t.Fatalf("expected trim+case-insensitive match")
	}

	correct, err = service.CheckAnswer(ctx, 1, "Kyoto")
	if err != nil || correct {
		t.Fatalf("expected incorrect, got correct=%v err=%v", correct, err)
	}

	if _, err := service.CheckAnswer(ctx, 99, "Tokyo"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestServiceListShuffledKeepsMultiset(t *testing.T) {
	ctx := context.Background()
	service := newTestService(app.NewManualScheduler())

	questions, err := service.ListShuffled(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	ids := map[int]bool{}
	for _, q := range questions {
		ids[q.ID] = true
	}
	if !ids[1] || !ids[2] {
		t.Fatalf("expected ids 1 and 2, got %v", ids)
	}
}

func TestServiceCategories(t *testing.T) {
	ctx := context.Background()
	service := newTestService(app.NewManualScheduler())

	categories, err := service.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %v", categories)
	}
}
