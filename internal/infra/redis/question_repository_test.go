package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"yokomoji-service/internal/domain"
	"yokomoji-service/internal/infra/memory"
	"yokomoji-service/internal/supply"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		Loader: memory.NewStaticLoader(sampleQuestions()),
	}
	repo := NewQuestionRepository(client, loader, time.Minute)

	questions, err := repo.GetQuestions(context.Background())
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(questions) != 2 || questions[0].ID != 1 {
		t.Fatalf("expected 2 questions with assigned ids, got %+v", questions)
	}

	// Second call should hit the hash, loader not incremented.
	cached, err := repo.GetQuestions(context.Background())
	if err != nil {
		t.Fatalf("get questions cached: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached) != 2 || cached[0].Prompt != questions[0].Prompt {
		t.Fatalf("expected cache to restore storage order, got %+v", cached)
	}
}

type countingLoader struct {
	supply.Loader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.Loader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Prompt:  "「コミット」の意味は？",
			Answer:  "責任を持って関わる",
			Choices: []string{"責任を持って関わる", "席を外す", "予約する", "撤退する"},
			Meaning: "結果に責任を持つと約束すること。",
		},
		{
			Prompt:  "「フィックス」の意味は？",
			Answer:  "確定",
			Choices: []string{"確定", "削除", "保留", "共有"},
			Meaning: "内容を最終決定すること。",
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
