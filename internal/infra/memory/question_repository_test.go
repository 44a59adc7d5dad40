package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"yokomoji-service/internal/domain"
	"yokomoji-service/internal/supply"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		Loader: NewStaticLoader(sampleQuestions()),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.GetQuestions(context.Background()); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuestions(context.Background()); err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositoryAssignsIDs(t *testing.T) {
	repo := NewQuestionRepository(NewStaticLoader(sampleQuestions()), time.Minute)

	questions, err := repo.GetQuestions(context.Background())
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	for i, q := range questions {
		if q.ID != i+1 {
			t.Fatalf("expected 1-based sequential ids, got %d at index %d", q.ID, i)
		}
	}
}

func TestQuestionRepositorySurfacesMalformedRecord(t *testing.T) {
	bad := sampleQuestions()
	bad[0].Meaning = ""
	repo := NewQuestionRepository(NewStaticLoader(bad), time.Minute)

	_, err := repo.GetQuestions(context.Background())
	if !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("expected malformed record error, got %v", err)
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
			Prompt:  "「コンセンサス」の意味は？",
			Answer:  "合意",
			Choices: []string{"合意", "対立", "中立", "撤回"},
			Meaning: "関係者全員の意見の一致。",
		},
		{
			Prompt:  "「アジェンダ」の意味は？",
			Answer:  "議題",
			Choices: []string{"議題", "宿題", "予算", "休憩"},
			Meaning: "会議で扱う項目の一覧。",
		},
	}
}
