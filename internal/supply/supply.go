// Package supply loads the question set from a backing store and produces
// randomized, per-session presentation orders.
package supply

import (
	"context"
	"fmt"
	"math/rand"

	"yokomoji-service/internal/domain"
)

// Loader fetches the raw question set from a backing store (JSON file,
// relational table, static map).
type Loader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// LoadAll reads the full backing set, assigns ids where the store supplies
// none, and validates every record. Questions come back in storage order;
// shuffling is a separate per-session step.
func LoadAll(ctx context.Context, loader Loader) ([]domain.Question, error) {
	questions, err := loader.LoadQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	for i := range questions {
		if questions[i].ID == 0 {
			// File-backed stores carry no key; ids are the 1-based load order.
			questions[i].ID = i + 1
		}
		if err := validate(questions[i]); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

func validate(q domain.Question) error {
	if q.Answer == "" {
		return fmt.Errorf("%w: question %d has no answer", domain.ErrMalformedRecord, q.ID)
	}
	if q.Meaning == "" {
		return fmt.Errorf("%w: question %d has no meaning", domain.ErrMalformedRecord, q.ID)
	}
	if len(q.Choices) < 2 {
		return fmt.Errorf("%w: question %d has %d choices", domain.ErrMalformedRecord, q.ID, len(q.Choices))
	}
	return nil
}

// ShuffleForSession filters by category (empty means all), then applies an
// unbiased Fisher-Yates permutation to the question order and, independently,
// to each question's choices. The input slice is never mutated; restart gets
// a fresh order without re-querying the store.
func ShuffleForSession(rng *rand.Rand, questions []domain.Question, category string) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if category != "" && q.Category != category {
			continue
		}
		q.Choices = shuffledCopy(rng, q.Choices)
		out = append(out, q)
	}
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func shuffledCopy(rng *rand.Rand, in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Categories returns the distinct category tags present in the set, in first
// occurrence order. Uncategorized questions contribute nothing; they are
// always eligible through the catch-all (empty) filter.
func Categories(questions []domain.Question) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, q := range questions {
		if q.Category == "" {
			continue
		}
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}
	return out
}
