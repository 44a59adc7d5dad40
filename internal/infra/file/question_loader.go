package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"yokomoji-service/internal/domain"
)

// QuestionLoader reads the question set from a flat JSON file. Records carry
// no key in this form; ids are assigned from load order downstream.
type QuestionLoader struct {
	path string
}

func NewQuestionLoader(path string) *QuestionLoader {
	return &QuestionLoader{path: path}
}

func (l *QuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}
	return questions, nil
}
