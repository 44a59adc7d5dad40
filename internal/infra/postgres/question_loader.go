package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"yokomoji-service/internal/domain"
)

// QuestionLoader reads the questions table. Ids come from the table's
// auto-increment key and are preserved as-is.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, question, answer, choices, etymology, meaning, example, category
		FROM questions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q          domain.Question
			rawChoices []byte
			etymology  sql.NullString
			example    sql.NullString
			category   sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Answer, &rawChoices, &etymology, &q.Meaning, &example, &category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(rawChoices, &q.Choices); err != nil {
			return nil, fmt.Errorf("decode choices for question %d: %w", q.ID, err)
		}
		q.Etymology = etymology.String
		q.Example = example.String
		q.Category = category.String
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}
