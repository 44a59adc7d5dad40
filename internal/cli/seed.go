package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"yokomoji-service/internal/config"
	"yokomoji-service/internal/domain"
)

// NewSeedCmd loads a questions JSON file into the questions table.
func NewSeedCmd(configPath *string) *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the questions table from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, dataPath)
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "data/questions.json", "path to questions JSON")
	return cmd
}

func runSeed(ctx context.Context, configPath, dataPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("read questions file: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return fmt.Errorf("parse questions file: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	if _, err := db.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	for _, q := range questions {
		choices, err := json.Marshal(q.Choices)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, `
			INSERT INTO questions (question, answer, choices, etymology, meaning, example, category)
			VALUES (?, ?, ?::jsonb, NULLIF(?, ''), ?, NULLIF(?, ''), NULLIF(?, ''))`,
			q.Prompt, q.Answer, string(choices), q.Etymology, q.Meaning, q.Example, q.Category)
		if err != nil {
			return fmt.Errorf("insert question %q: %w", q.Prompt, err)
		}
	}
	log.Printf("seeded %d questions", len(questions))
	return nil
}
