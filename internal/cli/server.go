package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"yokomoji-service/internal/app"
	"yokomoji-service/internal/config"
	"yokomoji-service/internal/domain"
	filestore "yokomoji-service/internal/infra/file"
	"yokomoji-service/internal/infra/memory"
	pgstore "yokomoji-service/internal/infra/postgres"
	redisstore "yokomoji-service/internal/infra/redis"
	"yokomoji-service/internal/supply"
	transport "yokomoji-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader supply.Loader = memory.NewStaticLoader(sampleQuestions())
	switch {
	case pool != nil:
		loader = pgstore.NewQuestionLoader(pool)
	case cfg.Questions.Path != "":
		loader = filestore.NewQuestionLoader(cfg.Questions.Path)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questionRepo app.QuestionRepository
	if redisClient != nil {
		questionRepo = redisstore.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questionRepo = memory.NewQuestionRepository(loader, questionTTL)
	}

	sessionOpts := []app.SessionOption{
		app.WithAdvanceDelays(
			config.TTLDuration(cfg.Game.CorrectDelay, time.Second),
			config.TTLDuration(cfg.Game.IncorrectDelay, 1500*time.Millisecond),
		),
	}
	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, redisTTL, sessionOpts...)
	} else {
		store = memory.NewSessionStore(sessionOpts...)
	}
	service := app.NewGameService(store, questionRepo)
	wsHandler := transport.NewWSHandler(service)
	apiHandler := transport.NewAPIHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	apiHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting yokomoji service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions is the zero-config fallback set; point questions.path at a
// real JSON file or configure postgres for production data.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Prompt:    "「エビデンス」の意味は？",
			Answer:    "証拠",
			Choices:   []string{"証拠", "会議", "予算", "提案"},
			Etymology: "英語の evidence から。",
			Meaning:   "主張を裏付ける証拠や根拠。",
			Example:   "エビデンスを添えて報告してください。",
			Category:  "ビジネス",
		},
		{
			Prompt:    "「リスケ」の意味は？",
			Answer:    "日程変更",
			Choices:   []string{"日程変更", "中止", "値下げ", "再雇用"},
			Etymology: "reschedule の略。",
			Meaning:   "予定を組み直すこと。",
			Example:   "明日の打ち合わせをリスケさせてください。",
			Category:  "ビジネス",
		},
		{
			Prompt:    "「ローンチ」の意味は？",
			Answer:    "公開",
			Choices:   []string{"公開", "昼食", "削除", "予約"},
			Etymology: "英語の launch から。",
			Meaning:   "新しい製品やサービスを世に出すこと。",
			Example:   "新サービスを来月ローンチする。",
			Category:  "IT",
		},
	}
}
