package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cognitive-crime/casegraph/internal/config"
	"github.com/cognitive-crime/casegraph/internal/queue"
	mid "github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/internal/storage"
	"github.com/cognitive-crime/casegraph/internal/util"
	"github.com/cognitive-crime/casegraph/pkg/graph"
	"github.com/cognitive-crime/casegraph/pkg/logger"
	"github.com/cognitive-crime/casegraph/pkg/query"

	oai "github.com/cognitive-crime/casegraph/pkg/ai/openai"
	neostore "github.com/cognitive-crime/casegraph/pkg/store/neo4j"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// RunMigrations applies pending schema migrations. A database that is
// already up to date is not an error.
func RunMigrations(cfg config.PostgresConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.URL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Init wires every dependency from the config and runs the HTTP server until
// a shutdown signal arrives.
func Init(cfg *config.Config) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RunMigrations(cfg.Postgres); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	conn, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init(cfg.RabbitMQ)
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, []string{queue.ProcessQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	files, err := storage.NewFileStore(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("Failed to create file store", "err", err)
	}

	executor, err := neostore.NewExecutor(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		logger.Fatal("Failed to create Neo4j driver", "err", err)
	}
	defer executor.Close(context.Background())
	if err := util.RetryErrWithContext(ctx, 5, executor.Verify); err != nil {
		logger.Fatal("Failed to reach Neo4j", "err", err)
	}
	graphStore := neostore.NewStore(executor)

	aiClient := oai.NewCaseOpenAIClient(oai.NewCaseOpenAIClientParams{
		BaseURL:         cfg.AI.BaseURL,
		APIKey:          cfg.AI.APIKey,
		ExtractionModel: cfg.AI.ExtractionModel,
		ChatModel:       cfg.AI.ChatModel,
		VisionModel:     cfg.AI.VisionModel,
		ImageModel:      cfg.AI.ImageModel,
		RequestTimeout:  cfg.AI.RequestTimeout,
	})

	app := &mid.App{
		Cfg:       cfg,
		DBConn:    conn,
		Queue:     ch,
		Files:     files,
		AiClient:  aiClient,
		Query:     query.NewService(graphStore),
		Simulator: graph.NewSimulator(graphStore, aiClient),
		Assistant: graph.NewAssistant(graphStore, aiClient),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSOrigins,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.HTTP.BodyLimit))

	RegisterRoutes(e)

	go func() {
		logger.Info("Starting server", "port", cfg.HTTP.Port)
		if err := e.Start(":" + cfg.HTTP.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
