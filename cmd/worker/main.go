package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cognitive-crime/casegraph/internal/config"
	"github.com/cognitive-crime/casegraph/internal/queue"
	"github.com/cognitive-crime/casegraph/internal/storage"
	"github.com/cognitive-crime/casegraph/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	oai "github.com/cognitive-crime/casegraph/pkg/ai/openai"
	"github.com/cognitive-crime/casegraph/pkg/graph"
	"github.com/cognitive-crime/casegraph/pkg/leaselock"
	"github.com/cognitive-crime/casegraph/pkg/logger"
	"github.com/cognitive-crime/casegraph/pkg/logger/console"
	neostore "github.com/cognitive-crime/casegraph/pkg/store/neo4j"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{})
		logger.Init(consoleLogger)
		logger.Fatal("Invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
	})
	logger.Init(consoleLogger)

	files, err := storage.NewFileStore(ctx, cfg.S3)
	if err != nil {
		logger.Fatal("Failed to create file store", "err", err)
	}

	aiClient := oai.NewCaseOpenAIClient(oai.NewCaseOpenAIClientParams{
		BaseURL:         cfg.AI.BaseURL,
		APIKey:          cfg.AI.APIKey,
		ExtractionModel: cfg.AI.ExtractionModel,
		ChatModel:       cfg.AI.ChatModel,
		VisionModel:     cfg.AI.VisionModel,
		ImageModel:      cfg.AI.ImageModel,
		RequestTimeout:  cfg.AI.RequestTimeout,
	})

	pgConn, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	executor, err := neostore.NewExecutor(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		logger.Fatal("Failed to create Neo4j driver", "err", err)
	}
	defer executor.Close(context.Background())
	if err := util.RetryErrWithContext(ctx, 5, executor.Verify); err != nil {
		logger.Fatal("Failed to reach Neo4j", "err", err)
	}
	graphStore := neostore.NewStore(executor)

	extractor := graph.NewModelExtractor(aiClient)
	builder := graph.NewBuilder(extractor, graphStore, queue.NewCaseStatusStore(pgConn))
	locks := leaselock.New(pgConn)

	conn := queue.Init(cfg.RabbitMQ)
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.ProcessQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	// One message at a time; a case build is heavy and holds a lease anyway.
	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.ProcessQueue,
		"process_queue_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.ProcessQueue, "err", err)
	}

	logger.Info("Listening for messages")

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("Message channel closed")
					return
				}
				handleMessage(ctx, consumerCh, msg, files, aiClient, builder, locks, pgConn)
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

func handleMessage(
	ctx context.Context,
	ch *amqp.Channel,
	msg amqp.Delivery,
	files *storage.FileStore,
	aiClient *oai.CaseOpenAIClient,
	builder *graph.Builder,
	locks *leaselock.Client,
	pgConn *pgxpool.Pool,
) {
	startTime := time.Now()
	logger.Info("Received message", "queue", queue.ProcessQueue)

	processingErr := queue.ProcessCase(ctx, files, aiClient, builder, locks, pgConn, string(msg.Body), queue.RetryCount(msg))
	if processingErr != nil {
		logger.Error("Error processing message", "queue", queue.ProcessQueue, "err", processingErr)
		queue.HandleProcessingError(ch, msg, queue.ProcessQueue)
	} else {
		if err := msg.Ack(false); err != nil {
			logger.Error("Failed to ack message", "err", err)
		}
		logger.Info("Message processed successfully", "queue", queue.ProcessQueue)
	}

	metrics := aiClient.GetMetrics()
	aiDuration := time.Duration(metrics.DurationMs) * time.Millisecond
	logger.Info(
		"AI Metrics",
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"total_tokens", metrics.TotalTokens,
		"duration", formatDuration(aiDuration),
	)
	logger.Info("Processing time", "duration", formatDuration(time.Since(startTime)))
	aiClient.ResetMetrics()
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
