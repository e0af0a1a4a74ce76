package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognitive-crime/casegraph/internal/util"
)

// Config holds every setting the service needs. It is constructed once at
// startup and passed by reference; no component reads the environment on its
// own after Load returns.
type Config struct {
	Debug bool

	HTTP     HTTPConfig
	Postgres PostgresConfig
	RabbitMQ RabbitMQConfig
	S3       S3Config
	Neo4j    Neo4jConfig
	AI       AIConfig
}

type HTTPConfig struct {
	Port        string
	CORSOrigins []string
	BodyLimit   string
}

type PostgresConfig struct {
	URL            string
	MigrationsPath string
}

type RabbitMQConfig struct {
	User     string
	Password string
	Host     string
	Port     string
}

// URL returns the AMQP connection URL.
func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.User, c.Password, c.Host, c.Port)
}

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

type AIConfig struct {
	BaseURL string
	APIKey  string

	ExtractionModel string
	ChatModel       string
	VisionModel     string
	ImageModel      string

	// RequestTimeout bounds every external model call.
	RequestTimeout time.Duration
}

// Load reads the process environment (and an optional .env file) into a
// Config. Missing required values are reported as one error.
func Load() (*Config, error) {
	util.LoadEnv()

	cfg := &Config{
		Debug: util.GetEnvBool("DEBUG", false),
		HTTP: HTTPConfig{
			Port:        util.GetEnvString("PORT", "8080"),
			CORSOrigins: splitList(util.GetEnvString("CORS_ORIGINS", "*")),
			BodyLimit:   util.GetEnvString("HTTP_BODY_LIMIT", "64M"),
		},
		Postgres: PostgresConfig{
			URL:            util.GetEnv("DATABASE_URL"),
			MigrationsPath: util.GetEnvString("MIGRATIONS_PATH", "internal/db/migrations"),
		},
		RabbitMQ: RabbitMQConfig{
			User:     util.GetEnv("RABBITMQ_USER"),
			Password: util.GetEnv("RABBITMQ_PASSWORD"),
			Host:     util.GetEnvString("RABBITMQ_HOST", "localhost"),
			Port:     util.GetEnvString("RABBITMQ_PORT", "5672"),
		},
		S3: S3Config{
			Region:    util.GetEnv("AWS_REGION"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
			Bucket:    util.GetEnvString("AWS_BUCKET", "casegraph"),
		},
		Neo4j: Neo4jConfig{
			URI:      util.GetEnvString("NEO4J_URI", "neo4j://localhost:7687"),
			Username: util.GetEnvString("NEO4J_USER", "neo4j"),
			Password: util.GetEnv("NEO4J_PASSWORD"),
			Database: util.GetEnvString("NEO4J_DATABASE", "neo4j"),
		},
		AI: AIConfig{
			BaseURL:         util.GetEnv("AI_CHAT_URL"),
			APIKey:          util.GetEnv("AI_CHAT_KEY"),
			ExtractionModel: util.GetEnvString("AI_EXTRACT_MODEL", "gpt-4o-mini"),
			ChatModel:       util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),
			VisionModel:     util.GetEnvString("AI_VISION_MODEL", "gpt-4o-mini"),
			ImageModel:      util.GetEnvString("AI_IMAGE_MODEL", "gpt-image-1"),
			RequestTimeout:  util.GetEnvDuration("AI_REQUEST_TIMEOUT", 120*time.Second),
		},
	}

	var missing []string
	if cfg.Postgres.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.RabbitMQ.User == "" {
		missing = append(missing, "RABBITMQ_USER")
	}
	if cfg.RabbitMQ.Password == "" {
		missing = append(missing, "RABBITMQ_PASSWORD")
	}
	if cfg.AI.APIKey == "" {
		missing = append(missing, "AI_CHAT_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
