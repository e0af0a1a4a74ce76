package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/cognitive-crime/casegraph/internal/config"
	"github.com/cognitive-crime/casegraph/internal/db"
	"github.com/cognitive-crime/casegraph/internal/storage"
	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/graph"
	"github.com/cognitive-crime/casegraph/pkg/query"
)

// App holds every dependency the route handlers reach for. It is built once
// at startup and shared across requests.
type App struct {
	Cfg       *config.Config
	DBConn    db.DBTX
	Queue     *amqp091.Channel
	Files     *storage.FileStore
	AiClient  ai.CaseAIClient
	Query     *query.Service
	Simulator *graph.Simulator
	Assistant *graph.Assistant
}

// AppContext wraps the echo context with the application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the App to every request context.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
