package server

import (
	"github.com/cognitive-crime/casegraph/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Case routes
	apiRoutes.GET("/cases", routes.GetCasesHandler)
	apiRoutes.POST("/cases", routes.CreateCaseHandler)
	apiRoutes.GET("/cases/:id", routes.GetCaseHandler)

	// Graph routes
	apiRoutes.GET("/cases/:id/graph", routes.GetCaseGraphHandler)
	apiRoutes.GET("/cases/:id/related", routes.GetRelatedCasesHandler)

	// Analysis routes
	apiRoutes.POST("/cases/:id/simulate", routes.SimulateCaseHandler)
	apiRoutes.POST("/cases/:id/ask", routes.AskCaseHandler)
	apiRoutes.POST("/cases/:id/suspect-image", routes.GenerateSuspectImageHandler)
}
