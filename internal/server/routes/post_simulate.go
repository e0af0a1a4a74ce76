package routes

import (
	"errors"
	"net/http"

	"github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/pkg/graph"
	"github.com/cognitive-crime/casegraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SimulateCaseHandler generates a narrative reconstruction of the crime from
// the case's extracted entities.
func SimulateCaseHandler(c echo.Context) error {
	type simulateCaseResponse struct {
		Message    string `json:"message,omitempty"`
		CaseID     int64  `json:"case_id,omitempty"`
		Simulation string `json:"simulation,omitempty"`
	}

	caseID, ok := caseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, simulateCaseResponse{
			Message: "Invalid case id",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	narrative, err := app.Simulator.Simulate(ctx, caseID)
	if err != nil {
		if errors.Is(err, graph.ErrNoEntities) {
			return c.JSON(http.StatusConflict, simulateCaseResponse{
				Message: "Case has no graph data yet",
			})
		}
		logger.Error("Failed to simulate case", "case_id", caseID, "err", err)
		return c.JSON(http.StatusInternalServerError, simulateCaseResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, simulateCaseResponse{
		CaseID:     caseID,
		Simulation: narrative,
	})
}
