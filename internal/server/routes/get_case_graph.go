package routes

import (
	"net/http"

	"github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/pkg/logger"
	"github.com/cognitive-crime/casegraph/pkg/query"

	"github.com/labstack/echo/v4"
)

// GetCaseGraphHandler returns the visualization graph for a case. A case
// that has not been processed yet yields an empty graph.
func GetCaseGraphHandler(c echo.Context) error {
	type getCaseGraphResponse struct {
		Message string          `json:"message,omitempty"`
		Nodes   []query.VizNode `json:"nodes"`
		Edges   []query.VizEdge `json:"edges"`
	}

	caseID, ok := caseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, getCaseGraphResponse{
			Message: "Invalid case id",
			Nodes:   []query.VizNode{},
			Edges:   []query.VizEdge{},
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	graph, err := app.Query.CaseGraph(ctx, caseID)
	if err != nil {
		logger.Error("Failed to load case graph", "case_id", caseID, "err", err)
		return c.JSON(http.StatusInternalServerError, getCaseGraphResponse{
			Message: "Internal server error",
			Nodes:   []query.VizNode{},
			Edges:   []query.VizEdge{},
		})
	}

	return c.JSON(http.StatusOK, getCaseGraphResponse{
		Nodes: graph.Nodes,
		Edges: graph.Edges,
	})
}
