package routes

import (
	"net/http"

	"github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/pkg/logger"
	"github.com/cognitive-crime/casegraph/pkg/store"

	"github.com/labstack/echo/v4"
)

// GetRelatedCasesHandler returns cases linked to this one through shared
// persons or shared crime patterns.
func GetRelatedCasesHandler(c echo.Context) error {
	type getRelatedCasesResponse struct {
		Message      string              `json:"message,omitempty"`
		RelatedCases []store.RelatedCase `json:"related_cases"`
	}

	caseID, ok := caseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, getRelatedCasesResponse{
			Message:      "Invalid case id",
			RelatedCases: []store.RelatedCase{},
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	related, err := app.Query.RelatedCases(ctx, caseID)
	if err != nil {
		logger.Error("Failed to load related cases", "case_id", caseID, "err", err)
		return c.JSON(http.StatusInternalServerError, getRelatedCasesResponse{
			Message:      "Internal server error",
			RelatedCases: []store.RelatedCase{},
		})
	}

	return c.JSON(http.StatusOK, getRelatedCasesResponse{RelatedCases: related})
}
