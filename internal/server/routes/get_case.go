package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cognitive-crime/casegraph/internal/db"
	"github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// caseIDParam parses the :id path parameter.
func caseIDParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// GetCaseHandler returns one case row, including its processing status.
func GetCaseHandler(c echo.Context) error {
	type getCaseResponse struct {
		Message string   `json:"message,omitempty"`
		Case    *db.Case `json:"case,omitempty"`
	}

	caseID, ok := caseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, getCaseResponse{
			Message: "Invalid case id",
		})
	}

	ctx := c.Request().Context()
	q := db.New(c.(*middleware.AppContext).App.DBConn)

	found, err := q.GetCase(ctx, caseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, getCaseResponse{
				Message: "Case not found",
			})
		}
		logger.Error("Failed to get case", "case_id", caseID, "err", err)
		return c.JSON(http.StatusInternalServerError, getCaseResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getCaseResponse{Case: &found})
}
