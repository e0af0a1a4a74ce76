package routes

import (
	"net/http"
	"strconv"

	"github.com/cognitive-crime/casegraph/internal/db"
	"github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultPageSize = 50

// pageParams reads the page and page_size query parameters, clamping both
// to sane values.
func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.QueryParam("page_size"))
	if size < 1 || size > 200 {
		size = defaultPageSize
	}
	return page, size
}

// GetCasesHandler lists cases newest first, paginated through the page and
// page_size query parameters.
func GetCasesHandler(c echo.Context) error {
	type getCasesResponse struct {
		Message string    `json:"message,omitempty"`
		Cases   []db.Case `json:"cases"`
		Total   int64     `json:"total"`
		Page    int       `json:"page"`
	}

	page, limit := pageParams(c)

	ctx := c.Request().Context()
	q := db.New(c.(*middleware.AppContext).App.DBConn)

	cases, err := q.ListCases(ctx, db.ListCasesParams{
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
	})
	if err != nil {
		logger.Error("Failed to list cases", "err", err)
		return c.JSON(http.StatusInternalServerError, getCasesResponse{
			Message: "Internal server error",
			Cases:   []db.Case{},
		})
	}

	total, err := q.CountCases(ctx)
	if err != nil {
		logger.Error("Failed to count cases", "err", err)
		return c.JSON(http.StatusInternalServerError, getCasesResponse{
			Message: "Internal server error",
			Cases:   []db.Case{},
		})
	}

	return c.JSON(http.StatusOK, getCasesResponse{
		Cases: cases,
		Total: total,
		Page:  page,
	})
}
