package routes

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/cognitive-crime/casegraph/internal/db"
	"github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
)

// GenerateSuspectImageHandler renders a composite portrait from a witness
// description, uploads it to the file store, and records the key on the
// case row.
func GenerateSuspectImageHandler(c echo.Context) error {
	type suspectImageBody struct {
		Description string `json:"description" validate:"required,min=10"`
	}

	type suspectImageResponse struct {
		Message  string `json:"message,omitempty"`
		ImageKey string `json:"image_key,omitempty"`
	}

	caseID, ok := caseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, suspectImageResponse{
			Message: "Invalid case id",
		})
	}

	data := new(suspectImageBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, suspectImageResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, suspectImageResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	q := db.New(app.DBConn)

	if _, err := q.GetCase(ctx, caseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, suspectImageResponse{
				Message: "Case not found",
			})
		}
		logger.Error("Failed to load case", "case_id", caseID, "err", err)
		return c.JSON(http.StatusInternalServerError, suspectImageResponse{
			Message: "Internal server error",
		})
	}

	image, err := app.AiClient.GenerateImage(ctx, fmt.Sprintf(ai.SuspectImagePrompt, data.Description))
	if err != nil {
		logger.Error("Failed to generate suspect image", "case_id", caseID, "err", err)
		return c.JSON(http.StatusInternalServerError, suspectImageResponse{
			Message: "Internal server error",
		})
	}

	key, err := app.Files.PutFile(ctx, "suspect.png", bytes.NewReader(image))
	if err != nil {
		logger.Error("Failed to upload suspect image", "case_id", caseID, "err", err)
		return c.JSON(http.StatusInternalServerError, suspectImageResponse{
			Message: "Internal server error",
		})
	}

	if err := q.SetCaseSuspectImage(ctx, db.SetCaseSuspectImageParams{
		CaseID:       caseID,
		SuspectImage: pgtype.Text{String: key, Valid: true},
	}); err != nil {
		logger.Error("Failed to store suspect image", "case_id", caseID, "err", err)
		return c.JSON(http.StatusInternalServerError, suspectImageResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, suspectImageResponse{ImageKey: key})
}
