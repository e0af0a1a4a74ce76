package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cognitive-crime/casegraph/internal/db"
	"github.com/cognitive-crime/casegraph/internal/queue"
	"github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/pkg/loader"
	"github.com/cognitive-crime/casegraph/pkg/logger"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
)

// CreateCaseHandler accepts one case file as multipart/form-data, stores it,
// and queues it for graph extraction. Files with an unsupported extension get
// a failed case row and are never queued.
func CreateCaseHandler(c echo.Context) error {
	type createCaseResponse struct {
		Message string `json:"message"`
		CaseID  int64  `json:"case_id,omitempty"`
	}

	upload, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, createCaseResponse{
			Message: "Missing case file",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	q := db.New(app.DBConn)

	kind := loader.DetectKind(upload.Filename)
	if kind == loader.ContentKindUnsupported {
		newCase, err := q.CreateCase(ctx, db.CreateCaseParams{
			Filename:    upload.Filename,
			ContentKind: string(kind),
			Status:      db.CaseStatusFailed,
		})
		if err != nil {
			logger.Error("Failed to create case", "err", err)
			return c.JSON(http.StatusInternalServerError, createCaseResponse{
				Message: "Internal server error",
			})
		}
		_ = q.UpdateCaseStatus(ctx, db.UpdateCaseStatusParams{
			CaseID:        newCase.CaseID,
			Status:        db.CaseStatusFailed,
			FailureReason: pgtype.Text{String: "unsupported file type", Valid: true},
		})
		return c.JSON(http.StatusOK, createCaseResponse{
			Message: "Unsupported file type, case will not be processed",
			CaseID:  newCase.CaseID,
		})
	}

	file, err := upload.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, createCaseResponse{
			Message: "Invalid case file",
		})
	}
	defer file.Close()

	key, err := app.Files.PutFile(ctx, upload.Filename, file)
	if err != nil {
		logger.Error("Failed to store case file", "err", err)
		return c.JSON(http.StatusInternalServerError, createCaseResponse{
			Message: "Internal server error",
		})
	}

	newCase, err := q.CreateCase(ctx, db.CreateCaseParams{
		Filename:    upload.Filename,
		FileKey:     pgtype.Text{String: key, Valid: true},
		ContentKind: string(kind),
		Status:      db.CaseStatusPending,
	})
	if err != nil {
		logger.Error("Failed to create case", "err", err)
		if delErr := app.Files.DeleteFile(ctx, key); delErr != nil {
			logger.Error("Failed to delete orphaned case file", "key", key, "err", delErr)
		}
		return c.JSON(http.StatusInternalServerError, createCaseResponse{
			Message: "Internal server error",
		})
	}

	msgBytes, err := json.Marshal(queue.ProcessCaseMsg{
		CaseID:   newCase.CaseID,
		FileKey:  key,
		Filename: upload.Filename,
		Kind:     string(kind),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createCaseResponse{
			Message: "Internal server error",
		})
	}

	if err := queue.Publish(app.Queue, queue.ProcessQueue, msgBytes); err != nil {
		logger.Error("Failed to queue case", "case_id", newCase.CaseID, "err", err)
		_ = q.UpdateCaseStatus(ctx, db.UpdateCaseStatusParams{
			CaseID:        newCase.CaseID,
			Status:        db.CaseStatusFailed,
			FailureReason: pgtype.Text{String: fmt.Sprintf("failed to queue case: %v", err), Valid: true},
		})
		return c.JSON(http.StatusInternalServerError, createCaseResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, createCaseResponse{
		Message: "Case queued for processing",
		CaseID:  newCase.CaseID,
	})
}
