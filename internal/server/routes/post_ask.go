package routes

import (
	"errors"
	"net/http"

	"github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/graph"
	"github.com/cognitive-crime/casegraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AskCaseHandler answers a question about a case, grounded in its knowledge
// graph. The client sends the whole conversation so follow-ups keep context.
func AskCaseHandler(c echo.Context) error {
	type askCaseBody struct {
		Messages []ai.ChatMessage `json:"messages" validate:"required,min=1,dive"`
	}

	type askCaseResponse struct {
		Message string `json:"message,omitempty"`
		Answer  string `json:"answer,omitempty"`
	}

	caseID, ok := caseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, askCaseResponse{
			Message: "Invalid case id",
		})
	}

	data := new(askCaseBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, askCaseResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, askCaseResponse{
			Message: "Invalid request body",
		})
	}
	for _, msg := range data.Messages {
		if msg.Role != "user" && msg.Role != "assistant" {
			return c.JSON(http.StatusBadRequest, askCaseResponse{
				Message: "Invalid message role",
			})
		}
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	answer, err := app.Assistant.Ask(ctx, caseID, data.Messages)
	if err != nil {
		if errors.Is(err, graph.ErrNoEntities) {
			return c.JSON(http.StatusConflict, askCaseResponse{
				Message: "Case has no graph data yet",
			})
		}
		logger.Error("Failed to answer case question", "case_id", caseID, "err", err)
		return c.JSON(http.StatusInternalServerError, askCaseResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, askCaseResponse{Answer: answer})
}
