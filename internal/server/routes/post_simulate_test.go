package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cognitive-crime/casegraph/internal/server/middleware"
	"github.com/cognitive-crime/casegraph/pkg/graph"
	"github.com/cognitive-crime/casegraph/pkg/store"

	"github.com/labstack/echo/v4"
)

func TestSimulateCaseHandlerPayload(t *testing.T) {
	t.Parallel()

	stub := &stubGraphStore{entities: []store.CaseEntity{
		{Name: "John Doe", Label: "Person"},
	}}
	aiClient := &fakeAIClient{completion: "The suspect entered through the back door."}
	app := &middleware.App{Simulator: graph.NewSimulator(stub, aiClient)}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := SimulateCaseHandler(&middleware.AppContext{Context: c, App: app}); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		CaseID     int64  `json:"case_id"`
		Simulation string `json:"simulation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.CaseID != 4 {
		t.Errorf("got case_id %d, want 4", body.CaseID)
	}
	if body.Simulation != "The suspect entered through the back door." {
		t.Errorf("got simulation %q", body.Simulation)
	}
}

func TestSimulateCaseHandlerNoEntities(t *testing.T) {
	t.Parallel()

	app := &middleware.App{Simulator: graph.NewSimulator(&stubGraphStore{}, &fakeAIClient{})}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := SimulateCaseHandler(&middleware.AppContext{Context: c, App: app}); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusConflict)
	}
}
