package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestCaseIDParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		param  string
		wantID int64
		wantOK bool
	}{
		{name: "valid_id", param: "12", wantID: 12, wantOK: true},
		{name: "zero_rejected", param: "0", wantOK: false},
		{name: "negative_rejected", param: "-3", wantOK: false},
		{name: "non_numeric_rejected", param: "abc", wantOK: false},
		{name: "empty_rejected", param: "", wantOK: false},
	}

	e := echo.New()
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			c := e.NewContext(req, httptest.NewRecorder())
			c.SetParamNames("id")
			c.SetParamValues(tc.param)

			id, ok := caseIDParam(c)
			if ok != tc.wantOK {
				t.Fatalf("got ok=%v, want %v", ok, tc.wantOK)
			}
			if ok && id != tc.wantID {
				t.Fatalf("got id=%d, want %d", id, tc.wantID)
			}
		})
	}
}
