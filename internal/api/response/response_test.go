// internal/api/response/response_test.go
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantlab/quiver/internal/core"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]int{"total_signals": 5})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var resp SuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("meta timestamp not set")
	}
}

func TestError_CodedError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, core.Wrapf(core.ErrConditionSyntax, "unparsable fragment %q", "RSI >>"))

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Error.Code != "CONDITION_SYNTAX" {
		t.Errorf("code = %q, want CONDITION_SYNTAX", resp.Error.Code)
	}
	if resp.Error.Cause == "" {
		t.Error("cause should carry the detail message")
	}
}

func TestError_PlainError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusInternalServerError, fmt.Errorf("boom"))

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", resp.Error.Code)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrNoData, http.StatusNotFound},
		{core.ErrConditionSyntax, http.StatusBadRequest},
		{core.ErrMissingColumn, http.StatusBadRequest},
		{core.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
