package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/orcha-labs/orchactl/internal/common"
)

// BackendError is a structured rejection from the backend: a non-2xx status
// with a message extracted from the error body when present.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend rejected request (%d): %s", e.Status, e.Message)
}

// errorBody matches both error shapes the backend emits: FastAPI-style
// {"detail": ...} and the occasional {"message": ...}.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

const genericRejection = "request rejected by server"

// mapStatus converts a non-2xx response into an error:
// 401/403 -> common.ErrUnauthorized, anything else -> *BackendError.
func mapStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		_, _ = io.Copy(io.Discard, resp.Body)
		return common.ErrUnauthorized
	}

	msg := genericRejection
	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
		switch {
		case eb.Detail != "":
			msg = eb.Detail
		case eb.Message != "":
			msg = eb.Message
		}
	}
	return &BackendError{Status: resp.StatusCode, Message: msg}
}
