package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jabatayo/task-management-api/internal/repo"
	"github.com/jabatayo/task-management-api/internal/service"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "not found",
			err:      repo.ErrorNotFound,
			wantCode: http.StatusNotFound,
			wantMsg:  "not found",
		},
		{
			name:     "forbidden",
			err:      service.ErrForbidden,
			wantCode: http.StatusForbidden,
			wantMsg:  "Unauthorized",
		},
		{
			name:     "validation carries the message",
			err:      fmt.Errorf("%w: task title is required", service.ErrValidation),
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "validation error: task title is required",
		},
		{
			name:     "invalid credentials",
			err:      service.ErrInvalidCredentials,
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "the provided credentials are incorrect",
		},
		{
			name:     "conflict",
			err:      repo.ErrorConflict,
			wantCode: http.StatusConflict,
			wantMsg:  "conflict",
		},
		{
			name:     "unknown errors stay opaque",
			err:      errors.New("pool exhausted"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()

			handleError(w, req, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantCode, w.Code)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}
