package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/diety/internal/model"
)

type mockHealthChecker struct {
	pingFn func(ctx context.Context) error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
	}{
		{"疎通OK", nil, http.StatusOK},
		{"疎通NG", errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(&mockHealthChecker{
				pingFn: func(ctx context.Context) error {
					if _, ok := ctx.Deadline(); !ok {
						t.Error("ping context should have a deadline")
					}
					return tt.pingErr
				},
			})

			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestMapAPIErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *model.APIError
		want int
	}{
		{model.NewValidationError("x"), http.StatusBadRequest},
		{model.NewInvalidIDError("x"), http.StatusBadRequest},
		{model.NewUnauthorizedError(), http.StatusUnauthorized},
		{model.NewInvalidCredentialsError(), http.StatusUnauthorized},
		{model.NewInternalError(), http.StatusInternalServerError},
		{&model.APIError{Code: "UNKNOWN"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapAPIErrorToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("mapAPIErrorToHTTPStatus(%s) = %d, want %d", tt.err.Code, got, tt.want)
		}
	}
}

func TestHandleServiceError_WrappedAPIError(t *testing.T) {
	w := httptest.NewRecorder()
	err := errors.Join(errors.New("context"), model.NewInvalidCredentialsError())

	handleServiceError(w, httptest.NewRequest(http.MethodPost, "/", nil), err)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidCredentials)
	}
}
