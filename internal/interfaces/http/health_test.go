package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(ctx context.Context) error {
	return p.err
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name           string
		handler        *HealthHandler
		expectedStatus int
	}{
		{"No Database", NewHealthHandler(nil), http.StatusOK},
		{"Database Up", NewHealthHandler(stubPinger{}), http.StatusOK},
		{"Database Down", NewHealthHandler(stubPinger{err: errors.New("connection refused")}), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler.HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}
