package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carteira/internal/domain/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCreateContract(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"Open Ended", `{"description":"Aluguel","monthlyAmount":"1800","startDate":"2026-01-01"}`, http.StatusCreated},
		{"With End Date", `{"description":"Academia","monthlyAmount":"99.9","startDate":"2026-01-01","endDate":"2026-12-31"}`, http.StatusCreated},
		{"End Before Start", `{"description":"Academia","monthlyAmount":"99.9","startDate":"2026-06-01","endDate":"2026-01-31"}`, http.StatusBadRequest},
		{"Zero Amount", `{"description":"Aluguel","monthlyAmount":"0","startDate":"2026-01-01"}`, http.StatusBadRequest},
		{"Missing Start", `{"description":"Aluguel","monthlyAmount":"10"}`, http.StatusBadRequest},
		{"Bad End Date", `{"description":"Aluguel","monthlyAmount":"10","startDate":"2026-01-01","endDate":"soon"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewContractHandler(contract.NewService(&MockContractRepo{}))

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/contracts/", strings.NewReader(tt.body)), "user-1")
			rr := httptest.NewRecorder()
			handler.HandleContracts(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleCreateContract_Response(t *testing.T) {
	handler := NewContractHandler(contract.NewService(&MockContractRepo{}))

	body := `{"description":"Academia","monthlyAmount":"99.9","startDate":"2026-01-15","endDate":"2026-12-31"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/contracts/", strings.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.HandleContracts(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp ContractResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "99.90", resp.MonthlyAmount)
	assert.Equal(t, "2026-01-15", resp.StartDate)
	require.NotNil(t, resp.EndDate)
	assert.Equal(t, "2026-12-31", *resp.EndDate)
	assert.True(t, resp.Active)
}

func TestHandleDeleteContract(t *testing.T) {
	repo := &MockContractRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*contract.Contract, error) {
			switch id {
			case "c-1":
				return &contract.Contract{ID: id, UserID: "user-1"}, nil
			case "c-2":
				return &contract.Contract{ID: id, UserID: "user-2"}, nil
			default:
				return nil, contract.ErrContractNotFound
			}
		},
	}

	tests := []struct {
		name           string
		method         string
		contractID     string
		expectedStatus int
	}{
		{"Success", http.MethodDelete, "c-1", http.StatusNoContent},
		{"Forbidden", http.MethodDelete, "c-2", http.StatusForbidden},
		{"Not Found", http.MethodDelete, "c-9", http.StatusNotFound},
		{"Method Not Allowed", http.MethodGet, "c-1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewContractHandler(contract.NewService(repo))

			req := httptest.NewRequest(tt.method, "/api/contracts/"+tt.contractID, nil)
			req.SetPathValue("id", tt.contractID)
			req = withUser(req, "user-1")

			rr := httptest.NewRecorder()
			handler.HandleContractByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}
