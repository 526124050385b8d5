package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carteira/internal/domain/card"
	"carteira/internal/domain/installment"
	"carteira/internal/domain/purchase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	cardIDs []string
}

func (r *recordingInvalidator) Invalidate(cardID string) {
	r.cardIDs = append(r.cardIDs, cardID)
}

func newPurchaseHandler(purchases *MockPurchaseRepo, cache purchase.Invalidator) *PurchaseHandler {
	cards := &MockCardRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*card.Card, error) {
			switch id {
			case "card-1":
				return ownedCard(id, "user-1"), nil
			case "card-2":
				return ownedCard(id, "user-2"), nil
			default:
				return nil, card.ErrCardNotFound
			}
		},
	}
	return NewPurchaseHandler(purchase.NewService(purchases, newCardService(cards, purchases), cache))
}

func TestHandleCreatePurchase(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "Card Purchase",
			body:           `{"cardId":"card-1","description":"TV","totalAmount":"1000","installmentCount":3,"purchaseDate":"2026-01-31"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Standalone Income Plan",
			body:           `{"description":"Freela","totalAmount":"900","installmentCount":3,"purchaseDate":"2026-01-10","kind":"income"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Standalone Single Payment",
			body:           `{"description":"Avulso","totalAmount":"100","installmentCount":1,"purchaseDate":"2026-01-10"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Card Income",
			body:           `{"cardId":"card-1","description":"Estorno","totalAmount":"100","installmentCount":1,"purchaseDate":"2026-01-10","kind":"income"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Too Many Installments",
			body:           `{"cardId":"card-1","description":"Casa","totalAmount":"100","installmentCount":421,"purchaseDate":"2026-01-10"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Negative Amount",
			body:           `{"cardId":"card-1","description":"TV","totalAmount":"-5","installmentCount":1,"purchaseDate":"2026-01-10"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad Date",
			body:           `{"cardId":"card-1","description":"TV","totalAmount":"5","installmentCount":1,"purchaseDate":"10/01/2026"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Foreign Card",
			body:           `{"cardId":"card-2","description":"TV","totalAmount":"5","installmentCount":1,"purchaseDate":"2026-01-10"}`,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Unknown Card",
			body:           `{"cardId":"card-9","description":"TV","totalAmount":"5","installmentCount":1,"purchaseDate":"2026-01-10"}`,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newPurchaseHandler(&MockPurchaseRepo{}, nil)

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/purchases/", strings.NewReader(tt.body)), "user-1")
			rr := httptest.NewRecorder()
			handler.HandlePurchases(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleCreatePurchase_InstallmentAmountAndInvalidation(t *testing.T) {
	cache := &recordingInvalidator{}
	handler := newPurchaseHandler(&MockPurchaseRepo{}, cache)

	body := `{"cardId":"card-1","description":"TV","totalAmount":"100","installmentCount":3,"purchaseDate":"2026-01-31","category":" casa "}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/purchases/", strings.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.HandlePurchases(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp PurchaseResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "100.00", resp.TotalAmount)
	assert.Equal(t, "33.33", resp.InstallmentAmount)
	assert.Equal(t, "2026-01-31", resp.PurchaseDate)
	assert.Equal(t, "expense", resp.Kind)
	assert.Equal(t, "casa", resp.Category)
	assert.Equal(t, []string{"card-1"}, cache.cardIDs)
}

func TestHandleListPurchases_CardFilter(t *testing.T) {
	var gotFilter purchase.ListFilter
	purchases := &MockPurchaseRepo{
		ListFunc: func(ctx context.Context, filter purchase.ListFilter) ([]purchase.Purchase, error) {
			gotFilter = filter
			return []purchase.Purchase{{
				ID:                "p-1",
				UserID:            filter.UserID,
				CardID:            filter.CardID,
				Description:       "TV",
				TotalAmount:       decimal.NewFromInt(300),
				InstallmentCount:  3,
				InstallmentAmount: decimal.NewFromInt(100),
				PurchaseDate:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
				Kind:              installment.KindExpense,
			}}, nil
		},
	}
	handler := newPurchaseHandler(purchases, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/purchases/?cardId=card-1", nil), "user-1")
	rr := httptest.NewRecorder()
	handler.HandlePurchases(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, purchase.ListFilter{UserID: "user-1", CardID: "card-1"}, gotFilter)

	var resp []PurchaseResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "100.00", resp[0].InstallmentAmount)
}

func TestHandleListPurchases_ForeignCard(t *testing.T) {
	handler := newPurchaseHandler(&MockPurchaseRepo{}, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/purchases/?cardId=card-2", nil), "user-1")
	rr := httptest.NewRecorder()
	handler.HandlePurchases(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusForbidden)
	}
}

func TestHandlePurchaseByID(t *testing.T) {
	stored := func(id string) *purchase.Purchase {
		owner := "user-1"
		if id == "p-2" {
			owner = "user-2"
		}
		return &purchase.Purchase{
			ID:                id,
			UserID:            owner,
			CardID:            "card-1",
			Description:       "TV",
			TotalAmount:       decimal.NewFromInt(300),
			InstallmentCount:  3,
			InstallmentAmount: decimal.NewFromInt(100),
			PurchaseDate:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Kind:              installment.KindExpense,
		}
	}
	repo := func() *MockPurchaseRepo {
		return &MockPurchaseRepo{
			GetByIDFunc: func(ctx context.Context, id string) (*purchase.Purchase, error) {
				if id == "p-9" {
					return nil, purchase.ErrPurchaseNotFound
				}
				return stored(id), nil
			},
			UpdateCategoryFunc: func(ctx context.Context, id, category string) (*purchase.Purchase, error) {
				p := stored(id)
				p.Category = category
				return p, nil
			},
		}
	}

	tests := []struct {
		name           string
		method         string
		purchaseID     string
		body           string
		expectedStatus int
	}{
		{"Get Success", http.MethodGet, "p-1", "", http.StatusOK},
		{"Get Forbidden", http.MethodGet, "p-2", "", http.StatusForbidden},
		{"Get Not Found", http.MethodGet, "p-9", "", http.StatusNotFound},
		{"Patch Category", http.MethodPatch, "p-1", `{"category":"lazer"}`, http.StatusOK},
		{"Patch Bad Body", http.MethodPatch, "p-1", `[`, http.StatusBadRequest},
		{"Delete Success", http.MethodDelete, "p-1", "", http.StatusNoContent},
		{"Delete Forbidden", http.MethodDelete, "p-2", "", http.StatusForbidden},
		{"Method Not Allowed", http.MethodPut, "p-1", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newPurchaseHandler(repo(), nil)

			req := httptest.NewRequest(tt.method, "/api/purchases/"+tt.purchaseID, strings.NewReader(tt.body))
			req.SetPathValue("id", tt.purchaseID)
			req = withUser(req, "user-1")

			rr := httptest.NewRecorder()
			handler.HandlePurchaseByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}
