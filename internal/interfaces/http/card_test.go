package http

import (
	"context"
	"encoding/json"
	"errors"
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

func ownedCard(id, userID string) *card.Card {
	return &card.Card{
		ID:          id,
		UserID:      userID,
		Name:        "Nubank",
		CreditLimit: decimal.NewFromInt(5000),
		ClosingDay:  10,
		DueDay:      20,
		Active:      true,
	}
}

func TestHandleListCards(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		mockRepo       func() *MockCardRepo
		expectedStatus int
	}{
		{
			name:   "Success",
			userID: "user-1",
			mockRepo: func() *MockCardRepo {
				return &MockCardRepo{
					ListByUserIDFunc: func(ctx context.Context, userID string) ([]*card.Card, error) {
						return []*card.Card{ownedCard("card-1", userID)}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Service Error",
			userID: "user-1",
			mockRepo: func() *MockCardRepo {
				return &MockCardRepo{
					ListByUserIDFunc: func(ctx context.Context, userID string) ([]*card.Card, error) {
						return nil, errors.New("db error")
					},
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Unauthorized",
			mockRepo:       func() *MockCardRepo { return &MockCardRepo{} },
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCardHandler(newCardService(tt.mockRepo(), &MockPurchaseRepo{}))

			req := httptest.NewRequest(http.MethodGet, "/api/cards/", nil)
			if tt.userID != "" {
				req = withUser(req, tt.userID)
			}

			rr := httptest.NewRecorder()
			handler.HandleCards(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleCreateCard(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"name":"Nubank","lastFourDigits":"1234","creditLimit":"5000","closingDay":10,"dueDay":20}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Numeric Limit",
			body:           `{"name":"Inter","creditLimit":2500.50,"closingDay":31,"dueDay":5}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid Closing Day",
			body:           `{"name":"Nubank","creditLimit":"5000","closingDay":32,"dueDay":20}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Zero Limit",
			body:           `{"name":"Nubank","creditLimit":"0","closingDay":10,"dueDay":20}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad Last Four",
			body:           `{"name":"Nubank","lastFourDigits":"12a4","creditLimit":"100","closingDay":10,"dueDay":20}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCardHandler(newCardService(&MockCardRepo{}, &MockPurchaseRepo{}))

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/cards/", strings.NewReader(tt.body)), "user-1")
			rr := httptest.NewRecorder()
			handler.HandleCards(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleCreateCard_ResponseShape(t *testing.T) {
	handler := NewCardHandler(newCardService(&MockCardRepo{}, &MockPurchaseRepo{}))

	body := `{"name":"  Nubank  ","creditLimit":"1500.5","closingDay":10,"dueDay":20}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/cards/", strings.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.HandleCards(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp CardResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Nubank", resp.Name)
	assert.Equal(t, "1500.50", resp.CreditLimit)
	assert.True(t, resp.Active)
}

func TestHandleCardByID(t *testing.T) {
	repo := func() *MockCardRepo {
		return &MockCardRepo{
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
	}

	tests := []struct {
		name           string
		method         string
		cardID         string
		body           string
		expectedStatus int
	}{
		{"Get Success", http.MethodGet, "card-1", "", http.StatusOK},
		{"Get Forbidden", http.MethodGet, "card-2", "", http.StatusForbidden},
		{"Get Not Found", http.MethodGet, "card-9", "", http.StatusNotFound},
		{"Patch Success", http.MethodPatch, "card-1", `{"closingDay":5,"active":false}`, http.StatusOK},
		{"Patch Invalid Due Day", http.MethodPatch, "card-1", `{"dueDay":0}`, http.StatusBadRequest},
		{"Patch Forbidden", http.MethodPatch, "card-2", `{"name":"Mine"}`, http.StatusForbidden},
		{"Delete Success", http.MethodDelete, "card-1", "", http.StatusNoContent},
		{"Delete Not Found", http.MethodDelete, "card-9", "", http.StatusNotFound},
		{"Method Not Allowed", http.MethodPost, "card-1", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCardHandler(newCardService(repo(), &MockPurchaseRepo{}))

			req := httptest.NewRequest(tt.method, "/api/cards/"+tt.cardID, strings.NewReader(tt.body))
			req.SetPathValue("id", tt.cardID)
			req = withUser(req, "user-1")

			rr := httptest.NewRecorder()
			handler.HandleCardByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func invoiceFixture() (*MockCardRepo, *MockPurchaseRepo) {
	cards := &MockCardRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*card.Card, error) {
			return ownedCard(id, "user-1"), nil
		},
	}
	purchases := &MockPurchaseRepo{
		ListByCardIDFunc: func(ctx context.Context, cardID string) ([]purchase.Purchase, error) {
			return []purchase.Purchase{
				{
					ID:                "p-small",
					UserID:            "user-1",
					CardID:            cardID,
					Description:       "Livro",
					TotalAmount:       decimal.NewFromInt(60),
					InstallmentCount:  2,
					InstallmentAmount: decimal.NewFromInt(30),
					PurchaseDate:      time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
					Kind:              installment.KindExpense,
				},
				{
					ID:                "p-large",
					UserID:            "user-1",
					CardID:            cardID,
					Description:       "Geladeira",
					TotalAmount:       decimal.NewFromInt(1200),
					InstallmentCount:  10,
					InstallmentAmount: decimal.NewFromInt(120),
					PurchaseDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
					Kind:              installment.KindExpense,
				},
			}, nil
		},
	}
	return cards, purchases
}

func TestHandleInvoice(t *testing.T) {
	cards, purchases := invoiceFixture()
	handler := NewCardHandler(newCardService(cards, purchases))

	req := httptest.NewRequest(http.MethodGet, "/api/cards/card-1/invoice?month=2026-03&sort=amount", nil)
	req.SetPathValue("id", "card-1")
	req = withUser(req, "user-1")

	rr := httptest.NewRecorder()
	handler.HandleInvoice(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp InvoiceResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "2026-03", resp.Month)
	assert.Equal(t, "150.00", resp.Total)
	assert.Equal(t, "2026-02-11", resp.CycleStart)
	assert.Equal(t, "2026-03-10", resp.CycleEnd)
	assert.Equal(t, "2026-03-20", resp.DueDate)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "p-large", resp.Items[0].PurchaseID)
	assert.Equal(t, 1, resp.Items[0].CurrentInstallment)
	assert.Equal(t, "p-small", resp.Items[1].PurchaseID)
	assert.Equal(t, 2, resp.Items[1].CurrentInstallment)
	assert.Equal(t, "2026-03-15", resp.Items[1].Date)
}

func TestHandleInvoice_DefaultsToCurrentMonth(t *testing.T) {
	cards, purchases := invoiceFixture()
	handler := NewCardHandler(newCardService(cards, purchases))
	handler.now = func() time.Time { return time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC) }

	req := httptest.NewRequest(http.MethodGet, "/api/cards/card-1/invoice", nil)
	req.SetPathValue("id", "card-1")
	req = withUser(req, "user-1")

	rr := httptest.NewRecorder()
	handler.HandleInvoice(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp InvoiceResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "2026-04", resp.Month)
	assert.Equal(t, "120.00", resp.Total)
}

func TestHandleInvoice_BadRequests(t *testing.T) {
	cards, purchases := invoiceFixture()
	handler := NewCardHandler(newCardService(cards, purchases))

	for _, query := range []string{"?month=03-2026", "?month=2026-13", "?sort=name"} {
		t.Run(query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cards/card-1/invoice"+query, nil)
			req.SetPathValue("id", "card-1")
			req = withUser(req, "user-1")

			rr := httptest.NewRecorder()
			handler.HandleInvoice(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleLimit(t *testing.T) {
	cards := &MockCardRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*card.Card, error) {
			return ownedCard(id, "user-1"), nil
		},
	}
	handler := NewCardHandler(newCardService(cards, &MockPurchaseRepo{}))

	req := httptest.NewRequest(http.MethodGet, "/api/cards/card-1/limit", nil)
	req.SetPathValue("id", "card-1")
	req = withUser(req, "user-1")

	rr := httptest.NewRecorder()
	handler.HandleLimit(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp LimitResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "5000.00", resp.CreditLimit)
	assert.Equal(t, "0.00", resp.UsedLimit)
	assert.Equal(t, "5000.00", resp.AvailableLimit)
}
