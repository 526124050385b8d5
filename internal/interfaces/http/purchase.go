package http

import (
	"net/http"

	"carteira/internal/domain/installment"
	"carteira/internal/domain/purchase"

	"github.com/shopspring/decimal"
)

type PurchaseHandler struct {
	purchaseService *purchase.Service
}

func NewPurchaseHandler(purchaseService *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// --- Request/Response types ---

type CreatePurchaseRequest struct {
	CardID           string          `json:"cardId"`
	Description      string          `json:"description"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	InstallmentCount int             `json:"installmentCount"`
	PurchaseDate     string          `json:"purchaseDate"`
	Kind             string          `json:"kind"`
	Category         string          `json:"category"`
}

type UpdatePurchaseRequest struct {
	Category string `json:"category"`
}

type PurchaseResponse struct {
	ID                string `json:"id"`
	CardID            string `json:"cardId,omitempty"`
	Description       string `json:"description"`
	TotalAmount       string `json:"totalAmount"`
	InstallmentCount  int    `json:"installmentCount"`
	InstallmentAmount string `json:"installmentAmount"`
	PurchaseDate      string `json:"purchaseDate"`
	Kind              string `json:"kind"`
	Category          string `json:"category"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

// --- Handlers ---

// HandlePurchases handles GET (list, optional ?cardId=) and POST (create) /api/purchases/
func (h *PurchaseHandler) HandlePurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		purchases, err := h.purchaseService.ListPurchases(r.Context(), purchase.ListFilter{
			UserID: userID,
			CardID: r.URL.Query().Get("cardId"),
		})
		if err != nil {
			writeDomainError(w, r, err, "Failed to list purchases")
			return
		}

		response := make([]PurchaseResponse, 0, len(purchases))
		for i := range purchases {
			response = append(response, toPurchaseResponse(&purchases[i]))
		}
		writeJSON(w, http.StatusOK, response)

	case http.MethodPost:
		h.handleCreatePurchase(w, r, userID)

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *PurchaseHandler) handleCreatePurchase(w http.ResponseWriter, r *http.Request, userID string) {
	var req CreatePurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "purchaseDate must be formatted as YYYY-MM-DD")
		return
	}

	kind := installment.Kind(req.Kind)
	if kind == "" {
		kind = installment.KindExpense
	}

	p, err := h.purchaseService.CreatePurchase(r.Context(), purchase.CreateParams{
		UserID:           userID,
		CardID:           req.CardID,
		Description:      req.Description,
		TotalAmount:      req.TotalAmount,
		InstallmentCount: req.InstallmentCount,
		PurchaseDate:     purchaseDate,
		Kind:             kind,
		Category:         req.Category,
	})
	if err != nil {
		writeDomainError(w, r, err, "Failed to create purchase")
		return
	}

	writeJSON(w, http.StatusCreated, toPurchaseResponse(p))
}

// HandlePurchaseByID handles GET, PATCH (category) and DELETE /api/purchases/{id}
func (h *PurchaseHandler) HandlePurchaseByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	purchaseID := r.PathValue("id")
	if purchaseID == "" {
		writeError(w, http.StatusBadRequest, "Purchase ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := h.purchaseService.GetPurchase(r.Context(), purchaseID, userID)
		if err != nil {
			writeDomainError(w, r, err, "Failed to get purchase")
			return
		}
		writeJSON(w, http.StatusOK, toPurchaseResponse(p))

	case http.MethodPatch:
		var req UpdatePurchaseRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := h.purchaseService.UpdateCategory(r.Context(), purchaseID, userID, req.Category)
		if err != nil {
			writeDomainError(w, r, err, "Failed to update purchase")
			return
		}
		writeJSON(w, http.StatusOK, toPurchaseResponse(p))

	case http.MethodDelete:
		if err := h.purchaseService.DeletePurchase(r.Context(), purchaseID, userID); err != nil {
			writeDomainError(w, r, err, "Failed to delete purchase")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func toPurchaseResponse(p *purchase.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:                p.ID,
		CardID:            p.CardID,
		Description:       p.Description,
		TotalAmount:       money(p.TotalAmount),
		InstallmentCount:  p.InstallmentCount,
		InstallmentAmount: money(p.InstallmentAmount),
		PurchaseDate:      formatDate(p.PurchaseDate),
		Kind:              string(p.Kind),
		Category:          p.Category,
		CreatedAt:         formatTimestamp(p.CreatedAt),
		UpdatedAt:         formatTimestamp(p.UpdatedAt),
	}
}
