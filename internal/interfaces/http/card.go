package http

import (
	"net/http"
	"time"

	"carteira/internal/domain/card"
	"carteira/internal/domain/installment"

	"github.com/shopspring/decimal"
)

type CardHandler struct {
	cardService *card.Service
	now         func() time.Time
}

func NewCardHandler(cardService *card.Service) *CardHandler {
	return &CardHandler{cardService: cardService, now: time.Now}
}

// --- Request/Response types ---

type CreateCardRequest struct {
	Name           string          `json:"name"`
	LastFourDigits string          `json:"lastFourDigits"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	ClosingDay     int             `json:"closingDay"`
	DueDay         int             `json:"dueDay"`
}

type UpdateCardRequest struct {
	Name        *string          `json:"name"`
	CreditLimit *decimal.Decimal `json:"creditLimit"`
	ClosingDay  *int             `json:"closingDay"`
	DueDay      *int             `json:"dueDay"`
	Active      *bool            `json:"active"`
}

type CardResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	LastFourDigits string `json:"lastFourDigits,omitempty"`
	CreditLimit    string `json:"creditLimit"`
	ClosingDay     int    `json:"closingDay"`
	DueDay         int    `json:"dueDay"`
	Active         bool   `json:"active"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type InvoiceItemResponse struct {
	PurchaseID         string `json:"purchaseId"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	PurchaseDate       string `json:"purchaseDate"`
	CurrentInstallment int    `json:"currentInstallment"`
	InstallmentCount   int    `json:"installmentCount"`
	Amount             string `json:"amount"`
	Date               string `json:"date"`
}

type InvoiceResponse struct {
	CardID     string                `json:"cardId"`
	CardName   string                `json:"cardName"`
	Month      string                `json:"month"`
	CycleStart string                `json:"cycleStart"`
	CycleEnd   string                `json:"cycleEnd"`
	DueDate    string                `json:"dueDate"`
	Total      string                `json:"total"`
	Items      []InvoiceItemResponse `json:"items"`
}

type LimitResponse struct {
	CreditLimit    string `json:"creditLimit"`
	UsedLimit      string `json:"usedLimit"`
	AvailableLimit string `json:"availableLimit"`
}

// --- Handlers ---

// HandleCards handles GET (list) and POST (create) /api/cards/
func (h *CardHandler) HandleCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListCards(w, r, userID)
	case http.MethodPost:
		h.handleCreateCard(w, r, userID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *CardHandler) handleListCards(w http.ResponseWriter, r *http.Request, userID string) {
	cards, err := h.cardService.ListCards(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, "Failed to list cards")
		return
	}

	response := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		response = append(response, toCardResponse(c))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *CardHandler) handleCreateCard(w http.ResponseWriter, r *http.Request, userID string) {
	var req CreateCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.cardService.CreateCard(r.Context(), card.CreateParams{
		UserID:         userID,
		Name:           req.Name,
		LastFourDigits: req.LastFourDigits,
		CreditLimit:    req.CreditLimit,
		ClosingDay:     req.ClosingDay,
		DueDay:         req.DueDay,
	})
	if err != nil {
		writeDomainError(w, r, err, "Failed to create card")
		return
	}

	writeJSON(w, http.StatusCreated, toCardResponse(c))
}

// HandleCardByID handles GET, PATCH and DELETE /api/cards/{id}
func (h *CardHandler) HandleCardByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	cardID := r.PathValue("id")
	if cardID == "" {
		writeError(w, http.StatusBadRequest, "Card ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.cardService.GetCard(r.Context(), cardID, userID)
		if err != nil {
			writeDomainError(w, r, err, "Failed to get card")
			return
		}
		writeJSON(w, http.StatusOK, toCardResponse(c))

	case http.MethodPatch:
		var req UpdateCardRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		c, err := h.cardService.UpdateCard(r.Context(), cardID, userID, card.UpdateParams{
			Name:        req.Name,
			CreditLimit: req.CreditLimit,
			ClosingDay:  req.ClosingDay,
			DueDay:      req.DueDay,
			Active:      req.Active,
		})
		if err != nil {
			writeDomainError(w, r, err, "Failed to update card")
			return
		}
		writeJSON(w, http.StatusOK, toCardResponse(c))

	case http.MethodDelete:
		if err := h.cardService.DeleteCard(r.Context(), cardID, userID); err != nil {
			writeDomainError(w, r, err, "Failed to delete card")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleInvoice handles GET /api/cards/{id}/invoice?month=YYYY-MM[&sort=amount]
func (h *CardHandler) HandleInvoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	month, err := parseMonthParam(r, "month", h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be formatted as YYYY-MM")
		return
	}

	sortBy := r.URL.Query().Get("sort")
	if sortBy != "" && sortBy != "amount" && sortBy != "date" {
		writeError(w, http.StatusBadRequest, "sort must be amount or date")
		return
	}

	view, err := h.cardService.Invoice(r.Context(), r.PathValue("id"), userID, month)
	if err != nil {
		writeDomainError(w, r, err, "Failed to compute invoice")
		return
	}

	items := view.Items
	if sortBy == "amount" {
		items = installment.SortByAmountDesc(items)
	}

	writeJSON(w, http.StatusOK, toInvoiceResponse(view, items))
}

// HandleLimit handles GET /api/cards/{id}/limit
func (h *CardHandler) HandleLimit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit, err := h.cardService.LimitSummary(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeDomainError(w, r, err, "Failed to compute limit")
		return
	}

	writeJSON(w, http.StatusOK, LimitResponse{
		CreditLimit:    money(limit.CreditLimit),
		UsedLimit:      money(limit.UsedLimit),
		AvailableLimit: money(limit.AvailableLimit),
	})
}

// --- Helpers ---

func toCardResponse(c *card.Card) CardResponse {
	return CardResponse{
		ID:             c.ID,
		Name:           c.Name,
		LastFourDigits: c.LastFourDigits,
		CreditLimit:    money(c.CreditLimit),
		ClosingDay:     c.ClosingDay,
		DueDay:         c.DueDay,
		Active:         c.Active,
		CreatedAt:      formatTimestamp(c.CreatedAt),
		UpdatedAt:      formatTimestamp(c.UpdatedAt),
	}
}

func toInvoiceResponse(view *card.InvoiceView, items []installment.LineItem) InvoiceResponse {
	resp := InvoiceResponse{
		CardID:     view.CardID,
		CardName:   view.CardName,
		Month:      view.Month.String(),
		CycleStart: formatDate(view.Cycle.Start),
		CycleEnd:   formatDate(view.Cycle.End),
		DueDate:    formatDate(view.DueDate),
		Total:      money(view.Total),
		Items:      make([]InvoiceItemResponse, 0, len(items)),
	}

	for _, item := range items {
		resp.Items = append(resp.Items, toLineItemResponse(item))
	}
	return resp
}

func toLineItemResponse(item installment.LineItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		PurchaseID:         item.Purchase.ID,
		Description:        item.Purchase.Description,
		Category:           item.Purchase.Category,
		PurchaseDate:       formatDate(item.Purchase.PurchaseDate),
		CurrentInstallment: item.CurrentInstallment,
		InstallmentCount:   item.Purchase.InstallmentCount,
		Amount:             money(item.Amount),
		Date:               formatDate(item.Date),
	}
}
