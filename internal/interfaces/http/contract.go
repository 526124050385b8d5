package http

import (
	"net/http"
	"time"

	"carteira/internal/domain/contract"

	"github.com/shopspring/decimal"
)

type ContractHandler struct {
	contractService *contract.Service
}

func NewContractHandler(contractService *contract.Service) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

type CreateContractRequest struct {
	Description   string          `json:"description"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	Category      string          `json:"category"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
}

type ContractResponse struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	MonthlyAmount string  `json:"monthlyAmount"`
	Category      string  `json:"category"`
	StartDate     string  `json:"startDate"`
	EndDate       *string `json:"endDate"`
	Active        bool    `json:"active"`
	CreatedAt     string  `json:"createdAt"`
}

// HandleContracts handles GET (list) and POST (create) /api/contracts/
func (h *ContractHandler) HandleContracts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		contracts, err := h.contractService.ListContracts(r.Context(), userID)
		if err != nil {
			writeDomainError(w, r, err, "Failed to list contracts")
			return
		}

		response := make([]ContractResponse, 0, len(contracts))
		for i := range contracts {
			response = append(response, toContractResponse(&contracts[i]))
		}
		writeJSON(w, http.StatusOK, response)

	case http.MethodPost:
		var req CreateContractRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		startDate, err := parseDate(req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "startDate must be formatted as YYYY-MM-DD")
			return
		}

		var endDate *time.Time
		if req.EndDate != "" {
			parsed, err := parseDate(req.EndDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "endDate must be formatted as YYYY-MM-DD")
				return
			}
			endDate = &parsed
		}

		c, err := h.contractService.CreateContract(r.Context(), contract.CreateParams{
			UserID:        userID,
			Description:   req.Description,
			MonthlyAmount: req.MonthlyAmount,
			Category:      req.Category,
			StartDate:     startDate,
			EndDate:       endDate,
		})
		if err != nil {
			writeDomainError(w, r, err, "Failed to create contract")
			return
		}
		writeJSON(w, http.StatusCreated, toContractResponse(c))

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleContractByID handles DELETE /api/contracts/{id}
func (h *ContractHandler) HandleContractByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.contractService.DeleteContract(r.Context(), r.PathValue("id"), userID); err != nil {
		writeDomainError(w, r, err, "Failed to delete contract")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toContractResponse(c *contract.Contract) ContractResponse {
	var endDate *string
	if c.EndDate != nil {
		formatted := formatDate(*c.EndDate)
		endDate = &formatted
	}

	return ContractResponse{
		ID:            c.ID,
		Description:   c.Description,
		MonthlyAmount: money(c.MonthlyAmount),
		Category:      c.Category,
		StartDate:     formatDate(c.StartDate),
		EndDate:       endDate,
		Active:        c.Active,
		CreatedAt:     formatTimestamp(c.CreatedAt),
	}
}
