package http

import (
	"net/http"
	"strconv"
	"time"

	"carteira/internal/domain/forecast"
)

type ProjectionHandler struct {
	forecastService *forecast.Service
	now             func() time.Time
}

func NewProjectionHandler(forecastService *forecast.Service) *ProjectionHandler {
	return &ProjectionHandler{forecastService: forecastService, now: time.Now}
}

type MonthSummaryResponse struct {
	Month        string                `json:"month"`
	Expenses     string                `json:"expenses"`
	Income       string                `json:"income"`
	Balance      string                `json:"balance"`
	Installments []InvoiceItemResponse `json:"installments"`
}

type ProjectionResponse struct {
	Start                 string                 `json:"start"`
	MonthsAhead           int                    `json:"monthsAhead"`
	ContractsMonthlyTotal string                 `json:"contractsMonthlyTotal"`
	Months                []MonthSummaryResponse `json:"months"`
}

// HandleProjection handles GET /api/projection?months=N&start=YYYY-MM
func (h *ProjectionHandler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	monthsAhead := forecast.DefaultMonthsAhead
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "months must be an integer")
			return
		}
		monthsAhead = n
	}

	start, err := parseMonthParam(r, "start", h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be formatted as YYYY-MM")
		return
	}

	projection, err := h.forecastService.Project(r.Context(), userID, monthsAhead, start)
	if err != nil {
		writeDomainError(w, r, err, "Failed to compute projection")
		return
	}

	writeJSON(w, http.StatusOK, toProjectionResponse(projection))
}

func toProjectionResponse(p *forecast.Projection) ProjectionResponse {
	resp := ProjectionResponse{
		Start:                 p.Start.String(),
		MonthsAhead:           p.MonthsAhead,
		ContractsMonthlyTotal: money(p.ContractsMonthlyTotal),
		Months:                make([]MonthSummaryResponse, 0, len(p.Months)),
	}

	for _, m := range p.Months {
		summary := MonthSummaryResponse{
			Month:        m.Month.String(),
			Expenses:     money(m.Expenses),
			Income:       money(m.Income),
			Balance:      money(m.Balance),
			Installments: make([]InvoiceItemResponse, 0, len(m.Installments)),
		}
		for _, item := range m.Installments {
			summary.Installments = append(summary.Installments, toLineItemResponse(item))
		}
		resp.Months = append(resp.Months, summary)
	}
	return resp
}
