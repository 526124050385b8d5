package installment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tells whether a purchase's installments leave or enter the wallet.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// IsValidKind checks if k is a known kind.
func IsValidKind(k Kind) bool {
	return k == KindExpense || k == KindIncome
}

// Purchase is a single acquisition (or standalone plan) split into monthly installments.
// InstallmentAmount is fixed at creation and is the source of truth for every installment;
// it is never recomputed from TotalAmount.
type Purchase struct {
	ID                string          `json:"id"`
	UserID            string          `json:"-"`
	CardID            string          `json:"cardId,omitempty"` // empty for standalone plans
	Description       string          `json:"description"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	InstallmentCount  int             `json:"installmentCount"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	PurchaseDate      time.Time       `json:"purchaseDate"`
	Kind              Kind            `json:"kind"`
	Category          string          `json:"category"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// IsIncome reports whether the purchase's installments count as income. Anything that
// is not explicitly income is an expense.
func (p Purchase) IsIncome() bool {
	return p.Kind == KindIncome
}

// LineItem is one installment of one purchase attributed to a month.
type LineItem struct {
	Purchase           Purchase        `json:"purchase"`
	CurrentInstallment int             `json:"currentInstallment"` // 1-based
	Amount             decimal.Decimal `json:"amount"`
	Date               time.Time       `json:"date"`
}

// Invoice is the derived statement of one card for one month. It is never persisted.
type Invoice struct {
	CardID string          `json:"cardId"`
	Month  Month           `json:"month"`
	Cycle  Cycle           `json:"cycle"`
	Items  []LineItem      `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

// MonthSummary is one entry of a multi-month projection.
type MonthSummary struct {
	Month        Month           `json:"month"`
	Expenses     decimal.Decimal `json:"expenses"`
	Income       decimal.Decimal `json:"income"`
	Balance      decimal.Decimal `json:"balance"`
	Installments []LineItem      `json:"installments"`
}
