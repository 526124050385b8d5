package contract

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"carteira/internal/domain/installment"

	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 200

// Domain errors
var (
	ErrContractNotFound = errors.New("contract not found")
	ErrForbidden        = errors.New("access forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidAmount    = errors.New("monthly amount must be positive")
	ErrInvalidPeriod    = errors.New("end date must not be before start date")
)

// Contract is a recurring monthly expense such as rent, a subscription or insurance.
type Contract struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
	Description   string          `json:"description"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	Category      string          `json:"category"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ActiveIn reports whether the contract is charged in month: it is active, started
// in or before month, and has not ended before month.
func (c Contract) ActiveIn(month installment.Month) bool {
	if !c.Active {
		return false
	}
	if month.Before(installment.MonthOf(c.StartDate)) {
		return false
	}
	if c.EndDate != nil && installment.MonthOf(*c.EndDate).Before(month) {
		return false
	}
	return true
}

// MonthlyTotal sums the monthly amounts of the contracts charged in month.
func MonthlyTotal(contracts []Contract, month installment.Month) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contracts {
		if c.ActiveIn(month) {
			total = total.Add(c.MonthlyAmount)
		}
	}
	return total
}

// CreateParams contains parameters for creating a new contract
type CreateParams struct {
	UserID        string
	Description   string
	MonthlyAmount decimal.Decimal
	Category      string
	StartDate     time.Time
	EndDate       *time.Time
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, maxDescriptionLength)
	}
	if !p.MonthlyAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return ErrInvalidPeriod
	}
	return nil
}
