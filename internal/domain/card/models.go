package card

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"carteira/internal/domain/installment"

	"github.com/shopspring/decimal"
)

const maxNameLength = 60

// Domain errors
var (
	ErrCardNotFound      = errors.New("card not found")
	ErrForbidden         = errors.New("access forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidClosingDay = errors.New("closing day must be between 1 and 31")
	ErrInvalidDueDay     = errors.New("due day must be between 1 and 31")
	ErrInvalidLimit      = errors.New("credit limit must be positive")
	ErrInvalidLastFour   = errors.New("last four digits must be exactly 4 digits")
)

// Card is a credit card whose statements are derived from its purchases.
// Closing and due days beyond a month's length clamp to the month's last day.
type Card struct {
	ID             string          `json:"id"`
	UserID         string          `json:"-"`
	Name           string          `json:"name"`
	LastFourDigits string          `json:"lastFourDigits,omitempty"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	ClosingDay     int             `json:"closingDay"`
	DueDay         int             `json:"dueDay"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// InvoiceView is an invoice together with the card's due date for it.
type InvoiceView struct {
	installment.Invoice
	CardName string    `json:"cardName"`
	DueDate  time.Time `json:"dueDate"`
}

// Limit summarizes how much of a card's credit is committed to future installments.
type Limit struct {
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	UsedLimit      decimal.Decimal `json:"usedLimit"`
	AvailableLimit decimal.Decimal `json:"availableLimit"`
}

// CreateParams contains parameters for creating a new card
type CreateParams struct {
	UserID         string
	Name           string
	LastFourDigits string
	CreditLimit    decimal.Decimal
	ClosingDay     int
	DueDay         int
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}
	if err := validateName(p.Name); err != nil {
		return err
	}
	if err := validateLastFour(p.LastFourDigits); err != nil {
		return err
	}
	if !p.CreditLimit.IsPositive() {
		return ErrInvalidLimit
	}
	if !isValidDay(p.ClosingDay) {
		return ErrInvalidClosingDay
	}
	if !isValidDay(p.DueDay) {
		return ErrInvalidDueDay
	}
	return nil
}

// UpdateParams contains parameters for updating a card; nil fields are left unchanged.
type UpdateParams struct {
	Name        *string
	CreditLimit *decimal.Decimal
	ClosingDay  *int
	DueDay      *int
	Active      *bool
}

// Validate validates the fields being changed
func (p UpdateParams) Validate() error {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}
	if p.CreditLimit != nil && !p.CreditLimit.IsPositive() {
		return ErrInvalidLimit
	}
	if p.ClosingDay != nil && !isValidDay(*p.ClosingDay) {
		return ErrInvalidClosingDay
	}
	if p.DueDay != nil && !isValidDay(*p.DueDay) {
		return ErrInvalidDueDay
	}
	return nil
}

// Apply copies the set fields onto c.
func (p UpdateParams) Apply(c *Card) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.CreditLimit != nil {
		c.CreditLimit = *p.CreditLimit
	}
	if p.ClosingDay != nil {
		c.ClosingDay = *p.ClosingDay
	}
	if p.DueDay != nil {
		c.DueDay = *p.DueDay
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: card name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf("%w: card name exceeds %d characters", ErrInvalidInput, maxNameLength)
	}
	return nil
}

func validateLastFour(s string) error {
	if s == "" {
		return nil
	}
	if len(s) != 4 {
		return ErrInvalidLastFour
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ErrInvalidLastFour
		}
	}
	return nil
}

func isValidDay(d int) bool {
	return d >= 1 && d <= 31
}
