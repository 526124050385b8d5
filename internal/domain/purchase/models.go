package purchase

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"carteira/internal/domain/installment"

	"github.com/shopspring/decimal"
)

// Purchase is the installment core's record; the purchase domain owns its lifecycle.
type Purchase = installment.Purchase

const (
	// MaxDescriptionLength is measured in runes.
	MaxDescriptionLength = 200
	// MaxInstallmentCount bounds plans to 35 years of monthly installments.
	MaxInstallmentCount = 420
)

// Domain errors
var (
	ErrPurchaseNotFound        = errors.New("purchase not found")
	ErrForbidden               = errors.New("access forbidden")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidAmount           = errors.New("total amount must be positive")
	ErrInvalidInstallmentCount = errors.New("invalid installment count")
	ErrInvalidKind             = errors.New("invalid purchase kind")
)

// CreateParams contains parameters for recording a card purchase or a standalone
// installment plan (CardID empty).
type CreateParams struct {
	UserID           string
	CardID           string
	Description      string
	TotalAmount      decimal.Decimal
	InstallmentCount int
	PurchaseDate     time.Time
	Kind             installment.Kind
	Category         string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(p.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, MaxDescriptionLength)
	}
	if !p.TotalAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.PurchaseDate.IsZero() {
		return fmt.Errorf("%w: purchase date is required", ErrInvalidInput)
	}
	if !installment.IsValidKind(p.Kind) {
		return ErrInvalidKind
	}

	minCount := 1
	if p.CardID == "" {
		// a standalone plan with a single payment is just a transaction
		minCount = 2
	} else if p.Kind != installment.KindExpense {
		return fmt.Errorf("%w: card purchases are always expenses", ErrInvalidKind)
	}
	if p.InstallmentCount < minCount || p.InstallmentCount > MaxInstallmentCount {
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidInstallmentCount, minCount, MaxInstallmentCount)
	}

	return nil
}

// InstallmentAmount splits total into count installments, rounded half away from zero
// to cents. The sum of the installments may differ from total by up to count cents.
func InstallmentAmount(total decimal.Decimal, count int) decimal.Decimal {
	return total.DivRound(decimal.NewFromInt(int64(count)), 2)
}

// ListFilter narrows a purchase listing. An empty CardID lists every purchase of the user.
type ListFilter struct {
	UserID string
	CardID string
}
