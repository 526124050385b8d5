package purchase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"carteira/internal/domain/installment"

	"github.com/shopspring/decimal"
)

func TestCreateParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *CreateParams)
		wantErr error
	}{
		{"valid card purchase", func(p *CreateParams) {}, nil},
		{"single installment on card", func(p *CreateParams) { p.InstallmentCount = 1 }, nil},
		{"missing user", func(p *CreateParams) { p.UserID = "" }, ErrInvalidInput},
		{"blank description", func(p *CreateParams) { p.Description = "   " }, ErrInvalidInput},
		{"description of 200 runes", func(p *CreateParams) { p.Description = strings.Repeat("ç", 200) }, nil},
		{"description too long", func(p *CreateParams) { p.Description = strings.Repeat("a", 201) }, ErrInvalidInput},
		{"negative amount", func(p *CreateParams) { p.TotalAmount = decimal.RequireFromString("-1") }, ErrInvalidAmount},
		{"missing date", func(p *CreateParams) { p.PurchaseDate = time.Time{} }, ErrInvalidInput},
		{"unknown kind", func(p *CreateParams) { p.Kind = "transfer" }, ErrInvalidKind},
		{"too many installments", func(p *CreateParams) { p.InstallmentCount = MaxInstallmentCount + 1 }, ErrInvalidInstallmentCount},
		{"standalone needs two installments", func(p *CreateParams) { p.CardID = ""; p.InstallmentCount = 1 }, ErrInvalidInstallmentCount},
		{"standalone income", func(p *CreateParams) { p.CardID = ""; p.Kind = installment.KindIncome }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			p.Kind = installment.KindExpense
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInstallmentAmount(t *testing.T) {
	tests := []struct {
		total string
		count int
		want  string
	}{
		{"1200.00", 12, "100.00"},
		{"100.00", 3, "33.33"},
		{"200.00", 3, "66.67"},
		{"0.05", 2, "0.03"},
		{"99.99", 1, "99.99"},
	}

	for _, tt := range tests {
		got := InstallmentAmount(decimal.RequireFromString(tt.total), tt.count)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("InstallmentAmount(%s, %d) = %s, want %s", tt.total, tt.count, got, tt.want)
		}
	}
}
