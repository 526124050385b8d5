package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carteira/internal/domain/installment"
	"carteira/internal/domain/purchase"
)

type PurchaseRepository struct {
	db *DB
}

func NewPurchaseRepository(db *DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

const purchaseColumns = `id, user_id, card_id, description, total_amount, installment_count, installment_amount,
	purchase_date, kind, category, created_at, updated_at`

func scanPurchase(s scanner) (*purchase.Purchase, error) {
	var p purchase.Purchase
	var cardID sql.NullString
	var kind string

	err := s.Scan(
		&p.ID, &p.UserID, &cardID, &p.Description, &p.TotalAmount, &p.InstallmentCount, &p.InstallmentAmount,
		&p.PurchaseDate, &kind, &p.Category, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CardID = cardID.String
	p.Kind = installment.Kind(kind)
	return &p, nil
}

func (r *PurchaseRepository) Create(ctx context.Context, p purchase.Purchase) (*purchase.Purchase, error) {
	query := `
		INSERT INTO purchases (id, user_id, card_id, description, total_amount, installment_count, installment_amount,
		                       purchase_date, kind, category, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + purchaseColumns

	created, err := scanPurchase(r.db.QueryRowContext(ctx, query,
		p.ID, p.UserID, p.CardID, p.Description, p.TotalAmount, p.InstallmentCount, p.InstallmentAmount,
		p.PurchaseDate, string(p.Kind), p.Category, p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	return created, nil
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id string) (*purchase.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

	p, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, purchase.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return p, nil
}

func (r *PurchaseRepository) List(ctx context.Context, filter purchase.ListFilter) ([]purchase.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases
		WHERE user_id = $1 AND ($2 = '' OR card_id = $2)
		ORDER BY purchase_date ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, filter.UserID, filter.CardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	return scanPurchases(rows)
}

func (r *PurchaseRepository) ListByCardID(ctx context.Context, cardID string) ([]purchase.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases
		WHERE card_id = $1
		ORDER BY purchase_date ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list card purchases: %w", err)
	}
	defer rows.Close()

	return scanPurchases(rows)
}

func (r *PurchaseRepository) UpdateCategory(ctx context.Context, id, category string) (*purchase.Purchase, error) {
	query := `
		UPDATE purchases
		SET category = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + purchaseColumns

	p, err := scanPurchase(r.db.QueryRowContext(ctx, query, id, category))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, purchase.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase category: %w", err)
	}

	return p, nil
}

func (r *PurchaseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return purchase.ErrPurchaseNotFound
	}

	return nil
}

func scanPurchases(rows *sql.Rows) ([]purchase.Purchase, error) {
	purchases := []purchase.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	return purchases, nil
}
