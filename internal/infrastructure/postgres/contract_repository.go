package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carteira/internal/domain/contract"
)

type ContractRepository struct {
	db *DB
}

func NewContractRepository(db *DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractColumns = `id, user_id, description, monthly_amount, category, start_date, end_date, active, created_at, updated_at`

func scanContract(s scanner) (*contract.Contract, error) {
	var c contract.Contract
	var endDate sql.NullTime

	err := s.Scan(
		&c.ID, &c.UserID, &c.Description, &c.MonthlyAmount, &c.Category,
		&c.StartDate, &endDate, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endDate.Valid {
		c.EndDate = &endDate.Time
	}
	return &c, nil
}

func (r *ContractRepository) Create(ctx context.Context, c contract.Contract) (*contract.Contract, error) {
	query := `
		INSERT INTO contracts (id, user_id, description, monthly_amount, category, start_date, end_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + contractColumns

	var endDate sql.NullTime
	if c.EndDate != nil {
		endDate = sql.NullTime{Time: *c.EndDate, Valid: true}
	}

	created, err := scanContract(r.db.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Description, c.MonthlyAmount, c.Category,
		c.StartDate, endDate, c.Active, c.CreatedAt, c.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	return created, nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id string) (*contract.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`

	c, err := scanContract(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contract.ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	return c, nil
}

func (r *ContractRepository) ListByUserID(ctx context.Context, userID string) ([]contract.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE user_id = $1
		ORDER BY start_date ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	contracts := []contract.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contracts: %w", err)
	}

	return contracts, nil
}

func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return contract.ErrContractNotFound
	}

	return nil
}
