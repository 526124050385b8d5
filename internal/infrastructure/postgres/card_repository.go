package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carteira/internal/domain/card"
)

// scanner is satisfied by *Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

type CardRepository struct {
	db *DB
}

func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

const cardColumns = `id, user_id, name, last_four_digits, credit_limit, closing_day, due_day, active, created_at, updated_at`

func scanCard(s scanner) (*card.Card, error) {
	var c card.Card
	var lastFour sql.NullString

	err := s.Scan(
		&c.ID, &c.UserID, &c.Name, &lastFour, &c.CreditLimit,
		&c.ClosingDay, &c.DueDay, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.LastFourDigits = lastFour.String
	return &c, nil
}

func (r *CardRepository) Create(ctx context.Context, c card.Card) (*card.Card, error) {
	query := `
		INSERT INTO cards (id, user_id, name, last_four_digits, credit_limit, closing_day, due_day, active, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10)
		RETURNING ` + cardColumns

	created, err := scanCard(r.db.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Name, c.LastFourDigits, c.CreditLimit,
		c.ClosingDay, c.DueDay, c.Active, c.CreatedAt, c.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	return created, nil
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (*card.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	c, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, card.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return c, nil
}

func (r *CardRepository) ListByUserID(ctx context.Context, userID string) ([]*card.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1
		ORDER BY active DESC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []*card.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return cards, nil
}

func (r *CardRepository) Update(ctx context.Context, c card.Card) (*card.Card, error) {
	query := `
		UPDATE cards
		SET name = $2, credit_limit = $3, closing_day = $4, due_day = $5, active = $6, updated_at = $7
		WHERE id = $1
		RETURNING ` + cardColumns

	updated, err := scanCard(r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.CreditLimit, c.ClosingDay, c.DueDay, c.Active, c.UpdatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, card.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	return updated, nil
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return card.ErrCardNotFound
	}

	return nil
}

func (r *CardRepository) ListOwnersWithActiveCards(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM cards WHERE active ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list card owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan card owner: %w", err)
		}
		owners = append(owners, userID)
	}

	return owners, rows.Err()
}
