package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"carteira/internal/domain/notification"
)

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const (
	deviceTokenColumns  = `id, user_id, token, device_type, is_active, created_at, last_used`
	preferenceColumns   = `id, user_id, invoices_enabled, contracts_enabled, general_enabled, updated_at`
	notificationColumns = `id, user_id, title, message, category, data, opened_at, created_at`
)

func scanDeviceToken(s scanner) (*notification.DeviceToken, error) {
	var dt notification.DeviceToken
	if err := s.Scan(&dt.ID, &dt.UserID, &dt.Token, &dt.DeviceType, &dt.IsActive, &dt.CreatedAt, &dt.LastUsed); err != nil {
		return nil, err
	}
	return &dt, nil
}

func scanPreference(s scanner) (*notification.Preference, error) {
	var pref notification.Preference
	err := s.Scan(
		&pref.ID, &pref.UserID, &pref.InvoicesEnabled, &pref.ContractsEnabled,
		&pref.GeneralEnabled, &pref.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func scanNotification(s scanner) (*notification.Notification, error) {
	var n notification.Notification
	var dataBytes []byte
	var openedAt sql.NullTime

	if err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Category, &dataBytes, &openedAt, &n.CreatedAt); err != nil {
		return nil, err
	}

	if openedAt.Valid {
		n.OpenedAt = &openedAt.Time
	}

	if len(dataBytes) > 0 {
		if err := json.Unmarshal(dataBytes, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}

	return &n, nil
}

// UpsertDeviceToken registers or refreshes a device token. A token already
// registered to another user is moved to the caller.
func (r *NotificationRepository) UpsertDeviceToken(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	query := `
		INSERT INTO fcm_device_tokens (user_id, token, device_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE
			SET user_id = EXCLUDED.user_id,
			    device_type = EXCLUDED.device_type,
			    is_active = true,
			    last_used = NOW()
		RETURNING ` + deviceTokenColumns

	dt, err := scanDeviceToken(r.db.QueryRowContext(ctx, query, params.UserID, params.Token, params.DeviceType))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device token: %w", err)
	}

	return dt, nil
}

func (r *NotificationRepository) GetActiveTokensByUserID(ctx context.Context, userID string) ([]*notification.DeviceToken, error) {
	query := `
		SELECT ` + deviceTokenColumns + `
		FROM fcm_device_tokens
		WHERE user_id = $1 AND is_active = true
		ORDER BY last_used DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*notification.DeviceToken
	for rows.Next() {
		dt, err := scanDeviceToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, dt)
	}

	return tokens, rows.Err()
}

func (r *NotificationRepository) DeactivateToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE fcm_device_tokens SET is_active = false WHERE token = $1`,
		token,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate token: %w", err)
	}
	return nil
}

// GetPreferences returns notification preferences for a user.
// Returns notification.ErrPreferencesNotFound if no preferences exist.
func (r *NotificationRepository) GetPreferences(ctx context.Context, userID string) (*notification.Preference, error) {
	query := `SELECT ` + preferenceColumns + ` FROM notification_preferences WHERE user_id = $1`

	pref, err := scanPreference(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notification.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}

	return pref, nil
}

// UpsertPreferences applies the non-nil toggles in params; categories never set
// default to enabled.
func (r *NotificationRepository) UpsertPreferences(ctx context.Context, userID string, params notification.UpdatePreferenceParams) (*notification.Preference, error) {
	query := `
		INSERT INTO notification_preferences (user_id, invoices_enabled, contracts_enabled, general_enabled)
		VALUES (
			$1,
			COALESCE($2::boolean, true),
			COALESCE($3::boolean, true),
			COALESCE($4::boolean, true)
		)
		ON CONFLICT (user_id) DO UPDATE
			SET invoices_enabled = COALESCE($2::boolean, notification_preferences.invoices_enabled),
			    contracts_enabled = COALESCE($3::boolean, notification_preferences.contracts_enabled),
			    general_enabled = COALESCE($4::boolean, notification_preferences.general_enabled),
			    updated_at = NOW()
		RETURNING ` + preferenceColumns

	pref, err := scanPreference(r.db.QueryRowContext(ctx, query, userID,
		nullableBool(params.InvoicesEnabled),
		nullableBool(params.ContractsEnabled),
		nullableBool(params.GeneralEnabled),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert notification preferences: %w", err)
	}

	return pref, nil
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, params notification.CreateNotificationParams) (*notification.Notification, error) {
	data := params.Data
	if data == nil {
		data = map[string]string{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (user_id, title, message, category, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + notificationColumns

	n, err := scanNotification(r.db.QueryRowContext(ctx, query,
		params.UserID, params.Title, params.Message, params.Category, dataJSON,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

func (r *NotificationRepository) ListByUserID(ctx context.Context, userID string, page, perPage int) ([]*notification.Notification, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	offset := (page - 1) * perPage
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*notification.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, total, nil
}

func (r *NotificationRepository) MarkOpened(ctx context.Context, notificationID string, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications
		SET opened_at = COALESCE(opened_at, NOW())
		WHERE id::text = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as opened: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}

	return nil
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
