package notification

import (
	"context"
	"errors"
	"log/slog"
)

// Service contains the business logic for notification operations
type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates a new notification service. messenger may be nil when push
// delivery is not configured; notifications are then only stored.
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// RegisterDevice registers a device token for the authenticated user.
// If the token already belongs to another user, it is reassigned.
// Creates default notification preferences if none exist.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	token, err := s.repo.UpsertDeviceToken(ctx, params)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPreferences(ctx, params.UserID); err != nil {
		if _, err := s.repo.UpsertPreferences(ctx, params.UserID, UpdatePreferenceParams{}); err != nil {
			slog.Warn("failed to create default notification preferences", "user_id", params.UserID, "error", err)
		}
	}

	return token, nil
}

// GetPreferences returns the notification preferences for a user.
// Returns default (all-enabled) preferences if none have been created yet.
func (s *Service) GetPreferences(ctx context.Context, userID string) (*Preference, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrPreferencesNotFound) {
			slog.Warn("failed to load notification preferences, using defaults", "user_id", userID, "error", err)
		}
		return DefaultPreference(userID), nil
	}

	return prefs, nil
}

// UpdatePreferences updates notification preferences for a user
func (s *Service) UpdatePreferences(ctx context.Context, userID string, params UpdatePreferenceParams) (*Preference, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}

	return s.repo.UpsertPreferences(ctx, userID, params)
}

// ListNotifications returns paginated notifications for a user
func (s *Service) ListNotifications(ctx context.Context, userID string, page, perPage int) ([]*Notification, int, error) {
	if userID == "" {
		return nil, 0, ErrInvalidUser
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return s.repo.ListByUserID(ctx, userID, page, perPage)
}

// MarkNotificationOpened marks a notification as opened by the authenticated user
func (s *Service) MarkNotificationOpened(ctx context.Context, notificationID, userID string) error {
	if notificationID == "" {
		return errors.New("notification ID is required")
	}
	if userID == "" {
		return ErrInvalidUser
	}

	return s.repo.MarkOpened(ctx, notificationID, userID)
}

// SendToUser sends a push notification to a specific user.
// Respects notification preferences and creates a notification record.
// It reports whether the notification was delivered or stored.
func (s *Service) SendToUser(ctx context.Context, userID, title, body, category string, data map[string]string) (bool, error) {
	if !IsValidCategory(category) {
		return false, ErrInvalidCategory
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return false, err
	}

	if !prefs.IsCategoryEnabled(category) {
		slog.Debug("notification skipped, category disabled", "user_id", userID, "category", category)
		return false, nil
	}

	if data == nil {
		data = make(map[string]string)
	}
	if _, ok := data["route"]; !ok {
		data["route"] = category
	}

	if s.messenger != nil {
		tokens, err := s.repo.GetActiveTokensByUserID(ctx, userID)
		if err != nil {
			return false, err
		}

		if len(tokens) == 0 {
			slog.Debug("no active device tokens", "user_id", userID)
		} else {
			tokenStrings := make([]string, len(tokens))
			for i, t := range tokens {
				tokenStrings[i] = t.Token
			}

			if err := s.messenger.SendMulticast(ctx, tokenStrings, title, body, data); err != nil {
				slog.Error("failed to send notification", "user_id", userID, "error", err)
			}
		}
	}

	// the in-app inbox keeps the notification even when no device received it
	_, err = s.repo.CreateNotification(ctx, CreateNotificationParams{
		UserID:   userID,
		Title:    title,
		Message:  body,
		Category: category,
		Data:     data,
	})
	if err != nil {
		slog.Error("failed to store notification", "user_id", userID, "error", err)
		return false, nil
	}

	return true, nil
}
