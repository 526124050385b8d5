package notification

import "context"

// Repository defines the interface for notification data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	// Device tokens
	UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error)
	GetActiveTokensByUserID(ctx context.Context, userID string) ([]*DeviceToken, error)
	DeactivateToken(ctx context.Context, token string) error

	// Notification preferences
	GetPreferences(ctx context.Context, userID string) (*Preference, error)
	UpsertPreferences(ctx context.Context, userID string, params UpdatePreferenceParams) (*Preference, error)

	// Notifications
	CreateNotification(ctx context.Context, params CreateNotificationParams) (*Notification, error)
	ListByUserID(ctx context.Context, userID string, page, perPage int) ([]*Notification, int, error)
	MarkOpened(ctx context.Context, notificationID string, userID string) error
}
