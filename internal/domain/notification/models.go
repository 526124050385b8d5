package notification

import (
	"errors"
	"time"
)

// Notification categories
const (
	CategoryInvoices  = "invoices"
	CategoryContracts = "contracts"
	CategoryGeneral   = "general"
)

var validCategories = map[string]struct{}{
	CategoryInvoices:  {},
	CategoryContracts: {},
	CategoryGeneral:   {},
}

var validDeviceTypes = map[string]struct{}{
	"ios":     {},
	"android": {},
	"web":     {},
}

// Domain errors
var (
	ErrDeviceTokenNotFound  = errors.New("device token not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPreferencesNotFound  = errors.New("notification preferences not found")
	ErrInvalidCategory      = errors.New("invalid notification category")
	ErrInvalidDeviceType    = errors.New("device type must be 'ios', 'android' or 'web'")
	ErrInvalidToken         = errors.New("device token is required")
	ErrInvalidUser          = errors.New("user ID is required")
	ErrForbidden            = errors.New("access forbidden")
)

// DeviceToken represents a registered FCM device token
type DeviceToken struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Token      string    `json:"token"`
	DeviceType string    `json:"deviceType"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsed   time.Time `json:"lastUsed"`
}

// Preference stores per-category notification toggles for a user
type Preference struct {
	ID               string    `json:"id"`
	UserID           string    `json:"-"`
	InvoicesEnabled  bool      `json:"invoices_enabled"`
	ContractsEnabled bool      `json:"contracts_enabled"`
	GeneralEnabled   bool      `json:"general_enabled"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DefaultPreference enables every category.
func DefaultPreference(userID string) *Preference {
	return &Preference{
		UserID:           userID,
		InvoicesEnabled:  true,
		ContractsEnabled: true,
		GeneralEnabled:   true,
	}
}

// Notification represents a stored notification record
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"-"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	Data      map[string]string `json:"data"`
	OpenedAt  *time.Time        `json:"opened_at"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateDeviceTokenParams contains parameters for registering a device
type CreateDeviceTokenParams struct {
	UserID     string
	Token      string
	DeviceType string
}

func (p CreateDeviceTokenParams) Validate() error {
	if p.UserID == "" {
		return ErrInvalidUser
	}
	if p.Token == "" {
		return ErrInvalidToken
	}
	if !IsValidDeviceType(p.DeviceType) {
		return ErrInvalidDeviceType
	}
	return nil
}

// UpdatePreferenceParams contains fields for updating notification preferences
type UpdatePreferenceParams struct {
	InvoicesEnabled  *bool
	ContractsEnabled *bool
	GeneralEnabled   *bool
}

// CreateNotificationParams contains parameters for storing a notification
type CreateNotificationParams struct {
	UserID   string
	Title    string
	Message  string
	Category string
	Data     map[string]string
}

func (p CreateNotificationParams) Validate() error {
	if p.UserID == "" {
		return ErrInvalidUser
	}
	if p.Title == "" {
		return errors.New("notification title is required")
	}
	if p.Message == "" {
		return errors.New("notification message is required")
	}
	if !IsValidCategory(p.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func IsValidCategory(c string) bool {
	_, ok := validCategories[c]
	return ok
}

func IsValidDeviceType(dt string) bool {
	_, ok := validDeviceTypes[dt]
	return ok
}

// IsCategoryEnabled checks if a specific category is enabled in preferences
func (p *Preference) IsCategoryEnabled(category string) bool {
	switch category {
	case CategoryInvoices:
		return p.InvoicesEnabled
	case CategoryContracts:
		return p.ContractsEnabled
	case CategoryGeneral:
		return p.GeneralEnabled
	default:
		return false
	}
}
