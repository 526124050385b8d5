package http

import (
	"context"
	"net/http"

	"carteira/internal/domain/card"
	"carteira/internal/domain/contract"
	"carteira/internal/domain/installment"
	"carteira/internal/domain/notification"
	"carteira/internal/domain/purchase"
	"carteira/internal/shared/middleware"
)

// MockCardRepo implements card.Repository for testing
type MockCardRepo struct {
	CreateFunc                    func(ctx context.Context, c card.Card) (*card.Card, error)
	GetByIDFunc                   func(ctx context.Context, id string) (*card.Card, error)
	ListByUserIDFunc              func(ctx context.Context, userID string) ([]*card.Card, error)
	UpdateFunc                    func(ctx context.Context, c card.Card) (*card.Card, error)
	DeleteFunc                    func(ctx context.Context, id string) error
	ListOwnersWithActiveCardsFunc func(ctx context.Context) ([]string, error)
}

func (m *MockCardRepo) Create(ctx context.Context, c card.Card) (*card.Card, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return &c, nil
}

func (m *MockCardRepo) GetByID(ctx context.Context, id string) (*card.Card, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, card.ErrCardNotFound
}

func (m *MockCardRepo) ListByUserID(ctx context.Context, userID string) ([]*card.Card, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCardRepo) Update(ctx context.Context, c card.Card) (*card.Card, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return &c, nil
}

func (m *MockCardRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCardRepo) ListOwnersWithActiveCards(ctx context.Context) ([]string, error) {
	if m.ListOwnersWithActiveCardsFunc != nil {
		return m.ListOwnersWithActiveCardsFunc(ctx)
	}
	return nil, nil
}

// MockPurchaseRepo implements purchase.Repository for testing
type MockPurchaseRepo struct {
	CreateFunc         func(ctx context.Context, p purchase.Purchase) (*purchase.Purchase, error)
	GetByIDFunc        func(ctx context.Context, id string) (*purchase.Purchase, error)
	ListFunc           func(ctx context.Context, filter purchase.ListFilter) ([]purchase.Purchase, error)
	ListByCardIDFunc   func(ctx context.Context, cardID string) ([]purchase.Purchase, error)
	UpdateCategoryFunc func(ctx context.Context, id, category string) (*purchase.Purchase, error)
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *MockPurchaseRepo) Create(ctx context.Context, p purchase.Purchase) (*purchase.Purchase, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return &p, nil
}

func (m *MockPurchaseRepo) GetByID(ctx context.Context, id string) (*purchase.Purchase, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, purchase.ErrPurchaseNotFound
}

func (m *MockPurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) ([]purchase.Purchase, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []purchase.Purchase{}, nil
}

func (m *MockPurchaseRepo) ListByCardID(ctx context.Context, cardID string) ([]purchase.Purchase, error) {
	if m.ListByCardIDFunc != nil {
		return m.ListByCardIDFunc(ctx, cardID)
	}
	return []purchase.Purchase{}, nil
}

func (m *MockPurchaseRepo) UpdateCategory(ctx context.Context, id, category string) (*purchase.Purchase, error) {
	if m.UpdateCategoryFunc != nil {
		return m.UpdateCategoryFunc(ctx, id, category)
	}
	return nil, nil
}

func (m *MockPurchaseRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockContractRepo implements contract.Repository for testing
type MockContractRepo struct {
	CreateFunc       func(ctx context.Context, c contract.Contract) (*contract.Contract, error)
	GetByIDFunc      func(ctx context.Context, id string) (*contract.Contract, error)
	ListByUserIDFunc func(ctx context.Context, userID string) ([]contract.Contract, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockContractRepo) Create(ctx context.Context, c contract.Contract) (*contract.Contract, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return &c, nil
}

func (m *MockContractRepo) GetByID(ctx context.Context, id string) (*contract.Contract, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, contract.ErrContractNotFound
}

func (m *MockContractRepo) ListByUserID(ctx context.Context, userID string) ([]contract.Contract, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return []contract.Contract{}, nil
}

func (m *MockContractRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockNotificationRepo implements notification.Repository for testing
type MockNotificationRepo struct {
	UpsertDeviceTokenFunc       func(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error)
	GetActiveTokensByUserIDFunc func(ctx context.Context, userID string) ([]*notification.DeviceToken, error)
	DeactivateTokenFunc         func(ctx context.Context, token string) error
	GetPreferencesFunc          func(ctx context.Context, userID string) (*notification.Preference, error)
	UpsertPreferencesFunc       func(ctx context.Context, userID string, params notification.UpdatePreferenceParams) (*notification.Preference, error)
	CreateNotificationFunc      func(ctx context.Context, params notification.CreateNotificationParams) (*notification.Notification, error)
	ListByUserIDFunc            func(ctx context.Context, userID string, page, perPage int) ([]*notification.Notification, int, error)
	MarkOpenedFunc              func(ctx context.Context, notificationID, userID string) error
}

func (m *MockNotificationRepo) UpsertDeviceToken(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	if m.UpsertDeviceTokenFunc != nil {
		return m.UpsertDeviceTokenFunc(ctx, params)
	}
	return &notification.DeviceToken{UserID: params.UserID, Token: params.Token, DeviceType: params.DeviceType, IsActive: true}, nil
}

func (m *MockNotificationRepo) GetActiveTokensByUserID(ctx context.Context, userID string) ([]*notification.DeviceToken, error) {
	if m.GetActiveTokensByUserIDFunc != nil {
		return m.GetActiveTokensByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockNotificationRepo) DeactivateToken(ctx context.Context, token string) error {
	if m.DeactivateTokenFunc != nil {
		return m.DeactivateTokenFunc(ctx, token)
	}
	return nil
}

func (m *MockNotificationRepo) GetPreferences(ctx context.Context, userID string) (*notification.Preference, error) {
	if m.GetPreferencesFunc != nil {
		return m.GetPreferencesFunc(ctx, userID)
	}
	return nil, notification.ErrPreferencesNotFound
}

func (m *MockNotificationRepo) UpsertPreferences(ctx context.Context, userID string, params notification.UpdatePreferenceParams) (*notification.Preference, error) {
	if m.UpsertPreferencesFunc != nil {
		return m.UpsertPreferencesFunc(ctx, userID, params)
	}
	return notification.DefaultPreference(userID), nil
}

func (m *MockNotificationRepo) CreateNotification(ctx context.Context, params notification.CreateNotificationParams) (*notification.Notification, error) {
	if m.CreateNotificationFunc != nil {
		return m.CreateNotificationFunc(ctx, params)
	}
	return &notification.Notification{UserID: params.UserID, Title: params.Title}, nil
}

func (m *MockNotificationRepo) ListByUserID(ctx context.Context, userID string, page, perPage int) ([]*notification.Notification, int, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, page, perPage)
	}
	return nil, 0, nil
}

func (m *MockNotificationRepo) MarkOpened(ctx context.Context, notificationID, userID string) error {
	if m.MarkOpenedFunc != nil {
		return m.MarkOpenedFunc(ctx, notificationID, userID)
	}
	return nil
}

// newCardService builds a card service over the given mocks without an invoice cache.
func newCardService(cards *MockCardRepo, purchases *MockPurchaseRepo) *card.Service {
	return card.NewService(cards, purchases, installment.Projector{}, nil)
}

// withUser attaches an authenticated user to the request, as the auth middleware does.
func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}
