package main

import (
	"context"
	"fmt"
	"log/slog"

	"carteira/internal/domain/card"
	"carteira/internal/domain/contract"
	"carteira/internal/domain/forecast"
	"carteira/internal/domain/installment"
	"carteira/internal/domain/notification"
	"carteira/internal/domain/purchase"
	"carteira/internal/infrastructure/firebase"
	"carteira/internal/infrastructure/postgres"
	"carteira/internal/infrastructure/postgres/listener"
	httphandlers "carteira/internal/interfaces/http"
	"carteira/internal/shared/auth"
	"carteira/internal/shared/config"
	"carteira/internal/shared/messages"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	HealthHandler       *httphandlers.HealthHandler
	CardHandler         *httphandlers.CardHandler
	PurchaseHandler     *httphandlers.PurchaseHandler
	ContractHandler     *httphandlers.ContractHandler
	ProjectionHandler   *httphandlers.ProjectionHandler
	NotificationHandler *httphandlers.NotificationHandler

	// Auth
	Verifier *auth.Verifier

	// Services used by the scheduler
	CardService     *card.Service
	ReminderService *card.ReminderService

	// Keeps the invoice cache consistent with writes from other processes
	PurchaseListener *listener.PurchaseListener
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	connStr := cfg.Database.ConnectionString()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(connStr, "up"); err != nil {
			return nil, err
		}
		slog.Info("database migrations applied")
	}

	db, err := postgres.New(ctx, connStr, postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("connected to database", "host", cfg.Database.Host, "name", cfg.Database.DBName)

	// Initialize repositories
	cardRepo := postgres.NewCardRepository(db)
	purchaseRepo := postgres.NewPurchaseRepository(db)
	contractRepo := postgres.NewContractRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize domain services
	projector := installment.Projector{
		Bucketing: cfg.Projection.Bucketing,
		Elapsed:   cfg.Projection.Elapsed,
	}
	invoiceCache := card.NewInvoiceCache()

	cardService := card.NewService(cardRepo, purchaseRepo, projector, invoiceCache)
	purchaseService := purchase.NewService(purchaseRepo, cardService, invoiceCache)
	contractService := contract.NewService(contractRepo)
	forecastService := forecast.NewService(purchaseRepo, contractRepo, projector)

	// Push delivery is optional; without credentials notifications are only stored
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, notificationRepo.DeactivateToken)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize firebase: %w", err)
		}
		messenger = fcm
		slog.Info("firebase messaging enabled")
	} else {
		slog.Warn("FIREBASE_CREDENTIALS_FILE not set, push notifications disabled")
	}
	notificationService := notification.NewService(notificationRepo, messenger)

	texts, err := messages.Load(cfg.Reminders.MessagesFile)
	if err != nil {
		db.Close()
		return nil, err
	}
	reminderService := card.NewReminderService(
		cardService,
		notificationService,
		card.Template(texts.InvoiceClosed),
		card.Template(texts.InvoiceDue),
		cfg.Reminders.LeadDays,
	)

	return &Dependencies{
		DB:                  db,
		HealthHandler:       httphandlers.NewHealthHandler(db),
		CardHandler:         httphandlers.NewCardHandler(cardService),
		PurchaseHandler:     httphandlers.NewPurchaseHandler(purchaseService),
		ContractHandler:     httphandlers.NewContractHandler(contractService),
		ProjectionHandler:   httphandlers.NewProjectionHandler(forecastService),
		NotificationHandler: httphandlers.NewNotificationHandler(notificationService),
		Verifier:            auth.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience),
		CardService:         cardService,
		ReminderService:     reminderService,
		PurchaseListener:    listener.NewPurchaseListener(connStr, invoiceCache),
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
