package main

import (
	"context"
	"fmt"

	"carteira/internal/domain/card"
	"carteira/internal/domain/forecast"
	"carteira/internal/domain/installment"
	"carteira/internal/domain/notification"
	"carteira/internal/infrastructure/firebase"
	"carteira/internal/infrastructure/postgres"
	"carteira/internal/shared/config"
	"carteira/internal/shared/messages"
)

// services are the domain services the admin commands operate on.
type services struct {
	db        *postgres.DB
	cards     *card.Service
	forecasts *forecast.Service
	reminders *card.ReminderService
}

func (s *services) Close() {
	s.db.Close()
}

// openServices connects to the database and builds the domain services.
// Push delivery is only wired when withPush is set and credentials are configured.
func openServices(ctx context.Context, cfg *config.Config, withPush bool) (*services, error) {
	db, err := postgres.New(ctx, cfg.Database.ConnectionString(), postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	cardRepo := postgres.NewCardRepository(db)
	purchaseRepo := postgres.NewPurchaseRepository(db)
	contractRepo := postgres.NewContractRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	projector := installment.Projector{
		Bucketing: cfg.Projection.Bucketing,
		Elapsed:   cfg.Projection.Elapsed,
	}

	// No cache: every command reads fresh data once.
	cardService := card.NewService(cardRepo, purchaseRepo, projector, nil)

	var messenger notification.Messenger
	if withPush && cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, notificationRepo.DeactivateToken)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize firebase: %w", err)
		}
		messenger = fcm
	}

	texts, err := messages.Load(cfg.Reminders.MessagesFile)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &services{
		db:        db,
		cards:     cardService,
		forecasts: forecast.NewService(purchaseRepo, contractRepo, projector),
		reminders: card.NewReminderService(
			cardService,
			notification.NewService(notificationRepo, messenger),
			card.Template(texts.InvoiceClosed),
			card.Template(texts.InvoiceDue),
			cfg.Reminders.LeadDays,
		),
	}, nil
}
