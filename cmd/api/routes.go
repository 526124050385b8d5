package main

import (
	"log/slog"
	"net/http"

	"carteira/internal/shared/config"
	"carteira/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", deps.HealthHandler.HandleHealth)

	// Protected routes
	authMiddleware := middleware.Auth(deps.Verifier)
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMiddleware(h))
	}

	protect("/api/cards/", deps.CardHandler.HandleCards)
	protect("/api/cards/{id}", deps.CardHandler.HandleCardByID)
	protect("/api/cards/{id}/invoice", deps.CardHandler.HandleInvoice)
	protect("/api/cards/{id}/limit", deps.CardHandler.HandleLimit)
	protect("/api/purchases/", deps.PurchaseHandler.HandlePurchases)
	protect("/api/purchases/{id}", deps.PurchaseHandler.HandlePurchaseByID)
	protect("/api/contracts/", deps.ContractHandler.HandleContracts)
	protect("/api/contracts/{id}", deps.ContractHandler.HandleContractByID)
	protect("/api/projection", deps.ProjectionHandler.HandleProjection)
	protect("/api/notifications/register-device/", deps.NotificationHandler.HandleRegisterDevice)
	protect("/api/notifications/preferences/", deps.NotificationHandler.HandlePreferences)
	protect("/api/notifications/open/", deps.NotificationHandler.HandleOpen)
	protect("/api/notifications/{id}", deps.NotificationHandler.HandleNotificationByID)
	protect("/api/notifications/", deps.NotificationHandler.HandleNotifications)

	// Apply global middleware
	handler := middleware.Tracing(middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux)))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		slog.Info("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(cfg.Telemetry.ServiceName)(handler)
	}

	return handler
}
