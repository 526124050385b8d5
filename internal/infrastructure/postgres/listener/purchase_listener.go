package listener

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const (
	channelName       = "purchase_changed"
	reconnectInterval = 5 * time.Second
	pingInterval      = 90 * time.Second
)

// PurchaseNotification is the payload sent on the purchase_changed channel.
type PurchaseNotification struct {
	CardID string `json:"card_id"`
	UserID string `json:"user_id"`
}

// InvoiceCache is the cache kept in sync with database changes.
type InvoiceCache interface {
	Invalidate(cardID string)
	Purge()
}

// PurchaseListener invalidates cached invoices when purchases or cards change,
// including changes made outside this process.
type PurchaseListener struct {
	connStr    string
	cache      InvoiceCache
	shutdownCh chan struct{}
	done       chan struct{}
}

func NewPurchaseListener(connStr string, cache InvoiceCache) *PurchaseListener {
	return &PurchaseListener{
		connStr:    connStr,
		cache:      cache,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start begins listening for notifications in a background goroutine
func (l *PurchaseListener) Start(ctx context.Context) {
	go l.listen(ctx)
	slog.Info("purchase listener started", "channel", channelName)
}

// Stop gracefully shuts down the listener
func (l *PurchaseListener) Stop() {
	close(l.shutdownCh)
	<-l.done
	slog.Info("purchase listener stopped")
}

func (l *PurchaseListener) listen(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
			l.connectAndListen(ctx)
		}

		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
			slog.Info("reconnecting purchase listener")
		}
	}
}

func (l *PurchaseListener) connectAndListen(ctx context.Context) {
	listener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, l.handleEvent)
	defer listener.Close()

	if err := listener.Listen(channelName); err != nil {
		slog.Error("failed to listen", "channel", channelName, "error", err)
		return
	}

	// Anything cached before this point may have missed notifications.
	l.cache.Purge()

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case n := <-listener.Notify:
			if n == nil {
				// pq reconnected; notifications sent while down are lost.
				l.cache.Purge()
				continue
			}
			l.handleNotification(n)
		case <-time.After(pingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					slog.Warn("purchase listener ping failed", "error", err)
				}
			}()
		}
	}
}

func (l *PurchaseListener) handleEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		slog.Info("purchase listener connected")
	case pq.ListenerEventDisconnected:
		slog.Warn("purchase listener disconnected", "error", err)
	case pq.ListenerEventReconnected:
		slog.Info("purchase listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		slog.Warn("purchase listener connection attempt failed", "error", err)
	}
}

func (l *PurchaseListener) handleNotification(n *pq.Notification) {
	var payload PurchaseNotification
	if err := json.Unmarshal([]byte(n.Extra), &payload); err != nil {
		slog.Warn("failed to parse purchase notification", "error", err)
		l.cache.Purge()
		return
	}

	if payload.CardID == "" {
		return
	}

	l.cache.Invalidate(payload.CardID)
	slog.Debug("invoice cache invalidated", "card_id", payload.CardID)
}
