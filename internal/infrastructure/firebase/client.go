package firebase

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

const fcmBatchLimit = 500

// TokenDeactivator is called to mark an invalid FCM token as inactive.
type TokenDeactivator func(ctx context.Context, token string) error

// multicastSender is the part of *messaging.Client used here.
type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Client implements notification.Messenger using Firebase Cloud Messaging
type Client struct {
	sender      multicastSender
	deactivator TokenDeactivator
}

// NewClient initializes a Firebase app and returns an FCM client.
// deactivator is called when an unregistered token is detected; may be nil.
func NewClient(ctx context.Context, credentialsFile string, deactivator TokenDeactivator) (*Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging client: %w", err)
	}

	return &Client{sender: msgClient, deactivator: deactivator}, nil
}

// SendMulticast sends a push notification to multiple device tokens in
// batches of 500, the FCM per-request limit.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	var totalSuccess, totalFailure int
	for _, batch := range chunkTokens(tokens, fcmBatchLimit) {
		msg := &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}

		resp, err := c.sender.SendEachForMulticast(ctx, msg)
		if err != nil {
			return fmt.Errorf("failed to send FCM multicast: %w", err)
		}

		totalSuccess += resp.SuccessCount
		totalFailure += resp.FailureCount
		if resp.FailureCount > 0 {
			c.handleMulticastFailures(ctx, batch, resp)
		}
	}

	slog.Info("FCM multicast sent", "success", totalSuccess, "failure", totalFailure)
	return nil
}

func (c *Client) handleMulticastFailures(ctx context.Context, tokens []string, resp *messaging.BatchResponse) {
	for i, sendResp := range resp.Responses {
		if sendResp == nil || sendResp.Error == nil || i >= len(tokens) {
			continue
		}
		if messaging.IsUnregistered(sendResp.Error) || messaging.IsInvalidArgument(sendResp.Error) {
			slog.Warn("deactivating invalid FCM token", "index", i, "error", sendResp.Error)
			c.deactivateToken(ctx, tokens[i])
		} else {
			slog.Warn("FCM send failed", "index", i, "error", sendResp.Error)
		}
	}
}

func (c *Client) deactivateToken(ctx context.Context, token string) {
	if c.deactivator == nil {
		return
	}
	if err := c.deactivator(ctx, token); err != nil {
		slog.Error("failed to deactivate FCM token", "error", err)
	}
}

func chunkTokens(tokens []string, size int) [][]string {
	var chunks [][]string
	for i := 0; i < len(tokens); i += size {
		end := min(i+size, len(tokens))
		chunks = append(chunks, tokens[i:end])
	}
	return chunks
}
