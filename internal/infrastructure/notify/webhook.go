package notify

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"glowcart-backend/pkg/logger"

	"github.com/goccy/go-json"
)

// WebhookNotifier posts status-change messages to the notification
// service's webhook. Delivery is fire-and-forget: every send happens on
// its own goroutine and a failure only gets logged, never propagated back
// into the transition that triggered it.
type WebhookNotifier struct {
	endpoint   string
	httpClient *http.Client
}

// NewWebhookNotifier creates a notifier for the given endpoint. An empty
// endpoint returns nil; a nil notifier drops every message, so callers
// never need to branch on configuration.
func NewWebhookNotifier(endpoint string, timeout time.Duration) *WebhookNotifier {
	if endpoint == "" {
		logger.Warn().Msg("Notification webhook not configured. Status-change delivery disabled.")
		return nil
	}
	return &WebhookNotifier{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type statusChangeMessage struct {
	OrderID   string `json:"order_id"`
	NewStatus string `json:"new_status"`
	ActorRole string `json:"actor_role"`
	SentAt    int64  `json:"sent_at"`
}

// Notify implements domain.Notifier.
func (n *WebhookNotifier) Notify(orderID, newStatus, actorRole string) {
	if n == nil {
		return
	}

	msg := statusChangeMessage{
		OrderID:   orderID,
		NewStatus: newStatus,
		ActorRole: actorRole,
		SentAt:    time.Now().Unix(),
	}

	go func() {
		if err := n.send(msg); err != nil {
			logger.Error().Err(err).
				Str("order_id", orderID).
				Str("new_status", newStatus).
				Msg("Failed to deliver status-change notification")
		}
	}()
}

// send posts the message with bounded retry. 4xx responses (other than
// 429) are permanent payload errors and are not retried.
func (n *WebhookNotifier) send(msg statusChangeMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		resp, err := n.httpClient.Post(n.endpoint, "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			lastErr = fmt.Errorf("notification request failed: %w", err)
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			resp.Body.Close()
			return nil
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("notification error (status %d): %s", resp.StatusCode, string(body))

		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		time.Sleep(time.Duration(i+1) * time.Second)
	}

	return lastErr
}
