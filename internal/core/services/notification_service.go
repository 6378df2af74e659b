package services

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/core/domain"
)

// ============================================================
// SSE Hub
// ============================================================

// SSEEvent represents a server-sent event
type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID      string
	UserID  uint
	Channel chan SSEEvent
}

// SSEHub manages all SSE connections
type SSEHub struct {
	mu      sync.RWMutex
	clients map[string]*SSEClient
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients: make(map[string]*SSEClient),
	}
}

// Register adds a new SSE client
func (h *SSEHub) Register(client *SSEClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("📡 SSE client registered: %s (user=%d) | total=%d", client.ID, client.UserID, len(h.clients))
}

// Unregister removes an SSE client
func (h *SSEHub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Channel)
		delete(h.clients, clientID)
		log.Printf("📡 SSE client unregistered: %s | total=%d", clientID, len(h.clients))
	}
}

// SendToUser sends an event to every connection of a user
func (h *SSEHub) SendToUser(userID uint, event SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Channel <- event:
			default:
				// Client channel full, skip
				log.Printf("⚠️ SSE channel full for client %s, skipping", client.ID)
			}
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *SSEHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ============================================================
// NotificationService — SSE push + webhook delivery
// ============================================================

// NotificationService fans alert updates out to connected SSE clients and
// an optional notification webhook. Delivery is best-effort: failures are
// logged and never propagate back to the caller.
type NotificationService struct {
	Hub          *SSEHub
	webhookURL   string
	webhookToken string
}

// NewNotificationService creates a new notification service
func NewNotificationService(webhookURL, webhookToken string) *NotificationService {
	if webhookURL == "" {
		log.Println("⚠️ NOTIFY_WEBHOOK_URL not set — webhook notifications disabled")
	}
	return &NotificationService{
		Hub:          NewSSEHub(),
		webhookURL:   webhookURL,
		webhookToken: webhookToken,
	}
}

// NotifyAlerts pushes a freshly computed alert picture to the user's open
// connections and fires the webhook
func (n *NotificationService) NotifyAlerts(user *models.User, alert *domain.AlertState) {
	n.Hub.SendToUser(user.ID, SSEEvent{Event: "alert_update", Data: alert})
	go n.sendWebhook(composeAlertMessage(user, alert))
}

// NotifySettingsChanged pushes the updated settings to open connections
func (n *NotificationService) NotifySettingsChanged(userID uint, settings *models.AlertSettings) {
	n.Hub.SendToUser(userID, SSEEvent{Event: "settings_update", Data: settings})
}

// composeAlertMessage builds the human-readable webhook payload
func composeAlertMessage(user *models.User, alert *domain.AlertState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 %s: %d credential alert(s) [%s]\n", user.Email, alert.Count, alert.Priority)

	for _, item := range alert.Expired {
		fmt.Fprintf(&b, "❌ Expired: %s (%s) on %s\n", item.Label, item.Section, item.ExpiresAt.Format("2006-01-02"))
	}
	for _, item := range alert.ExpiringSoon {
		fmt.Fprintf(&b, "⏰ Expiring: %s (%s) on %s\n", item.Label, item.Section, item.ExpiresAt.Format("2006-01-02"))
	}
	for _, state := range alert.CMEIssues {
		fmt.Fprintf(&b, "📚 CME %s: %s\n", state.State, strings.Join(state.Issues, "; "))
	}
	return b.String()
}

// sendWebhook posts a message to the configured webhook, fire-and-forget
func (n *NotificationService) sendWebhook(message string) {
	if n.webhookURL == "" {
		return
	}

	form := url.Values{}
	form.Set("message", message)

	req, err := http.NewRequest("POST", n.webhookURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("❌ Webhook request error: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if n.webhookToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.webhookToken)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("❌ Webhook send error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		log.Println("✅ Webhook notification sent")
	} else {
		log.Printf("⚠️ Webhook status: %d", resp.StatusCode)
	}
}
