package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"medcredhub/internal/core/services"
	"medcredhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AlertHandler handles alert endpoints
type AlertHandler struct {
	alertService  *services.AlertService
	notifyService *services.NotificationService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alertService *services.AlertService, notifyService *services.NotificationService) *AlertHandler {
	return &AlertHandler{
		alertService:  alertService,
		notifyService: notifyService,
	}
}

// SnoozeRequest represents the snooze request body
type SnoozeRequest struct {
	Days int `json:"days"`
}

// Get returns the current alert picture
// @Summary Get alerts
// @Description Compute the current expirations and CME gaps. Returns null data when there is nothing to alert on.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /alerts [get]
func (h *AlertHandler) Get(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	alert, err := h.alertService.GetAlerts(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to compute alerts")
	}

	if alert == nil {
		return response.Success(c, "No active alerts", nil)
	}
	return response.Success(c, "Alerts retrieved successfully", alert)
}

// GetSettings returns the user's alert settings
// @Summary Get alert settings
// @Description Get tracked states, lead time, notification frequency and snooze state
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /alerts/settings [get]
func (h *AlertHandler) GetSettings(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	settings, err := h.alertService.GetOrCreateSettings(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get alert settings")
	}

	return response.Success(c, "Alert settings retrieved successfully", settings)
}

// UpdateSettings applies a partial settings update
// @Summary Update alert settings
// @Description Update tracked states, lead time, notification frequency or email preference
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateSettingsInput true "Settings fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /alerts/settings [put]
func (h *AlertHandler) UpdateSettings(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := h.alertService.UpdateSettings(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLeadDays):
			return response.BadRequest(c, "Reminder lead days must be between 1 and 365")
		case errors.Is(err, services.ErrInvalidFrequency):
			return response.BadRequest(c, "Notify frequency days must be between 1 and 90")
		default:
			return response.InternalServerError(c, "Failed to update alert settings")
		}
	}

	h.notifyService.NotifySettingsChanged(userID, settings)

	return response.Success(c, "Alert settings updated successfully", settings)
}

// Snooze suppresses notifications for a number of days
// @Summary Snooze alerts
// @Description Suppress notifications for 1-90 days. The snooze is cleared automatically when the alert picture changes.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SnoozeRequest true "Snooze duration"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /alerts/snooze [post]
func (h *AlertHandler) Snooze(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SnoozeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := h.alertService.Snooze(c.Context(), userID, req.Days)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSnoozeDays) {
			return response.BadRequest(c, "Snooze days must be between 1 and 90")
		}
		return response.InternalServerError(c, "Failed to snooze alerts")
	}

	return response.Success(c, "Alerts snoozed successfully", settings)
}

// Unsnooze clears an active snooze
// @Summary Unsnooze alerts
// @Description Clear an active snooze
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /alerts/snooze [delete]
func (h *AlertHandler) Unsnooze(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	settings, err := h.alertService.Unsnooze(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to clear snooze")
	}

	return response.Success(c, "Snooze cleared successfully", settings)
}

// Stream opens a server-sent-events connection that receives alert and
// settings updates as they are computed
// @Summary Stream alert updates
// @Description Server-sent events stream of alert_update and settings_update events
// @Tags Alerts
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200
// @Router /alerts/stream [get]
func (h *AlertHandler) Stream(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	clientID := uuid.New().String()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		client := &services.SSEClient{
			ID:      clientID,
			UserID:  userID,
			Channel: make(chan services.SSEEvent, 50),
		}

		h.notifyService.Hub.Register(client)
		defer h.notifyService.Hub.Unregister(clientID)

		// Send initial connection event
		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q}\n\n", clientID)
		w.Flush()

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Channel:
				if !ok {
					return
				}
				writeSSEEvent(w, event)
				if err := w.Flush(); err != nil {
					return
				}

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 SSE client disconnected: %s", clientID)
					return
				}
			}
		}
	})

	return nil
}

// writeSSEEvent writes a formatted SSE event to the writer
func writeSSEEvent(w *bufio.Writer, event services.SSEEvent) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		log.Printf("⚠️ SSE marshal error: %v", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
}
