package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/eduwork-tracker/internal/notifications"
)

type NotificationHandler struct {
	Hub *notifications.Hub
}

// NewNotificationHandler создает SSE-обработчик уведомлений.
func NewNotificationHandler(hub *notifications.Hub) *NotificationHandler {
	return &NotificationHandler{Hub: hub}
}

// Stream открывает SSE-поток событий для открытых вкладок.
func (h *NotificationHandler) Stream(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return serverError(c)
	}

	ch, unsubscribe := h.Hub.Subscribe()
	defer unsubscribe()

	_ = writeSSE(c, notifications.Event{Type: "connected"})
	flusher.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(c, event); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}

func writeSSE(c echo.Context, event notifications.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := c.Response().Write([]byte("event: " + event.Type + "\n")); err != nil {
		return err
	}
	if _, err := c.Response().Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}

	return nil
}

func publishTaskToggled(hub *notifications.Hub, taskID uuid.UUID, completed bool, dailyEarnings int64) {
	if hub == nil {
		return
	}

	hub.Publish(notifications.Event{
		Type: notifications.EventTaskToggled,
		Data: map[string]interface{}{
			"task_id":        taskID.String(),
			"completed":      completed,
			"daily_earnings": dailyEarnings,
		},
	})
}

func publishTasksGenerated(hub *notifications.Hub, dayKey string, count int) {
	if hub == nil {
		return
	}

	hub.Publish(notifications.Event{
		Type: notifications.EventTasksGenerated,
		Data: map[string]interface{}{
			"date":  dayKey,
			"count": count,
		},
	})
}

func publishEarningsUpdated(hub *notifications.Hub, today int64, monthly int64) {
	if hub == nil {
		return
	}

	hub.Publish(notifications.Event{
		Type: notifications.EventEarningsUpdated,
		Data: map[string]interface{}{
			"today":   today,
			"monthly": monthly,
		},
	})
}

func publishUploadProgress(hub *notifications.Hub, taskID uuid.UUID, percent float64) {
	if hub == nil {
		return
	}

	hub.Publish(notifications.Event{
		Type: notifications.EventUploadProgress,
		Data: map[string]interface{}{
			"task_id": taskID.String(),
			"percent": percent,
		},
	})
}

func publishUploadCompleted(hub *notifications.Hub, taskID uuid.UUID, name string) {
	if hub == nil {
		return
	}

	hub.Publish(notifications.Event{
		Type: notifications.EventUploadCompleted,
		Data: map[string]interface{}{
			"task_id": taskID.String(),
			"name":    name,
		},
	})
}
