package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/eduwork-tracker/internal/earnings"
	"example.com/eduwork-tracker/internal/notifications"
	"example.com/eduwork-tracker/internal/stats"
	"example.com/eduwork-tracker/internal/store"
	"example.com/eduwork-tracker/internal/tasks"
)

type AdminHandler struct {
	Store    store.Store
	Tasks    *tasks.Service
	Earnings *earnings.Service
	Stats    *stats.Service
	Hub      *notifications.Hub
}

// NewAdminHandler создает обработчик админских операций.
func NewAdminHandler(s store.Store, taskService *tasks.Service, ledger *earnings.Service, statsService *stats.Service, hub *notifications.Hub) *AdminHandler {
	return &AdminHandler{Store: s, Tasks: taskService, Earnings: ledger, Stats: statsService, Hub: hub}
}

type AdminModeRequest struct {
	Enabled bool `json:"enabled"`
}

type AdminModeResponse struct {
	AdminMode bool `json:"admin_mode"`
}

type AdjustRequest struct {
	Amount int64 `json:"amount" validate:"required"`
}

type AdjustResponse struct {
	Today int64 `json:"today"`
}

// AdminMiddleware пропускает запрос только при включенном админ-режиме.
// Флаг живет в хранилище, а не в конфигурации: его переключает /admin/mode.
func AdminMiddleware(s store.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var enabled bool
			ok, err := store.GetJSON(c.Request().Context(), s, store.KeyAdminMode, &enabled)
			if err != nil {
				return serverError(c)
			}
			if !ok || !enabled {
				return forbidden(c)
			}
			return next(c)
		}
	}
}

// SetMode переключает админ-режим. Роут открыт намеренно: без
// авторизации единственная защита — явное включение флага.
func (h *AdminHandler) SetMode(c echo.Context) error {
	var req AdminModeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	if err := store.SetJSON(c.Request().Context(), h.Store, store.KeyAdminMode, req.Enabled); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, AdminModeResponse{AdminMode: req.Enabled})
}

// Regenerate принудительно генерирует новый набор задач на сегодня.
func (h *AdminHandler) Regenerate(c echo.Context) error {
	set, err := h.Tasks.Regenerate(c.Request().Context())
	if err != nil {
		return taskGenerationError(c, err)
	}

	publishTasksGenerated(h.Hub, set.DayKey, len(set.Tasks))

	return c.JSON(http.StatusOK, buildTaskSetResponse(set))
}

// Adjust добавляет ручную корректировку к сегодняшнему заработку.
func (h *AdminHandler) Adjust(c echo.Context) error {
	var req AdjustRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	ctx := c.Request().Context()

	today, err := h.Earnings.Adjust(ctx, req.Amount)
	if err != nil {
		return serverError(c)
	}

	if monthly, err := h.Earnings.Monthly(ctx); err == nil {
		publishEarningsUpdated(h.Hub, today, monthly)
	}

	return c.JSON(http.StatusOK, AdjustResponse{Today: today})
}

// ClearData удаляет задачи, заработок, статистику и метаданные загрузок.
// Ключ провайдера и реквизиты остаются.
func (h *AdminHandler) ClearData(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Stats.ClearAll(ctx); err != nil {
		return serverError(c)
	}

	keys := []string{
		store.KeyDailyEarnings,
		store.KeyMonthlyEarnings,
		store.KeyUploadedContent,
	}

	for _, key := range keys {
		if err := h.Store.Delete(ctx, key); err != nil {
			return serverError(c)
		}
	}

	return c.NoContent(http.StatusNoContent)
}
