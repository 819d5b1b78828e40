package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/eduwork-tracker/internal/tasks"
)

type SetupHandler struct {
	Tasks *tasks.Service
}

// NewSetupHandler создает обработчик настройки ключа провайдера.
func NewSetupHandler(taskService *tasks.Service) *SetupHandler {
	return &SetupHandler{Tasks: taskService}
}

type SaveKeyRequest struct {
	APIKey string `json:"api_key" validate:"required,min=8"`
}

type SetupStatusResponse struct {
	Configured bool `json:"configured"`
}

// SaveKey проверяет ключ минимальным запросом к провайдеру и сохраняет его.
func (h *SetupHandler) SaveKey(c echo.Context) error {
	var req SaveKeyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	ctx := c.Request().Context()

	if err := h.Tasks.VerifyKey(ctx, req.APIKey); err != nil {
		return badGateway(c, "api key verification failed")
	}

	if err := h.Tasks.SetAPIKey(ctx, req.APIKey); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, SetupStatusResponse{Configured: true})
}

// Status сообщает, сохранен ли ключ провайдера.
func (h *SetupHandler) Status(c echo.Context) error {
	configured, err := h.Tasks.IsConfigured(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, SetupStatusResponse{Configured: configured})
}

// DeleteKey удаляет сохраненный ключ провайдера.
func (h *SetupHandler) DeleteKey(c echo.Context) error {
	if err := h.Tasks.DeleteAPIKey(c.Request().Context()); err != nil {
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}
