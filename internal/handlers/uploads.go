package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/eduwork-tracker/internal/models"
	"example.com/eduwork-tracker/internal/notifications"
	"example.com/eduwork-tracker/internal/tasks"
	"example.com/eduwork-tracker/internal/uploads"
)

type UploadHandler struct {
	Tasks     *tasks.Service
	Simulator *uploads.Simulator
	Hub       *notifications.Hub
}

// NewUploadHandler создает обработчик симулированных загрузок.
func NewUploadHandler(taskService *tasks.Service, simulator *uploads.Simulator, hub *notifications.Hub) *UploadHandler {
	return &UploadHandler{Tasks: taskService, Simulator: simulator, Hub: hub}
}

type UploadRequest struct {
	Type string `json:"type" validate:"required"`
	Name string `json:"name" validate:"required,max=255"`
	Size string `json:"size" validate:"omitempty,max=32"`
}

type UploadResponse struct {
	TaskID  uuid.UUID             `json:"task_id"`
	Uploads []models.UploadRecord `json:"uploads"`
}

// Create прогоняет симуляцию загрузки и сохраняет метаданные файла.
// Реальной передачи данных нет: прогресс рассылается SSE-событиями.
func (h *UploadHandler) Create(c echo.Context) error {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	var req UploadRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	uploadType, ok := models.ParseUploadType(req.Type)
	if !ok {
		return badRequest(c, "invalid upload type")
	}

	ctx := c.Request().Context()

	err = h.Simulator.Run(ctx, func(percent float64) {
		publishUploadProgress(h.Hub, taskID, percent)
	})
	if err != nil {
		// Клиент закрыл соединение до конца симуляции, метаданные не пишем.
		return nil
	}

	record := models.UploadRecord{
		Type: uploadType,
		Name: req.Name,
		Size: req.Size,
	}

	if err := h.Tasks.AddUpload(ctx, taskID, record); err != nil {
		return serverError(c)
	}

	publishUploadCompleted(h.Hub, taskID, record.Name)

	records, err := h.Tasks.Uploads(ctx, taskID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, UploadResponse{TaskID: taskID, Uploads: records})
}

// List возвращает метаданные загрузок задачи.
func (h *UploadHandler) List(c echo.Context) error {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	records, err := h.Tasks.Uploads(c.Request().Context(), taskID)
	if err != nil {
		return serverError(c)
	}

	if records == nil {
		records = []models.UploadRecord{}
	}

	return c.JSON(http.StatusOK, UploadResponse{TaskID: taskID, Uploads: records})
}

// Delete удаляет запись о загрузке по индексу.
func (h *UploadHandler) Delete(c echo.Context) error {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest(c, "invalid upload index")
	}

	if err := h.Tasks.DeleteUpload(c.Request().Context(), taskID, index); err != nil {
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}
