package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/eduwork-tracker/internal/ai"
	"example.com/eduwork-tracker/internal/earnings"
	"example.com/eduwork-tracker/internal/models"
	"example.com/eduwork-tracker/internal/notifications"
	"example.com/eduwork-tracker/internal/tasks"
)

type TaskHandler struct {
	Tasks    *tasks.Service
	Earnings *earnings.Service
	Hub      *notifications.Hub
}

// NewTaskHandler создает обработчик дневных задач.
func NewTaskHandler(taskService *tasks.Service, ledger *earnings.Service, hub *notifications.Hub) *TaskHandler {
	return &TaskHandler{Tasks: taskService, Earnings: ledger, Hub: hub}
}

type TaskResponse struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	EstimatedMinutes int             `json:"estimated_minutes"`
	Priority         models.Priority `json:"priority"`
	Completed        bool            `json:"completed"`
}

type TaskSetResponse struct {
	Date  string         `json:"date"`
	Tasks []TaskResponse `json:"tasks"`
}

type ToggleResponse struct {
	Date          string         `json:"date"`
	Tasks         []TaskResponse `json:"tasks"`
	DailyEarnings int64          `json:"daily_earnings"`
}

// List возвращает сегодняшний набор задач, генерируя его при необходимости.
func (h *TaskHandler) List(c echo.Context) error {
	set, err := h.Tasks.GetOrGenerate(c.Request().Context())
	if err != nil {
		return taskGenerationError(c, err)
	}

	return c.JSON(http.StatusOK, buildTaskSetResponse(set))
}

// Toggle переключает выполнение задачи и возвращает пересчитанный заработок.
func (h *TaskHandler) Toggle(c echo.Context) error {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	ctx := c.Request().Context()

	set, amount, err := h.Tasks.Toggle(ctx, taskID)
	if err != nil {
		return serverError(c)
	}

	for _, task := range set.Tasks {
		if task.ID == taskID {
			publishTaskToggled(h.Hub, taskID, task.Completed, amount)
			break
		}
	}

	if monthly, err := h.Earnings.Monthly(ctx); err == nil {
		publishEarningsUpdated(h.Hub, amount, monthly)
	}

	return c.JSON(http.StatusOK, ToggleResponse{
		Date:          set.DayKey,
		Tasks:         buildTaskResponses(set.Tasks),
		DailyEarnings: amount,
	})
}

func buildTaskSetResponse(set models.DailyTaskSet) TaskSetResponse {
	return TaskSetResponse{
		Date:  set.DayKey,
		Tasks: buildTaskResponses(set.Tasks),
	}
}

func buildTaskResponses(taskList []models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(taskList))
	for _, task := range taskList {
		out = append(out, TaskResponse{
			ID:               task.ID,
			Title:            task.Title,
			Description:      task.Description,
			Category:         task.Category,
			EstimatedMinutes: task.EstimatedMinutes,
			Priority:         task.Priority,
			Completed:        task.Completed,
		})
	}
	return out
}

func taskGenerationError(c echo.Context, err error) error {
	if errors.Is(err, tasks.ErrNotConfigured) {
		return preconditionFailed(c, "provider api key is not configured, save one via setup")
	}

	var validationErr *ai.ValidationError
	if errors.As(err, &validationErr) {
		return badGateway(c, validationErr.Error())
	}

	var providerErr *ai.ProviderError
	if errors.As(err, &providerErr) {
		return badGateway(c, "task provider is unavailable, try again later")
	}

	return serverError(c)
}
