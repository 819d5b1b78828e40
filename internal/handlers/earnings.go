package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/eduwork-tracker/internal/earnings"
	"example.com/eduwork-tracker/internal/tasks"
)

type EarningsHandler struct {
	Earnings *earnings.Service
	Tasks    *tasks.Service
}

// NewEarningsHandler создает обработчик заработка.
func NewEarningsHandler(ledger *earnings.Service, taskService *tasks.Service) *EarningsHandler {
	return &EarningsHandler{Earnings: ledger, Tasks: taskService}
}

type EarningsResponse struct {
	Today       int64 `json:"today"`
	Monthly     int64 `json:"monthly"`
	MonthlyGoal int64 `json:"monthly_goal"`
	// Справочная сумма по тарифам за приоритеты, не влияет на леджер.
	PerTaskTotal int64 `json:"per_task_total"`
}

// Get возвращает сегодняшний и месячный заработок. Устаревшие записи
// лениво обнуляются при чтении.
func (h *EarningsHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	today, err := h.Earnings.Today(ctx)
	if err != nil {
		return serverError(c)
	}

	monthly, err := h.Earnings.Monthly(ctx)
	if err != nil {
		return serverError(c)
	}

	set, err := h.Tasks.Current(ctx)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, EarningsResponse{
		Today:        today,
		Monthly:      monthly,
		MonthlyGoal:  h.Earnings.MonthlyGoal(),
		PerTaskTotal: earnings.PerTaskAmount(set.Tasks),
	})
}
