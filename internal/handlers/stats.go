package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"example.com/eduwork-tracker/internal/models"
	"example.com/eduwork-tracker/internal/stats"
	"example.com/eduwork-tracker/internal/tasks"
)

type StatsHandler struct {
	Stats *stats.Service
	Tasks *tasks.Service
}

// NewStatsHandler создает обработчик статистики.
func NewStatsHandler(statsService *stats.Service, taskService *tasks.Service) *StatsHandler {
	return &StatsHandler{Stats: statsService, Tasks: taskService}
}

type StatsListResponse struct {
	Days []models.DailyStats `json:"days"`
}

// List возвращает сохраненные дневные снимки, новые сверху.
func (h *StatsHandler) List(c echo.Context) error {
	days, err := h.Stats.List(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	if days == nil {
		days = []models.DailyStats{}
	}

	return c.JSON(http.StatusOK, StatsListResponse{Days: days})
}

// Overview возвращает сводку: активные дни, итог и прогресс к цели.
func (h *StatsHandler) Overview(c echo.Context) error {
	overview, err := h.Stats.Overview(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, overview)
}

// SaveToday фиксирует снимок сегодняшнего прогресса. Повторный вызов за
// тот же день заменяет прежний снимок.
func (h *StatsHandler) SaveToday(c echo.Context) error {
	ctx := c.Request().Context()

	set, err := h.Tasks.Current(ctx)
	if err != nil {
		return serverError(c)
	}

	snapshot, err := h.Stats.SaveToday(ctx, set.Tasks)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, snapshot)
}

// ExportJSON выгружает историю снимков в JSON-файл.
func (h *StatsHandler) ExportJSON(c echo.Context) error {
	days, err := h.Stats.List(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	if days == nil {
		days = []models.DailyStats{}
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/json")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\"stats.json\"")
	return c.JSON(http.StatusOK, StatsListResponse{Days: days})
}

// ExportCSV выгружает историю снимков в CSV-файл.
func (h *StatsHandler) ExportCSV(c echo.Context) error {
	days, err := h.Stats.List(c.Request().Context())
	if err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writeStatsCSV(writer, days); err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\"stats.csv\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func writeStatsCSV(writer *csv.Writer, days []models.DailyStats) error {
	header := []string{
		"date",
		"completed_tasks",
		"total_tasks",
		"earnings",
		"completion_rate",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, day := range days {
		record := []string{
			day.Date,
			strconv.Itoa(day.CompletedTasks),
			strconv.Itoa(day.TotalTasks),
			strconv.FormatInt(day.Earnings, 10),
			strconv.FormatFloat(day.CompletionRate, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
