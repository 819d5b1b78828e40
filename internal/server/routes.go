package server

import (
	"github.com/labstack/echo/v4"

	"example.com/eduwork-tracker/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	taskHandler *handlers.TaskHandler,
	uploadHandler *handlers.UploadHandler,
	earningsHandler *handlers.EarningsHandler,
	statsHandler *handlers.StatsHandler,
	setupHandler *handlers.SetupHandler,
	bankHandler *handlers.BankHandler,
	adminHandler *handlers.AdminHandler,
	notificationHandler *handlers.NotificationHandler,
	adminMiddleware echo.MiddlewareFunc,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")

	api.GET("/tasks", taskHandler.List, aiRateLimiter)
	api.PATCH("/tasks/:taskId/toggle", taskHandler.Toggle)
	api.POST("/tasks/:taskId/uploads", uploadHandler.Create)
	api.GET("/tasks/:taskId/uploads", uploadHandler.List)
	api.DELETE("/tasks/:taskId/uploads/:index", uploadHandler.Delete)

	api.GET("/earnings", earningsHandler.Get)

	statsGroup := api.Group("/stats")
	statsGroup.GET("", statsHandler.List)
	statsGroup.GET("/overview", statsHandler.Overview)
	statsGroup.POST("/today", statsHandler.SaveToday)
	statsGroup.GET("/export/json", statsHandler.ExportJSON)
	statsGroup.GET("/export/csv", statsHandler.ExportCSV)

	setup := api.Group("/setup")
	setup.POST("/key", setupHandler.SaveKey)
	setup.GET("/status", setupHandler.Status)
	setup.DELETE("/key", setupHandler.DeleteKey)

	api.GET("/bank", bankHandler.Get)
	api.PUT("/bank", bankHandler.Save)

	api.POST("/admin/mode", adminHandler.SetMode)

	admin := api.Group("/admin", adminMiddleware)
	admin.POST("/tasks/regenerate", adminHandler.Regenerate, aiRateLimiter)
	admin.POST("/earnings/adjust", adminHandler.Adjust)
	admin.DELETE("/data", adminHandler.ClearData)

	events := api.Group("/events")
	events.GET("/stream", notificationHandler.Stream)
}
