package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{"error": "admin mode is disabled"})
}

func preconditionFailed(c echo.Context, message string) error {
	return c.JSON(http.StatusPreconditionFailed, map[string]string{"error": message})
}

func badGateway(c echo.Context, message string) error {
	return c.JSON(http.StatusBadGateway, map[string]string{"error": message})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
