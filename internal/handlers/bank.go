package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/eduwork-tracker/internal/bank"
	"example.com/eduwork-tracker/internal/models"
)

type BankHandler struct {
	Bank *bank.Service
}

// NewBankHandler создает обработчик банковских реквизитов.
func NewBankHandler(bankService *bank.Service) *BankHandler {
	return &BankHandler{Bank: bankService}
}

type BankDetailsRequest struct {
	AccountHolderName string `json:"account_holder_name" validate:"required,max=100"`
	BankName          string `json:"bank_name" validate:"required,max=100"`
	AccountNumber     string `json:"account_number" validate:"required"`
	IFSC              string `json:"ifsc" validate:"required"`
	UPIID             string `json:"upi_id" validate:"omitempty,max=100"`
}

// Get возвращает сохраненные реквизиты.
func (h *BankHandler) Get(c echo.Context) error {
	details, err := h.Bank.Get(c.Request().Context())
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			return notFound(c, "bank details not saved")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, details)
}

// Save проверяет и сохраняет реквизиты, возвращая нормализованную форму.
func (h *BankHandler) Save(c echo.Context) error {
	var req BankDetailsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	details := models.BankDetails{
		AccountHolderName: req.AccountHolderName,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		IFSC:              req.IFSC,
		UPIID:             req.UPIID,
	}

	saved, err := h.Bank.Save(c.Request().Context(), details)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(http.StatusOK, saved)
}
