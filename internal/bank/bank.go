package bank

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"example.com/eduwork-tracker/internal/models"
	"example.com/eduwork-tracker/internal/store"
)

var ErrNotFound = errors.New("bank details not saved")

var (
	accountNumberPattern = regexp.MustCompile(`^\d{6,18}$`)
	ifscPattern          = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	upiPattern           = regexp.MustCompile(`^[\w.-]+@[\w.-]+$`)
)

type Service struct {
	store store.Store
}

// NewService создает сервис платежных реквизитов.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Validate нормализует и проверяет реквизиты. Возвращает причину первой
// найденной ошибки.
func Validate(details *models.BankDetails) error {
	details.AccountHolderName = strings.TrimSpace(details.AccountHolderName)
	details.BankName = strings.TrimSpace(details.BankName)
	details.AccountNumber = strings.ReplaceAll(strings.TrimSpace(details.AccountNumber), " ", "")
	details.IFSC = strings.ToUpper(strings.TrimSpace(details.IFSC))
	details.UPIID = strings.TrimSpace(details.UPIID)

	if details.AccountHolderName == "" {
		return errors.New("account holder name is required")
	}
	if details.BankName == "" {
		return errors.New("bank name is required")
	}
	if !accountNumberPattern.MatchString(details.AccountNumber) {
		return errors.New("account number should be 6-18 digits")
	}
	if !ifscPattern.MatchString(details.IFSC) {
		return errors.New("invalid ifsc format")
	}
	if details.UPIID != "" && !upiPattern.MatchString(details.UPIID) {
		return errors.New("invalid upi id")
	}

	return nil
}

// Save проверяет и сохраняет реквизиты.
func (s *Service) Save(ctx context.Context, details models.BankDetails) (models.BankDetails, error) {
	if err := Validate(&details); err != nil {
		return models.BankDetails{}, err
	}

	if err := store.SetJSON(ctx, s.store, store.KeyBankDetails, details); err != nil {
		return models.BankDetails{}, err
	}
	return details, nil
}

// Get возвращает сохраненные реквизиты.
func (s *Service) Get(ctx context.Context) (models.BankDetails, error) {
	var details models.BankDetails
	ok, err := store.GetJSON(ctx, s.store, store.KeyBankDetails, &details)
	if err != nil {
		return models.BankDetails{}, err
	}
	if !ok {
		return models.BankDetails{}, ErrNotFound
	}
	return details, nil
}

// Delete удаляет сохраненные реквизиты.
func (s *Service) Delete(ctx context.Context) error {
	return s.store.Delete(ctx, store.KeyBankDetails)
}
