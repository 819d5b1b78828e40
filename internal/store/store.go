package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Логические ключи постоянного хранилища.
const (
	KeyDailyTasks      = "daily_tasks"
	KeyTasksDate       = "tasks_date"
	KeyDailyEarnings   = "daily_earnings"
	KeyMonthlyEarnings = "monthly_earnings"
	KeyStats           = "stats"
	KeyUploadedContent = "uploaded_content"
	KeyProviderAPIKey  = "provider_api_key"
	KeyAdminMode       = "admin_mode"
	KeyBankDetails     = "bank_details"
)

var ErrNotFound = errors.New("key not found")

// Store — постоянное отображение строковых ключей в JSON-значения.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
}

// SetJSON сериализует значение и записывает его по ключу.
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Set(ctx, key, payload)
}

// GetJSON читает значение по ключу. Отсутствующий ключ и поврежденный JSON
// равнозначны: возвращается ok=false без ошибки.
func GetJSON(ctx context.Context, s Store, key string, target interface{}) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return false, nil
	}

	return true, nil
}
