package config

import (
	"reflect"
	"testing"
)

// TestParseCSVEnv проверяет разбор списка категорий из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("TASKS_ALLOWED_CATEGORIES", " Writing Skills, ,Math Skills ")

	got := parseCSVEnv("TASKS_ALLOWED_CATEGORIES")
	want := []string{"Writing Skills", "Math Skills"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestValidatePriorityMode проверяет отклонение неизвестного режима приоритетов.
func TestValidatePriorityMode(t *testing.T) {
	t.Setenv("TASKS_PRIORITY_MODE", "random")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown priority mode")
	}
}

// TestValidateMinutesRange проверяет отклонение перевернутого диапазона минут.
func TestValidateMinutesRange(t *testing.T) {
	t.Setenv("TASKS_MIN_MINUTES", "40")
	t.Setenv("TASKS_MAX_MINUTES", "25")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for inverted minutes range")
	}
}
