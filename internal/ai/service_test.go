package ai

import (
	"context"
	"errors"
	"testing"

	"example.com/eduwork-tracker/internal/config"
	"example.com/eduwork-tracker/internal/models"
)

type fakeClient struct {
	content string
	err     error
}

func (c *fakeClient) Chat(_ context.Context, _ string, _ []Message) (string, []byte, error) {
	if c.err != nil {
		return "", nil, c.err
	}
	return c.content, []byte(c.content), nil
}

func mixedConfig() config.TasksConfig {
	return config.TasksConfig{
		PriorityMode:    config.PriorityModeMixed,
		UniformPriority: "easy",
		MinMinutes:      15,
		MaxMinutes:      70,
	}
}

const mixedResponse = `[
	{"title": "Flashcards", "description": "Prepare alphabet flashcards", "category": "Content Creation", "estimated_time_in_minutes": 20, "priority": "easy"},
	{"title": "Lesson plan", "description": "Plan a counting lesson", "category": "Lesson Planning", "estimated_time_in_minutes": 40, "priority": "medium"},
	{"title": "Worksheet set", "description": "Design a full worksheet set", "category": "Content Creation", "estimated_time_in_minutes": 60, "priority": "hard"}
]`

// TestGenerateTasksMixed проверяет успешную генерацию с тремя приоритетами.
func TestGenerateTasksMixed(t *testing.T) {
	service := NewService(&fakeClient{content: mixedResponse}, mixedConfig())

	tasks, _, err := service.GenerateTasks(context.Background(), "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != TaskCount {
		t.Fatalf("expected %d tasks, got %d", TaskCount, len(tasks))
	}
	if tasks[0].Priority != models.PriorityEasy {
		t.Fatalf("expected easy priority, got %s", tasks[0].Priority)
	}
}

// TestGenerateTasksFencedJSON проверяет разбор ответа внутри code block.
func TestGenerateTasksFencedJSON(t *testing.T) {
	service := NewService(&fakeClient{content: "```json\n" + mixedResponse + "\n```"}, mixedConfig())

	tasks, _, err := service.GenerateTasks(context.Background(), "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != TaskCount {
		t.Fatalf("expected %d tasks, got %d", TaskCount, len(tasks))
	}
}

// TestGenerateTasksWrongCount проверяет отклонение ответа из двух задач.
func TestGenerateTasksWrongCount(t *testing.T) {
	response := `[
		{"title": "A", "description": "a", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"},
		{"title": "B", "description": "b", "category": "X", "estimated_time_in_minutes": 40, "priority": "medium"}
	]`
	service := NewService(&fakeClient{content: response}, mixedConfig())

	_, _, err := service.GenerateTasks(context.Background(), "key")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestGenerateTasksUniformWhenMixedRequired проверяет отклонение одинаковых
// приоритетов при требовании трех разных.
func TestGenerateTasksUniformWhenMixedRequired(t *testing.T) {
	response := `[
		{"title": "A", "description": "a", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"},
		{"title": "B", "description": "b", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"},
		{"title": "C", "description": "c", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"}
	]`
	service := NewService(&fakeClient{content: response}, mixedConfig())

	_, _, err := service.GenerateTasks(context.Background(), "key")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestGenerateTasksUniformMode проверяет требование единого приоритета.
func TestGenerateTasksUniformMode(t *testing.T) {
	cfg := config.TasksConfig{
		PriorityMode:    config.PriorityModeUniform,
		UniformPriority: "easy",
		MinMinutes:      15,
		MaxMinutes:      25,
	}
	response := `[
		{"title": "A", "description": "a", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"},
		{"title": "B", "description": "b", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"},
		{"title": "C", "description": "c", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"}
	]`
	service := NewService(&fakeClient{content: response}, cfg)

	tasks, _, err := service.GenerateTasks(context.Background(), "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, task := range tasks {
		if task.Priority != models.PriorityEasy {
			t.Fatalf("expected easy priority, got %s", task.Priority)
		}
	}

	if _, _, err := NewService(&fakeClient{content: mixedResponse}, cfg).GenerateTasks(context.Background(), "key"); err == nil {
		t.Fatal("expected mixed priorities to be rejected in uniform mode")
	}
}

// TestGenerateTasksMinutesOutsideRange проверяет диапазон минут 15-25.
func TestGenerateTasksMinutesOutsideRange(t *testing.T) {
	cfg := config.TasksConfig{
		PriorityMode:    config.PriorityModeUniform,
		UniformPriority: "easy",
		MinMinutes:      15,
		MaxMinutes:      25,
	}
	response := `[
		{"title": "A", "description": "a", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"},
		{"title": "B", "description": "b", "category": "X", "estimated_time_in_minutes": 30, "priority": "easy"},
		{"title": "C", "description": "c", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"}
	]`
	service := NewService(&fakeClient{content: response}, cfg)

	_, _, err := service.GenerateTasks(context.Background(), "key")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestGenerateTasksCategoryOutsideSet проверяет разрешенный набор категорий.
func TestGenerateTasksCategoryOutsideSet(t *testing.T) {
	cfg := mixedConfig()
	cfg.AllowedCategories = []string{"Writing Skills", "Math Skills"}
	service := NewService(&fakeClient{content: mixedResponse}, cfg)

	_, _, err := service.GenerateTasks(context.Background(), "key")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// TestGenerateTasksProviderFailure проверяет оборачивание ошибок провайдера.
func TestGenerateTasksProviderFailure(t *testing.T) {
	service := NewService(&fakeClient{err: errors.New("network down")}, mixedConfig())

	_, _, err := service.GenerateTasks(context.Background(), "key")
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

// TestGenerateTasksNonJSON проверяет ответ без JSON.
func TestGenerateTasksNonJSON(t *testing.T) {
	service := NewService(&fakeClient{content: "sorry, I cannot help"}, mixedConfig())

	_, _, err := service.GenerateTasks(context.Background(), "key")
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}

// TestExtractJSONFenced проверяет извлечение массива из fenced-блока.
func TestExtractJSONFenced(t *testing.T) {
	got := extractJSON("```json\n[1, 2, 3]\n```")
	if got != "[1, 2, 3]" {
		t.Fatalf("expected array, got %q", got)
	}

	if extractJSON("no json here") != "" {
		t.Fatal("expected empty result for non-json input")
	}
}
