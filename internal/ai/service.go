package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"example.com/eduwork-tracker/internal/config"
	"example.com/eduwork-tracker/internal/models"
)

// TaskCount — ровно столько задач обязан вернуть провайдер.
const TaskCount = 3

// GeneratedTask — проверенная задача из ответа провайдера, еще без
// идентификатора и флага выполнения.
type GeneratedTask struct {
	Title            string
	Description      string
	Category         string
	EstimatedMinutes int
	Priority         models.Priority
}

type rawTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	// Провайдеры возвращают минуты под одним из двух имен.
	EstimatedTimeInMinutes int    `json:"estimated_time_in_minutes"`
	EstimatedTime          int    `json:"estimatedTime"`
	Priority               string `json:"priority"`
}

type Service struct {
	client Client
	tasks  config.TasksConfig
}

// NewService создает сервис работы с AI-клиентом.
func NewService(client Client, tasks config.TasksConfig) *Service {
	return &Service{client: client, tasks: tasks}
}

// GenerateTasks запрашивает у провайдера дневной набор задач и валидирует ответ.
func (s *Service) GenerateTasks(ctx context.Context, apiKey string) ([]GeneratedTask, []byte, error) {
	messages := []Message{
		{Role: "system", Content: "You are a task generation assistant. Respond with JSON only, without extra text."},
		{Role: "user", Content: s.buildPrompt()},
	}

	content, raw, err := s.client.Chat(ctx, apiKey, messages)
	if err != nil {
		return nil, raw, &ProviderError{Err: err}
	}

	payload := extractJSON(content)
	if payload == "" {
		return nil, raw, &ProviderError{Err: errors.New("response does not contain json")}
	}

	var rawTasks []rawTask
	if err := json.Unmarshal([]byte(payload), &rawTasks); err != nil {
		return nil, raw, &ProviderError{Err: fmt.Errorf("decode response: %w", err)}
	}

	tasks, err := s.validateTasks(rawTasks)
	if err != nil {
		return nil, raw, err
	}

	return tasks, raw, nil
}

// VerifyKey делает минимальный запрос к провайдеру, чтобы проверить ключ.
func (s *Service) VerifyKey(ctx context.Context, apiKey string) error {
	messages := []Message{
		{Role: "user", Content: "Reply with the single word OK."},
	}

	content, _, err := s.client.Chat(ctx, apiKey, messages)
	if err != nil {
		return &ProviderError{Err: err}
	}

	if strings.TrimSpace(content) == "" {
		return &ProviderError{Err: errors.New("empty verification response")}
	}

	return nil
}

func (s *Service) buildPrompt() string {
	var priorityRequirement string
	if s.tasks.PriorityMode == config.PriorityModeUniform {
		priorityRequirement = fmt.Sprintf(
			"All 3 tasks must have priority %q.", s.tasks.UniformPriority)
	} else {
		priorityRequirement = "Generate exactly one task of each priority level: easy, medium, and hard."
	}

	categories := "English, General Knowledge or Math Tasks"
	if len(s.tasks.AllowedCategories) > 0 {
		categories = strings.Join(s.tasks.AllowedCategories, ", ")
	}

	return fmt.Sprintf(`Generate exactly 3 daily teaching tasks for an English/General Knowledge/Math teacher who specializes in teaching children. The tasks should be realistic, educational, and help build teaching skills and content creation abilities.

Context about the teacher: They have experience in English/General Knowledge/Math teaching and want to focus on creating engaging content for kids till 2nd standard (6-7 years old in India). They're currently building their teaching portfolio and want to feel productive.

Requirements:
- Output JSON only, no code fences, no extra text.
- Respond with a JSON array of exactly 3 objects with these exact properties:
  {"title": string, "description": string, "category": string, "estimated_time_in_minutes": number, "priority": string}
- Each task needs a clear, actionable title and a detailed description of what to do.
- Category must be one of: %s.
- estimated_time_in_minutes must be between %d and %d.
- %s`,
		categories, s.tasks.MinMinutes, s.tasks.MaxMinutes, priorityRequirement)
}

func (s *Service) validateTasks(rawTasks []rawTask) ([]GeneratedTask, error) {
	if len(rawTasks) != TaskCount {
		return nil, validationErrorf("expected exactly %d tasks, got %d", TaskCount, len(rawTasks))
	}

	tasks := make([]GeneratedTask, 0, TaskCount)
	seen := make(map[models.Priority]int, TaskCount)

	for i, raw := range rawTasks {
		if strings.TrimSpace(raw.Title) == "" {
			return nil, validationErrorf("task %d has no title", i+1)
		}
		if strings.TrimSpace(raw.Description) == "" {
			return nil, validationErrorf("task %d has no description", i+1)
		}

		category := strings.TrimSpace(raw.Category)
		if len(s.tasks.AllowedCategories) > 0 && !s.categoryAllowed(category) {
			return nil, validationErrorf("task %d has category %q outside the allowed set", i+1, category)
		}

		minutes := raw.EstimatedTimeInMinutes
		if minutes == 0 {
			minutes = raw.EstimatedTime
		}
		if minutes < s.tasks.MinMinutes || minutes > s.tasks.MaxMinutes {
			return nil, validationErrorf("task %d estimated minutes %d outside range %d-%d",
				i+1, minutes, s.tasks.MinMinutes, s.tasks.MaxMinutes)
		}

		priority, ok := models.ParsePriority(raw.Priority)
		if !ok {
			return nil, validationErrorf("task %d has invalid priority %q", i+1, raw.Priority)
		}
		seen[priority]++

		tasks = append(tasks, GeneratedTask{
			Title:            strings.TrimSpace(raw.Title),
			Description:      strings.TrimSpace(raw.Description),
			Category:         category,
			EstimatedMinutes: minutes,
			Priority:         priority,
		})
	}

	if err := s.validateDistribution(seen); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (s *Service) validateDistribution(seen map[models.Priority]int) error {
	if s.tasks.PriorityMode == config.PriorityModeUniform {
		required, ok := models.ParsePriority(s.tasks.UniformPriority)
		if !ok {
			return validationErrorf("configured uniform priority %q is invalid", s.tasks.UniformPriority)
		}
		if seen[required] != TaskCount {
			return validationErrorf("all tasks must have priority %q", required)
		}
		return nil
	}

	for _, priority := range []models.Priority{models.PriorityEasy, models.PriorityMedium, models.PriorityHard} {
		if seen[priority] != 1 {
			return validationErrorf("expected one task of each priority level, got %d %q", seen[priority], priority)
		}
	}
	return nil
}

func (s *Service) categoryAllowed(category string) bool {
	for _, allowed := range s.tasks.AllowedCategories {
		if strings.EqualFold(allowed, category) {
			return true
		}
	}
	return false
}

func extractJSON(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "json")
		trimmed = strings.TrimSpace(trimmed)
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return trimmed[start : end+1]
}
