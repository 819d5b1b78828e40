package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"example.com/eduwork-tracker/internal/ai"
	"example.com/eduwork-tracker/internal/clock"
	"example.com/eduwork-tracker/internal/earnings"
	"example.com/eduwork-tracker/internal/models"
	"example.com/eduwork-tracker/internal/store"
)

// ErrNotConfigured — ключ провайдера еще не сохранен через setup.
var ErrNotConfigured = errors.New("provider api key is not configured")

// Service владеет дневным кешем задач: решает, когда переиспользовать и
// когда перегенерировать набор, и хранит состояние выполнения.
type Service struct {
	// Мьютекс держится на все время генерации: в пределах дня набор
	// создается ровно один раз, даже при конкурентных запросах.
	mu     sync.Mutex
	store  store.Store
	ai     *ai.Service
	clock  clock.Clock
	ledger *earnings.Service
	// Запасной ключ из окружения, когда в хранилище ключа нет.
	envKey string
}

// NewService создает кеш дневных задач.
func NewService(s store.Store, aiService *ai.Service, c clock.Clock, ledger *earnings.Service, envKey string) *Service {
	return &Service{store: s, ai: aiService, clock: c, ledger: ledger, envKey: strings.TrimSpace(envKey)}
}

// GetOrGenerate возвращает сегодняшний набор задач, генерируя его при
// отсутствии или устаревшем ключе дня. Повторные вызовы в течение дня
// возвращают тот же набор без обращения к провайдеру.
func (s *Service) GetOrGenerate(ctx context.Context) (models.DailyTaskSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := clock.DayKey(s.clock.Now())

	set, ok, err := s.readSet(ctx)
	if err != nil {
		return models.DailyTaskSet{}, err
	}
	if ok && set.DayKey == today && len(set.Tasks) > 0 {
		return set, nil
	}

	return s.generate(ctx, today)
}

// Current возвращает сегодняшний набор без обращения к провайдеру.
// Отсутствующий или устаревший набор — пустой набор с сегодняшним ключом.
func (s *Service) Current(ctx context.Context) (models.DailyTaskSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := clock.DayKey(s.clock.Now())

	set, ok, err := s.readSet(ctx)
	if err != nil {
		return models.DailyTaskSet{}, err
	}
	if !ok || set.DayKey != today {
		return models.DailyTaskSet{DayKey: today}, nil
	}

	return set, nil
}

// Regenerate принудительно заменяет сегодняшний набор новым (админский
// сценарий "сгенерировать заново"). Старый набор отбрасывается целиком.
func (s *Service) Regenerate(ctx context.Context) (models.DailyTaskSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generate(ctx, clock.DayKey(s.clock.Now()))
}

// Toggle переключает выполнение задачи в сегодняшнем наборе, сохраняет
// набор и пересчитывает заработок. Неизвестный id — тихий no-op.
func (s *Service) Toggle(ctx context.Context, taskID uuid.UUID) (models.DailyTaskSet, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := clock.DayKey(s.clock.Now())

	set, ok, err := s.readSet(ctx)
	if err != nil {
		return models.DailyTaskSet{}, 0, err
	}
	if !ok || set.DayKey != today {
		amount, err := s.ledger.Today(ctx)
		return models.DailyTaskSet{DayKey: today}, amount, err
	}

	found := false
	for i := range set.Tasks {
		if set.Tasks[i].ID == taskID {
			set.Tasks[i].Completed = !set.Tasks[i].Completed
			found = true
			break
		}
	}

	if !found {
		amount, err := s.ledger.Today(ctx)
		return set, amount, err
	}

	if err := store.SetJSON(ctx, s.store, store.KeyDailyTasks, set.Tasks); err != nil {
		return models.DailyTaskSet{}, 0, err
	}

	amount, err := s.ledger.Recompute(ctx, set.Tasks)
	if err != nil {
		return models.DailyTaskSet{}, 0, err
	}

	return set, amount, nil
}

// Clear удаляет сохраненный набор и ключ дня. Леджер не трогает.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, store.KeyDailyTasks); err != nil {
		return err
	}
	return s.store.Delete(ctx, store.KeyTasksDate)
}

// IsConfigured сообщает, сохранен ли ключ провайдера.
func (s *Service) IsConfigured(ctx context.Context) (bool, error) {
	key, err := s.apiKey(ctx)
	if err != nil {
		return false, err
	}
	return key != "", nil
}

// SetAPIKey сохраняет ключ провайдера.
func (s *Service) SetAPIKey(ctx context.Context, apiKey string) error {
	return store.SetJSON(ctx, s.store, store.KeyProviderAPIKey, strings.TrimSpace(apiKey))
}

// DeleteAPIKey удаляет сохраненный ключ провайдера.
func (s *Service) DeleteAPIKey(ctx context.Context) error {
	return s.store.Delete(ctx, store.KeyProviderAPIKey)
}

// VerifyKey проверяет ключ минимальным запросом к провайдеру.
func (s *Service) VerifyKey(ctx context.Context, apiKey string) error {
	return s.ai.VerifyKey(ctx, apiKey)
}

func (s *Service) generate(ctx context.Context, today string) (models.DailyTaskSet, error) {
	apiKey, err := s.apiKey(ctx)
	if err != nil {
		return models.DailyTaskSet{}, err
	}
	if apiKey == "" {
		return models.DailyTaskSet{}, ErrNotConfigured
	}

	generated, _, err := s.ai.GenerateTasks(ctx, apiKey)
	if err != nil {
		// Невалидный ответ не сохраняется: день остается незаполненным.
		return models.DailyTaskSet{}, err
	}

	taskList := make([]models.Task, 0, len(generated))
	for _, task := range generated {
		taskList = append(taskList, models.Task{
			ID:               uuid.New(),
			Title:            task.Title,
			Description:      task.Description,
			Category:         task.Category,
			EstimatedMinutes: task.EstimatedMinutes,
			Priority:         task.Priority,
			Completed:        false,
		})
	}

	if err := store.SetJSON(ctx, s.store, store.KeyDailyTasks, taskList); err != nil {
		return models.DailyTaskSet{}, err
	}
	if err := store.SetJSON(ctx, s.store, store.KeyTasksDate, today); err != nil {
		return models.DailyTaskSet{}, err
	}

	return models.DailyTaskSet{DayKey: today, Tasks: taskList}, nil
}

func (s *Service) readSet(ctx context.Context) (models.DailyTaskSet, bool, error) {
	var dayKey string
	dateOK, err := store.GetJSON(ctx, s.store, store.KeyTasksDate, &dayKey)
	if err != nil {
		return models.DailyTaskSet{}, false, err
	}

	var taskList []models.Task
	tasksOK, err := store.GetJSON(ctx, s.store, store.KeyDailyTasks, &taskList)
	if err != nil {
		return models.DailyTaskSet{}, false, err
	}

	if !dateOK || !tasksOK {
		return models.DailyTaskSet{}, false, nil
	}

	return models.DailyTaskSet{DayKey: dayKey, Tasks: taskList}, true, nil
}

func (s *Service) apiKey(ctx context.Context) (string, error) {
	var apiKey string
	if _, err := store.GetJSON(ctx, s.store, store.KeyProviderAPIKey, &apiKey); err != nil {
		return "", err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return s.envKey, nil
	}
	return apiKey, nil
}
