package stats

import (
	"context"
	"sort"

	"example.com/eduwork-tracker/internal/clock"
	"example.com/eduwork-tracker/internal/earnings"
	"example.com/eduwork-tracker/internal/models"
	"example.com/eduwork-tracker/internal/store"
)

// Service ведет историю дневных снимков. Это отчетная структура: источником
// истины по заработку остается леджер.
type Service struct {
	store  store.Store
	clock  clock.Clock
	ledger *earnings.Service
}

type Overview struct {
	ActiveDays    int     `json:"active_days"`
	TotalEarnings int64   `json:"total_earnings"`
	MonthlyGoal   int64   `json:"monthly_goal"`
	GoalProgress  float64 `json:"goal_progress"`
}

// NewService создает сервис статистики.
func NewService(s store.Store, c clock.Clock, ledger *earnings.Service) *Service {
	return &Service{store: s, clock: c, ledger: ledger}
}

// SaveToday сохраняет снимок сегодняшнего прогресса. Повторный вызов за
// тот же день заменяет прежний снимок.
func (s *Service) SaveToday(ctx context.Context, tasks []models.Task) (models.DailyStats, error) {
	today := clock.DayKey(s.clock.Now())

	completed := 0
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
	}

	total := len(tasks)
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total) * 100
	}

	snapshot := models.DailyStats{
		Date:           today,
		CompletedTasks: completed,
		TotalTasks:     total,
		Earnings:       s.ledger.Tier(tasks),
		CompletionRate: rate,
	}

	list, err := s.List(ctx)
	if err != nil {
		return models.DailyStats{}, err
	}

	updated := make([]models.DailyStats, 0, len(list)+1)
	for _, entry := range list {
		if entry.Date != today {
			updated = append(updated, entry)
		}
	}
	updated = append(updated, snapshot)

	sortByDateDesc(updated)

	if err := store.SetJSON(ctx, s.store, store.KeyStats, updated); err != nil {
		return models.DailyStats{}, err
	}

	return snapshot, nil
}

// List возвращает снимки, отсортированные по дате по убыванию.
func (s *Service) List(ctx context.Context) ([]models.DailyStats, error) {
	var list []models.DailyStats
	if _, err := store.GetJSON(ctx, s.store, store.KeyStats, &list); err != nil {
		return nil, err
	}

	sortByDateDesc(list)
	return list, nil
}

// Overview возвращает сводку по сохраненным дням и прогресс к месячной цели.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	list, err := s.List(ctx)
	if err != nil {
		return Overview{}, err
	}

	var total int64
	for _, entry := range list {
		total += entry.Earnings
	}

	goal := s.ledger.MonthlyGoal()
	progress := 0.0
	if goal > 0 {
		progress = float64(total) / float64(goal) * 100
		if progress > 100 {
			progress = 100
		}
	}

	return Overview{
		ActiveDays:    len(list),
		TotalEarnings: total,
		MonthlyGoal:   goal,
		GoalProgress:  progress,
	}, nil
}

// ClearAll удаляет историю и сегодняшний набор задач.
func (s *Service) ClearAll(ctx context.Context) error {
	for _, key := range []string{store.KeyStats, store.KeyDailyTasks, store.KeyTasksDate} {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func sortByDateDesc(list []models.DailyStats) {
	// Ключи дня лексикографически сортируются как даты.
	sort.Slice(list, func(i, j int) bool {
		return list[i].Date > list[j].Date
	})
}
