package earnings

import (
	"context"

	"example.com/eduwork-tracker/internal/clock"
	"example.com/eduwork-tracker/internal/config"
	"example.com/eduwork-tracker/internal/models"
	"example.com/eduwork-tracker/internal/store"
)

// Справочные ставки за задачу по приоритету (только для отображения,
// дневной итог считает ступенчатая формула).
const (
	rateEasy   int64 = 20
	rateMedium int64 = 30
	rateHard   int64 = 50
)

type Service struct {
	store store.Store
	clock clock.Clock
	cfg   config.EarningsConfig
}

// NewService создает леджер заработка.
func NewService(s store.Store, c clock.Clock, cfg config.EarningsConfig) *Service {
	return &Service{store: s, clock: c, cfg: cfg}
}

// Tier — ступенчатая формула дневного заработка: полный набор, частичный,
// ничего. Пустой список всегда дает 0.
func (s *Service) Tier(tasks []models.Task) int64 {
	completed := 0
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
	}

	total := len(tasks)
	switch {
	case total > 0 && completed == total:
		return s.cfg.FullAmount
	case completed > 0:
		return s.cfg.PartialAmount
	default:
		return 0
	}
}

// PerTaskAmount — сумма по ставкам за каждую выполненную задачу.
func PerTaskAmount(tasks []models.Task) int64 {
	var total int64
	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		switch task.Priority {
		case models.PriorityHard:
			total += rateHard
		case models.PriorityMedium:
			total += rateMedium
		default:
			total += rateEasy
		}
	}
	return total
}

// Recompute пересчитывает дневной итог по списку задач и сверяет записи.
func (s *Service) Recompute(ctx context.Context, tasks []models.Task) (int64, error) {
	amount := s.Tier(tasks)
	if err := s.SetToday(ctx, amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// Today возвращает текущий дневной заработок с ленивым сбросом устаревшего дня.
func (s *Service) Today(ctx context.Context) (int64, error) {
	daily, err := s.getOrInitDaily(ctx)
	if err != nil {
		return 0, err
	}
	return daily.Amount, nil
}

// Monthly возвращает накопленный месячный итог с ленивым сбросом месяца.
func (s *Service) Monthly(ctx context.Context) (int64, error) {
	monthly, err := s.getOrInitMonthly(ctx)
	if err != nil {
		return 0, err
	}
	return monthly.Amount, nil
}

// MonthlyGoal возвращает настроенную месячную цель.
func (s *Service) MonthlyGoal() int64 {
	return s.cfg.MonthlyGoal
}

// SetToday записывает новый дневной итог и применяет дельту к месяцу.
// Месячный итог — бегущая сумма дельт, а не пересчет с нуля: повторные
// вызовы с одним и тем же значением не накапливаются.
func (s *Service) SetToday(ctx context.Context, newAmount int64) error {
	daily, err := s.getOrInitDaily(ctx)
	if err != nil {
		return err
	}

	delta := newAmount - daily.Amount
	daily.Amount = newAmount
	if err := store.SetJSON(ctx, s.store, store.KeyDailyEarnings, daily); err != nil {
		return err
	}

	monthly, err := s.getOrInitMonthly(ctx)
	if err != nil {
		return err
	}

	monthly.Amount += delta
	return store.SetJSON(ctx, s.store, store.KeyMonthlyEarnings, monthly)
}

// Adjust добавляет ручную корректировку к сегодняшнему итогу. Корректировка
// идет через SetToday, чтобы месячная сумма не расходилась с дневными дельтами.
func (s *Service) Adjust(ctx context.Context, amount int64) (int64, error) {
	daily, err := s.getOrInitDaily(ctx)
	if err != nil {
		return 0, err
	}

	newAmount := daily.Amount + amount
	if err := s.SetToday(ctx, newAmount); err != nil {
		return 0, err
	}
	return newAmount, nil
}

func (s *Service) getOrInitDaily(ctx context.Context) (models.DailyRecord, error) {
	today := clock.DayKey(s.clock.Now())

	var record models.DailyRecord
	ok, err := store.GetJSON(ctx, s.store, store.KeyDailyEarnings, &record)
	if err != nil {
		return models.DailyRecord{}, err
	}

	if !ok || record.Date != today {
		record = models.DailyRecord{Date: today, Amount: 0}
		if err := store.SetJSON(ctx, s.store, store.KeyDailyEarnings, record); err != nil {
			return models.DailyRecord{}, err
		}
	}

	return record, nil
}

func (s *Service) getOrInitMonthly(ctx context.Context) (models.MonthlyRecord, error) {
	month := clock.MonthKey(s.clock.Now())

	var record models.MonthlyRecord
	ok, err := store.GetJSON(ctx, s.store, store.KeyMonthlyEarnings, &record)
	if err != nil {
		return models.MonthlyRecord{}, err
	}

	if !ok || record.Month != month {
		record = models.MonthlyRecord{Month: month, Amount: 0}
		if err := store.SetJSON(ctx, s.store, store.KeyMonthlyEarnings, record); err != nil {
			return models.MonthlyRecord{}, err
		}
	}

	return record, nil
}
