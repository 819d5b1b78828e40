package uploads

import (
	"context"
	"time"
)

// Simulator изображает загрузку файла: периодические тики прогресса от 0
// до 100 без реальной передачи данных. Отмена контекста останавливает тики.
type Simulator struct {
	Interval time.Duration
	Duration time.Duration
}

// NewSimulator создает симулятор с длительностью по умолчанию 10 секунд
// и шагом 100мс.
func NewSimulator() *Simulator {
	return &Simulator{
		Interval: 100 * time.Millisecond,
		Duration: 10 * time.Second,
	}
}

// Run прогоняет симуляцию, вызывая onTick с процентом готовности. При
// нормальном завершении последний тик всегда равен 100.
func (s *Simulator) Run(ctx context.Context, onTick func(percent float64)) error {
	interval := s.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	duration := s.Duration
	if duration <= 0 {
		duration = 10 * time.Second
	}

	steps := int(duration / interval)
	if steps < 1 {
		steps = 1
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for step := 1; step <= steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			percent := float64(step) / float64(steps) * 100
			if percent > 100 {
				percent = 100
			}
			if onTick != nil {
				onTick(percent)
			}
		}
	}

	return nil
}
