package uploads

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestRunCompletesAtHundred проверяет, что последний тик равен 100.
func TestRunCompletesAtHundred(t *testing.T) {
	simulator := &Simulator{Interval: time.Millisecond, Duration: 10 * time.Millisecond}

	var last float64
	ticks := 0
	err := simulator.Run(context.Background(), func(percent float64) {
		last = percent
		ticks++
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last != 100 {
		t.Fatalf("expected final tick 100, got %f", last)
	}
	if ticks != 10 {
		t.Fatalf("expected 10 ticks, got %d", ticks)
	}
}

// TestRunCancelled проверяет остановку тиков при отмене контекста.
func TestRunCancelled(t *testing.T) {
	simulator := &Simulator{Interval: time.Millisecond, Duration: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := simulator.Run(ctx, func(float64) {
		ticks++
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ticks >= 60000 {
		t.Fatal("expected simulation to stop early")
	}
}
