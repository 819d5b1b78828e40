package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/eduwork-tracker/internal/ai"
	"example.com/eduwork-tracker/internal/config"
	"example.com/eduwork-tracker/internal/earnings"
	"example.com/eduwork-tracker/internal/models"
	"example.com/eduwork-tracker/internal/store"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type countingClient struct {
	content string
	calls   int
}

func (c *countingClient) Chat(_ context.Context, _ string, _ []ai.Message) (string, []byte, error) {
	c.calls++
	return c.content, []byte(c.content), nil
}

const providerResponse = `[
	{"title": "Flashcards", "description": "Prepare alphabet flashcards", "category": "Content Creation", "estimated_time_in_minutes": 20, "priority": "easy"},
	{"title": "Lesson plan", "description": "Plan a counting lesson", "category": "Lesson Planning", "estimated_time_in_minutes": 40, "priority": "medium"},
	{"title": "Worksheet set", "description": "Design a full worksheet set", "category": "Content Creation", "estimated_time_in_minutes": 60, "priority": "hard"}
]`

func newTestService(client ai.Client, clk *fixedClock) (*Service, *earnings.Service, store.Store) {
	memory := store.NewMemory()
	tasksCfg := config.TasksConfig{
		PriorityMode:    config.PriorityModeMixed,
		UniformPriority: "easy",
		MinMinutes:      15,
		MaxMinutes:      70,
	}
	earningsCfg := config.EarningsConfig{PartialAmount: 130, FullAmount: 167, MonthlyGoal: 5010}

	ledger := earnings.NewService(memory, clk, earningsCfg)
	service := NewService(memory, ai.NewService(client, tasksCfg), clk, ledger, "")
	return service, ledger, memory
}

func configure(t *testing.T, service *Service) {
	t.Helper()
	if err := service.SetAPIKey(context.Background(), "test-key"); err != nil {
		t.Fatalf("set api key failed: %v", err)
	}
}

// TestGetOrGenerateIdempotent проверяет, что в пределах дня набор
// генерируется один раз и возвращается без изменений.
func TestGetOrGenerateIdempotent(t *testing.T) {
	ctx := context.Background()
	client := &countingClient{content: providerResponse}
	clk := &fixedClock{now: time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)}
	service, _, _ := newTestService(client, clk)
	configure(t, service)

	first, err := service.GetOrGenerate(ctx)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if len(first.Tasks) != ai.TaskCount {
		t.Fatalf("expected %d tasks, got %d", ai.TaskCount, len(first.Tasks))
	}

	second, err := service.GetOrGenerate(ctx)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if client.calls != 1 {
		t.Fatalf("expected one provider call, got %d", client.calls)
	}
	for i := range first.Tasks {
		if first.Tasks[i].ID != second.Tasks[i].ID {
			t.Fatalf("task %d id changed between calls", i)
		}
	}
}

// TestRegenerateOnStaleDay проверяет перегенерацию при смене дня.
func TestRegenerateOnStaleDay(t *testing.T) {
	ctx := context.Background()
	client := &countingClient{content: providerResponse}
	clk := &fixedClock{now: time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)}
	service, _, _ := newTestService(client, clk)
	configure(t, service)

	first, err := service.GetOrGenerate(ctx)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	if _, _, err := service.Toggle(ctx, first.Tasks[0].ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	clk.now = clk.now.AddDate(0, 0, 1)

	next, err := service.GetOrGenerate(ctx)
	if err != nil {
		t.Fatalf("next day call failed: %v", err)
	}

	if next.DayKey != "2026-08-16" {
		t.Fatalf("expected new day key, got %s", next.DayKey)
	}
	if client.calls != 2 {
		t.Fatalf("expected second provider call, got %d", client.calls)
	}
	for i := range next.Tasks {
		if next.Tasks[i].ID == first.Tasks[i].ID {
			t.Fatalf("task %d reused a previous id", i)
		}
		if next.Tasks[i].Completed {
			t.Fatalf("task %d not reset to uncompleted", i)
		}
	}
}

// TestGetOrGenerateNotConfigured проверяет ошибку при отсутствии ключа.
func TestGetOrGenerateNotConfigured(t *testing.T) {
	client := &countingClient{content: providerResponse}
	service, _, _ := newTestService(client, &fixedClock{now: time.Now()})

	if _, err := service.GetOrGenerate(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("provider must not be called without a key")
	}
}

// TestValidationFailureDoesNotPersist проверяет, что невалидный ответ не
// помечает день заполненным.
func TestValidationFailureDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	client := &countingClient{content: `[{"title": "only one", "description": "x", "category": "X", "estimated_time_in_minutes": 20, "priority": "easy"}]`}
	service, _, memory := newTestService(client, &fixedClock{now: time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)})
	configure(t, service)

	_, err := service.GetOrGenerate(ctx)
	var validationErr *ai.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	if _, err := memory.Get(ctx, store.KeyTasksDate); !errors.Is(err, store.ErrNotFound) {
		t.Fatal("expected tasks date to stay unset after invalid response")
	}

	// Ручной повтор после исправления провайдера проходит.
	client.content = providerResponse
	if _, err := service.GetOrGenerate(ctx); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

// TestToggleRecomputesEarnings проверяет пересчет ступенчатого заработка.
func TestToggleRecomputesEarnings(t *testing.T) {
	ctx := context.Background()
	client := &countingClient{content: providerResponse}
	clk := &fixedClock{now: time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)}
	service, ledger, _ := newTestService(client, clk)
	configure(t, service)

	set, err := service.GetOrGenerate(ctx)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	_, amount, err := service.Toggle(ctx, set.Tasks[0].ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if amount != 130 {
		t.Fatalf("expected partial amount 130, got %d", amount)
	}

	for _, task := range set.Tasks[1:] {
		if _, amount, err = service.Toggle(ctx, task.ID); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
	}
	if amount != 167 {
		t.Fatalf("expected full amount 167, got %d", amount)
	}

	monthly, err := ledger.Monthly(ctx)
	if err != nil {
		t.Fatalf("monthly failed: %v", err)
	}
	if monthly != 167 {
		t.Fatalf("expected monthly total 167, got %d", monthly)
	}
}

// TestToggleUnknownID проверяет тихий no-op для незнакомого id.
func TestToggleUnknownID(t *testing.T) {
	ctx := context.Background()
	client := &countingClient{content: providerResponse}
	service, _, _ := newTestService(client, &fixedClock{now: time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)})
	configure(t, service)

	set, err := service.GetOrGenerate(ctx)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	got, amount, err := service.Toggle(ctx, uuid.New())
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if amount != 0 {
		t.Fatalf("expected earnings to stay 0, got %d", amount)
	}
	for i := range got.Tasks {
		if got.Tasks[i].Completed != set.Tasks[i].Completed {
			t.Fatal("expected task state to stay unchanged")
		}
	}
}

// TestClear проверяет удаление набора без влияния на леджер.
func TestClear(t *testing.T) {
	ctx := context.Background()
	client := &countingClient{content: providerResponse}
	service, ledger, memory := newTestService(client, &fixedClock{now: time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)})
	configure(t, service)

	set, err := service.GetOrGenerate(ctx)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, _, err := service.Toggle(ctx, set.Tasks[0].ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if err := service.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if _, err := memory.Get(ctx, store.KeyDailyTasks); !errors.Is(err, store.ErrNotFound) {
		t.Fatal("expected daily tasks key to be removed")
	}

	today, err := ledger.Today(ctx)
	if err != nil {
		t.Fatalf("today failed: %v", err)
	}
	if today != 130 {
		t.Fatalf("expected ledger untouched by clear, got %d", today)
	}
}

// TestUploadLifecycle проверяет, что удаление последней записи убирает
// ключ задачи целиком.
func TestUploadLifecycle(t *testing.T) {
	ctx := context.Background()
	client := &countingClient{content: providerResponse}
	service, _, memory := newTestService(client, &fixedClock{now: time.Now()})

	taskID := uuid.New()
	record := models.UploadRecord{Type: models.UploadTypeImage, Name: "cards.jpg", Size: "1.2 MB"}

	if err := service.AddUpload(ctx, taskID, record); err != nil {
		t.Fatalf("add upload failed: %v", err)
	}

	records, err := service.Uploads(ctx, taskID)
	if err != nil {
		t.Fatalf("uploads failed: %v", err)
	}
	if len(records) != 1 || records[0].Name != "cards.jpg" {
		t.Fatalf("expected stored record, got %v", records)
	}

	if err := service.DeleteUpload(ctx, taskID, 0); err != nil {
		t.Fatalf("delete upload failed: %v", err)
	}

	stored := make(map[string][]models.UploadRecord)
	if _, err := store.GetJSON(ctx, memory, store.KeyUploadedContent, &stored); err != nil {
		t.Fatalf("read stored map failed: %v", err)
	}
	if _, ok := stored[taskID.String()]; ok {
		t.Fatal("expected task key to be removed, not left as empty list")
	}

	// Индекс вне диапазона — no-op.
	if err := service.DeleteUpload(ctx, taskID, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestEnvKeyFallback проверяет, что при пустом хранилище используется
// запасной ключ из окружения.
func TestEnvKeyFallback(t *testing.T) {
	client := &countingClient{content: providerResponse}
	clk := &fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	memory := store.NewMemory()
	tasksCfg := config.TasksConfig{
		PriorityMode: config.PriorityModeMixed,
		MinMinutes:   15,
		MaxMinutes:   70,
	}
	earningsCfg := config.EarningsConfig{PartialAmount: 130, FullAmount: 167, MonthlyGoal: 5010}
	ledger := earnings.NewService(memory, clk, earningsCfg)
	service := NewService(memory, ai.NewService(client, tasksCfg), clk, ledger, "env-key")

	set, err := service.GetOrGenerate(context.Background())
	if err != nil {
		t.Fatalf("expected generation via env key, got %v", err)
	}
	if len(set.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(set.Tasks))
	}

	configured, err := service.IsConfigured(context.Background())
	if err != nil {
		t.Fatalf("is configured failed: %v", err)
	}
	if !configured {
		t.Fatal("expected env key to count as configured")
	}
}
