package notifications

import (
	"sync"
	"time"
)

const (
	EventTaskToggled     = "task_toggled"
	EventTasksGenerated  = "tasks_generated"
	EventEarningsUpdated = "earnings_updated"
	EventUploadProgress  = "upload_progress"
	EventUploadCompleted = "upload_completed"
)

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub рассылает события SSE-подписчикам. Клиент один (одно устройство),
// но вкладок может быть несколько.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe подписывает на события и возвращает канал и функцию отписки.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 10)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if _, exists := h.subscribers[ch]; exists {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
}

// Publish отправляет событие всем подписчикам.
func (h *Hub) Publish(event Event) {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
