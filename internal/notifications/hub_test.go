package notifications

import (
	"testing"
	"time"
)

// TestHubPublishSubscribe проверяет доставку событий подписчику.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	hub.Publish(Event{Type: EventTaskToggled})

	select {
	case event := <-ch:
		if event.Type != EventTaskToggled {
			t.Fatalf("expected event type %s, got %s", EventTaskToggled, event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

// TestHubUnsubscribe проверяет закрытие канала после отписки.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
}
