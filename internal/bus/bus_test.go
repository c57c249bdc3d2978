package bus

import (
	"testing"
	"time"
)

func TestEmitDeliversStampedEvent(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "favorites.")
	defer unsub()

	b.Emit(KindFavoritesLoaded, 3)

	select {
	case evt := <-ch:
		if evt.Kind != KindFavoritesLoaded {
			t.Errorf("got kind %q, want %s", evt.Kind, KindFavoritesLoaded)
		}
		if evt.Payload != 3 {
			t.Errorf("payload = %v, want 3", evt.Payload)
		}
		if evt.Timestamp.IsZero() {
			t.Error("Emit did not stamp the event")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestPrefixFiltering(t *testing.T) {
	tests := []struct {
		name     string
		prefixes []string
		emit     []string
		want     []string
	}{
		{
			name:     "single prefix",
			prefixes: []string{"ui."},
			emit:     []string{KindSearchResults, KindUIStateChanged},
			want:     []string{KindUIStateChanged},
		},
		{
			name:     "several prefixes",
			prefixes: []string{"chats.", "session."},
			emit:     []string{KindMessagesLoaded, KindDraftChanged, KindSessionReset},
			want:     []string{KindMessagesLoaded, KindSessionReset},
		},
		{
			name: "no prefix takes everything",
			emit: []string{KindProfileUpdated, KindChatsChanged},
			want: []string{KindProfileUpdated, KindChatsChanged},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			ch, unsub := b.Subscribe(10, tt.prefixes...)
			defer unsub()

			for _, k := range tt.emit {
				b.Emit(k, nil)
			}
			if len(ch) != len(tt.want) {
				t.Fatalf("buffered %d events, want %d", len(ch), len(tt.want))
			}
			for _, want := range tt.want {
				if got := (<-ch).Kind; got != want {
					t.Errorf("got %q, want %q", got, want)
				}
			}
		})
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "profile.")
	other, unsubOther := b.Subscribe(10, "profile.")
	defer unsubOther()

	unsub()
	unsub()

	b.Emit(KindProfileUpdated, nil)

	if len(ch) != 0 {
		t.Errorf("received %d events after unsubscribe", len(ch))
	}
	if len(other) != 1 {
		t.Errorf("remaining subscriber got %d events, want 1", len(other))
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(1, "search.")
	defer unsub()

	b.Emit(KindSearchResults, "first")
	b.Emit(KindSearchResults, "second")

	evt := <-ch
	if evt.Payload != "first" {
		t.Errorf("got %v, want first", evt.Payload)
	}
	if got := b.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}
}

func TestNilBus(t *testing.T) {
	var b *Bus
	b.Emit(KindFavoritesLoaded, nil)
	if b.Dropped() != 0 {
		t.Error("nil bus reported drops")
	}
}
