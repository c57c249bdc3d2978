package ui

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFlashModelExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	f.Info("Saved notes.txt to favorites")
	msg := f.GetMessage()
	if msg == nil || msg.Level != FlashInfo {
		t.Fatalf("GetMessage() = %+v, want info message", msg)
	}

	now = now.Add(lifetime[FlashInfo])
	if msg := f.GetMessage(); msg != nil {
		t.Errorf("message still live after its lifetime: %+v", msg)
	}
}

func TestFlashModelLevels(t *testing.T) {
	f := NewFlashModel()

	f.Err(nil)
	if f.GetMessage() != nil {
		t.Error("nil error produced a message")
	}

	f.Warn("select a message first")
	if got := f.GetMessage(); got == nil || got.Level != FlashWarn {
		t.Errorf("got %+v, want warn", got)
	}

	f.Err(errors.New("upload: boom"))
	if got := f.GetMessage(); got == nil || got.Level != FlashErr || got.Text != "upload: boom" {
		t.Errorf("got %+v, want error message", got)
	}

	f.Clear()
	if f.GetMessage() != nil {
		t.Error("Clear left a message behind")
	}
}

func TestFlashModelWatchCoalesces(t *testing.T) {
	f := NewFlashModel()
	f.Info("one")
	f.Info("two")

	select {
	case <-f.Watch():
	default:
		t.Fatal("no change signalled")
	}
	select {
	case <-f.Watch():
		t.Error("second signal was not coalesced")
	default:
	}
	if got := f.GetMessage().Text; got != "two" {
		t.Errorf("latest text = %q, want two", got)
	}
}

func TestFlashTextEscapesAndLabelsErrors(t *testing.T) {
	theme := DefaultTheme()
	got := flashText(theme, &FlashMessage{Text: "bad [tag]", Level: FlashErr})
	if !strings.Contains(got, "error:") {
		t.Errorf("error text lacks label: %q", got)
	}
	if !strings.Contains(got, "bad [tag[]") {
		t.Errorf("text not escaped: %q", got)
	}
}
