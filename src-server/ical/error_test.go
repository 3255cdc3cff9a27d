package ical

import (
	"log/slog"
	"testing"
)

func TestCustomErrorDeterministicMessage(t *testing.T) {
	want := "can't parse DTSTART line=7 summary=Reserved uid=abc123"

	// map iteration order must never leak into the message
	for i := 0; i < 50; i++ {
		err := NewCustomError("can't parse DTSTART", map[string]any{
			"uid": "abc123", "summary": "Reserved", "line": 7,
		})
		if got := err.Error(); got != want {
			t.Fatalf("iteration %d: want %q, got %q", i, want, got)
		}
	}
}

func TestCustomErrorNoArgs(t *testing.T) {
	err := NewCustomError("empty calendar text", nil)
	if got := err.Error(); got != "empty calendar text" {
		t.Errorf("want bare message, got %q", got)
	}
}

func TestCustomErrorLogValue(t *testing.T) {
	err := NewCustomError("skipping event", map[string]any{"uid": "u1", "err": "bad date"})

	var _ slog.LogValuer = err
	value := err.LogValue()
	if value.Kind() != slog.KindGroup {
		t.Fatalf("want group value, got %v", value.Kind())
	}

	attrs := value.Group()
	if len(attrs) != 3 {
		t.Fatalf("want msg plus 2 args, got %d attrs", len(attrs))
	}
	if attrs[0].Key != "msg" || attrs[0].Value.String() != "skipping event" {
		t.Errorf("first attr should be the message, got %v", attrs[0])
	}
	// args follow in sorted key order
	if attrs[1].Key != "err" || attrs[2].Key != "uid" {
		t.Errorf("args out of order: %v %v", attrs[1].Key, attrs[2].Key)
	}
}
