package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseNotifyPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want NotifyPolicy
	}{
		{"none", NotifyNone},
		{"at_start", NotifyAtStart},
		{"15m", Notify15m},
		{"30m", Notify30m},
		{"60m", Notify1h},
		{"1440m", Notify1d},
		{"", NotifyNone},
		{"garbage", NotifyNone},
		{"45m", NotifyNone},
	}
	for _, tt := range tests {
		if got := ParseNotifyPolicy(tt.in); got != tt.want {
			t.Fatalf("ParseNotifyPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.September, 5)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2026-09-05"` {
		t.Fatalf("unexpected wire form: %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip changed the date: %v != %v", back, d)
	}
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"05/09/2026"`), &d); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestItemIDKinds(t *testing.T) {
	durable := DurableID("abc-123")
	if durable.IsTemporary() {
		t.Fatalf("durable id reported temporary")
	}
	if got, ok := durable.Durable(); !ok || got != "abc-123" {
		t.Fatalf("Durable() = %q, %v", got, ok)
	}

	tmp := NextTemporaryID()
	if !tmp.IsTemporary() {
		t.Fatalf("minted id reported durable")
	}
	if _, ok := tmp.Durable(); ok {
		t.Fatalf("temporary id yielded a durable value")
	}
}

func TestNextTemporaryIDIsUnique(t *testing.T) {
	a := NextTemporaryID()
	b := NextTemporaryID()
	if a == b {
		t.Fatalf("two minted ids collide: %v", a)
	}
	if a.String() == b.String() {
		t.Fatalf("two minted ids render identically: %s", a)
	}
}
