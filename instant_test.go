package timescale

import (
	"encoding/json"
	"testing"
)

func TestNewInstantNormalizes(t *testing.T) {
	i, err := NewInstant(5, 1_500_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i.UnixSeconds() != 6 || i.Nano() != 500_000_000 {
		t.Errorf("got (%d, %d), want (6, 500000000)", i.UnixSeconds(), i.Nano())
	}
}

func TestInstantCompareAndEqual(t *testing.T) {
	a, _ := NewInstant(10, 0)
	b, _ := NewInstant(20, 0)
	if a.Compare(b) >= 0 {
		t.Errorf("expected a before b")
	}
	if !a.Equal(a) {
		t.Errorf("expected a equal to itself")
	}
}

func TestInstantString(t *testing.T) {
	i, _ := NewInstant(42, 7)
	want := "42.000000007s"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInstantBinaryRoundTrip(t *testing.T) {
	want, _ := NewInstant(-1, 1)
	data, err := want.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Instant
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("binary round trip = %v, want %v", got, want)
	}
}

func TestInstantMarshalJSON(t *testing.T) {
	i, _ := NewInstant(1, 2)
	data, err := i.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "1.000000002s" {
		t.Errorf("MarshalJSON = %q, want %q", s, "1.000000002s")
	}
}
