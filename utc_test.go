package timescale

import (
	"errors"
	"testing"
)

func TestUtcInstantParseAndString(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "no fraction", in: "2022-03-05T00:00:08Z"},
		{name: "with fraction", in: "2022-03-05T00:00:08.000082000Z"},
		{name: "midnight", in: "1970-01-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseUtcInstant(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := u.String(); got != tt.in {
				t.Errorf("String() = %q, want %q", got, tt.in)
			}
		})
	}
}

func TestUtcInstantParseLeapSecond(t *testing.T) {
	u, err := ParseUtcInstant("1972-06-30T23:59:60Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := OfModifiedJulianDay(41498, 86400*NanosPerSec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != want {
		t.Errorf("ParseUtcInstant(leap second) = %v, want %v", u, want)
	}
	if got := u.String(); got != "1972-06-30T23:59:60Z" {
		t.Errorf("String() = %q, want %q", got, "1972-06-30T23:59:60Z")
	}
}

func TestUtcInstantParseRejectsSpuriousLeapSecond(t *testing.T) {
	if _, err := ParseUtcInstant("2022-03-05T23:59:60Z"); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse for a non-leap day, got %v", err)
	}
}

func TestUtcInstantToTaiScenario(t *testing.T) {
	u, err := ParseUtcInstant("2022-03-05T00:00:08.000082Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tai, err := u.ToTai()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const mjd, taiMjdEpoch, offset = 59643, 36204, 37
	want := int64(mjd-taiMjdEpoch)*SecsPerDay + offset + 8
	if tai.TaiSeconds() != want {
		t.Errorf("TaiSeconds() = %d, want %d", tai.TaiSeconds(), want)
	}
	if tai.Nano() != 82_000 {
		t.Errorf("Nano() = %d, want 82000", tai.Nano())
	}
}

func TestUtcInstantLeapDayRoundTrip(t *testing.T) {
	u, err := OfModifiedJulianDay(41498, 86400*NanosPerSec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tai, err := u.ToTai()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := tai.ToUtc()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != u {
		t.Errorf("UtcInstant->Tai->Utc on a leap day = %v, want %v", back, u)
	}
}

func TestUtcInstantRoundTripEveryNanoOfDay(t *testing.T) {
	mjds := []int64{40587, 41498, 41499, 57753, 59643}
	for _, mjd := range mjds {
		dayLen := SystemRules().nanosPerDay(mjd)
		for _, n := range []int64{0, 1, dayLen / 2, dayLen - 1} {
			u, err := OfModifiedJulianDay(mjd, n)
			if err != nil {
				t.Fatalf("OfModifiedJulianDay(%d, %d): unexpected error: %v", mjd, n, err)
			}
			tai, err := u.ToTai()
			if err != nil {
				t.Fatalf("ToTai: unexpected error: %v", err)
			}
			back, err := tai.ToUtc()
			if err != nil {
				t.Fatalf("ToUtc: unexpected error: %v", err)
			}
			if back != u {
				t.Errorf("mjd=%d nano_of_day=%d: round trip = %v, want %v", mjd, n, back, u)
			}
		}
	}
}

func TestUtcInstantIdentityOnNonLeapDays(t *testing.T) {
	// mjd 40588 (1970-01-02) carries no leap second; the Instant mapping
	// should be the identity within the day plus a constant day offset.
	const mjd = 40588
	if SystemRules().LeapSecondAdjustment(mjd) != 0 {
		t.Fatalf("test fixture mjd %d unexpectedly carries a leap second", mjd)
	}

	for _, n := range []int64{0, 1, 12 * 3600 * NanosPerSec, SecsPerDay*NanosPerSec - 1} {
		u, err := OfModifiedJulianDay(mjd, n)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		inst, err := u.ToInstant()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wantUnixSeconds := (mjd-MJDEpoch)*SecsPerDay + n/NanosPerSec
		if inst.UnixSeconds() != wantUnixSeconds || int64(inst.Nano()) != n%NanosPerSec {
			t.Errorf("ToInstant(mjd=%d, nano=%d) = %v, want (%d, %d)",
				mjd, n, inst, wantUnixSeconds, n%NanosPerSec)
		}
	}
}

func TestUtcInstantPlusMinusAcrossLeapDay(t *testing.T) {
	// mjd 41498 (1972-06-30) is the first +1 leap day: it runs one SI
	// second longer than a plain calendar day, so the last whole second
	// before midnight is 23:59:59, followed by the inserted 23:59:60,
	// before 00:00:00 on mjd 41499.
	before, err := OfModifiedJulianDay(41498, 86399*NanosPerSec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, _ := NewDuration(2, 0)

	after, err := before.Plus(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Without the leap second, 23:59:59 + 2s would be 00:00:01 the next
	// day; the inserted second absorbs one of them, landing on 00:00:00.
	want, err := OfModifiedJulianDay(41499, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after != want {
		t.Errorf("Plus across a leap day = %v, want %v", after, want)
	}

	back, err := after.Minus(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != before {
		t.Errorf("Minus undo = %v, want %v", back, before)
	}
}

func TestUtcInstantCompare(t *testing.T) {
	a, _ := OfModifiedJulianDay(100, 0)
	b, _ := OfModifiedJulianDay(100, 1)
	c, _ := OfModifiedJulianDay(101, 0)

	if !a.IsBefore(b) || !b.IsBefore(c) || !a.IsBefore(c) {
		t.Errorf("expected a < b < c")
	}
	if !c.IsAfter(a) {
		t.Errorf("expected c after a")
	}
	if !a.Equal(a) {
		t.Errorf("expected a equal to itself")
	}
}

func TestUtcInstantBinaryRoundTrip(t *testing.T) {
	want, err := OfModifiedJulianDay(41498, 86400*NanosPerSec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := want.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got UtcInstant
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("binary round trip = %v, want %v", got, want)
	}
}

func TestOfModifiedJulianDayRejectsOutOfRangeNano(t *testing.T) {
	if _, err := OfModifiedJulianDay(40588, SecsPerDay*NanosPerSec); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
