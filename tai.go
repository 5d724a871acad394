package timescale

import "encoding/json"

// TaiInstant is a point on the TAI (International Atomic Time) scale: a
// continuous, leap-second-free count of SI seconds since the TAI epoch
// (1958-01-01), with nanosecond resolution.
//
// TaiInstant is the hub of this package: UtcInstant and Instant both
// convert through it.
type TaiInstant struct {
	v secNano
}

// OfTaiSeconds builds a TaiInstant from an arbitrary (seconds, nanos)
// pair, normalising nanos into [0, NanosPerSec) and reporting ErrOverflow
// if the carry into seconds exceeds int64.
func OfTaiSeconds(seconds, nanos int64) (TaiInstant, error) {
	v, err := newSecNano(seconds, nanos)
	if err != nil {
		return TaiInstant{}, err
	}
	return TaiInstant{v: v}, nil
}

// OfInstant converts an external leap-free Instant to TaiInstant using the
// fixed base offset of 10 seconds, the TAI-UTC offset at the Unix epoch.
// This deliberately does not consult the leap-second table: the external
// Instant scale is bridged to UTC via the SLS mapping in UtcRules, and this
// constant preserves the documented bijection with that leap-free scale.
func OfInstant(i Instant) (TaiInstant, error) {
	s, err := checkedAddInt64(i.unixSeconds, OffsetMJDEpochToTaiEpochSecs)
	if err != nil {
		return TaiInstant{}, err
	}
	s, err = checkedAddInt64(s, BaseTaiOffset)
	if err != nil {
		return TaiInstant{}, err
	}
	return TaiInstant{v: secNano{seconds: s, nano: i.nano}}, nil
}

// OfUtc converts a UtcInstant to TaiInstant via the system leap-second
// rules table.
func OfUtc(u UtcInstant) (TaiInstant, error) {
	return SystemRules().ConvertToTai(u)
}

// ParseTaiInstant parses the canonical "-?[0-9]+.[0-9]{9}s(TAI)" form.
// No other form is accepted: no leading '+', no variant unit suffix, and
// exactly nine fraction digits.
func ParseTaiInstant(s string) (TaiInstant, error) {
	v, err := parseSecNano(s, "TAI")
	if err != nil {
		return TaiInstant{}, err
	}
	return TaiInstant{v: v}, nil
}

// TaiSeconds returns the whole-seconds-since-TAI-epoch component.
func (t TaiInstant) TaiSeconds() int64 {
	return t.v.seconds
}

// Nano returns the nanosecond-of-second component, always in
// [0, NanosPerSec).
func (t TaiInstant) Nano() uint32 {
	return t.v.nano
}

// WithTaiSeconds returns a copy of t with the seconds component replaced.
func (t TaiInstant) WithTaiSeconds(seconds int64) TaiInstant {
	return TaiInstant{v: secNano{seconds: seconds, nano: t.v.nano}}
}

// WithNano returns a copy of t with the nano component replaced, reporting
// ErrInvalidArgument if nano is outside [0, NanosPerSec).
func (t TaiInstant) WithNano(nano uint32) (TaiInstant, error) {
	if nano >= NanosPerSec {
		return TaiInstant{}, errInvalidf("nano %d out of range [0, %d)", nano, NanosPerSec)
	}
	return TaiInstant{v: secNano{seconds: t.v.seconds, nano: nano}}, nil
}

// Plus returns t+d, reporting ErrOverflow on overflow.
func (t TaiInstant) Plus(d Duration) (TaiInstant, error) {
	v, err := t.v.plus(d)
	if err != nil {
		return TaiInstant{}, err
	}
	return TaiInstant{v: v}, nil
}

// Minus returns t-d, reporting ErrOverflow on overflow.
func (t TaiInstant) Minus(d Duration) (TaiInstant, error) {
	v, err := t.v.minus(d)
	if err != nil {
		return TaiInstant{}, err
	}
	return TaiInstant{v: v}, nil
}

// DurationUntil returns other-t as a Duration. If other is before t, the
// result is negative with Nano() still in [0, NanosPerSec).
func (t TaiInstant) DurationUntil(other TaiInstant) (Duration, error) {
	return t.v.durationUntil(other.v)
}

// Compare returns -1, 0 or +1 as t is before, equal to, or after other,
// ordered lexicographically on (tai_seconds, nano).
func (t TaiInstant) Compare(other TaiInstant) int {
	return t.v.compare(other.v)
}

// IsBefore reports whether t is strictly before other.
func (t TaiInstant) IsBefore(other TaiInstant) bool {
	return t.Compare(other) < 0
}

// IsAfter reports whether t is strictly after other.
func (t TaiInstant) IsAfter(other TaiInstant) bool {
	return t.Compare(other) > 0
}

// Equal reports whether t and other represent the same instant.
func (t TaiInstant) Equal(other TaiInstant) bool {
	return t.v == other.v
}

// ToUtc converts t to UtcInstant via the system leap-second rules table.
func (t TaiInstant) ToUtc() (UtcInstant, error) {
	return SystemRules().ConvertToUtc(t)
}

// ToInstant converts t to the external leap-free Instant scale using the
// fixed base offset of 10 seconds, the inverse of OfInstant. This ignores
// any leap seconds accumulated since 1972; callers needing fidelity across
// a leap second must route through UtcInstant instead.
func (t TaiInstant) ToInstant() (Instant, error) {
	s, err := checkedSubInt64(t.v.seconds, OffsetMJDEpochToTaiEpochSecs)
	if err != nil {
		return Instant{}, err
	}
	s, err = checkedSubInt64(s, BaseTaiOffset)
	if err != nil {
		return Instant{}, err
	}
	return Instant{unixSeconds: s, nano: t.v.nano}, nil
}

// String renders t as "<tai_seconds>.<9-digit nano>s(TAI)". Negative
// tai_seconds carry a leading '-' on the integer portion only; the
// fraction is never signed.
func (t TaiInstant) String() string {
	return t.v.format("TAI")
}

// MarshalBinary implements encoding.BinaryMarshaler: 8 bytes big-endian
// tai_seconds followed by 4 bytes big-endian nano.
func (t TaiInstant) MarshalBinary() ([]byte, error) {
	return t.v.marshalBinary(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (t *TaiInstant) UnmarshalBinary(data []byte) error {
	v, err := unmarshalSecNanoBinary(data)
	if err != nil {
		return err
	}
	t.v = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t TaiInstant) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TaiInstant) UnmarshalText(text []byte) error {
	v, err := ParseTaiInstant(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t TaiInstant) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TaiInstant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseTaiInstant(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
