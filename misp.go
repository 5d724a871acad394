package timescale

import "encoding/json"

// mispEpochTai is the TAI instant representing MISP zero.
var mispEpochTai = TaiInstant{v: secNano{seconds: MispEpochTaiSeconds, nano: MispEpochTaiNanos}}

// MispInstant is a point on the MISP scale, a mission-specific time scale
// offset from TAI by the fixed constant mispEpochTai. Its contract is
// otherwise identical to TaiInstant; the arithmetic is reused from the
// shared secNano primitive rather than re-derived, per the design note
// that MispInstant should be implemented by reuse, not duplication.
type MispInstant struct {
	v secNano
}

// OfMispSeconds builds a MispInstant from an arbitrary (seconds, nanos)
// pair, normalising nanos into [0, NanosPerSec).
func OfMispSeconds(seconds, nanos int64) (MispInstant, error) {
	v, err := newSecNano(seconds, nanos)
	if err != nil {
		return MispInstant{}, err
	}
	return MispInstant{v: v}, nil
}

// OfTai converts a TaiInstant to MispInstant by subtracting mispEpochTai.
func OfTai(tai TaiInstant) (MispInstant, error) {
	d, err := mispEpochTai.DurationUntil(tai)
	if err != nil {
		return MispInstant{}, err
	}
	return OfMispSeconds(d.Seconds(), int64(d.Nano()))
}

// ParseMispInstant parses the canonical "-?[0-9]+.[0-9]{9}s(MISP)" form.
func ParseMispInstant(s string) (MispInstant, error) {
	v, err := parseSecNano(s, "MISP")
	if err != nil {
		return MispInstant{}, err
	}
	return MispInstant{v: v}, nil
}

// MispSeconds returns the whole-seconds-since-MISP-epoch component.
func (m MispInstant) MispSeconds() int64 {
	return m.v.seconds
}

// Nano returns the nanosecond-of-second component, always in
// [0, NanosPerSec).
func (m MispInstant) Nano() uint32 {
	return m.v.nano
}

// WithMispSeconds returns a copy of m with the seconds component replaced.
func (m MispInstant) WithMispSeconds(seconds int64) MispInstant {
	return MispInstant{v: secNano{seconds: seconds, nano: m.v.nano}}
}

// WithNano returns a copy of m with the nano component replaced, reporting
// ErrInvalidArgument if nano is outside [0, NanosPerSec).
func (m MispInstant) WithNano(nano uint32) (MispInstant, error) {
	if nano >= NanosPerSec {
		return MispInstant{}, errInvalidf("nano %d out of range [0, %d)", nano, NanosPerSec)
	}
	return MispInstant{v: secNano{seconds: m.v.seconds, nano: nano}}, nil
}

// Plus returns m+d, reporting ErrOverflow on overflow.
func (m MispInstant) Plus(d Duration) (MispInstant, error) {
	v, err := m.v.plus(d)
	if err != nil {
		return MispInstant{}, err
	}
	return MispInstant{v: v}, nil
}

// Minus returns m-d, reporting ErrOverflow on overflow.
func (m MispInstant) Minus(d Duration) (MispInstant, error) {
	v, err := m.v.minus(d)
	if err != nil {
		return MispInstant{}, err
	}
	return MispInstant{v: v}, nil
}

// DurationUntil returns other-m as a Duration.
func (m MispInstant) DurationUntil(other MispInstant) (Duration, error) {
	return m.v.durationUntil(other.v)
}

// Compare returns -1, 0 or +1 as m is before, equal to, or after other.
func (m MispInstant) Compare(other MispInstant) int {
	return m.v.compare(other.v)
}

// IsBefore reports whether m is strictly before other.
func (m MispInstant) IsBefore(other MispInstant) bool {
	return m.Compare(other) < 0
}

// IsAfter reports whether m is strictly after other.
func (m MispInstant) IsAfter(other MispInstant) bool {
	return m.Compare(other) > 0
}

// Equal reports whether m and other represent the same instant.
func (m MispInstant) Equal(other MispInstant) bool {
	return m.v == other.v
}

// ToTai converts m to TaiInstant by adding mispEpochTai.
func (m MispInstant) ToTai() (TaiInstant, error) {
	d, err := NewDuration(m.v.seconds, int64(m.v.nano))
	if err != nil {
		return TaiInstant{}, err
	}
	return mispEpochTai.Plus(d)
}

// ToUtc converts m to UtcInstant, composing through TaiInstant.
func (m MispInstant) ToUtc() (UtcInstant, error) {
	tai, err := m.ToTai()
	if err != nil {
		return UtcInstant{}, err
	}
	return tai.ToUtc()
}

// ToInstant converts m to the external leap-free Instant scale, composing
// through TaiInstant.
func (m MispInstant) ToInstant() (Instant, error) {
	tai, err := m.ToTai()
	if err != nil {
		return Instant{}, err
	}
	return tai.ToInstant()
}

// String renders m as "<misp_seconds>.<9-digit nano>s(MISP)".
func (m MispInstant) String() string {
	return m.v.format("MISP")
}

// MarshalBinary implements encoding.BinaryMarshaler: 8 bytes big-endian
// misp_seconds followed by 4 bytes big-endian nano.
func (m MispInstant) MarshalBinary() ([]byte, error) {
	return m.v.marshalBinary(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *MispInstant) UnmarshalBinary(data []byte) error {
	v, err := unmarshalSecNanoBinary(data)
	if err != nil {
		return err
	}
	m.v = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m MispInstant) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MispInstant) UnmarshalText(text []byte) error {
	v, err := ParseMispInstant(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m MispInstant) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *MispInstant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseMispInstant(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
