package timescale

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Instant is an external, leap-second-free Unix-epoch point with
// nanosecond precision. It carries no leap-second awareness of its own;
// TaiInstant bridges to it by a constant offset, UtcInstant by the SLS
// mapping in UtcRules.
type Instant struct {
	unixSeconds int64
	nano        uint32
}

// NewInstant builds an Instant from an arbitrary (unixSeconds, nanos)
// pair, normalising nanos into [0, NanosPerSec).
func NewInstant(unixSeconds, nanos int64) (Instant, error) {
	s, n, err := normalizeNanos(unixSeconds, nanos)
	if err != nil {
		return Instant{}, err
	}
	return Instant{unixSeconds: s, nano: n}, nil
}

// UnixSeconds returns the whole-seconds-since-Unix-epoch component.
func (i Instant) UnixSeconds() int64 {
	return i.unixSeconds
}

// Nano returns the nanosecond-of-second component, always in
// [0, NanosPerSec).
func (i Instant) Nano() uint32 {
	return i.nano
}

// Compare returns -1, 0 or +1 as i is before, equal to, or after other.
func (i Instant) Compare(other Instant) int {
	switch {
	case i.unixSeconds < other.unixSeconds:
		return -1
	case i.unixSeconds > other.unixSeconds:
		return 1
	case i.nano < other.nano:
		return -1
	case i.nano > other.nano:
		return 1
	default:
		return 0
	}
}

// IsBefore reports whether i is strictly before other.
func (i Instant) IsBefore(other Instant) bool {
	return i.Compare(other) < 0
}

// IsAfter reports whether i is strictly after other.
func (i Instant) IsAfter(other Instant) bool {
	return i.Compare(other) > 0
}

// Equal reports whether i and other represent the same instant.
func (i Instant) Equal(other Instant) bool {
	return i == other
}

// String renders i as "<unix_seconds>.<9-digit nano>s".
func (i Instant) String() string {
	return fmt.Sprintf("%d.%09ds", i.unixSeconds, i.nano)
}

const instantBinaryLength = 12

// MarshalBinary implements encoding.BinaryMarshaler: 8 bytes big-endian
// unix_seconds followed by 4 bytes big-endian nano.
func (i Instant) MarshalBinary() ([]byte, error) {
	buf := make([]byte, instantBinaryLength)
	binary.BigEndian.PutUint64(buf[:8], uint64(i.unixSeconds))
	binary.BigEndian.PutUint32(buf[8:], i.nano)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (i *Instant) UnmarshalBinary(data []byte) error {
	if len(data) != instantBinaryLength {
		return errInvalidf("binary length %d, want %d", len(data), instantBinaryLength)
	}
	nano := binary.BigEndian.Uint32(data[8:])
	if nano >= NanosPerSec {
		return errInvalidf("nano %d out of range [0, %d)", nano, NanosPerSec)
	}
	i.unixSeconds = int64(binary.BigEndian.Uint64(data[:8]))
	i.nano = nano
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}
