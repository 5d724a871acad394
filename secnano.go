package timescale

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"
)

// secNano is the (seconds, nano) representation shared by TaiInstant and
// MispInstant. Both scales are a plain seconds-since-epoch counter with a
// nanosecond fraction and identical carry/borrow, comparison and textual
// rules; factoring the shared half out here means the two scales reuse one
// implementation of the arithmetic instead of duplicating it, per the
// design note that MispInstant's arithmetic should be reused from
// TaiInstant's rather than re-derived.
type secNano struct {
	seconds int64
	nano    uint32
}

func newSecNano(seconds, nanos int64) (secNano, error) {
	s, n, err := normalizeNanos(seconds, nanos)
	if err != nil {
		return secNano{}, err
	}
	return secNano{seconds: s, nano: n}, nil
}

func (x secNano) plus(d Duration) (secNano, error) {
	s, err := checkedAddInt64(x.seconds, d.seconds)
	if err != nil {
		return secNano{}, err
	}
	return newSecNano(s, int64(x.nano)+int64(d.nano))
}

func (x secNano) minus(d Duration) (secNano, error) {
	neg, err := d.Negate()
	if err != nil {
		return secNano{}, err
	}
	return x.plus(neg)
}

func (x secNano) durationUntil(y secNano) (Duration, error) {
	s, err := checkedSubInt64(y.seconds, x.seconds)
	if err != nil {
		return Duration{}, err
	}
	return NewDuration(s, int64(y.nano)-int64(x.nano))
}

func (x secNano) compare(y secNano) int {
	switch {
	case x.seconds < y.seconds:
		return -1
	case x.seconds > y.seconds:
		return 1
	case x.nano < y.nano:
		return -1
	case x.nano > y.nano:
		return 1
	default:
		return 0
	}
}

// format renders x as "<seconds>.<9-digit nano>s(<suffix>)".
func (x secNano) format(suffix string) string {
	return fmt.Sprintf("%d.%09ds(%s)", x.seconds, x.nano, suffix)
}

var secNanoPattern = regexp.MustCompile(`^(-?[0-9]+)\.([0-9]{9})s\(([A-Z]+)\)$`)

// parseSecNano parses the "-?[0-9]+.[0-9]{9}s(SUFFIX)" grammar, requiring
// an exact match of suffix and a nine-digit fraction.
func parseSecNano(s, suffix string) (secNano, error) {
	m := secNanoPattern.FindStringSubmatch(s)
	if m == nil || m[3] != suffix {
		return secNano{}, errParsef("%q does not match the TAI/MISP instant grammar", s)
	}

	seconds, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return secNano{}, errParsef("%q: integer part overflows int64", s)
	}
	nano, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return secNano{}, errParsef("%q: nano part invalid", s)
	}
	return secNano{seconds: seconds, nano: uint32(nano)}, nil
}

const secNanoBinaryLength = 12

func (x secNano) marshalBinary() []byte {
	buf := make([]byte, secNanoBinaryLength)
	binary.BigEndian.PutUint64(buf[:8], uint64(x.seconds))
	binary.BigEndian.PutUint32(buf[8:], x.nano)
	return buf
}

func unmarshalSecNanoBinary(data []byte) (secNano, error) {
	if len(data) != secNanoBinaryLength {
		return secNano{}, errInvalidf("binary length %d, want %d", len(data), secNanoBinaryLength)
	}
	seconds := int64(binary.BigEndian.Uint64(data[:8]))
	nano := binary.BigEndian.Uint32(data[8:])
	if nano >= NanosPerSec {
		return secNano{}, errInvalidf("nano %d out of range [0, %d)", nano, NanosPerSec)
	}
	return secNano{seconds: seconds, nano: nano}, nil
}
