package timescale

import (
	"encoding/binary"
	"math"
)

// Package-wide constants named in the data model; these are the only
// magic numbers the arithmetic in this package touches.
const (
	// NanosPerSec is the number of nanoseconds in one SI second.
	NanosPerSec = 1_000_000_000

	// SecsPerDay is the number of seconds in a day with no leap second.
	SecsPerDay = 86_400

	// MJDEpoch is the Modified Julian Day number of 1970-01-01, the Unix
	// epoch.
	MJDEpoch = 40_587

	// TaiMJDEpoch is the Modified Julian Day number of 1958-01-01, the
	// epoch TAI seconds are counted from.
	TaiMJDEpoch = 36_204

	// OffsetMJDEpochToTaiEpochSecs is the number of SI seconds between
	// the TAI epoch and the Unix epoch.
	OffsetMJDEpochToTaiEpochSecs = (MJDEpoch - TaiMJDEpoch) * SecsPerDay

	// BaseTaiOffset is the TAI-UTC offset in effect before the first
	// registered leap second, and the additive constant every later
	// offset accumulates on top of.
	BaseTaiOffset = 10

	// MispEpochTaiSeconds and MispEpochTaiNanos together are the TAI
	// instant representing MISP zero.
	MispEpochTaiSeconds = 378_691_208
	MispEpochTaiNanos   = 82_000
)

// normalizeNanos converts an arbitrary (seconds, nanos) pair to canonical
// form with 0 <= nano < NanosPerSec, reporting ErrOverflow if the carry
// into seconds exceeds the range of an int64.
func normalizeNanos(seconds, nanos int64) (int64, uint32, error) {
	extra, frac := floorDivMod(nanos, NanosPerSec)

	result, err := checkedAddInt64(seconds, extra)
	if err != nil {
		return 0, 0, errOverflowf("normalising (%d, %d): %v", seconds, nanos, err)
	}
	return result, uint32(frac), nil
}

// floorDivMod returns the quotient and remainder of n/d using floor
// division (rounding toward negative infinity), so the remainder always
// has the same sign as d. d is always NanosPerSec, a positive constant,
// in every caller.
func floorDivMod(n, d int64) (q, r int64) {
	q = n / d
	r = n % d
	if r != 0 && (r < 0) != (d < 0) {
		q--
		r += d
	}
	return q, r
}

// checkedAddInt64 adds a and b, reporting ErrOverflow instead of wrapping
// silently.
func checkedAddInt64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, errOverflowf("%d + %d overflows int64", a, b)
	}
	return sum, nil
}

// checkedSubInt64 subtracts b from a, reporting ErrOverflow instead of
// wrapping silently.
func checkedSubInt64(a, b int64) (int64, error) {
	if b == math.MinInt64 {
		// -b would itself overflow; a - MinInt64 only fits when a < 0.
		if a >= 0 {
			return 0, errOverflowf("%d - %d overflows int64", a, b)
		}
		return a - b, nil
	}
	return checkedAddInt64(a, -b)
}

// checkedNegInt64 negates a, reporting ErrOverflow for math.MinInt64 which
// has no positive counterpart in int64.
func checkedNegInt64(a int64) (int64, error) {
	if a == math.MinInt64 {
		return 0, errOverflowf("negating %d overflows int64", a)
	}
	return -a, nil
}

// checkedMulInt64 multiplies a and b, reporting ErrOverflow instead of
// wrapping silently.
func checkedMulInt64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a == -1 && b == math.MinInt64 {
		return 0, errOverflowf("%d * %d overflows int64", a, b)
	}
	if b == -1 && a == math.MinInt64 {
		return 0, errOverflowf("%d * %d overflows int64", a, b)
	}
	result := a * b
	if result/b != a {
		return 0, errOverflowf("%d * %d overflows int64", a, b)
	}
	return result, nil
}

// putInt64 writes v as 8 bytes big-endian into buf.
func putInt64(buf []byte, v int64) {
	binary.BigEndian.PutUint64(buf, uint64(v))
}

// getInt64 reads 8 big-endian bytes from buf as an int64.
func getInt64(buf []byte) int64 {
	return int64(binary.BigEndian.Uint64(buf))
}
