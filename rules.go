package timescale

import (
	"sort"
	"sync"
	"sync/atomic"

	"darvaza.org/core"
)

// LeapEntry is one row of the leap-second rules table: the day a leap
// second takes effect, its direction, and the cumulative TAI-UTC offset
// in effect once it has.
type LeapEntry struct {
	// Mjd is the Modified Julian Day the adjustment applies to.
	Mjd int64
	// Adjustment is +1 for a day lengthened by a leap second, -1 for a
	// day shortened by one. No other value is valid.
	Adjustment int8
	// TaiOffsetAfter is the cumulative TAI-UTC offset, in whole seconds,
	// once this day's leap second has been applied, i.e. from the start of
	// the following day onward.
	TaiOffsetAfter int32
}

// UtcRules is an immutable snapshot of the leap-second rules table: the
// sorted list of LeapEntry rows and the derived conversions between
// UtcInstant, TaiInstant and the external Instant scale. A new snapshot
// replaces the old one wholesale on registration; UtcRules values
// themselves are never mutated after construction, so a *UtcRules handed
// out by SystemRules is safe to keep and use concurrently.
type UtcRules struct {
	leaps []LeapEntry
}

// systemRules holds the process-wide singleton snapshot, swapped by
// Register/RegisterAll under systemRulesMu. Readers go through the atomic
// pointer and never block on the writer, the same lock-free-read,
// mutex-guarded-write shape used by sync/spinlock in the wider toolkit
// this package is drawn from.
var systemRules atomic.Pointer[UtcRules]
var systemRulesMu sync.Mutex

func init() {
	r := &UtcRules{leaps: append([]LeapEntry(nil), canonicalLeapSeconds...)}
	systemRules.Store(r)
}

// SystemRules returns the current process-wide leap-second rules
// snapshot. The returned pointer is immutable; a later Register or
// RegisterAll call produces a new snapshot rather than mutating this one.
func SystemRules() *UtcRules {
	return systemRules.Load()
}

// Register adds a single leap-second entry to the process-wide rules
// table, reporting ErrInvalidArgument if it does not sort strictly after
// the last registered entry or its adjustment is not ±1. As in
// RegisterAll, an exact repeat of an already-registered entry is a no-op.
func Register(e LeapEntry) error {
	return RegisterAll([]LeapEntry{e})
}

// RegisterAll adds one or more leap-second entries to the process-wide
// rules table in a single atomic swap. All entries are validated before
// any are applied; on validation failure the table is left unchanged and
// a core.CompoundError describing every rejected entry is returned. An
// entry that exactly repeats the mjd, adjustment and tai_offset_after of
// an already-registered entry is a no-op, not an error.
func RegisterAll(entries []LeapEntry) error {
	if entries == nil {
		return ErrNullArgument
	}
	systemRulesMu.Lock()
	defer systemRulesMu.Unlock()

	cur := systemRules.Load()
	next := append([]LeapEntry(nil), cur.leaps...)

	var errs core.CompoundError
	last := cur.leaps[len(cur.leaps)-1]
	for _, e := range entries {
		if e.Adjustment != 1 && e.Adjustment != -1 {
			errs.Append(ErrInvalidArgument, "mjd %d: adjustment must be ±1, got %d", e.Mjd, e.Adjustment)
			continue
		}
		if i := (&UtcRules{leaps: next}).entryAt(e.Mjd); i >= 0 {
			existing := next[i]
			if e.Adjustment == existing.Adjustment && e.TaiOffsetAfter == existing.TaiOffsetAfter {
				continue
			}
			errs.Append(ErrInvalidArgument, "mjd %d: conflicts with already-registered adjustment %d, tai_offset_after %d",
				e.Mjd, existing.Adjustment, existing.TaiOffsetAfter)
			continue
		}
		if e.Mjd < last.Mjd {
			errs.Append(ErrInvalidArgument, "mjd %d: must sort after last registered entry at mjd %d", e.Mjd, last.Mjd)
			continue
		}
		if e.TaiOffsetAfter != last.TaiOffsetAfter+int32(e.Adjustment) {
			errs.Append(ErrInvalidArgument, "mjd %d: tai_offset_after %d inconsistent with adjustment %d applied to %d",
				e.Mjd, e.TaiOffsetAfter, e.Adjustment, last.TaiOffsetAfter)
			continue
		}
		next = append(next, e)
		last = e
	}
	if err := errs.AsError(); err != nil {
		return err
	}

	systemRules.Store(&UtcRules{leaps: next})
	return nil
}

// entryAt returns the index of the entry at exactly mjd, or -1.
func (r *UtcRules) entryAt(mjd int64) int {
	i := sort.Search(len(r.leaps), func(i int) bool { return r.leaps[i].Mjd >= mjd })
	if i < len(r.leaps) && r.leaps[i].Mjd == mjd {
		return i
	}
	return -1
}

// lastBefore returns the index of the last entry with Mjd < mjd, or -1.
func (r *UtcRules) lastBefore(mjd int64) int {
	i := sort.Search(len(r.leaps), func(i int) bool { return r.leaps[i].Mjd >= mjd })
	return i - 1
}

// LeapSecondAdjustment returns the adjustment, ±1, in effect on mjd, or 0
// if mjd carries no leap second.
func (r *UtcRules) LeapSecondAdjustment(mjd int64) int8 {
	if i := r.entryAt(mjd); i >= 0 {
		return r.leaps[i].Adjustment
	}
	return 0
}

// TaiOffset returns the cumulative TAI-UTC offset, in whole seconds,
// effective by the end of mjd: if mjd itself carries a leap second, that
// adjustment is included.
func (r *UtcRules) TaiOffset(mjd int64) int32 {
	if i := r.entryAt(mjd); i >= 0 {
		return r.leaps[i].TaiOffsetAfter
	}
	return r.dayBaseOffset(mjd)
}

// dayBaseOffset returns the TAI-UTC offset in effect for the nominal,
// pre-leap seconds of mjd: the offset after the last entry strictly
// before mjd, excluding any adjustment mjd itself carries. convert_to_tai
// and the day-boundary search inside convert_to_utc both anchor on this
// value rather than TaiOffset, so that a leap day's own extra second is
// counted once, in nano_of_day, and not twice by also shifting the day's
// start.
func (r *UtcRules) dayBaseOffset(mjd int64) int32 {
	if i := r.lastBefore(mjd); i >= 0 {
		return r.leaps[i].TaiOffsetAfter
	}
	return BaseTaiOffset
}

// nanosPerDay returns the length of mjd in nanoseconds, SecsPerDay *
// NanosPerSec plus any leap adjustment.
func (r *UtcRules) nanosPerDay(mjd int64) int64 {
	return (SecsPerDay + int64(r.LeapSecondAdjustment(mjd))) * NanosPerSec
}

// systemHandle is the symbolic binary form every *UtcRules marshals to:
// there is only one rules table worth naming, the process-wide singleton,
// so the wire form is a handle rather than a snapshot of the table itself.
const systemHandle = "System"

// MarshalBinary implements encoding.BinaryMarshaler. A *UtcRules always
// marshals to the symbolic handle "System": UnmarshalBinary resolves it
// back to the SystemRules snapshot current at that moment and copies that
// snapshot's value into its receiver, rather than decoding a table from
// the wire form.
func (r *UtcRules) MarshalBinary() ([]byte, error) {
	if r == nil {
		return nil, ErrNilReceiver
	}
	return []byte(systemHandle), nil
}

// UtcRulesFromHandle resolves a marshaled handle back to the actual
// *UtcRules singleton pointer, giving true assertSame identity rather than
// a value copy; UnmarshalBinary uses this and copies the pointee into the
// caller's receiver, since encoding.BinaryUnmarshaler cannot redirect the
// caller's pointer itself.
func UtcRulesFromHandle(data []byte) (*UtcRules, error) {
	if string(data) != systemHandle {
		return nil, errParsef("%q is not a recognised UtcRules handle", data)
	}
	return SystemRules(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It accepts only
// the "System" handle and resolves *r to the process-wide singleton
// returned by SystemRules; it never reconstructs a standalone table.
func (r *UtcRules) UnmarshalBinary(data []byte) error {
	if r == nil {
		return ErrNilReceiver
	}
	resolved, err := UtcRulesFromHandle(data)
	if err != nil {
		return err
	}
	*r = *resolved
	return nil
}

// LeapSecondDates returns the Modified Julian Day of every registered
// leap second, in ascending order. The returned slice is a copy; the
// caller may not mutate the table through it.
func (r *UtcRules) LeapSecondDates() []int64 {
	out := make([]int64, len(r.leaps))
	for i, e := range r.leaps {
		out[i] = e.Mjd
	}
	return out
}

// ConvertToTai converts a UtcInstant to TaiInstant using dayBaseOffset,
// the offset in effect before mjd's own leap second (if any) is applied;
// the leap second itself, if u.nano_of_day reaches into it, is counted
// purely as elapsed nano_of_day.
func (r *UtcRules) ConvertToTai(u UtcInstant) (TaiInstant, error) {
	if r == nil {
		return TaiInstant{}, ErrNilReceiver
	}
	startOfDayTai, err := startOfDayTaiSeconds(u.mjd, r.dayBaseOffset(u.mjd))
	if err != nil {
		return TaiInstant{}, err
	}
	secs, nanos := floorDivMod(u.nanoOfDay, NanosPerSec)
	taiSeconds, err := checkedAddInt64(startOfDayTai, secs)
	if err != nil {
		return TaiInstant{}, err
	}
	return TaiInstant{v: secNano{seconds: taiSeconds, nano: uint32(nanos)}}, nil
}

// ConvertToUtc converts a TaiInstant to UtcInstant, locating the UTC day
// whose true, possibly leap-adjusted, span contains t by an initial guess
// followed by a short correction walk.
func (r *UtcRules) ConvertToUtc(t TaiInstant) (UtcInstant, error) {
	if r == nil {
		return UtcInstant{}, ErrNilReceiver
	}
	dayGuess, _ := floorDivMod(t.v.seconds, SecsPerDay)
	mjdGuess, err := checkedAddInt64(dayGuess, TaiMJDEpoch)
	if err != nil {
		return UtcInstant{}, err
	}

	mjd, diffSecs, err := locateDay(t.v.seconds, mjdGuess,
		func(m int64) (int64, error) { return startOfDayTaiSeconds(m, r.dayBaseOffset(m)) },
		func(m int64) int64 { return SecsPerDay + int64(r.LeapSecondAdjustment(m)) })
	if err != nil {
		return UtcInstant{}, err
	}
	nanoOfDay, err := checkedAddInt64(diffSecs*NanosPerSec, int64(t.v.nano))
	if err != nil {
		return UtcInstant{}, err
	}
	return UtcInstant{mjd: mjd, nanoOfDay: nanoOfDay}, nil
}

// startOfDayTaiSeconds returns the TAI-seconds instant of 00:00:00 on
// mjd, given the offset in effect at that moment.
func startOfDayTaiSeconds(mjd int64, offset int32) (int64, error) {
	daySecs, err := checkedMulInt64(mjd-TaiMJDEpoch, SecsPerDay)
	if err != nil {
		return 0, err
	}
	return checkedAddInt64(daySecs, int64(offset))
}

// locateDay finds the mjd whose [startOfDay(mjd), startOfDay(mjd)+dayLen(mjd))
// span contains value, starting from guess and walking one day at a time.
// The guess is accurate to within a day or two in every caller, so this
// terminates in a handful of iterations regardless of how far value is
// from the epoch.
func locateDay(value, guess int64, startOfDay func(int64) (int64, error), dayLen func(int64) int64) (mjd, diff int64, err error) {
	mjd = guess
	for {
		start, err := startOfDay(mjd)
		if err != nil {
			return 0, 0, err
		}
		diff, err = checkedSubInt64(value, start)
		if err != nil {
			return 0, 0, err
		}

		switch {
		case diff < 0:
			if mjd, err = checkedAddInt64(mjd, -1); err != nil {
				return 0, 0, err
			}
		case diff >= dayLen(mjd):
			if mjd, err = checkedAddInt64(mjd, 1); err != nil {
				return 0, 0, err
			}
		default:
			return mjd, diff, nil
		}
	}
}

// slsStartNanos is sls_start_utc_nanos: the UTC nano-of-day at which the
// Smoothed Leap Second stretch begins on a positive-leap day.
const slsStartNanos = 85401 * NanosPerSec

// ConvertToInstant converts a UtcInstant to the external leap-free
// Instant scale. On a day with leap_adjustment == +1, nano_of_day in the
// last 1000 SI seconds of the day, [slsStartNanos, 86401e9), is mapped
// linearly onto the Instant day by the factor 1000/1001, so that window
// spans about 999.001 Instant seconds: its last millisecond maps past the
// end of the Instant day, onto the first millisecond of the following
// day. Every other day maps its nano_of_day onto the Instant day directly.
func (r *UtcRules) ConvertToInstant(u UtcInstant) (Instant, error) {
	if r == nil {
		return Instant{}, ErrNilReceiver
	}
	instantNanosIntoDay := u.nanoOfDay
	if r.LeapSecondAdjustment(u.mjd) == 1 && u.nanoOfDay >= slsStartNanos {
		instantNanosIntoDay = slsStartNanos + ((u.nanoOfDay-slsStartNanos)*1000)/1001
	}

	secOfDay, nanoRem := floorDivMod(instantNanosIntoDay, NanosPerSec)
	dayStartUnix, err := checkedMulInt64(u.mjd-MJDEpoch, SecsPerDay)
	if err != nil {
		return Instant{}, err
	}
	unixSeconds, err := checkedAddInt64(dayStartUnix, secOfDay)
	if err != nil {
		return Instant{}, err
	}
	return Instant{unixSeconds: unixSeconds, nano: uint32(nanoRem)}, nil
}

// ConvertFromInstant is the inverse of ConvertToInstant. Within the SLS
// window of a positive-leap day the inverse is lossy at sub-nanosecond
// granularity: UtcInstant -> Instant -> UtcInstant may drift by up to one
// nanosecond, an accepted property of the mapping rather than a defect.
func (r *UtcRules) ConvertFromInstant(i Instant) (UtcInstant, error) {
	if r == nil {
		return UtcInstant{}, ErrNilReceiver
	}
	dayGuess, _ := floorDivMod(i.unixSeconds, SecsPerDay)
	mjdGuess, err := checkedAddInt64(dayGuess, MJDEpoch)
	if err != nil {
		return UtcInstant{}, err
	}

	mjd, diffSecs, err := locateDay(i.unixSeconds, mjdGuess,
		func(m int64) (int64, error) { return checkedMulInt64(m-MJDEpoch, SecsPerDay) },
		func(int64) int64 { return SecsPerDay })
	if err != nil {
		return UtcInstant{}, err
	}
	instantNanosIntoDay, err := checkedAddInt64(diffSecs*NanosPerSec, int64(i.nano))
	if err != nil {
		return UtcInstant{}, err
	}

	nanoOfDay := instantNanosIntoDay
	if r.LeapSecondAdjustment(mjd) == 1 && instantNanosIntoDay >= slsStartNanos {
		nanoOfDay = slsStartNanos + ((instantNanosIntoDay-slsStartNanos)*1001)/1000
	}
	return UtcInstant{mjd: mjd, nanoOfDay: nanoOfDay}, nil
}

// canonicalLeapSeconds is the historical leap-second table as maintained
// by IERS, in force since the introduction of leap seconds in 1972.
// TaiOffsetAfter accumulates on top of BaseTaiOffset, the 10-second
// offset in effect before the first entry.
var canonicalLeapSeconds = []LeapEntry{
	{Mjd: 41498, Adjustment: 1, TaiOffsetAfter: 11}, // 1972-06-30
	{Mjd: 41682, Adjustment: 1, TaiOffsetAfter: 12}, // 1972-12-31
	{Mjd: 42047, Adjustment: 1, TaiOffsetAfter: 13}, // 1973-12-31
	{Mjd: 42412, Adjustment: 1, TaiOffsetAfter: 14}, // 1974-12-31
	{Mjd: 42777, Adjustment: 1, TaiOffsetAfter: 15}, // 1975-12-31
	{Mjd: 43143, Adjustment: 1, TaiOffsetAfter: 16}, // 1976-12-31
	{Mjd: 43508, Adjustment: 1, TaiOffsetAfter: 17}, // 1977-12-31
	{Mjd: 43873, Adjustment: 1, TaiOffsetAfter: 18}, // 1978-12-31
	{Mjd: 44238, Adjustment: 1, TaiOffsetAfter: 19}, // 1979-12-31
	{Mjd: 44785, Adjustment: 1, TaiOffsetAfter: 20}, // 1981-06-30
	{Mjd: 45150, Adjustment: 1, TaiOffsetAfter: 21}, // 1982-06-30
	{Mjd: 45515, Adjustment: 1, TaiOffsetAfter: 22}, // 1983-06-30
	{Mjd: 46246, Adjustment: 1, TaiOffsetAfter: 23}, // 1985-06-30
	{Mjd: 47160, Adjustment: 1, TaiOffsetAfter: 24}, // 1987-12-31
	{Mjd: 47891, Adjustment: 1, TaiOffsetAfter: 25}, // 1989-12-31
	{Mjd: 48256, Adjustment: 1, TaiOffsetAfter: 26}, // 1990-12-31
	{Mjd: 48803, Adjustment: 1, TaiOffsetAfter: 27}, // 1992-06-30
	{Mjd: 49168, Adjustment: 1, TaiOffsetAfter: 28}, // 1993-06-30
	{Mjd: 49533, Adjustment: 1, TaiOffsetAfter: 29}, // 1994-06-30
	{Mjd: 50082, Adjustment: 1, TaiOffsetAfter: 30}, // 1995-12-31
	{Mjd: 50629, Adjustment: 1, TaiOffsetAfter: 31}, // 1997-06-30
	{Mjd: 51178, Adjustment: 1, TaiOffsetAfter: 32}, // 1998-12-31
	{Mjd: 53735, Adjustment: 1, TaiOffsetAfter: 33}, // 2005-12-31
	{Mjd: 54831, Adjustment: 1, TaiOffsetAfter: 34}, // 2008-12-31
	{Mjd: 56108, Adjustment: 1, TaiOffsetAfter: 35}, // 2012-06-30
	{Mjd: 57203, Adjustment: 1, TaiOffsetAfter: 36}, // 2015-06-30
	{Mjd: 57753, Adjustment: 1, TaiOffsetAfter: 37}, // 2016-12-31
}
