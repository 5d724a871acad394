// Package timescale provides overflow-safe TAI, MISP and leap-second-aware
// UTC instants, plus the leap-second rules table and Smoothed Leap Second
// (SLS) bridge to a leap-free external instant scale.
//
// TaiInstant is the hub of the package: UtcInstant conversions go through
// the leap-second rules table (UtcRules / SystemRules), the external Instant
// adapter is a constant-offset translation, and MispInstant is a constant
// offset from TaiInstant.
package timescale
