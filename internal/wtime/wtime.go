// Package wtime implements millisecond arithmetic on a cyclic week.
package wtime

import "time"

// Millisecond durations used throughout the scheduling engine.
const (
	Second = int64(1000)
	Minute = 60 * Second
	Hour   = 60 * Minute
	Day    = 24 * Hour
	Week   = 7 * Day
)

// Now returns the current week-time in milliseconds, derived from the
// local-time decomposition of the system clock. Sunday 00:00:00.000 is 0.
func Now() int64 {
	return FromTime(time.Now())
}

// FromTime converts a wall-clock instant to week-time milliseconds using
// its local-time decomposition (weekday, hour, minute, second, nanosecond).
func FromTime(t time.Time) int64 {
	wday := int64(t.Weekday()) // time.Sunday == 0
	h, m, s := int64(t.Hour()), int64(t.Minute()), int64(t.Second())
	ms := int64(t.Nanosecond()) / int64(time.Millisecond)
	return wday*Day + h*Hour + m*Minute + s*Second + ms
}

// CyclicAdd returns (a+b) mod Week, normalized to [0, Week).
func CyclicAdd(a, b int64) int64 {
	return normalize(a + b)
}

// CyclicDiff returns the non-negative distance from b forward to a, mod
// Week: ((a-b) mod Week + Week) mod Week. CyclicDiff(a,a) == 0;
// CyclicDiff(0,1) == Week-1.
func CyclicDiff(a, b int64) int64 {
	return normalize(normalize(a-b) + Week)
}

// Reached reports whether t lies within window milliseconds after t0 on
// the cyclic week.
func Reached(t, t0, window int64) bool {
	return CyclicDiff(t, t0) <= window
}

// Convert decomposes a non-negative millisecond duration into hours,
// minutes and seconds by integer division. Callers use it on durations of
// at most one week.
func Convert(ms int64) (hours, minutes, seconds int64) {
	if ms < 0 {
		ms = 0
	}
	hours = ms / Hour
	ms -= hours * Hour
	minutes = ms / Minute
	ms -= minutes * Minute
	seconds = ms / Second
	return
}

func normalize(v int64) int64 {
	v %= Week
	if v < 0 {
		v += Week
	}
	return v
}
