// Package schedule implements the weekly cyclic schedule: an ordered set
// of (week_time, block_name) entries queried for the "current" and
// "next" entry relative to a reference week-time.
package schedule

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arung-agamani/denpa-radio/internal/config/directive"
	"github.com/arung-agamani/denpa-radio/internal/wtime"
)

// Entry is a single (time, block) pair.
type Entry struct {
	Time  int64 // week-time milliseconds
	Block string
}

var weekdays = map[string]int64{
	"sunday": 0, "monday": 1, "tuesday": 2, "wednesday": 3,
	"thursday": 4, "friday": 5, "saturday": 6,
}

// Schedule holds entries in file order.
type Schedule struct {
	entries []Entry
}

// New returns an empty schedule.
func New() *Schedule {
	return &Schedule{}
}

// Add appends an entry, preserving file/insertion order.
func (s *Schedule) Add(e Entry) {
	s.entries = append(s.entries, e)
}

// Entries returns every loaded entry in file order.
func (s *Schedule) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of loaded entries.
func (s *Schedule) Len() int {
	return len(s.entries)
}

// Current returns the entry minimizing cyclic_diff(t, entry.time): the
// most recently "passed" entry on the cyclic week. Ties are broken by
// earliest position in iteration order. Returns ok=false if empty.
func (s *Schedule) Current(t int64) (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	best := s.entries[0]
	bestDiff := wtime.CyclicDiff(t, best.Time)
	for _, e := range s.entries[1:] {
		d := wtime.CyclicDiff(t, e.Time)
		if d < bestDiff {
			best, bestDiff = e, d
		}
	}
	return best, true
}

// Next returns the entry minimizing cyclic_diff(entry.time, t) subject to
// that difference being strictly positive. If no entry has a strictly
// positive difference (e.g. a single entry equal to t), the seed entry
// (first in iteration order) is returned instead, per spec semantics.
// Returns ok=false only if the schedule is empty.
func (s *Schedule) Next(t int64) (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	seed := s.entries[0]
	var best Entry
	var bestDiff int64 = -1
	for _, e := range s.entries {
		d := wtime.CyclicDiff(e.Time, t)
		if d > 0 && (bestDiff < 0 || d < bestDiff) {
			best, bestDiff = e, d
		}
	}
	if bestDiff < 0 {
		return seed, true
	}
	return best, true
}

// Load reads a schedule file: three tokens per line (weekday, HH:MM:SS,
// block name). Malformed lines are dropped; loading continues. Returns
// the number of entries loaded and the number of lines skipped.
func Load(path string) (*Schedule, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open schedule file: %w", err)
	}
	defer f.Close()

	sch := New()
	var loaded, skipped int

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tokens := directive.Tokenize(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) != 3 {
			skipped++
			continue
		}
		wday, ok := weekdays[strings.ToLower(tokens[0])]
		if !ok {
			skipped++
			continue
		}
		tod, ok := parseTimeOfDay(tokens[1])
		if !ok {
			skipped++
			continue
		}
		sch.Add(Entry{Time: wday*wtime.Day + tod, Block: tokens[2]})
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return sch, loaded, skipped, fmt.Errorf("read schedule file: %w", err)
	}
	return sch, loaded, skipped, nil
}

// parseTimeOfDay parses "HH:MM:SS" into milliseconds since midnight,
// validating 0<=H<=23, 0<=M<=59, 0<=S<=59.
func parseTimeOfDay(s string) (int64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, false
	}
	return int64(h)*wtime.Hour + int64(m)*wtime.Minute + int64(sec)*wtime.Second, true
}

// String renders the schedule the way the original daemon dumps its
// loaded tables for operator debugging (see aras_schedule_print).
func (s *Schedule) String() string {
	var b strings.Builder
	for _, e := range s.entries {
		h, m, sec := wtime.Convert(e.Time)
		fmt.Fprintf(&b, "%02d:%02d:%02d %s\n", h, m, sec, e.Block)
	}
	return b.String()
}
