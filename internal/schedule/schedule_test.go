package schedule

import (
	"os"
	"testing"

	"github.com/arung-agamani/denpa-radio/internal/wtime"
)

func TestCurrentMostRecentlyPassed(t *testing.T) {
	s := New()
	s.Add(Entry{Time: 8 * wtime.Hour, Block: "news"})
	s.Add(Entry{Time: 9 * wtime.Hour, Block: "music"})

	e, ok := s.Current(8*wtime.Hour + 59*wtime.Minute + 59*wtime.Second + 950)
	if !ok || e.Block != "news" {
		t.Fatalf("Current = %+v, ok=%v, want news", e, ok)
	}
}

func TestNextAcrossWeekBoundary(t *testing.T) {
	s := New()
	s.Add(Entry{Time: 0, Block: "daily"}) // Sunday 00:00:00

	saturday235959 := int64(6)*wtime.Day + 23*wtime.Hour + 59*wtime.Minute + 59*wtime.Second
	e, ok := s.Next(saturday235959)
	if !ok || e.Block != "daily" {
		t.Fatalf("Next = %+v, ok=%v, want daily", e, ok)
	}
	if d := wtime.CyclicDiff(e.Time, saturday235959); d != wtime.Second {
		t.Fatalf("diff = %d, want %d", d, wtime.Second)
	}
}

func TestEmptySchedule(t *testing.T) {
	s := New()
	if _, ok := s.Current(0); ok {
		t.Fatal("expected ok=false on empty schedule")
	}
	if _, ok := s.Next(0); ok {
		t.Fatal("expected ok=false on empty schedule")
	}
}

func TestLoadDropsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/schedule.conf"
	content := "sunday 00:00:00 daily\nbadweekday 10:00:00 x\nmonday 25:00:00 bad\nmonday 08:00:00 news\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	sch, loaded, skipped, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != 2 || skipped != 2 {
		t.Fatalf("loaded=%d skipped=%d, want 2/2", loaded, skipped)
	}
	if sch.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", sch.Len())
	}
}
