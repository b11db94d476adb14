package engine

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/dhowden/tag"
)

// LogWriter appends the four fixed playback-history line formats (§6.4)
// to a log file: one line per item actually started, tagged with the
// reason it was chosen. Safe for concurrent use by the block and
// time-signal engines sharing one log file.
type LogWriter struct {
	mu sync.Mutex
	f  *os.File
}

// NewLogWriter opens path for appending, creating it if necessary.
func NewLogWriter(path string) (*LogWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &LogWriter{f: f}, nil
}

// Close closes the underlying file.
func (lw *LogWriter) Close() error {
	return lw.f.Close()
}

func (lw *LogWriter) writeLine(line string) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(lw.f, "%s %s\n", ts, line)
}

// URI logs the URI of an item that just started playing (the on-disk
// §6.4 log line) and, separately, emits its ID3/tag title and artist as a
// structured slog event when uri is a local path the tag library can
// open. The tag lookup never touches the four fixed on-disk line formats
// — it is process diagnostics, not part of the spec-mandated log file.
func (lw *LogWriter) URI(uri string) {
	lw.writeLine(fmt.Sprintf("URI: %s", uri))
	if title, artist, ok := readTrackTags(uri); ok {
		slog.Info("now playing", "uri", uri, "title", title, "artist", artist)
	}
}

// readTrackTags opens uri as a local file and reads its ID3/tag title and
// artist. uri may carry a file:// scheme (as produced by the playlist
// expander); the scheme is stripped before opening. It returns ok=false
// for anything that isn't a readable local media file, including remote
// stream URIs.
func readTrackTags(uri string) (title, artist string, ok bool) {
	path := uri
	if u, err := url.Parse(uri); err == nil && u.Scheme == "file" {
		path = u.Path
	}

	f, err := os.Open(path)
	if err != nil {
		return "", "", false
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		slog.Debug("could not read tags", "uri", uri, "error", err)
		return "", "", false
	}
	if m.Title() == "" && m.Artist() == "" {
		return "", "", false
	}
	return m.Title(), m.Artist(), true
}

// RegularBlock logs that a scheduled block was cut to.
func (lw *LogWriter) RegularBlock(name string) {
	lw.writeLine(fmt.Sprintf("Regular block: %q", name))
}

// DefaultBlock logs that the default block was loaded after a playlist
// ran out with nothing scheduled to replace it.
func (lw *LogWriter) DefaultBlock(name string) {
	lw.writeLine(fmt.Sprintf("Default block: %q", name))
}

// TimeSignalBlock logs that a time-signal block was loaded on the
// time-signal engine's own player.
func (lw *LogWriter) TimeSignalBlock(name string) {
	lw.writeLine(fmt.Sprintf("Time signal block: %q", name))
}
