package ffmpegplayer

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// probeDurationMs shells out to ffprobe (installed alongside ffmpeg) for
// the duration of a local or remote URI. Remote/live streams typically
// report no duration; probeDurationMs then returns 0, which
// player.Player documents as "unknown/streaming".
func probeDurationMs(uri string) int64 {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		uri,
	).Output()
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return int64(seconds * 1000)
}
