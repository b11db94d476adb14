package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
)

// Encoder wraps the ffmpeg subprocess invocations shared by the decode and
// encode stages of a deck's pipeline: one configured bitrate/sample
// rate/channel count, several ways of driving ffmpeg around it.
type Encoder struct {
	bitrate    string
	sampleRate string
	channels   string
}

func NewEncoder(bitrate, sampleRate, channels string) *Encoder {
	return &Encoder{
		bitrate:    bitrate,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

func (e *Encoder) Stream(ctx context.Context, inputFile string, output io.Writer) error {
	args := []string{
		"-re",           // Real-time processing
		"-i", inputFile, // Input file
		"-f", "mp3", // Output format
		"-b:a", e.bitrate, // Audio bitrate
		"-ac", e.channels, // Audio channels (stereo)
		"-ar", e.sampleRate, // Sample rate
		"-vn",    // No video
		"pipe:1", // Output to stdout
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	// Start FFmpeg
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// Log FFmpeg errors in background
	go drainStderr(stderr, "stream")

	// Copy output to writer
	_, copyErr := io.Copy(output, stdout)

	// Wait for command to finish
	waitErr := cmd.Wait()

	if copyErr != nil && ctx.Err() == nil {
		return fmt.Errorf("stream copy error: %w", copyErr)
	}

	if waitErr != nil && ctx.Err() == nil {
		return fmt.Errorf("ffmpeg process error: %w", waitErr)
	}

	return nil
}

// ConvertToOGG converts an audio file to OGG Vorbis format. The output file
// is written to outputFile. The conversion uses the encoder's configured
// bitrate, sample rate, and channel count. Metadata from the source file is
// preserved automatically by ffmpeg.
func (e *Encoder) ConvertToOGG(ctx context.Context, inputFile, outputFile string) error {
	args := []string{
		"-y",            // Overwrite output without asking
		"-i", inputFile, // Input file
		"-vn",               // No video
		"-c:a", "libvorbis", // OGG Vorbis codec
		"-b:a", e.bitrate, // Audio bitrate
		"-ac", e.channels, // Audio channels
		"-ar", e.sampleRate, // Sample rate
		"-map_metadata", "0", // Preserve metadata from input
		outputFile,
	}

	slog.Info("Converting audio to OGG",
		"input", inputFile,
		"output", outputFile,
		"bitrate", e.bitrate,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		slog.Error("ffmpeg OGG conversion failed",
			"input", inputFile,
			"output", outputFile,
			"stderr", stderrBuf.String(),
			"error", err,
		)
		return fmt.Errorf("ffmpeg OGG conversion failed: %w", err)
	}

	slog.Info("OGG conversion complete", "output", outputFile)
	return nil
}

// StartDecoder spawns an ffmpeg process that decodes uri in real time into
// raw interleaved s16le PCM on stdout, at the encoder's configured sample
// rate and channel count. The caller owns the returned process: read
// stdout until EOF/error, then Wait. Cancelling ctx kills the process.
func (e *Encoder) StartDecoder(ctx context.Context, uri string) (cmd *exec.Cmd, stdout io.ReadCloser, err error) {
	cmd = exec.CommandContext(ctx, "ffmpeg",
		"-re",
		"-i", uri,
		"-vn",
		"-f", "s16le",
		"-ar", e.sampleRate,
		"-ac", e.channels,
		"pipe:1",
	)
	stdout, err = cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("decoder stdout pipe: %w", err)
	}
	stderr, _ := cmd.StderrPipe()
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("decoder start: %w", err)
	}
	if stderr != nil {
		go drainStderr(stderr, "decode")
	}
	return cmd, stdout, nil
}

// StartPCMEncoder spawns a long-lived ffmpeg process that reads raw
// interleaved s16le PCM from stdin, at the encoder's configured sample
// rate and channel count, and writes MP3 at the encoder's configured
// bitrate to stdout. The caller drives it by writing PCM chunks to stdin
// and reading encoded bytes from stdout concurrently; closing stdin and
// then Wait shuts it down.
func (e *Encoder) StartPCMEncoder(ctx context.Context) (cmd *exec.Cmd, stdin io.WriteCloser, stdout io.ReadCloser, err error) {
	cmd = exec.CommandContext(ctx, "ffmpeg",
		"-f", "s16le",
		"-ar", e.sampleRate,
		"-ac", e.channels,
		"-i", "pipe:0",
		"-c:a", "libmp3lame",
		"-b:a", e.bitrate,
		"-f", "mp3",
		"pipe:1",
	)
	stdin, err = cmd.StdinPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encoder stdin pipe: %w", err)
	}
	stdout, err = cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encoder stdout pipe: %w", err)
	}
	stderr, _ := cmd.StderrPipe()
	if err := cmd.Start(); err != nil {
		return nil, nil, nil, fmt.Errorf("encoder start: %w", err)
	}
	if stderr != nil {
		go drainStderr(stderr, "encode")
	}
	return cmd, stdin, stdout, nil
}

func drainStderr(r io.Reader, stage string) {
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			slog.Debug("ffmpeg", "stage", stage, "output", string(buf[:n]))
		}
		if err != nil {
			return
		}
	}
}
