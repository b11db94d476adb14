// Package config loads the engine's two configuration layers: the
// directive file (§6.1 — schedule/block files, engine timing, fade-out
// and time-signal parameters, player routing) and an environment-variable
// overlay for deployment knobs that are not part of the engine's own
// directive grammar.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/arung-agamani/denpa-radio/internal/config/directive"
)

// ScheduleMode selects whether the block engine cuts exactly at a
// schedule boundary (Hard) or defers to the end of the in-flight item
// (Soft).
type ScheduleMode int

const (
	ScheduleHard ScheduleMode = iota
	ScheduleSoft
)

// DefaultBlockMode toggles whether an empty or exhausted playlist falls
// back to a configured default block.
type DefaultBlockMode int

const (
	DefaultBlockOff DefaultBlockMode = iota
	DefaultBlockOn
)

// TimeSignalMode selects how often the time-signal engine preempts its
// player.
type TimeSignalMode int

const (
	TimeSignalOff TimeSignalMode = iota
	TimeSignalHalf
	TimeSignalHour
)

// PlayerRoute holds one BlockPlayer*/TimeSignalPlayer* routing group.
type PlayerRoute struct {
	Name             string
	AudioOutput      string
	AudioDevice      string
	Volume           float64
	SampleRate       int
	Channels         int
	VideoOutput      string
	VideoDevice      string
	VideoDisplay     string
	DisplayWxH       string
}

// RecorderRoute holds the Recorder* directives (out of core scope; kept
// so cmd/recorder can log what it was asked to do).
type RecorderRoute struct {
	Name       string
	Input      string
	Device     string
	SampleRate int
	Channels   int
	Quality    float64
}

// Config is the engine's directive-file configuration, defaulted the way
// the original daemon defaults it (see aras_configuration_set_defaults).
type Config struct {
	ConfigurationPeriod int64 // ms
	ScheduleFile        string
	BlockFile           string
	LogFile             string
	EnginePeriod        int64 // ms
	GUIPeriod           int64 // ms

	ScheduleMode     ScheduleMode
	DefaultBlockMode DefaultBlockMode
	DefaultBlock     string
	FadeOutTime      int64   // ms
	FadeOutSlope     float64 // [0,1]

	TimeSignalMode    TimeSignalMode
	TimeSignalAdvance int64 // ms
	TimeSignalBlock   string

	BlockPlayer      PlayerRoute
	TimeSignalPlayer PlayerRoute
	Recorder         RecorderRoute
}

// Defaults returns the directive-file defaults (§6.1 / configuration.c's
// aras_configuration_set_defaults).
func Defaults() *Config {
	return &Config{
		ConfigurationPeriod: 10_000,
		EnginePeriod:        100,
		GUIPeriod:           50,
		ScheduleMode:        ScheduleHard,
		DefaultBlockMode:    DefaultBlockOn,
		DefaultBlock:        "default",
		FadeOutTime:         2_000,
		FadeOutSlope:        0.1,
		TimeSignalMode:      TimeSignalOff,
		TimeSignalAdvance:   4_000,
		BlockPlayer: PlayerRoute{
			AudioDevice: "default",
			Volume:      1.0,
			SampleRate:  48_000,
			Channels:    2,
			VideoDevice: "default",
			DisplayWxH:  "1920x1080",
		},
		TimeSignalPlayer: PlayerRoute{
			AudioDevice: "default",
			Volume:      1.0,
			SampleRate:  48_000,
			Channels:    2,
			VideoDevice: "default",
			DisplayWxH:  "1920x1080",
		},
		Recorder: RecorderRoute{
			Device: "default",
		},
	}
}

// Load reads a directive file on top of Defaults(). Unknown directives
// are ignored; malformed lines are skipped (the rest of the file still
// applies) so an operator edit never takes the station off-air.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open configuration file: %w", err)
	}
	defer f.Close()

	cfg := Defaults()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tokens := directive.Tokenize(scanner.Text())
		if len(tokens) < 2 {
			continue
		}
		name, arg := directive.DirectiveArgument(tokens)
		applyDirective(cfg, name, arg)
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("read configuration file: %w", err)
	}
	return cfg, nil
}

func applyDirective(cfg *Config, name, arg string) {
	switch strings.ToLower(name) {
	case "configurationperiod":
		cfg.ConfigurationPeriod = absInt(arg)
	case "schedulefile":
		cfg.ScheduleFile = arg
	case "blockfile":
		cfg.BlockFile = arg
	case "logfile":
		cfg.LogFile = arg
	case "engineperiod":
		cfg.EnginePeriod = maxZeroInt(arg)
	case "schedulemode":
		cfg.ScheduleMode = parseScheduleMode(arg)
	case "defaultblockmode":
		cfg.DefaultBlockMode = parseDefaultBlockMode(arg)
	case "defaultblock":
		cfg.DefaultBlock = arg
	case "fadeouttime":
		cfg.FadeOutTime = maxZeroInt(arg)
	case "fadeoutslope":
		cfg.FadeOutSlope = clampUnit(arg)
	case "timesignalmode":
		cfg.TimeSignalMode = parseTimeSignalMode(arg)
	case "timesignaladvance":
		cfg.TimeSignalAdvance = maxZeroInt(arg)
	case "timesignalblock":
		cfg.TimeSignalBlock = arg
	case "guiperiod":
		cfg.GUIPeriod = absInt(arg)

	case "blockplayername":
		cfg.BlockPlayer.Name = arg
	case "blockplayeraudiooutput":
		cfg.BlockPlayer.AudioOutput = arg
	case "blockplayeraudiodevice":
		cfg.BlockPlayer.AudioDevice = arg
	case "blockplayervolume":
		cfg.BlockPlayer.Volume = clampUnit(arg)
	case "blockplayersamplerate":
		cfg.BlockPlayer.SampleRate = int(absInt(arg))
	case "blockplayerchannels":
		cfg.BlockPlayer.Channels = int(absInt(arg))
	case "blockplayervideooutput":
		cfg.BlockPlayer.VideoOutput = arg
	case "blockplayervideodevice":
		cfg.BlockPlayer.VideoDevice = arg
	case "blockplayervideodisplay":
		cfg.BlockPlayer.VideoDisplay = arg
	case "blockplayerdisplayresolution":
		cfg.BlockPlayer.DisplayWxH = arg

	case "timesignalplayername":
		cfg.TimeSignalPlayer.Name = arg
	case "timesignalplayeraudiooutput":
		cfg.TimeSignalPlayer.AudioOutput = arg
	case "timesignalplayeraudiodevice":
		cfg.TimeSignalPlayer.AudioDevice = arg
	case "timesignalplayervolume":
		cfg.TimeSignalPlayer.Volume = clampUnit(arg)
	case "timesignalplayersamplerate":
		cfg.TimeSignalPlayer.SampleRate = int(absInt(arg))
	case "timesignalplayerchannels":
		cfg.TimeSignalPlayer.Channels = int(absInt(arg))
	case "timesignalplayervideooutput":
		cfg.TimeSignalPlayer.VideoOutput = arg
	case "timesignalplayervideodevice":
		cfg.TimeSignalPlayer.VideoDevice = arg
	case "timesignalplayervideodisplay":
		cfg.TimeSignalPlayer.VideoDisplay = arg
	case "timesignaldisplayresolution":
		cfg.TimeSignalPlayer.DisplayWxH = arg

	case "recordername":
		cfg.Recorder.Name = arg
	case "recorderinput":
		cfg.Recorder.Input = arg
	case "recorderdevice":
		cfg.Recorder.Device = arg
	case "recordersamplerate":
		cfg.Recorder.SampleRate = int(absInt(arg))
	case "recorderchannels":
		cfg.Recorder.Channels = int(absInt(arg))
	case "recorderquality":
		cfg.Recorder.Quality = recorderQuality(arg)

	default:
		// Unknown directives are ignored per §6.1.
	}
}

func parseScheduleMode(s string) ScheduleMode {
	if strings.EqualFold(s, "soft") {
		return ScheduleSoft
	}
	return ScheduleHard
}

func parseDefaultBlockMode(s string) DefaultBlockMode {
	if strings.EqualFold(s, "on") {
		return DefaultBlockOn
	}
	return DefaultBlockOff
}

func parseTimeSignalMode(s string) TimeSignalMode {
	switch strings.ToLower(s) {
	case "half":
		return TimeSignalHalf
	case "hour":
		return TimeSignalHour
	default:
		return TimeSignalOff
	}
}

func absInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	if n < 0 {
		n = -n
	}
	return n
}

func maxZeroInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func clampUnit(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func recorderQuality(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return -0.1
	}
	if f < -0.1 {
		return -0.1
	}
	return f
}

// LogSummary reports the configuration the way the original daemon dumps it
// at startup for operator debugging (aras_configuration_print), logged
// via slog rather than printed to stdout.
func (c *Config) LogSummary() {
	slog.Info("configuration loaded",
		"schedule_file", c.ScheduleFile,
		"block_file", c.BlockFile,
		"log_file", c.LogFile,
		"engine_period_ms", c.EnginePeriod,
		"schedule_mode", c.ScheduleMode,
		"default_block_mode", c.DefaultBlockMode,
		"default_block", c.DefaultBlock,
		"fade_out_time_ms", c.FadeOutTime,
		"fade_out_slope", c.FadeOutSlope,
		"time_signal_mode", c.TimeSignalMode,
		"time_signal_advance_ms", c.TimeSignalAdvance,
		"time_signal_block", c.TimeSignalBlock,
	)
}
