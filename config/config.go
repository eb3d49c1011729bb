// Package config loads dispatcher settings from a YAML file and turns them into hal options.
//
//	name: fpga
//	queue: lockfree        # or "slice"
//	start_timeout: 5s
//	log:
//	  level: info          # debug|info|warn|error
//	  file: /var/log/fpga/hal.log
//	  max_size_mb: 10
//	  max_backups: 3
//	trace:
//	  file: /var/log/fpga/dispatch.htrace
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-fpgahal/hal"
	"github.com/arloliu/go-fpgahal/logger"
	"github.com/arloliu/go-fpgahal/trace"
)

// ErrInvalidConfig indicates a configuration value that fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the file representation of a dispatcher configuration.
type Config struct {
	Name         string        `yaml:"name"`
	Queue        string        `yaml:"queue"`
	StartTimeout time.Duration `yaml:"start_timeout"`
	Log          LogConfig     `yaml:"log"`
	Trace        TraceConfig   `yaml:"trace"`
}

// LogConfig configures the dispatcher logger. Logs go to stdout when File is empty.
type LogConfig struct {
	Level      string `yaml:"level"`
	AddSource  bool   `yaml:"add_source"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// TraceConfig configures dispatch tracing. Tracing is off when File is empty and Log is false.
type TraceConfig struct {
	// File is the CBOR trace file events are appended to.
	File string `yaml:"file"`
	// Log also writes every event to the dispatcher logger at debug level.
	Log bool `yaml:"log"`
}

// Default returns the configuration used for keys missing from a file.
func Default() Config {
	return Config{
		Name:         "hal-worker",
		Queue:        hal.LockFreeQueue.String(),
		StartTimeout: 5 * time.Second,
		Log: LogConfig{
			Level:      logger.InfoLevel.String(),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes and validates YAML data on top of Default. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field that hal would otherwise reject at Spawn.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidConfig)
	}
	if _, err := hal.ParseQueueKind(c.Queue); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.StartTimeout < 10*time.Millisecond || c.StartTimeout > 60*time.Second {
		return fmt.Errorf("%w: start_timeout %s is out of range [10ms, 60s]", ErrInvalidConfig, c.StartTimeout)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation limits must not be negative", ErrInvalidConfig)
	}

	return nil
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Logger builds the logger described by c.Log. The returned closer closes the log file, if any.
func (c *Config) Logger() (logger.Logger, io.Closer, error) {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	if c.Log.File == "" {
		return logger.NewSlog(level, c.Log.AddSource), nopCloser{}, nil
	}

	l, closer := logger.NewFileSlog(logger.FileOptions{
		Filename:   c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}, level, c.Log.AddSource)

	return l, closer, nil
}

// HALOptions converts c into options for hal.Spawn.
//
// The returned closer releases the log and trace files opened for the options and must be
// called after the dispatcher has stopped.
func (c *Config) HALOptions() ([]hal.Option, io.Closer, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	kind, _ := hal.ParseQueueKind(c.Queue)

	l, logCloser, err := c.Logger()
	if err != nil {
		return nil, nil, err
	}
	closers := closerList{logCloser}

	opts := []hal.Option{
		hal.WithName(c.Name),
		hal.WithQueue(kind),
		hal.WithStartTimeout(c.StartTimeout),
		hal.WithLogger(l),
	}

	var recorders []trace.Recorder
	if c.Trace.File != "" {
		rec, err := trace.NewFileRecorder(c.Trace.File)
		if err != nil {
			_ = closers.Close()
			return nil, nil, fmt.Errorf("failed to open trace file: %w", err)
		}
		recorders = append(recorders, rec)
		closers = append(closers, rec)
	}
	if c.Trace.Log {
		recorders = append(recorders, trace.NewLoggerRecorder(l))
	}

	switch len(recorders) {
	case 0:
	case 1:
		opts = append(opts, hal.WithRecorder(recorders[0]))
	default:
		opts = append(opts, hal.WithRecorder(trace.NewMultiRecorder(recorders...)))
	}

	return opts, closers, nil
}

type closerList []io.Closer

func (l closerList) Close() error {
	var errs []error
	for i := len(l) - 1; i >= 0; i-- {
		errs = append(errs, l[i].Close())
	}

	return errors.Join(errs...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
