package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-fpgahal/hal"
	"github.com/arloliu/go-fpgahal/trace"
)

func TestParse(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		cfg, err := Parse([]byte(`
name: fpga
queue: slice
start_timeout: 2s
log:
  level: debug
  file: /tmp/hal.log
  max_size_mb: 5
  max_backups: 1
trace:
  file: /tmp/dispatch.htrace
  log: true
`))
		require.NoError(t, err)
		assert.Equal(t, "fpga", cfg.Name)
		assert.Equal(t, "slice", cfg.Queue)
		assert.Equal(t, 2*time.Second, cfg.StartTimeout)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 5, cfg.Log.MaxSizeMB)
		assert.Equal(t, 1, cfg.Log.MaxBackups)
		assert.Equal(t, "/tmp/dispatch.htrace", cfg.Trace.File)
		assert.True(t, cfg.Trace.Log)
	})

	t.Run("defaults fill missing keys", func(t *testing.T) {
		cfg, err := Parse([]byte("name: bench\n"))
		require.NoError(t, err)
		def := Default()
		assert.Equal(t, "bench", cfg.Name)
		assert.Equal(t, def.Queue, cfg.Queue)
		assert.Equal(t, def.StartTimeout, cfg.StartTimeout)
		assert.Equal(t, def.Log, cfg.Log)
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, Default(), *cfg)
	})

	invalid := map[string]string{
		"unknown queue":   "queue: ring\n",
		"bad level":       "log:\n  level: loud\n",
		"unknown key":     "workers: 4\n",
		"short timeout":   "start_timeout: 1ms\n",
		"empty name":      "name: \"\"\n",
		"negative backup": "log:\n  max_backups: -1\n",
		"not yaml":        "name: [\n",
	}
	for name, doc := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}

	t.Run("validation errors are typed", func(t *testing.T) {
		_, err := Parse([]byte("queue: ring\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, err, hal.ErrInvalidQueueKind)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hal.yaml")

	cfg := Default()
	cfg.Name = "from-file"
	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestHALOptions(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Name = "fpga-test"
	cfg.Log.Level = "debug"
	cfg.Log.File = filepath.Join(dir, "hal.log")
	cfg.Trace.File = filepath.Join(dir, "dispatch.htrace")
	cfg.Trace.Log = true

	opts, closer, err := cfg.HALOptions()
	require.NoError(t, err)

	sender, err := hal.Spawn(context.Background(), opts...)
	require.NoError(t, err)
	assert.Equal(t, "fpga-test", sender.Name())

	val, err := hal.Do(sender, hal.NamedFunc("ReadDIO", func(*hal.HardwareContext) (bool, error) {
		return true, nil
	}))
	require.NoError(t, err)
	assert.True(t, val)

	require.NoError(t, sender.Close())
	<-sender.Done()
	require.NoError(t, closer.Close())

	r, err := trace.Open(cfg.Trace.File)
	require.NoError(t, err)
	defer r.Close()

	events, err := r.All()
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "ReadDIO", events[0].Command)
	assert.Equal(t, sender.DispatcherID().String(), events[0].DispatcherID)

	info, err := os.Stat(cfg.Log.File)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestHALOptions_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Queue = "ring"
	_, _, err := cfg.HALOptions()
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg = Default()
	cfg.Trace.File = filepath.Join(t.TempDir(), "missing-dir", "x.htrace")
	_, _, err = cfg.HALOptions()
	require.Error(t, err)
}
