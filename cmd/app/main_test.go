package main

import (
	stdio "io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fourier-image-filter/internal/algorithms"
	"fourier-image-filter/internal/config"
	"fourier-image-filter/internal/gui"
	"fourier-image-filter/internal/io"
	"fourier-image-filter/internal/raster"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(stdio.Discard)
	return logger
}

func intPtr(v int) *int { return &v }

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	applyOverrides(&cfg, "high", intPtr(250), "gaussian")

	spec, err := cfg.FilterSpec()
	require.NoError(t, err)
	assert.Equal(t, algorithms.FilterSpec{
		Mode:    algorithms.ModeHighPass,
		Radius:  250,
		Profile: algorithms.ProfileGaussian,
	}, spec)

	untouched := config.Default()
	applyOverrides(&untouched, "", nil, "")
	assert.Equal(t, config.Default(), untouched)
}

func TestRadiusOverrideIsRangeChecked(t *testing.T) {
	cfg := config.Default()
	applyOverrides(&cfg, "", intPtr(500), "")
	assert.Equal(t, 500, cfg.Filter.Radius)
	assert.ErrorIs(t, cfg.Validate(), algorithms.ErrInvalidRadius)

	_, err := gui.NewApplication(nil, cfg, quietLogger())
	assert.ErrorIs(t, err, algorithms.ErrInvalidRadius)

	zero := config.Default()
	applyOverrides(&zero, "", intPtr(0), "")
	assert.Equal(t, 0, zero.Filter.Radius)
	assert.ErrorIs(t, zero.Validate(), algorithms.ErrInvalidRadius)
	assert.ErrorIs(t, runHeadless(zero, "in.png", "out.png", quietLogger()), algorithms.ErrInvalidRadius)

	inRange := config.Default()
	applyOverrides(&inRange, "", intPtr(cfg.Filter.MaxRadius), "")
	assert.NoError(t, inRange.Validate())
}

func TestRunHeadless(t *testing.T) {
	logger := quietLogger()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	loader := io.NewImageLoader(logger)
	require.NoError(t, loader.SaveImage(raster.NewFilled(8, 6, 1, 128), in))

	cfg := config.Default()
	applyOverrides(&cfg, "low", intPtr(1), "")
	require.NoError(t, runHeadless(cfg, in, out, logger))

	got, err := loader.LoadImage(out)
	require.NoError(t, err)
	assert.Equal(t, raster.NewFilled(8, 6, 1, 128).Planes, got.Planes)
}

func TestRunHeadlessErrors(t *testing.T) {
	logger := quietLogger()
	cfg := config.Default()

	assert.Error(t, runHeadless(cfg, "in.png", "", logger))

	bad := config.Default()
	applyOverrides(&bad, "band", nil, "")
	assert.ErrorIs(t, runHeadless(bad, "in.png", "out.png", logger), algorithms.ErrInvalidMode)

	assert.Error(t, runHeadless(cfg, filepath.Join(t.TempDir(), "missing.png"), "out.png", logger))
}

func TestInitLogger(t *testing.T) {
	logger := initLogger(config.LogConfig{Level: "warn", Format: "json"}, false)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger = initLogger(config.LogConfig{Level: "warn", Format: "json"}, true)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
