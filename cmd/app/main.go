// Fourier image filter: desktop application and headless batch mode
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"fourier-image-filter/internal/algorithms"
	"fourier-image-filter/internal/config"
	"fourier-image-filter/internal/gui"
	"fourier-image-filter/internal/io"
	"fourier-image-filter/internal/metrics"
)

const (
	AppName    = "Fourier Image Filter"
	AppID      = "com.fourier-image-filter"
	AppVersion = "1.0.0"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	configPath := flag.String("config", "", "Path to a TOML configuration file")
	inPath := flag.String("in", "", "Filter this image without opening a window")
	outPath := flag.String("out", "", "Output path for -in")
	mode := flag.String("mode", "", "Filter mode: low or high (overrides config)")
	radius := flag.Int("radius", 0, "Filter radius in pixels (overrides config; the window requires min_radius..max_radius)")
	profile := flag.String("profile", "", "Mask profile: ideal or gaussian (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	var radiusOverride *int
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "radius" {
			radiusOverride = radius
		}
	})
	applyOverrides(&cfg, *mode, radiusOverride, *profile)

	logger := initLogger(cfg.Log, *debugMode)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
		"headless":   *inPath != "",
	}).Info("Starting " + AppName)

	if *inPath != "" {
		if err := runHeadless(cfg, *inPath, *outPath, logger); err != nil {
			logger.WithError(err).Error("Filtering failed")
			os.Exit(1)
		}
		return
	}

	// The slider cannot show a radius outside its range
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	mainApp, err := gui.NewApplication(myApp, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
}

// applyOverrides copies command-line values onto cfg. A nil radius was not given.
func applyOverrides(cfg *config.Config, mode string, radius *int, profile string) {
	if mode != "" {
		cfg.Filter.Mode = mode
	}
	if radius != nil {
		cfg.Filter.Radius = *radius
	}
	if profile != "" {
		cfg.Filter.Profile = profile
	}
}

// runHeadless loads, filters and saves one image
func runHeadless(cfg config.Config, inPath, outPath string, logger *logrus.Logger) error {
	if outPath == "" {
		return fmt.Errorf("-out is required with -in")
	}
	// Headless runs accept any positive radius, not just the slider range
	spec, err := cfg.FilterSpec()
	if err != nil {
		return err
	}

	loader := io.NewImageLoader(logger)
	img, err := loader.LoadImage(inPath)
	if err != nil {
		return err
	}

	result, err := algorithms.Filter(img, spec)
	if err != nil {
		return err
	}

	if err := loader.SaveImage(result, outPath); err != nil {
		return err
	}

	fields := logrus.Fields{"mode": spec.Mode, "radius": spec.Radius, "profile": spec.Profile}
	for name, value := range metrics.NewEvaluator().CalculateAll(img, result) {
		fields[name] = metrics.LogValue(value)
	}
	logger.WithFields(fields).Info("Filtered image written to " + outPath)
	return nil
}

func initLogger(cfg config.LogConfig, debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if debugMode {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if debugMode || strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   debugMode,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	logger.Debug("Debug logging enabled")
	return logger
}
