// Quality metrics comparing a filtered image against its source
package metrics

import (
	"fmt"
	"math"
	"sort"

	"fourier-image-filter/internal/raster"
)

// Metric defines the interface for quality metrics
type Metric interface {
	// Calculate computes the metric value
	Calculate(original, processed *raster.Image) (float64, error)

	// GetName returns the metric name
	GetName() string

	// GetDescription returns the metric description
	GetDescription() string

	// GetRange returns the value range (min, max)
	GetRange() (float64, float64)

	// IsHigherBetter returns true if higher values indicate better quality
	IsHigherBetter() bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates a new metrics evaluator
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}

	e.RegisterDefaultMetrics()

	return e
}

// RegisterDefaultMetrics registers all default metrics
func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("mse", NewMSE())
	e.Register("psnr", NewPSNR())
}

// Register registers a metric
func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Names returns registered metric names in sorted order
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calculate calculates a specific metric
func (e *Evaluator) Calculate(name string, original, processed *raster.Image) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}

	return metric.Calculate(original, processed)
}

// CalculateAll calculates all registered metrics, skipping any that fail
func (e *Evaluator) CalculateAll(original, processed *raster.Image) map[string]float64 {
	results := make(map[string]float64)

	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}

	return results
}

// CalculatePSNR calculates PSNR between two images
func (e *Evaluator) CalculatePSNR(original, processed *raster.Image) (float64, error) {
	return e.Calculate("psnr", original, processed)
}

func checkPair(original, processed *raster.Image) error {
	if err := original.Validate(); err != nil {
		return fmt.Errorf("original: %w", err)
	}
	if err := processed.Validate(); err != nil {
		return fmt.Errorf("processed: %w", err)
	}
	if !original.SameShape(processed) {
		return fmt.Errorf("shape mismatch: %dx%dx%d vs %dx%dx%d",
			original.Width, original.Height, original.Channels,
			processed.Width, processed.Height, processed.Channels)
	}
	return nil
}

// LogValue makes a metric value safe for JSON log formatters, which reject infinities
func LogValue(v float64) interface{} {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return v
}
