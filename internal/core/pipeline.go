// Debounced preview pipeline driving the frequency-domain filter
package core

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"fourier-image-filter/internal/algorithms"
	"fourier-image-filter/internal/metrics"
	"fourier-image-filter/internal/raster"
)

var (
	// ErrNoImage is returned when an operation needs a loaded image
	ErrNoImage = errors.New("no image loaded")
	// ErrImageChanged is returned when a new image was loaded while a result was being computed
	ErrImageChanged = errors.New("image changed during processing")
)

// Pipeline owns the current filter parameters and schedules previews.
// Only the most recent request is ever delivered to onPreviewUpdate.
type Pipeline struct {
	mu          sync.Mutex
	deliverMu   sync.Mutex
	imageData   *ImageData
	metricsEval *metrics.Evaluator
	logger      *logrus.Logger

	spec          algorithms.FilterSpec
	previewDelay  time.Duration
	thumbnailSize int

	previewTimer *time.Timer
	cancel       context.CancelFunc
	generation   uint64

	onPreviewUpdate func(preview image.Image, metrics map[string]float64)
	onError         func(error)
}

func NewPipeline(imageData *ImageData, spec algorithms.FilterSpec, previewDelay time.Duration, thumbnailSize int, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		imageData:     imageData,
		metricsEval:   metrics.NewEvaluator(),
		logger:        logger,
		spec:          spec,
		previewDelay:  previewDelay,
		thumbnailSize: thumbnailSize,
	}
}

// SetCallbacks sets preview update and error callbacks. They run on a
// background goroutine.
func (p *Pipeline) SetCallbacks(
	onPreviewUpdate func(image.Image, map[string]float64),
	onError func(error),
) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onPreviewUpdate = onPreviewUpdate
	p.onError = onError
}

// Spec returns the current filter parameters
func (p *Pipeline) Spec() algorithms.FilterSpec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spec
}

// SetRadius stores the radius and schedules a debounced preview
func (p *Pipeline) SetRadius(radius int) {
	p.mu.Lock()
	p.spec.Radius = radius
	p.mu.Unlock()

	p.logger.WithField("radius", radius).Debug("PIPELINE: Radius changed")
	p.SchedulePreview()
}

// SetMode stores the mode and previews immediately
func (p *Pipeline) SetMode(mode algorithms.Mode) {
	p.mu.Lock()
	p.spec.Mode = mode
	p.mu.Unlock()

	p.logger.WithField("mode", mode).Debug("PIPELINE: Mode changed")
	p.PreviewNow()
}

// SetProfile stores the mask profile and previews immediately
func (p *Pipeline) SetProfile(profile algorithms.Profile) {
	p.mu.Lock()
	p.spec.Profile = profile
	p.mu.Unlock()

	p.logger.WithField("profile", profile).Debug("PIPELINE: Profile changed")
	p.PreviewNow()
}

// SchedulePreview restarts the single-shot delay. Pending requests are superseded.
func (p *Pipeline) SchedulePreview() {
	if !p.imageData.HasImage() {
		p.logger.Debug("PIPELINE: No image available for preview processing")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.previewTimer != nil {
		p.previewTimer.Stop()
	}
	p.generation++
	gen := p.generation

	p.logger.WithField("delay_ms", p.previewDelay.Milliseconds()).Debug("PIPELINE: Scheduling preview processing")
	p.previewTimer = time.AfterFunc(p.previewDelay, func() {
		p.processPreview(gen)
	})
}

// PreviewNow cancels pending work and starts a preview run
func (p *Pipeline) PreviewNow() {
	if !p.imageData.HasImage() {
		p.logger.Debug("PIPELINE: No image available for preview processing")
		return
	}

	p.mu.Lock()
	if p.previewTimer != nil {
		p.previewTimer.Stop()
	}
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	go p.processPreview(gen)
}

func (p *Pipeline) processPreview(gen uint64) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return
	}
	if p.cancel != nil {
		p.logger.Debug("PIPELINE: Already processing, cancelling previous")
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	spec := p.spec
	p.mu.Unlock()
	defer cancel()

	start := time.Now()
	log := p.logger.WithFields(logrus.Fields{
		"mode":    spec.Mode,
		"radius":  spec.Radius,
		"profile": spec.Profile,
	})
	log.Info("PIPELINE: Starting preview processing")

	r := p.render(ctx, spec)
	if p.deliver(ctx, gen, spec, r, log) {
		log.WithFields(logrus.Fields{
			"duration_ms": time.Since(start).Milliseconds(),
			"psnr":        metrics.LogValue(r.values["psnr"]),
		}).Info("PIPELINE: Preview processing completed")
	}
}

// renderResult is one preview run. original is the image it was computed from.
type renderResult struct {
	original *raster.Image
	preview  image.Image
	full     *raster.Image
	values   map[string]float64
	err      error
}

// deliver hands r to the callbacks unless a newer request, Stop or an image
// reload has superseded it. It reports whether a preview was delivered.
func (p *Pipeline) deliver(ctx context.Context, gen uint64, spec algorithms.FilterSpec, r renderResult, log *logrus.Entry) bool {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	stale := ctx.Err() != nil || gen != p.generation ||
		(r.original != nil && !p.imageData.IsCurrent(r.original))
	onPreviewUpdate, onError := p.onPreviewUpdate, p.onError
	p.mu.Unlock()

	if stale {
		log.Debug("PIPELINE: Dropping stale preview")
		return false
	}

	if r.err != nil {
		log.WithError(r.err).Error("PIPELINE: Preview processing failed")
		if onError != nil {
			onError(r.err)
		}
		return false
	}

	if err := p.imageData.SetProcessed(r.original, r.full, spec); err != nil {
		if errors.Is(err, ErrImageChanged) {
			log.Debug("PIPELINE: Dropping preview for replaced image")
			return false
		}
		log.WithError(err).Warn("PIPELINE: Could not cache result")
	}

	if onPreviewUpdate != nil {
		onPreviewUpdate(r.preview, r.values)
	}
	return true
}

// render filters the full-resolution original, then thumbnails the result
func (p *Pipeline) render(ctx context.Context, spec algorithms.FilterSpec) renderResult {
	original := p.imageData.GetOriginal()
	if original == nil {
		return renderResult{err: ErrNoImage}
	}

	full, err := p.filter(original, spec)
	if err != nil {
		return renderResult{original: original, err: err}
	}
	if err := ctx.Err(); err != nil {
		return renderResult{original: original, err: err}
	}

	return renderResult{
		original: original,
		preview:  Thumbnail(full.ToImage(), p.thumbnailSize),
		full:     full,
		values:   p.metricsEval.CalculateAll(original, full),
	}
}

func (p *Pipeline) filter(original *raster.Image, spec algorithms.FilterSpec) (*raster.Image, error) {
	if cached, ok := p.imageData.GetProcessed(original, spec); ok {
		return cached, nil
	}
	result, err := algorithms.Filter(original, spec)
	if err != nil {
		return nil, fmt.Errorf("filter failed: %w", err)
	}
	return result, nil
}

// ProcessFullResolution returns the filtered original for the current parameters,
// reusing the last preview result when they are unchanged
func (p *Pipeline) ProcessFullResolution() (*raster.Image, error) {
	original := p.imageData.GetOriginal()
	if original == nil {
		return nil, ErrNoImage
	}

	spec := p.Spec()
	p.logger.WithFields(logrus.Fields{
		"mode":   spec.Mode,
		"radius": spec.Radius,
	}).Info("PIPELINE: Processing full resolution image")

	result, err := p.filter(original, spec)
	if err != nil {
		return nil, err
	}
	if err := p.imageData.SetProcessed(original, result, spec); err != nil {
		return nil, err
	}
	return result, nil
}

// RenderSpectrum returns the log-magnitude spectrum of src fitted into size.
// Callers pass the original they captured and check IsCurrent before showing it.
func (p *Pipeline) RenderSpectrum(src *raster.Image, size int) (image.Image, error) {
	if src == nil {
		return nil, ErrNoImage
	}
	spectrum, err := algorithms.MagnitudeSpectrum(src)
	if err != nil {
		return nil, err
	}
	return Thumbnail(spectrum.ToImage(), size), nil
}

// Stop cancels any pending or running preview
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Debug("PIPELINE: Stopping processing")
	p.generation++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.previewTimer != nil {
		p.previewTimer.Stop()
	}
}

// Thumbnail fits img inside a size x size box keeping the aspect ratio
func Thumbnail(img image.Image, size int) image.Image {
	return imaging.Fit(img, size, size, imaging.Lanczos)
}
