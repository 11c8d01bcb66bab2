package core

import (
	"context"
	"image"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fourier-image-filter/internal/algorithms"
	"fourier-image-filter/internal/raster"
)

type previewResult struct {
	img     image.Image
	metrics map[string]float64
}

func newTestPipeline(t *testing.T, delay time.Duration) (*Pipeline, *ImageData, chan previewResult, chan error) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	data := NewImageData()
	spec := algorithms.FilterSpec{Mode: algorithms.ModeLowPass, Radius: 30}
	p := NewPipeline(data, spec, delay, 16, logger)

	previews := make(chan previewResult, 16)
	errs := make(chan error, 16)
	p.SetCallbacks(
		func(img image.Image, m map[string]float64) { previews <- previewResult{img, m} },
		func(err error) { errs <- err },
	)
	t.Cleanup(p.Stop)
	return p, data, previews, errs
}

func noisyImage(width, height int) *raster.Image {
	img := raster.New(width, height, 3)
	for c, plane := range img.Planes {
		for i := range plane {
			plane[i] = float64((i*37 + c*91) % 256)
		}
	}
	return img
}

func waitPreview(t *testing.T, ch chan previewResult) previewResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for preview")
	}
	return previewResult{}
}

func TestImageDataLifecycle(t *testing.T) {
	data := NewImageData()
	assert.False(t, data.HasImage())
	assert.Nil(t, data.GetOriginal())

	spec := algorithms.FilterSpec{Mode: algorithms.ModeLowPass, Radius: 3}
	assert.ErrorIs(t, data.SetProcessed(nil, raster.New(2, 2, 1), spec), ErrNoImage)
	assert.Error(t, data.SetOriginal(raster.New(0, 2, 1), "bad.png"))

	src := noisyImage(4, 3)
	require.NoError(t, data.SetOriginal(src, "/tmp/photo.JPG"))
	assert.True(t, data.HasImage())
	assert.Equal(t, ImageMetadata{Width: 4, Height: 3, Channels: 3, Format: "jpg"}, data.GetMetadata())
	assert.Equal(t, "/tmp/photo.JPG", data.GetFilepath())

	src.Set(0, 0, 0, 1)
	assert.NotEqual(t, 1.0, data.GetOriginal().At(0, 0, 0))

	original := data.GetOriginal()
	assert.True(t, data.IsCurrent(original))
	assert.False(t, data.IsCurrent(src))
	assert.False(t, data.IsCurrent(nil))

	assert.Error(t, data.SetProcessed(original, raster.New(4, 3, 1), spec))
	require.NoError(t, data.SetProcessed(original, raster.New(4, 3, 3), spec))
	_, ok := data.GetProcessed(original, spec)
	assert.True(t, ok)
	_, ok = data.GetProcessed(original, algorithms.FilterSpec{Mode: algorithms.ModeHighPass, Radius: 3})
	assert.False(t, ok)
	_, ok = data.GetProcessed(src, spec)
	assert.False(t, ok)

	data.Clear()
	assert.False(t, data.HasImage())
	assert.Equal(t, ImageMetadata{}, data.GetMetadata())
}

func TestPreviewNowDeliversThumbnail(t *testing.T) {
	p, data, previews, _ := newTestPipeline(t, time.Hour)
	require.NoError(t, data.SetOriginal(noisyImage(40, 20), "a.png"))

	p.PreviewNow()
	r := waitPreview(t, previews)

	b := r.img.Bounds()
	assert.Equal(t, 16, b.Dx())
	assert.Equal(t, 8, b.Dy())
	assert.Contains(t, r.metrics, "psnr")
	assert.Contains(t, r.metrics, "mse")

	_, ok := data.GetProcessed(data.GetOriginal(), p.Spec())
	assert.True(t, ok)
}

func TestSchedulePreviewCoalescesRequests(t *testing.T) {
	p, data, previews, _ := newTestPipeline(t, 50*time.Millisecond)
	require.NoError(t, data.SetOriginal(noisyImage(12, 12), "a.png"))

	p.SetRadius(10)
	p.SetRadius(20)
	p.SetRadius(25)
	waitPreview(t, previews)

	select {
	case <-previews:
		t.Fatal("expected a single preview for a burst of radius changes")
	case <-time.After(200 * time.Millisecond):
	}

	assert.Equal(t, 25, p.Spec().Radius)
	_, ok := data.GetProcessed(data.GetOriginal(), algorithms.FilterSpec{Mode: algorithms.ModeLowPass, Radius: 25})
	assert.True(t, ok)
}

func TestStopDropsPendingPreview(t *testing.T) {
	p, data, previews, errs := newTestPipeline(t, 50*time.Millisecond)
	require.NoError(t, data.SetOriginal(noisyImage(8, 8), "a.png"))

	p.SetRadius(4)
	p.Stop()

	select {
	case <-previews:
		t.Fatal("preview delivered after Stop")
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNoImageSkipsPreview(t *testing.T) {
	p, _, previews, errs := newTestPipeline(t, time.Millisecond)

	p.PreviewNow()
	p.SetRadius(12)

	select {
	case <-previews:
		t.Fatal("preview without image")
	case <-errs:
		t.Fatal("error without image")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestInvalidRadiusReportsError(t *testing.T) {
	p, data, _, errs := newTestPipeline(t, time.Millisecond)
	require.NoError(t, data.SetOriginal(noisyImage(8, 8), "a.png"))

	p.SetRadius(0)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, algorithms.ErrInvalidRadius)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestModeChangePreviewsImmediately(t *testing.T) {
	p, data, previews, _ := newTestPipeline(t, time.Hour)
	require.NoError(t, data.SetOriginal(noisyImage(8, 8), "a.png"))

	p.SetMode(algorithms.ModeHighPass)
	waitPreview(t, previews)
	assert.Equal(t, algorithms.ModeHighPass, p.Spec().Mode)

	p.SetProfile(algorithms.ProfileGaussian)
	waitPreview(t, previews)
	assert.Equal(t, algorithms.ProfileGaussian, p.Spec().Profile)
}

func TestProcessFullResolution(t *testing.T) {
	p, data, _, _ := newTestPipeline(t, time.Hour)

	_, err := p.ProcessFullResolution()
	assert.ErrorIs(t, err, ErrNoImage)

	src := noisyImage(9, 7)
	require.NoError(t, data.SetOriginal(src, "a.png"))

	got, err := p.ProcessFullResolution()
	require.NoError(t, err)

	want, err := algorithms.Filter(src, p.Spec())
	require.NoError(t, err)
	assert.Equal(t, want.Planes, got.Planes)

	again, err := p.ProcessFullResolution()
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestRenderSpectrum(t *testing.T) {
	p, data, _, _ := newTestPipeline(t, time.Hour)

	_, err := p.RenderSpectrum(data.GetOriginal(), 32)
	assert.ErrorIs(t, err, ErrNoImage)

	require.NoError(t, data.SetOriginal(noisyImage(64, 32), "a.png"))
	src := data.GetOriginal()
	img, err := p.RenderSpectrum(src, 32)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())
	assert.True(t, data.IsCurrent(src))

	require.NoError(t, data.SetOriginal(raster.NewFilled(8, 8, 1, 50), "b.png"))
	img, err = p.RenderSpectrum(src, 32)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())
	assert.False(t, data.IsCurrent(src), "spectrum of a replaced image must be recognisable as outdated")
}

func TestResultForReplacedImageIsDiscarded(t *testing.T) {
	p, data, _, _ := newTestPipeline(t, time.Hour)
	spec := p.Spec()

	imgA := noisyImage(10, 8)
	require.NoError(t, data.SetOriginal(imgA, "a.png"))
	originalA := data.GetOriginal()
	resultA, err := algorithms.Filter(originalA, spec)
	require.NoError(t, err)

	imgB := raster.NewFilled(10, 8, 3, 200)
	require.NoError(t, data.SetOriginal(imgB, "b.png"))

	assert.ErrorIs(t, data.SetProcessed(originalA, resultA, spec), ErrImageChanged)
	_, ok := data.GetProcessed(data.GetOriginal(), spec)
	assert.False(t, ok)

	got, err := p.ProcessFullResolution()
	require.NoError(t, err)
	want, err := algorithms.Filter(imgB, spec)
	require.NoError(t, err)
	assert.Equal(t, want.Planes, got.Planes)
	assert.NotEqual(t, resultA.Planes, got.Planes)
}

func TestPreviewForReplacedImageIsDropped(t *testing.T) {
	p, data, previews, errs := newTestPipeline(t, time.Hour)
	require.NoError(t, data.SetOriginal(noisyImage(10, 8), "a.png"))
	originalA := data.GetOriginal()

	p.mu.Lock()
	p.generation++
	gen := p.generation
	spec := p.spec
	p.mu.Unlock()

	ctx := context.Background()
	log := logrus.NewEntry(p.logger)

	r := p.render(ctx, spec)
	require.NoError(t, r.err)
	require.Same(t, originalA, r.original)

	require.NoError(t, data.SetOriginal(raster.NewFilled(10, 8, 3, 200), "b.png"))
	assert.False(t, p.deliver(ctx, gen, spec, r, log))

	select {
	case <-previews:
		t.Fatal("preview of the replaced image was delivered")
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	default:
	}
	_, ok := data.GetProcessed(data.GetOriginal(), spec)
	assert.False(t, ok)

	r = p.render(ctx, spec)
	require.NoError(t, r.err)
	assert.True(t, p.deliver(ctx, gen, spec, r, log))
	waitPreview(t, previews)
	_, ok = data.GetProcessed(data.GetOriginal(), spec)
	assert.True(t, ok)
}
