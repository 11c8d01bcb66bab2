// Core image state with thread-safe access
package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"fourier-image-filter/internal/algorithms"
	"fourier-image-filter/internal/raster"
)

// ImageData holds the loaded original and the last full-resolution result.
// Stored images are treated as immutable; callers must not modify them.
type ImageData struct {
	mu            sync.RWMutex
	original      *raster.Image
	processed     *raster.Image
	processedSpec algorithms.FilterSpec
	filepath      string
	metadata      ImageMetadata
}

// ImageMetadata contains image information
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Format   string
}

// NewImageData creates an empty container
func NewImageData() *ImageData {
	return &ImageData{}
}

// SetOriginal replaces the loaded image and drops any previous result
func (img *ImageData) SetOriginal(src *raster.Image, path string) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("cannot set image: %w", err)
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	img.original = src.Clone()
	img.processed = nil
	img.processedSpec = algorithms.FilterSpec{}
	img.filepath = path
	img.metadata = ImageMetadata{
		Width:    src.Width,
		Height:   src.Height,
		Channels: src.Channels,
		Format:   getFormatFromPath(path),
	}
	return nil
}

// SetProcessed stores a full-resolution result together with the FilterSpec that
// produced it. src must be the original the result was computed from; if another
// image has been loaded since, the result is discarded with ErrImageChanged.
func (img *ImageData) SetProcessed(src, result *raster.Image, spec algorithms.FilterSpec) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.original == nil {
		return ErrNoImage
	}
	if img.original != src {
		return ErrImageChanged
	}
	if !img.original.SameShape(result) {
		return fmt.Errorf("processed image shape does not match original")
	}
	img.processed = result
	img.processedSpec = spec
	return nil
}

// GetOriginal returns the loaded image or nil
func (img *ImageData) GetOriginal() *raster.Image {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.original
}

// IsCurrent reports whether src is still the loaded original
func (img *ImageData) IsCurrent(src *raster.Image) bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return src != nil && img.original == src
}

// GetProcessed returns the cached result if it was produced from src with the given FilterSpec
func (img *ImageData) GetProcessed(src *raster.Image, spec algorithms.FilterSpec) (*raster.Image, bool) {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if img.processed == nil || img.original != src || img.processedSpec != spec {
		return nil, false
	}
	return img.processed, true
}

// HasImage returns true if an image is loaded
func (img *ImageData) HasImage() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.original != nil
}

// GetMetadata returns image metadata
func (img *ImageData) GetMetadata() ImageMetadata {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.metadata
}

// GetFilepath returns the current file path
func (img *ImageData) GetFilepath() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.filepath
}

// Clear forgets the loaded image
func (img *ImageData) Clear() {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.original = nil
	img.processed = nil
	img.processedSpec = algorithms.FilterSpec{}
	img.filepath = ""
	img.metadata = ImageMetadata{}
}

func getFormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}
