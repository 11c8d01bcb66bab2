// Planar raster image used by the filter core
package raster

import (
	"fmt"
	"image"
	"math"
)

const (
	// MinSample and MaxSample bound every displayable sample value
	MinSample = 0.0
	MaxSample = 255.0
)

// Image stores one plane per channel in row-major order
type Image struct {
	Width    int
	Height   int
	Channels int
	Planes   [][]float64
}

// New allocates a zeroed image. It does not validate the arguments.
func New(width, height, channels int) *Image {
	img := &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Planes:   make([][]float64, channels),
	}
	n := 0
	if width > 0 && height > 0 {
		n = width * height
	}
	for c := range img.Planes {
		img.Planes[c] = make([]float64, n)
	}
	return img
}

// NewFilled allocates an image with every sample set to value
func NewFilled(width, height, channels int, value float64) *Image {
	img := New(width, height, channels)
	for _, plane := range img.Planes {
		for i := range plane {
			plane[i] = value
		}
	}
	return img
}

// Validate checks the shape invariants of the image
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("image is nil")
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", img.Width, img.Height)
	}
	if img.Channels != 1 && img.Channels != 3 {
		return fmt.Errorf("unsupported channel count: %d", img.Channels)
	}
	if len(img.Planes) != img.Channels {
		return fmt.Errorf("plane count %d does not match channel count %d", len(img.Planes), img.Channels)
	}
	for c, plane := range img.Planes {
		if len(plane) != img.Width*img.Height {
			return fmt.Errorf("plane %d has %d samples, want %d", c, len(plane), img.Width*img.Height)
		}
	}
	return nil
}

// At returns the sample at (x, y) of channel c
func (img *Image) At(x, y, c int) float64 {
	return img.Planes[c][y*img.Width+x]
}

// Set stores the sample at (x, y) of channel c
func (img *Image) Set(x, y, c int, v float64) {
	img.Planes[c][y*img.Width+x] = v
}

// Clone returns a deep copy
func (img *Image) Clone() *Image {
	out := &Image{
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
		Planes:   make([][]float64, len(img.Planes)),
	}
	for c, plane := range img.Planes {
		out.Planes[c] = append([]float64(nil), plane...)
	}
	return out
}

// SameShape reports whether both images have identical dimensions and channel count
func (img *Image) SameShape(other *Image) bool {
	return img != nil && other != nil &&
		img.Width == other.Width &&
		img.Height == other.Height &&
		img.Channels == other.Channels
}

// Clamp maps v into the displayable range. NaN becomes MinSample.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < MinSample:
		return MinSample
	case v > MaxSample:
		return MaxSample
	}
	return v
}

// ToImage renders the samples as *image.Gray or *image.NRGBA, rounding and clamping
func (img *Image) ToImage() image.Image {
	rect := image.Rect(0, 0, img.Width, img.Height)

	if img.Channels == 1 {
		out := image.NewGray(rect)
		for i, v := range img.Planes[0] {
			out.Pix[(i/img.Width)*out.Stride+i%img.Width] = ToByte(v)
		}
		return out
	}

	out := image.NewNRGBA(rect)
	for i := 0; i < img.Width*img.Height; i++ {
		o := (i/img.Width)*out.Stride + (i%img.Width)*4
		out.Pix[o] = ToByte(img.Planes[0][i])
		out.Pix[o+1] = ToByte(img.Planes[1][i])
		out.Pix[o+2] = ToByte(img.Planes[2][i])
		out.Pix[o+3] = 0xff
	}
	return out
}

// ToByte rounds and clamps a sample to 8 bits
func ToByte(v float64) uint8 {
	return uint8(math.Round(Clamp(v)))
}
