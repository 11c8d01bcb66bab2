// Frequency-domain low-pass and high-pass filtering
package algorithms

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"fourier-image-filter/internal/raster"
)

// Mode selects which side of the radius passes
type Mode int

const (
	ModeLowPass Mode = iota + 1
	ModeHighPass
)

func (m Mode) String() string {
	switch m {
	case ModeLowPass:
		return "low"
	case ModeHighPass:
		return "high"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "low", "lowpass", "low-pass" and the high-pass equivalents
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "lowpass", "low-pass", "low_pass":
		return ModeLowPass, nil
	case "high", "highpass", "high-pass", "high_pass":
		return ModeHighPass, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Profile selects the mask shape. The zero value is the binary disk.
type Profile int

const (
	ProfileIdeal Profile = iota
	ProfileGaussian
)

func (p Profile) String() string {
	switch p {
	case ProfileIdeal:
		return "ideal"
	case ProfileGaussian:
		return "gaussian"
	}
	return fmt.Sprintf("Profile(%d)", int(p))
}

// ParseProfile maps "ideal" or "gaussian" to a Profile. Empty means ideal.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ideal":
		return ProfileIdeal, nil
	case "gaussian":
		return ProfileGaussian, nil
	}
	return 0, fmt.Errorf("%w: unknown mask profile %q", ErrInvalidMode, s)
}

// FilterSpec describes one filter invocation. The mask is always centered.
type FilterSpec struct {
	Mode    Mode
	Radius  int
	Profile Profile
}

// Validate reports ErrInvalidRadius or ErrInvalidMode
func (s FilterSpec) Validate() error {
	if s.Radius <= 0 {
		return fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidRadius, s.Radius)
	}
	if s.Mode != ModeLowPass && s.Mode != ModeHighPass {
		return fmt.Errorf("%w: %v", ErrInvalidMode, s.Mode)
	}
	if s.Profile != ProfileIdeal && s.Profile != ProfileGaussian {
		return fmt.Errorf("%w: unknown mask profile %v", ErrInvalidMode, s.Profile)
	}
	return nil
}

// Mask holds per-frequency pass weights for a shifted spectrum
type Mask struct {
	Width  int
	Height int
	Data   []float64
}

// NewMask builds a circular mask centered at (height/2, width/2). Distance is
// measured in pixels on both axes, so the disk stays round on non-square planes.
// Ideal low-pass includes the boundary (d <= radius); high-pass is the exact complement.
func NewMask(width, height int, spec FilterSpec) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	m := &Mask{Width: width, Height: height, Data: make([]float64, width*height)}
	cx, cy := width/2, height/2
	// float64 keeps radius² from overflowing int for very large radii
	r := float64(spec.Radius)
	r2 := r * r
	sigma2 := 2 * r2

	for y := 0; y < height; y++ {
		dy := y - cy
		for x := 0; x < width; x++ {
			dx := x - cx
			d2 := float64(dx*dx + dy*dy)

			var low float64
			switch spec.Profile {
			case ProfileGaussian:
				low = math.Exp(-d2 / sigma2)
			default:
				if d2 <= r2 {
					low = 1
				}
			}

			if spec.Mode == ModeHighPass {
				m.Data[y*width+x] = 1 - low
			} else {
				m.Data[y*width+x] = low
			}
		}
	}
	return m, nil
}

// Apply multiplies a shifted spectrum by the mask in place
func (m *Mask) Apply(s *Spectrum) {
	for i, w := range m.Data {
		s.Data[i] *= complex(w, 0)
	}
}

func validateImage(img *raster.Image) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDimensions, err)
	}
	return nil
}

// Filter applies a frequency-domain filter to every channel independently and
// returns a new image with the same shape. Samples are clipped to [0,255] and
// rounded.
func Filter(img *raster.Image, spec FilterSpec) (*raster.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}
	mask, err := NewMask(img.Width, img.Height, spec)
	if err != nil {
		return nil, err
	}

	out := raster.New(img.Width, img.Height, img.Channels)
	for c, plane := range img.Planes {
		filtered := filterPlane(plane, img.Width, img.Height, mask)
		dst := out.Planes[c]
		for i, v := range filtered {
			dst[i] = math.Round(raster.Clamp(v))
		}
	}
	return out, nil
}

// filterPlane returns the unclipped real part of the filtered plane
func filterPlane(plane []float64, width, height int, mask *Mask) []float64 {
	shifted := Shift(FFT2D(plane, width, height))
	mask.Apply(shifted)
	restored := IFFT2D(Unshift(shifted))

	out := make([]float64, len(restored))
	for i, v := range restored {
		out[i] = real(v)
	}
	return out
}

// MagnitudeSpectrum renders log(1+|F|) of the centered spectrum of the
// channel-mean plane, scaled so the strongest component is 255.
func MagnitudeSpectrum(img *raster.Image) (*raster.Image, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}

	mean := make([]float64, img.Width*img.Height)
	for _, plane := range img.Planes {
		for i, v := range plane {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= float64(img.Channels)
	}

	shifted := Shift(FFT2D(mean, img.Width, img.Height))
	out := raster.New(img.Width, img.Height, 1)
	peak := 0.0
	for i, v := range shifted.Data {
		m := math.Log1p(cmplx.Abs(v))
		out.Planes[0][i] = m
		peak = math.Max(peak, m)
	}
	if peak > 0 {
		scale := raster.MaxSample / peak
		for i, v := range out.Planes[0] {
			out.Planes[0][i] = math.Round(v * scale)
		}
	}
	return out, nil
}
