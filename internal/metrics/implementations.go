package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"fourier-image-filter/internal/raster"
)

// MSE is the mean squared error over every sample of every channel
type MSE struct{}

func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed *raster.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}
	return meanSquaredError(original, processed), nil
}

func meanSquaredError(original, processed *raster.Image) float64 {
	sum := 0.0
	for c := range original.Planes {
		d := floats.Distance(original.Planes[c], processed.Planes[c], 2)
		sum += d * d
	}
	return sum / float64(original.Width*original.Height*original.Channels)
}

func (m *MSE) GetName() string {
	return "MSE"
}

func (m *MSE) GetDescription() string {
	return "Mean squared error between original and filtered samples"
}

func (m *MSE) GetRange() (float64, float64) {
	return 0, raster.MaxSample * raster.MaxSample
}

func (m *MSE) IsHigherBetter() bool {
	return false
}

// PSNR is the peak signal-to-noise ratio in dB. Identical images yield +Inf.
type PSNR struct{}

func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed *raster.Image) (float64, error) {
	if err := checkPair(original, processed); err != nil {
		return 0, err
	}

	mse := meanSquaredError(original, processed)
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(raster.MaxSample*raster.MaxSample/mse), nil
}

func (p *PSNR) GetName() string {
	return "PSNR"
}

func (p *PSNR) GetDescription() string {
	return "Peak signal-to-noise ratio (dB)"
}

func (p *PSNR) GetRange() (float64, float64) {
	return 0, math.Inf(1)
}

func (p *PSNR) IsHigherBetter() bool {
	return true
}
