// 2D discrete Fourier transform helpers built on gonum's 1D complex FFT
package algorithms

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum is a complex frequency plane in row-major order
type Spectrum struct {
	Width  int
	Height int
	Data   []complex128
}

// FFT2D computes the forward transform of a real plane. DC ends up at (0, 0).
func FFT2D(plane []float64, width, height int) *Spectrum {
	data := make([]complex128, width*height)
	for i, v := range plane {
		data[i] = complex(v, 0)
	}
	transform2D(data, width, height, false)
	return &Spectrum{Width: width, Height: height, Data: data}
}

// IFFT2D computes the normalized inverse transform of s
func IFFT2D(s *Spectrum) []complex128 {
	data := append([]complex128(nil), s.Data...)
	transform2D(data, s.Width, s.Height, true)

	scale := complex(1/float64(s.Width*s.Height), 0)
	for i := range data {
		data[i] *= scale
	}
	return data
}

// transform2D runs separable row and column transforms in place.
// gonum leaves the inverse unscaled; IFFT2D normalizes.
func transform2D(data []complex128, width, height int, inverse bool) {
	if width > 1 {
		fft := fourier.NewCmplxFFT(width)
		in := make([]complex128, width)
		out := make([]complex128, width)
		for y := 0; y < height; y++ {
			row := data[y*width : (y+1)*width]
			copy(in, row)
			if inverse {
				fft.Sequence(out, in)
			} else {
				fft.Coefficients(out, in)
			}
			copy(row, out)
		}
	}

	if height > 1 {
		fft := fourier.NewCmplxFFT(height)
		in := make([]complex128, height)
		out := make([]complex128, height)
		for x := 0; x < width; x++ {
			for y := 0; y < height; y++ {
				in[y] = data[y*width+x]
			}
			if inverse {
				fft.Sequence(out, in)
			} else {
				fft.Coefficients(out, in)
			}
			for y := 0; y < height; y++ {
				data[y*width+x] = out[y]
			}
		}
	}
}

// Shift moves the DC component from (0, 0) to (Height/2, Width/2)
func Shift(s *Spectrum) *Spectrum {
	return roll(s, s.Width/2, s.Height/2)
}

// Unshift undoes Shift for both odd and even sizes
func Unshift(s *Spectrum) *Spectrum {
	return roll(s, s.Width-s.Width/2, s.Height-s.Height/2)
}

func roll(s *Spectrum, dx, dy int) *Spectrum {
	out := &Spectrum{Width: s.Width, Height: s.Height, Data: make([]complex128, len(s.Data))}
	for y := 0; y < s.Height; y++ {
		ty := (y + dy) % s.Height
		for x := 0; x < s.Width; x++ {
			tx := (x + dx) % s.Width
			out.Data[ty*s.Width+tx] = s.Data[y*s.Width+x]
		}
	}
	return out
}
