// Image loading and saving through OpenCV
package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"fourier-image-filter/internal/raster"
)

var supportedFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// ImageLoader handles image file operations
type ImageLoader struct {
	logger *logrus.Logger
}

func NewImageLoader(logger *logrus.Logger) *ImageLoader {
	return &ImageLoader{
		logger: logger,
	}
}

// LoadImage decodes path into a raster. Grayscale files stay single-channel,
// everything else is returned as RGB.
func (il *ImageLoader) LoadImage(path string) (*raster.Image, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if !IsSupportedImageFormat(path) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadAnyColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to load image: %s", path)
	}

	img, err := matToRaster(mat)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    img.Width,
		"height":   img.Height,
		"channels": img.Channels,
	}).Info("Image loaded successfully")

	return img, nil
}

// SaveImage encodes img to path; the format follows the extension
func (il *ImageLoader) SaveImage(img *raster.Image, path string) error {
	il.logger.WithField("filepath", path).Debug("Saving image")

	if err := img.Validate(); err != nil {
		return fmt.Errorf("cannot save image: %w", err)
	}
	if !IsSupportedImageFormat(path) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	mat, err := rasterToMat(img)
	if err != nil {
		return err
	}
	defer mat.Close()

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("failed to save image: %s", path)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    img.Width,
		"height":   img.Height,
		"channels": img.Channels,
	}).Info("Image saved successfully")

	return nil
}

// IsSupportedImageFormat checks the file extension against the codec whitelist
func IsSupportedImageFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// SupportedExtensions returns the accepted file extensions
func SupportedExtensions() []string {
	return append([]string(nil), supportedFormats...)
}

func matToRaster(mat gocv.Mat) (*raster.Image, error) {
	switch mat.Channels() {
	case 1, 3:
	case 4:
		bgr := gocv.NewMat()
		defer bgr.Close()
		gocv.CvtColor(mat, &bgr, gocv.ColorBGRAToBGR)
		return matToRaster(bgr)
	default:
		return nil, fmt.Errorf("unsupported number of channels: %d", mat.Channels())
	}

	if mat.Type() != gocv.MatTypeCV8UC1 && mat.Type() != gocv.MatTypeCV8UC3 {
		return nil, fmt.Errorf("unsupported sample type: %v", mat.Type())
	}

	w, h, ch := mat.Cols(), mat.Rows(), mat.Channels()
	data := mat.ToBytes()
	if len(data) != w*h*ch {
		return nil, fmt.Errorf("unexpected buffer size %d for %dx%dx%d", len(data), w, h, ch)
	}

	img := raster.New(w, h, ch)
	for i := 0; i < w*h; i++ {
		px := data[i*ch : i*ch+ch]
		if ch == 1 {
			img.Planes[0][i] = float64(px[0])
			continue
		}
		// OpenCV stores BGR
		img.Planes[0][i] = float64(px[2])
		img.Planes[1][i] = float64(px[1])
		img.Planes[2][i] = float64(px[0])
	}
	return img, nil
}

func rasterToMat(img *raster.Image) (gocv.Mat, error) {
	n := img.Width * img.Height
	data := make([]byte, n*img.Channels)

	mt := gocv.MatTypeCV8UC1
	if img.Channels == 3 {
		mt = gocv.MatTypeCV8UC3
		for i := 0; i < n; i++ {
			data[i*3] = raster.ToByte(img.Planes[2][i])
			data[i*3+1] = raster.ToByte(img.Planes[1][i])
			data[i*3+2] = raster.ToByte(img.Planes[0][i])
		}
	} else {
		for i, v := range img.Planes[0] {
			data[i] = raster.ToByte(v)
		}
	}

	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, mt, data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to build image buffer: %w", err)
	}
	return mat, nil
}
