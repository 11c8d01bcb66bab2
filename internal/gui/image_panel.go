// Image display area: original, filtered preview and spectrum
package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type ImagePanel struct {
	container *fyne.Container

	originalImage *canvas.Image
	previewImage  *canvas.Image
	spectrumImage *canvas.Image
}

func NewImagePanel(displaySize, thumbnailSize int) *ImagePanel {
	ip := &ImagePanel{}

	ip.originalImage = newDisplayImage(displaySize)
	ip.previewImage = newDisplayImage(thumbnailSize)
	ip.spectrumImage = newDisplayImage(thumbnailSize)

	ip.container = container.NewBorder(
		nil, nil, nil, nil,
		container.NewHBox(
			widget.NewCard("Original Image", "", ip.originalImage),
			container.NewVBox(
				widget.NewCard("Preview (Filtered Image)", "", ip.previewImage),
				widget.NewCard("Spectrum", "", ip.spectrumImage),
			),
		),
	)
	return ip
}

func newDisplayImage(size int) *canvas.Image {
	img := canvas.NewImageFromImage(placeholder())
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(float32(size), float32(size)))
	return img
}

func placeholder() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{245, 245, 245, 255})
	return img
}

func (ip *ImagePanel) SetOriginal(img image.Image) {
	setImage(ip.originalImage, img)
}

func (ip *ImagePanel) SetPreview(img image.Image) {
	setImage(ip.previewImage, img)
}

func (ip *ImagePanel) SetSpectrum(img image.Image) {
	setImage(ip.spectrumImage, img)
}

// ClearPreview resets preview and spectrum to the placeholder
func (ip *ImagePanel) ClearPreview() {
	setImage(ip.previewImage, placeholder())
	setImage(ip.spectrumImage, placeholder())
}

func setImage(target *canvas.Image, img image.Image) {
	target.Image = img
	target.Refresh()
}

func (ip *ImagePanel) GetContainer() fyne.CanvasObject {
	return ip.container
}
