// Menu and file dialogs
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"fourier-image-filter/internal/io"
)

// MenuHandler owns the main menu and the open/save dialogs
type MenuHandler struct {
	window fyne.Window
	logger *logrus.Logger

	onOpen  func()
	onApply func()
}

func NewMenuHandler(window fyne.Window, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{
		window: window,
		logger: logger,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", func() {
			if mh.onOpen != nil {
				mh.onOpen()
			}
		}),
		fyne.NewMenuItem("Apply Filter and Save...", func() {
			if mh.onApply != nil {
				mh.onApply()
			}
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, helpMenu)
}

// ShowOpenDialog asks for an image file and passes its path to onSelected
func (mh *MenuHandler) ShowOpenDialog(onSelected func(path string)) {
	mh.logger.Debug("Opening file dialog for image selection")

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.logger.WithError(err).Error("File dialog error")
			dialog.ShowError(err, mh.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		mh.logger.WithField("filepath", path).Info("Loading selected image")
		onSelected(path)
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

// ShowSaveDialog asks for a destination path and passes it to onSelected
func (mh *MenuHandler) ShowSaveDialog(fileName string, onSelected func(path string)) {
	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mh.logger.WithError(err).Error("File dialog error")
			dialog.ShowError(err, mh.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		// The encoder writes by path; release the dialog's handle first
		writer.Close()

		mh.logger.WithField("filepath", path).Info("Saving filtered image")
		onSelected(path)
	}, mh.window)

	fileDialog.SetFileName(fileName)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel("Image Filtering with Fourier Transform"),
		widget.NewSeparator(),
		widget.NewLabel("Low-pass and high-pass filtering in the frequency domain"),
		widget.NewLabel("with a circular mask of adjustable radius."),
		widget.NewSeparator(),
		widget.NewLabel("Built with Go, Fyne and OpenCV"),
	)

	aboutDialog := dialog.NewCustom("About", "Close", content, mh.window)
	aboutDialog.Resize(fyne.NewSize(400, 220))
	aboutDialog.Show()
}

func (mh *MenuHandler) SetCallbacks(onOpen, onApply func()) {
	mh.onOpen = onOpen
	mh.onApply = onApply
}
