// Main application window wiring the pipeline to the controls
package gui

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"fourier-image-filter/internal/config"
	"fourier-image-filter/internal/core"
	"fourier-image-filter/internal/io"
	"fourier-image-filter/internal/raster"
)

// Application represents the main application window
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger
	cfg    config.Config

	// Core components
	imageData *core.ImageData
	pipeline  *core.Pipeline
	loader    *io.ImageLoader

	// GUI components
	controls    *ControlPanel
	images      *ImagePanel
	menuHandler *MenuHandler
	statusLabel *widget.Label
}

func NewApplication(app fyne.App, cfg config.Config, logger *logrus.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	spec, err := cfg.FilterSpec()
	if err != nil {
		return nil, fmt.Errorf("invalid filter settings: %w", err)
	}

	window := app.NewWindow("Image Filtering with Fourier Transform")
	window.Resize(fyne.NewSize(1000, 600))
	window.CenterOnScreen()

	a := &Application{
		app:       app,
		window:    window,
		logger:    logger,
		cfg:       cfg,
		imageData: core.NewImageData(),
		loader:    io.NewImageLoader(logger),
	}
	a.pipeline = core.NewPipeline(a.imageData, spec, cfg.PreviewDelay(), cfg.Preview.ThumbnailSize, logger)

	a.initializeGUI()
	a.setupLayout()
	a.setupCallbacks()

	return a, nil
}

func (a *Application) initializeGUI() {
	a.controls = NewControlPanel(a.pipeline, a.cfg, a.logger)
	a.images = NewImagePanel(a.cfg.Preview.DisplaySize, a.cfg.Preview.ThumbnailSize)
	a.menuHandler = NewMenuHandler(a.window, a.logger)
	a.statusLabel = widget.NewLabel("Load an image to start")
}

func (a *Application) setupLayout() {
	controls := container.NewVScroll(a.controls.GetContainer())
	controls.SetMinSize(fyne.NewSize(220, 0))

	content := container.NewBorder(
		nil,
		a.statusLabel,
		controls,
		nil,
		container.NewScroll(a.images.GetContainer()),
	)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(content)
}

func (a *Application) setupCallbacks() {
	a.pipeline.SetCallbacks(
		// onPreviewUpdate
		func(preview image.Image, values map[string]float64) {
			fyne.Do(func() {
				a.images.SetPreview(preview)
				a.controls.SetMetrics(values)
			})
		},
		// onError
		func(err error) {
			fyne.Do(func() {
				a.showError("Processing Error", err)
			})
		},
	)

	a.controls.SetCallbacks(a.openImage, a.applyFilter)
	a.menuHandler.SetCallbacks(a.openImage, a.applyFilter)
}

func (a *Application) openImage() {
	a.menuHandler.ShowOpenDialog(func(path string) {
		if err := a.LoadImageFromPath(path); err != nil {
			a.showError("Failed to Load Image", err)
		}
	})
}

// LoadImageFromPath loads path, shows it and starts a preview
func (a *Application) LoadImageFromPath(path string) error {
	img, err := a.loader.LoadImage(path)
	if err != nil {
		return err
	}
	if err := a.imageData.SetOriginal(img, path); err != nil {
		return err
	}

	a.images.ClearPreview()
	a.images.SetOriginal(core.Thumbnail(img.ToImage(), a.cfg.Preview.DisplaySize))
	a.controls.SetMetrics(nil)
	a.updateStatusMessage(fmt.Sprintf("Loaded: %s (%dx%d)", filepath.Base(path), img.Width, img.Height))

	src := a.imageData.GetOriginal()
	go func() {
		spectrum, err := a.pipeline.RenderSpectrum(src, a.cfg.Preview.ThumbnailSize)
		if err != nil {
			a.logger.WithError(err).Warn("GUI: Spectrum rendering failed")
			return
		}
		fyne.Do(func() {
			// a later load may have finished first
			if !a.imageData.IsCurrent(src) {
				a.logger.Debug("GUI: Dropping spectrum of replaced image")
				return
			}
			a.images.SetSpectrum(spectrum)
		})
	}()

	a.pipeline.PreviewNow()
	return nil
}

func (a *Application) applyFilter() {
	if !a.imageData.HasImage() {
		a.logger.Warn("GUI: Apply requested without an image")
		dialog.ShowInformation("Error", "Please load an image first!", a.window)
		return
	}

	a.updateStatusMessage("Filtering full resolution image...")
	go func() {
		result, err := a.pipeline.ProcessFullResolution()
		fyne.Do(func() {
			if err != nil {
				a.showError("Processing Error", err)
				return
			}
			a.menuHandler.ShowSaveDialog(a.suggestedName(), func(path string) {
				a.saveResult(result, path)
			})
		})
	}()
}

func (a *Application) saveResult(result *raster.Image, path string) {
	if err := a.loader.SaveImage(result, path); err != nil {
		a.showError("Failed to Save Image", err)
		return
	}
	a.showInfo("Success", "Filtered image saved successfully!")
	a.updateStatusMessage(fmt.Sprintf("Saved: %s", path))
}

func (a *Application) suggestedName() string {
	base := filepath.Base(a.imageData.GetFilepath())
	ext := filepath.Ext(base)
	spec := a.pipeline.Spec()
	return fmt.Sprintf("%s_%s%d%s", base[:len(base)-len(ext)], spec.Mode, spec.Radius, ext)
}

func (a *Application) updateStatusMessage(message string) {
	a.statusLabel.SetText(message)
}

// ShowAndRun shows the window and blocks until it is closed
func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

func (a *Application) cleanup() {
	a.logger.Info("Cleaning up application resources")
	a.pipeline.Stop()
	a.imageData.Clear()
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	if errors.Is(err, core.ErrNoImage) {
		dialog.ShowInformation("Error", "Please load an image first!", a.window)
		return
	}
	dialog.ShowError(err, a.window)
	a.updateStatusMessage(fmt.Sprintf("Error: %s", err.Error()))
}

func (a *Application) showInfo(title, message string) {
	a.logger.WithField("message", message).Info(title)
	dialog.ShowInformation(title, message, a.window)
}
