// Filter controls: load, mode, radius, mask profile, apply
package gui

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"fourier-image-filter/internal/algorithms"
	"fourier-image-filter/internal/config"
	"fourier-image-filter/internal/core"
)

type ControlPanel struct {
	pipeline *core.Pipeline
	logger   *logrus.Logger

	container *fyne.Container

	loadButton    *widget.Button
	modeRadio     *widget.RadioGroup
	radiusSlider  *widget.Slider
	radiusLabel   *widget.Label
	profileSelect *widget.Select
	applyButton   *widget.Button
	metricsLabel  *widget.Label

	modeByLabel map[string]algorithms.Mode

	onLoad  func()
	onApply func()
}

func NewControlPanel(pipeline *core.Pipeline, cfg config.Config, logger *logrus.Logger) *ControlPanel {
	cp := &ControlPanel{
		pipeline:    pipeline,
		logger:      logger,
		modeByLabel: make(map[string]algorithms.Mode),
	}
	cp.initializeUI(cfg)
	return cp
}

func (cp *ControlPanel) initializeUI(cfg config.Config) {
	spec := cp.pipeline.Spec()

	cp.loadButton = widget.NewButtonWithIcon("Load Image", theme.FolderOpenIcon(), func() {
		if cp.onLoad != nil {
			cp.onLoad()
		}
	})

	// Mode labels come from the registered filters
	var labels []string
	selected := ""
	for _, name := range algorithms.GetAlgorithmsByCategory()[algorithms.CategoryFrequencyDomain] {
		algo, ok := algorithms.Get(name)
		if !ok {
			continue
		}
		moder, ok := algo.(interface{ Mode() algorithms.Mode })
		if !ok {
			cp.logger.WithField("algorithm", name).Warn("GUI: Skipping filter without a mode")
			continue
		}
		label := algo.GetName()
		mode := moder.Mode()
		cp.modeByLabel[label] = mode
		labels = append(labels, label)
		if mode == spec.Mode {
			selected = label
		}
	}
	cp.modeRadio = widget.NewRadioGroup(labels, nil)
	cp.modeRadio.Required = true
	cp.modeRadio.SetSelected(selected)
	cp.modeRadio.OnChanged = cp.modeChanged

	cp.radiusLabel = widget.NewLabel(radiusText(spec.Radius))
	cp.radiusSlider = widget.NewSlider(float64(cfg.Filter.MinRadius), float64(cfg.Filter.MaxRadius))
	cp.radiusSlider.Step = 1
	cp.radiusSlider.SetValue(float64(spec.Radius))
	cp.radiusSlider.OnChanged = cp.radiusChanged

	var profiles []string
	if algo, ok := algorithms.Get("fourier_lowpass"); ok {
		for _, param := range algo.GetParameterInfo() {
			if param.Name == "profile" {
				profiles = param.Options
			}
		}
	}
	cp.profileSelect = widget.NewSelect(profiles, nil)
	cp.profileSelect.SetSelected(spec.Profile.String())
	cp.profileSelect.OnChanged = cp.profileChanged

	cp.applyButton = widget.NewButtonWithIcon("Apply Filter", theme.DocumentSaveIcon(), func() {
		if cp.onApply != nil {
			cp.onApply()
		}
	})
	cp.applyButton.Importance = widget.HighImportance

	cp.metricsLabel = widget.NewLabel("")
	cp.metricsLabel.Wrapping = fyne.TextWrapWord

	cp.container = container.NewVBox(
		cp.loadButton,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Filter", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		cp.modeRadio,
		cp.radiusLabel,
		cp.radiusSlider,
		widget.NewLabel("Mask profile"),
		cp.profileSelect,
		widget.NewSeparator(),
		cp.applyButton,
		cp.metricsLabel,
	)
}

func (cp *ControlPanel) modeChanged(label string) {
	mode, ok := cp.modeByLabel[label]
	if !ok {
		return
	}
	cp.logger.WithField("mode", mode).Debug("GUI: Filter mode selected")
	cp.pipeline.SetMode(mode)
}

func (cp *ControlPanel) radiusChanged(value float64) {
	radius := int(math.Round(value))
	cp.radiusLabel.SetText(radiusText(radius))
	cp.pipeline.SetRadius(radius)
}

func (cp *ControlPanel) profileChanged(name string) {
	profile, err := algorithms.ParseProfile(name)
	if err != nil {
		cp.logger.WithError(err).Warn("GUI: Ignoring unknown mask profile")
		return
	}
	cp.pipeline.SetProfile(profile)
}

// SetMetrics shows the quality metrics of the latest preview
func (cp *ControlPanel) SetMetrics(values map[string]float64) {
	if len(values) == 0 {
		cp.metricsLabel.SetText("")
		return
	}

	psnr := "∞"
	if v, ok := values["psnr"]; ok && !math.IsInf(v, 1) {
		psnr = fmt.Sprintf("%.2f dB", v)
	}
	cp.metricsLabel.SetText(fmt.Sprintf("PSNR: %s\nMSE: %.2f", psnr, values["mse"]))
}

func (cp *ControlPanel) SetCallbacks(onLoad, onApply func()) {
	cp.onLoad = onLoad
	cp.onApply = onApply
}

func (cp *ControlPanel) GetContainer() fyne.CanvasObject {
	return cp.container
}

func radiusText(radius int) string {
	return fmt.Sprintf("Radius: %d px", radius)
}
