// Registry adapters for the frequency-domain filters
package algorithms

import (
	"fmt"

	"fourier-image-filter/internal/raster"
)

// Radius bounds offered by the UI slider
const (
	RadiusMin     = 10
	RadiusMax     = 100
	RadiusDefault = 30
)

// FourierFilter exposes Filter with a fixed mode through the Algorithm interface
type FourierFilter struct {
	mode Mode
}

// NewFourierFilter creates a registry entry for the given mode
func NewFourierFilter(mode Mode) *FourierFilter {
	return &FourierFilter{mode: mode}
}

func (f *FourierFilter) Apply(input *raster.Image, params map[string]interface{}) (*raster.Image, error) {
	spec, err := f.SpecFromParams(params)
	if err != nil {
		return nil, err
	}
	return Filter(input, spec)
}

// SpecFromParams builds a FilterSpec, falling back to defaults for missing keys
func (f *FourierFilter) SpecFromParams(params map[string]interface{}) (FilterSpec, error) {
	spec := FilterSpec{Mode: f.mode, Radius: RadiusDefault, Profile: ProfileIdeal}

	if val, ok := params["radius"]; ok {
		switch v := val.(type) {
		case float64:
			spec.Radius = int(v)
		case int:
			spec.Radius = v
		default:
			return spec, fmt.Errorf("%w: radius has type %T", ErrInvalidRadius, val)
		}
	}

	if val, ok := params["profile"]; ok {
		s, ok := val.(string)
		if !ok {
			return spec, fmt.Errorf("%w: profile has type %T", ErrInvalidMode, val)
		}
		profile, err := ParseProfile(s)
		if err != nil {
			return spec, err
		}
		spec.Profile = profile
	}

	return spec, spec.Validate()
}

func (f *FourierFilter) GetDefaultParams() map[string]interface{} {
	return map[string]interface{}{
		"radius":  float64(RadiusDefault),
		"profile": ProfileIdeal.String(),
	}
}

// Mode returns the fixed pass side of this entry
func (f *FourierFilter) Mode() Mode {
	return f.mode
}

func (f *FourierFilter) GetName() string {
	if f.mode == ModeHighPass {
		return "High-pass Filter"
	}
	return "Low-pass Filter"
}

func (f *FourierFilter) GetDescription() string {
	if f.mode == ModeHighPass {
		return "Removes frequencies inside the radius, keeping edges and fine detail"
	}
	return "Keeps frequencies inside the radius, smoothing the image"
}

func (f *FourierFilter) Validate(params map[string]interface{}) error {
	_, err := f.SpecFromParams(params)
	return err
}

func (f *FourierFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "radius",
			Type:        "int",
			Min:         float64(RadiusMin),
			Max:         float64(RadiusMax),
			Default:     float64(RadiusDefault),
			Description: "Cutoff radius in pixels from the spectrum center",
		},
		{
			Name:        "profile",
			Type:        "enum",
			Default:     ProfileIdeal.String(),
			Description: "Mask shape",
			Options:     []string{ProfileIdeal.String(), ProfileGaussian.String()},
		},
	}
}
