// Algorithm registry used by the UI to discover filters and their parameters
package algorithms

import (
	"fmt"
	"sort"

	"fourier-image-filter/internal/raster"
)

// Algorithm defines the interface for image processing algorithms
type Algorithm interface {
	Apply(input *raster.Image, params map[string]interface{}) (*raster.Image, error)
	GetDefaultParams() map[string]interface{}
	GetName() string
	GetDescription() string
	Validate(params map[string]interface{}) error
	GetParameterInfo() []ParameterInfo
}

// ParameterInfo describes a parameter for UI generation
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "int", "float", "bool", "string", "enum"
	Min         interface{} `json:"min,omitempty"`
	Max         interface{} `json:"max,omitempty"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
	Options     []string    `json:"options,omitempty"` // For enum type
}

var algorithms = make(map[string]Algorithm)

func Register(name string, algorithm Algorithm) {
	algorithms[name] = algorithm
}

func Get(name string) (Algorithm, bool) {
	algorithm, exists := algorithms[name]
	return algorithm, exists
}

func Apply(name string, input *raster.Image, params map[string]interface{}) (*raster.Image, error) {
	algorithm, exists := algorithms[name]
	if !exists {
		return nil, fmt.Errorf("algorithm not found: %s", name)
	}

	return algorithm.Apply(input, params)
}

func ValidateParameters(name string, params map[string]interface{}) error {
	algorithm, exists := algorithms[name]
	if !exists {
		return fmt.Errorf("algorithm not found: %s", name)
	}

	return algorithm.Validate(params)
}

func IsValidAlgorithm(name string) bool {
	_, exists := algorithms[name]
	return exists
}

// Names returns registered algorithm names in sorted order
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryFrequencyDomain groups the Fourier filters
const CategoryFrequencyDomain = "Frequency Domain"

// GetAlgorithmsByCategory lists registry names per UI category
func GetAlgorithmsByCategory() map[string][]string {
	return map[string][]string{
		CategoryFrequencyDomain: {
			"fourier_lowpass",
			"fourier_highpass",
		},
	}
}

func init() {
	Register("fourier_lowpass", NewFourierFilter(ModeLowPass))
	Register("fourier_highpass", NewFourierFilter(ModeHighPass))
}
