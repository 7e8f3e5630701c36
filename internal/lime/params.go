package lime

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// RefineMode selects the Structure-aware refinement strategy.
type RefineMode string

const (
	// ModeOptimization solves the weighted smoothness problem exactly (up
	// to the iteration cap).
	ModeOptimization RefineMode = "optimization"
	// ModeFilter approximates it with a single guided filter pass.
	ModeFilter RefineMode = "filter"
)

// WeightStrategy selects how smoothing weights are derived from the
// gradients of the initial illumination map.
type WeightStrategy int

const (
	// WeightUniform smooths everywhere equally.
	WeightUniform WeightStrategy = 1
	// WeightInverseGradient weights each edge by 1/(|gradient|+epsilon).
	WeightInverseGradient WeightStrategy = 2
	// WeightGaussianGradient is WeightInverseGradient on Gaussian-smoothed
	// gradients, which ignores fine texture.
	WeightGaussianGradient WeightStrategy = 3
)

// Parameters configures a Pipeline.
type Parameters struct {
	// Gamma is applied to the refined illumination map as v^Gamma.
	Gamma float64 `yaml:"gamma"`
	// Alpha weighs smoothness against fidelity to the initial map. Zero
	// disables refinement.
	Alpha float64 `yaml:"alpha"`
	// Iterations caps the conjugate gradient solver.
	Iterations int `yaml:"iterations"`
	// Tolerance is the relative residual at which the solver stops early.
	Tolerance float64 `yaml:"tolerance"`
	// Radius is the window radius of the guided filter and of the Gaussian
	// used by WeightGaussianGradient.
	Radius int `yaml:"radius"`
	// Epsilon keeps edge weights finite and regularizes the guided filter.
	Epsilon float64 `yaml:"epsilon"`
	// Sigma is the Gaussian standard deviation for WeightGaussianGradient.
	Sigma    float64        `yaml:"sigma"`
	Strategy WeightStrategy `yaml:"strategy"`
	Mode     RefineMode     `yaml:"mode"`

	// Denoise blends a smoothed luma back into dark regions after
	// reconstruction, where enhancement amplified noise the most.
	Denoise        bool    `yaml:"denoise"`
	DenoiseRadius  int     `yaml:"denoise_radius"`
	DenoiseEpsilon float64 `yaml:"denoise_epsilon"`

	// Workers is the number of row bands the solver works on concurrently.
	// Zero or less uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultParameters returns the parameters used when nothing is configured.
func DefaultParameters() Parameters {
	return Parameters{
		Gamma:          0.8,
		Alpha:          0.15,
		Iterations:     200,
		Tolerance:      1e-4,
		Radius:         3,
		Epsilon:        1e-3,
		Sigma:          2,
		Strategy:       WeightGaussianGradient,
		Mode:           ModeOptimization,
		DenoiseRadius:  2,
		DenoiseEpsilon: 2e-3,
		Workers:        1,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Validate reports the first invalid field, wrapped in ErrInvalidParameter.
func (p Parameters) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidParameter)
	}
	switch {
	case !positive(p.Gamma):
		return fail("gamma must be positive, got %v", p.Gamma)
	case !(p.Alpha >= 0) || math.IsInf(p.Alpha, 0):
		return fail("alpha must be non-negative, got %v", p.Alpha)
	case p.Iterations <= 0:
		return fail("iterations must be positive, got %d", p.Iterations)
	case p.Radius <= 0:
		return fail("radius must be positive, got %d", p.Radius)
	case !positive(p.Tolerance):
		return fail("tolerance must be positive, got %v", p.Tolerance)
	case !positive(p.Epsilon):
		return fail("epsilon must be positive, got %v", p.Epsilon)
	}

	switch p.Strategy {
	case WeightUniform, WeightInverseGradient:
	case WeightGaussianGradient:
		if !positive(p.Sigma) {
			return fail("sigma must be positive, got %v", p.Sigma)
		}
	default:
		return fail("unknown weight strategy %d", p.Strategy)
	}

	switch p.Mode {
	case ModeOptimization, ModeFilter:
	default:
		return fail("unknown refinement mode %q", p.Mode)
	}

	if p.Denoise {
		if p.DenoiseRadius <= 0 {
			return fail("denoise radius must be positive, got %d", p.DenoiseRadius)
		}
		if !positive(p.DenoiseEpsilon) {
			return fail("denoise epsilon must be positive, got %v", p.DenoiseEpsilon)
		}
	}
	return nil
}

// LoadParameters reads YAML from r on top of DefaultParameters. Unknown
// keys are rejected. An empty document yields the defaults.
func LoadParameters(r io.Reader) (Parameters, error) {
	p := DefaultParameters()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Parameters{}, fmt.Errorf("decode parameters: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}
