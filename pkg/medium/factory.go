package medium

import (
	"fmt"

	"github.com/FallenShard/crisp-go/pkg/core"
)

var (
	phaseFactory  = core.NewFactory[PhaseFunction]("phase", "isotropic")
	mediumFactory = core.NewFactory[Medium]("medium", "homogeneous")
)

func init() {
	phaseFactory.Register("isotropic", func(params core.VariantMap) (PhaseFunction, error) {
		return Isotropic{}, nil
	})
	phaseFactory.Register("henyey-greenstein", func(params core.VariantMap) (PhaseFunction, error) {
		g, err := params.Float("g", 0)
		if err != nil {
			return nil, err
		}
		if g <= -1 || g >= 1 {
			return nil, core.InvalidParameter("", "g", fmt.Sprintf("must be in (-1, 1), got %g", g))
		}
		return NewHenyeyGreenstein(g), nil
	})

	mediumFactory.Register("homogeneous", func(params core.VariantMap) (Medium, error) {
		cfg, err := parseHomogeneousConfig(params)
		if err != nil {
			return nil, err
		}
		phase, err := phaseFactory.Create(cfg.Phase, params, core.NopDiagnostics{})
		if err != nil {
			return nil, err
		}
		return NewHomogeneous(cfg.SigmaA, cfg.SigmaS, phase), nil
	})
}

// CreatePhase builds a phase function. Unknown types fall back to isotropic with a warning.
func CreatePhase(typeName string, params core.VariantMap, diag core.Diagnostics) (PhaseFunction, error) {
	return phaseFactory.Create(typeName, params, diag)
}

// Create builds a medium. Unknown types fall back to homogeneous with a warning.
func Create(typeName string, params core.VariantMap, diag core.Diagnostics) (Medium, error) {
	return mediumFactory.Create(typeName, params, diag)
}

type homogeneousConfig struct {
	SigmaA core.Spectrum
	SigmaS core.Spectrum
	Phase  string
}

func parseHomogeneousConfig(params core.VariantMap) (homogeneousConfig, error) {
	cfg := homogeneousConfig{}
	var err error
	if cfg.SigmaA, err = params.Spectrum("sigmaA", core.Gray(0.05)); err != nil {
		return cfg, err
	}
	if cfg.SigmaS, err = params.Spectrum("sigmaS", core.Gray(0.5)); err != nil {
		return cfg, err
	}
	if cfg.Phase, err = params.String("phase", "isotropic"); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c homogeneousConfig) validate() error {
	if !c.SigmaA.IsValid() {
		return core.InvalidParameter("", "sigmaA", fmt.Sprintf("must be finite and non-negative, got %v", c.SigmaA))
	}
	if !c.SigmaS.IsValid() {
		return core.InvalidParameter("", "sigmaS", fmt.Sprintf("must be finite and non-negative, got %v", c.SigmaS))
	}
	if !phaseFactory.Has(c.Phase) {
		return core.InvalidParameter("", "phase", fmt.Sprintf("unknown phase function %q", c.Phase))
	}
	return nil
}
