package material

import (
	"fmt"

	"github.com/FallenShard/crisp-go/pkg/core"
)

var factory = core.NewFactory[BSDF]("bsdf", "lambertian")

func init() {
	factory.Register("lambertian", func(params core.VariantMap) (BSDF, error) {
		albedo, err := parseAlbedo(params)
		if err != nil {
			return nil, err
		}
		return NewTexturedLambertian(albedo), nil
	})
	factory.Register("mirror", func(params core.VariantMap) (BSDF, error) {
		reflectance, err := params.Spectrum("reflectance", core.Gray(1))
		if err != nil {
			return nil, err
		}
		if err := validateAlbedo("reflectance", reflectance); err != nil {
			return nil, err
		}
		return NewMirror(reflectance), nil
	})
	factory.Register("smooth-conductor", func(params core.VariantMap) (BSDF, error) {
		cfg, err := parseConductorConfig(params)
		if err != nil {
			return nil, err
		}
		return NewSmoothConductor(cfg.Eta, cfg.K, cfg.Reflectance), nil
	})
	roughConductor := func(params core.VariantMap) (BSDF, error) {
		cfg, err := parseConductorConfig(params)
		if err != nil {
			return nil, err
		}
		dist, err := NewMicrofacetDistribution(cfg.Distribution, cfg.Alpha)
		if err != nil {
			return nil, err
		}
		return NewRoughConductor(dist, cfg.Eta, cfg.K), nil
	}
	factory.Register("rough-conductor", roughConductor)
	factory.Register("microfacet", roughConductor)
	factory.Register("dielectric", func(params core.VariantMap) (BSDF, error) {
		intIOR, err := params.Float("intIOR", 1.5)
		if err != nil {
			return nil, err
		}
		extIOR, err := params.Float("extIOR", 1.0)
		if err != nil {
			return nil, err
		}
		if intIOR <= 0 || extIOR <= 0 {
			return nil, core.InvalidParameter("", "intIOR", fmt.Sprintf("indices of refraction must be positive, got %g/%g", intIOR, extIOR))
		}
		return NewDielectric(intIOR, extIOR), nil
	})
	factory.Register("mix", func(params core.VariantMap) (BSDF, error) {
		ratio, err := params.Float("ratio", 0.5)
		if err != nil {
			return nil, err
		}
		if ratio < 0 || ratio > 1 {
			return nil, core.InvalidParameter("", "ratio", fmt.Sprintf("must be in [0, 1], got %g", ratio))
		}
		bsdf1, err := createNested(params, "bsdf1")
		if err != nil {
			return nil, err
		}
		bsdf2, err := createNested(params, "bsdf2")
		if err != nil {
			return nil, err
		}
		return NewMix(bsdf1, bsdf2, ratio), nil
	})
}

// createNested builds a component BSDF from a parameter block with a "type" key.
// Nested blocks must name a registered type.
func createNested(params core.VariantMap, key string) (BSDF, error) {
	block, err := params.Map(key)
	if err != nil {
		return nil, err
	}
	typeName, err := block.String("type", factory.DefaultType())
	if err != nil {
		return nil, err
	}
	if !factory.Has(typeName) {
		return nil, core.InvalidParameter("", key, fmt.Sprintf("unknown bsdf type %q", typeName))
	}
	return factory.Create(typeName, block, core.NopDiagnostics{})
}

// Create builds a BSDF from a type name and parameters.
// Unknown types fall back to a Lambertian BSDF with a warning diagnostic.
func Create(typeName string, params core.VariantMap, diag core.Diagnostics) (BSDF, error) {
	return factory.Create(typeName, params, diag)
}

// Types returns the registered BSDF type names
func Types() []string {
	return factory.Types()
}

type conductorConfig struct {
	Eta          core.Spectrum
	K            core.Spectrum
	Reflectance  core.Spectrum
	Alpha        float64
	Distribution string
}

func parseConductorConfig(params core.VariantMap) (conductorConfig, error) {
	cfg := conductorConfig{}
	var err error
	if cfg.Eta, err = params.Spectrum("eta", defaultConductorEta); err != nil {
		return cfg, err
	}
	if cfg.K, err = params.Spectrum("k", defaultConductorK); err != nil {
		return cfg, err
	}
	if cfg.Reflectance, err = params.Spectrum("reflectance", core.Gray(1)); err != nil {
		return cfg, err
	}
	if cfg.Alpha, err = params.Float("alpha", 0.1); err != nil {
		return cfg, err
	}
	if cfg.Distribution, err = params.String("distribution", "ggx"); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c conductorConfig) validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return core.InvalidParameter("", "alpha", fmt.Sprintf("must be in (0, 1], got %g", c.Alpha))
	}
	if !c.Eta.IsValid() || !c.K.IsValid() {
		return core.InvalidParameter("", "eta", "complex index of refraction must be non-negative")
	}
	return validateAlbedo("reflectance", c.Reflectance)
}

// parseAlbedo reads "albedo", or a checkerboard when "texture" is "checkerboard"
// ("albedo" and "albedo2" colors, "scale" checks per UV unit)
func parseAlbedo(params core.VariantMap) (ColorSource, error) {
	albedo, err := params.Spectrum("albedo", core.Gray(0.5))
	if err != nil {
		return nil, err
	}
	if err := validateAlbedo("albedo", albedo); err != nil {
		return nil, err
	}

	texture, err := params.String("texture", "solid")
	if err != nil {
		return nil, err
	}
	switch texture {
	case "solid":
		return NewSolidColor(albedo), nil
	case "checkerboard":
		odd, err := params.Spectrum("albedo2", core.Gray(0.1))
		if err != nil {
			return nil, err
		}
		if err := validateAlbedo("albedo2", odd); err != nil {
			return nil, err
		}
		scale, err := params.Float("scale", 8)
		if err != nil {
			return nil, err
		}
		if scale <= 0 {
			return nil, core.InvalidParameter("", "scale", fmt.Sprintf("must be positive, got %g", scale))
		}
		return NewCheckerboard(albedo, odd, scale), nil
	}
	return nil, core.InvalidParameter("", "texture", fmt.Sprintf("unknown texture %q", texture))
}

func validateAlbedo(key string, s core.Spectrum) error {
	if !s.IsValid() {
		return core.InvalidParameter("", key, fmt.Sprintf("must be finite and non-negative, got %v", s))
	}
	return nil
}
