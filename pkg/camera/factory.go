package camera

import (
	"fmt"

	"github.com/FallenShard/crisp-go/pkg/core"
)

var factory = core.NewFactory[Camera]("camera", "perspective")

func init() {
	factory.Register("perspective", func(params core.VariantMap) (Camera, error) {
		cfg, err := parseConfig(params)
		if err != nil {
			return nil, err
		}
		fov, err := params.Float("fov", 45)
		if err != nil {
			return nil, err
		}
		if fov <= 0 || fov >= 180 {
			return nil, core.InvalidParameter("", "fov", fmt.Sprintf("must be in (0, 180), got %g", fov))
		}
		aperture, err := params.Float("aperture", 0)
		if err != nil {
			return nil, err
		}
		if aperture < 0 {
			return nil, core.InvalidParameter("", "aperture", fmt.Sprintf("must be non-negative, got %g", aperture))
		}
		focusDistance, err := params.Float("focusDistance", cfg.Target.Subtract(cfg.Origin).Length())
		if err != nil {
			return nil, err
		}
		if focusDistance <= 0 {
			return nil, core.InvalidParameter("", "focusDistance", fmt.Sprintf("must be positive, got %g", focusDistance))
		}
		return NewPerspective(cfg, fov, aperture, focusDistance), nil
	})
	factory.Register("orthographic", func(params core.VariantMap) (Camera, error) {
		cfg, err := parseConfig(params)
		if err != nil {
			return nil, err
		}
		scale, err := params.Float("scale", 1)
		if err != nil {
			return nil, err
		}
		if scale <= 0 {
			return nil, core.InvalidParameter("", "scale", fmt.Sprintf("must be positive, got %g", scale))
		}
		return NewOrthographic(cfg, scale), nil
	})
}

// Create builds a camera. Unknown types fall back to perspective with a warning.
func Create(typeName string, params core.VariantMap, diag core.Diagnostics) (Camera, error) {
	return factory.Create(typeName, params, diag)
}

func parseConfig(params core.VariantMap) (Config, error) {
	cfg := Config{}
	var err error
	if cfg.Origin, err = params.Vec3("origin", core.NewVec3(0, 0, 5)); err != nil {
		return cfg, err
	}
	if cfg.Target, err = params.Vec3("target", core.Vec3{}); err != nil {
		return cfg, err
	}
	if cfg.Up, err = params.Vec3("up", core.NewVec3(0, 1, 0)); err != nil {
		return cfg, err
	}
	if cfg.Width, err = params.Int("width", 400); err != nil {
		return cfg, err
	}
	if cfg.Height, err = params.Int("height", 300); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return core.InvalidParameter("", "width", fmt.Sprintf("film size must be positive, got %dx%d", c.Width, c.Height))
	}
	forward := c.Target.Subtract(c.Origin)
	if forward.Length() == 0 {
		return core.InvalidParameter("", "target", "must differ from origin")
	}
	if forward.Cross(c.Up).Length() == 0 {
		return core.InvalidParameter("", "up", "must not be parallel to the view direction")
	}
	return nil
}
