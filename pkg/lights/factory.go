package lights

import (
	"fmt"

	"github.com/FallenShard/crisp-go/pkg/core"
)

var factory = core.NewFactory[Light]("light", "point")

func init() {
	factory.Register("point", func(params core.VariantMap) (Light, error) {
		position, err := params.Vec3("position", core.Vec3{})
		if err != nil {
			return nil, err
		}
		power, err := parseEmission(params, "power", core.Gray(100))
		if err != nil {
			return nil, err
		}
		return NewPointLight(position, power), nil
	})
	factory.Register("spot", func(params core.VariantMap) (Light, error) {
		position, err := params.Vec3("position", core.Vec3{})
		if err != nil {
			return nil, err
		}
		target, err := params.Vec3("target", core.NewVec3(0, -1, 0))
		if err != nil {
			return nil, err
		}
		if target.Subtract(position).Length() == 0 {
			return nil, core.InvalidParameter("", "target", "must differ from position")
		}
		power, err := parseEmission(params, "power", core.Gray(100))
		if err != nil {
			return nil, err
		}
		angle, err := params.Float("coneAngle", 30)
		if err != nil {
			return nil, err
		}
		delta, err := params.Float("coneDelta", 5)
		if err != nil {
			return nil, err
		}
		if angle <= 0 || angle > 180 || delta < 0 || delta > angle {
			return nil, core.InvalidParameter("", "coneAngle", fmt.Sprintf("need 0 < coneAngle <= 180 and 0 <= coneDelta <= coneAngle, got %g/%g", angle, delta))
		}
		return NewSpotLight(position, target, power, angle, delta), nil
	})
	factory.Register("directional", func(params core.VariantMap) (Light, error) {
		direction, err := params.Vec3("direction", core.NewVec3(0, -1, 0))
		if err != nil {
			return nil, err
		}
		if direction.Length() == 0 || !direction.IsFinite() {
			return nil, core.InvalidParameter("", "direction", "must be a non-zero vector")
		}
		irradiance, err := parseEmission(params, "irradiance", core.Gray(1))
		if err != nil {
			return nil, err
		}
		return NewDirectionalLight(direction, irradiance), nil
	})
	factory.Register("area", func(params core.VariantMap) (Light, error) {
		radiance, err := parseEmission(params, "radiance", core.Gray(1))
		if err != nil {
			return nil, err
		}
		return NewAreaLight(radiance), nil
	})
	factory.Register("environment", func(params core.VariantMap) (Light, error) {
		radiance, err := parseEmission(params, "radiance", core.Gray(1))
		if err != nil {
			return nil, err
		}
		return NewEnvironmentLight(radiance), nil
	})
}

// Create builds a light from a type name and parameters.
// Unknown types fall back to a point light with a warning diagnostic.
func Create(typeName string, params core.VariantMap, diag core.Diagnostics) (Light, error) {
	return factory.Create(typeName, params, diag)
}

// Types returns the registered light type names
func Types() []string {
	return factory.Types()
}

func parseEmission(params core.VariantMap, key string, def core.Spectrum) (core.Spectrum, error) {
	s, err := params.Spectrum(key, def)
	if err != nil {
		return core.Spectrum{}, err
	}
	if !s.IsValid() {
		return core.Spectrum{}, core.InvalidParameter("", key, fmt.Sprintf("must be finite and non-negative, got %v", s))
	}
	return s, nil
}
