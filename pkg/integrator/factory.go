package integrator

import (
	"fmt"

	"github.com/FallenShard/crisp-go/pkg/core"
)

var factory = core.NewFactory[Integrator]("integrator", "direct")

func init() {
	factory.Register("direct", func(params core.VariantMap) (Integrator, error) {
		return NewDirect(), nil
	})
	factory.Register("path", func(params core.VariantMap) (Integrator, error) {
		cfg, err := parsePathConfig(params)
		if err != nil {
			return nil, err
		}
		return NewPath(cfg.MaxDepth, cfg.RRDepth), nil
	})
	factory.Register("normals", func(params core.VariantMap) (Integrator, error) {
		return Normals{}, nil
	})
}

// Create builds an integrator. Unknown types fall back to direct lighting with a warning.
func Create(typeName string, params core.VariantMap, diag core.Diagnostics) (Integrator, error) {
	return factory.Create(typeName, params, diag)
}

// Types returns the registered integrator names
func Types() []string {
	return factory.Types()
}

type pathConfig struct {
	MaxDepth int
	RRDepth  int
}

func parsePathConfig(params core.VariantMap) (pathConfig, error) {
	cfg := pathConfig{}
	var err error
	if cfg.MaxDepth, err = params.Int("maxDepth", 8); err != nil {
		return cfg, err
	}
	if cfg.RRDepth, err = params.Int("rrDepth", 3); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c pathConfig) validate() error {
	if c.MaxDepth < 1 {
		return core.InvalidParameter("", "maxDepth", fmt.Sprintf("must be at least 1, got %d", c.MaxDepth))
	}
	if c.RRDepth < 0 {
		return core.InvalidParameter("", "rrDepth", fmt.Sprintf("must be non-negative, got %d", c.RRDepth))
	}
	return nil
}
