package integrator

import (
	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/scene"
)

// Normals is a debug integrator that shows the absolute shading normal as a color
type Normals struct{}

func (Normals) Preprocess(s *scene.Scene) error {
	return nil
}

func (Normals) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray, flags IlluminationFlags) core.Spectrum {
	its, hit := s.Intersect(ray)
	if !hit {
		return core.Spectrum{}
	}
	n := its.Frame.Normal.Abs()
	return core.NewSpectrum(n.X, n.Y, n.Z).Sanitize()
}
