package integrator

import (
	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/scene"
)

// IlluminationFlags select which parts of the light transport Li estimates
type IlluminationFlags uint8

const (
	// IlluminationDirect counts radiance emitted directly toward the ray origin
	IlluminationDirect IlluminationFlags = 1 << iota
	// IlluminationIndirect counts light scattered at the surfaces the ray reaches
	IlluminationIndirect

	IlluminationAll = IlluminationDirect | IlluminationIndirect
)

// Has reports whether every flag in other is set
func (f IlluminationFlags) Has(other IlluminationFlags) bool {
	return f&other == other
}

// Integrator defines the interface for light transport algorithms.
// Preprocess is called once, single-threaded, before rendering; Li is then called
// concurrently from every worker with a worker-owned sampler.
type Integrator interface {
	Preprocess(s *scene.Scene) error
	// Li estimates the radiance arriving at the ray origin along the ray.
	// The result is finite and non-negative.
	Li(s *scene.Scene, sampler core.Sampler, ray core.Ray, flags IlluminationFlags) core.Spectrum
}
