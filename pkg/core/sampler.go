package core

import (
	"fmt"
	"math/rand"
)

// Sampler provides the random values consumed by every stochastic decision.
// Samplers are not safe for concurrent use; each worker owns its own instance.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	// SampleCount returns the configured number of samples per pixel
	SampleCount() int
	// Seed restarts the sequence so a pixel, tile or pass can be reproduced
	Seed(seed int64)
	// Clone returns an independent sampler with the same configuration
	Clone() Sampler
}

// IndependentSampler produces an uncorrelated pseudorandom stream
type IndependentSampler struct {
	random      *rand.Rand
	sampleCount int
}

// NewIndependentSampler creates a sampler backed by a seeded Go random generator
func NewIndependentSampler(sampleCount int, seed int64) *IndependentSampler {
	return &IndependentSampler{
		random:      rand.New(rand.NewSource(seed)),
		sampleCount: sampleCount,
	}
}

// Get1D returns a random float64 in [0, 1)
func (s *IndependentSampler) Get1D() float64 {
	return s.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (s *IndependentSampler) Get2D() Vec2 {
	return NewVec2(s.random.Float64(), s.random.Float64())
}

func (s *IndependentSampler) SampleCount() int {
	return s.sampleCount
}

func (s *IndependentSampler) Seed(seed int64) {
	s.random.Seed(seed)
}

func (s *IndependentSampler) Clone() Sampler {
	return NewIndependentSampler(s.sampleCount, 0)
}

// FixedSampler replays a recorded sequence of values, cycling when it runs out.
// Used for tests and for debugging a single path.
type FixedSampler struct {
	values      []float64
	next        int
	sampleCount int
}

// NewFixedSampler creates a sampler replaying the given values.
// An empty sequence replays 0.5.
func NewFixedSampler(sampleCount int, values ...float64) *FixedSampler {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	recorded := make([]float64, len(values))
	copy(recorded, values)
	return &FixedSampler{values: recorded, sampleCount: sampleCount}
}

func (s *FixedSampler) Get1D() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

func (s *FixedSampler) Get2D() Vec2 {
	x := s.Get1D()
	return NewVec2(x, s.Get1D())
}

func (s *FixedSampler) SampleCount() int {
	return s.sampleCount
}

// Seed rewinds the sequence; the seed value itself is ignored
func (s *FixedSampler) Seed(seed int64) {
	s.next = 0
}

func (s *FixedSampler) Clone() Sampler {
	return NewFixedSampler(s.sampleCount, s.values...)
}

// samplerConfig holds the parameters shared by every sampler variant
type samplerConfig struct {
	SampleCount int
	Seed        int64
	Values      []float64
}

func parseSamplerConfig(params VariantMap) (samplerConfig, error) {
	var cfg samplerConfig
	var err error
	if cfg.SampleCount, err = params.Int("sampleCount", 16); err != nil {
		return cfg, err
	}
	seed, err := params.Int("seed", 0)
	if err != nil {
		return cfg, err
	}
	cfg.Seed = int64(seed)
	if cfg.Values, err = params.Floats("values", []float64{0.5}); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c samplerConfig) validate() error {
	if c.SampleCount < 1 {
		return invalidParameter("sampler", "sampleCount", fmt.Sprintf("must be at least 1, got %d", c.SampleCount))
	}
	for _, v := range c.Values {
		if v < 0 || v >= 1 {
			return invalidParameter("sampler", "values", fmt.Sprintf("value %g outside [0, 1)", v))
		}
	}
	return nil
}

var samplerFactory = NewFactory[Sampler]("sampler", "independent")

func init() {
	samplerFactory.Register("independent", func(params VariantMap) (Sampler, error) {
		cfg, err := parseSamplerConfig(params)
		if err != nil {
			return nil, err
		}
		return NewIndependentSampler(cfg.SampleCount, cfg.Seed), nil
	})
	samplerFactory.Register("fixed", func(params VariantMap) (Sampler, error) {
		cfg, err := parseSamplerConfig(params)
		if err != nil {
			return nil, err
		}
		return NewFixedSampler(cfg.SampleCount, cfg.Values...), nil
	})
}

// CreateSampler builds a sampler from a type name and parameters.
// Unknown types fall back to the independent sampler.
func CreateSampler(typeName string, params VariantMap, diag Diagnostics) (Sampler, error) {
	return samplerFactory.Create(typeName, params, diag)
}
