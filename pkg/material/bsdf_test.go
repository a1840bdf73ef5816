package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/FallenShard/crisp-go/pkg/core"
)

func randomHemisphereDirection(random *rand.Rand) core.Vec3 {
	return core.SquareToUniformHemisphere(core.NewVec2(random.Float64(), random.Float64()))
}

func TestDeltaBSDFs_EvalAndPdfAreZero(t *testing.T) {
	bsdfs := map[string]BSDF{
		"Mirror":          NewMirror(core.Gray(1)),
		"SmoothConductor": NewSmoothConductor(defaultConductorEta, defaultConductorK, core.Gray(1)),
		"Dielectric":      NewDielectric(1.5, 1.0),
	}
	random := rand.New(rand.NewSource(42))

	for name, bsdf := range bsdfs {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				wi := randomHemisphereDirection(random)
				wo := randomHemisphereDirection(random)
				if i%2 == 0 {
					// Include the exact mirror configuration
					wo = reflect(wi)
				}
				s := NewBSDFSample(wi, wo)
				if pdf := bsdf.PDF(&s); pdf != 0 {
					t.Fatalf("PDF should be exactly 0, got %g", pdf)
				}
				if f := bsdf.Eval(&s); !f.IsZero() {
					t.Fatalf("Eval should be exactly zero, got %v", f)
				}
			}
			if bsdf.Lobes().CanBeLightSampled() {
				t.Errorf("Delta BSDF should not be light-sampleable")
			}
		})
	}
}

func TestDeltaBSDFs_SampleIsDiscrete(t *testing.T) {
	bsdfs := map[string]BSDF{
		"Mirror":          NewMirror(core.Gray(1)),
		"SmoothConductor": NewSmoothConductor(defaultConductorEta, defaultConductorK, core.Gray(1)),
	}
	sampler := core.NewIndependentSampler(1, 42)
	wi := core.NewVec3(0.3, -0.2, 0.9).Normalize()

	for name, bsdf := range bsdfs {
		t.Run(name, func(t *testing.T) {
			s := NewBSDFSample(wi, core.Vec3{})
			weight := bsdf.Sample(&s, sampler)

			if s.PDF != 1 || s.Measure != MeasureDiscrete || s.SampledLobe != LobeDelta {
				t.Errorf("Expected pdf 1, discrete measure, delta lobe; got %+v", s)
			}
			if !s.Wo.Equals(core.NewVec3(-wi.X, -wi.Y, wi.Z)) {
				t.Errorf("Expected mirror direction, got %v", s.Wo)
			}
			if weight.IsZero() || !weight.IsValid() {
				t.Errorf("Expected a valid non-zero weight, got %v", weight)
			}
		})
	}
}

func TestMirror_SampleWeightIsOne(t *testing.T) {
	mirror := NewMirror(core.Gray(1))
	s := NewBSDFSample(core.NewVec3(0, 0, 1), core.Vec3{})
	weight := mirror.Sample(&s, core.NewFixedSampler(1))
	if weight != core.Gray(1) {
		t.Errorf("Expected weight 1, got %v", weight)
	}
}

func TestSmoothConductor_FresnelAtNormalIncidence(t *testing.T) {
	// Normal incidence reflectance: ((n-1)² + k²) / ((n+1)² + k²)
	eta := core.Gray(0.2)
	k := core.Gray(3.0)
	conductor := NewSmoothConductor(eta, k, core.Gray(1))
	s := NewBSDFSample(core.NewVec3(0, 0, 1), core.Vec3{})
	weight := conductor.Sample(&s, core.NewFixedSampler(1))

	expected := ((0.2-1)*(0.2-1) + 9) / ((0.2+1)*(0.2+1) + 9)
	if math.Abs(weight.R-expected) > 1e-9 {
		t.Errorf("Expected reflectance %f, got %f", expected, weight.R)
	}
}

func TestLambertian_EvalPdfSample(t *testing.T) {
	albedo := core.NewSpectrum(0.8, 0.5, 0.2)
	lambertian := NewLambertian(albedo)
	sampler := core.NewIndependentSampler(1, 42)
	wi := core.NewVec3(0, 0, 1)

	for i := 0; i < 100; i++ {
		s := NewBSDFSample(wi, core.Vec3{})
		weight := lambertian.Sample(&s, sampler)
		if s.PDF <= 0 {
			continue
		}
		if s.SampledLobe != LobeDiffuse || s.Measure != MeasureSolidAngle {
			t.Fatalf("Unexpected lobe/measure: %+v", s)
		}

		f := lambertian.Eval(&s)
		expectedWeight := f.Multiply(core.CosTheta(s.Wo) / lambertian.PDF(&s))
		if math.Abs(weight.R-expectedWeight.R) > 1e-9 || math.Abs(weight.B-expectedWeight.B) > 1e-9 {
			t.Fatalf("Weight %v does not match eval·cos/pdf %v", weight, expectedWeight)
		}
		if math.Abs(s.PDF-lambertian.PDF(&s)) > 1e-12 {
			t.Fatalf("Sample pdf %f does not match PDF() %f", s.PDF, lambertian.PDF(&s))
		}
	}

	below := NewBSDFSample(wi, core.NewVec3(0, 0, -1))
	if f := lambertian.Eval(&below); !f.IsZero() {
		t.Errorf("Eval below the surface should be zero, got %v", f)
	}
	if pdf := lambertian.PDF(&below); pdf != 0 {
		t.Errorf("PDF below the surface should be zero, got %f", pdf)
	}
}

func TestLambertian_Checkerboard(t *testing.T) {
	lambertian := NewTexturedLambertian(NewCheckerboard(core.Gray(0.9), core.Gray(0.1), 2))
	wi := core.NewVec3(0, 0, 1)

	even := NewBSDFSampleAt(wi, wi, core.NewVec2(0.1, 0.1))
	odd := NewBSDFSampleAt(wi, wi, core.NewVec2(0.6, 0.1))
	if got := lambertian.Eval(&even).R * math.Pi; math.Abs(got-0.9) > 1e-12 {
		t.Errorf("Expected even check albedo 0.9, got %f", got)
	}
	if got := lambertian.Eval(&odd).R * math.Pi; math.Abs(got-0.1) > 1e-12 {
		t.Errorf("Expected odd check albedo 0.1, got %f", got)
	}
}

func TestRoughConductor_SampleMatchesEval(t *testing.T) {
	for _, name := range []string{"ggx", "beckmann"} {
		t.Run(name, func(t *testing.T) {
			dist, err := NewMicrofacetDistribution(name, 0.3)
			if err != nil {
				t.Fatal(err)
			}
			conductor := NewRoughConductor(dist, defaultConductorEta, defaultConductorK)
			sampler := core.NewIndependentSampler(1, 7)
			wi := core.NewVec3(0.4, 0.1, 0.8).Normalize()

			valid := 0
			for i := 0; i < 2000; i++ {
				s := NewBSDFSample(wi, core.Vec3{})
				weight := conductor.Sample(&s, sampler)
				if s.PDF == 0 {
					if !weight.IsZero() {
						t.Fatalf("Failed sample should return zero, got %v", weight)
					}
					continue
				}
				valid++
				if s.SampledLobe != LobeGlossy {
					t.Fatalf("Expected glossy lobe, got %v", s.SampledLobe)
				}
				pdf := conductor.PDF(&s)
				if math.Abs(pdf-s.PDF) > 1e-6*math.Max(1, pdf) {
					t.Fatalf("Sample pdf %g does not match PDF() %g", s.PDF, pdf)
				}
				expected := conductor.Eval(&s).Multiply(core.CosTheta(s.Wo) / pdf)
				if math.Abs(weight.G-expected.G) > 1e-6*math.Max(1, expected.G) {
					t.Fatalf("Weight %v does not match eval·cos/pdf %v", weight, expected)
				}
			}
			if valid < 1000 {
				t.Errorf("Too few valid samples: %d", valid)
			}
		})
	}
}

func TestBeckmann_PdfIntegratesToOneAtNormalIncidence(t *testing.T) {
	dist, _ := NewMicrofacetDistribution("beckmann", 0.2)
	conductor := NewRoughConductor(dist, defaultConductorEta, defaultConductorK)
	wi := core.NewVec3(0, 0, 1)

	const thetaSteps, phiSteps = 4000, 16
	dTheta := (math.Pi / 2) / thetaSteps
	dPhi := 2 * math.Pi / phiSteps
	sum := 0.0
	for i := 0; i < thetaSteps; i++ {
		theta := (float64(i) + 0.5) * dTheta
		for j := 0; j < phiSteps; j++ {
			phi := (float64(j) + 0.5) * dPhi
			wo := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Sin(theta)*math.Sin(phi), math.Cos(theta))
			s := NewBSDFSample(wi, wo)
			sum += conductor.PDF(&s) * math.Sin(theta)
		}
	}
	if integral := sum * dTheta * dPhi; math.Abs(integral-1) > 1e-2 {
		t.Errorf("PDF integrates to %f, expected 1", integral)
	}
}

func TestDielectric_ReflectOrRefract(t *testing.T) {
	glass := NewDielectric(1.5, 1.0)
	wi := core.NewVec3(0, 0, 1)

	// Normal incidence reflectance is 0.04
	reflected := NewBSDFSample(wi, core.Vec3{})
	weight := glass.Sample(&reflected, core.NewFixedSampler(1, 0.01))
	if !reflected.Wo.Equals(wi) || weight != core.Gray(1) || reflected.Eta != 1 {
		t.Errorf("Expected reflection with unit weight, got wo=%v weight=%v eta=%f", reflected.Wo, weight, reflected.Eta)
	}

	refracted := NewBSDFSample(wi, core.Vec3{})
	weight = glass.Sample(&refracted, core.NewFixedSampler(1, 0.5))
	if !refracted.Wo.Equals(core.NewVec3(0, 0, -1)) {
		t.Errorf("Expected straight transmission, got %v", refracted.Wo)
	}
	if refracted.Eta != 1.5 || math.Abs(weight.R-1/2.25) > 1e-12 {
		t.Errorf("Expected eta 1.5 and weight 1/2.25, got %f and %v", refracted.Eta, weight)
	}
	if refracted.PDF != 1 || refracted.Measure != MeasureDiscrete {
		t.Errorf("Dielectric samples should be discrete with pdf 1, got %+v", refracted)
	}
}

func TestDielectric_SnellsLaw(t *testing.T) {
	glass := NewDielectric(1.5, 1.0)
	wi := core.NewVec3(math.Sin(0.6), 0, math.Cos(0.6))
	s := NewBSDFSample(wi, core.Vec3{})
	glass.Sample(&s, core.NewFixedSampler(1, 0.99))

	sinI := math.Sqrt(wi.X*wi.X + wi.Y*wi.Y)
	sinT := math.Sqrt(s.Wo.X*s.Wo.X + s.Wo.Y*s.Wo.Y)
	if math.Abs(sinI-1.5*sinT) > 1e-9 {
		t.Errorf("Snell's law violated: sinI=%f sinT=%f", sinI, sinT)
	}
	if s.Wo.Z >= 0 || math.Abs(s.Wo.Length()-1) > 1e-9 {
		t.Errorf("Refracted direction should be a unit vector below the surface, got %v", s.Wo)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5, 1.0)
	// Leaving the glass at a grazing angle beyond the critical angle
	wi := core.NewVec3(math.Sin(1.2), 0, -math.Cos(1.2))
	for _, u := range []float64{0.0, 0.5, 0.999} {
		s := NewBSDFSample(wi, core.Vec3{})
		glass.Sample(&s, core.NewFixedSampler(1, u))
		if !s.Wo.Equals(reflect(wi)) {
			t.Errorf("Expected total internal reflection for u=%f, got %v", u, s.Wo)
		}
	}
}

func TestFresnelDielectric(t *testing.T) {
	r, cosT := FresnelDielectric(1, 1.5)
	if math.Abs(r-0.04) > 1e-12 || cosT != 1 {
		t.Errorf("Expected 0.04 at normal incidence, got %f (cosT %f)", r, cosT)
	}
	if r, _ := FresnelDielectric(0.3, 1); r != 0 {
		t.Errorf("Index-matched interface should not reflect, got %f", r)
	}
}

func TestMix_PdfAndEvalBlend(t *testing.T) {
	mix := NewMix(NewLambertian(core.Gray(0.8)), NewMirror(core.Gray(1)), 0.25)
	wi := core.NewVec3(0, 0, 1)
	wo := core.NewVec3(0.6, 0, 0.8)
	s := NewBSDFSample(wi, wo)

	if got, want := mix.PDF(&s), 0.75*0.8/math.Pi; math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected pdf %f, got %f", want, got)
	}
	if got, want := mix.Eval(&s).R, 0.75*0.8/math.Pi; math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected eval %f, got %f", want, got)
	}

	// First value selects the mirror, the rest drive the diffuse sample
	delta := NewBSDFSample(wi, core.Vec3{})
	weight := mix.Sample(&delta, core.NewFixedSampler(1, 0.1))
	if delta.SampledLobe != LobeDelta || weight != core.Gray(1) {
		t.Errorf("Expected mirror sample with unit weight, got lobe %v weight %v", delta.SampledLobe, weight)
	}

	diffuse := NewBSDFSample(wi, core.Vec3{})
	weight = mix.Sample(&diffuse, core.NewFixedSampler(1, 0.9, 0.3, 0.6))
	if diffuse.SampledLobe != LobeDiffuse {
		t.Fatalf("Expected diffuse sample, got %v", diffuse.SampledLobe)
	}
	// Mixture pdf is 0.75·cos/π, blended eval 0.75·0.8/π, so the weight stays 0.8
	if math.Abs(weight.R-0.8) > 1e-9 {
		t.Errorf("Expected weight 0.8, got %f", weight.R)
	}
}
