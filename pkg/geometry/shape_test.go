package geometry

import (
	"math"
	"testing"

	"github.com/FallenShard/crisp-go/pkg/core"
)

func intersect(shape Shape, ray core.Ray) (Intersection, bool) {
	var its Intersection
	t, uv, ok := shape.IntersectPrimitive(ray, 0)
	if ok {
		shape.FillIntersection(ray, 0, t, uv, &its)
	}
	return its, ok
}

func TestSphere_Intersect(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5)

	tests := []struct {
		name      string
		ray       core.Ray
		expectHit bool
		expectedT float64
	}{
		{"Hit from front", core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), true, 0.5},
		{"Miss to the side", core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), false, 0},
		{"From inside", core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0)), true, 0.5},
		{"Behind origin", core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			its, hit := intersect(sphere, tt.ray)
			if hit != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, hit)
			}
			if !hit {
				return
			}
			if math.Abs(its.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, its.T)
			}
			// Normal points outward regardless of the ray side
			outward := its.P.Subtract(sphere.Center).Normalize()
			if !its.GeoNormal.Equals(outward) || !its.Frame.Normal.Equals(outward) {
				t.Errorf("Expected outward normal %v, got %v", outward, its.GeoNormal)
			}
		})
	}
}

func TestSphere_RespectsRayInterval(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -3), 1)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	ray.MaxT = 1.5
	if _, hit := intersect(sphere, ray); hit {
		t.Errorf("Hit at t=2 should be outside [MinT, 1.5]")
	}
}

func TestRectangle_Intersect(t *testing.T) {
	rect := NewRectangle(core.Vec3{}, core.NewVec3(2, 0, 0), core.NewVec3(0, 0, -4))

	its, hit := intersect(rect, core.NewRay(core.NewVec3(0.5, 1, -1), core.NewVec3(0, -1, 0)))
	if !hit {
		t.Fatal("Expected a hit")
	}
	if math.Abs(its.UV.X-0.25) > 1e-9 || math.Abs(its.UV.Y-0.25) > 1e-9 {
		t.Errorf("Expected uv (0.25, 0.25), got %v", its.UV)
	}
	if !its.GeoNormal.Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("Expected +Y normal, got %v", its.GeoNormal)
	}
	if math.Abs(rect.Area()-8) > 1e-12 {
		t.Errorf("Expected area 8, got %f", rect.Area())
	}

	if _, hit := intersect(rect, core.NewRay(core.NewVec3(3, 1, -1), core.NewVec3(0, -1, 0))); hit {
		t.Errorf("Point outside the edges should miss")
	}
	if _, hit := intersect(rect, core.NewRay(core.NewVec3(0.5, 1, -1), core.NewVec3(1, 0, 0))); hit {
		t.Errorf("Parallel ray should miss")
	}
}

func TestDisc_IntersectAndSample(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), 2)

	if _, hit := intersect(disc, core.NewRay(core.NewVec3(1.5, 0, 0), core.NewVec3(0, 1, 0))); !hit {
		t.Errorf("Expected a hit inside the radius")
	}
	if _, hit := intersect(disc, core.NewRay(core.NewVec3(1.5, 0, 1.5), core.NewVec3(0, 1, 0))); hit {
		t.Errorf("Expected a miss outside the radius")
	}

	sampler := core.NewIndependentSampler(1, 42)
	for i := 0; i < 100; i++ {
		p, n := disc.SampleSurface(sampler.Get2D())
		if math.Abs(p.Y-1) > 1e-9 || p.Subtract(disc.Center).Length() > 2+1e-9 {
			t.Fatalf("Sample %v is not on the disc", p)
		}
		if !n.Equals(disc.Normal) {
			t.Fatalf("Expected disc normal, got %v", n)
		}
	}
}

func TestMesh_Validation(t *testing.T) {
	positions := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	if _, err := NewMesh(positions, []int{0, 1}); err == nil {
		t.Errorf("Index count not a multiple of 3 should fail")
	}
	if _, err := NewMesh(positions, []int{0, 1, 3}); err == nil {
		t.Errorf("Out of range index should fail")
	}
	mesh, err := NewMesh(nil, nil)
	if err != nil || mesh.PrimitiveCount() != 0 || mesh.Area() != 0 {
		t.Errorf("Empty mesh should be valid and empty")
	}
}

func TestMesh_SampleSurfaceIsAreaWeighted(t *testing.T) {
	// Two triangles in the XY plane, the right one three times larger
	positions := []core.Vec3{
		core.NewVec3(-1, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(-1, 1, 0),
		core.NewVec3(0, 0, 0), core.NewVec3(3, 0, 0), core.NewVec3(0, 1, 0),
	}
	mesh, err := NewMesh(positions, []int{0, 1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mesh.Area()-2) > 1e-12 {
		t.Fatalf("Expected area 2, got %f", mesh.Area())
	}

	sampler := core.NewIndependentSampler(1, 42)
	const n = 100000
	right := 0
	for i := 0; i < n; i++ {
		p, normal := mesh.SampleSurface(sampler.Get2D())
		if !normal.Equals(core.NewVec3(0, 0, 1)) || math.Abs(p.Z) > 1e-12 {
			t.Fatalf("Unexpected sample %v with normal %v", p, normal)
		}
		if p.X > 0 {
			right++
		}
	}
	if fraction := float64(right) / n; math.Abs(fraction-0.75) > 0.01 {
		t.Errorf("Expected 75%% of samples on the larger triangle, got %.3f", fraction)
	}
}

func TestBoxMesh_ClosedAndOutward(t *testing.T) {
	box := NewBoxMesh(core.Vec3{}, core.NewVec3(1, 2, 3), core.NewVec3(0, math.Pi/6, 0))
	if box.PrimitiveCount() != 12 {
		t.Fatalf("Expected 12 triangles, got %d", box.PrimitiveCount())
	}
	if expected := 8.0 * (1*2 + 2*3 + 1*3); math.Abs(box.Area()-expected) > 1e-9 {
		t.Errorf("Expected area %f, got %f", expected, box.Area())
	}

	bvh := NewBVH([]Shape{box})
	sampler := core.NewIndependentSampler(1, 42)
	for i := 0; i < 200; i++ {
		dir := core.SquareToUniformSphere(sampler.Get2D())
		var its Intersection
		if !bvh.Intersect(core.NewRay(core.Vec3{}, dir), &its) {
			t.Fatalf("Ray from the inside along %v escaped the box", dir)
		}
		if its.GeoNormal.Dot(dir) <= 0 {
			t.Fatalf("Normal %v should face outward along %v", its.GeoNormal, dir)
		}
	}
}
