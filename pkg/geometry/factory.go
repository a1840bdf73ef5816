package geometry

import (
	"fmt"
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

var factory = core.NewFactory[Shape]("shape", "mesh")

func init() {
	factory.Register("sphere", func(params core.VariantMap) (Shape, error) {
		center, err := params.Vec3("center", core.Vec3{})
		if err != nil {
			return nil, err
		}
		radius, err := params.Float("radius", 1)
		if err != nil {
			return nil, err
		}
		if radius <= 0 {
			return nil, core.InvalidParameter("", "radius", fmt.Sprintf("must be positive, got %g", radius))
		}
		return NewSphere(center, radius), nil
	})
	factory.Register("rectangle", func(params core.VariantMap) (Shape, error) {
		origin, err := params.Vec3("origin", core.NewVec3(-1, 0, -1))
		if err != nil {
			return nil, err
		}
		edgeU, err := params.Vec3("edgeU", core.NewVec3(0, 0, 2))
		if err != nil {
			return nil, err
		}
		edgeV, err := params.Vec3("edgeV", core.NewVec3(2, 0, 0))
		if err != nil {
			return nil, err
		}
		if edgeU.Cross(edgeV).Length() == 0 {
			return nil, core.InvalidParameter("", "edgeU", "edges must span a non-degenerate rectangle")
		}
		return NewRectangle(origin, edgeU, edgeV), nil
	})
	factory.Register("disc", func(params core.VariantMap) (Shape, error) {
		center, err := params.Vec3("center", core.Vec3{})
		if err != nil {
			return nil, err
		}
		normal, err := params.Vec3("normal", core.NewVec3(0, 1, 0))
		if err != nil {
			return nil, err
		}
		if normal.Length() == 0 {
			return nil, core.InvalidParameter("", "normal", "must be a non-zero vector")
		}
		radius, err := params.Float("radius", 1)
		if err != nil {
			return nil, err
		}
		if radius <= 0 {
			return nil, core.InvalidParameter("", "radius", fmt.Sprintf("must be positive, got %g", radius))
		}
		return NewDisc(center, normal, radius), nil
	})
	factory.Register("mesh", func(params core.VariantMap) (Shape, error) {
		flat, err := params.Floats("positions", nil)
		if err != nil {
			return nil, err
		}
		if len(flat)%3 != 0 {
			return nil, core.InvalidParameter("", "positions", fmt.Sprintf("length %d is not a multiple of 3", len(flat)))
		}
		positions := make([]core.Vec3, len(flat)/3)
		for i := range positions {
			positions[i] = core.NewVec3(flat[3*i], flat[3*i+1], flat[3*i+2])
		}
		indices, err := params.Ints("indices", nil)
		if err != nil {
			return nil, err
		}
		mesh, err := NewMesh(positions, indices)
		if err != nil {
			return nil, core.InvalidParameter("", "indices", err.Error())
		}
		return mesh, nil
	})
	factory.Register("cube", func(params core.VariantMap) (Shape, error) {
		center, err := params.Vec3("center", core.Vec3{})
		if err != nil {
			return nil, err
		}
		size, err := params.Vec3("size", core.NewVec3(1, 1, 1))
		if err != nil {
			return nil, err
		}
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return nil, core.InvalidParameter("", "size", fmt.Sprintf("half-extents must be positive, got %v", size))
		}
		rotation, err := params.Vec3("rotation", core.Vec3{})
		if err != nil {
			return nil, err
		}
		radians := rotation.Multiply(math.Pi / 180)
		return NewBoxMesh(center, size, radians), nil
	})
}

// Create builds a shape from a type name and parameters.
// Unknown types fall back to an empty mesh with a warning diagnostic.
func Create(typeName string, params core.VariantMap, diag core.Diagnostics) (Shape, error) {
	return factory.Create(typeName, params, diag)
}

// Types returns the registered shape type names
func Types() []string {
	return factory.Types()
}
