package geometry

import (
	"fmt"
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// Mesh is an indexed triangle mesh. Each triangle is one BVH primitive.
type Mesh struct {
	binding
	positions []core.Vec3
	indices   []int
	normals   []core.Vec3 // per-triangle geometric normals
	areas     []float64
	area      float64
	table     *core.AliasTable // area-weighted triangle selection
}

// NewMesh creates a mesh from vertex positions and triangle indices
// (each group of 3 indices forms a triangle, wound counter-clockwise around the normal)
func NewMesh(positions []core.Vec3, indices []int) (*Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for i, index := range indices {
		if index < 0 || index >= len(positions) {
			return nil, fmt.Errorf("index %d at position %d out of range [0, %d)", index, i, len(positions))
		}
	}

	m := &Mesh{
		binding:   newBinding(),
		positions: append([]core.Vec3(nil), positions...),
		indices:   append([]int(nil), indices...),
	}

	numTriangles := len(indices) / 3
	m.normals = make([]core.Vec3, numTriangles)
	m.areas = make([]float64, numTriangles)
	for i := 0; i < numTriangles; i++ {
		v0, v1, v2 := m.vertices(i)
		cross := v1.Subtract(v0).Cross(v2.Subtract(v0))
		m.areas[i] = 0.5 * cross.Length()
		m.area += m.areas[i]
		if m.areas[i] > 0 {
			m.normals[i] = cross.Normalize()
		}
	}
	m.table = core.NewAliasTable(m.areas)
	return m, nil
}

func (m *Mesh) vertices(i int) (core.Vec3, core.Vec3, core.Vec3) {
	return m.positions[m.indices[3*i]], m.positions[m.indices[3*i+1]], m.positions[m.indices[3*i+2]]
}

func (m *Mesh) PrimitiveCount() int {
	return len(m.indices) / 3
}

func (m *Mesh) PrimitiveBounds(i int) AABB {
	v0, v1, v2 := m.vertices(i)
	return NewAABBFromPoints(v0, v1, v2).Expand(1e-9)
}

// IntersectPrimitive uses the Möller-Trumbore algorithm. UV holds the barycentric
// weights of the second and third vertex.
func (m *Mesh) IntersectPrimitive(ray core.Ray, i int) (float64, core.Vec2, bool) {
	const epsilon = 1e-12
	v0, v1, v2 := m.vertices(i)

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return 0, core.Vec2{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, core.Vec2{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, core.Vec2{}, false
	}

	t := f * edge2.Dot(q)
	if t < ray.MinT || t > ray.MaxT {
		return 0, core.Vec2{}, false
	}
	return t, core.NewVec2(u, v), true
}

func (m *Mesh) FillIntersection(ray core.Ray, i int, t float64, uv core.Vec2, its *Intersection) {
	its.T = t
	its.P = ray.At(t)
	its.GeoNormal = m.normals[i]
	its.Frame = core.NewFrame(m.normals[i])
	its.UV = uv
}

func (m *Mesh) Area() float64 {
	return m.area
}

// SampleSurface picks a triangle proportionally to its area, reusing the leftover
// precision of u.X, then a uniform point inside it
func (m *Mesh) SampleSurface(u core.Vec2) (core.Vec3, core.Vec3) {
	elements := m.table.Elements()
	if len(elements) == 0 || m.area == 0 {
		return core.Vec3{}, core.Vec3{}
	}

	scaled := u.X * float64(len(elements))
	bucket := min(int(scaled), len(elements)-1)
	remapped := scaled - float64(bucket)

	index := bucket
	if tau := elements[bucket].Tau; remapped < tau {
		remapped /= tau
	} else {
		index = elements[bucket].J
		remapped = (remapped - tau) / (1 - tau)
	}
	remapped = math.Min(remapped, 1-1e-12)

	bary := core.SquareToUniformTriangle(core.NewVec2(remapped, u.Y))
	v0, v1, v2 := m.vertices(index)
	p := v0.Multiply(1 - bary.X - bary.Y).Add(v1.Multiply(bary.X)).Add(v2.Multiply(bary.Y))
	return p, m.normals[index]
}

// NewBoxMesh creates a closed box with outward-facing triangles.
// Size holds half-extents; rotation is in radians around X, Y, Z (applied in that order).
func NewBoxMesh(center, size, rotation core.Vec3) *Mesh {
	// The 8 corners of a unit box centered at origin
	corners := []core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		corners[i] = rotateVertex(corners[i].MultiplyVec(size), rotation).Add(center)
	}

	indices := []int{
		4, 5, 6, 4, 6, 7, // front (+Z)
		1, 0, 3, 1, 3, 2, // back (-Z)
		0, 4, 7, 0, 7, 3, // left (-X)
		5, 1, 2, 5, 2, 6, // right (+X)
		7, 6, 2, 7, 2, 3, // top (+Y)
		0, 1, 5, 0, 5, 4, // bottom (-Y)
	}
	mesh, err := NewMesh(corners, indices)
	if err != nil {
		panic(err) // fixed topology
	}
	return mesh
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}

	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}

	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}

	return vertex
}
