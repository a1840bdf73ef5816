package geometry

import (
	"github.com/FallenShard/crisp-go/pkg/core"
)

// primitiveRef names one primitive of one shape
type primitiveRef struct {
	shape     int
	primitive int
	bounds    AABB
	center    core.Vec3
}

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	prims       []primitiveRef // primitives of a leaf node (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy over the primitives of a list of shapes.
// Shape indices in intersections refer to that list. Safe for concurrent queries.
type BVH struct {
	Root   *BVHNode
	shapes []Shape
}

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 4

// NewBVH constructs a BVH over every primitive of the shapes
func NewBVH(shapes []Shape) *BVH {
	var refs []primitiveRef
	for s, shape := range shapes {
		for p := 0; p < shape.PrimitiveCount(); p++ {
			bounds := shape.PrimitiveBounds(p)
			refs = append(refs, primitiveRef{shape: s, primitive: p, bounds: bounds, center: bounds.Center()})
		}
	}

	bvh := &BVH{shapes: append([]Shape(nil), shapes...)}
	if len(refs) > 0 {
		bvh.Root = buildBVH(refs)
	}
	return bvh
}

// buildBVH recursively builds the BVH using median splits of the centroid bounds
// along the longest axis
func buildBVH(refs []primitiveRef) *BVHNode {
	boundingBox := EmptyAABB()
	centroids := EmptyAABB()
	for _, ref := range refs {
		boundingBox = boundingBox.Union(ref.bounds)
		centroids = centroids.Union(NewAABB(ref.center, ref.center))
	}

	if len(refs) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, prims: refs}
	}

	axis := centroids.LongestAxis()
	minVal, maxVal := centroids.Min.Axis(axis), centroids.Max.Axis(axis)
	if maxVal <= minVal {
		// All centroids coincide: no split separates them
		return &BVHNode{BoundingBox: boundingBox, prims: refs}
	}
	splitPos := (minVal + maxVal) * 0.5

	// Partition in place around the split position
	left := 0
	for i := range refs {
		if refs[i].center.Axis(axis) < splitPos {
			refs[i], refs[left] = refs[left], refs[i]
			left++
		}
	}
	if left == 0 || left == len(refs) {
		return &BVHNode{BoundingBox: boundingBox, prims: refs}
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(refs[:left]),
		Right:       buildBVH(refs[left:]),
	}
}

// hitRecord tracks the nearest hit found so far
type hitRecord struct {
	shape     int
	primitive int
	t         float64
	uv        core.Vec2
}

// Intersect finds the nearest hit in [ray.MinT, ray.MaxT] and fills its
func (bvh *BVH) Intersect(ray core.Ray, its *Intersection) bool {
	if bvh.Root == nil {
		return false
	}

	hit := hitRecord{shape: -1}
	bvh.hitNode(bvh.Root, &ray, &hit, false)
	if hit.shape < 0 {
		return false
	}

	ray.MaxT = hit.t
	bvh.shapes[hit.shape].FillIntersection(ray, hit.primitive, hit.t, hit.uv, its)
	its.ShapeID = Handle(hit.shape)
	its.Primitive = hit.primitive
	return true
}

// Occluded reports whether anything lies in [ray.MinT, ray.MaxT]
func (bvh *BVH) Occluded(ray core.Ray) bool {
	if bvh.Root == nil {
		return false
	}
	hit := hitRecord{shape: -1}
	return bvh.hitNode(bvh.Root, &ray, &hit, true)
}

// hitNode recursively tests the ray against a node. Each hit shrinks ray.MaxT so later
// tests only accept closer primitives. With anyHit the search stops at the first hit.
func (bvh *BVH) hitNode(node *BVHNode, ray *core.Ray, hit *hitRecord, anyHit bool) bool {
	if !node.BoundingBox.Hit(*ray, ray.MinT, ray.MaxT) {
		return false
	}

	if node.prims != nil {
		hitAnything := false
		for _, ref := range node.prims {
			t, uv, ok := bvh.shapes[ref.shape].IntersectPrimitive(*ray, ref.primitive)
			if !ok {
				continue
			}
			hitAnything = true
			*hit = hitRecord{shape: ref.shape, primitive: ref.primitive, t: t, uv: uv}
			if anyHit {
				return true
			}
			ray.MaxT = t
		}
		return hitAnything
	}

	hitLeft := node.Left != nil && bvh.hitNode(node.Left, ray, hit, anyHit)
	if hitLeft && anyHit {
		return true
	}
	hitRight := node.Right != nil && bvh.hitNode(node.Right, ray, hit, anyHit)
	return hitLeft || hitRight
}

// BoundingBox returns the overall bounding box of the BVH, invalid when empty
func (bvh *BVH) BoundingBox() AABB {
	if bvh.Root == nil {
		return EmptyAABB()
	}
	return bvh.Root.BoundingBox
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{}
	if bvh.Root == nil {
		return stats
	}
	bvh.collectStats(bvh.Root, 0, &stats)
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes      int
	LeafNodes       int
	MaxDepth        int
	AvgDepth        float64
	TotalPrimitives int
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.prims != nil {
		stats.LeafNodes++
		stats.TotalPrimitives += len(node.prims)
		stats.AvgDepth += float64(depth)
		return
	}
	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}
