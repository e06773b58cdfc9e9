package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeBox ShapeType = iota
	ShapeTypeMesh
	ShapeTypeSphere
	ShapeTypePolygon
	ShapeTypeCircle
	ShapeTypeRect
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeBox:
		return "box"
	case ShapeTypeMesh:
		return "mesh"
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypePolygon:
		return "polygon"
	case ShapeTypeCircle:
		return "circle"
	case ShapeTypeRect:
		return "rect"
	}
	return "unknown"
}

// DefaultCircleSegments is the tessellation used for circles when Segments is not set
const DefaultCircleSegments = 20

// DefaultSphereRings and DefaultSphereSectors tessellate spheres when not set
const (
	DefaultSphereRings   = 8
	DefaultSphereSectors = 12
)

// ShapeInterface is the interface that all collision shapes must implement.
// Shapes only describe geometry: the overlap tests consume their vertices as a convex point set.
type ShapeInterface interface {
	Type() ShapeType
	// Vertices returns the world-space vertices of the shape at the given transform
	Vertices(transform Transform) []mgl64.Vec3
}

// PlanarShape is a shape living in the XY plane. Two planar shapes are tested with SAT.
type PlanarShape interface {
	ShapeInterface
	// Vertices2D returns the XY components of the world-space vertices, in winding order
	Vertices2D(transform Transform) []mgl64.Vec2
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

func (b *Box) Vertices(transform Transform) []mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	// The 8 corners in local space
	corners := [8]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}

	return applyAll(transform, corners[:])
}

// Mesh is an arbitrary point cloud, typically the vertices of a convex mesh.
// Non-convex inputs are tested as their convex hull.
type Mesh struct {
	Points []mgl64.Vec3
}

func (m *Mesh) Type() ShapeType {
	return ShapeTypeMesh
}

func (m *Mesh) Vertices(transform Transform) []mgl64.Vec3 {
	return applyAll(transform, m.Points)
}

// Sphere is tessellated into rings of points between the poles
type Sphere struct {
	Radius  float64
	Rings   int
	Sectors int
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

func (s *Sphere) Vertices(transform Transform) []mgl64.Vec3 {
	rings, sectors := s.Rings, s.Sectors
	if rings < 2 {
		rings = DefaultSphereRings
	}
	if sectors < 3 {
		sectors = DefaultSphereSectors
	}

	points := make([]mgl64.Vec3, 0, (rings-1)*sectors+2)
	points = append(points, transform.Apply(mgl64.Vec3{0, s.Radius, 0}))
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y := s.Radius * math.Cos(phi)
		ringRadius := s.Radius * math.Sin(phi)
		for i := 0; i < sectors; i++ {
			theta := 2 * math.Pi * float64(i) / float64(sectors)
			local := mgl64.Vec3{ringRadius * math.Cos(theta), y, ringRadius * math.Sin(theta)}
			points = append(points, transform.Apply(local))
		}
	}
	points = append(points, transform.Apply(mgl64.Vec3{0, -s.Radius, 0}))

	return points
}

// Polygon is a convex polygon in the XY plane, given in a consistent winding order
type Polygon struct {
	Points []mgl64.Vec2
}

func (p *Polygon) Type() ShapeType {
	return ShapeTypePolygon
}

func (p *Polygon) Vertices(transform Transform) []mgl64.Vec3 {
	points := make([]mgl64.Vec3, len(p.Points))
	for i, point := range p.Points {
		points[i] = transform.Apply(point.Vec3(0))
	}
	return points
}

func (p *Polygon) Vertices2D(transform Transform) []mgl64.Vec2 {
	return flatten(p.Vertices(transform))
}

// Circle is approximated by a regular polygon of Segments vertices around Offset
type Circle struct {
	Radius   float64
	Offset   mgl64.Vec2
	Segments int
}

func (c *Circle) Type() ShapeType {
	return ShapeTypeCircle
}

func (c *Circle) Vertices(transform Transform) []mgl64.Vec3 {
	segments := c.Segments
	if segments < 3 {
		segments = DefaultCircleSegments
	}

	center := transform.Apply(c.Offset.Vec3(0))
	points := make([]mgl64.Vec3, segments)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = mgl64.Vec3{
			center.X() + math.Cos(angle)*c.Radius,
			center.Y() + math.Sin(angle)*c.Radius,
			center.Z(),
		}
	}
	return points
}

func (c *Circle) Vertices2D(transform Transform) []mgl64.Vec2 {
	return flatten(c.Vertices(transform))
}

// Rect is an axis-aligned rectangle in local space, centered on Offset
type Rect struct {
	Size   mgl64.Vec2
	Offset mgl64.Vec2
}

func (r *Rect) Type() ShapeType {
	return ShapeTypeRect
}

func (r *Rect) Vertices(transform Transform) []mgl64.Vec3 {
	half := r.Size.Mul(0.5)
	corners := [4]mgl64.Vec3{
		r.Offset.Add(mgl64.Vec2{-half.X(), -half.Y()}).Vec3(0),
		r.Offset.Add(mgl64.Vec2{half.X(), -half.Y()}).Vec3(0),
		r.Offset.Add(mgl64.Vec2{half.X(), half.Y()}).Vec3(0),
		r.Offset.Add(mgl64.Vec2{-half.X(), half.Y()}).Vec3(0),
	}

	return applyAll(transform, corners[:])
}

func (r *Rect) Vertices2D(transform Transform) []mgl64.Vec2 {
	return flatten(r.Vertices(transform))
}

func applyAll(transform Transform, local []mgl64.Vec3) []mgl64.Vec3 {
	world := make([]mgl64.Vec3, len(local))
	for i, p := range local {
		world[i] = transform.Apply(p)
	}
	return world
}

func flatten(points []mgl64.Vec3) []mgl64.Vec2 {
	flat := make([]mgl64.Vec2, len(points))
	for i, p := range points {
		flat[i] = p.Vec2()
	}
	return flat
}
