package actor

import "github.com/go-gl/mathgl/mgl64"

// BodyType represents the type of body
type BodyType int

const (
	// BodyTypeDynamic bodies are expected to move between steps
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies never move (e.g., ground, walls).
	// Pairs of static bodies are skipped by the broad phase.
	BodyTypeStatic
)

// Body is a named shape placed in the world.
// World-space vertices and bounds are cached and refreshed by SetTransform.
type Body struct {
	Name      string
	BodyType  BodyType
	Transform Transform
	Shape     ShapeInterface

	vertices []mgl64.Vec3
	aabb     AABB
}

// NewBody creates a body and computes its world-space vertices and bounds
func NewBody(name string, transform Transform, shape ShapeInterface, bodyType BodyType) *Body {
	b := &Body{
		Name:      name,
		BodyType:  bodyType,
		Transform: transform,
		Shape:     shape,
	}
	b.refresh()

	return b
}

// SetTransform moves the body and recomputes its cached geometry
func (b *Body) SetTransform(transform Transform) {
	b.Transform = transform
	b.refresh()
}

// Refresh recomputes the cached geometry after Shape was mutated in place
func (b *Body) Refresh() {
	b.refresh()
}

func (b *Body) refresh() {
	if b.Shape == nil {
		b.vertices = nil
		b.aabb = AABB{}
		return
	}

	b.vertices = b.Shape.Vertices(b.Transform)
	b.aabb = ComputeAABB(b.vertices)
}

// Vertices returns the cached world-space vertices. The slice is shared, callers must not modify it.
func (b *Body) Vertices() []mgl64.Vec3 {
	return b.vertices
}

// Vertices2D returns the world-space polygon of a planar body, and false for 3D shapes
func (b *Body) Vertices2D() ([]mgl64.Vec2, bool) {
	if !b.IsPlanar() {
		return nil, false
	}
	return flatten(b.vertices), true
}

// IsPlanar reports whether the body's shape lives in the XY plane
func (b *Body) IsPlanar() bool {
	_, ok := b.Shape.(PlanarShape)
	return ok
}

// GetAABB returns the cached world-space bounds
func (b *Body) GetAABB() AABB {
	return b.aabb
}
