// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for overlap testing.
//
// GJK detects whether two convex point sets overlap by testing if their Minkowski difference
// contains the origin. The algorithm grows a simplex (segment, triangle, tetrahedron) inside
// the Minkowski difference, discarding the points that cannot bound the origin, until either
// a tetrahedron encloses the origin or a support point proves the shapes are separated.
//
// Shapes are plain vertex slices in world space. They are never mutated and do not need to be
// hull-reduced: a vertex inside the hull is simply never selected as a support point.
//
// All state (simplex, search direction) is local to a call, so independent queries may run
// concurrently without coordination.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/overlap/vecmath"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations is the default iteration budget of Intersect.
	// Exhausting it is reported as "no intersection", which may under-report grazing contacts.
	MaxIterations = 20

	// CoplanarEpsilon bounds the cosine between the triangle normal and the direction to the
	// origin under which the origin is considered to lie in the triangle plane.
	CoplanarEpsilon = 0.001

	// degenerateThreshold is the squared length under which an edge or a face normal is
	// considered collapsed.
	degenerateThreshold = 1e-10
)

// ErrInvalidInput is returned when a query receives an empty shape or an unusable budget.
var ErrInvalidInput = errors.New("invalid input")

// Simplex represents a set of 1-4 points in the Minkowski difference space.
// Points[0] is the oldest point and Points[Count-1] the newest one ("A").
// Points are only ever removed in a way that keeps the winding used by the next case,
// so the tetrahedron face normals always point away from the vertex they exclude.
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) push(point mgl64.Vec3) {
	s.Points[s.Count] = point
	s.Count++
}

// Support returns the vertex of shape that maximises dot(vertex, direction).
// Ties are resolved in favour of the first vertex in iteration order.
func Support(shape []mgl64.Vec3, direction mgl64.Vec3) (mgl64.Vec3, error) {
	if len(shape) == 0 {
		return mgl64.Vec3{}, fmt.Errorf("support of an empty shape: %w", ErrInvalidInput)
	}

	return furthestPoint(shape, direction), nil
}

func furthestPoint(shape []mgl64.Vec3, direction mgl64.Vec3) mgl64.Vec3 {
	best := shape[0]
	bestDot := best.Dot(direction)

	for _, vertex := range shape[1:] {
		if dot := vertex.Dot(direction); dot > bestDot {
			bestDot = dot
			best = vertex
		}
	}

	return best
}

// MinkowskiSupport computes a support point in the Minkowski difference (A - B).
//
// Returns:
//
//	Support point: furthestPoint(A, direction) - furthestPoint(B, -direction)
//
// This is the only query GJK needs on the shapes: it never builds the full difference.
func MinkowskiSupport(a, b []mgl64.Vec3, direction mgl64.Vec3) (mgl64.Vec3, error) {
	supportA, err := Support(a, direction)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("shape A: %w", err)
	}
	supportB, err := Support(b, direction.Mul(-1))
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("shape B: %w", err)
	}

	return supportA.Sub(supportB), nil
}

func minkowskiSupport(a, b []mgl64.Vec3, direction mgl64.Vec3) mgl64.Vec3 {
	return furthestPoint(a, direction).Sub(furthestPoint(b, direction.Mul(-1)))
}

// Intersect reports whether the convex hulls of a and b overlap, using the default
// MaxIterations budget. Both shapes must be non-empty.
func Intersect(a, b []mgl64.Vec3) (bool, error) {
	return IntersectWithLimit(a, b, MaxIterations)
}

// IntersectWithLimit is Intersect with a caller-chosen iteration budget.
//
// Algorithm overview:
//  1. Start with the direction from the first vertex of A toward the first vertex of B
//  2. Get the first support point in the Minkowski difference
//  3. Search toward the origin, growing and pruning the simplex
//  4. If a support point does not pass the origin → no overlap
//  5. If a tetrahedron encloses the origin → overlap
//
// Touching shapes are reported as overlapping when a support point lands on the origin.
// Other grazing configurations may exhaust the budget and report false.
func IntersectWithLimit(a, b []mgl64.Vec3, maxIterations int) (bool, error) {
	if len(a) == 0 || len(b) == 0 {
		return false, fmt.Errorf("gjk: shape A has %d points, shape B has %d: %w", len(a), len(b), ErrInvalidInput)
	}
	if maxIterations <= 0 {
		return false, fmt.Errorf("gjk: iteration budget %d: %w", maxIterations, ErrInvalidInput)
	}

	var simplex Simplex

	// Starting toward the other shape typically reduces iterations
	direction := vecmath.Normalize3(b[0].Sub(a[0]))

	simplex.push(minkowskiSupport(a, b, direction))
	if vecmath.IsZero3(simplex.Points[0]) {
		return true, nil
	}

	// New direction towards the origin from this first point
	direction = vecmath.Normalize3(simplex.Points[0].Mul(-1))

	for i := 0; i < maxIterations; i++ {
		newPoint := minkowskiSupport(a, b, direction)

		// The furthest point in this direction does not reach the origin:
		// this direction separates the shapes.
		if newPoint.Dot(direction) < 0 {
			return false, nil
		}
		if vecmath.IsZero3(newPoint) {
			return true, nil
		}

		simplex.push(newPoint)

		if containsOrigin(&simplex, &direction) {
			return true, nil
		}
	}

	return false, nil
}

// containsOrigin classifies the simplex by its size, prunes it and updates the search direction.
//
// Returns:
//   - true: the tetrahedron encloses the origin
//   - false: not enclosed yet, simplex and direction are ready for the next iteration
func containsOrigin(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
	}
	return false
}

// line handles the segment case (2 points: A newest, B oldest).
//
// The new direction is perpendicular to AB, in the plane of AB and the origin, pointing toward
// the origin. A segment never encloses the origin in 3D.
func line(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]

	// Identical points: keep the newest one only
	if b.Sub(a).LenSqr() < degenerateThreshold {
		simplex.Points[0] = a
		simplex.Count = 1
		*direction = vecmath.Normalize3(a.Mul(-1))
		return false
	}

	*direction = edgeTowardOrigin(a, b)
	return false
}

// edgeTowardOrigin returns the unit direction perpendicular to the edge AB pointing toward the origin,
// computed from A. When the origin lies on the supporting line any perpendicular is returned.
func edgeTowardOrigin(a, b mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	ao := a.Mul(-1)

	perp := ab.Cross(ao).Cross(ab)
	if vecmath.IsZero3(perp) {
		return vecmath.Perpendicular3(ab)
	}

	return perp.Normalize()
}

// triangle handles the triangle case (3 points: A newest, then B, then C oldest).
//
// Off-plane origin: the normal facing the origin becomes the direction.
// Coplanar origin: signed barycentric coordinates of the origin decide. Inside the triangle the
// search escalates along the normal, because a triangle alone cannot certify 3D enclosure.
// Outside, the vertex opposite to the edge facing the origin is dropped.
//
// Collinear points degrade to the segment AB.
func triangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	abc := ab.Cross(ac)
	if abc.LenSqr() < degenerateThreshold {
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		return line(simplex, direction)
	}
	normal := abc.Normalize()

	side := 0.0
	if !vecmath.IsZero3(ao) {
		side = normal.Dot(ao.Normalize())
	}

	if math.Abs(side) > CoplanarEpsilon {
		faceTowardOrigin(simplex, normal, side, direction)
		return false
	}

	// Coplanar: twice the signed areas of OBC, OCA, OAB over twice the area of ABC
	area := abc.Dot(normal)
	u := b.Cross(c).Dot(normal) / area // weight of A
	v := c.Cross(a).Dot(normal) / area // weight of B
	w := a.Cross(b).Dot(normal) / area // weight of C

	switch {
	case u >= -vecmath.Epsilon && v >= -vecmath.Epsilon && w >= -vecmath.Epsilon &&
		math.Abs(u+v+w-1) < CoplanarEpsilon:
		faceTowardOrigin(simplex, normal, side, direction)
	case u < 0:
		// Outside edge BC, drop A
		simplex.Points[0] = c
		simplex.Points[1] = b
		simplex.Count = 2
		*direction = edgeTowardOrigin(b, c)
	case v < 0:
		// Outside edge AC, drop B
		simplex.Points[0] = c
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = edgeTowardOrigin(a, c)
	case w < 0:
		// Outside edge AB, drop C
		simplex.Points[0] = b
		simplex.Points[1] = a
		simplex.Count = 2
		*direction = edgeTowardOrigin(a, b)
	default:
		faceTowardOrigin(simplex, normal, side, direction)
	}

	return false
}

// faceTowardOrigin sets the direction to the triangle normal facing the origin.
// When the normal has to be flipped, B and C are swapped so that cross(B-A, C-A)
// keeps matching the direction.
func faceTowardOrigin(simplex *Simplex, normal mgl64.Vec3, side float64, direction *mgl64.Vec3) {
	if side < 0 {
		simplex.Points[0], simplex.Points[1] = simplex.Points[1], simplex.Points[0]
		normal = normal.Mul(-1)
	}
	*direction = normal
}

// tetrahedron handles the tetrahedron case (4 points: A newest, then B, C, D oldest).
//
// This is the only case that can return true.
//
// The three faces sharing A are tested, their normals pointing away from the excluded vertex:
//   - outside ABC → drop D
//   - outside ACD → drop B
//   - outside ADB → drop C
//   - outside none → the origin is enclosed
//
// The kept triangle is stored so that its own normal equals the face normal, which becomes
// the new direction.
func tetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[3]
	b := simplex.Points[2]
	c := simplex.Points[1]
	d := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	abc := ab.Cross(ac)
	acd := ac.Cross(ad)
	adb := ad.Cross(ab)

	switch {
	case outsideFace(abc, ao):
		simplex.Points[0] = c
		simplex.Points[1] = b
		simplex.Points[2] = a
		*direction = abc.Normalize()
	case outsideFace(acd, ao):
		simplex.Points[0] = d
		simplex.Points[1] = c
		simplex.Points[2] = a
		*direction = acd.Normalize()
	case outsideFace(adb, ao):
		simplex.Points[0] = b
		simplex.Points[1] = d
		simplex.Points[2] = a
		*direction = adb.Normalize()
	default:
		return true
	}

	simplex.Count = 3
	return false
}

// outsideFace reports whether the origin is strictly in front of a face, given its
// unnormalised normal and the vector from the face's vertex A to the origin.
// A collapsed face never rejects the origin.
func outsideFace(normal, ao mgl64.Vec3) bool {
	length := normal.Len()
	return length > vecmath.Epsilon && normal.Dot(ao) > vecmath.Epsilon*length
}
