// Package sat implements the Separating Axis Theorem for convex polygons in 2D.
//
// Two convex polygons do not overlap if and only if there is an axis onto which their
// projections do not overlap. For polygons the edge normals of both shapes are sufficient
// candidates. When no separating axis exists, the axis of smallest overlap gives the
// minimum translation vector (MTV) that pushes the second polygon out of the first.
//
// Touching polygons (projections sharing a single endpoint on every axis) are reported as
// intersecting with a zero penetration depth.
package sat

import (
	"fmt"
	"math"

	"github.com/akmonengine/overlap/gjk"
	"github.com/akmonengine/overlap/vecmath"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidInput is shared with the gjk package so callers can test both with errors.Is.
var ErrInvalidInput = gjk.ErrInvalidInput

// Interval is the scalar projection of a polygon onto an axis.
type Interval struct {
	Min float64
	Max float64
}

// Overlaps checks if two intervals share at least one point. Touching intervals overlap.
func (i Interval) Overlaps(other Interval) bool {
	return !(i.Max < other.Min || other.Max < i.Min)
}

// Overlap returns the length of the shared part of two overlapping intervals.
func (i Interval) Overlap(other Interval) float64 {
	return math.Min(i.Max, other.Max) - math.Max(i.Min, other.Min)
}

// Result is the outcome of a polygon overlap test.
// PenetrationDepth, TranslationVector and Axis are only meaningful when Intersects is true.
type Result struct {
	Intersects bool
	// PenetrationDepth is the length of the MTV, >= 0
	PenetrationDepth float64
	// TranslationVector moves polygon B out of polygon A
	TranslationVector mgl64.Vec2
	// Axis is the unit direction of TranslationVector
	Axis mgl64.Vec2
}

// Validate checks the preconditions of Intersect: at least 3 vertices and no zero-length edge,
// which would otherwise produce an undefined axis.
func Validate(polygon []mgl64.Vec2) error {
	if len(polygon) < 3 {
		return fmt.Errorf("polygon has %d vertices, need at least 3: %w", len(polygon), ErrInvalidInput)
	}

	for i := range polygon {
		next := polygon[(i+1)%len(polygon)]
		if vecmath.IsZero2(next.Sub(polygon[i])) {
			return fmt.Errorf("polygon edge %d has zero length: %w", i, ErrInvalidInput)
		}
	}

	return nil
}

// Axes returns one candidate axis per edge: the normalised left-hand perpendicular
// of vertex[i+1] - vertex[i], in edge order.
func Axes(polygon []mgl64.Vec2) ([]mgl64.Vec2, error) {
	if err := Validate(polygon); err != nil {
		return nil, err
	}

	return axes(polygon, make([]mgl64.Vec2, 0, len(polygon))), nil
}

func axes(polygon []mgl64.Vec2, dst []mgl64.Vec2) []mgl64.Vec2 {
	for i := range polygon {
		edge := polygon[(i+1)%len(polygon)].Sub(polygon[i])
		dst = append(dst, vecmath.Perp2(edge).Normalize())
	}
	return dst
}

// Project returns the interval covered by the dot products of axis with every vertex.
// An empty polygon projects to the zero interval.
func Project(axis mgl64.Vec2, polygon []mgl64.Vec2) Interval {
	if len(polygon) == 0 {
		return Interval{}
	}

	dot := axis.Dot(polygon[0])
	interval := Interval{Min: dot, Max: dot}

	for _, vertex := range polygon[1:] {
		dot = axis.Dot(vertex)
		if dot < interval.Min {
			interval.Min = dot
		} else if dot > interval.Max {
			interval.Max = dot
		}
	}

	return interval
}

// Intersect tests two convex polygons given in a consistent winding order.
//
// Axes of A are tested first, then axes of B, without deduplication. The first separating axis
// ends the test. Otherwise the axis with the smallest push distance wins, the first one on ties.
//
// The push distance along an axis is the overlap length of the two intervals, extended when one
// interval contains the other so that the translation always separates the polygons.
func Intersect(a, b []mgl64.Vec2) (Result, error) {
	if err := Validate(a); err != nil {
		return Result{}, fmt.Errorf("polygon A: %w", err)
	}
	if err := Validate(b); err != nil {
		return Result{}, fmt.Errorf("polygon B: %w", err)
	}

	candidates := axes(a, make([]mgl64.Vec2, 0, len(a)+len(b)))
	candidates = axes(b, candidates)

	minOverlap := math.Inf(1)
	var smallestAxis mgl64.Vec2

	for _, axis := range candidates {
		projA := Project(axis, a)
		projB := Project(axis, b)

		if !projA.Overlaps(projB) {
			// Separating axis found
			return Result{}, nil
		}

		// Distance to push B forward along the axis, or backward
		forward := projA.Max - projB.Min
		backward := projB.Max - projA.Min

		overlap := forward
		direction := axis
		if backward < forward {
			overlap = backward
			direction = axis.Mul(-1)
		}

		if overlap < minOverlap {
			minOverlap = overlap
			smallestAxis = direction
		}
	}

	return Result{
		Intersects:        true,
		PenetrationDepth:  minOverlap,
		TranslationVector: smallestAxis.Mul(minOverlap),
		Axis:              smallestAxis,
	}, nil
}
