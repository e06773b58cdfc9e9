package overlap

import (
	"errors"
	"fmt"

	"github.com/akmonengine/overlap/actor"
	"github.com/akmonengine/overlap/gjk"
	"github.com/akmonengine/overlap/sat"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoShape is returned when a queried body has no shape
var ErrNoShape = errors.New("body has no shape")

// Method is the narrow phase algorithm used for a pair
type Method uint8

const (
	// MethodGJK tests the 3D vertices, planar shapes being lifted to z=0
	MethodGJK Method = iota
	// MethodSAT tests two planar polygons and computes the minimum translation vector
	MethodSAT
)

func (m Method) String() string {
	switch m {
	case MethodGJK:
		return "gjk"
	case MethodSAT:
		return "sat"
	}
	return "unknown"
}

// Result is the outcome of a narrow phase query.
// PenetrationDepth, TranslationVector and Axis are only set by MethodSAT.
type Result struct {
	Method            Method
	Intersects        bool
	PenetrationDepth  float64
	TranslationVector mgl64.Vec2
	Axis              mgl64.Vec2
}

// Contact is a pair of bodies reported as overlapping by Detect
type Contact struct {
	BodyA  *actor.Body
	BodyB  *actor.Body
	Result Result
}

// Collide runs the narrow phase on two bodies: SAT when both are planar, GJK otherwise.
func Collide(a, b *actor.Body, maxIterations int) (Result, error) {
	if a.Shape == nil {
		return Result{}, fmt.Errorf("body %q: %w", a.Name, ErrNoShape)
	}
	if b.Shape == nil {
		return Result{}, fmt.Errorf("body %q: %w", b.Name, ErrNoShape)
	}

	polygonA, planarA := a.Vertices2D()
	polygonB, planarB := b.Vertices2D()
	if planarA && planarB {
		res, err := sat.Intersect(polygonA, polygonB)
		if err != nil {
			return Result{Method: MethodSAT}, fmt.Errorf("sat %q/%q: %w", a.Name, b.Name, err)
		}

		return Result{
			Method:            MethodSAT,
			Intersects:        res.Intersects,
			PenetrationDepth:  res.PenetrationDepth,
			TranslationVector: res.TranslationVector,
			Axis:              res.Axis,
		}, nil
	}

	intersects, err := gjk.IntersectWithLimit(a.Vertices(), b.Vertices(), maxIterations)
	if err != nil {
		return Result{Method: MethodGJK}, fmt.Errorf("gjk %q/%q: %w", a.Name, b.Name, err)
	}

	return Result{Method: MethodGJK, Intersects: intersects}, nil
}

// BroadPhase rebuilds the grid from the bodies and returns the pairs whose bounds overlap
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.Body) []Pair {
	spatialGrid.Clear()
	for i, body := range bodies {
		spatialGrid.Insert(i, body)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairs(bodies)
}

// NarrowPhase runs Collide on every pair, keeping the overlapping ones.
// A failing pair does not stop the others; the failures are joined in the returned error.
func NarrowPhase(pairs []Pair, maxIterations int, observe func(Pair, Result, error)) ([]Contact, error) {
	contacts := make([]Contact, 0, len(pairs))
	var errs []error

	for _, pair := range pairs {
		result, err := Collide(pair.BodyA, pair.BodyB, maxIterations)
		if observe != nil {
			observe(pair, result, err)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if result.Intersects {
			contacts = append(contacts, Contact{BodyA: pair.BodyA, BodyB: pair.BodyB, Result: result})
		}
	}

	return contacts, errors.Join(errs...)
}
