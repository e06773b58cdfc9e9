// Package vecmath holds the few vector helpers mgl64 does not provide:
// a shared epsilon and normalisation with a defined fallback for
// near-zero vectors.
package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used for near-zero comparisons.
const Epsilon = 1e-9

var (
	// FallbackAxis3 is returned by Normalize3 for degenerate input.
	FallbackAxis3 = mgl64.Vec3{1, 0, 0}
	// FallbackAxis2 is returned by Normalize2 for degenerate input.
	FallbackAxis2 = mgl64.Vec2{1, 0}
)

func IsZero3(v mgl64.Vec3) bool {
	return v.LenSqr() <= Epsilon*Epsilon
}

func IsZero2(v mgl64.Vec2) bool {
	return v.LenSqr() <= Epsilon*Epsilon
}

// Normalize3 returns v scaled to unit length, or FallbackAxis3 when v is
// (nearly) the zero vector. mgl64's Normalize would return NaNs there.
func Normalize3(v mgl64.Vec3) mgl64.Vec3 {
	if IsZero3(v) {
		return FallbackAxis3
	}
	return v.Mul(1 / v.Len())
}

// Normalize2 is the 2D counterpart of Normalize3.
func Normalize2(v mgl64.Vec2) mgl64.Vec2 {
	if IsZero2(v) {
		return FallbackAxis2
	}
	return v.Mul(1 / v.Len())
}

// Perp2 returns the left-hand perpendicular (-y, x) of v.
func Perp2(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// Perpendicular3 returns a unit vector orthogonal to v. The reference axis
// is switched when v is close to X so the cross product stays well conditioned.
func Perpendicular3(v mgl64.Vec3) mgl64.Vec3 {
	n := Normalize3(v)

	var ref mgl64.Vec3
	if math.Abs(n.X()) > 0.9 {
		ref = mgl64.Vec3{0, 1, 0}
	} else {
		ref = mgl64.Vec3{1, 0, 0}
	}

	return Normalize3(ref.Sub(n.Mul(ref.Dot(n))))
}
