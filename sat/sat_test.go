package sat

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/overlap/gjk"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
)

// Test helper functions

func square(center mgl64.Vec2, size float64) []mgl64.Vec2 {
	h := size / 2
	return []mgl64.Vec2{
		{center.X() - h, center.Y() - h},
		{center.X() + h, center.Y() - h},
		{center.X() + h, center.Y() + h},
		{center.X() - h, center.Y() + h},
	}
}

// regular returns a counter-clockwise regular polygon rotated by angle radians.
func regular(center mgl64.Vec2, radius float64, sides int, angle float64) []mgl64.Vec2 {
	points := make([]mgl64.Vec2, sides)
	for i := range points {
		theta := angle + 2*math.Pi*float64(i)/float64(sides)
		points[i] = mgl64.Vec2{center.X() + radius*math.Cos(theta), center.Y() + radius*math.Sin(theta)}
	}
	return points
}

func translate(polygon []mgl64.Vec2, offset mgl64.Vec2) []mgl64.Vec2 {
	moved := make([]mgl64.Vec2, len(polygon))
	for i, p := range polygon {
		moved[i] = p.Add(offset)
	}
	return moved
}

func lift(polygon []mgl64.Vec2) []mgl64.Vec3 {
	points := make([]mgl64.Vec3, len(polygon))
	for i, p := range polygon {
		points[i] = p.Vec3(0)
	}
	return points
}

func mustIntersect(t *testing.T, a, b []mgl64.Vec2) Result {
	t.Helper()
	result, err := Intersect(a, b)
	if err != nil {
		t.Fatalf("Intersect returned an unexpected error: %v", err)
	}
	return result
}

// polygon pairs shared by the property tests
var pairs = []struct {
	name string
	a, b []mgl64.Vec2
}{
	{"squares half overlap", square(mgl64.Vec2{0, 0}, 1), square(mgl64.Vec2{0.5, 0}, 1)},
	{"squares separated", square(mgl64.Vec2{0, 0}, 1), square(mgl64.Vec2{2, 0}, 1)},
	{"squares diagonal overlap", square(mgl64.Vec2{0, 0}, 1), square(mgl64.Vec2{0.7, -0.6}, 1)},
	{"square inside square", square(mgl64.Vec2{0, 0}, 4), square(mgl64.Vec2{0.5, 0.2}, 1)},
	{"diamond vs square", square(mgl64.Vec2{0, 0}, 1), regular(mgl64.Vec2{0.9, 0.2}, 0.7, 4, 0)},
	{"triangle vs hexagon", regular(mgl64.Vec2{0, 0}, 1, 3, 0.3), regular(mgl64.Vec2{1.2, 0.5}, 0.8, 6, 0)},
	{"hexagons separated diagonally", regular(mgl64.Vec2{0, 0}, 1, 6, 0), regular(mgl64.Vec2{2, 2}, 1, 6, 0.1)},
	{"circle-like polygons", regular(mgl64.Vec2{0, 0}, 1, 20, 0), regular(mgl64.Vec2{1.3, 0.4}, 0.5, 20, 0)},
	{"thin sliver crossing", []mgl64.Vec2{{-2, -0.05}, {2, -0.05}, {2, 0.05}, {-2, 0.05}}, square(mgl64.Vec2{0, 0.3}, 1)},
}

// Interval tests

func TestInterval(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Interval
		overlaps bool
		overlap  float64
	}{
		{"disjoint", Interval{0, 1}, Interval{2, 3}, false, 0},
		{"partial", Interval{0, 2}, Interval{1, 3}, true, 1},
		{"touching", Interval{0, 1}, Interval{1, 2}, true, 0},
		{"contained", Interval{0, 4}, Interval{1, 2}, true, 1},
		{"identical", Interval{-1, 1}, Interval{-1, 1}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.overlaps {
				t.Errorf("Overlaps = %v, want %v", got, tt.overlaps)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.overlaps {
				t.Errorf("Overlaps is not symmetric: %v", got)
			}
			if tt.overlaps {
				if got := tt.a.Overlap(tt.b); got != tt.overlap {
					t.Errorf("Overlap = %v, want %v", got, tt.overlap)
				}
			}
		})
	}
}

// Axes and Project tests

func TestAxes(t *testing.T) {
	t.Run("one unit normal per edge", func(t *testing.T) {
		axes, err := Axes(square(mgl64.Vec2{0, 0}, 2))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []mgl64.Vec2{{0, 1}, {-1, 0}, {0, -1}, {1, 0}}
		if len(axes) != len(expected) {
			t.Fatalf("Expected %d axes, got %d", len(expected), len(axes))
		}
		for i, axis := range axes {
			if !axis.ApproxEqualThreshold(expected[i], 1e-12) {
				t.Errorf("axis %d = %v, want %v", i, axis, expected[i])
			}
		}
	})

	t.Run("axes are normalised", func(t *testing.T) {
		axes, _ := Axes([]mgl64.Vec2{{0, 0}, {3, 0}, {0, 4}})
		for i, axis := range axes {
			if math.Abs(axis.Len()-1) > 1e-12 {
				t.Errorf("axis %d has length %v", i, axis.Len())
			}
		}
	})

	t.Run("degenerate polygons are rejected", func(t *testing.T) {
		tests := []struct {
			name    string
			polygon []mgl64.Vec2
		}{
			{"empty", nil},
			{"two vertices", []mgl64.Vec2{{0, 0}, {1, 0}}},
			{"repeated vertex", []mgl64.Vec2{{0, 0}, {1, 0}, {1, 0}, {0, 1}}},
			{"closing edge has zero length", []mgl64.Vec2{{0, 0}, {1, 0}, {0, 1}, {0, 0}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := Axes(tt.polygon); !errors.Is(err, ErrInvalidInput) {
					t.Errorf("Expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})
}

func TestProject(t *testing.T) {
	polygon := []mgl64.Vec2{{1, 1}, {3, 1}, {3, 2}, {1, 2}}

	tests := []struct {
		name     string
		axis     mgl64.Vec2
		expected Interval
	}{
		{"x axis", mgl64.Vec2{1, 0}, Interval{1, 3}},
		{"y axis", mgl64.Vec2{0, 1}, Interval{1, 2}},
		{"negative x axis", mgl64.Vec2{-1, 0}, Interval{-3, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Project(tt.axis, polygon); got != tt.expected {
				t.Errorf("Project = %v, want %v", got, tt.expected)
			}
		})
	}

	t.Run("empty polygon", func(t *testing.T) {
		if got := Project(mgl64.Vec2{1, 0}, nil); got != (Interval{}) {
			t.Errorf("Project = %v, want the zero interval", got)
		}
	})
}

// Intersect tests

func TestIntersect_Squares(t *testing.T) {
	t.Run("half overlap along x", func(t *testing.T) {
		result := mustIntersect(t, square(mgl64.Vec2{0, 0}, 1), square(mgl64.Vec2{0.5, 0}, 1))

		if !result.Intersects {
			t.Fatal("Expected overlapping squares to intersect")
		}
		if math.Abs(result.PenetrationDepth-0.5) > 1e-9 {
			t.Errorf("Expected penetration depth 0.5, got %v", result.PenetrationDepth)
		}
		if math.Abs(result.TranslationVector.Y()) > 1e-9 {
			t.Errorf("Expected translation parallel to X, got %v", result.TranslationVector)
		}
		if !result.TranslationVector.ApproxEqualThreshold(mgl64.Vec2{0.5, 0}, 1e-9) {
			t.Errorf("Expected translation (0.5, 0), got %v", result.TranslationVector)
		}
	})

	t.Run("gap along x", func(t *testing.T) {
		result := mustIntersect(t, square(mgl64.Vec2{0, 0}, 1), square(mgl64.Vec2{2, 0}, 1))

		if result.Intersects {
			t.Error("Expected separated squares not to intersect")
		}
		if result.PenetrationDepth != 0 || result.TranslationVector != (mgl64.Vec2{}) {
			t.Errorf("Expected zero penetration for a miss, got %+v", result)
		}
	})

	t.Run("touching edges are inclusive", func(t *testing.T) {
		result := mustIntersect(t, square(mgl64.Vec2{0, 0}, 1), square(mgl64.Vec2{1, 0}, 1))

		if !result.Intersects {
			t.Fatal("Expected touching squares to intersect")
		}
		if result.PenetrationDepth != 0 {
			t.Errorf("Expected zero penetration depth, got %v", result.PenetrationDepth)
		}
	})

	t.Run("translation pushes B away from A", func(t *testing.T) {
		result := mustIntersect(t, square(mgl64.Vec2{0, 0}, 1), square(mgl64.Vec2{-0.2, 0.9}, 1))

		if !result.Intersects {
			t.Fatal("Expected squares to intersect")
		}
		if !result.TranslationVector.ApproxEqualThreshold(mgl64.Vec2{0, 0.1}, 1e-9) {
			t.Errorf("Expected translation (0, 0.1), got %v", result.TranslationVector)
		}
	})

	t.Run("contained square is pushed fully out", func(t *testing.T) {
		result := mustIntersect(t, square(mgl64.Vec2{0, 0}, 4), square(mgl64.Vec2{1, 0}, 1))

		// B spans [0.5, 1.5] inside A's [-2, 2]: pushing right needs 2 - 0.5
		if math.Abs(result.PenetrationDepth-1.5) > 1e-9 {
			t.Errorf("Expected penetration depth 1.5, got %v", result.PenetrationDepth)
		}
		if !result.Axis.ApproxEqualThreshold(mgl64.Vec2{1, 0}, 1e-9) {
			t.Errorf("Expected axis (1, 0), got %v", result.Axis)
		}
	})
}

func TestIntersect_InvalidInput(t *testing.T) {
	valid := square(mgl64.Vec2{0, 0}, 1)

	if _, err := Intersect([]mgl64.Vec2{{0, 0}, {1, 1}}, valid); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for polygon A, got %v", err)
	}
	if _, err := Intersect(valid, []mgl64.Vec2{{0, 0}, {0, 0}, {1, 1}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for polygon B, got %v", err)
	}
}

func TestIntersect_Symmetry(t *testing.T) {
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			ab := mustIntersect(t, p.a, p.b)
			ba := mustIntersect(t, p.b, p.a)

			if ab.Intersects != ba.Intersects {
				t.Errorf("Intersect(A, B) = %v but Intersect(B, A) = %v", ab.Intersects, ba.Intersects)
			}
		})
	}
}

func TestIntersect_TranslationSeparates(t *testing.T) {
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			result := mustIntersect(t, p.a, p.b)
			if !result.Intersects {
				return
			}

			if result.PenetrationDepth < 0 {
				t.Errorf("Expected non-negative depth, got %v", result.PenetrationDepth)
			}

			moved := translate(p.b, result.TranslationVector)
			after := mustIntersect(t, p.a, moved)
			if after.Intersects && after.PenetrationDepth > 1e-9 {
				t.Errorf("Translating B by %v left a penetration of %v", result.TranslationVector, after.PenetrationDepth)
			}
		})
	}
}

func TestIntersect_AgreesWithGJK(t *testing.T) {
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			satResult := mustIntersect(t, p.a, p.b)

			gjkResult, err := gjk.Intersect(lift(p.a), lift(p.b))
			if err != nil {
				t.Fatalf("gjk.Intersect returned an unexpected error: %v", err)
			}

			if satResult.Intersects != gjkResult {
				t.Errorf("SAT says %v, GJK says %v", satResult.Intersects, gjkResult)
			}
		})
	}
}

func TestIntersect_Concurrent(t *testing.T) {
	var g errgroup.Group
	for i := 0; i < 32; i++ {
		p := pairs[i%len(pairs)]
		expected := mustIntersect(t, p.a, p.b)

		g.Go(func() error {
			result, err := Intersect(p.a, p.b)
			if err != nil {
				return err
			}
			if result != expected {
				return errors.New("concurrent query returned a different result")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Error(err)
	}
}

// Benchmark tests

func BenchmarkIntersect_Squares(b *testing.B) {
	a := square(mgl64.Vec2{0, 0}, 1)
	other := square(mgl64.Vec2{0.5, 0}, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Intersect(a, other)
	}
}

func BenchmarkIntersect_Circles(b *testing.B) {
	a := regular(mgl64.Vec2{0, 0}, 1, 20, 0)
	other := regular(mgl64.Vec2{1.5, 0}, 1, 20, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Intersect(a, other)
	}
}
