package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestComputeAABB(t *testing.T) {
	tests := []struct {
		name   string
		points []mgl64.Vec3
		want   AABB
	}{
		{
			name: "empty",
			want: AABB{},
		},
		{
			name:   "single point",
			points: []mgl64.Vec3{{1, 2, 3}},
			want:   AABB{Min: mgl64.Vec3{1, 2, 3}, Max: mgl64.Vec3{1, 2, 3}},
		},
		{
			name:   "scattered points",
			points: []mgl64.Vec3{{1, -2, 0}, {-3, 4, 1}, {0, 0, -5}},
			want:   AABB{Min: mgl64.Vec3{-3, -2, -5}, Max: mgl64.Vec3{1, 4, 1}},
		},
		{
			name:   "flat points keep zero depth",
			points: []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 1, 0}},
			want:   AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 1, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAABB(tt.points)
			if got != tt.want {
				t.Errorf("ComputeAABB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBOverlaps(t *testing.T) {
	unit := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"separated on X", AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}}, false},
		{"separated on Y", AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}}, false},
		{"separated on Z", AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{1, 1, 3}}, false},
		{"partial overlap", AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{1.5, 1.5, 1.5}}, true},
		{"contained", AABB{Min: mgl64.Vec3{0.25, 0.25, 0.25}, Max: mgl64.Vec3{0.75, 0.75, 0.75}}, true},
		{"face touching", AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}, true},
		{"corner touching", AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{2, 2, 2}}, true},
		{"zero volume inside", AABB{Min: mgl64.Vec3{0.5, 0.5, 0}, Max: mgl64.Vec3{0.5, 0.5, 0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(unit); got != tt.want {
				t.Errorf("Overlaps() symmetry = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name  string
		point mgl64.Vec3
		want  bool
	}{
		{"center", mgl64.Vec3{0, 0, 0}, true},
		{"corner", mgl64.Vec3{1, 1, 1}, true},
		{"face center", mgl64.Vec3{0, 0, -1}, true},
		{"outside X", mgl64.Vec3{1.01, 0, 0}, false},
		{"outside Z", mgl64.Vec3{0, 0, -1.01}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.ContainsPoint(tt.point); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestAABBCenter(t *testing.T) {
	box := AABB{Min: mgl64.Vec3{-2, 0, 4}, Max: mgl64.Vec3{2, 2, 6}}
	want := mgl64.Vec3{0, 1, 5}

	if got := box.Center(); got != want {
		t.Errorf("Center() = %v, want %v", got, want)
	}
}
