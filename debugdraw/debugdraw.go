// Package debugdraw renders bodies and overlap results in a terminal.
//
// A Renderer is an overlap.Observer: register it on a World, run queries, then call Draw.
package debugdraw

import (
	"math"
	"sync"

	"github.com/akmonengine/overlap"
	"github.com/akmonengine/overlap/actor"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Terminal cells are about twice as tall as wide
const cellAspect = 0.5

const (
	EdgeRune = '#'
	MTVRune  = '+'
)

var (
	ClearStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	OverlapStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
	MTVStyle     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	LabelStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

type segment struct {
	from, to mgl64.Vec2
}

type Renderer struct {
	screen tcell.Screen
	// Scale is the number of columns per world unit
	Scale float64
	// Origin is the world point drawn at the center of the screen
	Origin mgl64.Vec2

	mu          sync.Mutex
	overlapping map[*actor.Body]bool
	mtvs        []segment
}

var _ overlap.Observer = (*Renderer)(nil)

func New(screen tcell.Screen, scale float64) *Renderer {
	if scale <= 0 {
		scale = 1
	}
	return &Renderer{
		screen:      screen,
		Scale:       scale,
		overlapping: make(map[*actor.Body]bool),
	}
}

// Observe records the outcome of a query until the next Reset
func (r *Renderer) Observe(a, b *actor.Body, result overlap.Result) {
	if !result.Intersects {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.overlapping[a] = true
	r.overlapping[b] = true

	if result.Method == overlap.MethodSAT && result.PenetrationDepth > 0 {
		mid := centroid(a).Add(centroid(b)).Mul(0.5)
		r.mtvs = append(r.mtvs, segment{from: mid, to: mid.Add(result.TranslationVector)})
	}
}

// Reset forgets the recorded results
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.overlapping)
	r.mtvs = r.mtvs[:0]
}

// Draw clears the screen, draws every body and the recorded translation vectors, then shows the frame.
// Planar bodies are drawn as their polygon, 3D bodies as the XY projection of their bounds.
func (r *Renderer) Draw(bodies []*actor.Body) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.screen.Clear()

	for _, body := range bodies {
		style := ClearStyle
		if r.overlapping[body] {
			style = OverlapStyle
		}

		outline, ok := body.Vertices2D()
		if !ok {
			aabb := body.GetAABB()
			outline = []mgl64.Vec2{
				{aabb.Min.X(), aabb.Min.Y()},
				{aabb.Max.X(), aabb.Min.Y()},
				{aabb.Max.X(), aabb.Max.Y()},
				{aabb.Min.X(), aabb.Max.Y()},
			}
		}

		for i := range outline {
			r.line(outline[i], outline[(i+1)%len(outline)], EdgeRune, style)
		}

		if len(outline) > 0 {
			x, y := r.toScreen(centroid(body))
			r.text(x, y, body.Name, LabelStyle)
		}
	}

	for _, mtv := range r.mtvs {
		r.line(mtv.from, mtv.to, MTVRune, MTVStyle)
	}

	r.screen.Show()
}

func (r *Renderer) toScreen(p mgl64.Vec2) (int, int) {
	width, height := r.screen.Size()
	x := float64(width/2) + (p.X()-r.Origin.X())*r.Scale
	y := float64(height/2) - (p.Y()-r.Origin.Y())*r.Scale*cellAspect
	return int(math.Round(x)), int(math.Round(y))
}

// line rasterizes a world segment with Bresenham's algorithm
func (r *Renderer) line(from, to mgl64.Vec2, ch rune, style tcell.Style) {
	x0, y0 := r.toScreen(from)
	x1, y1 := r.toScreen(to)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		r.screen.SetContent(x0, y0, ch, nil, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func centroid(body *actor.Body) mgl64.Vec2 {
	return body.GetAABB().Center().Vec2()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
