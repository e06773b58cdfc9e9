// Package overlap answers overlap queries between convex bodies.
//
// Pairs of planar bodies are tested with the Separating Axis Theorem, which also yields the
// minimum translation vector. Any pair involving a 3D body is tested with GJK.
// A World keeps a set of bodies, finds candidate pairs with a uniform spatial grid and reports
// Enter/Stay/Exit events across steps.
package overlap

import (
	"github.com/akmonengine/overlap/actor"
	"github.com/akmonengine/overlap/gjk"
	"go.uber.org/zap"
)

const (
	DEFAULT_CELL_SIZE  = 1.0
	DEFAULT_GRID_CELLS = 1024
)

// Config holds the tunables of a World
type Config struct {
	// MaxIterations caps the GJK loop, gjk.MaxIterations when <= 0
	MaxIterations int
	// CellSize is the edge length of a broad phase cell
	CellSize float64
	// GridCells is the number of hash buckets of the broad phase, rounded up to a power of two
	GridCells int
}

// DefaultConfig returns the default tunables
func DefaultConfig() Config {
	return Config{
		MaxIterations: gjk.MaxIterations,
		CellSize:      DEFAULT_CELL_SIZE,
		GridCells:     DEFAULT_GRID_CELLS,
	}
}

// Observer receives the outcome of every narrow phase query, e.g. to draw it
type Observer interface {
	Observe(a, b *actor.Body, result Result)
}

type World struct {
	// List of all bodies in the world
	Bodies        []*actor.Body
	SpatialGrid   *SpatialGrid
	MaxIterations int

	Events Events

	observers []Observer
	logger    *zap.Logger
}

// NewWorld creates an empty world. A nil logger disables logging.
func NewWorld(config Config, logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxIterations <= 0 {
		config.MaxIterations = gjk.MaxIterations
	}
	if config.CellSize <= 0 {
		config.CellSize = DEFAULT_CELL_SIZE
	}
	if config.GridCells <= 0 {
		config.GridCells = DEFAULT_GRID_CELLS
	}

	return &World{
		SpatialGrid:   NewSpatialGrid(config.CellSize, config.GridCells),
		MaxIterations: config.MaxIterations,
		Events:        NewEvents(),
		logger:        logger,
	}
}

// AddBody adds a body to the world
func (w *World) AddBody(body *actor.Body) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a body from the world. Pairs involving it are dropped without Exit event.
func (w *World) RemoveBody(body *actor.Body) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	w.Events.forget(body)
}

// Body returns the first body with the given name
func (w *World) Body(name string) (*actor.Body, bool) {
	for _, b := range w.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// AddObserver registers an observer notified after every query
func (w *World) AddObserver(observer Observer) {
	w.observers = append(w.observers, observer)
}

// Query tests two bodies on demand, whether or not they belong to the world
func (w *World) Query(a, b *actor.Body) (Result, error) {
	result, err := Collide(a, b, w.MaxIterations)
	w.report(Pair{BodyA: a, BodyB: b}, result, err)

	return result, err
}

// Detect runs the broad phase then the narrow phase over all bodies and returns the overlapping pairs.
// Invalid pairs are skipped and reported in the joined error, the other contacts are still returned.
func (w *World) Detect() ([]Contact, error) {
	pairs := BroadPhase(w.SpatialGrid, w.Bodies)
	w.logger.Debug("broad phase", zap.Int("bodies", len(w.Bodies)), zap.Int("pairs", len(pairs)))

	return NarrowPhase(pairs, w.MaxIterations, w.report)
}

// Step detects the overlapping pairs and dispatches the Enter/Stay/Exit events to subscribers
func (w *World) Step() ([]Contact, error) {
	contacts, err := w.Detect()

	w.Events.recordContacts(contacts)
	w.Events.flush()

	return contacts, err
}

func (w *World) report(pair Pair, result Result, err error) {
	if err != nil {
		w.logger.Warn("overlap query failed",
			zap.String("bodyA", pair.BodyA.Name),
			zap.String("bodyB", pair.BodyB.Name),
			zap.Error(err),
		)
		return
	}

	if ce := w.logger.Check(zap.DebugLevel, "overlap query"); ce != nil {
		ce.Write(
			zap.String("bodyA", pair.BodyA.Name),
			zap.String("bodyB", pair.BodyB.Name),
			zap.Stringer("method", result.Method),
			zap.Bool("intersects", result.Intersects),
			zap.Float64("depth", result.PenetrationDepth),
		)
	}

	for _, observer := range w.observers {
		observer.Observe(pair.BodyA, pair.BodyB, result)
	}
}
