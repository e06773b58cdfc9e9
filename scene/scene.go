// Package scene loads bodies and world settings from YAML files.
package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/akmonengine/overlap"
	"github.com/akmonengine/overlap/actor"
	"github.com/akmonengine/overlap/sat"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is wrapped by every validation error of a scene file
var ErrInvalidScene = errors.New("invalid scene")

// Config describes a world and its bodies.
//
//	settings:
//	  gjk_max_iterations: 20
//	  cell_size: 1.0
//	  log_level: debug
//	bodies:
//	  - name: crate
//	    shape: {type: box, half_extents: [1, 1, 1]}
//	    position: [0, 2, 0]
//	    rotation: [0, 45, 0]
type Config struct {
	Settings Settings     `yaml:"settings"`
	Bodies   []BodyConfig `yaml:"bodies"`
}

type Settings struct {
	GJKMaxIterations int     `yaml:"gjk_max_iterations"`
	CellSize         float64 `yaml:"cell_size"`
	GridCells        int     `yaml:"grid_cells"`
	CircleSegments   int     `yaml:"circle_segments"`
	LogLevel         string  `yaml:"log_level"`
}

type BodyConfig struct {
	Name  string      `yaml:"name"`
	Shape ShapeConfig `yaml:"shape"`
	// Position is [x, y] or [x, y, z]
	Position []float64 `yaml:"position,omitempty"`
	// Rotation is in degrees: [z] for planar bodies, or Euler angles [x, y, z]
	Rotation []float64 `yaml:"rotation,omitempty"`
	Static   bool      `yaml:"static,omitempty"`
}

type ShapeConfig struct {
	Type        string      `yaml:"type"`
	HalfExtents []float64   `yaml:"half_extents,omitempty"`
	Points      [][]float64 `yaml:"points,omitempty"`
	Radius      float64     `yaml:"radius,omitempty"`
	Segments    int         `yaml:"segments,omitempty"`
	Rings       int         `yaml:"rings,omitempty"`
	Sectors     int         `yaml:"sectors,omitempty"`
	Size        []float64   `yaml:"size,omitempty"`
	Offset      []float64   `yaml:"offset,omitempty"`
}

// Load decodes a scene from YAML
func Load(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &c, nil
}

// LoadFile decodes the scene file at path
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WorldConfig maps the settings to the world tunables, zero values falling back to the defaults
func (s Settings) WorldConfig() overlap.Config {
	config := overlap.DefaultConfig()
	if s.GJKMaxIterations > 0 {
		config.MaxIterations = s.GJKMaxIterations
	}
	if s.CellSize > 0 {
		config.CellSize = s.CellSize
	}
	if s.GridCells > 0 {
		config.GridCells = s.GridCells
	}
	return config
}

// Build creates the world and adds every body in file order
func (c *Config) Build(logger *zap.Logger) (*overlap.World, error) {
	world := overlap.NewWorld(c.Settings.WorldConfig(), logger)

	names := make(map[string]bool, len(c.Bodies))
	for i, bc := range c.Bodies {
		if bc.Name == "" {
			return nil, fmt.Errorf("body %d has no name: %w", i, ErrInvalidScene)
		}
		if names[bc.Name] {
			return nil, fmt.Errorf("duplicate body name %q: %w", bc.Name, ErrInvalidScene)
		}
		names[bc.Name] = true

		body, err := bc.build(c.Settings)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", bc.Name, err)
		}
		world.AddBody(body)
	}

	return world, nil
}

func (bc BodyConfig) build(settings Settings) (*actor.Body, error) {
	shape, err := bc.Shape.build(settings)
	if err != nil {
		return nil, err
	}

	transform := actor.NewTransform()
	if len(bc.Position) > 0 {
		position, err := vec3(bc.Position, true)
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		transform.Position = position
	}

	switch len(bc.Rotation) {
	case 0:
	case 1:
		transform.Rotation = mgl64.QuatRotate(mgl64.DegToRad(bc.Rotation[0]), mgl64.Vec3{0, 0, 1})
	case 3:
		transform.Rotation = mgl64.AnglesToQuat(
			mgl64.DegToRad(bc.Rotation[0]),
			mgl64.DegToRad(bc.Rotation[1]),
			mgl64.DegToRad(bc.Rotation[2]),
			mgl64.XYZ,
		)
	default:
		return nil, fmt.Errorf("rotation needs 1 or 3 angles, got %d: %w", len(bc.Rotation), ErrInvalidScene)
	}

	bodyType := actor.BodyTypeDynamic
	if bc.Static {
		bodyType = actor.BodyTypeStatic
	}

	return actor.NewBody(bc.Name, transform, shape, bodyType), nil
}

func (sc ShapeConfig) build(settings Settings) (actor.ShapeInterface, error) {
	switch sc.Type {
	case "box":
		halfExtents, err := vec3(sc.HalfExtents, false)
		if err != nil {
			return nil, fmt.Errorf("half_extents: %w", err)
		}
		return &actor.Box{HalfExtents: halfExtents}, nil

	case "mesh":
		if len(sc.Points) == 0 {
			return nil, fmt.Errorf("mesh has no points: %w", ErrInvalidScene)
		}
		points := make([]mgl64.Vec3, len(sc.Points))
		for i, p := range sc.Points {
			point, err := vec3(p, false)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			points[i] = point
		}
		return &actor.Mesh{Points: points}, nil

	case "sphere":
		if sc.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius must be positive: %w", ErrInvalidScene)
		}
		return &actor.Sphere{Radius: sc.Radius, Rings: sc.Rings, Sectors: sc.Sectors}, nil

	case "polygon":
		points := make([]mgl64.Vec2, len(sc.Points))
		for i, p := range sc.Points {
			point, err := vec2(p)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			points[i] = point
		}
		if err := sat.Validate(points); err != nil {
			return nil, fmt.Errorf("polygon: %w: %w", ErrInvalidScene, err)
		}
		return &actor.Polygon{Points: points}, nil

	case "circle":
		if sc.Radius <= 0 {
			return nil, fmt.Errorf("circle radius must be positive: %w", ErrInvalidScene)
		}
		segments := sc.Segments
		if segments == 0 {
			segments = settings.CircleSegments
		}
		offset, err := optionalVec2(sc.Offset)
		if err != nil {
			return nil, fmt.Errorf("offset: %w", err)
		}
		return &actor.Circle{Radius: sc.Radius, Offset: offset, Segments: segments}, nil

	case "rect":
		size, err := vec2(sc.Size)
		if err != nil {
			return nil, fmt.Errorf("size: %w", err)
		}
		offset, err := optionalVec2(sc.Offset)
		if err != nil {
			return nil, fmt.Errorf("offset: %w", err)
		}
		return &actor.Rect{Size: size, Offset: offset}, nil
	}

	return nil, fmt.Errorf("unknown shape type %q: %w", sc.Type, ErrInvalidScene)
}

// vec3 reads [x, y, z], or [x, y] with z=0 when allow2D is set
func vec3(values []float64, allow2D bool) (mgl64.Vec3, error) {
	switch {
	case len(values) == 3:
		return mgl64.Vec3{values[0], values[1], values[2]}, nil
	case len(values) == 2 && allow2D:
		return mgl64.Vec3{values[0], values[1], 0}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected 3 components, got %d: %w", len(values), ErrInvalidScene)
}

func vec2(values []float64) (mgl64.Vec2, error) {
	if len(values) != 2 {
		return mgl64.Vec2{}, fmt.Errorf("expected 2 components, got %d: %w", len(values), ErrInvalidScene)
	}
	return mgl64.Vec2{values[0], values[1]}, nil
}

func optionalVec2(values []float64) (mgl64.Vec2, error) {
	if len(values) == 0 {
		return mgl64.Vec2{}, nil
	}
	return vec2(values)
}
