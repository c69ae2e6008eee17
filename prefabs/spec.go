package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	PaletteFile = "palette.yaml"
	SceneFile   = "scene.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PaletteSpec lists the tile descriptors the editor can paint with. Cell is
// the atlas cell size in pixels.
type PaletteSpec struct {
	Name        string           `yaml:"name"`
	Cell        int              `yaml:"cell"`
	Descriptors []DescriptorSpec `yaml:"descriptors"`
}

type DescriptorSpec struct {
	Name   string     `yaml:"name"`
	ID     int        `yaml:"id"`
	Type   string     `yaml:"type"`
	Image  string     `yaml:"image"`
	Frames int        `yaml:"frames"`
	FPS    float64    `yaml:"fps"`
	Flags  []string   `yaml:"flags"`
	Color  *YAMLColor `yaml:"color"`
}

func LoadPaletteSpec() (*PaletteSpec, error) {
	spec, err := LoadSpec[PaletteSpec](PaletteFile)
	if err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", PaletteFile, err)
	}
	return &spec, nil
}

// Descriptor IDs double as atlas columns, so they must run 0..n-1.
func (p *PaletteSpec) validate() error {
	if len(p.Descriptors) == 0 {
		return fmt.Errorf("palette has no descriptors")
	}
	seen := make([]bool, len(p.Descriptors))
	for _, d := range p.Descriptors {
		if d.ID < 0 || d.ID >= len(p.Descriptors) {
			return fmt.Errorf("descriptor %q: id %d out of range", d.Name, d.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("descriptor %q: duplicate id %d", d.Name, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

type SceneSpec struct {
	ID      string       `yaml:"id"`
	Level   string       `yaml:"level"`
	Camera  CameraSpec   `yaml:"camera"`
	Player  PlayerSpec   `yaml:"player"`
	Objects []ObjectSpec `yaml:"objects"`
}

func LoadSceneSpec() (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](SceneFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type CameraSpec struct {
	Follow     string         `yaml:"follow"`
	Smoothness float64        `yaml:"smoothness"`
	Scaling    string         `yaml:"scaling"`
	Reference  ResolutionSpec `yaml:"reference"`
}

type ResolutionSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PlayerSpec struct {
	Name      string        `yaml:"name"`
	MoveSpeed float64       `yaml:"move_speed"`
	Transform TransformSpec `yaml:"transform"`
	Collider  ColliderSpec  `yaml:"collider"`
	Idle      SpriteSpec    `yaml:"idle"`
	Run       SpriteSpec    `yaml:"run"`
}

type ObjectSpec struct {
	Name      string         `yaml:"name"`
	Transform TransformSpec  `yaml:"transform"`
	Sprite    SpriteSpec     `yaml:"sprite"`
	Script    string         `yaml:"script"`
	Vars      map[string]any `yaml:"vars"`
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SpriteSpec is a horizontal strip of Frames frames. Color fills the strip
// when Image is missing.
type SpriteSpec struct {
	Image    string     `yaml:"image"`
	Frames   int        `yaml:"frames"`
	FPS      float64    `yaml:"fps"`
	Animated bool       `yaml:"animated"`
	Color    *YAMLColor `yaml:"color"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	var ch [4]uint8
	ch[3] = 255
	for i := 0; i*2 < len(s); i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return fmt.Errorf("invalid color format: %s", value.Value)
		}
		ch[i] = uint8(v)
	}

	c.Color = color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
	return nil
}
