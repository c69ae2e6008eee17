package render

import (
	"math"

	"github.com/milk9111/tileforge/geom"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type ScalingMode int

const (
	// ScalingFixed draws one world unit per screen pixel regardless of
	// window size.
	ScalingFixed ScalingMode = iota
	// ScalingScreenSize scales the view so ReferenceResolution always fits.
	ScalingScreenSize
)

// Camera offsets the whole world in view space: a camera at (x, y) shows
// world point (0, 0) at screen center shifted by (x, y).
type Camera struct {
	Transform           geom.Transform
	ScalingMode         ScalingMode
	ReferenceResolution geom.Vector2

	resolutionScale float64
	aspect          float64
	scroll          *scrollAnim
}

// scrollAnim holds the active scroll-to tweens for X and Y.
type scrollAnim struct {
	x, y   *gween.Tween
	doneX  bool
	doneY  bool
	target geom.Vector2
}

func NewCamera() *Camera {
	return &Camera{
		Transform:           geom.NewTransform(geom.Vector2{}),
		ReferenceResolution: geom.Vec2(1280, 720),
		resolutionScale:     1,
		aspect:              1,
	}
}

func (c *Camera) Position() geom.Vector2 {
	return c.Transform.Position
}

func (c *Camera) SetPosition(p geom.Vector2) {
	c.Transform.Position = p
}

// SetResolution updates the aspect ratio and, in ScalingScreenSize mode, the
// scale that fits ReferenceResolution into a w x h surface.
func (c *Camera) SetResolution(w, h float64) {
	if h > 0 {
		c.aspect = w / h
	}
	c.resolutionScale = 1
	if c.ScalingMode == ScalingScreenSize && c.ReferenceResolution.X > 0 && c.ReferenceResolution.Y > 0 {
		c.resolutionScale = math.Min(w/c.ReferenceResolution.X, h/c.ReferenceResolution.Y)
	}
}

func (c *Camera) ResolutionScale() float64 {
	return c.resolutionScale
}

func (c *Camera) Aspect() float64 {
	return c.aspect
}

// Matrix returns translate, rotate, scale, then the resolution scale.
func (c *Camera) Matrix() geom.Matrix4 {
	m := c.Transform.ViewMatrix()
	if c.resolutionScale != 1 {
		m.Scale(c.resolutionScale, c.resolutionScale, 1)
	}
	return m
}

// ScrollTo eases the camera position to (x, y) over duration seconds. A
// manual SetPosition does not cancel it; CancelScroll does.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	p := c.Transform.Position
	c.scroll = &scrollAnim{
		x:      gween.New(float32(p.X), float32(x), duration, easeFn),
		y:      gween.New(float32(p.Y), float32(y), duration, easeFn),
		target: geom.Vec2(x, y),
	}
}

func (c *Camera) CancelScroll() {
	c.scroll = nil
}

func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// Update advances an active scroll by dt seconds.
func (c *Camera) Update(dt float64) {
	s := c.scroll
	if s == nil {
		return
	}
	if !s.doneX {
		val, done := s.x.Update(float32(dt))
		c.Transform.Position.X = float64(val)
		s.doneX = done
	}
	if !s.doneY {
		val, done := s.y.Update(float32(dt))
		c.Transform.Position.Y = float64(val)
		s.doneY = done
	}
	if s.doneX && s.doneY {
		c.Transform.Position = s.target
		c.scroll = nil
	}
}
