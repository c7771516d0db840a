package dynamo

import "github.com/charmbracelet/harmonica"

// DefaultBlendFactor is the fraction of the remaining distance covered per frame.
const DefaultBlendFactor = 0.1

// Composition maps recurrence space onto the display square:
// pixel = (v*Scale + Offset) * side + margin.
type Composition struct {
	Scale   float64 `yaml:"scale" json:"scale"`
	XOffset float64 `yaml:"x_offset" json:"x_offset"`
	YOffset float64 `yaml:"y_offset" json:"y_offset"`
}

// Lerp returns c moved toward target by factor.
func (c Composition) Lerp(target Composition, factor float64) Composition {
	return Composition{
		Scale:   target.Scale*factor + c.Scale*(1-factor),
		XOffset: target.XOffset*factor + c.XOffset*(1-factor),
		YOffset: target.YOffset*factor + c.YOffset*(1-factor),
	}
}

// Smoother advances the rendered composition one frame toward a target.
type Smoother interface {
	Step(target Composition) Composition
	Current() Composition
	Reset(c Composition)
}

// Blender applies a fixed factor once per frame, independent of elapsed time.
// Transition speed therefore follows the frame rate.
type Blender struct {
	factor  float64
	current Composition
}

func NewBlender(factor float64, start Composition) *Blender {
	return &Blender{factor: factor, current: start}
}

func (b *Blender) Step(target Composition) Composition {
	b.current = b.current.Lerp(target, b.factor)
	return b.current
}

func (b *Blender) Current() Composition { return b.current }

func (b *Blender) Reset(c Composition) { b.current = c }

// SpringBlender eases each component with a damped spring, also stepped once
// per frame at a nominal frame rate.
type SpringBlender struct {
	spring  harmonica.Spring
	current Composition
	vel     Composition
}

func NewSpringBlender(fps int, frequency, damping float64, start Composition) *SpringBlender {
	return &SpringBlender{
		spring:  harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		current: start,
	}
}

func (s *SpringBlender) Step(target Composition) Composition {
	s.current.Scale, s.vel.Scale = s.spring.Update(s.current.Scale, s.vel.Scale, target.Scale)
	s.current.XOffset, s.vel.XOffset = s.spring.Update(s.current.XOffset, s.vel.XOffset, target.XOffset)
	s.current.YOffset, s.vel.YOffset = s.spring.Update(s.current.YOffset, s.vel.YOffset, target.YOffset)
	return s.current
}

func (s *SpringBlender) Current() Composition { return s.current }

func (s *SpringBlender) Reset(c Composition) {
	s.current = c
	s.vel = Composition{}
}
