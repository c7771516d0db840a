// Package dynamo provides the numerical primitives behind the attractor renderer.
//
// The package defines the pieces every frame is built from:
//
//   - [SineTable]: power-of-two sine lookup built from one quadrant
//   - [Composition]: scale and offsets mapping recurrence space to pixels
//   - [Smoother]: per-frame transition toward a target composition
//   - [Blender]: the frame-coupled exponential smoother
//   - [SpringBlender]: a damped-spring alternative backed by harmonica
//
// # Example
//
//	table, _ := dynamo.NewSineTable(dynamo.DefaultTableSize)
//	b := dynamo.NewBlender(dynamo.DefaultBlendFactor, start)
//	comp := b.Step(target)
//
// # Thread Safety
//
// SineTable is immutable after construction and safe for concurrent reads.
// Blenders are NOT thread-safe; they are stepped by the frame loop only.
package dynamo
