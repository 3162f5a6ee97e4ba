package decor

import (
	"maps"
	"slices"
)

// Collection indexes generated decorations by owning chord. Replacing one
// chord's entry never touches the others, so regenerating a single chord
// cannot leak stale decorations across chords.
type Collection struct {
	particles map[string][]Particle
	shapes    map[string][]Shape
}

func NewCollection() *Collection {
	return &Collection{
		particles: make(map[string][]Particle),
		shapes:    make(map[string][]Shape),
	}
}

// SetParticles replaces the particle set tagged with key.
func (c *Collection) SetParticles(key string, ps []Particle) {
	c.particles[key] = ps
}

// Particles returns the particle set tagged with key.
func (c *Collection) Particles(key string) []Particle {
	return c.particles[key]
}

// SetShapes replaces the shape set tagged with key.
func (c *Collection) SetShapes(key string, ss []Shape) {
	c.shapes[key] = ss
}

// Shapes returns the shape set tagged with key.
func (c *Collection) Shapes(key string) []Shape {
	return c.shapes[key]
}

// Remove drops every decoration tagged with key.
func (c *Collection) Remove(key string) {
	delete(c.particles, key)
	delete(c.shapes, key)
}

// Clear drops all decorations.
func (c *Collection) Clear() {
	clear(c.particles)
	clear(c.shapes)
}

// Keys returns every chord key holding decorations, sorted for a stable
// render order.
func (c *Collection) Keys() []string {
	seen := make(map[string]struct{}, len(c.particles))
	for k := range c.particles {
		seen[k] = struct{}{}
	}
	for k := range c.shapes {
		seen[k] = struct{}{}
	}
	keys := slices.Collect(maps.Keys(seen))
	slices.Sort(keys)
	return keys
}

// ParticleCount returns the total particle count across all chords.
func (c *Collection) ParticleCount() int {
	n := 0
	for _, ps := range c.particles {
		n += len(ps)
	}
	return n
}
