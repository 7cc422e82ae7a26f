// Package particles animates a decorative field of drifting dots.
package particles

import (
	"math/rand"
	"strings"
)

// DefaultCount is the number of particles in a new field.
const DefaultCount = 120

// Particle is one dot: position, radius and velocity.
type Particle struct {
	X, Y   float64
	R      float64
	DX, DY float64
}

// Field holds particles bouncing inside a width x height box.
type Field struct {
	Width, Height float64
	Particles     []Particle
}

// New scatters n particles over the box using rng.
func New(n int, width, height float64, rng *rand.Rand) *Field {
	f := &Field{Width: width, Height: height, Particles: make([]Particle, n)}
	for i := range f.Particles {
		f.Particles[i] = Particle{
			X:  rng.Float64() * width,
			Y:  rng.Float64() * height,
			R:  rng.Float64()*2 + 1,
			DX: rng.Float64()*0.5 - 0.25,
			DY: rng.Float64()*0.5 - 0.25,
		}
	}
	return f
}

// Step moves every particle once, reversing direction at the edges.
func (f *Field) Step() {
	for i := range f.Particles {
		p := &f.Particles[i]
		p.X += p.DX
		p.Y += p.DY
		if p.X < 0 || p.X > f.Width {
			p.DX = -p.DX
		}
		if p.Y < 0 || p.Y > f.Height {
			p.DY = -p.DY
		}
	}
}

// Resize changes the bounds; particles keep their state.
func (f *Field) Resize(width, height float64) {
	f.Width = width
	f.Height = height
}

// Render draws the field into a grid of cols x rows cells.
// Larger particles win when several share a cell.
func (f *Field) Render(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	grid := make([][]float64, rows)
	for i := range grid {
		grid[i] = make([]float64, cols)
	}
	for _, p := range f.Particles {
		c, r := f.cell(p, cols, rows)
		if c < 0 || r < 0 {
			continue
		}
		if p.R > grid[r][c] {
			grid[r][c] = p.R
		}
	}

	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, radius := range row {
			b.WriteString(glyph(radius))
		}
	}
	return b.String()
}

func (f *Field) cell(p Particle, cols, rows int) (int, int) {
	if f.Width <= 0 || f.Height <= 0 {
		return -1, -1
	}
	c := int(p.X / f.Width * float64(cols))
	r := int(p.Y / f.Height * float64(rows))
	if c < 0 || c >= cols || r < 0 || r >= rows {
		return -1, -1
	}
	return c, r
}

func glyph(radius float64) string {
	switch {
	case radius == 0:
		return " "
	case radius < 1.7:
		return "·"
	case radius < 2.4:
		return "•"
	default:
		return "●"
	}
}
