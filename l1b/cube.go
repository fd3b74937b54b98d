// Public domain.

package l1b

import "fmt"

// Cube holds a dense array as a flat slice with an explicit shape, the
// last axis varying fastest.  Detector data is shaped (integration,
// spatial, spectral); corner geometry is shaped (integration, spatial,
// corner).  The zero value is an empty cube.
type Cube struct {
	Data  []float64
	Shape []int
}

// NewCube allocates a zero filled cube of the given shape.
func NewCube(shape ...int) Cube {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return Cube{Data: make([]float64, n), Shape: shape}
}

// Ix computes the index into Data of the element at the given indexes.
// The number of indexes must equal the number of axes.
func (c *Cube) Ix(ix ...int) int {
	if len(ix) != len(c.Shape) {
		panic(fmt.Sprintf("cube: %d indexes into %d axes", len(ix), len(c.Shape)))
	}
	x := 0
	for d, i := range ix {
		x = x*c.Shape[d] + i
	}
	return x
}

// At returns the element at the given indexes.
func (c *Cube) At(ix ...int) float64 {
	return c.Data[c.Ix(ix...)]
}

// Set stores v at the given indexes.
func (c *Cube) Set(v float64, ix ...int) {
	c.Data[c.Ix(ix...)] = v
}

// Len returns the element count, the product of the axis lengths.
func (c *Cube) Len() int {
	return len(c.Data)
}

// SameShape reports whether two cubes have identical axis lengths.
func SameShape(a, b *Cube) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i, s := range a.Shape {
		if b.Shape[i] != s {
			return false
		}
	}
	return true
}
