// Public domain.

// Package anc defines the ancillary array set used by the iuvs command
// and the utility program mkanc.
package anc

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/maven-iuvs/iuvs/l1b"
)

// Afn, the default ancillary set file name.
const Afn = "iuvs.anc"

// Set holds instrument wide ancillary arrays for one detector channel.
type Set struct {
	Created     time.Time
	Channel     string
	Flatfield   l1b.Cube  // (spatial, spectral) relative sensitivity
	Wavelengths []float64 // spectral bin centers, nm
	PointSpread []float64 // line spread kernel, unit sum
	SolarFlux   []float64 // reference solar spectrum on Wavelengths
}

// ReadFile reads an ancillary set file created by mkanc.
func ReadFile(fn string) (s Set, err error) {
	f, err := os.Open(fn)
	if err != nil {
		return
	}
	defer f.Close()
	err = gob.NewDecoder(f).Decode(&s)
	return
}

// WriteFile writes the set, creating or replacing fn.
func (s *Set) WriteFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FlatCorrect divides a detector cube by the flatfield, returning a new
// cube.  The cube's spatial and spectral axes must match the flatfield.
func (s *Set) FlatCorrect(c l1b.Cube) (l1b.Cube, error) {
	ff := &s.Flatfield
	if len(ff.Shape) != 2 {
		return l1b.Cube{}, errors.New("FlatCorrect: set has no flatfield")
	}
	nspat, nspec := ff.Shape[0], ff.Shape[1]
	if len(c.Shape) != 3 || c.Shape[1] != nspat || c.Shape[2] != nspec {
		return l1b.Cube{}, fmt.Errorf(
			"FlatCorrect: cube shape %v does not match %dx%d flatfield",
			c.Shape, nspat, nspec)
	}
	out := l1b.NewCube(c.Shape...)
	np := len(ff.Data)
	for i, v := range c.Data {
		out.Data[i] = v / ff.Data[i%np]
	}
	return out, nil
}

// Passband returns the wavelength bounds of a detector channel, nm.
func Passband(channel string) (lo, hi float64, err error) {
	switch channel {
	case "muv":
		return 174, 340.5, nil
	case "fuv":
		return 110, 190, nil
	case "ech":
		return 116, 131, nil
	}
	return 0, 0, fmt.Errorf("Passband: unknown channel (%s)", channel)
}

// Default returns a neutral ancillary set for a channel: unit
// flatfield, linear wavelength grid over the channel passband, a
// normalized Gaussian line spread kernel, and a unit solar reference.
// It serves until a measured set is available.
func Default(channel string, nspat, nspec int) (Set, error) {
	lo, hi, err := Passband(channel)
	if err != nil {
		return Set{}, err
	}
	if nspat < 1 || nspec < 2 {
		return Set{}, fmt.Errorf("Default: bad binning %dx%d", nspat, nspec)
	}
	s := Set{Created: time.Now(), Channel: channel}
	s.Flatfield = l1b.NewCube(nspat, nspec)
	for i := range s.Flatfield.Data {
		s.Flatfield.Data[i] = 1
	}
	s.Wavelengths = make([]float64, nspec)
	floats.Span(s.Wavelengths, lo, hi)
	const kernel = 21 // wide enough for any in flight line spread
	const sigma = 2.5 // spectral bins
	s.PointSpread = make([]float64, kernel)
	for i := range s.PointSpread {
		x := float64(i - kernel/2)
		s.PointSpread[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(s.PointSpread), s.PointSpread)
	s.SolarFlux = make([]float64, nspec)
	for i := range s.SolarFlux {
		s.SolarFlux[i] = 1
	}
	return s, nil
}
