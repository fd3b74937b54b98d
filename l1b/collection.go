// Public domain.

package l1b

import (
	"errors"
	"fmt"
	"sort"

	"github.com/soniakeys/meeus/v3/julian"
)

// Collection is a set of swath files of shared binning, ordered by
// observation time.  Stack methods concatenate per file arrays along
// the integration axis, so that an element index of one stack lines up
// with the same index of every other.
type Collection struct {
	Files []*File
}

// NewCollection orders files by observation time and validates that all
// share the same spatial and spectral binning.  An empty file list is
// an error, as is any binning mismatch.
func NewCollection(files []*File) (*Collection, error) {
	if len(files) == 0 {
		return nil, errors.New("NewCollection: no files")
	}
	s := append([]*File{}, files...)
	sort.Slice(s, func(i, j int) bool {
		return s[i].Name.Less(s[j].Name)
	})
	f0 := s[0]
	for _, f := range s[1:] {
		if f.Dims.NSpatial != f0.Dims.NSpatial ||
			f.Dims.NSpectral != f0.Dims.NSpectral ||
			f.Observation.SpaSize != f0.Observation.SpaSize ||
			f.Observation.SpeSize != f0.Observation.SpeSize {
			return nil, fmt.Errorf(
				"NewCollection: %s is binned %dx%d spatial x spectral, %s is binned %dx%d",
				f0.Name, f0.Dims.NSpatial, f0.Dims.NSpectral,
				f.Name, f.Dims.NSpatial, f.Dims.NSpectral)
		}
	}
	return &Collection{s}, nil
}

// OpenCollection opens each path and builds a collection.
func OpenCollection(paths []string) (*Collection, error) {
	files := make([]*File, len(paths))
	for i, p := range paths {
		f, err := Open(p)
		if err != nil {
			return nil, err
		}
		files[i] = f
	}
	return NewCollection(files)
}

// NIntegrations returns the total integration count over all files.
func (c *Collection) NIntegrations() int {
	n := 0
	for _, f := range c.Files {
		n += f.Dims.NIntegration
	}
	return n
}

// AllRelay reports whether every file in the collection is a relay
// swath.
func (c *Collection) AllRelay() bool {
	for _, f := range c.Files {
		if !f.Relay() {
			return false
		}
	}
	return true
}

// AnyRelay reports whether at least one file in the collection is a
// relay swath.
func (c *Collection) AnyRelay() bool {
	for _, f := range c.Files {
		if f.Relay() {
			return true
		}
	}
	return false
}

// stack concatenates one cube per file along the integration axis.
func (c *Collection) stack(pick func(*File) *Cube) Cube {
	first := pick(c.Files[0])
	shape := append([]int{}, first.Shape...)
	shape[0] = c.NIntegrations()
	n := 1
	for _, s := range shape {
		n *= s
	}
	out := Cube{Data: make([]float64, 0, n), Shape: shape}
	for _, f := range c.Files {
		out.Data = append(out.Data, pick(f).Data...)
	}
	return out
}

// StackPrimary returns the brightness cubes of all files concatenated
// along the integration axis, (integration, spatial, spectral).
func (c *Collection) StackPrimary() Cube {
	return c.stack(func(f *File) *Cube { return &f.Primary })
}

// StackSolarZenith returns the stacked solar zenith angle plane,
// (integration, spatial), degrees.
func (c *Collection) StackSolarZenith() Cube {
	return c.stack(func(f *File) *Cube { return &f.PixelGeometry.SolarZenith })
}

// StackEmission returns the stacked emission angle plane.
func (c *Collection) StackEmission() Cube {
	return c.stack(func(f *File) *Cube { return &f.PixelGeometry.Emission })
}

// StackPhase returns the stacked phase angle plane.
func (c *Collection) StackPhase() Cube {
	return c.stack(func(f *File) *Cube { return &f.PixelGeometry.Phase })
}

// StackLocalTime returns the stacked local time plane, Mars hours.
func (c *Collection) StackLocalTime() Cube {
	return c.stack(func(f *File) *Cube { return &f.PixelGeometry.LocalTime })
}

// StackCornerLat returns the stacked pixel corner latitude cube,
// (integration, spatial, corner), degrees.
func (c *Collection) StackCornerLat() Cube {
	return c.stack(func(f *File) *Cube { return &f.PixelGeometry.CornerLat })
}

// StackCornerLon returns the stacked pixel corner longitude cube.
func (c *Collection) StackCornerLon() Cube {
	return c.stack(func(f *File) *Cube { return &f.PixelGeometry.CornerLon })
}

// StackTangentAlt returns the stacked tangent point altitude cube, km.
func (c *Collection) StackTangentAlt() Cube {
	return c.stack(func(f *File) *Cube { return &f.PixelGeometry.TangentAlt })
}

// StackMirrorDeg returns the mirror angles of all files concatenated in
// time order, degrees.
func (c *Collection) StackMirrorDeg() []float64 {
	m := make([]float64, 0, c.NIntegrations())
	for _, f := range c.Files {
		m = append(m, f.Integration.MirrorDeg...)
	}
	return m
}

// StackET returns the ephemeris times of all files concatenated in time
// order, seconds.
func (c *Collection) StackET() []float64 {
	et := make([]float64, 0, c.NIntegrations())
	for _, f := range c.Files {
		et = append(et, f.Integration.ET...)
	}
	return et
}

// SwathNumbers assigns a swath index to each integration of the
// collection.  Indexes continue across file boundaries, so the swaths
// of an orbit are numbered consecutively.
func (c *Collection) SwathNumbers() []int {
	return SwathNumbers(c.StackMirrorDeg())
}

// SwathCount returns the number of swaths in the collection.
func (c *Collection) SwathCount() int {
	n := c.SwathNumbers()
	return n[len(n)-1] + 1
}

// DaysideMask reports, per integration, whether the integration was
// taken with dayside detector settings.
func (c *Collection) DaysideMask() []bool {
	m := make([]bool, 0, c.NIntegrations())
	for _, f := range c.Files {
		day := f.Dayside()
		for i := 0; i < f.Dims.NIntegration; i++ {
			m = append(m, day)
		}
	}
	return m
}

// Times returns the Julian date of each integration, derived from each
// file's start time and its ephemeris time offsets.
func (c *Collection) Times() []float64 {
	jd := make([]float64, 0, c.NIntegrations())
	for _, f := range c.Files {
		jd0 := julian.TimeToJD(f.Name.Time)
		et := f.Integration.ET
		for i := range et {
			jd = append(jd, jd0+(et[i]-et[0])/86400)
		}
	}
	return jd
}
