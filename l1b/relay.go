// Public domain.

package l1b

import (
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats"
)

// Mechanical range of the scan mirror, degrees, as recorded by the
// flight software.  The values are exact.  A relay swath is one whose
// mirror angles reach both bounds; comparison is by equality, not
// tolerance, as the flight software commands these exact positions.
const (
	MinMirrorDeg = 30.2508544921875
	MaxMirrorDeg = 59.6502685546875
)

// DayNightVolt is the MCP voltage boundary between dayside and
// nightside detector settings.  Voltages at or above the boundary mark
// nightside observations.
const DayNightVolt = 790

// AngularSlitWidth is the angular length of the slit projected on the
// sky.
var AngularSlitWidth = unit.AngleFromDeg(10.64)

// MinMirrorAngle returns the smallest mirror angle of the swath.
func (f *File) MinMirrorAngle() unit.Angle {
	return unit.AngleFromDeg(floats.Min(f.Integration.MirrorDeg))
}

// MaxMirrorAngle returns the largest mirror angle of the swath.
func (f *File) MaxMirrorAngle() unit.Angle {
	return unit.AngleFromDeg(floats.Max(f.Integration.MirrorDeg))
}

// Relay reports whether the swath was taken during a relay pass, that
// is, with the mirror sweeping its full mechanical range.
func (f *File) Relay() bool {
	m := f.Integration.MirrorDeg
	return floats.Min(m) == MinMirrorDeg && floats.Max(m) == MaxMirrorDeg
}

// PositiveScan reports whether the mirror sweeps upward over the swath.
func (f *File) PositiveScan() bool {
	m := f.Integration.MirrorDeg
	return m[len(m)-1] > m[0]
}

// Dayside reports whether the swath was taken with dayside detector
// settings.
func (f *File) Dayside() bool {
	return f.Observation.MCPVolt < DayNightVolt
}

// SwathNumbers assigns a swath index to each integration of the file.
func (f *File) SwathNumbers() []int {
	return SwathNumbers(f.Integration.MirrorDeg)
}

// SwathCount returns the number of swaths in the file.
func (f *File) SwathCount() int {
	n := f.SwathNumbers()
	return n[len(n)-1] + 1
}

// SwathNumbers assigns a swath index to each integration of a mirror
// angle series.  A new swath begins at a flyback: a step against the
// sweep direction more than four times the size of the typical step.
// Slow reversals and forward gaps do not split a swath.
func SwathNumbers(mirrorDeg []float64) []int {
	nums := make([]int, len(mirrorDeg))
	if len(mirrorDeg) < 2 {
		return nums
	}
	var step float64
	for i := 1; i < len(mirrorDeg); i++ {
		if d := mirrorDeg[i] - mirrorDeg[i-1]; d != 0 {
			step = d
			break
		}
	}
	if step == 0 {
		return nums
	}
	sw := 0
	for i := 1; i < len(mirrorDeg); i++ {
		d := mirrorDeg[i] - mirrorDeg[i-1]
		if d*step < 0 && math.Abs(d) > 4*math.Abs(step) {
			sw++
		}
		nums[i] = sw
	}
	return nums
}
