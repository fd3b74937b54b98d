// Public domain.

package l1b_test

import (
	"testing"
	"time"

	"github.com/maven-iuvs/iuvs/internal/synth"
	"github.com/maven-iuvs/iuvs/l1b"
)

func TestRelay(t *testing.T) {
	p := synth.Nominal(7020, 2)
	p.Segment = "relay-echo"
	p.Relay = true
	f, err := l1b.Open(writeSwath(t, t.TempDir(), p))
	if err != nil {
		t.Fatal(err)
	}
	switch {
	case !f.Relay():
		t.Fatal("full sweep should classify as relay")
	case f.MinMirrorAngle().Deg() != l1b.MinMirrorDeg:
		t.Fatal("min angle:", f.MinMirrorAngle().Deg())
	case f.MaxMirrorAngle().Deg() != l1b.MaxMirrorDeg:
		t.Fatal("max angle:", f.MaxMirrorAngle().Deg())
	case !f.PositiveScan():
		t.Fatal("sweep should run upward")
	case f.SwathCount() != 1:
		t.Fatal("SwathCount:", f.SwathCount())
	}
}

func TestNotRelay(t *testing.T) {
	f, err := l1b.Open(writeSwath(t, t.TempDir(), synth.Nominal(7020, 3)))
	if err != nil {
		t.Fatal(err)
	}
	if f.Relay() {
		t.Fatal("partial sweep should not classify as relay")
	}
	// classification is by equality with the bounds, not tolerance
	m := f.Integration.MirrorDeg
	m[0] = l1b.MinMirrorDeg + 1e-9
	m[len(m)-1] = l1b.MaxMirrorDeg
	if f.Relay() {
		t.Fatal("near miss at the low bound should not classify as relay")
	}
	m[0] = l1b.MinMirrorDeg
	if !f.Relay() {
		t.Fatal("exact bounds should classify as relay")
	}
}

func TestDayside(t *testing.T) {
	dir := t.TempDir()
	day := synth.Nominal(3100, 4)
	f, err := l1b.Open(writeSwath(t, dir, day))
	if err != nil {
		t.Fatal(err)
	}
	if !f.Dayside() {
		t.Fatal("dayside settings")
	}
	night := synth.Nominal(3100, 5)
	night.Dayside = false
	night.Time = night.Time.Add(10 * time.Minute)
	g, err := l1b.Open(writeSwath(t, dir, night))
	if err != nil {
		t.Fatal(err)
	}
	if g.Dayside() {
		t.Fatal("nightside settings")
	}
	if g.Observation.MCPVolt < l1b.DayNightVolt {
		t.Fatal("nightside voltage:", g.Observation.MCPVolt)
	}
}

var swathTestCases = []struct {
	mirror []float64
	want   []int
}{
	// steady upward sweep
	{[]float64{30, 31, 32, 33}, []int{0, 0, 0, 0}},
	// flyback starts a new swath
	{[]float64{30, 31, 32, 33, 34, 35, 30, 31, 32, 33},
		[]int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1}},
	// slow reversal is not a flyback
	{[]float64{30, 31, 32, 31.5, 31, 30.5}, []int{0, 0, 0, 0, 0, 0}},
	// a forward gap does not split
	{[]float64{30, 31, 32, 40, 41, 42}, []int{0, 0, 0, 0, 0, 0}},
	// downward sweep with upward flyback
	{[]float64{59, 58, 57, 56, 55, 59.5, 58.5, 57.5},
		[]int{0, 0, 0, 0, 0, 1, 1, 1}},
	// three sweeps
	{[]float64{30, 31, 32, 33, 34, 35, 36, 30, 31, 32, 33, 34, 35, 36, 30, 31},
		[]int{0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 2, 2}},
	// motionless mirror
	{[]float64{45, 45, 45}, []int{0, 0, 0}},
	{[]float64{30}, []int{0}},
	{nil, nil},
}

func TestSwathNumbers(t *testing.T) {
	for i, tc := range swathTestCases {
		got := l1b.SwathNumbers(tc.mirror)
		if len(got) != len(tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
		for j := range got {
			if got[j] != tc.want[j] {
				t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
			}
		}
	}
}
