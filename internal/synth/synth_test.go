// Public domain.

package synth_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/maven-iuvs/iuvs/anc"
	"github.com/maven-iuvs/iuvs/fname"
	"github.com/maven-iuvs/iuvs/internal/synth"
	"github.com/maven-iuvs/iuvs/l1b"
)

func TestWriteName(t *testing.T) {
	p := synth.Nominal(3453, 1)
	path, err := synth.Write(t.TempDir(), p)
	if err != nil {
		t.Fatal(err)
	}
	fn, err := fname.Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if fn.String() != p.Name().String() {
		t.Fatalf("wrote %s, want %s", fn, p.Name())
	}
}

func TestWriteBlock(t *testing.T) {
	root := t.TempDir()
	path, err := synth.WriteBlock(root, synth.Nominal(3453, 2))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != filepath.Join(root, "orbit03400") {
		t.Fatal("block dir:", path)
	}
}

// Vector columns must round trip with the lengths and values written.
func TestVectorColumns(t *testing.T) {
	p := synth.Nominal(3453, 3)
	p.NSpatial = 5
	p.NSpectral = 19
	path, err := synth.Write(t.TempDir(), p)
	if err != nil {
		t.Fatal(err)
	}
	f, err := l1b.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	w := f.Observation.Wavelength
	if len(w) != p.NSpectral {
		t.Fatalf("%d wavelengths, want %d", len(w), p.NSpectral)
	}
	lo, hi, err := anc.Passband(p.Channel)
	if err != nil {
		t.Fatal(err)
	}
	if w[0] != lo || w[len(w)-1] != hi {
		t.Fatalf("wavelengths %g-%g, want %g-%g", w[0], w[len(w)-1], lo, hi)
	}
	g := &f.PixelGeometry
	if n := p.NInt * p.NSpatial * l1b.NumCorners; g.CornerRA.Len() != n {
		t.Fatalf("corner cube of %d values, want %d", g.CornerRA.Len(), n)
	}
	for _, ra := range g.CornerRA.Data {
		if ra < 0 || ra >= 360 {
			t.Fatal("corner RA out of range:", ra)
		}
	}
	if n := p.NInt * p.NSpatial; g.LocalTime.Len() != n {
		t.Fatalf("local time cube of %d values, want %d", g.LocalTime.Len(), n)
	}
}

func TestParamsCheck(t *testing.T) {
	for i, breakone := range []func(*synth.Params){
		func(p *synth.Params) { p.Orbit = -1 },
		func(p *synth.Params) { p.Segment = "" },
		func(p *synth.Params) { p.Time = time.Time{} },
		func(p *synth.Params) { p.NInt = 1 },
		func(p *synth.Params) { p.NSpectral = 1 },
		func(p *synth.Params) { p.Cadence = 0 },
		func(p *synth.Params) { p.Channel = "xuv" },
	} {
		p := synth.Nominal(3453, 1)
		breakone(&p)
		if _, err := synth.Write(t.TempDir(), p); err == nil {
			t.Fatal("bad parameter case", i, "should fail")
		}
	}
}
