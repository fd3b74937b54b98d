// Public domain.

package l1b_test

import (
	"testing"
	"time"

	"github.com/maven-iuvs/iuvs/internal/synth"
	"github.com/maven-iuvs/iuvs/l1b"
)

func TestTrackRms(t *testing.T) {
	dir := t.TempDir()
	f, err := l1b.Open(writeSwath(t, dir, synth.Nominal(3453, 110)))
	if err != nil {
		t.Fatal(err)
	}
	rms, err := f.TrackRms()
	if err != nil {
		t.Fatal(err)
	}
	// a synthetic boresight rides a great circle at constant rate
	if rms.Sec() > .5 {
		t.Fatal("clean track rms, arcsec:", rms.Sec())
	}

	p := synth.Nominal(3453, 111)
	p.Time = p.Time.Add(10 * time.Minute)
	p.JitterSec = 20
	g, err := l1b.Open(writeSwath(t, dir, p))
	if err != nil {
		t.Fatal(err)
	}
	rj, err := g.TrackRms()
	if err != nil {
		t.Fatal(err)
	}
	if rj.Sec() < 1 {
		t.Fatal("jittered track rms, arcsec:", rj.Sec())
	}
	if rj.Sec() <= rms.Sec() {
		t.Fatal("jitter should raise the rms")
	}
}

func TestTrackRmsShort(t *testing.T) {
	f := &l1b.File{}
	f.Dims.NIntegration = 1
	if _, err := f.TrackRms(); err == nil {
		t.Fatal("no error for a single integration")
	}
}
