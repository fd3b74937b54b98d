// Public domain.

package l1b_test

import (
	"testing"
	"time"

	"github.com/maven-iuvs/iuvs/finder"
	"github.com/maven-iuvs/iuvs/internal/synth"
	"github.com/maven-iuvs/iuvs/l1b"
)

// orbitFiles writes and opens n consecutive swaths of one orbit, five
// minutes apart, returning them in time order.
func orbitFiles(t *testing.T, dir string, p synth.Params, n int) []*l1b.File {
	t.Helper()
	files := make([]*l1b.File, n)
	for i := range files {
		q := p
		q.Time = p.Time.Add(time.Duration(i) * 5 * time.Minute)
		q.Seed = p.Seed + uint64(i)
		f, err := l1b.Open(writeSwath(t, dir, q))
		if err != nil {
			t.Fatal(err)
		}
		files[i] = f
	}
	return files
}

func TestNewCollection(t *testing.T) {
	files := orbitFiles(t, t.TempDir(), synth.Nominal(3453, 20), 3)
	// order of the argument slice must not matter
	c, err := l1b.NewCollection([]*l1b.File{files[2], files[0], files[1]})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Files) != 3 {
		t.Fatal("Files:", len(c.Files))
	}
	for i := 1; i < len(c.Files); i++ {
		if !c.Files[i-1].Name.Time.Before(c.Files[i].Name.Time) {
			t.Fatal("collection should be in time order")
		}
	}
	if c.NIntegrations() != 3*24 {
		t.Fatal("NIntegrations:", c.NIntegrations())
	}
}

func TestNewCollectionEmpty(t *testing.T) {
	if _, err := l1b.NewCollection(nil); err == nil {
		t.Fatal("no error for an empty collection")
	}
}

func TestNewCollectionBinning(t *testing.T) {
	dir := t.TempDir()
	a := synth.Nominal(3453, 30)
	f, err := l1b.Open(writeSwath(t, dir, a))
	if err != nil {
		t.Fatal(err)
	}
	b := a
	b.Time = a.Time.Add(5 * time.Minute)
	b.NSpatial = 14
	g, err := l1b.Open(writeSwath(t, dir, b))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = l1b.NewCollection([]*l1b.File{f, g}); err == nil {
		t.Fatal("no error for mismatched binning")
	}
}

func TestStack(t *testing.T) {
	files := orbitFiles(t, t.TempDir(), synth.Nominal(3453, 40), 3)
	c, err := l1b.NewCollection(files)
	if err != nil {
		t.Fatal(err)
	}
	sp := c.StackPrimary()
	switch {
	case len(sp.Shape) != 3:
		t.Fatal("Shape:", sp.Shape)
	case sp.Shape[0] != 72 || sp.Shape[1] != 7 || sp.Shape[2] != 12:
		t.Fatal("Shape:", sp.Shape)
	case sp.At(0, 0, 0) != files[0].Primary.At(0, 0, 0):
		t.Fatal("first file misaligned")
	case sp.At(48, 3, 5) != files[2].Primary.At(0, 3, 5):
		t.Fatal("third file misaligned")
	}
	lat := c.StackCornerLat()
	if lat.Shape[0] != 72 || lat.Shape[2] != l1b.NumCorners {
		t.Fatal("CornerLat shape:", lat.Shape)
	}
	sza := c.StackSolarZenith()
	if sza.Shape[0] != 72 || sza.Shape[1] != 7 {
		t.Fatal("SolarZenith shape:", sza.Shape)
	}
	md := c.StackMirrorDeg()
	switch {
	case len(md) != 72:
		t.Fatal("StackMirrorDeg:", len(md))
	case md[24] != files[1].Integration.MirrorDeg[0]:
		t.Fatal("second file misaligned")
	}
	et := c.StackET()
	if len(et) != 72 {
		t.Fatal("StackET:", len(et))
	}
}

func TestRelayReductions(t *testing.T) {
	dir := t.TempDir()
	p := synth.Nominal(7020, 50)
	p.Relay = true
	relays := orbitFiles(t, dir, p, 2)
	q := synth.Nominal(7020, 60)
	q.Time = q.Time.Add(time.Hour)
	plain, err := l1b.Open(writeSwath(t, dir, q))
	if err != nil {
		t.Fatal(err)
	}

	c, err := l1b.NewCollection(relays)
	if err != nil {
		t.Fatal(err)
	}
	if !c.AllRelay() || !c.AnyRelay() {
		t.Fatal("all relay collection")
	}
	c, err = l1b.NewCollection([]*l1b.File{relays[0], plain})
	if err != nil {
		t.Fatal(err)
	}
	if c.AllRelay() || !c.AnyRelay() {
		t.Fatal("mixed collection")
	}
	c, err = l1b.NewCollection([]*l1b.File{plain})
	if err != nil {
		t.Fatal(err)
	}
	if c.AllRelay() || c.AnyRelay() {
		t.Fatal("no relay collection")
	}
}

func TestCollectionSwaths(t *testing.T) {
	p := synth.Nominal(7020, 70)
	p.Relay = true
	files := orbitFiles(t, t.TempDir(), p, 3)
	c, err := l1b.NewCollection(files)
	if err != nil {
		t.Fatal(err)
	}
	// each file sweeps the full range, so each flyback starts a swath
	nums := c.SwathNumbers()
	switch {
	case len(nums) != 72:
		t.Fatal("SwathNumbers:", len(nums))
	case nums[0] != 0 || nums[23] != 0:
		t.Fatal("first file swath:", nums[0], nums[23])
	case nums[24] != 1 || nums[48] != 2:
		t.Fatal("later file swaths:", nums[24], nums[48])
	case c.SwathCount() != 3:
		t.Fatal("SwathCount:", c.SwathCount())
	}
}

func TestDaysideMask(t *testing.T) {
	dir := t.TempDir()
	day := synth.Nominal(3453, 80)
	f, err := l1b.Open(writeSwath(t, dir, day))
	if err != nil {
		t.Fatal(err)
	}
	night := day
	night.Time = day.Time.Add(30 * time.Minute)
	night.Dayside = false
	night.Seed = 81
	g, err := l1b.Open(writeSwath(t, dir, night))
	if err != nil {
		t.Fatal(err)
	}
	c, err := l1b.NewCollection([]*l1b.File{f, g})
	if err != nil {
		t.Fatal(err)
	}
	mask := c.DaysideMask()
	if len(mask) != 48 {
		t.Fatal("DaysideMask:", len(mask))
	}
	for i, day := range mask {
		if day != (i < 24) {
			t.Fatal("mask wrong at", i)
		}
	}
}

func TestTimes(t *testing.T) {
	files := orbitFiles(t, t.TempDir(), synth.Nominal(3453, 90), 3)
	c, err := l1b.NewCollection(files)
	if err != nil {
		t.Fatal(err)
	}
	jd := c.Times()
	if len(jd) != 72 {
		t.Fatal("Times:", len(jd))
	}
	for i := 1; i < len(jd); i++ {
		if jd[i] <= jd[i-1] {
			t.Fatal("times should increase, index", i)
		}
	}
	// fractional day between the first two files is close to five minutes
	if d := jd[24] - jd[0]; d < 4.9/1440 || d > 5.1/1440 {
		t.Fatal("file spacing, days:", d)
	}
}

func TestOpenCollectionFinder(t *testing.T) {
	root := t.TempDir()
	p := synth.Nominal(3453, 100)
	for i := 0; i < 3; i++ {
		q := p
		q.Time = p.Time.Add(time.Duration(i) * 5 * time.Minute)
		q.Seed = p.Seed + uint64(i)
		if _, err := synth.WriteBlock(root, q); err != nil {
			t.Fatal(err)
		}
	}
	// a stale version of the first observation must be passed over
	stale := p
	stale.Version = 12
	if _, err := synth.WriteBlock(root, stale); err != nil {
		t.Fatal(err)
	}
	// another channel must not be picked up
	fuv := p
	fuv.Channel = "fuv"
	if _, err := synth.WriteBlock(root, fuv); err != nil {
		t.Fatal(err)
	}

	paths, err := finder.FindOrbit(root, 3453, "apoapse", "muv")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatal("FindOrbit:", paths)
	}
	c, err := l1b.OpenCollection(paths)
	if err != nil {
		t.Fatal(err)
	}
	switch {
	case c.NIntegrations() != 72:
		t.Fatal("NIntegrations:", c.NIntegrations())
	case c.Files[0].Name.Version != 13:
		t.Fatal("stale version loaded:", c.Files[0].Name.Version)
	}
}
