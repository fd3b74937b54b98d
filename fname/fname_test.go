package fname_test

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maven-iuvs/iuvs/fname"
)

var nameTestCases = []struct {
	in       string
	segment  string
	orbit    int
	channel  string
	time     string
	ver, rev int
	gz       bool
}{
	{"mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13_r01.fits.gz",
		"apoapse", 3453, "muv", "2016-07-08T05:13:56Z", 13, 1, true},
	{"mvn_iuv_l1b_periapse-orbit00335-fuv_20141218T123456_v02_r00.fits",
		"periapse", 335, "fuv", "2014-12-18T12:34:56Z", 2, 0, false},
	{"mvn_iuv_l1b_outbound-hifi-orbit12021-ech_20200801T000001_v13_r11.fits.gz",
		"outbound-hifi", 12021, "ech", "2020-08-01T00:00:01Z", 13, 11, true},
}

func TestParse(t *testing.T) {
	for _, c := range nameTestCases {
		fn, err := fname.Parse(c.in)
		if err != nil {
			t.Fatal(err)
		}
		want, _ := time.Parse(time.RFC3339, c.time)
		switch {
		case fn.Segment != c.segment:
			t.Fatal("bad segment for", c.in)
		case fn.Orbit != c.orbit:
			t.Fatal("bad orbit for", c.in)
		case fn.Channel != c.channel:
			t.Fatal("bad channel for", c.in)
		case !fn.Time.Equal(want):
			t.Fatal("bad time for", c.in)
		case fn.Version != c.ver || fn.Revision != c.rev:
			t.Fatal("bad version for", c.in)
		case fn.Gzipped != c.gz:
			t.Fatal("bad extension for", c.in)
		case fn.String() != c.in:
			t.Fatal("String not canonical for", c.in, "got", fn.String())
		}
	}
}

// Parse must also take a full path.
func TestParsePath(t *testing.T) {
	fn, err := fname.Parse(
		"/data/orbit03400/" + nameTestCases[0].in)
	if err != nil {
		t.Fatal(err)
	}
	if fn.Orbit != nameTestCases[0].orbit {
		t.Fatal("bad orbit from path")
	}
}

var badNameCases = []string{
	"",
	"mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13_r01",
	"mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13_r01.jpg",
	"mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13.fits",
	"mro_crism_l1b_apoapse-orbit03453-muv_20160708T051356_v13_r01.fits",
	"mvn_iuv_l1b_apoapse_20160708T051356_v13_r01.fits",
	"mvn_iuv_l1b_apoapse-orbit34A3-muv_20160708T051356_v13_r01.fits",
	"mvn_iuv_l1b_apoapse-orbit03453-muv_20161308T051356_v13_r01.fits",
	"mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_x13_r01.fits",
	"mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13_rxx.fits",
	"mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v-1_r01.fits",
	"mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13_r+2.fits",
}

func TestParseBad(t *testing.T) {
	for _, c := range badNameCases {
		if _, err := fname.Parse(c); err == nil {
			t.Fatal("error expected for", c)
		}
	}
}

func TestLess(t *testing.T) {
	a, err := fname.Parse(nameTestCases[1].in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := fname.Parse(nameTestCases[0].in)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Less(b) || b.Less(a) {
		t.Fatal("bad time order")
	}
	c := b
	c.Revision++
	if !b.Less(c) {
		t.Fatal("bad revision order")
	}
}

func TestValidatePath(t *testing.T) {
	d := t.TempDir()
	reg := filepath.Join(d, "a.fits")
	if err := os.WriteFile(reg, []byte("x"), 0666); err != nil {
		t.Fatal(err)
	}
	if err := fname.ValidatePath(reg); err != nil {
		t.Fatal(err)
	}
	err := fname.ValidatePath(filepath.Join(d, "missing.fits"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("want not-exist, got", err)
	}
	sub := filepath.Join(d, "b.fits")
	if err := os.Mkdir(sub, 0777); err != nil {
		t.Fatal(err)
	}
	if err := fname.ValidatePath(sub); !errors.Is(err, fname.ErrFormat) {
		t.Fatal("want format error for directory, got", err)
	}
	txt := filepath.Join(d, "c.txt")
	if err := os.WriteFile(txt, []byte("x"), 0666); err != nil {
		t.Fatal(err)
	}
	if err := fname.ValidatePath(txt); !errors.Is(err, fname.ErrFormat) {
		t.Fatal("want format error for extension, got", err)
	}
}

func ExampleParse() {
	fn, err := fname.Parse(
		"mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13_r01.fits.gz")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(fn.Segment, fn.Orbit, fn.Channel, fn.Version, fn.Revision)
	// Output: apoapse 3453 muv 13 1
}

func ExampleOrbitLabel() {
	fmt.Println(fname.OrbitLabel(3453))
	// Output: orbit03453
}
