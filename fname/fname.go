// Public domain.

// Package fname parses and validates MAVEN/IUVS data product file names.
package fname

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Layout of the time field of a product name.
const TimeLayout = "20060102T150405"

// ErrFormat indicates a path that exists but does not name a FITS
// product file.
var ErrFormat = errors.New("not a .fits or .fits.gz file")

// Filename holds the fields of an IUVS data product file name, for example
//
//	mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13_r01.fits.gz
//
// Fields are ordered as they appear in the name.  Segment may itself
// contain hyphens; the orbit and channel fields are always the last two
// hyphen separated fields of the description.
type Filename struct {
	Spacecraft string // mvn
	Instrument string // iuv
	Level      string // l1b for calibrated swath products
	Segment    string // observation segment, apoapse for example
	Orbit      int
	Channel    string // detector channel, muv for example
	Time       time.Time
	Version    int
	Revision   int
	Gzipped    bool
}

// Parse parses an IUVS product file name.  Argument name may be a bare
// file name or a path; any directory part is ignored.
func Parse(name string) (Filename, error) {
	var fn Filename
	base := filepath.Base(name)
	stem := base
	switch ext := Extension(base); ext {
	case ".fits":
		stem = base[:len(base)-len(ext)]
	case ".fits.gz":
		stem = base[:len(base)-len(ext)]
		fn.Gzipped = true
	default:
		return fn, fmt.Errorf("Parse: no FITS extension on (%s)", base)
	}
	f := strings.Split(stem, "_")
	if len(f) != 7 {
		return fn, fmt.Errorf("Parse: %d fields in (%s), want 7", len(f), base)
	}
	if f[0] != "mvn" || f[1] != "iuv" {
		return fn, fmt.Errorf("Parse: not an IUVS product (%s)", base)
	}
	fn.Spacecraft = f[0]
	fn.Instrument = f[1]
	fn.Level = f[2]

	d := strings.Split(f[3], "-")
	if len(d) < 3 {
		return fn, fmt.Errorf("Parse: invalid description (%s)", f[3])
	}
	ob := d[len(d)-2]
	if len(ob) != 10 || ob[:5] != "orbit" {
		return fn, fmt.Errorf("Parse: invalid orbit field (%s)", ob)
	}
	orbit, err := strconv.Atoi(ob[5:])
	if err != nil || orbit < 0 {
		return fn, fmt.Errorf("Parse: invalid orbit field (%s)", ob)
	}
	fn.Orbit = orbit
	fn.Channel = d[len(d)-1]
	fn.Segment = strings.Join(d[:len(d)-2], "-")

	t, err := time.Parse(TimeLayout, f[4])
	if err != nil {
		return fn, fmt.Errorf("Parse: invalid time (%s), %v", f[4], err)
	}
	fn.Time = t

	if fn.Version, err = field2(f[5], 'v'); err != nil {
		return fn, fmt.Errorf("Parse: invalid version (%s), %v", f[5], err)
	}
	if fn.Revision, err = field2(f[6], 'r'); err != nil {
		return fn, fmt.Errorf("Parse: invalid revision (%s), %v", f[6], err)
	}
	return fn, nil
}

// parses a prefixed two digit field, v13 or r01 for example.
func field2(s string, prefix byte) (int, error) {
	if len(s) < 2 || s[0] != prefix {
		return 0, fmt.Errorf("prefix %c expected", prefix)
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("digits expected after %c", prefix)
		}
	}
	return strconv.Atoi(s[1:])
}

// String reconstructs the canonical file name, including extension.
func (fn Filename) String() string {
	s := fn.ProductID() + ".fits"
	if fn.Gzipped {
		s += ".gz"
	}
	return s
}

// ProductID returns the file name without extension, as recorded in the
// PRODUCT_ID field of a product's observation HDU.
func (fn Filename) ProductID() string {
	return fn.Stem() + fmt.Sprintf("_v%02d_r%02d", fn.Version, fn.Revision)
}

// Stem returns the file name up to but not including the version field.
// Two product names with equal stems describe the same observation at
// possibly different processing versions.
func (fn Filename) Stem() string {
	return fmt.Sprintf("%s_%s_%s_%s-%s-%s_%s",
		fn.Spacecraft, fn.Instrument, fn.Level,
		fn.Segment, OrbitLabel(fn.Orbit), fn.Channel,
		fn.Time.Format(TimeLayout))
}

// Less orders product names by observation time, then orbit, then
// version and revision.
func (fn Filename) Less(f2 Filename) bool {
	switch {
	case !fn.Time.Equal(f2.Time):
		return fn.Time.Before(f2.Time)
	case fn.Orbit != f2.Orbit:
		return fn.Orbit < f2.Orbit
	case fn.Version != f2.Version:
		return fn.Version < f2.Version
	}
	return fn.Revision < f2.Revision
}

// OrbitLabel formats an orbit number as it appears in file and directory
// names, orbit03453 for example.
func OrbitLabel(orbit int) string {
	return fmt.Sprintf("orbit%05d", orbit)
}

// Extension returns ".fits" or ".fits.gz" as appropriate for path,
// or the empty string if path has neither extension.
func Extension(path string) string {
	switch {
	case strings.HasSuffix(path, ".fits"):
		return ".fits"
	case strings.HasSuffix(path, ".fits.gz"):
		return ".fits.gz"
	}
	return ""
}

// ValidatePath checks that path names an existing FITS product file.
//
// A path that does not stat returns the underlying error, which wraps
// fs.ErrNotExist for a missing file.  A path that exists but is not a
// regular file, or that lacks a FITS extension, returns an error
// wrapping ErrFormat.
func ValidatePath(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() || Extension(path) == "" {
		return fmt.Errorf("%s: %w", path, ErrFormat)
	}
	return nil
}

// SList lists the observation segments scheduled over the primary and
// extended missions.  The list is advisory.  Parse accepts segments not
// listed here, as new segment names have appeared over the mission.
var SList = []struct {
	Name, Heading string
}{
	{"apoapse", "Apoapsis disk scans"},
	{"periapse", "Periapsis limb scans"},
	{"inlimb", "Inbound limb scans"},
	{"outlimb", "Outbound limb scans"},
	{"indisk", "Inbound disk maps"},
	{"outdisk", "Outbound disk maps"},
	{"incorona", "Inbound corona scans"},
	{"outcorona", "Outbound corona scans"},
	{"early", "Early apoapse scans"},
	{"relay", "Relay pass scans"},
	{"occultation", "Stellar occultations"},
	{"centroid", "Star centroiding"},
}

// ChList lists the detector channels.
var ChList = []struct {
	Name, Heading string
}{
	{"muv", "Mid ultraviolet, 174-340 nm"},
	{"fuv", "Far ultraviolet, 110-190 nm"},
	{"ech", "Echelle, 116-131 nm"},
}

// KnownSegment reports whether s appears in SList.
func KnownSegment(s string) bool {
	for _, c := range SList {
		if c.Name == s {
			return true
		}
	}
	return false
}

// KnownChannel reports whether c appears in ChList.
func KnownChannel(c string) bool {
	for _, ch := range ChList {
		if ch.Name == c {
			return true
		}
	}
	return false
}
