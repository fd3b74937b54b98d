// Public domain.

// Package finder locates IUVS data products on a local data tree.
//
// The standard tree groups files into orbit block directories of 100
// orbits, so that files of orbit 3453 live under orbit03400/.  Several
// processing versions of one observation may be present side by side;
// discovery always resolves to the latest.
package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/maven-iuvs/iuvs/fname"
)

// BlockSize is the number of orbits grouped into one block directory.
const BlockSize = 100

// Block returns the name of the block directory holding files of the
// given orbit, orbit03400 for orbit 3453 for example.
func Block(orbit int) string {
	return fname.OrbitLabel(orbit / BlockSize * BlockSize)
}

// BlockPath returns the block directory path for an orbit under root.
func BlockPath(root string, orbit int) string {
	return filepath.Join(root, Block(orbit))
}

// Glob returns the absolute paths of all entries under dir matching
// pattern, sorted lexicographically.  Matches that are not regular
// files are excluded.  Pattern uses filepath.Match syntax and is
// evaluated relative to dir.
func Glob(dir, pattern string) ([]string, error) {
	m, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, p := range m {
		fi, err := os.Stat(p)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, abs)
	}
	sort.Strings(paths)
	return paths, nil
}

// LatestVersions reduces paths to one per observation, keeping the
// highest version, then revision, where several processing versions of
// the same observation are present.  Paths that do not parse as product
// names are quietly ignored.  The result is ordered by observation time,
// then orbit, then path.
func LatestVersions(paths []string) []string {
	type prod struct {
		fn   fname.Filename
		path string
	}
	m := make(map[string]prod)
	for _, p := range paths {
		fn, err := fname.Parse(p)
		if err != nil {
			continue
		}
		s := fn.Stem()
		b, ok := m[s]
		switch {
		case !ok:
		case fn.Version != b.fn.Version:
			if fn.Version < b.fn.Version {
				continue
			}
		case fn.Revision != b.fn.Revision:
			if fn.Revision < b.fn.Revision {
				continue
			}
		case p < b.path:
			continue
		}
		m[s] = prod{fn, p}
	}
	r := make([]prod, 0, len(m))
	for _, b := range m {
		r = append(r, b)
	}
	sort.Slice(r, func(i, j int) bool {
		switch {
		case r[i].fn.Less(r[j].fn):
			return true
		case r[j].fn.Less(r[i].fn):
			return false
		}
		return r[i].path < r[j].path
	})
	out := make([]string, len(r))
	for i, b := range r {
		out[i] = b.path
	}
	return out
}

// OrbitPattern returns the glob pattern matching level 1b products of
// one orbit.  An empty segment or channel matches any.
func OrbitPattern(orbit int, segment, channel string) string {
	if segment == "" {
		segment = "*"
	}
	if channel == "" {
		channel = "*"
	}
	return fmt.Sprintf("mvn_iuv_l1b_%s-%s-%s_*.fits*",
		segment, fname.OrbitLabel(orbit), channel)
}

// FindOrbit returns the latest version product paths of one orbit.
// A missing block directory yields no files rather than an error, as
// gaps are a normal condition when surveying a range of orbits.
func FindOrbit(root string, orbit int, segment, channel string) ([]string, error) {
	paths, err := Glob(BlockPath(root, orbit),
		OrbitPattern(orbit, segment, channel))
	if err != nil {
		return nil, err
	}
	return LatestVersions(paths), nil
}

// FindOrbits returns latest version product paths for each listed orbit,
// concatenated in the order given.
func FindOrbits(root string, orbits []int, segment, channel string) ([]string, error) {
	var all []string
	for _, o := range orbits {
		p, err := FindOrbit(root, o, segment, channel)
		if err != nil {
			return nil, err
		}
		all = append(all, p...)
	}
	return all, nil
}

// FindOrbitRange returns latest version product paths for orbits first
// through last inclusive.
func FindOrbitRange(root string, first, last int, segment, channel string) ([]string, error) {
	if last < first {
		return nil, fmt.Errorf("FindOrbitRange: empty range %d-%d", first, last)
	}
	var all []string
	for o := first; o <= last; o++ {
		p, err := FindOrbit(root, o, segment, channel)
		if err != nil {
			return nil, err
		}
		all = append(all, p...)
	}
	return all, nil
}
