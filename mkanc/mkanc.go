package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/maven-iuvs/iuvs/anc"
	"github.com/maven-iuvs/iuvs/l1b"
)

const versionString = "mkanc version 0.2 Go source."
const copyrightString = "Public domain, Laboratory for Atmospheric and Space Physics."

type fatal struct {
	err error
}

func exit(err error) {
	panic(fatal{err})
}

func handleFatal() {
	if err := recover(); err != nil {
		if f, ok := err.(fatal); ok {
			log.Fatal(f.err)
		}
		panic(err)
	}
}

func main() {
	defer handleFatal()

	flag.Usage = func() {
		os.Stderr.WriteString(`Usage:
  mkanc [options]                     Synthesize a nominal ancillary set.
  mkanc [options] <calibration-file>  Build the set from a calibration FITS file.
  mkanc -v                            Display version and copyright.

Options:
  -o <output-file>  output path, default ` + anc.Afn + `
  -c <channel>      detector channel, default muv
  -n <spa>x<spe>    flat field binning when synthesizing, default 7x19

For full documentation:
   go doc github.com/maven-iuvs/iuvs/mkanc
`)
	}
	out := flag.String("o", anc.Afn, "output path")
	channel := flag.String("c", "muv", "detector channel")
	binning := flag.String("n", "7x19", "flat field binning")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	var s anc.Set
	if flag.NArg() == 1 {
		s = fromCal(flag.Arg(0), *channel)
	} else {
		nspat, nspec := parseBinning(*binning)
		var err error
		if s, err = anc.Default(*channel, nspat, nspec); err != nil {
			exit(err)
		}
	}

	fmt.Println("Writing", *out)
	if err := s.WriteFile(*out); err != nil {
		exit(err)
	}
	ff := s.Flatfield.Shape
	fmt.Printf("%s channel, %dx%d flat field, %d wavelengths %.1f-%.1f nm\n",
		s.Channel, ff[0], ff[1], len(s.Wavelengths),
		s.Wavelengths[0], s.Wavelengths[len(s.Wavelengths)-1])
}

func parseBinning(b string) (nspat, nspec int) {
	sa, se, ok := strings.Cut(b, "x")
	if ok {
		var err error
		if nspat, err = strconv.Atoi(sa); err == nil {
			if nspec, err = strconv.Atoi(se); err == nil {
				return
			}
		}
	}
	exit(fmt.Errorf("bad binning (%s), want <spa>x<spe>", b))
	return
}

// fromCal assembles the set from a calibration FITS file.  Extensions
// not present fall back to the corresponding nominal piece.
func fromCal(path, channel string) anc.Set {
	fmt.Println("Reading", path)
	f, err := os.Open(path)
	if err != nil {
		exit(err)
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			exit(err)
		}
		defer gz.Close()
		r = gz
	}
	fits, err := fitsio.Open(r)
	if err != nil {
		exit(err)
	}
	defer fits.Close()

	flat, shape := image2(fits, "FLATFIELD")
	if flat == nil {
		exit(fmt.Errorf("%s: no FLATFIELD extension", path))
	}
	nspat, nspec := shape[0], shape[1]
	s, err := anc.Default(channel, nspat, nspec)
	if err != nil {
		exit(err)
	}
	s.Flatfield = l1b.Cube{Data: flat, Shape: shape}
	if v := image1(fits, "WAVELENGTH"); v != nil {
		if len(v) != nspec {
			exit(fmt.Errorf("%s: %d wavelengths for %d spectral bins",
				path, len(v), nspec))
		}
		s.Wavelengths = v
	}
	if v := image1(fits, "PSF"); v != nil {
		s.PointSpread = v
	}
	if v := image1(fits, "SOLAR_FLUX"); v != nil {
		if len(v) != nspec {
			exit(fmt.Errorf("%s: %d solar flux values for %d spectral bins",
				path, len(v), nspec))
		}
		s.SolarFlux = v
	}
	return s
}

// locates an image extension by name, case insensitively.
func image(fits *fitsio.File, name string) fitsio.Image {
	for _, hdu := range fits.HDUs() {
		if img, ok := hdu.(fitsio.Image); ok &&
			strings.EqualFold(hdu.Name(), name) {
			return img
		}
	}
	return nil
}

func readImage(img fitsio.Image) ([]float64, []int) {
	hdr := img.Header()
	ax := hdr.Axes()
	n := 1
	for _, a := range ax {
		n *= a
	}
	var data []float64
	switch hdr.Bitpix() {
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			exit(err)
		}
		data = make([]float64, n)
		for i, v := range raw {
			data[i] = float64(v)
		}
	case -64:
		data = make([]float64, n)
		if err := img.Read(&data); err != nil {
			exit(err)
		}
	default:
		exit(fmt.Errorf("BITPIX %d not supported", hdr.Bitpix()))
	}
	return data, ax
}

// image2 reads a two axis extension, returning data with the spatial
// axis first.  FITS stores the spectral axis first.
func image2(fits *fitsio.File, name string) ([]float64, []int) {
	img := image(fits, name)
	if img == nil {
		return nil, nil
	}
	data, ax := readImage(img)
	if len(ax) != 2 {
		exit(fmt.Errorf("%s: %d axes, want 2", name, len(ax)))
	}
	return data, []int{ax[1], ax[0]}
}

func image1(fits *fitsio.File, name string) []float64 {
	img := image(fits, name)
	if img == nil {
		return nil
	}
	data, ax := readImage(img)
	if len(ax) != 1 {
		exit(fmt.Errorf("%s: %d axes, want 1", name, len(ax)))
	}
	return data
}
