package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/maven-iuvs/iuvs/l1b"
)

const parentImport = "github.com/maven-iuvs/iuvs"
const versionString = "fitshdr version 0.1"
const copyrightString = "Public domain, Laboratory for Atmospheric and Space Physics."

var cards bool
var geom bool

func main() {
	// parse command line
	flag.Usage = func() {
		os.Stderr.WriteString(
			"Usage: fitshdr [options] <fits-file> ...\n")
		flag.PrintDefaults()
		os.Stderr.WriteString(`
For full documentation:
   go doc ` + parentImport + `/fitshdr
`)
	}
	flag.BoolVar(&cards, "k", false, "print all header cards")
	flag.BoolVar(&geom, "g", false,
		"print mid-swath boresight (level 1b products only)")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	for i, path := range flag.Args() {
		if i > 0 {
			fmt.Println()
		}
		if err := report(path); err != nil {
			log.Fatalln(err)
		}
	}
}

// report lists the HDUs of a single file.
func report(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}
	fits, err := fitsio.Open(r)
	if err != nil {
		return err
	}
	defer fits.Close()
	fmt.Println(path)
	for i, hdu := range fits.HDUs() {
		switch h := hdu.(type) {
		case *fitsio.Table:
			fmt.Printf("%3d  table  %-15s %4d rows %3d cols\n",
				i, h.Name(), h.NumRows(), h.NumCols())
		case fitsio.Image:
			hdr := h.Header()
			fmt.Printf("%3d  image  %-15s bitpix %3d  axes %v\n",
				i, h.Name(), hdr.Bitpix(), hdr.Axes())
		default:
			fmt.Printf("%3d  %T\n", i, hdu)
		}
		if cards {
			hdr := hdu.Header()
			for _, key := range hdr.Keys() {
				c := hdr.Get(key)
				if c == nil {
					continue
				}
				fmt.Printf("       %-8s= %-20v / %s\n",
					c.Name, c.Value, c.Comment)
			}
		}
	}
	if geom {
		return boresight(path)
	}
	return nil
}

// boresight reports where the slit center pointed over the swath.
func boresight(path string) error {
	f, err := l1b.Open(path)
	if err != nil {
		return err
	}
	ms := f.Dims.NSpatial / 2
	for _, mi := range []int{0, f.Dims.NIntegration - 1} {
		g := &f.PixelGeometry
		ra := unit.RAFromDeg(g.CornerRA.At(mi, ms, l1b.Center))
		dec := unit.AngleFromDeg(g.CornerDec.At(mi, ms, l1b.Center))
		fmt.Printf("integration %4d:  %v %v  lat %7.2f  lon %7.2f\n",
			mi, sexa.FmtRA(ra), sexa.FmtAngle(dec),
			g.CornerLat.At(mi, ms, l1b.Center),
			g.CornerLon.At(mi, ms, l1b.Center))
	}
	return nil
}
