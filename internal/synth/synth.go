// Public domain.

// Package synth writes synthetic level 1b swath files.  The swathgen
// command generates test data trees with it, and package tests build
// fixtures the same way.  A synthetic file carries all four HDUs of a
// real product with plausible geometry, so everything downstream of
// Open works on it.
package synth

import (
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/astrogo/fitsio"
	"github.com/soniakeys/meeus/v3/julian"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/maven-iuvs/iuvs/anc"
	"github.com/maven-iuvs/iuvs/finder"
	"github.com/maven-iuvs/iuvs/fname"
	"github.com/maven-iuvs/iuvs/l1b"
)

// Params describes one synthetic swath file.  Write validates the
// fields it needs; there are no implicit defaults.
type Params struct {
	Orbit     int
	Segment   string
	Channel   string
	Time      time.Time // observation start, UTC
	NInt      int       // integrations, at least 2
	NSpatial  int
	NSpectral int     // at least 2
	Cadence   float64 // seconds between integrations
	Relay     bool    // sweep the full mirror range, exactly
	Dayside   bool
	JitterSec float64 // pointing jitter, arc seconds rms
	Version   int
	Revision  int
	Gzip      bool
	Seed      uint64
}

// Nominal returns parameters for a typical dayside apoapse swath.
func Nominal(orbit int, seed uint64) Params {
	return Params{
		Orbit:     orbit,
		Segment:   "apoapse",
		Channel:   "muv",
		Time:      time.Date(2016, 7, 8, 5, 13, 56, 0, time.UTC),
		NInt:      24,
		NSpatial:  7,
		NSpectral: 12,
		Cadence:   1,
		Dayside:   true,
		Version:   13,
		Revision:  1,
		Seed:      seed,
	}
}

// Name returns the product file name for p.
func (p Params) Name() fname.Filename {
	return fname.Filename{
		Spacecraft: "mvn",
		Instrument: "iuv",
		Level:      "l1b",
		Segment:    p.Segment,
		Orbit:      p.Orbit,
		Channel:    p.Channel,
		Time:       p.Time,
		Version:    p.Version,
		Revision:   p.Revision,
		Gzipped:    p.Gzip,
	}
}

func (p Params) check() error {
	switch {
	case p.Orbit < 0:
		return fmt.Errorf("synth: negative orbit %d", p.Orbit)
	case p.Segment == "":
		return fmt.Errorf("synth: no segment")
	case p.Time.IsZero():
		return fmt.Errorf("synth: no observation time")
	case p.NInt < 2:
		return fmt.Errorf("synth: %d integrations, want at least 2", p.NInt)
	case p.NSpatial < 1 || p.NSpectral < 2:
		return fmt.Errorf("synth: bad binning %dx%d", p.NSpatial, p.NSpectral)
	case p.Cadence <= 0:
		return fmt.Errorf("synth: cadence %g", p.Cadence)
	}
	_, _, err := anc.Passband(p.Channel)
	return err
}

// WriteBlock writes the file into its orbit block directory under root,
// creating the directory as needed, and returns the file path.
func WriteBlock(root string, p Params) (string, error) {
	dir := finder.BlockPath(root, p.Orbit)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", err
	}
	return Write(dir, p)
}

// Write writes the file into dir and returns its path.
func Write(dir string, p Params) (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	path := filepath.Join(dir, p.Name().String())
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if p.Gzip {
		zw := gzip.NewWriter(f)
		if err = writeFits(zw, p); err == nil {
			err = zw.Close()
		}
	} else {
		err = writeFits(f, p)
	}
	if err != nil {
		f.Close()
		return "", fmt.Errorf("%s: %v", path, err)
	}
	return path, f.Close()
}

// swath holds the generated arrays before they are encoded.
type swath struct {
	p         Params
	et        []float64 // s past J2000
	sclk      []float64
	utc       []string
	mirror    []float64 // deg
	mirrorDN  []int32
	boreRA    []float64 // deg, per integration, middle bin center
	boreDec   []float64
	wav       []float64 // nm
	rnd       *xrand.Rand
}

func generate(p Params) (*swath, error) {
	s := &swath{p: p}
	s.rnd = xrand.New(&xrand.PCGSource{})
	s.rnd.Seed(p.Seed)

	j2000 := julian.CalendarGregorianToJD(2000, 1, 1.5)
	et0 := (julian.TimeToJD(p.Time) - j2000) * 86400
	s.et = make([]float64, p.NInt)
	s.sclk = make([]float64, p.NInt)
	s.utc = make([]string, p.NInt)
	for i := range s.et {
		dt := float64(i) * p.Cadence
		s.et[i] = et0 + dt
		s.sclk[i] = float64(p.Time.Unix()) + dt
		s.utc[i] = p.Time.Add(time.Duration(dt * float64(time.Second))).
			UTC().Format("2006-01-02T15:04:05.000")
	}

	s.mirror = make([]float64, p.NInt)
	if p.Relay {
		// a relay sweep reaches both mechanical bounds exactly
		floats.Span(s.mirror, l1b.MinMirrorDeg, l1b.MaxMirrorDeg)
	} else {
		lo := l1b.MinMirrorDeg + 2 + 8*s.rnd.Float64()
		hi := lo + 4 + 8*s.rnd.Float64()
		if hi > l1b.MaxMirrorDeg-1 {
			hi = l1b.MaxMirrorDeg - 1
		}
		floats.Span(s.mirror, lo, hi)
	}
	s.mirrorDN = make([]int32, p.NInt)
	span := l1b.MaxMirrorDeg - l1b.MinMirrorDeg
	for i, m := range s.mirror {
		s.mirrorDN[i] = int32((m - l1b.MinMirrorDeg) / span * 65535)
	}

	// The boresight rides the mirror sweep along a great circle on the
	// celestial equator, one degree of sky per degree of mirror, plus
	// any requested jitter.
	s.boreRA = make([]float64, p.NInt)
	s.boreDec = make([]float64, p.NInt)
	ra0 := 360 * s.rnd.Float64()
	for i, m := range s.mirror {
		s.boreRA[i] = math.Mod(ra0+m-l1b.MinMirrorDeg+360, 360)
		if p.JitterSec > 0 {
			s.boreDec[i] = p.JitterSec / 3600 * s.rnd.NormFloat64()
		}
	}

	def, err := anc.Default(p.Channel, p.NSpatial, p.NSpectral)
	if err != nil {
		return nil, err
	}
	s.wav = def.Wavelengths
	return s, nil
}

func writeFits(w io.Writer, p Params) error {
	s, err := generate(p)
	if err != nil {
		return err
	}
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()
	if err = s.writePrimary(fits); err != nil {
		return err
	}
	if err = s.writeIntegration(fits); err != nil {
		return err
	}
	if err = s.writePixelGeometry(fits); err != nil {
		return err
	}
	return s.writeObservation(fits)
}

func (s *swath) writePrimary(fits *fitsio.File) error {
	p := s.p
	img := fitsio.NewImage(-32, []int{p.NSpectral, p.NSpatial, p.NInt})
	defer img.Close()
	err := img.Header().Append(
		fitsio.Card{Name: "BUNIT", Value: "KR", Comment: "calibrated brightness"},
		fitsio.Card{Name: "CAPTURE", Value: p.Time.UTC().Format("2006-01-02T15:04:05")},
	)
	if err != nil {
		return err
	}
	base := .3 // nightglow level, kR
	if p.Dayside {
		base = 5
	}
	data := make([]float32, p.NInt*p.NSpatial*p.NSpectral)
	x := 0
	for i := 0; i < p.NInt; i++ {
		for j := 0; j < p.NSpatial; j++ {
			for k := 0; k < p.NSpectral; k++ {
				shape := .5 + .5*math.Sin(math.Pi*float64(k)/float64(p.NSpectral-1))
				data[x] = float32(base*shape + .1*s.rnd.Float64())
				x++
			}
		}
	}
	if err = img.Write(data); err != nil {
		return err
	}
	return fits.Write(img)
}

func (s *swath) writeIntegration(fits *fitsio.File) error {
	tbl, err := fitsio.NewTable("integration", []fitsio.Column{
		{Name: "TIMESTAMP", Format: "D", Unit: "s"},
		{Name: "ET", Format: "D", Unit: "s"},
		{Name: "UTC", Format: "24A"},
		{Name: "MIRROR_DN", Format: "J"},
		{Name: "MIRROR_DEG", Format: "D", Unit: "deg"},
		{Name: "FOV_DEG", Format: "D", Unit: "deg"},
		{Name: "DET_TEMP_C", Format: "D", Unit: "degC"},
		{Name: "CASE_TEMP_C", Format: "D", Unit: "degC"},
	}, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}
	defer tbl.Close()
	for i := 0; i < s.p.NInt; i++ {
		row := struct {
			Timestamp float64 `fits:"TIMESTAMP"`
			ET        float64 `fits:"ET"`
			UTC       string  `fits:"UTC"`
			MirrorDN  int32   `fits:"MIRROR_DN"`
			MirrorDeg float64 `fits:"MIRROR_DEG"`
			FOVDeg    float64 `fits:"FOV_DEG"`
			DetTempC  float64 `fits:"DET_TEMP_C"`
			CaseTempC float64 `fits:"CASE_TEMP_C"`
		}{
			Timestamp: s.sclk[i],
			ET:        s.et[i],
			UTC:       s.utc[i],
			MirrorDN:  s.mirrorDN[i],
			MirrorDeg: s.mirror[i],
			FOVDeg:    l1b.AngularSlitWidth.Deg(),
			DetTempC:  -21 + s.rnd.Float64(),
			CaseTempC: -18 + s.rnd.Float64(),
		}
		if err = tbl.Write(&row); err != nil {
			return err
		}
	}
	return fits.Write(tbl)
}

func (s *swath) writePixelGeometry(fits *fitsio.File) error {
	p := s.p
	nc := p.NSpatial * l1b.NumCorners
	// fitsio pairs slice valued row fields with variable length
	// array columns, format P rather than a fixed repeat count.
	tbl, err := fitsio.NewTable("pixelgeometry", []fitsio.Column{
		{Name: "PIXEL_CORNER_RA", Format: "PD", Unit: "deg"},
		{Name: "PIXEL_CORNER_DEC", Format: "PD", Unit: "deg"},
		{Name: "PIXEL_CORNER_LAT", Format: "PD", Unit: "deg"},
		{Name: "PIXEL_CORNER_LON", Format: "PD", Unit: "deg"},
		{Name: "PIXEL_CORNER_MRH_ALT", Format: "PD", Unit: "km"},
		{Name: "PIXEL_SOLAR_ZENITH_ANGLE", Format: "PD", Unit: "deg"},
		{Name: "PIXEL_EMISSION_ANGLE", Format: "PD", Unit: "deg"},
		{Name: "PIXEL_PHASE_ANGLE", Format: "PD", Unit: "deg"},
		{Name: "PIXEL_LOCAL_TIME", Format: "PD", Unit: "h"},
	}, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}
	defer tbl.Close()

	// across-slit angular size of one spatial bin
	binDeg := l1b.AngularSlitWidth.Deg() / float64(p.NSpatial)
	// along-scan angular size of one integration
	stepDeg := math.Abs(s.mirror[len(s.mirror)-1]-s.mirror[0]) /
		float64(p.NInt-1)
	if stepDeg == 0 {
		stepDeg = binDeg
	}
	szaBase := 120. // nightside
	lt := 2.3
	if p.Dayside {
		szaBase = 28
		lt = 12.4
	}
	mid := float64(p.NSpatial-1) / 2
	for i := 0; i < p.NInt; i++ {
		row := struct {
			CornerRA    []float64 `fits:"PIXEL_CORNER_RA"`
			CornerDec   []float64 `fits:"PIXEL_CORNER_DEC"`
			CornerLat   []float64 `fits:"PIXEL_CORNER_LAT"`
			CornerLon   []float64 `fits:"PIXEL_CORNER_LON"`
			TangentAlt  []float64 `fits:"PIXEL_CORNER_MRH_ALT"`
			SolarZenith []float64 `fits:"PIXEL_SOLAR_ZENITH_ANGLE"`
			Emission    []float64 `fits:"PIXEL_EMISSION_ANGLE"`
			Phase       []float64 `fits:"PIXEL_PHASE_ANGLE"`
			LocalTime   []float64 `fits:"PIXEL_LOCAL_TIME"`
		}{
			CornerRA:    make([]float64, nc),
			CornerDec:   make([]float64, nc),
			CornerLat:   make([]float64, nc),
			CornerLon:   make([]float64, nc),
			TangentAlt:  make([]float64, nc),
			SolarZenith: make([]float64, p.NSpatial),
			Emission:    make([]float64, p.NSpatial),
			Phase:       make([]float64, p.NSpatial),
			LocalTime:   make([]float64, p.NSpatial),
		}
		lat := 2.2 * (s.mirror[i] - 45)
		for j := 0; j < p.NSpatial; j++ {
			dec := (float64(j) - mid) * binDeg
			lon := math.Mod(164+dec, 360)
			for k := 0; k < l1b.NumCorners; k++ {
				// four corners offset from the center, center last
				var dra, ddec float64
				switch k {
				case 0:
					dra, ddec = -stepDeg/2, -binDeg/2
				case 1:
					dra, ddec = stepDeg/2, -binDeg/2
				case 2:
					dra, ddec = -stepDeg/2, binDeg/2
				case 3:
					dra, ddec = stepDeg/2, binDeg/2
				}
				x := j*l1b.NumCorners + k
				row.CornerRA[x] = math.Mod(s.boreRA[i]+dra+360, 360)
				row.CornerDec[x] = s.boreDec[i] + dec + ddec
				row.CornerLat[x] = lat + ddec
				row.CornerLon[x] = math.Mod(lon+dra+360, 360)
				row.TangentAlt[x] = 8 * s.rnd.Float64()
			}
			row.SolarZenith[j] = szaBase + dec
			row.Emission[j] = math.Abs(dec) * 6
			row.Phase[j] = 47 + dec
			row.LocalTime[j] = lt + dec/15
		}
		if err = tbl.Write(&row); err != nil {
			return err
		}
	}
	return fits.Write(tbl)
}

func (s *swath) writeObservation(fits *fitsio.File) error {
	p := s.p
	tbl, err := fitsio.NewTable("observation", []fitsio.Column{
		{Name: "PRODUCT_ID", Format: "64A"},
		{Name: "ORBIT_NUMBER", Format: "J"},
		{Name: "SOLAR_LONGITUDE", Format: "D", Unit: "deg"},
		{Name: "INT_TIME", Format: "D", Unit: "s"},
		{Name: "CHANNEL", Format: "8A"},
		{Name: "MCP_VOLT", Format: "D", Unit: "V"},
		{Name: "MCP_GAIN", Format: "D"},
		{Name: "CADENCE", Format: "D", Unit: "s"},
		{Name: "DUTY_CYCLE", Format: "D"},
		{Name: "SPA_SIZE", Format: "J"},
		{Name: "SPE_SIZE", Format: "J"},
		{Name: "WAVELENGTH", Format: "PD", Unit: "nm"},
		{Name: "WAVELENGTH_WIDTH", Format: "PD", Unit: "nm"},
	}, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}
	defer tbl.Close()
	volt, gain := 560., 40.
	if !p.Dayside {
		volt, gain = 900., 980.
	}
	ww := make([]float64, p.NSpectral)
	for i := range ww {
		ww[i] = (s.wav[len(s.wav)-1] - s.wav[0]) / float64(p.NSpectral-1)
	}
	name := p.Name()
	row := struct {
		ProductID       string    `fits:"PRODUCT_ID"`
		OrbitNumber     int32     `fits:"ORBIT_NUMBER"`
		SolarLongitude  float64   `fits:"SOLAR_LONGITUDE"`
		IntTime         float64   `fits:"INT_TIME"`
		Channel         string    `fits:"CHANNEL"`
		MCPVolt         float64   `fits:"MCP_VOLT"`
		MCPGain         float64   `fits:"MCP_GAIN"`
		Cadence         float64   `fits:"CADENCE"`
		DutyCycle       float64   `fits:"DUTY_CYCLE"`
		SpaSize         int32     `fits:"SPA_SIZE"`
		SpeSize         int32     `fits:"SPE_SIZE"`
		Wavelength      []float64 `fits:"WAVELENGTH"`
		WavelengthWidth []float64 `fits:"WAVELENGTH_WIDTH"`
	}{
		ProductID:       name.ProductID(),
		OrbitNumber:     int32(p.Orbit),
		SolarLongitude:  math.Mod(float64(p.Orbit)*.54, 360),
		IntTime:         p.Cadence * .9,
		Channel:         p.Channel,
		MCPVolt:         volt,
		MCPGain:         gain,
		Cadence:         p.Cadence,
		DutyCycle:       .9,
		SpaSize:         int32(1024 / p.NSpatial),
		SpeSize:         int32(1024 / p.NSpectral),
		Wavelength:      s.wav,
		WavelengthWidth: ww,
	}
	if err = tbl.Write(&row); err != nil {
		return err
	}
	return fits.Write(tbl)
}
