// Public domain.

// Package l1b reads MAVEN/IUVS level 1b data products.
//
// A level 1b file holds one swath: a sequence of detector integrations
// taken as the instrument mirror sweeps its field of view.  The primary
// HDU is a cube of calibrated brightness, and binary table extensions
// named integration, pixelgeometry, and observation carry per
// integration engineering values, pixel geometry, and per observation
// settings.  Open loads all four fully into memory; a File has no open
// resources.
package l1b

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/maven-iuvs/iuvs/fname"
)

// Corner axis layout of geometry cubes: the four pixel corners,
// then the pixel center.
const (
	NumCorners = 5
	Center     = 4
)

// Dims gives the shape of a file's detector data.
type Dims struct {
	NIntegration int // integrations in the swath
	NSpatial     int // spatial bins along the slit
	NSpectral    int // spectral bins
}

// Integration holds the integration table, one element per integration.
type Integration struct {
	Timestamp []float64 // spacecraft clock, s
	ET        []float64 // ephemeris time, s
	UTC       []string
	MirrorDN  []int32
	MirrorDeg []float64 // scan mirror angle, degrees
	FOVDeg    []float64
	DetTempC  []float64
	CaseTempC []float64
}

// PixelGeometry holds the pixelgeometry table.  Corner cubes are shaped
// (integration, spatial, corner); the rest (integration, spatial).
// Angles are in degrees, altitudes in km, local time in Mars hours.
type PixelGeometry struct {
	CornerRA    Cube
	CornerDec   Cube
	CornerLat   Cube
	CornerLon   Cube
	TangentAlt  Cube
	SolarZenith Cube
	Emission    Cube
	Phase       Cube
	LocalTime   Cube
}

// Observation holds the single row observation table.
type Observation struct {
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
}

// File is one level 1b swath, fully loaded.
type File struct {
	Path          string
	Name          fname.Filename
	Dims          Dims
	Primary       Cube // brightness, kR, (integration, spatial, spectral)
	Integration   Integration
	PixelGeometry PixelGeometry
	Observation   Observation
}

// Open reads a level 1b file, plain or gzip compressed.  The file name
// must parse as an IUVS product name.  All HDUs are loaded into memory
// and the descriptor is closed before Open returns.
func Open(path string) (*File, error) {
	if err := fname.ValidatePath(path); err != nil {
		return nil, err
	}
	name, err := fname.Parse(path)
	if err != nil {
		return nil, err
	}
	osf, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer osf.Close()
	var r io.Reader = osf
	if name.Gzipped {
		gz, err := gzip.NewReader(osf)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", filepath.Base(path), err)
		}
		defer gz.Close()
		r = gz
	}
	return read(path, name, r)
}

func read(path string, name fname.Filename, r io.Reader) (*File, error) {
	base := filepath.Base(path)
	fits, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", base, err)
	}
	defer fits.Close()

	f := &File{Path: path, Name: name}
	if err = f.readPrimary(fits, base); err != nil {
		return nil, err
	}
	if err = f.readIntegration(fits, base); err != nil {
		return nil, err
	}
	if err = f.readPixelGeometry(fits, base); err != nil {
		return nil, err
	}
	if err = f.readObservation(fits, base); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) readPrimary(fits *fitsio.File, base string) error {
	img, ok := fits.HDU(0).(fitsio.Image)
	if !ok {
		return fmt.Errorf("%s: primary HDU is not an image", base)
	}
	hdr := img.Header()
	ax := hdr.Axes()
	if len(ax) != 3 {
		return fmt.Errorf("%s: primary has %d axes, want 3", base, len(ax))
	}
	// FITS order: the first axis varies fastest
	f.Dims = Dims{NIntegration: ax[2], NSpatial: ax[1], NSpectral: ax[0]}
	if f.Dims.NIntegration < 1 {
		return fmt.Errorf("%s: no integrations", base)
	}
	n := f.Dims.NIntegration * f.Dims.NSpatial * f.Dims.NSpectral
	f.Primary = Cube{
		Data:  make([]float64, n),
		Shape: []int{f.Dims.NIntegration, f.Dims.NSpatial, f.Dims.NSpectral},
	}
	switch hdr.Bitpix() {
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			return fmt.Errorf("%s: primary: %v", base, err)
		}
		for i, v := range raw {
			f.Primary.Data[i] = float64(v)
		}
	case -64:
		if err := img.Read(&f.Primary.Data); err != nil {
			return fmt.Errorf("%s: primary: %v", base, err)
		}
	default:
		return fmt.Errorf("%s: primary BITPIX %d not supported", base, hdr.Bitpix())
	}
	return nil
}

// table locates a binary table extension by name, case insensitively.
func table(fits *fitsio.File, name string) *fitsio.Table {
	for _, hdu := range fits.HDUs()[1:] {
		if tbl, ok := hdu.(*fitsio.Table); ok &&
			strings.EqualFold(tbl.Name(), name) {
			return tbl
		}
	}
	return nil
}

func (f *File) readIntegration(fits *fitsio.File, base string) error {
	tbl := table(fits, "integration")
	if tbl == nil {
		return fmt.Errorf("%s: no integration extension", base)
	}
	n := int(tbl.NumRows())
	if n != f.Dims.NIntegration {
		return fmt.Errorf("%s: integration table has %d rows, primary has %d integrations",
			base, n, f.Dims.NIntegration)
	}
	in := &f.Integration
	in.Timestamp = make([]float64, 0, n)
	in.ET = make([]float64, 0, n)
	in.UTC = make([]string, 0, n)
	in.MirrorDN = make([]int32, 0, n)
	in.MirrorDeg = make([]float64, 0, n)
	in.FOVDeg = make([]float64, 0, n)
	in.DetTempC = make([]float64, 0, n)
	in.CaseTempC = make([]float64, 0, n)
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return fmt.Errorf("%s: integration: %v", base, err)
	}
	defer rows.Close()
	for rows.Next() {
		var ir struct {
			Timestamp float64 `fits:"TIMESTAMP"`
			ET        float64 `fits:"ET"`
			UTC       string  `fits:"UTC"`
			MirrorDN  int32   `fits:"MIRROR_DN"`
			MirrorDeg float64 `fits:"MIRROR_DEG"`
			FOVDeg    float64 `fits:"FOV_DEG"`
			DetTempC  float64 `fits:"DET_TEMP_C"`
			CaseTempC float64 `fits:"CASE_TEMP_C"`
		}
		if err := rows.Scan(&ir); err != nil {
			return fmt.Errorf("%s: integration: %v", base, err)
		}
		in.Timestamp = append(in.Timestamp, ir.Timestamp)
		in.ET = append(in.ET, ir.ET)
		// character fields come back padded to the column width
		in.UTC = append(in.UTC, strings.TrimRight(ir.UTC, " "))
		in.MirrorDN = append(in.MirrorDN, ir.MirrorDN)
		in.MirrorDeg = append(in.MirrorDeg, ir.MirrorDeg)
		in.FOVDeg = append(in.FOVDeg, ir.FOVDeg)
		in.DetTempC = append(in.DetTempC, ir.DetTempC)
		in.CaseTempC = append(in.CaseTempC, ir.CaseTempC)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: integration: %v", base, err)
	}
	return nil
}

func (f *File) readPixelGeometry(fits *fitsio.File, base string) error {
	tbl := table(fits, "pixelgeometry")
	if tbl == nil {
		return fmt.Errorf("%s: no pixelgeometry extension", base)
	}
	nint, nspat := f.Dims.NIntegration, f.Dims.NSpatial
	if n := int(tbl.NumRows()); n != nint {
		return fmt.Errorf("%s: pixelgeometry table has %d rows, primary has %d integrations",
			base, n, nint)
	}
	pg := &f.PixelGeometry
	for _, c := range []*Cube{
		&pg.CornerRA, &pg.CornerDec, &pg.CornerLat, &pg.CornerLon, &pg.TangentAlt,
	} {
		*c = Cube{
			Data:  make([]float64, 0, nint*nspat*NumCorners),
			Shape: []int{nint, nspat, NumCorners},
		}
	}
	for _, c := range []*Cube{
		&pg.SolarZenith, &pg.Emission, &pg.Phase, &pg.LocalTime,
	} {
		*c = Cube{
			Data:  make([]float64, 0, nint*nspat),
			Shape: []int{nint, nspat},
		}
	}
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return fmt.Errorf("%s: pixelgeometry: %v", base, err)
	}
	defer rows.Close()
	for rows.Next() {
		var gr struct {
			CornerRA    []float64 `fits:"PIXEL_CORNER_RA"`
			CornerDec   []float64 `fits:"PIXEL_CORNER_DEC"`
			CornerLat   []float64 `fits:"PIXEL_CORNER_LAT"`
			CornerLon   []float64 `fits:"PIXEL_CORNER_LON"`
			TangentAlt  []float64 `fits:"PIXEL_CORNER_MRH_ALT"`
			SolarZenith []float64 `fits:"PIXEL_SOLAR_ZENITH_ANGLE"`
			Emission    []float64 `fits:"PIXEL_EMISSION_ANGLE"`
			Phase       []float64 `fits:"PIXEL_PHASE_ANGLE"`
			LocalTime   []float64 `fits:"PIXEL_LOCAL_TIME"`
		}
		if err := rows.Scan(&gr); err != nil {
			return fmt.Errorf("%s: pixelgeometry: %v", base, err)
		}
		for _, v := range []struct {
			c    *Cube
			val  []float64
			want int
		}{
			{&pg.CornerRA, gr.CornerRA, nspat * NumCorners},
			{&pg.CornerDec, gr.CornerDec, nspat * NumCorners},
			{&pg.CornerLat, gr.CornerLat, nspat * NumCorners},
			{&pg.CornerLon, gr.CornerLon, nspat * NumCorners},
			{&pg.TangentAlt, gr.TangentAlt, nspat * NumCorners},
			{&pg.SolarZenith, gr.SolarZenith, nspat},
			{&pg.Emission, gr.Emission, nspat},
			{&pg.Phase, gr.Phase, nspat},
			{&pg.LocalTime, gr.LocalTime, nspat},
		} {
			if len(v.val) != v.want {
				return fmt.Errorf("%s: pixelgeometry vector of %d values, want %d",
					base, len(v.val), v.want)
			}
			v.c.Data = append(v.c.Data, v.val...)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: pixelgeometry: %v", base, err)
	}
	return nil
}

func (f *File) readObservation(fits *fitsio.File, base string) error {
	tbl := table(fits, "observation")
	if tbl == nil {
		return fmt.Errorf("%s: no observation extension", base)
	}
	if n := tbl.NumRows(); n != 1 {
		return fmt.Errorf("%s: observation table has %d rows, want 1", base, n)
	}
	rows, err := tbl.Read(0, 1)
	if err != nil {
		return fmt.Errorf("%s: observation: %v", base, err)
	}
	defer rows.Close()
	if !rows.Next() {
		return fmt.Errorf("%s: observation: %v", base, rows.Err())
	}
	if err := rows.Scan(&f.Observation); err != nil {
		return fmt.Errorf("%s: observation: %v", base, err)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: observation: %v", base, err)
	}
	f.Observation.ProductID = strings.TrimRight(f.Observation.ProductID, " ")
	f.Observation.Channel = strings.TrimRight(f.Observation.Channel, " ")
	if n := len(f.Observation.Wavelength); n != f.Dims.NSpectral {
		return fmt.Errorf("%s: observation has %d wavelengths, primary has %d spectral bins",
			base, n, f.Dims.NSpectral)
	}
	return nil
}
