// Public domain.

package l1b

import (
	"fmt"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/lmfit"
	"github.com/soniakeys/unit"
)

// TrackRms fits the boresight sky track of the swath against linear
// great circle motion and returns the rms of residuals.  The boresight
// here is the pixel center of the middle spatial bin.  A mirror sweep
// carries the boresight along a near great circle, so a low rms is a
// quick check that the pointing and geometry of the file are sound.
//
// An error is returned for fewer than two integrations, for non
// increasing integration times, and for a motionless boresight.
func (f *File) TrackRms() (unit.Angle, error) {
	nint := f.Dims.NIntegration
	if nint < 2 {
		return 0, fmt.Errorf("TrackRms: %d integrations, want at least 2", nint)
	}
	mid := f.Dims.NSpatial / 2
	t := make([]float64, nint)
	s := make(coord.EquaS, nint)
	et := f.Integration.ET
	for i := 0; i < nint; i++ {
		if i > 0 && et[i] <= et[i-1] {
			return 0, fmt.Errorf("TrackRms: integration times not increasing")
		}
		t[i] = (et[i] - et[0]) / 86400
		s[i] = coord.Equa{
			RA:  unit.RAFromDeg(f.PixelGeometry.CornerRA.At(i, mid, Center)),
			Dec: unit.AngleFromDeg(f.PixelGeometry.CornerDec.At(i, mid, Center)),
		}
	}
	if s[0].RA == s[nint-1].RA && s[0].Dec == s[nint-1].Dec {
		return 0, fmt.Errorf("TrackRms: no boresight motion")
	}
	return lmfit.New(t, s).Rms(), nil
}
