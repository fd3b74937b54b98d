/*
Command mkanc prepares the ancillary calibration file for iuvs.

Installation

If you followed the standard instructions for installing iuvs from the
internet, mkanc should already be installed.

The program is included in the iuvs source repository, so even if you
installed only the iuvs command,

    go install github.com/maven-iuvs/iuvs/mkanc@latest

should compile and install mkanc now.

Usage

Command line options:

  mkanc [options]                     Synthesize a nominal ancillary set.
  mkanc [options] <calibration-file>  Build the set from a calibration FITS file.
  mkanc -v                            Display version and copyright.

  Options:
  -o <output-file>  output path, default iuvs.anc
  -c <channel>      detector channel, default muv
  -n <spa>x<spe>    flat field binning when synthesizing, default 7x19

Input

With a calibration file argument, the program reads FITS image
extensions by name:

    FLATFIELD, the relative sensitivity of each spatial and spectral bin.
    WAVELENGTH, the spectral bin centers in nm.
    PSF, the instrument line spread kernel.
    SOLAR_FLUX, a reference solar spectrum on the wavelength grid.

FLATFIELD is required; the flat field binning determines the binning
of the whole set.  The other extensions are optional and fall back to
nominal values: a linear wavelength grid over the channel passband, a
Gaussian line spread kernel, and a unit solar reference.

Without a calibration file, the whole set is synthesized from those
nominal values at the binning given with -n.  A synthesized set makes
iuvs flat field correction a no-op but gives downstream analysis a
complete set of arrays to work with.

Output

The output is a single file, iuvs.anc, containing the assembled set in
a format readily useful to iuvs.  This format is the Go "gob" format,
a binary format that is not human readable.
*/
package main
