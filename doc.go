/*
Command iuvs surveys MAVEN/IUVS level 1b data products on a local data
tree.

Contents

Version 0.4

  Program overview
  Installing from the Internet
  Command line usage
  The data tree
  File formats
  Survey output


Program overview

The Imaging Ultraviolet Spectrograph (IUVS) on the MAVEN spacecraft
records swaths of the Mars atmosphere as a scan mirror sweeps the
instrument field of view.  Calibrated swaths are distributed as level
1b FITS files, with several processing versions of one observation
often present side by side on disk.

Input is a local tree of level 1b files and an orbit or range of
orbits to survey.  Output is one line per product file with
observation and engineering summary, and a summary line per orbit.

Sample run:

With a data tree under /data/iuvs, type "iuvs -r /data/iuvs 3453" and
get output like the following.

  iuvs version 0.4 Go source.
  Segment      UTC start           Ch  Version  Int Sw  Mirror deg  Relay Day     RMS
  apoapse      2016-07-08 05:13:56 muv v13_r01  200 10  33.10-51.30       day    0.21
  apoapse      2016-07-08 05:21:46 muv v13_r01  200 10  33.10-51.30       day    0.18
  relay-echo   2016-07-08 06:02:13 fuv v13_r02   60  1  30.25-59.65 relay night  0.09
  orbit03453  3 files  460 integrations 21 swaths  day 400/460  3.82 +- 1.40 kR dayside  some relay

Where several processing versions of one observation are present, only
the latest is surveyed.  The survey is not parallel in output but is
parallel in work: files load concurrently on the available cores.

The RMS figure is a root-mean-square of residuals in arc seconds of
the boresight track against a great circle fit.  A high RMS could
indicate either a pointing problem or significant great circle
departure over the swath.  It can thus be used as a quick check that a
swath scanned smoothly.  If the RMS is low, the scan was smooth.  The
RMS is naturally high for observations that slew off a great circle;
iuvs offers no way of distinguishing this case from a pointing
problem.

The Relay column marks files taken during relay passes, when the
mirror sweeps its full mechanical range.  Classification compares the
recorded extreme mirror angles with the mechanical bounds for
equality, not tolerance, as the flight software commands these exact
positions.


Installing from the Internet

You need a Go toolchain installed and configured.  If you are new to
Go, see https://golang.org/doc/install.

Then type the following commands:

    go install github.com/maven-iuvs/iuvs@latest
    go install github.com/maven-iuvs/iuvs/mkanc@latest

This downloads, compiles, and installs the iuvs command and the mkanc
command along with their subordinate packages.

Mkanc is a program that initializes the ancillary calibration file
used by iuvs for flat field correction.  It can read calibration FITS
files distributed with the instrument pipeline, or synthesize a
nominal set when none are at hand.  See the full documentation on
mkanc with,

	go doc github.com/maven-iuvs/iuvs/mkanc

Two more commands are included.  Swathgen generates a synthetic data
tree for testing, and fitshdr lists FITS headers of any product file.


Command line usage

The main executable is iuvs.  Invoking the program without command
line arguments (or with invalid arguments) shows this usage prompt.

  Usage: iuvs [options] <orbit>          survey one orbit
         iuvs [options] <first> <last>   survey a range of orbits
         iuvs -h                         display help and quick reference
         iuvs -v                         display version and data root

  Options:
         -r <data-root>
         -s <segment>
         -c <channel>
         -f <config-file>
         -a <ancillary-file>

The help information lists a quick reference to config file keywords,
observation segments, and detector channels.  The configuration file
is explained below under File formats.

The -s and -c options restrict the survey to one observation segment
or one detector channel.  The -a option names an ancillary file whose
flat field is applied to brightness data before statistics are taken.

The data root is taken from the -r option, from a root= line in the
config file, or from the IUVS_DATA_ROOT environment variable, in that
order of precedence.  If the environment variable is set, its value is
shown at the end of the usage message as the -r default.


The data tree

The standard tree groups files into orbit block directories of 100
orbits, named for their first orbit, so that files of orbit 3453 live
under orbit03400/.

  /data/iuvs/orbit03400/mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13_r01.fits.gz

Files may be stored plain or gzip compressed; both are read
transparently.  An orbit with no files on disk is a normal condition
when surveying a range and is reported only when the gaps keyword is
configured.

Where the tree holds several processing versions of one observation,
discovery resolves to the highest version, and among equal versions
the highest revision.


File formats

Product files follow the standard IUVS naming convention,

  mvn_iuv_l1b_<description>_<time>_v<version>_r<revision>.fits[.gz]

where the description holds the observation segment, the orbit number
as orbitNNNNN, and the detector channel, joined with hyphens.  Segment
names may themselves contain hyphens; the orbit and channel are always
the last two hyphen separated fields.

A level 1b file holds four HDUs.  The primary HDU is a cube of
calibrated brightness in kR with axes of integration, spatial bin, and
spectral bin.  Binary table extensions named integration,
pixelgeometry, and observation carry per integration engineering
values, pixel geometry projected on Mars and on the sky, and per
observation instrument settings.

iuvs.anc is a binary ancillary file generated by the program mkanc, as
described above.

The optional configuration file is a text file with a simple format.
Empty lines and lines beginning with # are ignored.  Other lines must
contain a keyword.

Allowable keywords:

   headings
   noheadings
   rms
   norms
   day
   noday
   gaps
   nogaps
   segment=<name>
   channel=<name>
   root=<path>
   anc=<path>

Headings and the rms and day columns can be turned off if desired.
The gaps keyword reports orbits with no files; by default they are
passed over silently.  The segment=, channel=, root=, and anc=
keywords correspond to the -s, -c, -r, and -a options; an option given
on the command line takes precedence over the config file.

Example 1:

  # survey the echelle channel only, reporting gaps
  channel=ech
  gaps

Example 2:

  noheadings
  norms
  noday

Output with example 2 is reduced to columns that are cheap to compute,
which might be useful for generating results to be analyzed by another
program.


Survey output

Each file line shows the observation segment, start time, channel,
processing version and revision, the integration count, the swath
count, the extreme mirror angles in degrees, relay classification, a
day or night marker, and the boresight RMS described above.

A swath is a continuous sweep of the mirror.  A new swath is counted
at a flyback, a step against the sweep direction much larger than the
typical step between integrations.  Slow reversals and forward gaps do
not split a swath.

The day or night marker reflects the detector high voltage setting
recorded in the observation HDU, not the geometry of the scene.

Each orbit closes with a summary line giving the file count, total
integrations, total swaths, the fraction of integrations taken with
dayside settings, the mean and standard deviation of brightness over
the dayside integrations, and a relay note when some or all files of
the orbit are relay passes.  Brightness statistics are left off an
orbit with no dayside integrations.  Files of one orbit must share
spatial and spectral binning to be summarized together; orbits with
mixed binning are noted instead.

-------------
Public domain 2026, Laboratory for Atmospheric and Space Physics.
*/
package main
