/*
Command fitshdr summarizes the HDU structure of FITS files.

It is a quick look tool for checking what a file contains before
pointing iuvs at a tree of them.  For each file named on the command
line it prints one line per header data unit: the HDU index, whether
the unit is an image or a binary table, its extension name, and its
shape.

  Usage: fitshdr [options] <fits-file> ...
    -g=false: print mid-swath boresight (level 1b products only)
    -k=false: print all header cards
    -v=false: display version and copyright

Gzipped files are read directly; any argument ending in .gz is
decompressed on the fly.

The -k option follows each HDU line with every card of that HDU's
header, one per line, with the card comment after a slash as in the
file itself.  Output can be long.  A level 1b pixel geometry header,
for example, carries a card for each table column.

The -g option is specific to IUVS level 1b products.  The named file
is opened through the level 1b reader, so its name must parse as a
product name and its HDUs must validate.  fitshdr then prints one line
each for the first and last integrations of the swath: the right
ascension and declination of the slit center in sexagesimal, and the
planetodetic latitude and longitude of the same pixel.  This is handy
for checking that a file's pointing is sane, or for seeing how far the
scan carried between the ends of the swath:

  fitshdr -g mvn_iuv_l1b_apoapse-orbit03453-muv_20160708T051356_v13_r01.fits.gz

Errors in one file stop the run.  fitshdr makes no attempt to repair
or skip damaged files; it exists to tell you they are damaged.
*/
package main
