// Package xyz reads molecules from XYZ files.
//
// An XYZ file is a sequence of frames. Each frame is an atom count line, a
// free-form comment line, and one line per atom:
//
//	3
//	water
//	O  0.000  0.000  0.117
//	H  0.000  0.757 -0.471
//	H  0.000 -0.757 -0.471
//
// The first atom column is an element symbol (H through Kr, and I) or an
// atomic number. Columns after z are ignored. Blank lines between frames are
// skipped. The comment line becomes the molecule name. Each frame is decoded
// with goChem (github.com/rmera/gochem).
package xyz
