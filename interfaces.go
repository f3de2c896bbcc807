/*
 * interfaces.go, part of goElFF.
 *
 * Copyright 2026 The goElFF Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package elff

import "io"

// Atomer is the basic interface for a list of atoms.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i.
	//Should panic if out of range.
	Atom(i int) *Atom

	Len() int
}

// Quantity tells a reader what a grid file contains, since some formats
// (cube) store potentials and densities in different units.
type Quantity int

const (
	Potential Quantity = iota
	Density
	Raw //values are used as stored, as in the files goElFF writes
)

func (q Quantity) String() string {
	switch q {
	case Density:
		return "density"
	case Raw:
		return "raw"
	}
	return "potential"
}

// GridReader reads one grid file format from a stream.
type GridReader interface {
	ReadGrid(r io.Reader, q Quantity) (*Grid, error)
}

// GridLoader loads grids from files, choosing the right GridReader for each path.
type GridLoader interface {
	LoadGrid(path string, q Quantity) (*Grid, error)
}

// GridWriter writes the fields produced by goElFF. Vector fields are written
// as one file per component. header is the atomic information written along.
// RemoveField deletes whatever was written for name, so a failed run
// leaves no partial output. Removing a field that was never written is not an error.
type GridWriter interface {
	SaveVectorField(name string, g *Grid, header *Header) error
	SaveScalarField(name string, g *Grid, header *Header) error
	RemoveField(name string) error
}
