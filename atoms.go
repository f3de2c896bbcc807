/*
 * atoms.go, part of goElFF.
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

import (
	"fmt"

	v3 "github.com/rmera/elff/v3"
)

//Atom contains the information of an atom read from a grid file, except
//for the coordinates, which are kept in a v3.Matrix in the Header.
type Atom struct {
	Symbol string
	Z      int
	Extra  float64 //Whatever comes after the coordinates (the charge column in cube files).
}

//NewAtom returns an atom for the element with the given symbol
//or atomic number. If the symbol is unknown, Z will be 0.
func NewAtom(symbol string, z int) *Atom {
	if symbol == "" {
		symbol, _ = ZSymbol(z)
	}
	if z <= 0 {
		z, _ = SymbolZ(symbol)
	}
	return &Atom{Symbol: symbol, Z: z}
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	r := *A
	return &r
}

//Header is the pass-through metadata of a grid file: the atoms of
//the system, their coordinates (one row per atom) and comment lines.
type Header struct {
	Atoms    []*Atom
	Coords   *v3.Matrix
	Comments []string
}

//NewHeader builds a header from atoms and their coordinates. coords can be nil
//only if atoms is empty.
func NewHeader(atoms []*Atom, coords *v3.Matrix, comments ...string) (*Header, error) {
	if len(atoms) > 0 && (coords == nil || coords.NVecs() != len(atoms)) {
		return nil, NewError(ErrShapeMismatch, "NewHeader", "%d atoms but coordinates do not match", len(atoms))
	}
	return &Header{Atoms: atoms, Coords: coords, Comments: comments}, nil
}

//Atom returns the ith atom.
func (H *Header) Atom(i int) *Atom {
	return H.Atoms[i]
}

//Len returns the number of atoms in the header.
func (H *Header) Len() int {
	if H == nil {
		return 0
	}
	return len(H.Atoms)
}

//Coord returns the coordinates of the ith atom.
func (H *Header) Coord(i int) [3]float64 {
	return H.Coords.Vec(i)
}

//Copy returns a deep copy of the header.
func (H *Header) Copy() *Header {
	if H == nil {
		return nil
	}
	r := &Header{Comments: append([]string(nil), H.Comments...)}
	r.Atoms = make([]*Atom, len(H.Atoms))
	for i, v := range H.Atoms {
		r.Atoms[i] = v.Copy()
	}
	if H.Coords != nil {
		r.Coords = H.Coords.Clone()
	}
	return r
}

func (H *Header) String() string {
	return fmt.Sprintf("Header: %d atoms, %d comment lines", H.Len(), len(H.Comments))
}
