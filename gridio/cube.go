/*
 * cube.go, part of goElFF.
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

package gridio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	elff "github.com/rmera/elff"
	v3 "github.com/rmera/elff/v3"
)

//Cube reads and writes Gaussian cube files.
//Lengths in cube files are in bohr when the voxel counts are positive,
//and in Å when they are negative. Angstrom forces the lengths to be
//read as Å, for programs that don't follow that convention.
//
//Values are converted according to the quantity read: potentials from
//Hartree to eV, densities from e/bohr^3 to e/Å^3. Raw values are kept.
//Files are always written with lengths in bohr and the values unchanged.
type Cube struct {
	Angstrom bool
}

//ReadGrid reads a cube file from r.
func (C Cube) ReadGrid(r io.Reader, q elff.Quantity) (*elff.Grid, error) {
	L := newLines(r)
	var comments []string
	for i := 0; i < 2; i++ {
		s, err := L.next()
		if err != nil {
			return nil, L.errorf("reading the title lines: %v", unexpected(err))
		}
		comments = append(comments, s)
	}
	origin, f, err := L.vector(1)
	if err != nil {
		return nil, elff.Decorate(err, "Cube.ReadGrid")
	}
	nat, err := strconv.Atoi(f[0])
	if err != nil {
		return nil, L.errorf("can't read the number of atoms from %q", f[0])
	}
	//a negative number of atoms means there is a line of orbital indexes
	//after the atoms.
	orbitals := nat < 0
	if orbitals {
		nat = -nat
	}
	var dims [3]int
	var cell [3][3]float64
	angstrom := C.Angstrom
	for i := 0; i < 3; i++ {
		v, f, err := L.vector(1)
		if err != nil {
			return nil, elff.Decorate(err, "Cube.ReadGrid")
		}
		n, err := strconv.Atoi(f[0])
		if err != nil || n == 0 {
			return nil, L.errorf("bad number of voxels %q", f[0])
		}
		if n < 0 {
			angstrom = true
			n = -n
		}
		dims[i] = n
		for k := 0; k < 3; k++ {
			cell[i][k] = v[k] * float64(n)
		}
	}
	lscale := 1.0
	if !angstrom {
		lscale = elff.Bohr2Angstrom
	}
	scale(&origin, lscale)
	for i := range cell {
		scale(&cell[i], lscale)
	}
	atoms := make([]*elff.Atom, nat)
	coords := make([]float64, 0, 3*nat)
	for i := 0; i < nat; i++ {
		c, f, err := L.vector(2)
		if err != nil {
			return nil, elff.Decorate(err, "Cube.ReadGrid")
		}
		atoms[i], err = atomFromField(f[0])
		if err != nil {
			return nil, L.errorf("%v", err)
		}
		atoms[i].Extra, _ = strconv.ParseFloat(f[1], 64)
		scale(&c, lscale)
		coords = append(coords, c[:]...)
	}
	if orbitals {
		if _, err := L.fields(); err != nil {
			return nil, L.errorf("reading the orbital indexes: %v", unexpected(err))
		}
	}
	G, err := elff.NewGrid(dims, elff.Lattice(origin, cell[0], cell[1], cell[2]), 1)
	if err != nil {
		return nil, elff.Decorate(err, "Cube.ReadGrid")
	}
	//same layout as ours: z runs fastest.
	if err := L.floats(G.Data()); err != nil {
		return nil, elff.Decorate(err, "Cube.ReadGrid")
	}
	switch q {
	case elff.Potential:
		G.Scale(elff.Hartree2eV)
	case elff.Density:
		G.Scale(1 / math.Pow(elff.Bohr2Angstrom, 3))
	}
	var cm *v3.Matrix
	if nat > 0 {
		cm, err = v3.NewMatrix(coords)
		if err != nil {
			return nil, elff.NewError(elff.ErrFormat, "Cube.ReadGrid", "bad coordinates: %v", err)
		}
	}
	G.Header, err = elff.NewHeader(atoms, cm, comments...)
	if err != nil {
		return nil, elff.Decorate(err, "Cube.ReadGrid")
	}
	return G, nil
}

//WriteGrid writes the scalar grid G with the atoms of header (or of G.Header,
//if header is nil). The first two comments of the header are used as titles.
func (C Cube) WriteGrid(w io.Writer, G *elff.Grid, header *elff.Header) error {
	if G.IsVector() {
		return elff.NewError(elff.ErrFormat, "Cube.WriteGrid", "only scalar grids can be written, write each component separately")
	}
	if header == nil {
		header = G.Header
	}
	b := bufio.NewWriter(w)
	titles := []string{"goElFF", "z runs fastest"}
	copy(titles, commentsOf(header))
	for _, t := range titles {
		b.WriteString(t + "\n")
	}
	l := 1 / elff.Bohr2Angstrom
	o := G.Origin()
	fmt.Fprintf(b, "%5d %14.8f %14.8f %14.8f\n", header.Len(), o[0]*l, o[1]*l, o[2]*l)
	for i := 0; i < 3; i++ {
		s := G.Spacing(i)
		fmt.Fprintf(b, "%5d %14.8f %14.8f %14.8f\n", G.Dims[i], s[0]*l, s[1]*l, s[2]*l)
	}
	for i := 0; i < header.Len(); i++ {
		at := header.Atom(i)
		c := header.Coord(i)
		fmt.Fprintf(b, "%5d %14.8f %14.8f %14.8f %14.8f\n", at.Z, at.Extra, c[0]*l, c[1]*l, c[2]*l)
	}
	data := G.Data()
	nz := G.Dims[2]
	for i := 0; i < len(data); i += nz {
		if err := values(b, data[i:i+nz], 6); err != nil {
			return fmt.Errorf("Cube.WriteGrid: %w", err)
		}
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("Cube.WriteGrid: %w", err)
	}
	return nil
}

func scale(v *[3]float64, f float64) {
	for i := range v {
		v[i] *= f
	}
}
