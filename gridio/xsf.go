/*
 * xsf.go, part of goElFF.
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
	"strconv"
	"strings"

	elff "github.com/rmera/elff"
	v3 "github.com/rmera/elff/v3"
)

//XSF reads and writes XCrySDen structure files with a 3D data grid.
//Only the first data grid in a file is read. XSF grids are "general
//grids": the last point along each axis repeats the first one, so
//it is dropped on reading and added on writing. Values are not converted.
type XSF struct{}

type xsfParser struct {
	L        *lines
	atoms    []*elff.Atom
	coords   []float64
	comments []string
	grid     *elff.Grid
}

//ReadGrid reads the first 3D data grid in r, plus the atoms in the
//PRIMCOORD or ATOMS sections. Comment lines go to the header.
func (X XSF) ReadGrid(r io.Reader, q elff.Quantity) (*elff.Grid, error) {
	p := &xsfParser{L: newLines(r)}
	for p.grid == nil {
		s, err := p.L.next()
		if err == io.EOF {
			return nil, elff.NewError(elff.ErrFormat, "XSF.ReadGrid", "no 3D data grid found")
		}
		if err != nil {
			return nil, fmt.Errorf("XSF.ReadGrid: %w", err)
		}
		if err := p.line(strings.TrimSpace(s)); err != nil {
			return nil, elff.Decorate(err, "XSF.ReadGrid")
		}
	}
	var c *v3.Matrix
	var err error
	if len(p.atoms) > 0 {
		c, err = v3.NewMatrix(p.coords)
		if err != nil {
			return nil, elff.NewError(elff.ErrFormat, "XSF.ReadGrid", "bad coordinates: %v", err)
		}
	}
	p.grid.Header, err = elff.NewHeader(p.atoms, c, p.comments...)
	if err != nil {
		return nil, elff.Decorate(err, "XSF.ReadGrid")
	}
	return p.grid, nil
}

func (p *xsfParser) line(s string) error {
	switch {
	case strings.HasPrefix(s, "#"):
		p.comments = append(p.comments, strings.TrimSpace(strings.TrimPrefix(s, "#")))
	case s == "PRIMCOORD":
		return p.primcoord()
	case s == "ATOMS":
		return p.molecule()
	case strings.HasPrefix(s, "BEGIN_DATAGRID_3D"), strings.HasPrefix(s, "DATAGRID_3D"):
		return p.datagrid()
	}
	return nil
}

func (p *xsfParser) primcoord() error {
	f, err := p.L.fields()
	if err != nil {
		return p.L.errorf("reading the number of atoms: %v", unexpected(err))
	}
	nat, err := strconv.Atoi(f[0])
	if err != nil || nat < 0 {
		return p.L.errorf("can't read the number of atoms from %q", f[0])
	}
	p.atoms, p.coords = p.atoms[:0], p.coords[:0]
	for i := 0; i < nat; i++ {
		c, f, err := p.L.vector(1)
		if err != nil {
			return err
		}
		at, err := atomFromField(f[0])
		if err != nil {
			return p.L.errorf("%v", err)
		}
		p.atoms = append(p.atoms, at)
		p.coords = append(p.coords, c[:]...)
	}
	return nil
}

//molecule reads atom lines until the first line that is not one,
//which is then processed as usual.
func (p *xsfParser) molecule() error {
	for {
		s, err := p.L.next()
		if err != nil {
			return p.L.errorf("reading atoms: %v", unexpected(err))
		}
		f := strings.Fields(s)
		if len(f) == 0 {
			continue
		}
		at, aerr := atomFromField(f[0])
		c, verr := parseVec(f, 1)
		if aerr != nil || verr != nil {
			return p.line(strings.TrimSpace(s))
		}
		p.atoms = append(p.atoms, at)
		p.coords = append(p.coords, c[:]...)
	}
}

func (p *xsfParser) datagrid() error {
	L := p.L
	f, err := L.fields()
	if err != nil {
		return L.errorf("reading grid dimensions: %v", unexpected(err))
	}
	if len(f) < 3 {
		return L.errorf("grid dimensions expected, got %q", strings.Join(f, " "))
	}
	var n [3]int
	for i := range n {
		n[i], err = strconv.Atoi(f[i])
		if err != nil || n[i] < 2 {
			return L.errorf("bad grid dimension %q", f[i])
		}
	}
	var lv [4][3]float64
	for i := range lv {
		lv[i], _, err = L.vector(0)
		if err != nil {
			return err
		}
	}
	raw := make([]float64, n[0]*n[1]*n[2])
	if err := L.floats(raw); err != nil {
		return err
	}
	dims := [3]int{n[0] - 1, n[1] - 1, n[2] - 1}
	G, err := elff.NewGrid(dims, elff.Lattice(lv[0], lv[1], lv[2], lv[3]), 1)
	if err != nil {
		return err
	}
	//x runs fastest in the file.
	i := 0
	for iz := 0; iz < n[2]; iz++ {
		for iy := 0; iy < n[1]; iy++ {
			for ix := 0; ix < n[0]; ix++ {
				if ix < dims[0] && iy < dims[1] && iz < dims[2] {
					G.Set(ix, iy, iz, raw[i])
				}
				i++
			}
		}
	}
	p.grid = G
	return nil
}

//WriteGrid writes the scalar grid G with the atoms of header (or of G.Header,
//if header is nil).
func (X XSF) WriteGrid(w io.Writer, G *elff.Grid, header *elff.Header) error {
	if G.IsVector() {
		return elff.NewError(elff.ErrFormat, "XSF.WriteGrid", "only scalar grids can be written, write each component separately")
	}
	if header == nil {
		header = G.Header
	}
	b := bufio.NewWriter(w)
	for _, c := range commentsOf(header) {
		fmt.Fprintf(b, "# %s\n", c)
	}
	b.WriteString("CRYSTAL\n")
	for _, sect := range []string{"PRIMVEC", "CONVVEC"} {
		b.WriteString(sect + "\n")
		for i := 1; i < 4; i++ {
			v := G.Lvec.Vec(i)
			fmt.Fprintf(b, " %14.8f %14.8f %14.8f\n", v[0], v[1], v[2])
		}
	}
	fmt.Fprintf(b, "PRIMCOORD\n%d 1\n", header.Len())
	for i := 0; i < header.Len(); i++ {
		c := header.Coord(i)
		fmt.Fprintf(b, "%3d %14.8f %14.8f %14.8f\n", header.Atom(i).Z, c[0], c[1], c[2])
	}
	b.WriteString("\nBEGIN_BLOCK_DATAGRID_3D\n   goElFF\n   BEGIN_DATAGRID_3D_goElFF\n")
	fmt.Fprintf(b, "   %d %d %d\n", G.Dims[0]+1, G.Dims[1]+1, G.Dims[2]+1)
	for i := 0; i < 4; i++ {
		v := G.Lvec.Vec(i)
		fmt.Fprintf(b, "   %14.8f %14.8f %14.8f\n", v[0], v[1], v[2])
	}
	vals := make([]float64, 0, G.Dims[0]+1)
	for iz := 0; iz <= G.Dims[2]; iz++ {
		for iy := 0; iy <= G.Dims[1]; iy++ {
			vals = vals[:0]
			for ix := 0; ix <= G.Dims[0]; ix++ {
				vals = append(vals, G.At(ix%G.Dims[0], iy%G.Dims[1], iz%G.Dims[2]))
			}
			if err := values(b, vals, len(vals)); err != nil {
				return fmt.Errorf("XSF.WriteGrid: %w", err)
			}
		}
	}
	b.WriteString("   END_DATAGRID_3D\nEND_BLOCK_DATAGRID_3D\n")
	if err := b.Flush(); err != nil {
		return fmt.Errorf("XSF.WriteGrid: %w", err)
	}
	return nil
}

func commentsOf(h *elff.Header) []string {
	if h == nil {
		return nil
	}
	return h.Comments
}
