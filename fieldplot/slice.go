/*
 * slice.go, part of goElFF.
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

//Package fieldplot draws heat maps of xy slices of goElFF grids, for a quick look at
//force fields and potentials.
package fieldplot

import (
	"fmt"
	"math"

	elff "github.com/rmera/elff"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Slice is the xy slice iz of the component Comp of a grid. It implements
//plotter.GridXYZ. The x and y coordinates are those of the voxels in a
//rectangular projection: the cell vectors a and b are assumed to lie on the
//xy plane, and skew is ignored.
type Slice struct {
	G    *elff.Grid
	Comp int
	Iz   int
}

//NewSlice returns the slice iz of the component comp of G.
func NewSlice(G *elff.Grid, comp, iz int) (*Slice, error) {
	if comp < 0 || comp >= G.Components() {
		return nil, elff.NewError(elff.ErrShapeMismatch, "NewSlice", "component %d requested from a grid with %d", comp, G.Components())
	}
	if iz < 0 || iz >= G.Dims[2] {
		return nil, elff.NewError(elff.ErrShapeMismatch, "NewSlice", "slice %d requested from a grid with %d", iz, G.Dims[2])
	}
	return &Slice{G: G, Comp: comp, Iz: iz}, nil
}

//Dims returns the number of columns (x) and rows (y).
func (S *Slice) Dims() (c, r int) { return S.G.Dims[0], S.G.Dims[1] }

//Z returns the value at column c, row r.
func (S *Slice) Z(c, r int) float64 {
	return S.G.Data()[S.G.Index(c, r, S.Iz)*S.G.Components()+S.Comp]
}

//X returns the x coordinate of column c.
func (S *Slice) X(c int) float64 { return S.G.Position(float64(c), 0, float64(S.Iz))[0] }

//Y returns the y coordinate of row r.
func (S *Slice) Y(r int) float64 { return S.G.Position(0, float64(r), float64(S.Iz))[1] }

//Range returns the smallest and largest values in the slice.
func (S *Slice) Range() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	c, r := S.Dims()
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			v := S.Z(i, j)
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	return min, max
}

func basicSlicePlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "x (Å)"
	p.Y.Label.Text = "y (Å)"
	return p
}

//SlicePlot saves a heat map of S to plotname.png. A blue-white-red palette
//symmetric around zero is used, so attractive and repulsive regions are easy to tell apart.
func SlicePlot(S *Slice, title, plotname string) error {
	p := basicSlicePlot(title)
	pal := moreland.SmoothBlueRed()
	pal.SetMin(0)
	pal.SetMax(1)
	h := plotter.NewHeatMap(S, pal.Palette(255))
	min, max := S.Range()
	lim := math.Max(math.Abs(min), math.Abs(max))
	if lim == 0 || math.IsNaN(lim) || math.IsInf(lim, 0) {
		lim = 1
	}
	h.Min, h.Max = -lim, lim
	p.Add(h)
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(12*vg.Centimeter, 12*vg.Centimeter, filename); err != nil {
		return fmt.Errorf("SlicePlot: can't save %s: %w", filename, err)
	}
	return nil
}
