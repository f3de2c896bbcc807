/*
 * coresub.go, part of goElFF.
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

//Package coresub removes the core electrons of atoms from a tip density.
//
//Densities from plane-wave DFT codes carry only the valence electrons near the
//nuclei, but some codes add back a frozen core. That core charge does not
//take part in the tip-sample electrostatics we want, so it is removed near every atom
//that touches the sampled cell, periodic images included.
package coresub

import (
	"math"

	elff "github.com/rmera/elff"
	v3 "github.com/rmera/elff/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Image is an atom, or one of its periodic images, close enough to
//the sampled volume to put density in it.
type Image struct {
	Index int //the index of the atom in the original list
	Atom  *elff.Atom
	Pos   [3]float64
	Shift [3]int //lattice translation from the original position
}

//TouchingImages returns all the images of the atoms under the 27 lattice
//translations (the cell and its 26 neighbours) whose fractional coordinates
//lie within rcore of the cell given by lvec (origin plus 3 cell vectors).
//coords has one row per atom.
func TouchingImages(atoms elff.Atomer, coords *v3.Matrix, lvec *v3.Matrix, rcore float64) ([]Image, error) {
	if atoms.Len() == 0 {
		return nil, nil
	}
	if coords == nil || coords.NVecs() != atoms.Len() {
		return nil, elff.NewError(elff.ErrShapeMismatch, "TouchingImages", "%d atoms but coordinates do not match", atoms.Len())
	}
	if lvec == nil || lvec.NVecs() != 4 {
		return nil, elff.NewError(elff.ErrShapeMismatch, "TouchingImages", "lattice must have 4 vectors (origin and cell)")
	}
	cell := mat.DenseCopyOf(lvec.Slice(1, 4, 0, 3))
	inv, err := v3.Inverse3(cell)
	if err != nil {
		return nil, elff.NewError(elff.ErrShapeMismatch, "TouchingImages", "singular cell: %v", err)
	}
	ext := extension(inv, rcore)
	origin := lvec.Vec(0)
	var ret []Image
	for i := 0; i < atoms.Len(); i++ {
		r := coords.Vec(i)
		f := fractional(inv, r, origin)
		for tx := -1; tx <= 1; tx++ {
			for ty := -1; ty <= 1; ty++ {
				for tz := -1; tz <= 1; tz++ {
					t := [3]int{tx, ty, tz}
					inside := true
					for axis := 0; axis < 3; axis++ {
						fi := f[axis] + float64(t[axis])
						if fi < -ext[axis] || fi > 1+ext[axis] {
							inside = false
							break
						}
					}
					if !inside {
						continue
					}
					p := r
					for axis := 0; axis < 3; axis++ {
						for k := 0; k < 3; k++ {
							p[k] += float64(t[axis]) * cell.At(axis, k)
						}
					}
					ret = append(ret, Image{Index: i, Atom: atoms.Atom(i), Pos: p, Shift: t})
				}
			}
		}
	}
	return ret, nil
}

//Profile is the shape of the core density removed around each atom, as a function
//of the distance r, for a cutoff rcore. It is zero beyond the cutoff and has zero
//slope at the cutoff and at the nucleus.
func Profile(r, rcore float64) float64 {
	if r >= rcore {
		return 0
	}
	x := r / rcore
	x = 1 - x*x
	return x * x
}

//Subtract returns a copy of the density rho (e/Å^3) with the core charge of every
//atom in images removed. The core charge of an atom (Z minus its valence electrons in
//table) is spread over all its images with Profile, and normalized on the grid so
//exactly that charge is removed.
func Subtract(rho *elff.Grid, images []Image, table elff.ValenceTable, rcore float64) (*elff.Grid, error) {
	if rho == nil {
		return nil, elff.NewError(elff.ErrInvalidDensityRequest, "coresub.Subtract", "core subtraction requested without a tip density")
	}
	if rho.IsVector() {
		return nil, elff.NewError(elff.ErrShapeMismatch, "coresub.Subtract", "the density must be a scalar field")
	}
	if rcore <= 0 {
		return nil, elff.NewError(elff.ErrInvalidDensityRequest, "coresub.Subtract", "non-positive core radius %g", rcore)
	}
	//Group the images by atom, checking all the elements before doing any work.
	var order []int
	byAtom := make(map[int][]Image)
	core := make(map[int]float64)
	for _, im := range images {
		if _, ok := byAtom[im.Index]; !ok {
			q, err := table.CoreCharge(im.Atom.Symbol)
			if err != nil {
				return nil, elff.Decorate(err, "coresub.Subtract")
			}
			core[im.Index] = float64(q)
			order = append(order, im.Index)
		}
		byAtom[im.Index] = append(byAtom[im.Index], im)
	}
	inv, err := v3.Inverse3(rho.Cell())
	if err != nil {
		return nil, elff.NewError(elff.ErrShapeMismatch, "coresub.Subtract", "singular cell: %v", err)
	}
	ext := extension(inv, rcore)
	origin := rho.Origin()
	ret := rho.Copy()
	data := ret.Data()
	dv := rho.VoxelVolume()
	for _, idx := range order {
		if core[idx] == 0 {
			continue
		}
		w := make(map[int]float64)
		var wsum float64
		for _, im := range byAtom[idx] {
			f := fractional(inv, im.Pos, origin)
			var lo, hi [3]int
			for axis := 0; axis < 3; axis++ {
				n := rho.Dims[axis]
				lo[axis] = clamp(int(math.Floor((f[axis]-ext[axis])*float64(n))), 0, n-1)
				hi[axis] = clamp(int(math.Ceil((f[axis]+ext[axis])*float64(n))), 0, n-1)
			}
			for ix := lo[0]; ix <= hi[0]; ix++ {
				for iy := lo[1]; iy <= hi[1]; iy++ {
					for iz := lo[2]; iz <= hi[2]; iz++ {
						p := rho.Position(float64(ix), float64(iy), float64(iz))
						v := Profile(floats.Distance(p[:], im.Pos[:], 2), rcore)
						if v == 0 {
							continue
						}
						w[rho.Index(ix, iy, iz)] += v
						wsum += v
					}
				}
			}
		}
		if wsum == 0 {
			return nil, elff.NewError(elff.ErrInvalidDensityRequest, "coresub.Subtract", "no grid point within %g Å of atom %d (%s)", rcore, idx, byAtom[idx][0].Atom.Symbol)
		}
		//charge per voxel to density
		sc := core[idx] / (wsum * dv)
		for i, v := range w {
			data[i] -= v * sc
		}
	}
	return ret, nil
}

//extension returns, for each axis, the fractional length that corresponds to a
//distance r along the normal to the opposite faces: r|b_i|, with b_i the reciprocal vectors.
func extension(inv mat.Matrix, r float64) [3]float64 {
	var ext [3]float64
	for axis := 0; axis < 3; axis++ {
		b := mat.Col(nil, axis, inv)
		ext[axis] = r * floats.Norm(b, 2)
	}
	return ext
}

//fractional returns the coordinates of r in the basis of the cell, relative
//to origin.
func fractional(inv mat.Matrix, r, origin [3]float64) [3]float64 {
	var f [3]float64
	for j := 0; j < 3; j++ {
		for k := 0; k < 3; k++ {
			f[j] += (r[k] - origin[k]) * inv.At(k, j)
		}
	}
	return f
}

func clamp(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
