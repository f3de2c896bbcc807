/*
 * grid.go, part of goElFF.
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
	"math"

	v3 "github.com/rmera/elff/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Grid is a scalar or 3-vector field sampled on a regular 3D grid.
//Lvec has 4 rows: the origin of the grid and the three cell vectors spanning
//the sampled volume. The grid is periodic, so the spacing along axis i is
//Lvec[i+1]/Dims[i], and there is no duplicated point at the end of each axis.
//The data is stored with the z index running fastest. Vector fields keep
//the 3 components of each voxel together.
type Grid struct {
	Dims   [3]int
	Lvec   *v3.Matrix
	Header *Header
	ncomp  int
	data   []float64
}

//NewGrid returns a zero-filled grid with ncomp (1 or 3) components per voxel.
func NewGrid(dims [3]int, lvec *v3.Matrix, ncomp int) (*Grid, error) {
	if ncomp != 1 && ncomp != 3 {
		return nil, NewError(ErrShapeMismatch, "NewGrid", "%d components per voxel requested, only 1 or 3 are supported", ncomp)
	}
	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 {
		return nil, NewError(ErrShapeMismatch, "NewGrid", "invalid grid dimensions %v", dims)
	}
	if lvec == nil || lvec.NVecs() != 4 {
		return nil, NewError(ErrShapeMismatch, "NewGrid", "lattice must have 4 vectors (origin and cell)")
	}
	n := dims[0] * dims[1] * dims[2]
	return &Grid{Dims: dims, Lvec: lvec, ncomp: ncomp, data: make([]float64, n*ncomp)}, nil
}

//NewGridFromData returns a grid that uses data as its storage (the slice is not copied).
//The number of components is deduced from the length of data.
func NewGridFromData(dims [3]int, lvec *v3.Matrix, data []float64) (*Grid, error) {
	n := dims[0] * dims[1] * dims[2]
	G, err := NewGrid(dims, lvec, 1)
	if err != nil {
		return nil, Decorate(err, "NewGridFromData")
	}
	switch len(data) {
	case n:
		G.ncomp = 1
	case 3 * n:
		G.ncomp = 3
	default:
		return nil, NewError(ErrShapeMismatch, "NewGridFromData", "%d values for a %v grid", len(data), dims)
	}
	G.data = data
	return G, nil
}

//Lattice returns a lattice matrix with the given origin and cell vectors.
func Lattice(origin, a, b, c [3]float64) *v3.Matrix {
	l, _ := v3.NewMatrix([]float64{
		origin[0], origin[1], origin[2],
		a[0], a[1], a[2],
		b[0], b[1], b[2],
		c[0], c[1], c[2],
	})
	return l
}

//Components returns the number of values per voxel (1 or 3).
func (G *Grid) Components() int { return G.ncomp }

//IsVector returns true if G is a vector field.
func (G *Grid) IsVector() bool { return G.ncomp == 3 }

//Len returns the number of voxels.
func (G *Grid) Len() int { return G.Dims[0] * G.Dims[1] * G.Dims[2] }

//Data returns the underlying data slice. Changes are reflected in the grid.
func (G *Grid) Data() []float64 { return G.data }

//Index returns the position of the voxel ix,iy,iz in the list of voxels.
func (G *Grid) Index(ix, iy, iz int) int {
	return (ix*G.Dims[1]+iy)*G.Dims[2] + iz
}

//Voxel is the inverse of Index.
func (G *Grid) Voxel(i int) (ix, iy, iz int) {
	iz = i % G.Dims[2]
	iy = (i / G.Dims[2]) % G.Dims[1]
	ix = i / (G.Dims[2] * G.Dims[1])
	return
}

//At returns the value of a scalar grid at ix,iy,iz.
func (G *Grid) At(ix, iy, iz int) float64 {
	return G.data[G.Index(ix, iy, iz)*G.ncomp]
}

//Set sets the value of a scalar grid at ix,iy,iz.
func (G *Grid) Set(ix, iy, iz int, v float64) {
	G.data[G.Index(ix, iy, iz)*G.ncomp] = v
}

//VecAt returns the vector at ix,iy,iz. Panics for scalar grids.
func (G *Grid) VecAt(ix, iy, iz int) [3]float64 {
	if G.ncomp != 3 {
		panic("goElFF: VecAt called on a scalar grid")
	}
	i := 3 * G.Index(ix, iy, iz)
	return [3]float64{G.data[i], G.data[i+1], G.data[i+2]}
}

//Vecs returns a view of a vector field as a v3.Matrix with one row per voxel.
//Panics for scalar grids.
func (G *Grid) Vecs() *v3.Matrix {
	if G.ncomp != 3 {
		panic("goElFF: Vecs called on a scalar grid")
	}
	return v3.Dense2Matrix(mat.NewDense(G.Len(), 3, G.data))
}

//Component returns a new scalar grid with the cth component of G.
func (G *Grid) Component(c int) *Grid {
	if c < 0 || c >= G.ncomp {
		panic(fmt.Sprintf("goElFF: component %d requested from a grid with %d", c, G.ncomp))
	}
	r := &Grid{Dims: G.Dims, Lvec: G.Lvec.Clone(), Header: G.Header, ncomp: 1, data: make([]float64, G.Len())}
	for i := range r.data {
		r.data[i] = G.data[i*G.ncomp+c]
	}
	return r
}

//VectorGrid packs three scalar grids of the same shape into a vector field.
func VectorGrid(x, y, z *Grid) (*Grid, error) {
	for _, v := range []*Grid{y, z} {
		if err := x.SameShape(v); err != nil {
			return nil, Decorate(err, "VectorGrid")
		}
	}
	if x.ncomp != 1 || y.ncomp != 1 || z.ncomp != 1 {
		return nil, NewError(ErrShapeMismatch, "VectorGrid", "components must be scalar grids")
	}
	r := &Grid{Dims: x.Dims, Lvec: x.Lvec.Clone(), Header: x.Header, ncomp: 3, data: make([]float64, 3*x.Len())}
	for i := 0; i < x.Len(); i++ {
		r.data[3*i] = x.data[i]
		r.data[3*i+1] = y.data[i]
		r.data[3*i+2] = z.data[i]
	}
	return r, nil
}

//Copy returns a deep copy of G. The header is shared, as it is never modified.
func (G *Grid) Copy() *Grid {
	r := &Grid{Dims: G.Dims, Lvec: G.Lvec.Clone(), Header: G.Header, ncomp: G.ncomp}
	r.data = make([]float64, len(G.data))
	copy(r.data, G.data)
	return r
}

//Origin returns the origin of the grid.
func (G *Grid) Origin() [3]float64 {
	return G.Lvec.Vec(0)
}

//Cell returns a 3x3 matrix with the cell vectors as rows.
func (G *Grid) Cell() *mat.Dense {
	return mat.DenseCopyOf(G.Lvec.Slice(1, 4, 0, 3))
}

//Spacing returns the step vector between neighbouring voxels along axis.
func (G *Grid) Spacing(axis int) [3]float64 {
	a := G.Lvec.Vec(axis + 1)
	n := float64(G.Dims[axis])
	return [3]float64{a[0] / n, a[1] / n, a[2] / n}
}

//Volume returns the volume of the cell.
func (G *Grid) Volume() float64 {
	return math.Abs(v3.Det(G.Cell()))
}

//VoxelVolume returns the volume of one voxel.
func (G *Grid) VoxelVolume() float64 {
	return G.Volume() / float64(G.Len())
}

//Position returns the cartesian position of the voxel ix,iy,iz.
//Indexes need not be within the grid.
func (G *Grid) Position(ix, iy, iz float64) [3]float64 {
	r := G.Origin()
	idx := [3]float64{ix, iy, iz}
	for axis := 0; axis < 3; axis++ {
		s := G.Spacing(axis)
		for k := 0; k < 3; k++ {
			r[k] += idx[axis] * s[k]
		}
	}
	return r
}

//SameShape returns an ErrShapeMismatch error if B does not have the same dimensions
//and number of components as G. The lattices are not compared, since they can
//differ by rounding in the files they were read from.
func (G *Grid) SameShape(B *Grid) error {
	if G.Dims != B.Dims {
		return NewError(ErrShapeMismatch, "Grid.SameShape", "grid dimensions %v and %v differ", G.Dims, B.Dims)
	}
	if G.ncomp != B.ncomp {
		return NewError(ErrShapeMismatch, "Grid.SameShape", "%d and %d components per voxel", G.ncomp, B.ncomp)
	}
	return nil
}

//Scale multiplies all the values in G by f, in place. It is used for
//sign flips and unit conversions.
func (G *Grid) Scale(f float64) {
	floats.Scale(f, G.data)
}

//Sub returns a new grid with A-B.
func Sub(A, B *Grid) (*Grid, error) {
	if err := A.SameShape(B); err != nil {
		return nil, Decorate(err, "Sub")
	}
	r := A.Copy()
	floats.Sub(r.data, B.data)
	return r, nil
}

//Sum returns the sum of all the values in G.
func (G *Grid) Sum() float64 {
	return floats.Sum(G.data)
}

//Dot returns the sum of the element-wise product of G and B.
func (G *Grid) Dot(B *Grid) (float64, error) {
	if err := G.SameShape(B); err != nil {
		return 0, Decorate(err, "Grid.Dot")
	}
	return floats.Dot(G.data, B.data), nil
}

//Roll returns a new grid where the value at voxel i is the value of G at voxel
//i-shift, wrapping around. The lattice is not changed.
func (G *Grid) Roll(shift [3]int) *Grid {
	r := G.Copy()
	nx, ny, nz := G.Dims[0], G.Dims[1], G.Dims[2]
	for ix := 0; ix < nx; ix++ {
		jx := mod(ix+shift[0], nx)
		for iy := 0; iy < ny; iy++ {
			jy := mod(iy+shift[1], ny)
			for iz := 0; iz < nz; iz++ {
				jz := mod(iz+shift[2], nz)
				src := G.Index(ix, iy, iz) * G.ncomp
				dst := r.Index(jx, jy, jz) * G.ncomp
				copy(r.data[dst:dst+G.ncomp], G.data[src:src+G.ncomp])
			}
		}
	}
	return r
}

//extended returns an empty grid with dims+pad voxels and the cell vectors
//stretched accordingly, so the spacing is kept.
func (G *Grid) extended(pad [3]int) *Grid {
	dims := [3]int{G.Dims[0] + pad[0], G.Dims[1] + pad[1], G.Dims[2] + pad[2]}
	lvec := G.Lvec.Clone()
	for axis := 0; axis < 3; axis++ {
		f := float64(dims[axis]) / float64(G.Dims[axis])
		for k := 0; k < 3; k++ {
			lvec.Set(axis+1, k, lvec.At(axis+1, k)*f)
		}
	}
	return &Grid{Dims: dims, Lvec: lvec, Header: G.Header, ncomp: G.ncomp, data: make([]float64, dims[0]*dims[1]*dims[2]*G.ncomp)}
}

//PadZeros returns a grid with pad[i] zero voxels appended along each axis i.
//Used to remove the periodic wrap-around of a sample potential.
func (G *Grid) PadZeros(pad [3]int) *Grid {
	r := G.extended(pad)
	G.each(func(ix, iy, iz int) {
		src := G.Index(ix, iy, iz) * G.ncomp
		dst := r.Index(ix, iy, iz) * G.ncomp
		copy(r.data[dst:dst+G.ncomp], G.data[src:src+G.ncomp])
	})
	return r
}

//PadWrapped returns a grid with pad[i] zero voxels inserted in the middle of each
//axis i. For a field centered at voxel zero with negative offsets wrapped to the
//end of the axes (a tip kernel), the offsets of every value are kept.
func (G *Grid) PadWrapped(pad [3]int) *Grid {
	r := G.extended(pad)
	half := [3]int{(G.Dims[0] + 1) / 2, (G.Dims[1] + 1) / 2, (G.Dims[2] + 1) / 2}
	G.each(func(ix, iy, iz int) {
		j := [3]int{ix, iy, iz}
		for axis := 0; axis < 3; axis++ {
			if j[axis] >= half[axis] {
				j[axis] += pad[axis]
			}
		}
		src := G.Index(ix, iy, iz) * G.ncomp
		dst := r.Index(j[0], j[1], j[2]) * G.ncomp
		copy(r.data[dst:dst+G.ncomp], G.data[src:src+G.ncomp])
	})
	return r
}

//Crop returns a grid with the first dims voxels of G along each axis. The cell
//vectors are shrunk so the spacing is kept.
func (G *Grid) Crop(dims [3]int) (*Grid, error) {
	for i, v := range dims {
		if v <= 0 || v > G.Dims[i] {
			return nil, NewError(ErrShapeMismatch, "Grid.Crop", "can't crop a %v grid to %v", G.Dims, dims)
		}
	}
	lvec := G.Lvec.Clone()
	for axis := 0; axis < 3; axis++ {
		f := float64(dims[axis]) / float64(G.Dims[axis])
		for k := 0; k < 3; k++ {
			lvec.Set(axis+1, k, lvec.At(axis+1, k)*f)
		}
	}
	r := &Grid{Dims: dims, Lvec: lvec, Header: G.Header, ncomp: G.ncomp, data: make([]float64, dims[0]*dims[1]*dims[2]*G.ncomp)}
	r.each(func(ix, iy, iz int) {
		src := G.Index(ix, iy, iz) * G.ncomp
		dst := r.Index(ix, iy, iz) * G.ncomp
		copy(r.data[dst:dst+G.ncomp], G.data[src:src+G.ncomp])
	})
	return r, nil
}

//ScaleSlices multiplies every xy slice iz of G by f(iz), in place.
func (G *Grid) ScaleSlices(f func(iz int) float64) {
	fs := make([]float64, G.Dims[2])
	for iz := range fs {
		fs[iz] = f(iz)
	}
	for i := 0; i < G.Len(); i++ {
		s := fs[i%G.Dims[2]]
		for c := 0; c < G.ncomp; c++ {
			G.data[i*G.ncomp+c] *= s
		}
	}
}

//Tilt rotates every vector of a vector field by angle radians around the
//y (scan) axis, in place. Panics for scalar grids.
func (G *Grid) Tilt(angle float64) {
	if angle == 0 {
		return
	}
	G.Vecs().Rotate(v3.RotationY(angle))
}

func (G *Grid) each(f func(ix, iy, iz int)) {
	for ix := 0; ix < G.Dims[0]; ix++ {
		for iy := 0; iy < G.Dims[1]; iy++ {
			for iz := 0; iz < G.Dims[2]; iz++ {
				f(ix, iy, iz)
			}
		}
	}
}

func (G *Grid) String() string {
	kind := "scalar"
	if G.IsVector() {
		kind = "vector"
	}
	return fmt.Sprintf("%s grid %dx%dx%d, origin %v", kind, G.Dims[0], G.Dims[1], G.Dims[2], G.Origin())
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
