/*
 * fieldfft_test.go, part of goElFF.
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

package fieldfft

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	elff "github.com/rmera/elff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxGrid(Te *testing.T, dims [3]int, side [3]float64, ncomp int) *elff.Grid {
	l := elff.Lattice([3]float64{}, [3]float64{side[0], 0, 0}, [3]float64{0, side[1], 0}, [3]float64{0, 0, side[2]})
	G, err := elff.NewGrid(dims, l, ncomp)
	require.NoError(Te, err)
	return G
}

func randomFill(G *elff.Grid, seed int64) {
	r := rand.New(rand.NewSource(seed))
	for i := range G.Data() {
		G.Data()[i] = r.Float64() - 0.5
	}
}

func TestFFT3AgainstNaiveDFT(Te *testing.T) {
	dims := [3]int{3, 4, 5}
	n := dims[0] * dims[1] * dims[2]
	r := rand.New(rand.NewSource(1))
	data := make([]complex128, n)
	for i := range data {
		data[i] = complex(r.Float64(), r.Float64())
	}
	orig := append([]complex128(nil), data...)
	F := NewFFT3(dims)
	F.Forward(data)
	//naive check of a couple of coefficients
	for _, m := range [][3]int{{0, 0, 0}, {1, 2, 3}, {2, 3, 4}} {
		var sum complex128
		for ix := 0; ix < dims[0]; ix++ {
			for iy := 0; iy < dims[1]; iy++ {
				for iz := 0; iz < dims[2]; iz++ {
					ph := -2 * math.Pi * (float64(m[0]*ix)/float64(dims[0]) + float64(m[1]*iy)/float64(dims[1]) + float64(m[2]*iz)/float64(dims[2]))
					sum += orig[(ix*dims[1]+iy)*dims[2]+iz] * cmplx.Exp(complex(0, ph))
				}
			}
		}
		got := data[(m[0]*dims[1]+m[1])*dims[2]+m[2]]
		assert.InDelta(Te, real(sum), real(got), 1e-9)
		assert.InDelta(Te, imag(sum), imag(got), 1e-9)
	}
	F.Inverse(data)
	for i := range data {
		assert.InDelta(Te, real(orig[i]), real(data[i]), 1e-12)
		assert.InDelta(Te, imag(orig[i]), imag(data[i]), 1e-12)
	}
}

func TestZeroOffsetIsDotProduct(Te *testing.T) {
	V := boxGrid(Te, [3]int{4, 6, 5}, [3]float64{4, 6, 5}, 1)
	rho := boxGrid(Te, [3]int{4, 6, 5}, [3]float64{4, 6, 5}, 1)
	randomFill(V, 2)
	randomFill(rho, 3)
	_, E, err := Correlate(V, rho, true)
	require.NoError(Te, err)
	dot, err := V.Dot(rho)
	require.NoError(Te, err)
	assert.InDelta(Te, dot, E.At(0, 0, 0), 1e-10)
}

func TestEnergyMatchesBruteForce(Te *testing.T) {
	dims := [3]int{3, 4, 2}
	V := boxGrid(Te, dims, [3]float64{3, 4, 2}, 1)
	rho := boxGrid(Te, dims, [3]float64{3, 4, 2}, 1)
	randomFill(V, 4)
	randomFill(rho, 5)
	_, E, err := Correlate(V, rho, true)
	require.NoError(Te, err)
	for i := 0; i < V.Len(); i++ {
		Rx, Ry, Rz := V.Voxel(i)
		var want float64
		for j := 0; j < V.Len(); j++ {
			x, y, z := V.Voxel(j)
			s := rho.At((x-Rx+dims[0])%dims[0], (y-Ry+dims[1])%dims[1], (z-Rz+dims[2])%dims[2])
			want += s * V.At(x, y, z)
		}
		assert.InDelta(Te, want, E.At(Rx, Ry, Rz), 1e-10)
	}
}

func TestUniformPotentialGivesNoForce(Te *testing.T) {
	V := boxGrid(Te, [3]int{8, 6, 10}, [3]float64{8, 6, 10}, 1)
	rho := boxGrid(Te, [3]int{8, 6, 10}, [3]float64{8, 6, 10}, 1)
	for i := range V.Data() {
		V.Data()[i] = 3.7
	}
	randomFill(rho, 6)
	//normalize the kernel
	s := rho.Sum()
	rho.Scale(1 / s)
	F, E, err := Correlate(V, rho, true)
	require.NoError(Te, err)
	for _, v := range F.Data() {
		assert.InDelta(Te, 0, v, 1e-10)
	}
	assert.InDelta(Te, 3.7, E.At(3, 2, 1), 1e-10)
}

//A point kernel at voxel zero just samples the potential, so the force
//is the analytic negative gradient of V.
func TestPointKernelGivesGradient(Te *testing.T) {
	dims := [3]int{16, 12, 20}
	L := [3]float64{8, 6, 10}
	V := boxGrid(Te, dims, L, 1)
	rho := boxGrid(Te, dims, L, 1)
	rho.Set(0, 0, 0, 1)
	kx, kz := 2*math.Pi/L[0], 2*2*math.Pi/L[2]
	for i := 0; i < V.Len(); i++ {
		ix, iy, iz := V.Voxel(i)
		p := V.Position(float64(ix), float64(iy), float64(iz))
		V.Set(ix, iy, iz, math.Sin(kx*p[0])+0.5*math.Cos(kz*p[2]))
	}
	F, E, err := Correlate(V, rho, true)
	require.NoError(Te, err)
	for i := 0; i < V.Len(); i += 7 {
		ix, iy, iz := V.Voxel(i)
		p := V.Position(float64(ix), float64(iy), float64(iz))
		f := F.VecAt(ix, iy, iz)
		assert.InDelta(Te, -kx*math.Cos(kx*p[0]), f[0], 1e-9)
		assert.InDelta(Te, 0, f[1], 1e-9)
		assert.InDelta(Te, 0.5*kz*math.Sin(kz*p[2]), f[2], 1e-9)
		assert.InDelta(Te, V.At(ix, iy, iz), E.At(ix, iy, iz), 1e-9)
	}
}

//The force is minus the gradient of the energy: check it against central
//differences of the energy grid.
func TestForceIsMinusEnergyGradient(Te *testing.T) {
	dims := [3]int{32, 24, 32}
	L := [3]float64{8, 6, 8}
	V := boxGrid(Te, dims, L, 1)
	rho := boxGrid(Te, dims, L, 1)
	for i := 0; i < V.Len(); i++ {
		ix, iy, iz := V.Voxel(i)
		p := V.Position(float64(ix), float64(iy), float64(iz))
		V.Set(ix, iy, iz, math.Sin(2*math.Pi*p[0]/L[0])*math.Cos(2*math.Pi*p[1]/L[1])+math.Sin(2*math.Pi*p[2]/L[2]))
	}
	//a small blob around voxel zero
	for _, d := range [][3]int{{0, 0, 0}, {1, 0, 0}, {31, 0, 0}, {0, 0, 1}, {0, 23, 0}} {
		rho.Set(d[0], d[1], d[2], 0.2)
	}
	F, E, err := Correlate(V, rho, true)
	require.NoError(Te, err)
	for axis := 0; axis < 3; axis++ {
		h := L[axis] / float64(dims[axis])
		for i := 0; i < V.Len(); i += 37 {
			idx := [3]int{}
			idx[0], idx[1], idx[2] = V.Voxel(i)
			up, down := idx, idx
			up[axis] = (up[axis] + 1) % dims[axis]
			down[axis] = (down[axis] - 1 + dims[axis]) % dims[axis]
			cd := (E.At(up[0], up[1], up[2]) - E.At(down[0], down[1], down[2])) / (2 * h)
			f := F.VecAt(idx[0], idx[1], idx[2])
			assert.InDelta(Te, -cd, f[axis], 0.05)
		}
	}
}

func TestSkewedCellGradient(Te *testing.T) {
	dims := [3]int{12, 12, 12}
	l := elff.Lattice([3]float64{1, 2, 3}, [3]float64{6, 0, 0}, [3]float64{3, 5, 0}, [3]float64{0, 1, 7})
	E, err := elff.NewGrid(dims, l, 1)
	require.NoError(Te, err)
	G, err := Gradient(E)
	require.NoError(Te, err)
	for _, v := range G.Data() {
		assert.InDelta(Te, 0, v, 1e-12)
	}
	//a plane wave along the first reciprocal vector: f = cos(2π s) where s is
	//the fractional coordinate along a.
	for i := 0; i < E.Len(); i++ {
		ix, iy, iz := E.Voxel(i)
		E.Set(ix, iy, iz, math.Cos(2*math.Pi*float64(ix)/float64(dims[0])))
	}
	G, err = Gradient(E)
	require.NoError(Te, err)
	//The reciprocal vector b1 satisfies a1·b1=1 and is normal to a2 and a3.
	//b1 = (a2 x a3)/V
	a2 := [3]float64{3, 5, 0}
	a3 := [3]float64{0, 1, 7}
	cr := [3]float64{a2[1]*a3[2] - a2[2]*a3[1], a2[2]*a3[0] - a2[0]*a3[2], a2[0]*a3[1] - a2[1]*a3[0]}
	vol := 6 * cr[0]
	for i := 0; i < E.Len(); i += 11 {
		ix, iy, iz := E.Voxel(i)
		s := 2 * math.Pi * float64(ix) / float64(dims[0])
		g := G.VecAt(ix, iy, iz)
		for c := 0; c < 3; c++ {
			assert.InDelta(Te, -2*math.Pi*cr[c]/vol*math.Sin(s), g[c], 1e-9)
		}
	}
}

func TestVectorFieldsAreSummedPerComponent(Te *testing.T) {
	dims := [3]int{4, 4, 4}
	L := [3]float64{4, 4, 4}
	Vs := boxGrid(Te, dims, L, 1)
	rs := boxGrid(Te, dims, L, 1)
	randomFill(Vs, 7)
	randomFill(rs, 8)
	zero := boxGrid(Te, dims, L, 1)
	Vv, err := elff.VectorGrid(Vs, Vs, zero)
	require.NoError(Te, err)
	rv, err := elff.VectorGrid(rs, rs, zero)
	require.NoError(Te, err)
	Fs, Es, err := Correlate(Vs, rs, true)
	require.NoError(Te, err)
	Fv, Ev, err := Correlate(Vv, rv, true)
	require.NoError(Te, err)
	for i := range Es.Data() {
		assert.InDelta(Te, 2*Es.Data()[i], Ev.Data()[i], 1e-10)
	}
	for i := range Fs.Data() {
		assert.InDelta(Te, 2*Fs.Data()[i], Fv.Data()[i], 1e-10)
	}
}

func TestShapeMismatch(Te *testing.T) {
	V := boxGrid(Te, [3]int{4, 4, 4}, [3]float64{4, 4, 4}, 1)
	rho := boxGrid(Te, [3]int{4, 4, 5}, [3]float64{4, 4, 5}, 1)
	_, _, err := Correlate(V, rho, false)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, elff.ErrShapeMismatch))
	//a vector potential needs a vector kernel
	Vv := boxGrid(Te, [3]int{4, 4, 4}, [3]float64{4, 4, 4}, 3)
	_, _, err = Correlate(Vv, V.Copy(), false)
	assert.True(Te, errors.Is(err, elff.ErrShapeMismatch))
}

func TestScalarPotentialVectorKernel(Te *testing.T) {
	dims := [3]int{4, 3, 5}
	L := [3]float64{4, 3, 5}
	V := boxGrid(Te, dims, L, 1)
	rho := boxGrid(Te, dims, L, 3)
	randomFill(V, 9)
	randomFill(rho, 10)
	F, E, err := Correlate(V, rho, true)
	require.NoError(Te, err)
	require.NotNil(Te, E)
	assert.True(Te, F.IsVector())
	for i := 0; i < V.Len(); i++ {
		Rx, Ry, Rz := V.Voxel(i)
		var want float64
		for j := 0; j < V.Len(); j++ {
			x, y, z := V.Voxel(j)
			s := rho.VecAt((x-Rx+dims[0])%dims[0], (y-Ry+dims[1])%dims[1], (z-Rz+dims[2])%dims[2])
			want += (s[0] + s[1] + s[2]) * V.At(x, y, z)
		}
		assert.InDelta(Te, want, E.At(Rx, Ry, Rz), 1e-10)
	}
	//the force is that of the summed kernel
	sum := boxGrid(Te, dims, L, 1)
	for i := range sum.Data() {
		sum.Data()[i] = rho.Data()[3*i] + rho.Data()[3*i+1] + rho.Data()[3*i+2]
	}
	Fs, _, err := Correlate(V, sum, false)
	require.NoError(Te, err)
	for i, v := range Fs.Data() {
		assert.InDelta(Te, v, F.Data()[i], 1e-10)
	}
}

func TestEnergyOnlyWhenRequested(Te *testing.T) {
	V := boxGrid(Te, [3]int{2, 2, 2}, [3]float64{1, 1, 1}, 1)
	F, E, err := Correlate(V, V.Copy(), false)
	require.NoError(Te, err)
	assert.Nil(Te, E)
	assert.True(Te, F.IsVector())
}
