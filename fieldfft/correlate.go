/*
 * correlate.go, part of goElFF.
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
	"math"

	elff "github.com/rmera/elff"
	v3 "github.com/rmera/elff/v3"
)

//Correlate computes the interaction energy between the field V and the charge
//distribution rho, for every displacement R of rho:
//
//	E(R) = Σ_r rho(r-R) V(r)
//
//and the force F(R) = -∇E(R). rho contains charges per voxel (not densities)
//and must be centered at voxel zero, with negative offsets wrapped to the end of
//each axis. The correlation is done via the convolution theorem, so the grids
//are treated as periodic. Pad V with zeros beforehand to avoid that.
//
//rho can be a scalar or a vector field (3 components). For a vector rho the
//correlation is done for each component and the results are added: against
//the same scalar V, or against the matching component of a vector V. The
//gradient is taken in Fourier space. The energy grid is only returned if
//doEnergy is true.
func Correlate(V, rho *elff.Grid, doEnergy bool) (force, energy *elff.Grid, err error) {
	if V.Dims != rho.Dims {
		return nil, nil, elff.NewError(elff.ErrShapeMismatch, "Correlate", "grid dimensions %v and %v differ", V.Dims, rho.Dims)
	}
	if V.Components() != rho.Components() && V.IsVector() {
		return nil, nil, elff.NewError(elff.ErrShapeMismatch, "Correlate", "a vector field can only be correlated with another vector field")
	}
	fft := NewFFT3(V.Dims)
	spec, err := crossSpectrum(fft, V, rho)
	if err != nil {
		return nil, nil, elff.Decorate(err, "Correlate")
	}
	force, err = gradient(fft, V, spec, -1)
	if err != nil {
		return nil, nil, elff.Decorate(err, "Correlate")
	}
	force.Header = V.Header
	if doEnergy {
		fft.Inverse(spec)
		energy, _ = elff.NewGrid(V.Dims, V.Lvec.Clone(), 1)
		toReal(energy.Data(), spec, 1, 0)
		energy.Header = V.Header
	}
	return force, energy, nil
}

//Gradient returns the gradient of the scalar field E, computed in Fourier space.
func Gradient(E *elff.Grid) (*elff.Grid, error) {
	if E.IsVector() {
		return nil, elff.NewError(elff.ErrShapeMismatch, "Gradient", "the gradient of a vector field was requested")
	}
	fft := NewFFT3(E.Dims)
	spec := toComplex(make([]complex128, E.Len()), E.Data(), 1, 0)
	fft.Forward(spec)
	g, err := gradient(fft, E, spec, 1)
	if err != nil {
		return nil, elff.Decorate(err, "Gradient")
	}
	g.Header = E.Header
	return g, nil
}

//crossSpectrum returns Σ_c conj(FFT(rho_c))·FFT(V_c). A scalar V is
//transformed once and used for every component of rho.
func crossSpectrum(fft *FFT3, V, rho *elff.Grid) ([]complex128, error) {
	n := V.Len()
	nv, nr := V.Components(), rho.Components()
	spec := make([]complex128, n)
	vbuf := make([]complex128, n)
	rbuf := make([]complex128, n)
	for c := 0; c < nr; c++ {
		if c < nv {
			toComplex(vbuf, V.Data(), nv, c)
			fft.Forward(vbuf)
		}
		toComplex(rbuf, rho.Data(), nr, c)
		fft.Forward(rbuf)
		cmplxMulConjAdd(spec, vbuf, rbuf)
	}
	return spec, nil
}

//gradient returns sign*∇f as a vector grid, where spec is the Fourier transform of f,
//which is sampled on the geometry of G. spec is not modified.
func gradient(fft *FFT3, G *elff.Grid, spec []complex128, sign float64) (*elff.Grid, error) {
	k, err := waveVectors(G)
	if err != nil {
		return nil, err
	}
	ret, err := elff.NewGrid(G.Dims, G.Lvec.Clone(), 3)
	if err != nil {
		return nil, err
	}
	buf := make([]complex128, len(spec))
	for c := 0; c < 3; c++ {
		for i, v := range spec {
			ix, iy, iz := G.Voxel(i)
			kc := k[0][ix][c] + k[1][iy][c] + k[2][iz][c]
			//d/dx exp(ikx) = ik exp(ikx)
			buf[i] = v * complex(0, sign*kc)
		}
		fft.Inverse(buf)
		toReal(ret.Data(), buf, 3, c)
	}
	return ret, nil
}

//waveVectors returns, for each axis, the contribution of each index along that
//axis to the wave vector: 2π m b_axis, where m is the signed frequency and b_axis
//the reciprocal vector of the axis (a column of the inverse cell matrix).
//The Nyquist frequency of even axes is set to zero, so the derivative of a real
//field stays real.
func waveVectors(G *elff.Grid) ([3][][3]float64, error) {
	var k [3][][3]float64
	inv, err := v3.Inverse3(G.Cell())
	if err != nil {
		return k, elff.NewError(elff.ErrShapeMismatch, "waveVectors", "the cell of the grid is singular: %v", err)
	}
	for axis := 0; axis < 3; axis++ {
		n := G.Dims[axis]
		b := [3]float64{inv.At(0, axis), inv.At(1, axis), inv.At(2, axis)}
		k[axis] = make([][3]float64, n)
		for i := 0; i < n; i++ {
			if n%2 == 0 && i == n/2 {
				continue
			}
			m := 2 * math.Pi * float64(elff.FreqIndex(i, n))
			k[axis][i] = [3]float64{m * b[0], m * b[1], m * b[2]}
		}
	}
	return k, nil
}
