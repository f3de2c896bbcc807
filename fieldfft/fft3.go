/*
 * fft3.go, part of goElFF.
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
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

//FFT3 is a plan for 3D complex Fourier transforms of data laid out with the
//last index running fastest. The transform is done one axis at a time,
//with gonum's 1D transforms.
type FFT3 struct {
	dims    [3]int
	strides [3]int
	plans   [3]*fourier.CmplxFFT
	line    []complex128
}

//NewFFT3 returns a plan for grids of the given dimensions.
func NewFFT3(dims [3]int) *FFT3 {
	F := &FFT3{dims: dims}
	F.strides = [3]int{dims[1] * dims[2], dims[2], 1}
	max := 0
	for i, n := range dims {
		//Equal lengths can share a plan.
		for j := 0; j < i; j++ {
			if dims[j] == n {
				F.plans[i] = F.plans[j]
			}
		}
		if F.plans[i] == nil {
			F.plans[i] = fourier.NewCmplxFFT(n)
		}
		if n > max {
			max = n
		}
	}
	F.line = make([]complex128, max)
	return F
}

//Len returns the number of points in a grid for this plan.
func (F *FFT3) Len() int {
	return F.dims[0] * F.dims[1] * F.dims[2]
}

//Forward replaces data with its discrete Fourier transform.
func (F *FFT3) Forward(data []complex128) {
	F.check(data)
	for axis := 2; axis >= 0; axis-- {
		F.axis(data, axis, false)
	}
}

//Inverse replaces data with its inverse discrete Fourier transform, including
//the 1/N normalization, so Inverse(Forward(x)) == x.
func (F *FFT3) Inverse(data []complex128) {
	F.check(data)
	for axis := 0; axis < 3; axis++ {
		F.axis(data, axis, true)
	}
	realScale(data, 1/float64(F.Len()))
}

func (F *FFT3) check(data []complex128) {
	if len(data) != F.Len() {
		panic(fmt.Sprintf("goElFF/fieldfft: %d points given to a plan for %v", len(data), F.dims))
	}
}

//axis transforms every line of data along the given axis.
func (F *FFT3) axis(data []complex128, axis int, inverse bool) {
	n := F.dims[axis]
	if n == 1 {
		return
	}
	stride := F.strides[axis]
	line := F.line[:n]
	plan := F.plans[axis]
	//The first point of each line is a point with a zero index along axis.
	for start := 0; start < len(data); start++ {
		if (start/stride)%n != 0 {
			continue
		}
		for i := range line {
			line[i] = data[start+i*stride]
		}
		if inverse {
			plan.Sequence(line, line)
		} else {
			plan.Coefficients(line, line)
		}
		for i, v := range line {
			data[start+i*stride] = v
		}
	}
}

//Helpers for slices of complex numbers.

func toComplex(dst []complex128, src []float64, stride, offset int) []complex128 {
	for i := range dst {
		dst[i] = complex(src[i*stride+offset], 0)
	}
	return dst
}

func toReal(dst []float64, src []complex128, stride, offset int) {
	for i, v := range src {
		dst[i*stride+offset] = real(v)
	}
}

func cmplxMulConjAdd(dst, a, b []complex128) {
	if len(dst) != len(a) || len(dst) != len(b) {
		panic(fmt.Sprintf("complex conjugate multiplication of slices: all slices should have the same len %d, %d, %d", len(dst), len(a), len(b)))
	}
	for i, v := range b {
		dst[i] += cmplx.Conj(v) * a[i]
	}
}

func realScale(dst []complex128, sc float64) {
	c := complex(sc, 0)
	for i, v := range dst {
		dst[i] = v * c
	}
}
