/*
 * matrix.go, part of goElFF.
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

package v3

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //Everything equal or less than this is considered zero.

//Matrix is a set of vectors in 3D space.
//Within the package it is understood that a "vector" is a row vector, i.e. the
//cartesian coordinates of a point in 3D space.
type Matrix struct {
	*mat.Dense
}

//Dense2Matrix wraps a Nx3 Dense. Panics if A does not have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
//The data slice is not copied, so the Matrix can be used as a view of it.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 || l == 0 {
		return nil, &Error{fmt.Sprintf("Input slice length %d not divisible by %d or empty", l, cols), []string{"NewMatrix"}}
	}
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//Vec returns a copy of the ith vector as an array.
func (F *Matrix) Vec(i int) [3]float64 {
	return [3]float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

//Clone returns a deep copy of F.
func (F *Matrix) Clone() *Matrix {
	return &Matrix{mat.DenseCopyOf(F.Dense)}
}

//Rotate applies the 3x3 rotation rot to every vector of F, in place.
//rot acts on column vectors, so each row r becomes (rot*r^T)^T.
func (F *Matrix) Rotate(rot mat.Matrix) {
	r, c := rot.Dims()
	if r != 3 || c != 3 {
		panic(ErrShape)
	}
	tmp := mat.NewDense(F.NVecs(), 3, nil)
	tmp.Mul(F.Dense, rot.T())
	F.Dense.Copy(tmp)
}

//Det returns the determinant of a 3x3 matrix. Panics if the matrix is not 3x3.
func Det(A mat.Matrix) float64 {
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	return (A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) - A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) + A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2)))
}

//Inverse3 returns the inverse of the 3x3 matrix A, or an error if A is singular.
func Inverse3(A mat.Matrix) (*mat.Dense, error) {
	if math.Abs(Det(A)) <= appzero {
		return nil, &Error{"Singular matrix", []string{"Inverse3"}}
	}
	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(A); err != nil {
		return nil, &Error{err.Error(), []string{"Inverse3"}}
	}
	return inv, nil
}

//RotationY returns the matrix for a rotation of angle radians around the Y axis.
func RotationY(angle float64) *mat.Dense {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

//Errors

//Error is the same as elff.Error but avoids a circular import.
type Error struct {
	message string
	deco    []string
}

//Error returns a string with an error message and the functions it came from.
func (err *Error) Error() string {
	return fmt.Sprintf("%s (%s)", err.message, strings.Join(err.deco, " <- "))
}

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix   = PanicMsg("goElFF/v3: A VecMatrix should have 3 columns")
	ErrDeterminant    = PanicMsg("goElFF/v3: Determinants are only available for 3x3 matrices")
	ErrShape          = PanicMsg("goElFF/v3: Dimension mismatch")
)
