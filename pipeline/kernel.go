/*
 * kernel.go, part of goElFF.
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

package pipeline

import (
	elff "github.com/rmera/elff"
	"github.com/rmera/elff/tip"
)

//paddedKernel samples a tip on the geometry of the sample, geom, and
//then inserts pad zero voxels in the middle of each axis, so it can be
//correlated with a sample padded with PadZeros.
type paddedKernel struct {
	k    tip.Kernel
	geom *elff.Grid
	pad  [3]int
}

func (K *paddedKernel) padded() bool {
	return K.pad != [3]int{}
}

//Density ignores everything in g but its dimensions, which must be
//those of the padded sample.
func (K *paddedKernel) Density(g *elff.Grid) (*elff.Grid, error) {
	want := [3]int{K.geom.Dims[0] + K.pad[0], K.geom.Dims[1] + K.pad[1], K.geom.Dims[2] + K.pad[2]}
	if g.Dims != want {
		return nil, elff.NewError(elff.ErrShapeMismatch, "paddedKernel.Density", "tip for a %v grid requested, but the padded sample is %v", g.Dims, want)
	}
	rho, err := K.k.Density(K.geom)
	if err != nil {
		return nil, elff.Decorate(err, "paddedKernel.Density")
	}
	if !K.padded() {
		return rho, nil
	}
	return rho.PadWrapped(K.pad), nil
}
