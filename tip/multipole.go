/*
 * multipole.go, part of goElFF.
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

package tip

import (
	"math"
	"sort"

	elff "github.com/rmera/elff"
)

//angular returns the angular factor of a multipole term at the displacement
//x,y,z, for a Gaussian of width sigma. Each factor P is divided by <P^2>
//over the Gaussian, so the moment ∫P·rho of a term equals its coefficient.
type angular func(x, y, z, s2 float64) float64

var moments = map[string]angular{
	"s":  func(x, y, z, s2 float64) float64 { return 1 },
	"px": func(x, y, z, s2 float64) float64 { return x / s2 },
	"py": func(x, y, z, s2 float64) float64 { return y / s2 },
	"pz": func(x, y, z, s2 float64) float64 { return z / s2 },
	"dz2": func(x, y, z, s2 float64) float64 {
		return (2*z*z - x*x - y*y) / (12 * s2 * s2)
	},
	"dx2y2": func(x, y, z, s2 float64) float64 { return (x*x - y*y) / (4 * s2 * s2) },
	"dxy":   func(x, y, z, s2 float64) float64 { return x * y / (s2 * s2) },
	"dxz":   func(x, y, z, s2 float64) float64 { return x * z / (s2 * s2) },
	"dyz":   func(x, y, z, s2 float64) float64 { return y * z / (s2 * s2) },
}

//Moments returns the sorted names of the supported multipole moments.
func Moments() []string {
	ret := make([]string, 0, len(moments))
	for k := range moments {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//Multipole is an analytic tip: a sum of multipole terms with a common
//Gaussian decay exp(-r^2/2 Sigma^2). Tilt rotates the tip around the y axis,
//in radians.
type Multipole struct {
	Moments map[string]float64
	Sigma   float64
	Tilt    float64
}

func (M *Multipole) check() error {
	if M.Sigma <= 0 {
		return elff.NewError(elff.ErrInvalidDensityRequest, "Multipole.check", "non-positive sigma %g for a multipole tip", M.Sigma)
	}
	for k := range M.Moments {
		if _, ok := moments[k]; !ok {
			return elff.NewError(elff.ErrUnknownMoment, "Multipole.check", "moment %q not supported, use one of %v", k, Moments())
		}
	}
	return nil
}

//Density returns the multipole charges with the tip centre at voxel zero.
func (M *Multipole) Density(geom *elff.Grid) (*elff.Grid, error) {
	r, err := MultipoleGrid(geom, M)
	if err != nil {
		return nil, elff.Decorate(err, "Multipole.Density")
	}
	return centre(r), nil
}

//MultipoleGrid samples the multipole M on the geometry of geom, centred on
//the voxel at the middle of the grid (n/2 along each axis). The values
//are charges per voxel. The Gaussian is normalized so it adds up to 1 on the grid,
//thus the total charge of the "s" term is exactly its coefficient.
func MultipoleGrid(geom *elff.Grid, M *Multipole) (*elff.Grid, error) {
	if err := M.check(); err != nil {
		return nil, elff.Decorate(err, "MultipoleGrid")
	}
	r, err := elff.NewGrid(geom.Dims, geom.Lvec.Clone(), 1)
	if err != nil {
		return nil, elff.Decorate(err, "MultipoleGrid")
	}
	r.Header = geom.Header
	s2 := M.Sigma * M.Sigma
	g := make([]float64, r.Len())
	pos := make([][3]float64, r.Len())
	c, s := math.Cos(M.Tilt), math.Sin(M.Tilt)
	var gsum float64
	eachOffset(r, func(i int, d [3]float64) {
		//the density of a tilted tip at d is that of the upright tip at R^-1 d
		x := c*d[0] - s*d[2]
		z := s*d[0] + c*d[2]
		pos[i] = [3]float64{x, d[1], z}
		g[i] = math.Exp(-(d[0]*d[0] + d[1]*d[1] + d[2]*d[2]) / (2 * s2))
		gsum += g[i]
	})
	data := r.Data()
	for name, coef := range M.Moments {
		if coef == 0 {
			continue
		}
		f := moments[name]
		for i, p := range pos {
			data[i] += coef * f(p[0], p[1], p[2], s2) * g[i] / gsum
		}
	}
	return r, nil
}
