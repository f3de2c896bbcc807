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

package tip

import (
	"sort"
	"sync"

	elff "github.com/rmera/elff"
)

//Kernel is a model of the charge distribution of a probe tip.
//Density returns the tip charge sampled on the geometry of geom, as charge
//per voxel (electrons count negative), with the tip centre at voxel (0,0,0) and
//negative offsets wrapped to the end of each axis. That is the layout
//fieldfft.Correlate expects.
type Kernel interface {
	Density(geom *elff.Grid) (*elff.Grid, error)
}

//LoadedDensity is a tip kernel built from a grid read from a file (a DFT
//electron density in e/Å^3, already centred at the origin of its cell).
type LoadedDensity struct {
	Rho *elff.Grid
}

//Density returns -Rho*dV, the per-voxel charge of the tip electrons.
func (L *LoadedDensity) Density(geom *elff.Grid) (*elff.Grid, error) {
	if L.Rho == nil {
		return nil, elff.NewError(elff.ErrInvalidDensityRequest, "LoadedDensity.Density", "no tip density loaded")
	}
	if geom.Dims != L.Rho.Dims {
		return nil, elff.NewError(elff.ErrShapeMismatch, "LoadedDensity.Density", "tip density %v, sample %v", L.Rho.Dims, geom.Dims)
	}
	r := L.Rho.Copy()
	r.Scale(-L.Rho.VoxelVolume())
	return r, nil
}

//Func is a charge density (e/Å^3) as a function of the displacement from the
//tip centre, in Å.
type Func func(x, y, z float64) float64

//Callable is a tip kernel given by a registered Go function.
type Callable struct {
	Name string
	F    Func
}

//Density samples the function around the grid midpoint and moves the
//centre to voxel zero.
func (C *Callable) Density(geom *elff.Grid) (*elff.Grid, error) {
	if C.F == nil {
		return nil, elff.NewError(elff.ErrInvalidDensityRequest, "Callable.Density", "tip function %q is nil", C.Name)
	}
	r, err := elff.NewGrid(geom.Dims, geom.Lvec.Clone(), 1)
	if err != nil {
		return nil, elff.Decorate(err, "Callable.Density")
	}
	dv := geom.VoxelVolume()
	eachOffset(r, func(i int, d [3]float64) {
		r.Data()[i] = C.F(d[0], d[1], d[2]) * dv
	})
	return centre(r), nil
}

var (
	regMu    sync.RWMutex
	registry = map[string]Func{}
)

//Register makes the tip function f available under name, so it can be
//selected from a parameter file. It panics if name is empty, f is nil, a name of
//a multipole moment, or already registered.
func Register(name string, f Func) {
	regMu.Lock()
	defer regMu.Unlock()
	if name == "" || f == nil {
		panic("goElFF/tip: Register called with an empty name or a nil function")
	}
	if _, ok := moments[name]; ok {
		panic("goElFF/tip: Register called with the name of a multipole moment: " + name)
	}
	if _, dup := registry[name]; dup {
		panic("goElFF/tip: Register called twice for " + name)
	}
	registry[name] = f
}

//Lookup returns the tip function registered under name.
func Lookup(name string) (Func, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

//Registered returns the sorted names of the registered tip functions.
func Registered() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	ret := make([]string, 0, len(registry))
	for k := range registry {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//Spec selects a tip kernel. The first non-empty of Density, Moments and
//Token is used. Token is either the name of a multipole moment (which
//gives a unit coefficient for it) or the name of a registered function.
type Spec struct {
	Density *elff.Grid
	Moments map[string]float64
	Token   string
	Sigma   float64
	Tilt    float64
}

//Build returns the kernel described by s, checking that it can be sampled
//on the geometry geom.
func Build(s Spec, geom *elff.Grid) (Kernel, error) {
	switch {
	case s.Density != nil:
		if s.Density.Dims != geom.Dims {
			return nil, elff.NewError(elff.ErrShapeMismatch, "tip.Build", "tip density %v, sample %v", s.Density.Dims, geom.Dims)
		}
		return &LoadedDensity{Rho: s.Density}, nil
	case len(s.Moments) > 0:
		m := &Multipole{Moments: s.Moments, Sigma: s.Sigma, Tilt: s.Tilt}
		if err := m.check(); err != nil {
			return nil, elff.Decorate(err, "tip.Build")
		}
		return m, nil
	case s.Token != "":
		if _, ok := moments[s.Token]; ok {
			m := &Multipole{Moments: map[string]float64{s.Token: 1.0}, Sigma: s.Sigma, Tilt: s.Tilt}
			if err := m.check(); err != nil {
				return nil, elff.Decorate(err, "tip.Build")
			}
			return m, nil
		}
		if f, ok := Lookup(s.Token); ok {
			return &Callable{Name: s.Token, F: f}, nil
		}
		return nil, elff.NewError(elff.ErrUnknownMoment, "tip.Build", "%q is neither a multipole moment nor a registered tip function", s.Token)
	}
	return nil, elff.NewError(elff.ErrInvalidDensityRequest, "tip.Build", "no tip model given")
}

//eachOffset calls f for every voxel of G with the cartesian displacement of the
//voxel from the voxel at the middle of the grid, (n/2) along each axis.
func eachOffset(G *elff.Grid, f func(i int, d [3]float64)) {
	var step [3][3]float64
	for axis := 0; axis < 3; axis++ {
		step[axis] = G.Spacing(axis)
	}
	for i := 0; i < G.Len(); i++ {
		ix, iy, iz := G.Voxel(i)
		idx := [3]float64{float64(ix - G.Dims[0]/2), float64(iy - G.Dims[1]/2), float64(iz - G.Dims[2]/2)}
		var d [3]float64
		for axis := 0; axis < 3; axis++ {
			for k := 0; k < 3; k++ {
				d[k] += idx[axis] * step[axis][k]
			}
		}
		f(i, d)
	}
}

//centre moves the grid midpoint to voxel zero.
func centre(G *elff.Grid) *elff.Grid {
	return G.Roll([3]int{-G.Dims[0] / 2, -G.Dims[1] / 2, -G.Dims[2] / 2})
}
