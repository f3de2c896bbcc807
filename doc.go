/*
 * doc.go, part of goElFF.
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

/*Package elff is the main package of the goElFF library. It provides the grid,
atom and header structures shared by the rest of the library, the error
types, and the tables of atomic data.

goElFF computes the electrostatic tip-sample force field used in simulated
atomic force microscopy. The sample's Hartree potential (from a DFT
calculation) is cross-correlated, via FFT, with the charge density of the
probe tip, which can be read from a file or built from an analytic multipole
model.

	**goElFF Capabilities**

    Reads and writes XSF and Gaussian cube grids, optionally zstd-compressed (package gridio).

    Correlates two grids in Fourier space, giving the interaction energy and
	its negative gradient, the force (package fieldfft).

    Builds tip kernels from densities, multipoles or user-registered
	functions (package tip).

    Removes core-electron densities from tip densities, taking care of the
	periodic images of the atoms (package coresub).

    Obtains KPFM linear-response force maps from calculations at two bias
	voltages (package kpfm).

    Runs the whole calculation from a set of parameters (package pipeline
	and the elff command).

Grids are periodic. The spacing along each axis is the cell vector divided by
the number of points, and the data is stored with the z index running fastest.
Vector fields are stored with the 3 components of each voxel together, and can
be viewed as a v3.Matrix with one row per voxel.*/
package elff
