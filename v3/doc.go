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

/*Package v3 implements a Matrix type representing a row-major Nx3 matrix.
In goElFF a v3.Matrix holds any list of cartesian vectors: the origin and cell
vectors of a grid, the coordinates of the atoms in a grid header, and the
per-voxel vectors of a force field (one row per voxel).
It is based on gonum's Dense type, with the restriction of a fixed number of
columns and a few additional functions that were found useful for the purposes
of goElFF.
*/
package v3
