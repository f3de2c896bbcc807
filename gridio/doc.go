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

/*Package gridio reads and writes the volumetric grid files used by goElFF:
XCrySDen XSF files (3D data grids) and Gaussian cube files.

Files ending in .zst or .gz are decompressed on the fly, and output can be
compressed the same way. Cube files store lengths in bohr and potentials in
Hartree, so the readers convert them to Å and eV (or e/Å³ for densities),
depending on the elff.Quantity requested. XSF files are taken as they are.

Vector fields are written as three scalar files, name_x, name_y and name_z.*/
package gridio
