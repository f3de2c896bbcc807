/*
 * handy.go, part of goElFF.
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

package elff

//Unit conversion factors.
const (
	Bohr2Angstrom = 0.529177210903
	Hartree2eV    = 27.211386245988
)

//FreqIndex returns the signed FFT frequency that corresponds to index i on an
//axis of n points: 0, 1, ..., n/2-1, -n/2, ..., -1 (the numpy fftfreq order).
func FreqIndex(i, n int) int {
	if i < (n+1)/2 {
		return i
	}
	return i - n
}
