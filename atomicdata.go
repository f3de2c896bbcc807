/*
 * atomicdata.go, part of goElFF.
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

//Element symbols, indexed by atomic number. Index 0 is a dummy atom.
var elementSymbols = []string{
	"X",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
}

var symbolZ map[string]int

func init() {
	symbolZ = make(map[string]int, len(elementSymbols))
	for i, v := range elementSymbols {
		symbolZ[v] = i
	}
}

//SymbolZ returns the atomic number for an element symbol, and whether
//the symbol is known.
func SymbolZ(symbol string) (int, bool) {
	z, ok := symbolZ[symbol]
	return z, ok
}

//ZSymbol returns the element symbol for an atomic number, and whether
//the atomic number is known.
func ZSymbol(z int) (string, bool) {
	if z < 0 || z >= len(elementSymbols) {
		return "", false
	}
	return elementSymbols[z], true
}

//A map for assigning the number of valence electrons to elements.
//These are the counts of the usual plane-wave pseudopotentials, i.e. what
//the DFT code treats explicitly. The rest is core charge.
var symbolValence = map[string]int{
	"H":  1,
	"He": 2,
	"Li": 1,
	"Be": 2,
	"B":  3,
	"C":  4,
	"N":  5,
	"O":  6,
	"F":  7,
	"Ne": 8,
	"Na": 1,
	"Mg": 2,
	"Al": 3,
	"Si": 4,
	"P":  5,
	"S":  6,
	"Cl": 7,
	"Ar": 8,
	"K":  1,
	"Ca": 2,
	"Ti": 4,
	"Cr": 6,
	"Mn": 7,
	"Fe": 8,
	"Co": 9,
	"Ni": 10,
	"Cu": 11,
	"Zn": 12,
	"Ga": 3,
	"Ge": 4,
	"Se": 6,
	"Br": 7,
	"Kr": 8,
	"Pd": 10,
	"Ag": 11,
	"Sn": 4,
	"I":  7,
	"Xe": 8,
	"W":  6,
	"Ir": 9,
	"Pt": 10,
	"Au": 11,
	"Pb": 4,
}

//ValenceTable maps element symbols to their number of valence electrons.
type ValenceTable map[string]int

//DefaultValenceTable returns a new copy of the built-in valence table.
func DefaultValenceTable() ValenceTable {
	r := make(ValenceTable, len(symbolValence))
	for k, v := range symbolValence {
		r[k] = v
	}
	return r
}

//Merge returns a new table with the entries of V, overwritten by those of over.
func (V ValenceTable) Merge(over map[string]int) ValenceTable {
	r := make(ValenceTable, len(V)+len(over))
	for k, v := range V {
		r[k] = v
	}
	for k, v := range over {
		r[k] = v
	}
	return r
}

//CoreCharge returns the number of core electrons of the element, i.e.
//its atomic number minus its valence electrons.
func (V ValenceTable) CoreCharge(symbol string) (int, error) {
	val, ok := V[symbol]
	if !ok {
		return 0, NewError(ErrMissingValenceData, "ValenceTable.CoreCharge", "no valence electrons given for element %q", symbol)
	}
	z, ok := SymbolZ(symbol)
	if !ok {
		return 0, NewError(ErrMissingValenceData, "ValenceTable.CoreCharge", "unknown element %q", symbol)
	}
	if val > z || val < 0 {
		return 0, NewError(ErrMissingValenceData, "ValenceTable.CoreCharge", "%d valence electrons given for %s (Z=%d)", val, symbol, z)
	}
	return z - val, nil
}
