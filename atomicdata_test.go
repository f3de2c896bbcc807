/*
 * atomicdata_test.go, part of goElFF.
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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbols(Te *testing.T) {
	z, ok := SymbolZ("Ag")
	assert.True(Te, ok)
	assert.Equal(Te, 47, z)
	s, ok := ZSymbol(54)
	assert.True(Te, ok)
	assert.Equal(Te, "Xe", s)
	_, ok = ZSymbol(300)
	assert.False(Te, ok)
	a := NewAtom("", 8)
	assert.Equal(Te, "O", a.Symbol)
}

func TestCoreCharge(Te *testing.T) {
	V := DefaultValenceTable()
	c, err := V.CoreCharge("Cu")
	require.NoError(Te, err)
	assert.Equal(Te, 29-11, c)
	_, err = V.CoreCharge("Rn")
	assert.True(Te, errors.Is(err, ErrMissingValenceData))
	W := V.Merge(map[string]int{"Rn": 8, "Cu": 19})
	c, err = W.CoreCharge("Cu")
	require.NoError(Te, err)
	assert.Equal(Te, 10, c)
	_, err = W.CoreCharge("Rn")
	assert.NoError(Te, err)
	//the original is untouched
	_, err = V.CoreCharge("Rn")
	assert.Error(Te, err)
}

func TestErrorDecoration(Te *testing.T) {
	err := NewError(ErrFormat, "inner", "bad line %d", 3)
	out := Decorate(err, "outer")
	assert.True(Te, errors.Is(out, ErrFormat))
	assert.Equal(Te, []string{"inner", "outer"}, err.Decorate(""))
	assert.True(Te, err.Critical())
	plain := Decorate(errors.New("boom"), "caller")
	assert.Equal(Te, "caller: boom", plain.Error())
	assert.Nil(Te, Decorate(nil, "x"))
}
