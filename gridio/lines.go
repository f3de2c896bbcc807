/*
 * lines.go, part of goElFF.
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

package gridio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	elff "github.com/rmera/elff"
)

//lines reads a text file one line at a time, keeping track of the
//line number for the error messages.
type lines struct {
	r       *bufio.Reader
	n       int
	pending []string //fields of data lines not yet consumed
}

func newLines(r io.Reader) *lines {
	return &lines{r: bufio.NewReaderSize(r, 1<<16)}
}

//next returns the next line without the line break. It returns io.EOF only
//when there is nothing left.
func (L *lines) next() (string, error) {
	s, err := L.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && s != "" {
			L.n++
			return strings.TrimRight(s, "\r\n"), nil
		}
		return "", err
	}
	L.n++
	return strings.TrimRight(s, "\r\n"), nil
}

//fields returns the fields of the next non-empty line.
func (L *lines) fields() ([]string, error) {
	for {
		s, err := L.next()
		if err != nil {
			return nil, err
		}
		f := strings.Fields(s)
		if len(f) > 0 {
			return f, nil
		}
	}
}

//floats reads exactly len(dst) numbers, spread over as many lines as needed.
func (L *lines) floats(dst []float64) error {
	for i := range dst {
		if len(L.pending) == 0 {
			f, err := L.fields()
			if err != nil {
				return L.errorf("reading value %d of %d: %v", i, len(dst), unexpected(err))
			}
			L.pending = f
		}
		v, err := strconv.ParseFloat(L.pending[0], 64)
		if err != nil {
			return L.errorf("can't parse value %q: %v", L.pending[0], err)
		}
		dst[i] = v
		L.pending = L.pending[1:]
	}
	L.pending = nil
	return nil
}

//vector reads a line with at least 3 numbers, starting at field from.
func (L *lines) vector(from int) ([3]float64, []string, error) {
	var v [3]float64
	f, err := L.fields()
	if err != nil {
		return v, nil, L.errorf("%v", unexpected(err))
	}
	v, err = parseVec(f, from)
	if err != nil {
		return v, nil, L.errorf("%v", err)
	}
	return v, f, nil
}

func (L *lines) errorf(format string, args ...interface{}) error {
	return elff.NewError(elff.ErrFormat, "gridio", "line %d: %s", L.n, fmt.Sprintf(format, args...))
}

func parseVec(f []string, from int) ([3]float64, error) {
	var v [3]float64
	if len(f) < from+3 {
		return v, fmt.Errorf("%d fields where at least %d were expected", len(f), from+3)
	}
	for i := 0; i < 3; i++ {
		var err error
		v[i], err = strconv.ParseFloat(f[from+i], 64)
		if err != nil {
			return v, err
		}
	}
	return v, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

//values writes the numbers in vals, perline of them in each line.
func values(w *bufio.Writer, vals []float64, perline int) error {
	for i, v := range vals {
		w.WriteString(" ")
		w.WriteString(strconv.FormatFloat(v, 'E', 8, 64))
		if (i+1)%perline == 0 || i == len(vals)-1 {
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return nil
}

//atomFromField builds an atom from a symbol or an atomic number.
func atomFromField(s string) (*elff.Atom, error) {
	if z, err := strconv.Atoi(s); err == nil {
		if _, ok := elff.ZSymbol(z); !ok {
			return nil, fmt.Errorf("unknown atomic number %d", z)
		}
		return elff.NewAtom("", z), nil
	}
	//Symbols are sometimes written in capitals, or with labels (C1, Cu_surf).
	i := 0
	for i < len(s) && unicode.IsLetter(rune(s[i])) {
		i++
	}
	sym := s[:i]
	if len(sym) > 0 {
		sym = strings.ToUpper(sym[:1]) + strings.ToLower(sym[1:])
	}
	if _, ok := elff.SymbolZ(sym); !ok {
		return nil, fmt.Errorf("unknown element %q", s)
	}
	return elff.NewAtom(sym, 0), nil
}
