/*
 * gridio_test.go, part of goElFF.
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
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	elff "github.com/rmera/elff"
	v3 "github.com/rmera/elff/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(Te *testing.T) *elff.Grid {
	l := elff.Lattice([3]float64{0.5, -1, 2}, [3]float64{4, 0, 0}, [3]float64{1, 3, 0}, [3]float64{0, 0.5, 5})
	G, err := elff.NewGrid([3]int{4, 3, 5}, l, 1)
	require.NoError(Te, err)
	for i := range G.Data() {
		G.Data()[i] = math.Sin(float64(i)) * 1e-3 * float64(i)
	}
	c, err := v3.NewMatrix([]float64{1, 1, 1, 2.5, 0.3, 4})
	require.NoError(Te, err)
	G.Header, err = elff.NewHeader([]*elff.Atom{elff.NewAtom("O", 0), elff.NewAtom("Cu", 0)}, c, "a test grid", "second line")
	require.NoError(Te, err)
	return G
}

func assertSameGrid(Te *testing.T, want, got *elff.Grid, tol float64) {
	require.Equal(Te, want.Dims, got.Dims)
	for i := 0; i < 4; i++ {
		w, g := want.Lvec.Vec(i), got.Lvec.Vec(i)
		for k := range w {
			assert.InDelta(Te, w[k], g[k], 1e-6)
		}
	}
	for i, v := range want.Data() {
		assert.InDelta(Te, v, got.Data()[i], tol)
	}
	require.Equal(Te, want.Header.Len(), got.Header.Len())
	for i := 0; i < want.Header.Len(); i++ {
		assert.Equal(Te, want.Header.Atom(i).Symbol, got.Header.Atom(i).Symbol)
		w, g := want.Header.Coord(i), got.Header.Coord(i)
		for k := range w {
			assert.InDelta(Te, w[k], g[k], 1e-6)
		}
	}
}

func TestXSFRoundTrip(Te *testing.T) {
	G := testGrid(Te)
	var buf bytes.Buffer
	require.NoError(Te, XSF{}.WriteGrid(&buf, G, nil))
	//the periodic copies of the first points are written
	assert.Contains(Te, buf.String(), "   5 4 6\n")
	R, err := XSF{}.ReadGrid(&buf, elff.Potential)
	require.NoError(Te, err)
	assertSameGrid(Te, G, R, 1e-8)
	assert.Equal(Te, []string{"a test grid", "second line"}, R.Header.Comments)
}

func TestCubeRoundTrip(Te *testing.T) {
	G := testGrid(Te)
	var buf bytes.Buffer
	require.NoError(Te, Cube{}.WriteGrid(&buf, G, G.Header))
	R, err := Cube{}.ReadGrid(&buf, elff.Raw)
	require.NoError(Te, err)
	assertSameGrid(Te, G, R, 1e-8)
	assert.Equal(Te, 8, R.Header.Atom(0).Z)
}

const smallCube = `title
second
    1    0.000000    0.000000    1.000000
    2    1.000000    0.000000    0.000000
    2    0.000000    1.000000    0.000000
    3    0.000000    0.000000    1.000000
    1    0.000000    0.000000    0.000000    2.000000
 1 2 3
 4 5 6
 7 8 9 10 11 12
`

func TestCubeUnits(Te *testing.T) {
	V, err := Cube{}.ReadGrid(strings.NewReader(smallCube), elff.Potential)
	require.NoError(Te, err)
	assert.Equal(Te, [3]int{2, 2, 3}, V.Dims)
	assert.InDelta(Te, 2*elff.Bohr2Angstrom, V.Lvec.At(1, 0), 1e-12)
	assert.InDelta(Te, 3*elff.Bohr2Angstrom, V.Lvec.At(3, 2), 1e-12)
	assert.InDelta(Te, elff.Bohr2Angstrom, V.Origin()[2], 1e-12)
	assert.InDelta(Te, 6*elff.Hartree2eV, V.At(0, 1, 2), 1e-9)
	assert.InDelta(Te, 2*elff.Bohr2Angstrom, V.Header.Coord(0)[2], 1e-12)
	assert.Equal(Te, "H", V.Header.Atom(0).Symbol)

	rho, err := Cube{Angstrom: true}.ReadGrid(strings.NewReader(smallCube), elff.Density)
	require.NoError(Te, err)
	assert.InDelta(Te, 2, rho.Lvec.At(1, 0), 1e-12)
	assert.InDelta(Te, 12/math.Pow(elff.Bohr2Angstrom, 3), rho.At(1, 1, 2), 1e-9)

	_, err = Cube{}.ReadGrid(strings.NewReader(smallCube[:len(smallCube)-6]), elff.Raw)
	assert.True(Te, errors.Is(err, elff.ErrFormat))
}

const smallXSF = `# made by hand
ATOMS
 6  0.0 0.0 0.0
 H  1.0 0.0 0.0
BEGIN_BLOCK_DATAGRID_3D
 test
 BEGIN_DATAGRID_3D_test
 3 2 2
 0 0 0
 2 0 0
 0 1 0
 0 0 1
 1 2 1
 3 4 3
 5 6 5
 7 8 7
 END_DATAGRID_3D
END_BLOCK_DATAGRID_3D
`

func TestXSFGeneralGrid(Te *testing.T) {
	G, err := XSF{}.ReadGrid(strings.NewReader(smallXSF), elff.Density)
	require.NoError(Te, err)
	assert.Equal(Te, [3]int{2, 1, 1}, G.Dims)
	assert.Equal(Te, []float64{1, 2}, G.Data())
	assert.Equal(Te, 1.0, G.Spacing(0)[0])
	assert.Equal(Te, 2, G.Header.Len())
	assert.Equal(Te, "C", G.Header.Atom(0).Symbol)
	assert.Equal(Te, "H", G.Header.Atom(1).Symbol)

	_, err = XSF{}.ReadGrid(strings.NewReader("CRYSTAL\nPRIMVEC\n"), elff.Density)
	assert.True(Te, errors.Is(err, elff.ErrFormat))
}

func TestWriterAndLoader(Te *testing.T) {
	dir := Te.TempDir()
	G := testGrid(Te)
	F, err := elff.VectorGrid(G, G, G)
	require.NoError(Te, err)
	F.Data()[1] = 42
	for _, comp := range []string{"", "zst", "gz"} {
		for _, format := range []string{FormatXSF, FormatCube} {
			W := Writer{Dir: dir, Format: format, Compression: comp}
			require.NoError(Te, W.SaveVectorField("FFel", F, G.Header))
			require.NoError(Te, W.SaveScalarField("Eel", G, nil))
			for _, s := range []string{"_x", "_y", "_z"} {
				_, err := os.Stat(W.Path("FFel" + s))
				require.NoError(Te, err)
			}
			R, err := Loader{}.LoadGrid(W.Path("Eel"), elff.Raw)
			require.NoError(Te, err)
			assertSameGrid(Te, G, R, 1e-8)
			Ry, err := Loader{}.LoadGrid(W.Path("FFel_y"), elff.Raw)
			require.NoError(Te, err)
			assert.InDelta(Te, 42, Ry.Data()[0], 1e-10)
		}
	}
	assert.Equal(Te, filepath.Join(dir, "Eel.cube.zst"), Writer{Dir: dir, Format: "cube", Compression: "zst"}.Path("Eel"))

	err = Writer{Dir: dir, Format: "npy"}.SaveScalarField("Eel", G, nil)
	assert.True(Te, errors.Is(err, elff.ErrFormat))
	err = Writer{Dir: dir, Format: "xsf"}.SaveScalarField("Eel", F, nil)
	assert.True(Te, errors.Is(err, elff.ErrFormat))
	_, err = Loader{}.LoadGrid(filepath.Join(dir, "V.npy"), elff.Potential)
	assert.True(Te, errors.Is(err, elff.ErrFormat))
}

func TestRemoveField(Te *testing.T) {
	dir := Te.TempDir()
	G := testGrid(Te)
	F, err := elff.VectorGrid(G, G, G)
	require.NoError(Te, err)
	W := Writer{Dir: filepath.Join(dir, "out"), Format: FormatXSF, Compression: "zst"}
	require.NoError(Te, W.SaveVectorField("FFel", F, G.Header))
	require.NoError(Te, W.SaveScalarField("Eel", G, nil))
	require.NoError(Te, W.RemoveField("FFel"))
	require.NoError(Te, W.RemoveField("Eel"))
	for _, n := range []string{"FFel_x", "FFel_y", "FFel_z", "Eel"} {
		_, err := os.Stat(W.Path(n))
		assert.True(Te, errors.Is(err, os.ErrNotExist), n)
	}
	//never written
	assert.NoError(Te, W.RemoveField("FFkpfm_t0sV"))
}

func TestSplit(Te *testing.T) {
	for name, want := range map[string][2]string{
		"LOCPOT.xsf":      {"xsf", ""},
		"hartree.cube.gz": {"cube", "gz"},
		"tip.XSF.zst":     {"xsf", "zst"},
		"noext":           {"", ""},
	} {
		f, c := Split(name)
		assert.Equal(Te, want, [2]string{f, c}, name)
	}
}
