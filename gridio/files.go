/*
 * files.go, part of goElFF.
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
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	elff "github.com/rmera/elff"
)

//Formats that can be read and written.
const (
	FormatXSF  = "xsf"
	FormatCube = "cube"
)

//Encoder writes a scalar grid in one file format.
type Encoder interface {
	WriteGrid(w io.Writer, G *elff.Grid, header *elff.Header) error
}

//Codec returns the reader/writer for a format name.
func Codec(format string, cube Cube) (elff.GridReader, Encoder, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case FormatXSF:
		return XSF{}, XSF{}, nil
	case FormatCube:
		return cube, cube, nil
	}
	return nil, nil, elff.NewError(elff.ErrFormat, "gridio.Codec", "unsupported grid format %q (use xsf or cube)", format)
}

//Split returns the grid format of a file name, from its extension, and the
//compression ("zst", "gz" or ""), if the name has a second extension for it.
func Split(name string) (format, compression string) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".zst", ".gz":
		compression = ext[1:]
		name = name[:len(name)-len(ext)]
		ext = strings.ToLower(filepath.Ext(name))
	}
	return strings.TrimPrefix(ext, "."), compression
}

//Loader loads grids from files, choosing the reader by the extension.
//".zst" and ".gz" files are decompressed on the fly.
type Loader struct {
	Cube Cube
}

//LoadGrid reads the grid in the file path.
func (L Loader) LoadGrid(path string, q elff.Quantity) (*elff.Grid, error) {
	format, compression := Split(path)
	rd, _, err := Codec(format, L.Cube)
	if err != nil {
		return nil, elff.Decorate(err, "Loader.LoadGrid")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Loader.LoadGrid: %w", err)
	}
	defer f.Close()
	r, closer, err := decompressor(bufio.NewReader(f), compression)
	if err != nil {
		return nil, fmt.Errorf("Loader.LoadGrid: can't decompress %s: %w", path, err)
	}
	defer closer()
	G, err := rd.ReadGrid(r, q)
	if err != nil {
		return nil, elff.Decorate(err, "Loader.LoadGrid "+path)
	}
	return G, nil
}

func decompressor(r io.Reader, compression string) (io.Reader, func(), error) {
	switch compression {
	case "zst":
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case "gz":
		g, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { g.Close() }, nil
	}
	return r, func() {}, nil
}

func compressor(w io.Writer, compression string) (io.WriteCloser, error) {
	switch compression {
	case "zst":
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case "gz":
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case "":
		return nopCloser{w}, nil
	}
	return nil, elff.NewError(elff.ErrFormat, "gridio.compressor", "unsupported compression %q (use zst or gz)", compression)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

//Writer saves fields to files in Dir, in the given Format, optionally
//compressed ("zst" or "gz").
type Writer struct {
	Dir         string
	Format      string
	Compression string
	Cube        Cube
}

//Path returns the file name for a grid called name.
func (W Writer) Path(name string) string {
	p := filepath.Join(W.Dir, name+"."+strings.ToLower(W.Format))
	if W.Compression != "" {
		p += "." + W.Compression
	}
	return p
}

//SaveScalarField writes G to name.<format>.
func (W Writer) SaveScalarField(name string, G *elff.Grid, header *elff.Header) error {
	if G.IsVector() {
		return elff.NewError(elff.ErrFormat, "Writer.SaveScalarField", "%s is a vector field", name)
	}
	if err := W.save(W.Path(name), G, header); err != nil {
		return elff.Decorate(err, "Writer.SaveScalarField")
	}
	return nil
}

//SaveVectorField writes the components of G to name_x, name_y and name_z.
func (W Writer) SaveVectorField(name string, G *elff.Grid, header *elff.Header) error {
	if !G.IsVector() {
		return elff.NewError(elff.ErrFormat, "Writer.SaveVectorField", "%s is a scalar field", name)
	}
	for c, s := range []string{"x", "y", "z"} {
		if err := W.save(W.Path(name+"_"+s), G.Component(c), header); err != nil {
			return elff.Decorate(err, "Writer.SaveVectorField")
		}
	}
	return nil
}

//RemoveField deletes the files of the field name, scalar or vector.
//Files that don't exist are ignored.
func (W Writer) RemoveField(name string) error {
	for _, n := range []string{name, name + "_x", name + "_y", name + "_z"} {
		if err := os.Remove(W.Path(n)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("can't remove %s: %w", W.Path(n), err)
		}
	}
	return nil
}

func (W Writer) save(path string, G *elff.Grid, header *elff.Header) error {
	_, enc, err := Codec(W.Format, W.Cube)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("can't create the output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("can't create %s: %w", path, err)
	}
	defer f.Close()
	b := bufio.NewWriter(f)
	c, err := compressor(b, W.Compression)
	if err != nil {
		return err
	}
	if err := enc.WriteGrid(c, G, header); err != nil {
		return err
	}
	if err := c.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
