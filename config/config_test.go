/*
 * config_test.go, part of goElFF.
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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	elff "github.com/rmera/elff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(Te *testing.T) {
	p, err := Load(filepath.Join(Te.TempDir(), "nope.yaml"))
	require.NoError(Te, err)
	if diff := cmp.Diff(DefaultParams(), p); diff != "" {
		Te.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverrides(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), DefaultFile)
	yml := `
input: LOCPOT.xsf
tip: pz
sigma: 0.48
Rcore: 1.2
KPFM_sample: LOCPOT_bias.xsf
Vref: 0.1
valence:
  Cu: 19
tip_multipole:
  s: 0.1
  dz2: -0.05
`
	require.NoError(Te, os.WriteFile(path, []byte(yml), 0644))
	p, err := Load(path)
	require.NoError(Te, err)
	want := DefaultParams()
	want.Input = "LOCPOT.xsf"
	want.Tip = "pz"
	want.Sigma = 0.48
	want.Rcore = 1.2
	want.KPFMSample = "LOCPOT_bias.xsf"
	v := 0.1
	want.Vref = &v
	want.Valence = map[string]int{"Cu": 19}
	want.TipMultipole = map[string]float64{"s": 0.1, "dz2": -0.05}
	if diff := cmp.Diff(want, p); diff != "" {
		Te.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	require.NoError(Te, p.Validate())
	assert.True(Te, p.KPFM())
	assert.False(Te, p.SubtractCore())
	assert.Equal(Te, 19, p.ValenceTable()["Cu"])
	assert.Equal(Te, 6, p.ValenceTable()["O"])
}

func TestSaveLoad(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "sub", "p.yaml")
	p := DefaultParams()
	p.Input = "hartree.cube"
	p.NoPBC = true
	p.Tilt = 0.1
	require.NoError(Te, p.Save(path))
	q, err := Load(path)
	require.NoError(Te, err)
	if diff := cmp.Diff(p, q); diff != "" {
		Te.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBadYAML(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "bad.yaml")
	require.NoError(Te, os.WriteFile(path, []byte("sigma: [1, 2"), 0644))
	_, err := Load(path)
	assert.Error(Te, err)
}

func TestClone(Te *testing.T) {
	p := DefaultParams()
	v := 1.0
	p.Vref = &v
	p.Valence = map[string]int{"Cu": 11}
	q := p.Clone()
	*q.Vref = 2
	q.Valence["Cu"] = 19
	assert.Equal(Te, 1.0, *p.Vref)
	assert.Equal(Te, 11, p.Valence["Cu"])
}

func TestValidate(Te *testing.T) {
	valid := func() *Params {
		p := DefaultParams()
		p.Input = "V.xsf"
		return p
	}
	require.NoError(Te, valid().Validate())

	for name, c := range map[string]struct {
		mod  func(p *Params)
		kind error
	}{
		"no input":      {func(p *Params) { p.Input = "" }, nil},
		"format":        {func(p *Params) { p.OutputFormat = "npy" }, nil},
		"compression":   {func(p *Params) { p.Compression = "xz" }, nil},
		"sigma":         {func(p *Params) { p.Sigma = 0 }, nil},
		"core no tip":   {func(p *Params) { p.DoDensity = true }, elff.ErrInvalidDensityRequest},
		"kpfm no vref":  {func(p *Params) { p.KPFMSample = "Vb.xsf" }, elff.ErrMissingReferenceVoltage},
		"unknown probe": {func(p *Params) { p.KPFMSample = "Vb.xsf"; v := 1.0; p.Vref = &v; p.ProbeType = 1 }, elff.ErrUnknownProbe},
		"kpfm tip file": {func(p *Params) { p.KPFMSample = "Vb.xsf"; v := 1.0; p.Vref = &v; p.KPFMTip = "tipb.xsf" }, elff.ErrInvalidDensityRequest},
		"tip token":     {func(p *Params) { p.Tip = "fz3" }, elff.ErrUnknownMoment},
		"tip moments":   {func(p *Params) { p.TipMultipole = map[string]float64{"f": 1} }, elff.ErrUnknownMoment},
	} {
		p := valid()
		c.mod(p)
		err := p.Validate()
		require.Error(Te, err, name)
		if c.kind != nil {
			assert.True(Te, errors.Is(err, c.kind), "%s: %v", name, err)
		}
	}
	//with a tip density the analytic tip parameters don't matter
	p := valid()
	p.TipDens = "tip.xsf"
	p.DoDensity = true
	p.Tip = "whatever"
	p.Sigma = 0
	assert.NoError(Te, p.Validate())
	assert.True(Te, p.SubtractCore())
}
