/*
 * config.go, part of goElFF.
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

//Package config holds the parameters of an electrostatic force field calculation.
//
//Parameters are read once from a YAML file (missing files give the defaults),
//possibly overridden from the command line, validated, and then handed to the
//pipeline, which keeps its own copy.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	elff "github.com/rmera/elff"
	"github.com/rmera/elff/tip"
	"gopkg.in/yaml.v3"
)

//DefaultFile is the parameter file looked for in the working directory.
const DefaultFile = "params.yaml"

//Params are the parameters of a run. The YAML keys follow the names of
//the command line flags.
type Params struct {
	//Sample Hartree potential (eV), .xsf or .cube, optionally .zst or .gz compressed.
	Input        string `yaml:"input"`
	OutputFormat string `yaml:"output_format"`
	Compression  string `yaml:"compression"`
	OutputDir    string `yaml:"output_dir"`

	//Tip model: a multipole moment name or a registered tip function. TipMultipole,
	//if not empty, takes precedence, and TipDens over both.
	Tip          string             `yaml:"tip"`
	TipMultipole map[string]float64 `yaml:"tip_multipole,omitempty"`
	Sigma        float64            `yaml:"sigma"`
	TipDens      string             `yaml:"tip_dens"`
	ProbeType    int                `yaml:"probeType"`

	//Core subtraction is done if DoDensity is set and Rcore > 0.
	DoDensity bool           `yaml:"doDensity"`
	Rcore     float64        `yaml:"Rcore"`
	Valence   map[string]int `yaml:"valence,omitempty"`

	Energy bool    `yaml:"energy"`
	NoPBC  bool    `yaml:"noPBC"`
	Tilt   float64 `yaml:"tilt"`

	//KPFM linear response, done if KPFMSample is given.
	KPFMTip    string   `yaml:"KPFM_tip"`
	KPFMSample string   `yaml:"KPFM_sample"`
	Vref       *float64 `yaml:"Vref,omitempty"`
	Z0         float64  `yaml:"z0"`

	//Read the lengths in cube files as Å even with positive voxel counts.
	CubeAngstrom bool `yaml:"cube_angstrom"`
	//Save a PNG of the z force at this slice. Negative for none.
	PreviewSlice int `yaml:"preview_slice"`
}

//DefaultParams returns the default parameters: a monopole tip with the
//CO probe, and xsf output.
func DefaultParams() *Params {
	return &Params{
		OutputFormat: "xsf",
		OutputDir:    ".",
		Tip:          "s",
		Sigma:        0.7,
		ProbeType:    8,
		Rcore:        0.7,
		KPFMTip:      "Fit",
		PreviewSlice: -1,
	}
}

//Load loads the parameters from a YAML file. Parameters not in the file keep
//their default values. If the file doesn't exist, the defaults are returned.
func Load(path string) (*Params, error) {
	p := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to read parameters: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse parameters in %s: %w", path, err)
	}
	return p, nil
}

//Save saves the parameters to a YAML file.
func (p *Params) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write parameters: %w", err)
	}
	return nil
}

//Clone returns a deep copy of p.
func (p *Params) Clone() *Params {
	r := *p
	if p.TipMultipole != nil {
		r.TipMultipole = make(map[string]float64, len(p.TipMultipole))
		for k, v := range p.TipMultipole {
			r.TipMultipole[k] = v
		}
	}
	if p.Valence != nil {
		r.Valence = make(map[string]int, len(p.Valence))
		for k, v := range p.Valence {
			r.Valence[k] = v
		}
	}
	if p.Vref != nil {
		v := *p.Vref
		r.Vref = &v
	}
	return &r
}

//SubtractCore returns true if core charges are to be removed from the tip density.
func (p *Params) SubtractCore() bool {
	return p.DoDensity && p.Rcore > 0
}

//KPFM returns true if the linear response to a bias is requested.
func (p *Params) KPFM() bool {
	return p.KPFMSample != ""
}

//ValenceTable returns the built-in valence table with the overrides in p.
func (p *Params) ValenceTable() elff.ValenceTable {
	return elff.DefaultValenceTable().Merge(p.Valence)
}

//TipSpec returns the parameters of the tip model, without the density, which
//has to be loaded by the caller if TipDens is set. The tilt is not included,
//as it is applied to the forces, not to the tip.
func (p *Params) TipSpec() tip.Spec {
	return tip.Spec{Moments: p.TipMultipole, Token: p.Tip, Sigma: p.Sigma}
}

//Validate checks the parameters. It only looks at the parameters themselves,
//so it is cheap, and is meant to run before any grid is loaded.
func (p *Params) Validate() error {
	if p.Input == "" {
		return fmt.Errorf("no sample potential given")
	}
	switch p.OutputFormat {
	case "xsf", "cube":
	default:
		return fmt.Errorf("invalid output format: %s (valid: xsf, cube)", p.OutputFormat)
	}
	switch p.Compression {
	case "", "zst", "gz":
	default:
		return fmt.Errorf("invalid compression: %s (valid: zst, gz)", p.Compression)
	}
	if p.Rcore < 0 {
		return fmt.Errorf("negative Rcore: %g", p.Rcore)
	}
	if p.SubtractCore() && p.TipDens == "" {
		return elff.NewError(elff.ErrInvalidDensityRequest, "Params.Validate", "core subtraction (doDensity, Rcore=%g) needs a tip density", p.Rcore)
	}
	if p.TipDens == "" {
		if p.Sigma <= 0 {
			return fmt.Errorf("sigma must be positive for analytic tips, got %g", p.Sigma)
		}
		if err := p.checkTipModel(); err != nil {
			return err
		}
	}
	if p.KPFM() {
		if p.Vref == nil {
			return elff.NewError(elff.ErrMissingReferenceVoltage, "Params.Validate", "KPFM_sample given without Vref")
		}
		if *p.Vref == 0 {
			return elff.NewError(elff.ErrMissingReferenceVoltage, "Params.Validate", "Vref can't be zero")
		}
		if tip.AnalyticBiasToken(p.KPFMTip) {
			if _, err := tip.BiasModel(p.ProbeType); err != nil {
				return elff.Decorate(err, "Params.Validate")
			}
		} else if p.TipDens == "" {
			return elff.NewError(elff.ErrInvalidDensityRequest, "Params.Validate", "the tip density under bias %q needs the unbiased tip density (tip_dens)", p.KPFMTip)
		}
	}
	return nil
}

func (p *Params) checkTipModel() error {
	if len(p.TipMultipole) > 0 {
		for k := range p.TipMultipole {
			if !isMoment(k) {
				return elff.NewError(elff.ErrUnknownMoment, "Params.Validate", "moment %q not supported, use one of %v", k, tip.Moments())
			}
		}
		return nil
	}
	if isMoment(p.Tip) {
		return nil
	}
	if _, ok := tip.Lookup(p.Tip); ok {
		return nil
	}
	return elff.NewError(elff.ErrUnknownMoment, "Params.Validate", "tip %q is neither a multipole moment (%v) nor a registered tip function", p.Tip, tip.Moments())
}

func isMoment(name string) bool {
	for _, v := range tip.Moments() {
		if v == name {
			return true
		}
	}
	return false
}
