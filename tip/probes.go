/*
 * probes.go, part of goElFF.
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

package tip

import (
	"strings"

	elff "github.com/rmera/elff"
)

//ProbeModel is the analytic response of a tip to a bias: the change of
//its multipoles per bias step, and the width of their Gaussian.
type ProbeModel struct {
	Moments map[string]float64
	Sigma   float64
}

//Polarization slopes for the tips with a fitted model, by probe
//particle type (atomic number of the apex atom).
var probeModels = map[int]ProbeModel{
	8:  {Moments: map[string]float64{"pz": -0.045}, Sigma: 0.48},   //CO
	47: {Moments: map[string]float64{"pz": -0.21875}, Sigma: 0.7}, //Ag
	54: {Moments: map[string]float64{"pz": -0.250}, Sigma: 0.67},  //Xe
}

//AnalyticBiasToken returns true if token selects the fitted analytic model of
//the tip response to a bias, rather than a density file.
func AnalyticBiasToken(token string) bool {
	switch strings.TrimSpace(token) {
	case "Fit", "fit", "dipole", "pz":
		return true
	}
	return false
}

//BiasModel returns the analytic bias response model for the probe type.
//The returned model is a copy.
func BiasModel(probeType int) (ProbeModel, error) {
	m, ok := probeModels[probeType]
	if !ok {
		return ProbeModel{}, elff.NewError(elff.ErrUnknownProbe, "tip.BiasModel", "no bias response model for probe type %d (known: 8, 47, 54)", probeType)
	}
	r := ProbeModel{Sigma: m.Sigma, Moments: make(map[string]float64, len(m.Moments))}
	for k, v := range m.Moments {
		r.Moments[k] = v
	}
	return r, nil
}

//Multipole returns the model as a multipole kernel.
func (P ProbeModel) Multipole() *Multipole {
	return &Multipole{Moments: P.Moments, Sigma: P.Sigma}
}
