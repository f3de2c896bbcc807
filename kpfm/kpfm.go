/*
 * kpfm.go, part of goElFF.
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

//Package kpfm computes the linear response of the electrostatic force field to
//a bias voltage between tip and sample (Kelvin probe force microscopy).
//
//Given the sample potential and tip charge at zero bias and at a reference
//bias, the change of the force is split into the part due to the sample
//response (dV correlated with the unbiased tip) and the part due to
//the tip response (the unbiased sample correlated with the change of the tip charge).
//Both are normalized per volt of bias and per Å of tip height over the substrate.
package kpfm

import (
	elff "github.com/rmera/elff"
	"github.com/rmera/elff/fieldfft"
	"github.com/rmera/elff/tip"
)

const (
	//HeightOffset (Å) keeps the normalization finite at the substrate plane.
	HeightOffset = 0.1
	//AnalyticTipVref is the bias (V) the analytic tip response models were fitted at.
	AnalyticTipVref = -0.1
)

//TipBias describes the tip under bias. If Token selects an analytic model
//(see tip.AnalyticBiasToken) the response of the probe of type ProbeType is
//used. Otherwise the tip densities (e/Å^3) at zero bias and under bias must be given.
type TipBias struct {
	Token     string
	ProbeType int
	Rho0      *elff.Grid
	RhoBias   *elff.Grid
}

//Analytic returns true if T uses an analytic response model.
func (T TipBias) Analytic() bool {
	return tip.AnalyticBiasToken(T.Token)
}

//Kernel returns the change of the tip charge under bias, and the bias it
//corresponds to. vref is the reference bias of loaded densities, and can be nil
//for analytic models.
func (T TipBias) Kernel(vref *float64) (tip.Kernel, float64, error) {
	if T.Analytic() {
		m, err := tip.BiasModel(T.ProbeType)
		if err != nil {
			return nil, 0, elff.Decorate(err, "TipBias.Kernel")
		}
		return m.Multipole(), AnalyticTipVref, nil
	}
	if vref == nil {
		return nil, 0, elff.NewError(elff.ErrMissingReferenceVoltage, "TipBias.Kernel", "the tip density under bias %q needs a reference voltage", T.Token)
	}
	if T.Rho0 == nil || T.RhoBias == nil {
		return nil, 0, elff.NewError(elff.ErrInvalidDensityRequest, "TipBias.Kernel", "the bias response of a loaded tip needs the tip density with and without bias")
	}
	drho, err := elff.Sub(T.RhoBias, T.Rho0)
	if err != nil {
		return nil, 0, elff.Decorate(err, "TipBias.Kernel")
	}
	return &tip.LoadedDensity{Rho: drho}, *vref, nil
}

//Input holds everything needed for the linear response maps.
//V0 and VBias are the sample potentials (V) without and with bias. Tip0 is
//the unbiased tip. Vref is the bias (V) VBias was computed at, and Z0 the
//height (Å) of the topmost layer of the metallic substrate.
type Input struct {
	V0, VBias *elff.Grid
	Tip0      tip.Kernel
	Tip       TipBias
	Vref      *float64
	Z0        float64
}

//ComputeLinearResponse returns the force field of the sample response
//(VBias-V0 correlated with the unbiased tip) and of the tip response (V0
//correlated with the change of the tip charge), both normalized with Normalize.
func ComputeLinearResponse(in Input) (ffSample, ffTip *elff.Grid, err error) {
	if in.Vref == nil {
		return nil, nil, elff.NewError(elff.ErrMissingReferenceVoltage, "ComputeLinearResponse", "no reference voltage given for the sample potential under bias")
	}
	if *in.Vref == 0 {
		return nil, nil, elff.NewError(elff.ErrMissingReferenceVoltage, "ComputeLinearResponse", "the reference voltage can't be zero")
	}
	if in.V0 == nil || in.VBias == nil || in.Tip0 == nil {
		return nil, nil, elff.NewError(elff.ErrInvalidDensityRequest, "ComputeLinearResponse", "both sample potentials and the unbiased tip are needed")
	}
	//Fail before any FFT if the tip branch can't be done.
	dtip, vrefTip, err := in.Tip.Kernel(in.Vref)
	if err != nil {
		return nil, nil, elff.Decorate(err, "ComputeLinearResponse")
	}
	dV, err := elff.Sub(in.VBias, in.V0)
	if err != nil {
		return nil, nil, elff.Decorate(err, "ComputeLinearResponse")
	}
	rho0, err := in.Tip0.Density(in.V0)
	if err != nil {
		return nil, nil, elff.Decorate(err, "ComputeLinearResponse")
	}
	ffSample, _, err = fieldfft.Correlate(dV, rho0, false)
	if err != nil {
		return nil, nil, elff.Decorate(err, "ComputeLinearResponse")
	}
	drho, err := dtip.Density(in.V0)
	if err != nil {
		return nil, nil, elff.Decorate(err, "ComputeLinearResponse")
	}
	ffTip, _, err = fieldfft.Correlate(in.V0, drho, false)
	if err != nil {
		return nil, nil, elff.Decorate(err, "ComputeLinearResponse")
	}
	Normalize(ffSample, *in.Vref, in.Z0)
	Normalize(ffTip, vrefTip, in.Z0)
	return ffSample, ffTip, nil
}

//Normalize divides each z slice i of G, in place, by vref*(z_i - z0 + HeightOffset),
//where z_i = origin_z + i*c_z/nz is the height of the slice.
func Normalize(G *elff.Grid, vref, z0 float64) {
	oz := G.Origin()[2]
	cz := G.Lvec.At(3, 2)
	nz := float64(G.Dims[2])
	G.ScaleSlices(func(iz int) float64 {
		z := oz + float64(iz)*cz/nz
		return 1 / (vref * (z - z0 + HeightOffset))
	})
}
