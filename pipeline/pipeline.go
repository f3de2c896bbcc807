/*
 * pipeline.go, part of goElFF.
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

//Package pipeline computes the electrostatic force field between an AFM tip and a
//sample, from the parameters of a run.
//
//The order of the steps matters: everything that can be checked from the
//parameters alone is checked before any grid is loaded, and no file is written
//until every field has been computed.
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	elff "github.com/rmera/elff"
	"github.com/rmera/elff/config"
	"github.com/rmera/elff/coresub"
	"github.com/rmera/elff/fieldfft"
	"github.com/rmera/elff/fieldplot"
	"github.com/rmera/elff/kpfm"
	"github.com/rmera/elff/tip"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Names of the output fields.
const (
	NameForce       = "FFel"
	NameEnergy      = "Eel"
	NameKPFMSample  = "FFkpfm_t0sV"
	NameKPFMTip     = "FFkpfm_tVs0"
	namePreviewStem = "FFel_z_slice"
)

//Result contains the fields computed in a run. Eel and the KPFM fields are nil
//if they were not requested.
type Result struct {
	FFel        *elff.Grid
	Eel         *elff.Grid
	FFkpfmT0sV  *elff.Grid
	FFkpfmTVs0  *elff.Grid
	Header      *elff.Header
	CoreRemoved float64 //electrons removed from the tip density
}

//Pipeline runs one force field calculation.
type Pipeline struct {
	p   *config.Params
	ld  elff.GridLoader
	wr  elff.GridWriter
	log *zap.Logger
}

//New returns a pipeline for the parameters p. The pipeline keeps a copy of p,
//so later changes to p have no effect on it. A nil logger disables logging.
func New(p *config.Params, ld elff.GridLoader, wr elff.GridWriter, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{p: p.Clone(), ld: ld, wr: wr, log: log}
}

//Run does the calculation and writes the resulting fields.
func (P *Pipeline) Run() (*Result, error) {
	p := P.p
	if err := p.Validate(); err != nil {
		return nil, elff.Decorate(err, "Pipeline.Run")
	}
	res, err := P.compute()
	if err != nil {
		return nil, elff.Decorate(err, "Pipeline.Run")
	}
	if err := P.save(res); err != nil {
		return nil, elff.Decorate(err, "Pipeline.Run")
	}
	return res, nil
}

func (P *Pipeline) compute() (*Result, error) {
	p := P.p
	res := new(Result)
	P.log.Info("loading sample Hartree potential", zap.String("path", p.Input))
	V, err := P.ld.LoadGrid(p.Input, elff.Potential)
	if err != nil {
		return nil, err
	}
	if V.IsVector() {
		return nil, elff.NewError(elff.ErrShapeMismatch, "Pipeline.compute", "the sample potential must be a scalar field")
	}
	V.Scale(-1) //eV -> V
	res.Header = P.outputHeader(V.Header)
	P.log.Debug("sample grid", zap.Stringer("grid", V), zap.Float64("voxel_volume", V.VoxelVolume()))

	spec := p.TipSpec()
	var rawTip *elff.Grid
	if p.TipDens != "" {
		P.log.Info("loading tip density", zap.String("path", p.TipDens))
		rawTip, err = P.ld.LoadGrid(p.TipDens, elff.Density)
		if err != nil {
			return nil, err
		}
		spec.Density = rawTip
		if p.SubtractCore() {
			spec.Density, res.CoreRemoved, err = P.subtractCore(rawTip)
			if err != nil {
				return nil, err
			}
		}
	}
	k, err := tip.Build(spec, V)
	if err != nil {
		return nil, err
	}
	P.log.Info("tip model", zap.String("kernel", fmt.Sprintf("%T", k)))

	var pad [3]int
	if p.NoPBC {
		for i, n := range V.Dims {
			pad[i] = (n + 1) / 2
		}
		P.log.Info("padding the sample with zeros", zap.Ints("pad", pad[:]))
	}
	kernel := &paddedKernel{k: k, geom: V, pad: pad}
	Vp := V.PadZeros(pad)

	if p.KPFM() {
		res.FFkpfmT0sV, res.FFkpfmTVs0, err = P.kpfm(V, Vp, kernel, rawTip)
		if err != nil {
			return nil, err
		}
	}

	P.log.Info("computing the electrostatic force field by FFT correlation")
	rho, err := kernel.Density(Vp)
	if err != nil {
		return nil, err
	}
	P.log.Debug("tip charge", zap.Float64("total", rho.Sum()))
	res.FFel, res.Eel, err = fieldfft.Correlate(Vp, rho, p.Energy)
	if err != nil {
		return nil, err
	}
	if p.NoPBC {
		if res.FFel, err = res.FFel.Crop(V.Dims); err != nil {
			return nil, err
		}
		if res.Eel != nil {
			if res.Eel, err = res.Eel.Crop(V.Dims); err != nil {
				return nil, err
			}
		}
	}
	for _, F := range []*elff.Grid{res.FFel, res.FFkpfmT0sV, res.FFkpfmTVs0} {
		if F != nil {
			F.Tilt(p.Tilt)
		}
	}
	P.summary(NameForce, res.FFel)
	return res, nil
}

//subtractCore removes the core charges of the atoms in the tip density header.
func (P *Pipeline) subtractCore(rho *elff.Grid) (*elff.Grid, float64, error) {
	p := P.p
	h := rho.Header
	if h.Len() == 0 {
		P.log.Warn("core subtraction requested, but the tip density file has no atoms")
		return rho, 0, nil
	}
	images, err := coresub.TouchingImages(h, h.Coords, rho.Lvec, p.Rcore)
	if err != nil {
		return nil, 0, err
	}
	P.log.Info("subtracting core densities", zap.Int("atoms", h.Len()), zap.Int("images", len(images)), zap.Float64("Rcore", p.Rcore))
	out, err := coresub.Subtract(rho, images, p.ValenceTable(), p.Rcore)
	if err != nil {
		return nil, 0, err
	}
	removed := (rho.Sum() - out.Sum()) * rho.VoxelVolume()
	P.log.Debug("core charge removed", zap.Float64("electrons", removed))
	return out, removed, nil
}

//kpfm returns the two linear response maps, on the sample geometry.
//Vp is the sample potential V, padded like tip0.
func (P *Pipeline) kpfm(V, Vp *elff.Grid, tip0 *paddedKernel, rawTip *elff.Grid) (ffSample, ffTip *elff.Grid, err error) {
	p := P.p
	P.log.Info("loading sample Hartree potential under bias", zap.String("path", p.KPFMSample))
	VB, err := P.ld.LoadGrid(p.KPFMSample, elff.Potential)
	if err != nil {
		return nil, nil, err
	}
	if err := V.SameShape(VB); err != nil {
		return nil, nil, err
	}
	VB.Scale(-1)
	tb := kpfm.TipBias{Token: p.KPFMTip, ProbeType: p.ProbeType}
	if tb.Analytic() {
		P.log.Info("analytic tip polarization", zap.Int("probe_type", p.ProbeType))
	} else {
		P.log.Info("loading tip density under bias", zap.String("path", p.KPFMTip))
		rhoBias, err := P.ld.LoadGrid(p.KPFMTip, elff.Density)
		if err != nil {
			return nil, nil, err
		}
		if err := rawTip.SameShape(rhoBias); err != nil {
			return nil, nil, err
		}
		//the densities are centred at the origin, like the kernels.
		tb.Rho0 = rawTip.PadWrapped(tip0.pad)
		tb.RhoBias = rhoBias.PadWrapped(tip0.pad)
	}
	in := kpfm.Input{V0: Vp, VBias: VB.PadZeros(tip0.pad), Tip0: tip0, Tip: tb, Vref: p.Vref, Z0: p.Z0}
	ffSample, ffTip, err = kpfm.ComputeLinearResponse(in)
	if err != nil {
		return nil, nil, err
	}
	if tip0.padded() {
		if ffSample, err = ffSample.Crop(V.Dims); err != nil {
			return nil, nil, err
		}
		if ffTip, err = ffTip.Crop(V.Dims); err != nil {
			return nil, nil, err
		}
	}
	P.summary(NameKPFMSample, ffSample)
	P.summary(NameKPFMTip, ffTip)
	return ffSample, ffTip, nil
}

//outputHeader returns a copy of the sample header h, with a first comment line
//describing the run. h itself is left untouched, as the loaded grids share it.
func (P *Pipeline) outputHeader(h *elff.Header) *elff.Header {
	r := h.Copy()
	if r == nil {
		r = new(elff.Header)
	}
	tipName := P.p.Tip
	if P.p.TipDens != "" {
		tipName = P.p.TipDens
	}
	r.Comments = append([]string{fmt.Sprintf("goElFF %s, tip %s", NameForce, tipName)}, r.Comments...)
	return r
}

//save writes all the fields and the preview. It is only called once everything
//has been computed. If any write fails, the fields already written are removed.
func (P *Pipeline) save(res *Result) (err error) {
	p := P.p
	if p.PreviewSlice >= res.FFel.Dims[2] {
		return elff.NewError(elff.ErrShapeMismatch, "Pipeline.save", "preview of slice %d requested for a grid with %d", p.PreviewSlice, res.FFel.Dims[2])
	}
	var written []string
	defer func() {
		if err != nil {
			P.rollback(written)
		}
	}()
	vector := func(name string, F *elff.Grid) error {
		written = append(written, name)
		return P.wr.SaveVectorField(name, F, res.Header)
	}
	P.log.Info("saving the electrostatic force field", zap.String("name", NameForce))
	if err := vector(NameForce, res.FFel); err != nil {
		return err
	}
	if res.Eel != nil {
		written = append(written, NameEnergy)
		if err := P.wr.SaveScalarField(NameEnergy, res.Eel, res.Header); err != nil {
			return err
		}
	}
	if res.FFkpfmT0sV != nil {
		if err := vector(NameKPFMSample, res.FFkpfmT0sV); err != nil {
			return err
		}
		if err := vector(NameKPFMTip, res.FFkpfmTVs0); err != nil {
			return err
		}
	}
	if p.PreviewSlice >= 0 {
		S, err := fieldplot.NewSlice(res.FFel, 2, p.PreviewSlice)
		if err != nil {
			return err
		}
		name := filepath.Join(p.OutputDir, fmt.Sprintf("%s%d", namePreviewStem, p.PreviewSlice))
		if err := fieldplot.SlicePlot(S, fmt.Sprintf("Fz, slice %d", p.PreviewSlice), name); err != nil {
			if rerr := os.Remove(name + ".png"); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
				P.log.Warn("can't remove partial preview", zap.Error(rerr))
			}
			return err
		}
		P.log.Info("saved preview", zap.String("file", name+".png"))
	}
	return nil
}

//rollback removes the fields in names, including a partially written last one.
func (P *Pipeline) rollback(names []string) {
	for _, n := range names {
		if err := P.wr.RemoveField(n); err != nil {
			P.log.Warn("can't remove partial output", zap.String("name", n), zap.Error(err))
			continue
		}
		P.log.Debug("removed output", zap.String("name", n))
	}
}

//summary logs the statistics of the z component of a force field.
func (P *Pipeline) summary(name string, F *elff.Grid) {
	if !P.log.Core().Enabled(zap.InfoLevel) {
		return
	}
	fz := F.Component(2).Data()
	mean, std := stat.MeanStdDev(fz, nil)
	P.log.Info("force field computed",
		zap.String("name", name),
		zap.Float64("fz_min", floats.Min(fz)),
		zap.Float64("fz_max", floats.Max(fz)),
		zap.Float64("fz_mean", mean),
		zap.Float64("fz_std", std))
}
