/*
 * main.go, part of goElFF.
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

//Command elff computes the electrostatic force field between an AFM tip and a
//sample Hartree potential.
//
//Parameters are read from params.yaml in the working directory (or the file
//given with --params), and any flag given on the command line overrides them.
package main

import (
	"errors"
	"fmt"
	"os"

	elff "github.com/rmera/elff"
	"github.com/rmera/elff/config"
	"github.com/rmera/elff/gridio"
	"github.com/rmera/elff/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	paramsFile string

	// Logger
	logger *zap.Logger

	// Run flags. They only override the parameter file when given.
	flagP = config.DefaultParams()
	vref  float64
)

var rootCmd = &cobra.Command{
	Use:   "elff",
	Short: "Electrostatic tip-sample force fields for AFM simulations",
	Long: `elff correlates a sample Hartree potential with a tip charge density
using FFTs, and writes the electrostatic force field FFel (one file per
component) and, if requested, the energy Eel.

The tip is either a Gaussian multipole (--tip, --sigma) or a density read
from a file (--tip_dens), optionally with its core charges removed.
With --KPFM_sample, the linear response to a bias voltage is also computed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runField,
}

// paramsCmd writes the parameters in effect to a file
var paramsCmd = &cobra.Command{
	Use:   "params [file]",
	Short: "Write the parameters in effect (file and flags) to a YAML file",
	Long: `Writes the parameters that a run would use, i.e. those in the parameter
file overridden by the flags given, to file (default: params.yaml).`,
	Args: cobra.MaximumNArgs(1),
	RunE: writeParams,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", config.DefaultFile, "Parameter file")

	f := rootCmd.PersistentFlags()
	f.StringVarP(&flagP.Input, "input", "i", flagP.Input, "Sample Hartree potential (.xsf or .cube, optionally .zst or .gz)")
	f.StringVarP(&flagP.OutputFormat, "output_format", "f", flagP.OutputFormat, "Output format: xsf or cube")
	f.StringVar(&flagP.Compression, "compression", flagP.Compression, "Compress the output files: zst or gz")
	f.StringVar(&flagP.OutputDir, "output_dir", flagP.OutputDir, "Output directory")
	f.StringVar(&flagP.Tip, "tip", flagP.Tip, "Tip multipole moment (s, pz, dz2, ...) or registered tip function")
	f.Float64Var(&flagP.Sigma, "sigma", flagP.Sigma, "Width of the Gaussian tip charge (Å)")
	f.StringVar(&flagP.TipDens, "tip_dens", flagP.TipDens, "Tip electron density file, used instead of the multipole")
	f.IntVar(&flagP.ProbeType, "probeType", flagP.ProbeType, "Atomic number of the probe particle (8, 47 or 54)")
	f.BoolVar(&flagP.DoDensity, "doDensity", flagP.DoDensity, "Remove the core charges from the tip density")
	f.Float64Var(&flagP.Rcore, "Rcore", flagP.Rcore, "Radius of the core charges removed from the tip density (Å)")
	f.BoolVarP(&flagP.Energy, "energy", "E", flagP.Energy, "Also write the electrostatic energy Eel")
	f.BoolVar(&flagP.NoPBC, "noPBC", flagP.NoPBC, "Pad the sample with zeros to remove periodic images")
	f.Float64Var(&flagP.Tilt, "tilt", flagP.Tilt, "Tilt of the tip around the y axis (radians)")
	f.StringVar(&flagP.KPFMTip, "KPFM_tip", flagP.KPFMTip, "Tip density under bias, or Fit/dipole/pz for the analytic polarization")
	f.StringVar(&flagP.KPFMSample, "KPFM_sample", flagP.KPFMSample, "Sample Hartree potential under bias, enables KPFM")
	f.Float64Var(&vref, "Vref", 0, "Bias voltage of the KPFM calculations (V)")
	f.Float64Var(&flagP.Z0, "z0", flagP.Z0, "Reference height of the KPFM normalization (Å)")
	f.BoolVar(&flagP.CubeAngstrom, "cube_angstrom", flagP.CubeAngstrom, "Read lengths in cube files as Å")
	f.IntVar(&flagP.PreviewSlice, "preview_slice", flagP.PreviewSlice, "Save a PNG of Fz at this z slice (negative for none)")

	rootCmd.AddCommand(paramsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadParams reads the parameter file and applies the flags given by the user.
func loadParams(cmd *cobra.Command) (*config.Params, error) {
	p, err := config.Load(paramsFile)
	if err != nil {
		return nil, err
	}
	var ferr error
	cmd.Flags().Visit(func(fl *pflag.Flag) {
		if ferr == nil {
			ferr = override(p, fl.Name)
		}
	})
	return p, ferr
}

// override copies the value of the flag name into p.
func override(p *config.Params, name string) error {
	switch name {
	case "input":
		p.Input = flagP.Input
	case "output_format":
		p.OutputFormat = flagP.OutputFormat
	case "compression":
		p.Compression = flagP.Compression
	case "output_dir":
		p.OutputDir = flagP.OutputDir
	case "tip":
		p.Tip = flagP.Tip
		p.TipMultipole = nil
	case "sigma":
		p.Sigma = flagP.Sigma
	case "tip_dens":
		p.TipDens = flagP.TipDens
	case "probeType":
		p.ProbeType = flagP.ProbeType
	case "doDensity":
		p.DoDensity = flagP.DoDensity
	case "Rcore":
		p.Rcore = flagP.Rcore
	case "energy":
		p.Energy = flagP.Energy
	case "noPBC":
		p.NoPBC = flagP.NoPBC
	case "tilt":
		p.Tilt = flagP.Tilt
	case "KPFM_tip":
		p.KPFMTip = flagP.KPFMTip
	case "KPFM_sample":
		p.KPFMSample = flagP.KPFMSample
	case "Vref":
		v := vref
		p.Vref = &v
	case "z0":
		p.Z0 = flagP.Z0
	case "cube_angstrom":
		p.CubeAngstrom = flagP.CubeAngstrom
	case "preview_slice":
		p.PreviewSlice = flagP.PreviewSlice
	case "verbose", "params":
	default:
		return fmt.Errorf("flag %q not handled", name)
	}
	return nil
}

func runField(cmd *cobra.Command, args []string) error {
	p, err := loadParams(cmd)
	if err != nil {
		return err
	}
	cube := gridio.Cube{Angstrom: p.CubeAngstrom}
	ld := gridio.Loader{Cube: cube}
	wr := gridio.Writer{Dir: p.OutputDir, Format: p.OutputFormat, Compression: p.Compression, Cube: cube}
	logger.Info("starting electrostatic force field calculation",
		zap.String("input", p.Input),
		zap.String("params", paramsFile),
		zap.String("output_dir", p.OutputDir))
	res, err := pipeline.New(p, ld, wr, logger).Run()
	if err != nil {
		var e *elff.Error
		if errors.As(err, &e) {
			logger.Error("calculation failed", zap.Strings("trace", e.Decorate("")), zap.Error(err))
		}
		return err
	}
	logger.Info("done",
		zap.String("force_field", wr.Path(pipeline.NameForce+"_z")),
		zap.Float64("core_charge_removed", res.CoreRemoved))
	return nil
}

func writeParams(cmd *cobra.Command, args []string) error {
	p, err := loadParams(cmd)
	if err != nil {
		return err
	}
	out := config.DefaultFile
	if len(args) > 0 {
		out = args[0]
	}
	if err := p.Save(out); err != nil {
		return err
	}
	logger.Info("parameters written", zap.String("file", out))
	return nil
}
