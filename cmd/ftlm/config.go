// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/ftlm/hubbard"
	"github.com/katalvlaran/ftlm/thermal"
	"github.com/katalvlaran/ftlm/tridiag"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the full run description. Every field can come from the YAML
// file given by --config and from a flag of the same meaning; explicit flags
// win.
type Config struct {
	Seed      uint64          `yaml:"seed"`
	LogLevel  string          `yaml:"log_level"`
	Model     ModelConfig     `yaml:"model"`
	Estimator EstimatorConfig `yaml:"estimator"`
}

// ModelConfig mirrors hubbard.Config.
type ModelConfig struct {
	Sites    int     `yaml:"sites"`
	NUp      int     `yaml:"nup"`
	NDown    int     `yaml:"ndown"`
	T        float64 `yaml:"t"`
	U        float64 `yaml:"u"`
	Periodic bool    `yaml:"periodic"`
}

// EstimatorConfig mirrors the scalar fields of thermal.Options.
type EstimatorConfig struct {
	Temperature     float64 `yaml:"temperature"`
	KB              float64 `yaml:"kb"`
	MaxSteps        int     `yaml:"max_steps"`
	MinB            float64 `yaml:"min_b"`
	MinSteps        int     `yaml:"min_steps"`
	Samples         int     `yaml:"samples"`
	MaxRetries      int     `yaml:"max_retries"`
	Workers         int     `yaml:"workers"`
	Reorthogonalize bool    `yaml:"reorthogonalize"`
	Solver          string  `yaml:"solver"`
}

// defaultConfig returns the defaults for an energy (rdm=false) or RDM run:
// a half-filled four-site ring with the thermal package defaults.
func defaultConfig(rdm bool) Config {
	o := thermal.DefaultEnergyOptions()
	if rdm {
		o = thermal.DefaultRDMOptions(0)
	}

	return Config{
		Seed:     1,
		LogLevel: zerolog.LevelInfoValue,
		Model:    ModelConfig{Sites: 4, NUp: 2, NDown: 2, T: 1, U: 4, Periodic: true},
		Estimator: EstimatorConfig{
			Temperature: o.Temperature,
			KB:          o.KB,
			MaxSteps:    o.MaxSteps,
			MinB:        o.MinB,
			MinSteps:    o.MinSteps,
			Samples:     o.Samples,
			MaxRetries:  o.MaxRetries,
			Workers:     o.Workers,
			Solver:      o.Solver.String(),
		},
	}
}

// loadConfigFile decodes path on top of cfg; keys absent from the file keep
// their current values.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

// bindFlags registers one flag per Config field on fs, backed by fl.
func bindFlags(fs *pflag.FlagSet, fl *Config) {
	fs.Uint64Var(&fl.Seed, "seed", fl.Seed, "random seed for the vector generator")
	fs.StringVar(&fl.LogLevel, "log-level", fl.LogLevel, "log level (trace|debug|info|warn|error)")

	fs.IntVar(&fl.Model.Sites, "sites", fl.Model.Sites, "chain length L")
	fs.IntVar(&fl.Model.NUp, "nup", fl.Model.NUp, "number of spin-up electrons")
	fs.IntVar(&fl.Model.NDown, "ndown", fl.Model.NDown, "number of spin-down electrons")
	fs.Float64Var(&fl.Model.T, "t", fl.Model.T, "hopping amplitude")
	fs.Float64Var(&fl.Model.U, "u", fl.Model.U, "on-site repulsion")
	fs.BoolVar(&fl.Model.Periodic, "periodic", fl.Model.Periodic, "periodic boundary conditions")

	e := &fl.Estimator
	fs.Float64Var(&e.Temperature, "temperature", e.Temperature, "temperature T (inf for β = 0)")
	fs.Float64Var(&e.KB, "kb", e.KB, "Boltzmann constant")
	fs.IntVar(&e.MaxSteps, "max-steps", e.MaxSteps, "Krylov size bound m")
	fs.Float64Var(&e.MinB, "min-b", e.MinB, "Lanczos breakdown threshold")
	fs.IntVar(&e.MinSteps, "min-steps", e.MinSteps, "reject truncations below this Krylov size (0 disables)")
	fs.IntVar(&e.Samples, "samples", e.Samples, "number of random seeds")
	fs.IntVar(&e.MaxRetries, "max-retries", e.MaxRetries, "rejected seeds tolerated per run")
	fs.IntVar(&e.Workers, "workers", e.Workers, "sampling goroutines")
	fs.BoolVar(&e.Reorthogonalize, "reorth", e.Reorthogonalize, "full reorthogonalization of the Lanczos basis")
	fs.StringVar(&e.Solver, "solver", e.Solver, "tridiagonal eigensolver (lapack|jacobi)")
}

// overrideFromFlags copies every flag the user set explicitly from fl to dst.
func overrideFromFlags(fs *pflag.FlagSet, fl, dst *Config) {
	copies := map[string]func(){
		"seed":        func() { dst.Seed = fl.Seed },
		"log-level":   func() { dst.LogLevel = fl.LogLevel },
		"sites":       func() { dst.Model.Sites = fl.Model.Sites },
		"nup":         func() { dst.Model.NUp = fl.Model.NUp },
		"ndown":       func() { dst.Model.NDown = fl.Model.NDown },
		"t":           func() { dst.Model.T = fl.Model.T },
		"u":           func() { dst.Model.U = fl.Model.U },
		"periodic":    func() { dst.Model.Periodic = fl.Model.Periodic },
		"temperature": func() { dst.Estimator.Temperature = fl.Estimator.Temperature },
		"kb":          func() { dst.Estimator.KB = fl.Estimator.KB },
		"max-steps":   func() { dst.Estimator.MaxSteps = fl.Estimator.MaxSteps },
		"min-b":       func() { dst.Estimator.MinB = fl.Estimator.MinB },
		"min-steps":   func() { dst.Estimator.MinSteps = fl.Estimator.MinSteps },
		"samples":     func() { dst.Estimator.Samples = fl.Estimator.Samples },
		"max-retries": func() { dst.Estimator.MaxRetries = fl.Estimator.MaxRetries },
		"workers":     func() { dst.Estimator.Workers = fl.Estimator.Workers },
		"reorth":      func() { dst.Estimator.Reorthogonalize = fl.Estimator.Reorthogonalize },
		"solver":      func() { dst.Estimator.Solver = fl.Estimator.Solver },
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := copies[f.Name]; ok {
			apply()
		}
	})
}

func (m ModelConfig) hubbard() hubbard.Config {
	return hubbard.Config{Sites: m.Sites, NUp: m.NUp, NDown: m.NDown, T: m.T, U: m.U, Periodic: m.Periodic}
}

// options converts the estimator section, validating the solver name.
func (e EstimatorConfig) options(rdm bool, norb int, logger zerolog.Logger) (thermal.Options, error) {
	solver, err := tridiag.ParseSolver(e.Solver)
	if err != nil {
		return thermal.Options{}, fmt.Errorf("solver %q: %w", e.Solver, err)
	}
	o := thermal.DefaultEnergyOptions()
	if rdm {
		o = thermal.DefaultRDMOptions(norb)
	}
	o.Temperature = e.Temperature
	o.KB = e.KB
	o.MaxSteps = e.MaxSteps
	o.MinB = e.MinB
	o.MinSteps = e.MinSteps
	o.Samples = e.Samples
	o.MaxRetries = e.MaxRetries
	o.Workers = e.Workers
	o.Reorthogonalize = e.Reorthogonalize
	o.Solver = solver
	o.Logger = logger

	return o, nil
}
