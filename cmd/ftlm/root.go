// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/ftlm/hubbard"
	"github.com/katalvlaran/ftlm/thermal"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ftlm",
		Short:         "Finite-temperature Lanczos estimates for the Hubbard chain",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(estimatorCmd(false), estimatorCmd(true))

	return root
}

// estimatorCmd builds the "energy" (rdm=false) or "rdm" subcommand.
func estimatorCmd(rdm bool) *cobra.Command {
	var (
		configPath string
		fl         = defaultConfig(rdm)
	)
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Estimate the thermal energy ⟨H⟩_T",
		Args:  cobra.NoArgs,
	}
	if rdm {
		cmd.Use = "rdm"
		cmd.Short = "Estimate the spin-resolved one-body reduced density matrices"
	}
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg := defaultConfig(rdm)
		if configPath != "" {
			if err := loadConfigFile(configPath, &cfg); err != nil {
				return err
			}
		}
		overrideFromFlags(cmd.Flags(), &fl, &cfg)

		return run(cmd, cfg, rdm)
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file with run parameters (flags override it)")
	bindFlags(cmd.Flags(), &fl)

	return cmd
}

func newLogger(w io.Writer, level, runID string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}

	// Colors only on an interactive terminal.
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: noColor}).
		Level(lvl).
		With().Timestamp().Str("run_id", runID).
		Logger(), nil
}

func run(cmd *cobra.Command, cfg Config, rdm bool) error {
	runID := uuid.New().String()
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, runID)
	if err != nil {
		return err
	}

	model, err := hubbard.New(cfg.Model.hubbard())
	if err != nil {
		return err
	}
	opts, err := cfg.Estimator.options(rdm, model.Sites(), logger)
	if err != nil {
		return err
	}
	gen := model.Generator(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)))
	logger.Info().
		Int("dim", model.Dim()).
		Int("sites", cfg.Model.Sites).
		Int("nup", cfg.Model.NUp).
		Int("ndown", cfg.Model.NDown).
		Msg("model ready")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run_id       %s\n", runID)
	fmt.Fprintf(out, "model        L=%d nup=%d ndown=%d t=%g U=%g periodic=%t dim=%d\n",
		cfg.Model.Sites, cfg.Model.NUp, cfg.Model.NDown, cfg.Model.T, cfg.Model.U, cfg.Model.Periodic, model.Dim())
	fmt.Fprintf(out, "temperature  %g\n", opts.Temperature)

	if !rdm {
		est, err := thermal.Energy(cmd.Context(), model.Apply, gen, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "energy       %.10f ± %.2e\n", est.Mean, est.StdErr)
		fmt.Fprintf(out, "samples      %d accepted, %d rejected\n", est.Accepted, est.Rejected)

		return nil
	}

	est, err := thermal.RDMs(cmd.Context(), model.OneBody, model.Apply, gen, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "samples      %d accepted, %d rejected\n", est.Accepted, est.Rejected)
	fmt.Fprintf(out, "particles    up=%.10f down=%.10f\n", est.Alpha.Trace(), est.Beta.Trace())
	fmt.Fprintf(out, "rdm alpha\n%v", est.Alpha)
	fmt.Fprintf(out, "rdm beta\n%v", est.Beta)

	return nil
}
