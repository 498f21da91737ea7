// SPDX-License-Identifier: MIT

// Command ftlm runs finite-temperature Lanczos estimates on a Fermi-Hubbard
// chain.
//
//	ftlm energy --sites 6 --nup 3 --ndown 3 --u 4 --temperature 0.5 --samples 50
//	ftlm rdm --config run.yaml --workers 4
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
