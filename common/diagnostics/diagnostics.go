// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package diagnostics adds opt-in performance diagnostics to CLI commands.
package diagnostics

import (
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/urfave/cli/v2"
)

// WithDiagnostics wraps a command action with optional CPU profiling, an
// execution trace, and a pprof diagnostic server, each enabled by its flag.
// The diagnosticsFlag carries the server port, cpuProfileFlag and traceFlag
// carry output file names; an unset flag leaves its facility off.
func WithDiagnostics(action cli.ActionFunc, diagnosticsFlag *cli.IntFlag, cpuProfileFlag, traceFlag *cli.StringFlag) cli.ActionFunc {
	return func(context *cli.Context) error {
		startDiagnosticServer(context.Int(diagnosticsFlag.Names()[0]))

		if filename := strings.TrimSpace(context.String(cpuProfileFlag.Names()[0])); filename != "" {
			if err := startCpuProfiler(filename); err != nil {
				return err
			}
			defer pprof.StopCPUProfile()
		}

		if filename := strings.TrimSpace(context.String(traceFlag.Names()[0])); filename != "" {
			if err := startTracer(filename); err != nil {
				return err
			}
			defer trace.Stop()
		}

		return action(context)
	}
}

func startDiagnosticServer(port int) {
	if port <= 0 || port >= (1<<16) {
		return
	}
	fmt.Printf("Starting diagnostic server at port http://localhost:%d\n", port)
	fmt.Printf("(see https://pkg.go.dev/net/http/pprof#hdr-Usage_examples for usage examples)\n")
	go func() {
		addr := fmt.Sprintf("localhost:%d", port)
		log.Println(http.ListenAndServe(addr, nil))
	}()
	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)
}

func startCpuProfiler(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	return nil
}

func startTracer(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	if err := trace.Start(f); err != nil {
		return fmt.Errorf("failed to start trace: %w", err)
	}
	return nil
}
