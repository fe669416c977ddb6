// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aibor/bootimage/internal/bootloader"
	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/exitcode"
	"github.com/aibor/bootimage/internal/kernel"
	"github.com/aibor/bootimage/internal/sys"
	"github.com/aibor/bootimage/internal/verdict"
)

// exitCodeFor returns the exit code for the given error. Pipeline errors take
// precedence over test results and emulator exit codes.
func exitCodeFor(err error) int {
	var testsErr *TestsError

	switch {
	case err == nil:
		return exitcode.OK
	case errors.Is(err, &UsageError{}),
		errors.Is(err, ErrManifestNotFound),
		errors.Is(err, &config.Error{}),
		errors.Is(err, config.ErrMissingTarget):
		return exitcode.Config
	case errors.Is(err, &kernel.BuildError{}),
		errors.Is(err, kernel.ErrNoExecutables),
		errors.Is(err, sys.ErrNotELFFile),
		errors.Is(err, sys.ErrMachineNotSupported):
		return exitcode.Build
	case errors.Is(err, bootloader.ErrNotFound),
		errors.Is(err, &bootloader.LinkError{}):
		return exitcode.Link
	case errors.As(err, &testsErr):
		switch {
		case testsErr.count(verdict.Errored) > 0:
			return exitcode.Process
		case testsErr.count(verdict.Failed) > 0:
			return exitcode.TestFailed
		default:
			return exitcode.TestTimedOut
		}
	case errors.Is(err, &EmulatorError{}):
		return exitcode.Process
	case errors.Is(err, exitcode.Error(0)):
		return exitcode.Emulator
	default:
		return exitcode.Internal
	}
}

// handleError prints the error and returns the exit code for it.
//
// Test failures are already reported by the summary and a non-zero exit code
// of the emulator by a status line, so they are not logged again.
func handleError(err error, stderr io.Writer, quiet bool) int {
	for _, single := range splitJoined(err) {
		if !alreadyReported(single) {
			slog.Error(single.Error())
		}

		// In quiet mode, the diagnostics of the failed build were not
		// printed while it ran.
		if quiet {
			printBuildOutput(single, stderr)
		}
	}

	return exitCodeFor(err)
}

// splitJoined returns the errors err is a join of. Any other error is
// returned as only element.
func splitJoined(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}

	var errs []error

	for _, e := range joined.Unwrap() {
		errs = append(errs, splitJoined(e)...)
	}

	return errs
}

func alreadyReported(err error) bool {
	switch err.(type) {
	case *TestsError, exitcode.Error:
		return true
	default:
		return false
	}
}

func printBuildOutput(err error, stderr io.Writer) {
	var (
		buildErr *kernel.BuildError
		linkErr  *bootloader.LinkError
	)

	if errors.As(err, &buildErr) && buildErr.Output != "" {
		fmt.Fprint(stderr, buildErr.Output)
	}

	if errors.As(err, &linkErr) && linkErr.Output != "" {
		fmt.Fprint(stderr, linkErr.Output)
	}
}
