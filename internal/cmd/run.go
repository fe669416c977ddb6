// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"io"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run is the main entry point for the CLI command. It returns the exit code
// the process should exit with.
func Run(ctx context.Context, args []string, stdio IO) int {
	opts := newOptions()

	// Log errors occurring before the flags are parsed.
	setupLogging(stdio.Stderr, logLevel(false, false))

	root := newRootCommand(opts, stdio)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	// Errors before any command ran are caused by invalid arguments.
	if !opts.parsed {
		err = &UsageError{Err: err}
	}

	return handleError(err, stdio.Stderr, opts.quiet)
}
