// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/sys"
)

// NoRebootArg makes QEMU exit instead of rebooting the guest.
const NoRebootArg = "-no-reboot"

// ErrEmptyCommand is returned if the run command is empty.
var ErrEmptyCommand = errors.New("empty run command")

// CommandLine returns the emulator command line for the disk image at
// imagePath. The image path placeholder in the run command is replaced, the
// run or test arguments are appended and finally extraArgs.
func CommandLine(
	cfg config.Run,
	imagePath string,
	isTest bool,
	extraArgs []string,
) []string {
	cmdline := make([]string, 0, len(cfg.Command)+len(cfg.TestArgs)+len(extraArgs)+1)

	for _, token := range cfg.Command {
		cmdline = append(cmdline,
			strings.ReplaceAll(token, config.ImagePathPlaceholder, imagePath))
	}

	if isTest {
		cmdline = append(cmdline, cfg.TestArgs...)
		if cfg.TestNoReboot && !slices.Contains(cmdline, NoRebootArg) {
			cmdline = append(cmdline, NoRebootArg)
		}
	} else {
		cmdline = append(cmdline, cfg.Args...)
	}

	return append(cmdline, extraArgs...)
}

// Runner runs disk images.
type Runner struct {
	Config config.Run

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run runs the emulator for the disk image at imagePath and waits for it to
// exit.
//
// For tests with a non-zero test timeout, the emulator's process group is
// killed once the timeout expires and a [Timeout] outcome is returned.
// Whichever happens first, process exit or timeout, determines the outcome.
func (r *Runner) Run(
	ctx context.Context,
	imagePath string,
	isTest bool,
	extraArgs []string,
) Outcome {
	cmdline := CommandLine(r.Config, imagePath, isTest, extraArgs)
	if len(cmdline) == 0 {
		return Outcome{Kind: ProcessError, Err: ErrEmptyCommand}
	}

	cmd := exec.CommandContext(ctx, cmdline[0], cmdline[1:]...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	sys.SetProcessGroup(cmd)

	slog.Debug("Run emulator",
		slog.Any("args", cmdline),
		slog.Bool("test", isTest))

	err := cmd.Start()
	if err != nil {
		return Outcome{Kind: ProcessError, Err: fmt.Errorf("start: %w", err)}
	}

	// Buffered, so the waiting goroutine never blocks if the timeout wins.
	waitCh := make(chan error, 1)

	go func() {
		waitCh <- cmd.Wait()
	}()

	var timeout <-chan time.Time

	if isTest && r.Config.TestTimeout > 0 {
		timer := time.NewTimer(r.Config.TestTimeout)
		defer timer.Stop()

		timeout = timer.C
	}

	select {
	case err := <-waitCh:
		return outcomeFromWait(err)
	case <-timeout:
	}

	// The process may have exited while the timer fired.
	select {
	case err := <-waitCh:
		return outcomeFromWait(err)
	default:
	}

	err = sys.KillProcessGroup(cmd)
	if err != nil {
		slog.Warn("Failed to kill emulator", slog.Any("error", err))
	}

	<-waitCh

	slog.Debug("Emulator timed out", slog.Duration("timeout", r.Config.TestTimeout))

	return Outcome{Kind: Timeout}
}

func outcomeFromWait(err error) Outcome {
	if err == nil {
		return Outcome{Kind: Success}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return Outcome{Kind: Failure, ExitCode: exitErr.ExitCode()}
	}

	return Outcome{Kind: ProcessError, Err: fmt.Errorf("wait: %w", err)}
}
