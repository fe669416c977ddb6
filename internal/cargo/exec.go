// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cargo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/aibor/bootimage/internal/sys"
	"golang.org/x/sync/errgroup"
)

// StdoutFunc consumes the standard output of a [Command] while it is running.
type StdoutFunc func(stdout io.Reader) error

// Command is a synchronous invocation of an external build tool.
type Command struct {
	// Args are the executable and its arguments.
	Args []string

	// Dir is the working directory. If empty, the current one is used.
	Dir string

	// Env are additional environment variables in the form "KEY=value".
	Env []string

	// Stdout consumes the standard output. If nil, it is discarded.
	Stdout StdoutFunc

	// Stderr receives a copy of the standard error output, if set.
	Stderr io.Writer
}

// Exec runs the command and waits for it to terminate. The command runs in
// its own process group that is killed if ctx is done.
//
// A non-zero exit code is returned as [ExitError] that carries the tail of
// the standard error output. An error that prevents the command from running
// at all is returned as is.
func Exec(ctx context.Context, command Command) error {
	if len(command.Args) == 0 {
		return ErrEmptyCommand
	}

	cmd := exec.CommandContext(ctx, command.Args[0], command.Args[1:]...)
	cmd.Dir = command.Dir

	if len(command.Env) > 0 {
		cmd.Env = append(os.Environ(), command.Env...)
	}

	sys.SetProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	slog.Debug("Run build command",
		slog.Any("args", command.Args),
		slog.Any("env", command.Env),
		slog.String("dir", command.Dir))

	err = cmd.Start()
	if err != nil {
		return fmt.Errorf("start %s: %w", command.Args[0], err)
	}

	tail := newTailBuffer(defaultTailSize)

	var stderrDst io.Writer = tail
	if command.Stderr != nil {
		stderrDst = io.MultiWriter(tail, command.Stderr)
	}

	var group errgroup.Group

	group.Go(func() error {
		return consumeStdout(stdout, command.Stdout)
	})

	group.Go(func() error {
		_, err := io.Copy(stderrDst, stderr)
		if err != nil {
			return fmt.Errorf("copy stderr: %w", err)
		}

		return nil
	})

	// Pipes must be read completely before waiting for the process.
	outputErr := group.Wait()
	waitErr := cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ExitCode() >= 0 {
		return &ExitError{
			Args:     command.Args,
			ExitCode: exitErr.ExitCode(),
			Output:   tail.String(),
		}
	}

	if waitErr != nil {
		return fmt.Errorf("wait %s: %w", command.Args[0], waitErr)
	}

	if outputErr != nil {
		return fmt.Errorf("output %s: %w", command.Args[0], outputErr)
	}

	return nil
}

// consumeStdout hands the reader to fn and drains whatever fn left unread,
// so the process never blocks on a full pipe.
func consumeStdout(stdout io.Reader, fn StdoutFunc) error {
	var err error
	if fn != nil {
		err = fn(stdout)
	}

	_, copyErr := io.Copy(io.Discard, stdout)

	return errors.Join(err, copyErr)
}
