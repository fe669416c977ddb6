// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/aibor/bootimage/internal/bootloader"
	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/exitcode"
	"github.com/aibor/bootimage/internal/kernel"
	"github.com/aibor/bootimage/internal/sys"
	"github.com/aibor/bootimage/internal/verdict"
	"github.com/stretchr/testify/assert"
)

func testsError(verdicts ...verdict.Verdict) *TestsError {
	err := &TestsError{}

	for idx, v := range verdicts {
		err.Results = append(err.Results, TestResult{
			Name:    fmt.Sprintf("test%d", idx),
			Verdict: v,
		})
	}

	return err
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil",
			expected: exitcode.OK,
		},
		{
			name:     "unknown",
			err:      assert.AnError,
			expected: exitcode.Internal,
		},
		{
			name:     "usage",
			err:      &UsageError{Err: assert.AnError},
			expected: exitcode.Config,
		},
		{
			name:     "manifest not found",
			err:      fmt.Errorf("%w: Cargo.toml", ErrManifestNotFound),
			expected: exitcode.Config,
		},
		{
			name:     "missing target",
			err:      fmt.Errorf("config: %w", config.ErrMissingTarget),
			expected: exitcode.Config,
		},
		{
			name: "config key",
			err: &config.Error{
				Key: "physical-memory-offset",
				Err: config.ErrInvalidNumericField,
			},
			expected: exitcode.Config,
		},
		{
			name:     "build failed",
			err:      fmt.Errorf("build kernel: %w", &kernel.BuildError{ExitCode: 101}),
			expected: exitcode.Build,
		},
		{
			name:     "no executables",
			err:      kernel.ErrNoExecutables,
			expected: exitcode.Build,
		},
		{
			name:     "invalid kernel",
			err:      fmt.Errorf("kernel: %w", sys.ErrNotELFFile),
			expected: exitcode.Build,
		},
		{
			name:     "bootloader not found",
			err:      bootloader.ErrNotFound,
			expected: exitcode.Link,
		},
		{
			name:     "link failed",
			err:      &bootloader.LinkError{ExitCode: 1},
			expected: exitcode.Link,
		},
		{
			name:     "emulator",
			err:      &EmulatorError{Err: assert.AnError},
			expected: exitcode.Process,
		},
		{
			name:     "emulator exit code",
			err:      exitcode.Error(3),
			expected: exitcode.Emulator,
		},
		{
			name:     "joined emulator exit codes",
			err:      errors.Join(exitcode.Error(1), exitcode.Error(33)),
			expected: exitcode.Emulator,
		},
		{
			name:     "test failed",
			err:      testsError(verdict.Passed, verdict.Failed, verdict.TimedOut),
			expected: exitcode.TestFailed,
		},
		{
			name:     "test timed out",
			err:      testsError(verdict.Passed, verdict.TimedOut),
			expected: exitcode.TestTimedOut,
		},
		{
			name:     "test errored",
			err:      testsError(verdict.Failed, verdict.Errored),
			expected: exitcode.Process,
		},
		{
			name: "link failure wins over test results",
			err: errors.Join(
				&bootloader.LinkError{ExitCode: 1},
				testsError(verdict.Failed),
			),
			expected: exitcode.Link,
		},
		{
			name: "invalid kernel wins over emulator exit code",
			err: errors.Join(
				fmt.Errorf("kernel: %w", sys.ErrMachineNotSupported),
				exitcode.Error(33),
			),
			expected: exitcode.Build,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeFor(tt.err))
		})
	}
}

func TestHandleErrorQuietPrintsBuildOutput(t *testing.T) {
	var stderr bytes.Buffer

	err := fmt.Errorf("build kernel: %w", &kernel.BuildError{
		ExitCode: 101,
		Output:   "error[E0425]: cannot find value\n",
	})

	setupLogging(io.Discard, slog.LevelWarn)

	exitCode := handleError(err, &stderr, true)
	assert.Equal(t, exitcode.Build, exitCode)
	assert.Equal(t, "error[E0425]: cannot find value\n", stderr.String())
}

func TestHandleErrorLogging(t *testing.T) {
	tests := []struct {
		name             string
		err              error
		expectedExitCode int
		expectedLog      []string
	}{
		{
			name:             "emulator exit code",
			err:              errors.Join(exitcode.Error(33)),
			expectedExitCode: exitcode.Emulator,
		},
		{
			name: "test failures",
			err: errors.Join(
				exitcode.Error(1),
				testsError(verdict.Failed),
			),
			expectedExitCode: exitcode.TestFailed,
		},
		{
			name: "only unreported errors are logged",
			err: errors.Join(
				fmt.Errorf("link kernel: %w", &bootloader.LinkError{ExitCode: 101}),
				testsError(verdict.Failed),
			),
			expectedExitCode: exitcode.Link,
			expectedLog: []string{
				"level=ERROR",
				"link kernel: bootloader build failed with exit code 101",
			},
		},
		{
			name:             "single error",
			err:              &EmulatorError{Err: assert.AnError},
			expectedExitCode: exitcode.Process,
			expectedLog:      []string{"level=ERROR", "emulator: "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer

			setupLogging(&stderr, slog.LevelWarn)

			exitCode := handleError(tt.err, &stderr, false)
			assert.Equal(t, tt.expectedExitCode, exitCode)

			if len(tt.expectedLog) == 0 {
				assert.Empty(t, stderr.String())
			}

			for _, line := range tt.expectedLog {
				assert.Contains(t, stderr.String(), line)
			}

			assert.NotContains(t, stderr.String(), "tests did not pass")
			assert.NotContains(t, stderr.String(), "non-zero exit code")
		})
	}
}

func TestHandleErrorQuietPrintsAllLinkOutputs(t *testing.T) {
	var stderr bytes.Buffer

	setupLogging(io.Discard, slog.LevelWarn)

	err := errors.Join(
		fmt.Errorf("link first: %w", &bootloader.LinkError{
			ExitCode: 101,
			Output:   "first linker error\n",
		}),
		fmt.Errorf("link second: %w", &bootloader.LinkError{
			ExitCode: 101,
			Output:   "second linker error\n",
		}),
	)

	exitCode := handleError(err, &stderr, true)
	assert.Equal(t, exitcode.Link, exitCode)
	assert.Equal(t, "first linker error\nsecond linker error\n", stderr.String())
}

func TestTestsErrorError(t *testing.T) {
	err := testsError(verdict.Passed, verdict.Failed, verdict.TimedOut)
	assert.Equal(t, "tests did not pass: test1 (failed), test2 (timed out)", err.Error())
}
