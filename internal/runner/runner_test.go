// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner_test

import (
	"bytes"
	"os/exec"
	"testing"
	"time"

	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCommandLine(t *testing.T) {
	cfg := config.Run{
		Command: []string{
			"qemu-system-x86_64",
			"-drive", "format=raw,file={}",
		},
		Args:     []string{"-serial", "stdio"},
		TestArgs: []string{"-display", "none"},
	}

	tests := []struct {
		name      string
		modify    func(*config.Run)
		imagePath string
		isTest    bool
		extraArgs []string
		expected  []string
	}{
		{
			name:      "run",
			imagePath: "/target/bootimage-kernel.bin",
			expected: []string{
				"qemu-system-x86_64",
				"-drive", "format=raw,file=/target/bootimage-kernel.bin",
				"-serial", "stdio",
			},
		},
		{
			name:      "run with extra args",
			imagePath: "/target/bootimage-kernel.bin",
			extraArgs: []string{"-m", "1G"},
			expected: []string{
				"qemu-system-x86_64",
				"-drive", "format=raw,file=/target/bootimage-kernel.bin",
				"-serial", "stdio",
				"-m", "1G",
			},
		},
		{
			name:      "test",
			imagePath: "/target/deps/bootimage-basic_boot-1a.bin",
			isTest:    true,
			extraArgs: []string{"-s"},
			expected: []string{
				"qemu-system-x86_64",
				"-drive", "format=raw,file=/target/deps/bootimage-basic_boot-1a.bin",
				"-display", "none",
				"-s",
			},
		},
		{
			name: "test no reboot",
			modify: func(r *config.Run) {
				r.TestNoReboot = true
			},
			imagePath: "/img.bin",
			isTest:    true,
			expected: []string{
				"qemu-system-x86_64",
				"-drive", "format=raw,file=/img.bin",
				"-display", "none",
				"-no-reboot",
			},
		},
		{
			name: "test no reboot already given",
			modify: func(r *config.Run) {
				r.TestNoReboot = true
				r.TestArgs = []string{"-no-reboot"}
			},
			imagePath: "/img.bin",
			isTest:    true,
			expected: []string{
				"qemu-system-x86_64",
				"-drive", "format=raw,file=/img.bin",
				"-no-reboot",
			},
		},
		{
			name: "no reboot ignored for run",
			modify: func(r *config.Run) {
				r.TestNoReboot = true
				r.Args = nil
			},
			imagePath: "/img.bin",
			expected: []string{
				"qemu-system-x86_64",
				"-drive", "format=raw,file=/img.bin",
			},
		},
		{
			name: "placeholder as whole token",
			modify: func(r *config.Run) {
				r.Command = []string{"emu", "--disk", "{}", "--name", "x{y}"}
				r.Args = nil
			},
			imagePath: "/path with space/img.bin",
			expected: []string{
				"emu", "--disk", "/path with space/img.bin", "--name", "x{y}",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := cfg
			if tt.modify != nil {
				tt.modify(&run)
			}

			actual := runner.CommandLine(run, tt.imagePath, tt.isTest, tt.extraArgs)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestCommandLineKeepsConfig(t *testing.T) {
	cfg := config.Run{
		Command: make([]string, 2, 10),
		Args:    []string{"-a"},
	}
	copy(cfg.Command, []string{"emu", "{}"})

	_ = runner.CommandLine(cfg, "/img.bin", false, []string{"-x"})

	assert.Equal(t, []string{"emu", "{}"}, cfg.Command)
	assert.Equal(t, []string{"-a"}, cfg.Args)
}

func shellRunner(script string, timeout time.Duration) *runner.Runner {
	return &runner.Runner{
		Config: config.Run{
			Command:     []string{"sh", "-c", script, "{}"},
			TestTimeout: timeout,
		},
	}
}

func TestRunnerRun(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		timeout  time.Duration
		isTest   bool
		expected runner.Outcome
	}{
		{
			name:     "success",
			script:   "exit 0",
			expected: runner.Outcome{Kind: runner.Success},
		},
		{
			name:     "failure",
			script:   "exit 33",
			isTest:   true,
			timeout:  10 * time.Second,
			expected: runner.Outcome{Kind: runner.Failure, ExitCode: 33},
		},
		{
			name:     "timeout",
			script:   "sleep 30",
			isTest:   true,
			timeout:  100 * time.Millisecond,
			expected: runner.Outcome{Kind: runner.Timeout},
		},
		{
			name:     "timeout kills process tree",
			script:   "sleep 30 & sleep 30 & wait",
			isTest:   true,
			timeout:  100 * time.Millisecond,
			expected: runner.Outcome{Kind: runner.Timeout},
		},
		{
			name:     "no timeout for run",
			script:   "sleep 0.3",
			timeout:  10 * time.Millisecond,
			expected: runner.Outcome{Kind: runner.Success},
		},
		{
			name:     "zero timeout disables timeout",
			script:   "sleep 0.3",
			isTest:   true,
			expected: runner.Outcome{Kind: runner.Success},
		},
		{
			name:     "exit before timeout",
			script:   "exit 1",
			isTest:   true,
			timeout:  10 * time.Second,
			expected: runner.Outcome{Kind: runner.Failure, ExitCode: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer

			r := shellRunner(tt.script, tt.timeout)
			r.Stdout = &stdout

			start := time.Now()
			actual := r.Run(t.Context(), "/img.bin", tt.isTest, nil)

			assert.Equal(t, tt.expected, actual)
			assert.Less(t, time.Since(start), 10*time.Second)
		})
	}
}

func TestRunnerRunOutput(t *testing.T) {
	var stdout bytes.Buffer

	r := shellRunner(`echo "$0" "$@"`, 0)
	r.Stdout = &stdout

	outcome := r.Run(t.Context(), "/target/bootimage-kernel.bin", false, []string{"extra"})
	require.Equal(t, runner.Success, outcome.Kind)
	assert.Equal(t, "/target/bootimage-kernel.bin extra\n", stdout.String())
}

func TestRunnerRunProcessError(t *testing.T) {
	t.Run("missing executable", func(t *testing.T) {
		r := &runner.Runner{
			Config: config.Run{
				Command: []string{"bootimage-test-missing-emulator", "{}"},
			},
		}

		outcome := r.Run(t.Context(), "/img.bin", true, nil)
		require.Equal(t, runner.ProcessError, outcome.Kind)
		require.ErrorIs(t, outcome.Err, exec.ErrNotFound)
	})

	t.Run("killed by signal", func(t *testing.T) {
		r := shellRunner("kill -9 $$", time.Second)

		outcome := r.Run(t.Context(), "/img.bin", true, nil)
		require.Equal(t, runner.ProcessError, outcome.Kind)
		require.Error(t, outcome.Err)
	})

	t.Run("empty command", func(t *testing.T) {
		r := &runner.Runner{}

		outcome := r.Run(t.Context(), "/img.bin", false, nil)
		require.Equal(t, runner.ProcessError, outcome.Kind)
		require.ErrorIs(t, outcome.Err, runner.ErrEmptyCommand)
	})
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome  runner.Outcome
		expected string
	}{
		{runner.Outcome{Kind: runner.Success}, "success"},
		{runner.Outcome{Kind: runner.Failure, ExitCode: 3}, "failure (exit code 3)"},
		{runner.Outcome{Kind: runner.Timeout}, "timeout"},
		{runner.Outcome{Kind: runner.Kind(9)}, "Kind(9)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.outcome.String())
		})
	}
}
