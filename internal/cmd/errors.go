// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aibor/bootimage/internal/verdict"
)

var (
	// ErrReadBuildInfo is returned if the build info can not be read.
	ErrReadBuildInfo = errors.New("failed to read build info")

	// ErrManifestNotFound is returned if no kernel manifest is given and none
	// is found in the working directory or any of its parents.
	ErrManifestNotFound = errors.New("kernel manifest not found")

	// ErrUnexpectedArgument is returned for positional arguments that are
	// not separated by "--".
	ErrUnexpectedArgument = errors.New("unexpected argument")

	// ErrEmulatorArgsForBuild is returned if emulator arguments are given to
	// the build command.
	ErrEmulatorArgsForBuild = errors.New("build does not run an emulator")
)

// UsageError wraps errors that occur during argument parsing.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return "usage: " + e.Err.Error()
}

func (*UsageError) Is(other error) bool {
	_, ok := other.(*UsageError)
	return ok
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// EmulatorError is returned if the emulator could not be run or did not exit
// with an exit code.
type EmulatorError struct {
	Err error
}

func (e *EmulatorError) Error() string {
	return "emulator: " + e.Err.Error()
}

func (*EmulatorError) Is(other error) bool {
	_, ok := other.(*EmulatorError)
	return ok
}

func (e *EmulatorError) Unwrap() error {
	return e.Err
}

// TestsError is returned if at least one test did not pass.
type TestsError struct {
	Results []TestResult
}

func (e *TestsError) Error() string {
	var names []string

	for _, result := range e.Results {
		if result.Verdict != verdict.Passed {
			names = append(names, fmt.Sprintf("%s (%s)", result.Name, result.Verdict))
		}
	}

	return "tests did not pass: " + strings.Join(names, ", ")
}

func (*TestsError) Is(other error) bool {
	_, ok := other.(*TestsError)
	return ok
}

// count returns the number of results with the given verdict.
func (e *TestsError) count(v verdict.Verdict) int {
	var count int

	for _, result := range e.Results {
		if result.Verdict == v {
			count++
		}
	}

	return count
}
