// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"

	"github.com/aibor/bootimage/internal/verdict"
	"github.com/fatih/color"
)

// TestResult is the verdict of a single test executable.
type TestResult struct {
	Name    string
	Verdict verdict.Verdict
}

var (
	passedColor  = color.New(color.FgGreen, color.Bold)
	failedColor  = color.New(color.FgRed, color.Bold)
	timeoutColor = color.New(color.FgYellow, color.Bold)
	erroredColor = color.New(color.FgMagenta, color.Bold)
)

func verdictLabel(v verdict.Verdict) string {
	switch v {
	case verdict.Passed:
		return passedColor.Sprint("OK")
	case verdict.Failed:
		return failedColor.Sprint("FAIL")
	case verdict.TimedOut:
		return timeoutColor.Sprint("TIMEOUT")
	default:
		return erroredColor.Sprint("ERROR")
	}
}

// reporter prints progress and test results.
type reporter struct {
	// progress receives status lines. It is [io.Discard] in quiet mode.
	progress io.Writer

	// results receives test verdicts and the summary.
	results io.Writer
}

func (r *reporter) status(format string, args ...any) {
	fmt.Fprintf(r.progress, format+"\n", args...)
}

func (r *reporter) testStart(name string) {
	fmt.Fprintf(r.progress, "Running: `%s`\n", name)
}

func (r *reporter) testResult(result TestResult) {
	fmt.Fprintf(r.results, "%s: %s\n", verdictLabel(result.Verdict), result.Name)
}

func (r *reporter) summary(results []TestResult) {
	var failed []TestResult

	for _, result := range results {
		if result.Verdict != verdict.Passed {
			failed = append(failed, result)
		}
	}

	if len(failed) == 0 {
		fmt.Fprintln(r.results, passedColor.Sprint("All tests succeeded."))
		return
	}

	fmt.Fprintf(r.results, "%s\n", failedColor.Sprintf(
		"%d of %d tests did not pass:", len(failed), len(results)))

	for _, result := range failed {
		fmt.Fprintf(r.results, "    %s: %s\n", verdictLabel(result.Verdict), result.Name)
	}
}
