// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

// Exit codes of the tool.
const (
	OK       = 0
	Internal = 1
	Config   = 2
	Build    = 3
	Link     = 4
	Process  = 5

	// TestFailed is returned if at least one test failed and none errored.
	TestFailed = 6

	// TestTimedOut is returned if at least one test timed out and none
	// failed or errored.
	TestTimedOut = 7

	// Emulator is returned if the emulator of a non-test run exited with a
	// non-zero exit code.
	Emulator = 8
)
