// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package exitcode defines the exit codes of the bootimage tool.
//
// Every error class has its own exit code, so callers can branch on the
// result without parsing output.
package exitcode
