// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cargo runs the external Rust build tool and reads its machine
// readable output: the package metadata of a workspace and the message stream
// of a build invocation.
package cargo
