// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config resolves the build and run configuration of a kernel
// project. The configuration is read from the "package.metadata.bootimage"
// table of the kernel's Cargo.toml manifest. Keys that are not known are
// ignored.
package config
