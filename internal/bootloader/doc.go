// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package bootloader builds the bootloader dependency of a kernel project with
// an embedded kernel executable and assembles the result into a bootable disk
// image.
//
// The bootloader itself is an external package. It is located with
// "cargo metadata" and built with the configured build command. The kernel
// executable and the memory layout are passed as environment variables, which
// the bootloader's build script embeds.
package bootloader
