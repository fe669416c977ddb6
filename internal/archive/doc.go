// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive packs directories into cpio archives that are appended to
// disk images as additional package.
package archive
