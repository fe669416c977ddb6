// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imagecache remembers disk images created during one pipeline run, so
// identical images are not linked twice.
//
// The cache holds only key to path associations, never image content. A nil
// [*Cache] is valid and never hits.
package imagecache
