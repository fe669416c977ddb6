// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTarget is returned if neither an explicit target is given nor
	// a "default-target" is configured.
	ErrMissingTarget = errors.New("no target given and no default-target configured")

	// ErrInvalidType is returned if a key has a value of the wrong type.
	ErrInvalidType = errors.New("invalid type")

	// ErrInvalidValue is returned if a key has a value that is out of range
	// or otherwise not usable.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidNumericField is returned if a string encoded unsigned 64 bit
	// integer can not be parsed.
	ErrInvalidNumericField = errors.New("invalid numeric field")

	// ErrRunCommandPlaceholder is returned if the run command does not have
	// exactly one token with the image path placeholder.
	ErrRunCommandPlaceholder = errors.New(
		"exactly one token must contain the placeholder " + ImagePathPlaceholder,
	)
)

// Error names the configuration key that could not be resolved.
type Error struct {
	Key string
	Err error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return fmt.Sprintf("config key %q: %v", e.Key, e.Err)
}

// Is implements the [errors.Is] interface.
func (*Error) Is(other error) bool {
	_, ok := other.(*Error)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() error {
	return e.Err
}

func keyError(key string, format string, args ...any) *Error {
	return &Error{Key: key, Err: fmt.Errorf(format, args...)}
}
