// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cargo

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MessageFormatArg makes cargo print JSON messages on stdout while rendering
// compiler diagnostics on stderr.
const MessageFormatArg = "--message-format=json-render-diagnostics"

const (
	reasonCompilerArtifact = "compiler-artifact"

	maxMessageSize = 16 << 20
)

// Message is a single line of cargo's JSON message stream. Only the fields
// needed for compiler artifacts are decoded.
type Message struct {
	Reason     string  `json:"reason"`
	Target     Target  `json:"target"`
	Profile    Profile `json:"profile"`
	Executable *string `json:"executable"`
}

// Profile is the build profile of a compiler artifact.
type Profile struct {
	Test bool `json:"test"`
}

// Executable is an executable produced by a build.
type Executable struct {
	Path   string
	Name   string
	IsTest bool
}

// ParseExecutables reads cargo's JSON message stream and returns all
// executables in the order they were reported. Lines that are not JSON
// objects are ignored.
func ParseExecutables(r io.Reader) ([]Executable, error) {
	var executables []Executable

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxMessageSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var msg Message

		err := json.Unmarshal(line, &msg)
		if err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}

		if msg.Reason != reasonCompilerArtifact || msg.Executable == nil {
			continue
		}

		executables = append(executables, Executable{
			Path:   *msg.Executable,
			Name:   msg.Target.Name,
			IsTest: msg.Profile.Test,
		})
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}

	return executables, nil
}
