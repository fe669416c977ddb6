// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Recognized configuration keys.
const (
	KeyDefaultTarget        = "default-target"
	KeyBuildCommand         = "build-command"
	KeyRunCommand           = "run-command"
	KeyRunArgs              = "run-args"
	KeyTestArgs             = "test-args"
	KeyTestSuccessExitCode  = "test-success-exit-code"
	KeyTestTimeout          = "test-timeout"
	KeyTestNoReboot         = "test-no-reboot"
	KeyPhysicalMemoryOffset = "physical-memory-offset"
	KeyKernelStackAddress   = "kernel-stack-address"
	KeyKernelStackSize      = "kernel-stack-size"
	KeyBootloaderName       = "bootloader-name"
	KeyPackage              = "package"
	KeyMinimumImageSize     = "minimum-image-size"
)

const maxExitCode = 255

var (
	// bootimageTable is the manifest table holding the configuration.
	bootimageTable = []string{"package", "metadata", "bootimage"}

	// bootloaderTable may hold the memory layout keys as well. Values in
	// bootimageTable take precedence.
	bootloaderTable = []string{"package", "metadata", "bootloader"}
)

type table map[string]any

// Load reads the manifest at manifestPath and resolves its configuration.
//
// See [Resolve] for the target resolution. A relative target specification
// file given as target is resolved relative to the working directory. A
// configured one is resolved relative to the manifest's directory.
func Load(manifestPath, target string, buildArgs []string) (*Config, error) {
	manifestPath, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("manifest path: %w", err)
	}

	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	cfg, err := Resolve(raw, target)
	if err != nil {
		return nil, err
	}

	cfg.ManifestPath = manifestPath
	cfg.Build.Args = buildArgs

	// Builds run in different working directories, so target specification
	// files must be given as absolute paths.
	if strings.HasSuffix(cfg.Build.Target, ".json") && !filepath.IsAbs(cfg.Build.Target) {
		if target == "" {
			cfg.Build.Target = filepath.Join(filepath.Dir(manifestPath), cfg.Build.Target)
		} else {
			cfg.Build.Target, err = filepath.Abs(cfg.Build.Target)
			if err != nil {
				return nil, fmt.Errorf("target path: %w", err)
			}
		}
	}

	if cfg.Build.PackagePath != "" && !filepath.IsAbs(cfg.Build.PackagePath) {
		cfg.Build.PackagePath = filepath.Join(
			filepath.Dir(manifestPath),
			cfg.Build.PackagePath,
		)
	}

	return cfg, nil
}

// Resolve parses the given raw manifest text and returns the resolved
// configuration.
//
// The target is resolved in the order: the given target, the configured
// "default-target". If neither is set, [ErrMissingTarget] is returned. All
// other keys are validated before the target is resolved, so configuration
// errors are reported first.
func Resolve(raw []byte, target string) (*Config, error) {
	var manifest table

	err := toml.Unmarshal(raw, &manifest)
	if err != nil {
		return nil, &Error{
			Key: strings.Join(bootimageTable, "."),
			Err: fmt.Errorf("parse manifest: %w", err),
		}
	}

	bootimage, err := subTable(manifest, bootimageTable)
	if err != nil {
		return nil, err
	}

	bootloader, err := subTable(manifest, bootloaderTable)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	err = resolveBuild(&cfg.Build, bootimage)
	if err != nil {
		return nil, err
	}

	err = resolveRun(&cfg.Run, bootimage)
	if err != nil {
		return nil, err
	}

	// Layout keys of the bootloader table are overridden by the ones in
	// the bootimage table.
	layout := make(table, len(bootloader))
	for key, value := range bootloader {
		layout[key] = value
	}

	for key, value := range bootimage {
		layout[key] = value
	}

	err = resolveMemoryLayout(&cfg.MemoryLayout, layout)
	if err != nil {
		return nil, err
	}

	switch {
	case target != "":
		cfg.Build.Target = target
	case cfg.Build.DefaultTarget != "":
		cfg.Build.Target = cfg.Build.DefaultTarget
	default:
		return nil, ErrMissingTarget
	}

	return cfg, nil
}

func resolveBuild(build *Build, t table) error {
	var err error

	build.DefaultTarget, _, err = t.getString(KeyDefaultTarget)
	if err != nil {
		return err
	}

	build.Command, err = t.getCommand(KeyBuildCommand, DefaultBuildCommand())
	if err != nil {
		return err
	}

	name, ok, err := t.getString(KeyBootloaderName)
	if err != nil {
		return err
	}

	build.BootloaderName = DefaultBootloaderName
	if ok {
		if name == "" {
			return keyError(KeyBootloaderName, "%w: empty", ErrInvalidValue)
		}

		build.BootloaderName = name
	}

	build.PackagePath, _, err = t.getString(KeyPackage)
	if err != nil {
		return err
	}

	size, ok, err := t.getInt(KeyMinimumImageSize)
	if err != nil {
		return err
	}

	if ok {
		if size < 0 || uint64(size) > math.MaxUint64/mebibyte {
			return keyError(KeyMinimumImageSize, "%w: %d", ErrInvalidValue, size)
		}

		build.MinimumImageSize = uint64(size) * mebibyte
	}

	return nil
}

func resolveRun(run *Run, t table) error {
	var err error

	run.Command, err = t.getCommand(KeyRunCommand, DefaultRunCommand())
	if err != nil {
		return err
	}

	var placeholders int

	for _, token := range run.Command {
		if strings.Contains(token, ImagePathPlaceholder) {
			placeholders++
		}
	}

	if placeholders != 1 {
		return &Error{Key: KeyRunCommand, Err: ErrRunCommandPlaceholder}
	}

	run.Args, _, err = t.getStringList(KeyRunArgs)
	if err != nil {
		return err
	}

	run.TestArgs, _, err = t.getStringList(KeyTestArgs)
	if err != nil {
		return err
	}

	code, ok, err := t.getInt(KeyTestSuccessExitCode)
	if err != nil {
		return err
	}

	if ok {
		if code < 0 || code > maxExitCode {
			return keyError(KeyTestSuccessExitCode, "%w: %d", ErrInvalidValue, code)
		}

		exitCode := int(code)
		run.TestSuccessExitCode = &exitCode
	}

	timeout, ok, err := t.getInt(KeyTestTimeout)
	if err != nil {
		return err
	}

	run.TestTimeout = DefaultTestTimeout

	if ok {
		// Zero disables the timeout.
		if timeout < 0 || timeout > int64(math.MaxInt64/time.Second) {
			return keyError(KeyTestTimeout, "%w: %d", ErrInvalidValue, timeout)
		}

		run.TestTimeout = time.Duration(timeout) * time.Second
	}

	run.TestNoReboot = true

	noReboot, ok, err := t.getBool(KeyTestNoReboot)
	if err != nil {
		return err
	}

	if ok {
		run.TestNoReboot = noReboot
	}

	return nil
}

func resolveMemoryLayout(layout *MemoryLayout, t table) error {
	var err error

	layout.PhysicalMemoryOffset, err = t.getUint64String(KeyPhysicalMemoryOffset)
	if err != nil {
		return err
	}

	layout.KernelStackAddress, err = t.getUint64String(KeyKernelStackAddress)
	if err != nil {
		return err
	}

	size, ok, err := t.getInt(KeyKernelStackSize)
	if err != nil {
		return err
	}

	layout.KernelStackSize = DefaultKernelStackSize

	if ok {
		if size <= 0 || uint64(size) > math.MaxUint64/PageSize {
			return keyError(KeyKernelStackSize, "%w: %d", ErrInvalidValue, size)
		}

		layout.KernelStackSize = uint64(size)
	}

	return nil
}

// subTable walks the given path of tables. Missing tables result in an empty
// table.
func subTable(t table, path []string) (table, error) {
	current := t

	for idx, key := range path {
		value, exists := current[key]
		if !exists {
			return table{}, nil
		}

		next, ok := value.(map[string]any)
		if !ok {
			return nil, &Error{
				Key: strings.Join(path[:idx+1], "."),
				Err: fmt.Errorf("%w: expected table", ErrInvalidType),
			}
		}

		current = next
	}

	return current, nil
}

func (t table) getString(key string) (string, bool, error) {
	value, exists := t[key]
	if !exists {
		return "", false, nil
	}

	s, ok := value.(string)
	if !ok {
		return "", false, keyError(key, "%w: expected string", ErrInvalidType)
	}

	return s, true, nil
}

func (t table) getStringList(key string) ([]string, bool, error) {
	value, exists := t[key]
	if !exists {
		return nil, false, nil
	}

	list, ok := value.([]any)
	if !ok {
		return nil, false, keyError(key, "%w: expected list of strings", ErrInvalidType)
	}

	strs := make([]string, 0, len(list))

	for idx, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, false, keyError(key, "%w: element %d is not a string",
				ErrInvalidType, idx)
		}

		strs = append(strs, s)
	}

	return strs, true, nil
}

func (t table) getCommand(key string, defaultCommand []string) ([]string, error) {
	cmd, ok, err := t.getStringList(key)
	if err != nil {
		return nil, err
	}

	if !ok {
		return defaultCommand, nil
	}

	if len(cmd) == 0 || cmd[0] == "" {
		return nil, keyError(key, "%w: empty command", ErrInvalidValue)
	}

	return cmd, nil
}

func (t table) getInt(key string) (int64, bool, error) {
	value, exists := t[key]
	if !exists {
		return 0, false, nil
	}

	i, ok := value.(int64)
	if !ok {
		return 0, false, keyError(key, "%w: expected integer", ErrInvalidType)
	}

	return i, true, nil
}

func (t table) getBool(key string) (bool, bool, error) {
	value, exists := t[key]
	if !exists {
		return false, false, nil
	}

	b, ok := value.(bool)
	if !ok {
		return false, false, keyError(key, "%w: expected boolean", ErrInvalidType)
	}

	return b, true, nil
}

// getUint64String returns the unsigned 64 bit integer encoded in the string
// value of key. TOML has no unsigned 64 bit integers, so large addresses are
// given as strings. Hex, octal and binary prefixes are supported. Non
// negative integer values are accepted as well.
func (t table) getUint64String(key string) (*uint64, error) {
	value, exists := t[key]
	if !exists {
		return nil, nil //nolint:nilnil
	}

	var (
		parsed uint64
		err    error
	)

	switch v := value.(type) {
	case string:
		parsed, err = strconv.ParseUint(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return nil, keyError(key, "%w: %q", ErrInvalidNumericField, v)
		}
	case int64:
		if v < 0 {
			return nil, keyError(key, "%w: %d", ErrInvalidNumericField, v)
		}

		parsed = uint64(v)
	default:
		return nil, keyError(key, "%w: expected string", ErrInvalidNumericField)
	}

	return &parsed, nil
}
