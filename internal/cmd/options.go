// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/aibor/bootimage/internal/sys"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix    = "BOOTIMAGE"
	manifestName = "Cargo.toml"
	argSeparator = "--"

	flagManifestPath = "manifest-path"
	flagTarget       = "target"
	flagVerbose      = "verbose"
	flagQuiet        = "quiet"
)

// options are the global options of all commands. Each can be given as flag
// or as environment variable with prefix "BOOTIMAGE_", for example
// BOOTIMAGE_TARGET. Flags take precedence.
type options struct {
	manifestPath string
	target       string
	verbose      bool
	quiet        bool

	// parsed is set once the command line was parsed successfully.
	parsed bool

	viper *viper.Viper
}

func newOptions() *options {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &options{viper: v}
}

func (o *options) addFlags(flags *pflag.FlagSet) {
	flags.String(flagManifestPath, "",
		"path to the kernel's Cargo.toml (default: search upwards from the working directory)")
	flags.String(flagTarget, "",
		"compilation target (default: configured default-target)")
	flags.BoolP(flagVerbose, "v", false, "print debug output")
	flags.BoolP(flagQuiet, "q", false, "print errors only")
}

// load reads the option values from the flags and the environment.
func (o *options) load(flags *pflag.FlagSet) error {
	err := o.viper.BindPFlags(flags)
	if err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	o.manifestPath = o.viper.GetString(flagManifestPath)
	o.target = o.viper.GetString(flagTarget)
	o.verbose = o.viper.GetBool(flagVerbose)
	o.quiet = o.viper.GetBool(flagQuiet)

	return nil
}

// manifest returns the absolute path of the kernel manifest.
func (o *options) manifest() (string, error) {
	if o.manifestPath != "" {
		path, err := sys.AbsolutePath(o.manifestPath)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrManifestNotFound, err)
		}

		err = sys.ValidateFilePath(path)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrManifestNotFound, err)
		}

		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}

	path, err := sys.FindUpwards(cwd, manifestName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrManifestNotFound, err)
	}

	return path, nil
}

// splitArgs splits the arguments after the first separator into build
// arguments and, after the second separator, emulator arguments. Positional
// arguments before the first separator are not allowed.
func splitArgs(cmd *cobra.Command, args []string) ([]string, []string, error) {
	dash := cmd.ArgsLenAtDash()

	switch {
	case dash < 0 && len(args) > 0, dash > 0:
		return nil, nil, &UsageError{
			Err: fmt.Errorf("%w %q, extra arguments must follow %q",
				ErrUnexpectedArgument, args[0], argSeparator),
		}
	case dash < 0:
		return nil, nil, nil
	}

	rest := args[dash:]

	idx := slices.Index(rest, argSeparator)
	if idx < 0 {
		return rest, nil, nil
	}

	return rest[:idx], rest[idx+1:], nil
}
