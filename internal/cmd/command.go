// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/aibor/bootimage/internal/kernel"
	"github.com/aibor/bootimage/internal/sys"
	"github.com/spf13/cobra"
)

const name = "bootimage"

func newRootCommand(opts *options, stdio IO) *cobra.Command {
	root := &cobra.Command{
		Use:   name,
		Short: "Create and run bootable disk images of kernels",
		Long: `Create and run bootable disk images of kernels.

The kernel is built with its configured build command. The bootloader
dependency of the kernel project is built with the kernel executable embedded
and converted into a bootable disk image. The image can then be run with the
configured emulator command. Test executables are run with a timeout and
their result is derived from the emulator's exit code.

Configuration is read from the [package.metadata.bootimage] table of the
kernel's Cargo.toml.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.parsed = true

			err := opts.load(cmd.Flags())
			if err != nil {
				return err
			}

			setupLogging(stdio.Stderr, logLevel(opts.verbose, opts.quiet))

			return nil
		},
	}

	root.SetIn(stdio.Stdin)
	root.SetOut(stdio.Stdout)
	root.SetErr(stdio.Stderr)

	opts.addFlags(root.PersistentFlags())

	root.AddCommand(
		newBuildCommand(opts, stdio),
		newRunCommand(opts, stdio),
		newRunnerCommand(opts, stdio),
		newVersionCommand(stdio),
	)

	return root
}

func newBuildCommand(opts *options, stdio IO) *cobra.Command {
	return &cobra.Command{
		Use:   "build [-- build-args...]",
		Short: "Build the kernel and create a bootable disk image",
		Long: `Build the kernel and create a bootable disk image for each kernel
executable. Arguments after "--" are passed to the kernel build command.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildArgs, emulatorArgs, err := splitArgs(cmd, args)
			if err != nil {
				return err
			}

			if len(emulatorArgs) > 0 {
				return &UsageError{Err: ErrEmulatorArgsForBuild}
			}

			p, err := newPipeline(cmd.Context(), opts, buildArgs, stdio)
			if err != nil {
				return err
			}

			return p.buildImages(cmd.Context())
		},
	}
}

func newRunCommand(opts *options, stdio IO) *cobra.Command {
	return &cobra.Command{
		Use:   "run [-- build-args... [-- emulator-args...]]",
		Short: "Build the kernel and run it in the emulator",
		Long: `Build the kernel, create a bootable disk image for each kernel
executable and run it with the configured run command. Test executables are
run with the test arguments and a timeout.

Arguments after the first "--" are passed to the kernel build command.
Arguments after the second "--" are appended to the run command.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildArgs, emulatorArgs, err := splitArgs(cmd, args)
			if err != nil {
				return err
			}

			p, err := newPipeline(cmd.Context(), opts, buildArgs, stdio)
			if err != nil {
				return err
			}

			artifacts, err := p.buildKernels(cmd.Context())
			if err != nil {
				return err
			}

			return p.runArtifacts(cmd.Context(), artifacts, emulatorArgs)
		},
	}
}

func newRunnerCommand(opts *options, stdio IO) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runner executable [emulator-args...]",
		Short: "Create a disk image for a built kernel executable and run it",
		Long: `Create a bootable disk image for an already built kernel executable and
run it. Intended to be used as cargo runner. The executable is run as test if
it is located in a "deps" directory. All arguments after the executable are
appended to the run command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			executable, err := sys.AbsolutePath(args[0])
			if err != nil {
				return err
			}

			emulatorArgs := args[1:]
			if len(emulatorArgs) > 0 && emulatorArgs[0] == argSeparator {
				emulatorArgs = emulatorArgs[1:]
			}

			p, err := newPipeline(cmd.Context(), opts, nil, stdio)
			if err != nil {
				return err
			}

			artifact := kernel.ArtifactFromPath(executable, p.cfg.Build.Target)

			return p.runArtifacts(cmd.Context(), []kernel.Artifact{artifact}, emulatorArgs)
		},
	}

	// Everything after the executable belongs to the emulator.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func newVersionCommand(stdio IO) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			buildInfo, err := getBuildInfo()
			if err != nil {
				return err
			}

			fmt.Fprintf(stdio.Stdout, "Version: %s\n", buildInfo.Main.Version)

			return nil
		},
	}
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
