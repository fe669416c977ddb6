// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aibor/bootimage/internal/bootloader"
	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/exitcode"
	"github.com/aibor/bootimage/internal/imagecache"
	"github.com/aibor/bootimage/internal/kernel"
	"github.com/aibor/bootimage/internal/runner"
	"github.com/aibor/bootimage/internal/verdict"
)

// ErrUnexpectedOutcome is returned if a non-test run ends with an outcome
// that only test runs can have.
var ErrUnexpectedOutcome = errors.New("unexpected run outcome")

// pipeline processes kernel executables from build to run. Executables are
// processed one at a time. A failure of one executable does not stop the
// processing of the others.
type pipeline struct {
	cfg     *config.Config
	builder *kernel.Builder
	linker  *bootloader.Linker
	runner  *runner.Runner
	report  *reporter
}

// newPipeline resolves the configuration and locates the bootloader. The
// image cache lives as long as the pipeline.
func newPipeline(
	ctx context.Context,
	opts *options,
	buildArgs []string,
	stdio IO,
) (*pipeline, error) {
	manifestPath, err := opts.manifest()
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	cfg, err := config.Load(manifestPath, opts.target, buildArgs)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	slog.Debug("Resolved config",
		slog.String("manifest", cfg.ManifestPath),
		slog.String("target", cfg.Build.Target))

	cache, err := imagecache.New(imagecache.DefaultSize)
	if err != nil {
		return nil, err
	}

	linker, err := bootloader.NewLinker(ctx, cfg, cache)
	if err != nil {
		return nil, fmt.Errorf("bootloader: %w", err)
	}

	report := &reporter{
		progress: stdio.Stderr,
		results:  stdio.Stdout,
	}

	// Compiler diagnostics are passed through unless in quiet mode. Their
	// tail is printed on failure then.
	var diagnostics io.Writer = stdio.Stderr
	if opts.quiet {
		report.progress = io.Discard
		diagnostics = nil
	}

	linker.Stderr = diagnostics

	return &pipeline{
		cfg: cfg,
		builder: &kernel.Builder{
			ManifestPath: cfg.ManifestPath,
			Config:       cfg.Build,
			Stderr:       diagnostics,
		},
		linker: linker,
		runner: &runner.Runner{
			Config: cfg.Run,
			Stdin:  stdio.Stdin,
			Stdout: stdio.Stdout,
			Stderr: stdio.Stderr,
		},
		report: report,
	}, nil
}

func (p *pipeline) buildKernels(ctx context.Context) ([]kernel.Artifact, error) {
	p.report.status("Building kernel for target %s", p.cfg.Build.Target)

	artifacts, err := p.builder.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build kernel: %w", err)
	}

	return artifacts, nil
}

func (p *pipeline) link(ctx context.Context, artifact kernel.Artifact) (string, error) {
	err := artifact.Validate()
	if err != nil {
		return "", err
	}

	p.report.status("Building bootloader %s %s for `%s`",
		p.linker.Bootloader.Name, p.linker.Bootloader.Version, artifact.Name)

	imagePath, err := p.linker.Link(ctx, artifact)
	if err != nil {
		return "", fmt.Errorf("link %s: %w", artifact.Name, err)
	}

	p.report.status("Created bootimage for `%s` at `%s`", artifact.Name, imagePath)

	return imagePath, nil
}

// buildImages builds the kernel and creates a disk image for each
// executable.
func (p *pipeline) buildImages(ctx context.Context) error {
	artifacts, err := p.buildKernels(ctx)
	if err != nil {
		return err
	}

	var errs []error

	for _, artifact := range artifacts {
		_, err := p.link(ctx, artifact)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// runArtifacts creates a disk image for each executable and runs it. Test
// executables are classified and summarized.
func (p *pipeline) runArtifacts(
	ctx context.Context,
	artifacts []kernel.Artifact,
	extraArgs []string,
) error {
	var (
		errs    []error
		results []TestResult
	)

	for _, artifact := range artifacts {
		imagePath, err := p.link(ctx, artifact)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if artifact.IsTest {
			results = append(results, p.runTest(ctx, artifact, imagePath, extraArgs))
			continue
		}

		err = p.runImage(ctx, imagePath, extraArgs)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(results) > 0 {
		p.report.summary(results)

		for _, result := range results {
			if result.Verdict != verdict.Passed {
				errs = append(errs, &TestsError{Results: results})
				break
			}
		}
	}

	return errors.Join(errs...)
}

func (p *pipeline) runImage(ctx context.Context, imagePath string, extraArgs []string) error {
	outcome := p.runner.Run(ctx, imagePath, false, extraArgs)

	switch outcome.Kind {
	case runner.Success:
		return nil
	case runner.Failure:
		p.report.status("Emulator exited with code %d", outcome.ExitCode)
		return exitcode.Error(outcome.ExitCode)
	case runner.ProcessError:
		return &EmulatorError{Err: outcome.Err}
	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedOutcome, outcome)
	}
}

func (p *pipeline) runTest(
	ctx context.Context,
	artifact kernel.Artifact,
	imagePath string,
	extraArgs []string,
) TestResult {
	p.report.testStart(artifact.Name)

	outcome := p.runner.Run(ctx, imagePath, true, extraArgs)
	if outcome.Kind == runner.ProcessError {
		slog.Error("Failed to run test",
			slog.String("name", artifact.Name),
			slog.Any("error", outcome.Err))
	}

	slog.Debug("Test finished",
		slog.String("name", artifact.Name),
		slog.String("outcome", outcome.String()))

	result := TestResult{
		Name:    artifact.Name,
		Verdict: verdict.Classify(outcome, p.cfg.Run),
	}

	p.report.testResult(result)

	return result
}
