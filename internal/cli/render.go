package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/corral/pkg/errors"
	corralio "github.com/matzehuels/corral/pkg/io"
	"github.com/matzehuels/corral/pkg/pipeline"
)

// renderCommand creates the render command for drawing a saved realization.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [realization.json]",
		Short: "Draw a realization as DOT, SVG, PDF, or PNG",
		Long: `Draw a realization produced by 'realize' (JSON format).

Qubits are drawn as red circles and couplers as green boxes; couplers that
hold a single qubit are dashed. --projections adds the qubit projection
(which must equal the input pattern) and the coupler projection as side
panels. PDF and PNG need rsvg-convert from librsvg.

Use 'realize -f svg' to go straight from a pattern to a diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatSVG)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.Projections, "projections", false, "add qubit and coupler projections")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show degrees and metadata in labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the realization and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	res, cfg, err := corralio.ReadRealizationFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "load realization %s", input)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.MaxQubitDegree = cfg.MaxQubitDegree
	opts.MaxCouplerDegree = cfg.MaxCouplerDegree
	opts.SkipFill = cfg.SkipFill
	opts.CouplerPrefix = cfg.CouplerPrefix

	var spinner *Spinner
	if output != stdoutPath {
		spinner = startSpinner(ctx, os.Stderr, "Rendering...")
	}
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	c.Logger.Debug("rendered", "formats", opts.Formats, "cached", cacheHit)

	base := strings.TrimSuffix(input, filepath.Ext(input))
	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		base:      base,
		output:    output,
	})
}
