package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/corral/pkg/errors"
	"github.com/matzehuels/corral/pkg/pipeline"
	"github.com/matzehuels/corral/pkg/store"
)

// realizeFlags holds flags for the realize command that are not pipeline
// options.
type realizeFlags struct {
	topology   string
	formats    string
	output     string
	noCache    bool
	save       bool
	maxQubit   int
	maxCoupler int
	prefix     string
	skipFill   bool
}

// realizeCommand creates the realize command.
func (c *CLI) realizeCommand() *cobra.Command {
	var flags realizeFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "realize [pattern.json]",
		Short: "Build a qubit/coupler graph for a coupling pattern",
		Long: `Build a qubit/coupler graph for a coupling pattern.

The pattern is a JSON graph file or a catalogue topology (--topology ring:8,
see 'corral topology list'). Degree caps default to the config file values.

Each required pair is joined through a shared coupler, greedily and in the
order the qubits are listed. Spare qubit capacity is then filled with
couplers that add no unwanted pairs, unless --skip-fill is given.

A pattern that cannot be realized under the caps exits with status 3 and names
the first pair that could not be joined. Results are cached locally.`,
		Example: `  corral realize --topology grid:3x3 -f json,svg
  corral realize chip.json -a 3 -b 4 -o out/chip.json
  corral realize --topology corral:8 -f dot -o - | dot -Tpng > corral.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.PatternFile = args[0]
			}
			opts.Topology = flags.topology
			opts.Formats = parseFormats(flags.formats, pipeline.FormatJSON)
			c.applyRealizeFlags(cmd, &opts, flags)
			return c.runRealize(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.topology, "topology", "t", "", "catalogue pattern, e.g. ring:8 or grid:3x4")
	cmd.Flags().IntVarP(&flags.maxQubit, "max-qubit-degree", "a", 0, "couplers per qubit (default from config)")
	cmd.Flags().IntVarP(&flags.maxCoupler, "max-coupler-degree", "b", 0, "qubits per coupler (default from config)")
	cmd.Flags().BoolVar(&flags.skipFill, "skip-fill", false, "leave spare qubit capacity unused")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "coupler ID prefix (default from config)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): json (default), dot, svg, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().BoolVar(&opts.Projections, "projections", false, "add qubit and coupler projections to diagrams")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show degrees and metadata in diagram labels")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.save, "save", false, "save the realization to history")
	_ = cmd.RegisterFlagCompletionFunc("topology", completeTopology)

	return cmd
}

// applyRealizeFlags layers explicitly set flags over the config defaults.
func (c *CLI) applyRealizeFlags(cmd *cobra.Command, opts *pipeline.Options, flags realizeFlags) {
	rc := c.cfg.Realize
	opts.MaxQubitDegree = rc.MaxQubitDegree
	opts.MaxCouplerDegree = rc.MaxCouplerDegree
	opts.SkipFill = rc.SkipFill
	opts.CouplerPrefix = rc.CouplerPrefix

	if cmd.Flags().Changed("max-qubit-degree") {
		opts.MaxQubitDegree = flags.maxQubit
	}
	if cmd.Flags().Changed("max-coupler-degree") {
		opts.MaxCouplerDegree = flags.maxCoupler
	}
	if cmd.Flags().Changed("skip-fill") {
		opts.SkipFill = flags.skipFill
	}
	if cmd.Flags().Changed("prefix") {
		opts.CouplerPrefix = flags.prefix
	}
	opts.Logger = c.Logger
}

func (c *CLI) runRealize(ctx context.Context, opts pipeline.Options, flags realizeFlags) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	quiet := flags.output == stdoutPath
	var spinner *Spinner
	if !quiet {
		spinner = startSpinner(ctx, os.Stderr, fmt.Sprintf("Realizing %s...", opts.Source()))
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil && !errors.Is(err, errors.ErrCodeInfeasible) {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Realization failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Realized %s", opts.Source()))

	res := result.Realization
	if !quiet {
		if res.Feasible() {
			printSuccess("Realized %s with %s couplers",
				StyleHighlight.Render(opts.Source()),
				StyleCoupler.Render(fmt.Sprint(result.Stats.Couplers)))
		} else {
			printError("No realization for %s under a=%d, b=%d",
				StyleHighlight.Render(opts.Source()), opts.MaxQubitDegree, opts.MaxCouplerDegree)
			printDetail("blocked at %s", res.Blocked)
		}
		printRealizeStats(result)
	}

	if flags.save {
		if err := c.saveRecord(ctx, opts, result, quiet); err != nil {
			return err
		}
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		base:      inputBase(opts.PatternFile, opts.Topology),
		output:    flags.output,
	}); err != nil {
		return err
	}

	if !quiet && res.Feasible() && len(opts.Formats) == 1 && opts.Formats[0] == pipeline.FormatJSON {
		paths, _ := artifactPaths(opts.Formats, inputBase(opts.PatternFile, opts.Topology), flags.output)
		printNewline()
		printNextStep("Draw it", "corral render "+paths[pipeline.FormatJSON])
	}
	return err
}

func (c *CLI) saveRecord(ctx context.Context, opts pipeline.Options, result *pipeline.Result, quiet bool) error {
	st, err := c.newStore(ctx, true)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	rec := store.NewRecord(opts.Source(), result.PatternHash, result.Pattern, result.Realization, result.Config)
	if err := st.Save(ctx, rec); err != nil {
		return fmt.Errorf("save realization: %w", err)
	}
	loggerFromContext(ctx).Debug("saved realization", "id", rec.ID, "pattern_hash", rec.PatternHash)
	if !quiet {
		printDetail("saved as %s", rec.ID)
	}
	return nil
}
