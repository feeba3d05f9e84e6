package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/corral/pkg/errors"
	corralio "github.com/matzehuels/corral/pkg/io"
	"github.com/matzehuels/corral/pkg/render/nodelink"
	"github.com/matzehuels/corral/pkg/topology"
)

// topologyCommand creates the topology command and its subcommands.
func (c *CLI) topologyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "topology",
		Aliases: []string{"topo"},
		Short:   "Browse the catalogue of coupling patterns",
	}

	cmd.AddCommand(c.topologyListCommand())
	cmd.AddCommand(c.topologyShowCommand())
	cmd.AddCommand(c.topologyPickCommand())

	return cmd
}

func (c *CLI) topologyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalogue topologies",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, topologyTable(topology.List()))
			return nil
		},
	}
}

// topologyTable renders catalogue entries as a rounded table.
func topologyTable(infos []topology.Info) string {
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{info.Name, info.Usage, info.Description}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Usage", "Pattern").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 1:
				return StyleValue
			default:
				return StyleDim
			}
		}).
		Render()
}

func (c *CLI) topologyShowCommand() *cobra.Command {
	var (
		output string
		dot    bool
	)
	cmd := &cobra.Command{
		Use:   "show NAME:SIZE",
		Short: "Print or export a catalogue pattern",
		Long: `Print the qubits and pairs of a catalogue pattern.

With --output the pattern is written as a JSON graph that 'realize' accepts,
so it can be edited before realizing. --dot prints Graphviz source instead.`,
		Example: `  corral topology show grid:3x4
  corral topology show corral:8 -o corral8.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := topology.Parse(args[0])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidTopology, err, "topology %q", args[0])
			}
			if dot {
				fmt.Fprint(stdout, nodelink.GraphDOT(g, nodelink.Options{}))
				return nil
			}
			if output != "" {
				if err := corralio.ExportGraph(g, output); err != nil {
					return err
				}
				printSuccess("Exported %s", StyleHighlight.Render(args[0]))
				printFile(output)
				return nil
			}

			fmt.Fprintln(stdout, StyleTitle.Render(args[0]))
			printPatternStats(g.NodeCount(), g.EdgeCount())
			for _, n := range g.Nodes() {
				printKeyValue(StyleQubit.Render(n.ID), strings.Join(g.Neighbors(n.ID), " "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the pattern as a JSON graph")
	cmd.Flags().BoolVar(&dot, "dot", false, "print Graphviz DOT")
	return cmd
}

func (c *CLI) topologyPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Pick a topology interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(NewTopologyPickerModel(topology.List()), tea.WithOutput(os.Stderr))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("run picker: %w", err)
			}
			m, ok := final.(TopologyPickerModel)
			if !ok || m.Selected == "" {
				printInfo("Nothing selected")
				return nil
			}
			fmt.Fprintln(stdout, m.Selected)
			printNextStep("Realize it", "corral realize --topology "+m.Selected)
			return nil
		},
	}
}

// completeTopology offers catalogue names for --topology; the user types
// the size after the colon.
func completeTopology(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, info := range topology.List() {
		if strings.HasPrefix(info.Name, toComplete) {
			out = append(out, info.Name+":\t"+info.Description)
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace
}
