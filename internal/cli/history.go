package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/corral/pkg/errors"
	corralio "github.com/matzehuels/corral/pkg/io"
	"github.com/matzehuels/corral/pkg/store"
)

// historyCommand creates the history command for saved realizations.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse realizations saved with 'realize --save'",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyDeleteCommand())

	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved realizations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				recs, err := st.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					printInfo("No saved realizations")
					printNextStep("Save one", "corral realize --topology ring:8 --save")
					return nil
				}
				fmt.Fprintln(stdout, historyTable(recs, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of records")
	return cmd
}

// historyTable renders records as a rounded table.
func historyTable(recs []*store.Record, now time.Time) string {
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		r := rec.Realization
		status := "ok"
		if !r.Feasible {
			status = "blocked"
		}
		rows[i] = []string{
			rec.ID,
			rec.Source,
			fmt.Sprintf("a=%d b=%d", r.Config.MaxQubitDegree, r.Config.MaxCouplerDegree),
			fmt.Sprint(r.Stats.CouplersAllocated-r.Stats.CouplersPruned),
			status,
			relativeTime(now, rec.CreatedAt),
		}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Source", "Caps", "Couplers", "Status", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleDim
			case col == 4 && !recs[row].Realization.Feasible:
				return StyleWarning
			default:
				return StyleValue
			}
		}).
		Render()
}

func (c *CLI) historyShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved realization",
		Long: `Show the summary of a saved realization.

With --output the realization is exported as JSON for 'render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := getRecord(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				res, cfg, err := rec.Result()
				if err != nil {
					return err
				}

				fmt.Fprintln(stdout, StyleTitle.Render(rec.ID))
				printKeyValue("Source", rec.Source)
				printKeyValue("Created", rec.CreatedAt.Local().Format(time.DateTime))
				printKeyValue("Caps", fmt.Sprintf("a=%d b=%d", cfg.MaxQubitDegree, cfg.MaxCouplerDegree))
				if res.Feasible() {
					printKeyValue("Couplers", fmt.Sprint(len(res.Couplers())))
				} else {
					printKeyValue("Blocked", res.Blocked.String())
				}

				if output != "" {
					if err := corralio.WriteRealizationFile(res, cfg, output); err != nil {
						return err
					}
					printFile(output)
					printNextStep("Draw it", "corral render "+output)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "export the realization as JSON")
	return cmd
}

func (c *CLI) historyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved realization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if _, err := getRecord(cmd.Context(), st, args[0]); err != nil {
					return err
				}
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}

// withStore opens the persistent store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.newStore(ctx, true)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	loggerFromContext(ctx).Debug("opened store", "backend", c.cfg.Store.Backend)
	return fn(st)
}

func getRecord(ctx context.Context, st store.Store, id string) (*store.Record, error) {
	if !store.ValidID(id) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid realization id %q", id)
	}
	rec, err := st.Get(ctx, id)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "realization %s", id)
	}
	return rec, err
}

func relativeTime(now, t time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
