package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/corral/pkg/pipeline"
	"github.com/matzehuels/corral/pkg/render/nodelink"
)

// stdout receives every status line; tests swap it out.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // links and commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text

	// Node colors match the diagrams.
	colorQubit   = lipgloss.Color(nodelink.QubitColor)
	colorCoupler = lipgloss.Color(nodelink.CouplerColor)
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	StyleQubit     = lipgloss.NewStyle().Foreground(colorQubit)
	StyleCoupler   = lipgloss.NewStyle().Foreground(colorCoupler)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printIcon(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(stdout, icon.Render(glyph)+" "+msg)
}

func printSuccess(format string, args ...any) {
	printIcon(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printIcon(styleIconError, iconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printIcon(styleIconWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printIcon(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printPatternStats prints the size of a coupling pattern.
func printPatternStats(qubits, pairs int) {
	printStatsLine([]string{
		fmt.Sprintf("%d qubits", qubits),
		fmt.Sprintf("%d pairs", pairs),
	}, "")
}

// printRealizeStats prints the sizes and cache status of a pipeline run.
func printRealizeStats(r *pipeline.Result) {
	parts := []string{
		fmt.Sprintf("%d qubits", r.Stats.Qubits),
		fmt.Sprintf("%d pairs", r.Stats.Pairs),
	}
	if r.Realization.Feasible() {
		st := r.Realization.Stats
		parts = append(parts,
			fmt.Sprintf("%d couplers", r.Stats.Couplers),
			fmt.Sprintf("%d fill edges", st.FillEdges))
		if st.HangingCouplers > 0 {
			parts = append(parts, fmt.Sprintf("%d hanging", st.HangingCouplers))
		}
		if st.CouplersPruned > 0 {
			parts = append(parts, fmt.Sprintf("%d pruned", st.CouplersPruned))
		}
	}
	status := "fresh"
	if r.CacheInfo.RealizeHit {
		status = styleCached.Render("cached")
	}
	printStatsLine(parts, status)
}

func printStatsLine(parts []string, status string) {
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	if status != "" {
		parts = append(parts, status)
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
