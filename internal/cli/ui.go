package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sankey/pkg/ingest"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"

	// maxListedWarnings caps the warnings echoed after an ingest.
	maxListedWarnings = 5
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted detail line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine joins the non-empty parts with dots and tags the line as cached
// or freshly computed.
func statsLine(cached bool, parts ...string) string {
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	var b strings.Builder
	b.WriteString("  ")
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(StyleDim.Render(part))
		b.WriteString(StyleDim.Render(" · "))
	}
	b.WriteString(statusStyle.Render(status))
	return b.String()
}

// printStats prints graph and layout statistics on a single line. Zero
// layers or negative crossings (unknown for cached layouts) are left out.
func printStats(nodes, edges, layers, crossings int, cached bool) {
	parts := []string{
		plural(nodes, "node"),
		plural(edges, "edge"),
	}
	if layers > 0 {
		parts = append(parts, plural(layers, "layer"))
	}
	if crossings >= 0 {
		parts = append(parts, plural(crossings, "crossing"))
	}
	fmt.Println(statsLine(cached, parts...))
}

// printLoadReport summarizes how an input became a flow graph.
func printLoadReport(rep pipeline.LoadReport) {
	if rep.Ingest != nil {
		printIngestReport(*rep.Ingest)
	}
	for i, w := range rep.Warnings {
		if i == maxListedWarnings {
			printDetail("… and %d more", len(rep.Warnings)-maxListedWarnings)
			break
		}
		printWarning("%v", w)
	}
}

func printIngestReport(r ingest.Report) {
	printDetail("%s · %s · %s",
		plural(r.Records, "record"), plural(r.Subjects, "subject"), plural(r.Transitions, "transition"))
	skipped := []struct {
		n    int
		what string
	}{
		{r.Invalid, "invalid records"},
		{r.NonConsecutive, "non-consecutive dose pairs"},
		{r.Dangling, "dangling edges"},
		{r.Pruned, "isolated nodes pruned"},
	}
	for _, s := range skipped {
		if s.n > 0 {
			printDetail("%d %s", s.n, s.what)
		}
	}
}

// printLayoutReport prints what the layout stage reported beyond the
// headline numbers.
func printLayoutReport(rep pipeline.LayoutReport) {
	if n := rep.Diagnostics.UnresolvedEdges; n > 0 {
		printWarning("Skipped %s with unknown endpoints", plural(n, "edge"))
	}
	if rep.Unresolved > 0 {
		printDetail("%d edge pairs could not be checked for crossing", rep.Unresolved)
	}
	for _, lr := range rep.Exact {
		if !lr.Exhaustive {
			printDetail("layer %d: %d nodes, kept heuristic order (%d crossings)", lr.Layer, lr.Size, lr.Cost)
			continue
		}
		printDetail("layer %d: %d candidates, %d → %d", lr.Layer, lr.Candidates, lr.HeuristicCost, lr.Cost)
	}
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
