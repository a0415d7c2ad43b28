package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/seasonality/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// every command prints through these so output stays uniform
// ═══════════════════════════════════════════════════════════

// PrintRunHeader prints a formatted header for one feature-table run
func PrintRunHeader(w io.Writer, meta contracts.FeatureMeta) {
	fmt.Fprintln(w)
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  Seasonality %s\n", meta.Country.Name)
	PrintSeparator(w)
	PrintKeyValue(w, "Run ID", meta.RunID, 11)
	PrintKeyValue(w, "Country", meta.Country.Code, 11)
	if meta.Subdivision != "" {
		PrintKeyValue(w, "Subdivision", meta.Subdivision, 11)
	}
	PrintKeyValue(w, "Period", contracts.FormatDate(meta.Start)+" ~ "+contracts.FormatDate(meta.End), 11)
	PrintKeyValue(w, "Week", fmt.Sprintf("%s, %s", contracts.WeekdayAbbrev(meta.Period.WeekStart), meta.Period.Label), 11)
	PrintKeyValue(w, "Join", string(meta.Join), 11)
	PrintSeparator(w)
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintf(w, "ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(w io.Writer, values []string, widths []int) {
	for i, val := range values {
		if i < len(values)-1 {
			fmt.Fprintf(w, "%-*s  ", widths[i], val)
		} else {
			fmt.Fprint(w, val)
		}
	}
	fmt.Fprintln(w)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}
