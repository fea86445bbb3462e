package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 所有命令使用统一的输出格式
// ═══════════════════════════════════════════════════════════

var (
	hot   = color.New(color.FgRed, color.Bold)
	muted = color.New(color.Faint)
)

// PrintHeader prints a boxed title with optional key-value lines
func PrintHeader(title string, lines ...[2]string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	if len(lines) > 0 {
		PrintSeparator()
		for _, kv := range lines {
			PrintKeyValue(kv[0], kv[1], 10)
		}
	}
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// pad left-aligns s to a display width; CJK runes count as two columns
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	fmt.Println(tableLine(columns, widths))

	// Separator line
	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	fmt.Println(tableLine(values, widths))
}

// PrintHotRow prints a table row in the highlight colour
func PrintHotRow(values []string, widths []int) {
	fmt.Println(hot.Sprint(tableLine(values, widths)))
}

func tableLine(values []string, widths []int) string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = pad(v, widths[i])
	}
	return strings.Join(cells, "  ")
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Printf("   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %s : %s\n", pad(key, keyWidth), value)
}

// PrintMuted prints a low-emphasis line (diagnostics)
func PrintMuted(message string) {
	fmt.Println(muted.Sprint(message))
}

// formatYi renders a yuan amount in 亿
func formatYi(v float64) string {
	return fmt.Sprintf("%.2f亿", v/1e8)
}

// formatPct renders a percentage with sign
func formatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}
