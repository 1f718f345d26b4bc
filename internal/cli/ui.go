package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
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

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
)

// =============================================================================
// Print Helpers
// =============================================================================

// User-facing status lines go to stderr so stdout stays clean for the
// report JSON.

func printSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", styleIconSuccess.Render(iconSuccess), fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", styleIconError.Render(iconError), fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", styleIconInfo.Render(iconInfo), fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s\n", StyleDim.Render(fmt.Sprintf(format, args...)))
}
