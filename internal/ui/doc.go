// Package ui holds the terminal styles used by the CLI: a [Palette] of [lipgloss] styles for
// titles and status lines, and table styles for listings.
//
// Styles degrade to plain text when the output is not a terminal.
package ui
