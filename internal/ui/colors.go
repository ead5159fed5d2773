package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Styles returns the default [Palette].
func Styles() *Palette {
	return styles
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		header: NewBold(t).Padding(0, 1),
		cell:   lipgloss.NewStyle().Padding(0, 1),
		border: NewStyle(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) Help(s string) string  { return p.help.Render(s) }

// Success renders a status line prefixed with a check mark.
func (p *Palette) Success(format string, args ...any) string {
	return p.ok.Render("✓ " + fmt.Sprintf(format, args...))
}

// Failure renders a status line prefixed with a cross.
func (p *Palette) Failure(format string, args ...any) string {
	return p.err.Render("✗ " + fmt.Sprintf(format, args...))
}

// Warning renders a status line prefixed with an exclamation mark.
func (p *Palette) Warning(format string, args ...any) string {
	return p.warn.Render("! " + fmt.Sprintf(format, args...))
}

// HeaderStyle, CellStyle and BorderStyle style listing tables.
func (p *Palette) HeaderStyle() lipgloss.Style { return p.header }
func (p *Palette) CellStyle() lipgloss.Style   { return p.cell }
func (p *Palette) BorderStyle() lipgloss.Style { return p.border }
