package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// status prints human progress lines. Everything goes to stderr so stdout
// carries only the transcript.
type status struct {
	w io.Writer
}

func (s status) line(style lipgloss.Style, tag, msg string, a ...any) {
	fmt.Fprintf(s.w, "%s %s\n", style.Render(tag), fmt.Sprintf(msg, a...))
}

func (s status) info(msg string, a ...any) { s.line(infoStyle, "[info]", msg, a...) }
func (s status) warn(msg string, a ...any) { s.line(warnStyle, "[warn]", msg, a...) }
func (s status) ok(msg string, a ...any)   { s.line(okStyle, "[ok]", msg, a...) }
func (s status) fail(msg string, a ...any) { s.line(failStyle, "[error]", msg, a...) }
