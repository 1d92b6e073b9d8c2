package main

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	okMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
	failMark = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("✗")
	dimStyle = lipgloss.NewStyle().Faint(true)
)

// renderMarkdown converts memo text to terminal-formatted output. Rendering
// is best-effort: on any failure the raw text is shown instead.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimRight(out, "\n")
}

// maskSecret hides a credential for display: unset, an unresolved ${VAR}
// reference shown as-is, or the first four characters followed by an
// ellipsis.
func maskSecret(secret string) string {
	switch {
	case secret == "":
		return "(unset)"
	case strings.HasPrefix(secret, "${") || strings.HasPrefix(secret, "$"):
		return secret // environment reference, not a raw secret
	case len(secret) <= 4:
		return "****"
	default:
		return secret[:4] + "…"
	}
}

// preview flattens a template to one display line of at most width cells,
// truncating on cell width rather than bytes so CJK templates line up.
func preview(template string, width int) string {
	line := strings.ReplaceAll(template, "\n", " ")

	return runewidth.Truncate(line, width, "…")
}

// defaultTemplatesPath places templates.yaml next to the config file.
func defaultTemplatesPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "templates.yaml")
}
