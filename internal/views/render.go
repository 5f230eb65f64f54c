package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header string
	Body   string
	Prompt string
	Status string
	Err    bool
	Footer string
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	columnStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// PanelFrame is the number of columns and lines the list border and padding use.
const (
	PanelFrameWidth  = 4
	PanelFrameHeight = 2
)

func RenderApp(data AppData) string {
	lines := []string{headerStyle.Render(data.Header), panelStyle.Render(data.Body)}
	if data.Prompt != "" {
		lines = append(lines, data.Prompt)
	}
	if data.Status != "" {
		if data.Err {
			lines = append(lines, errorStyle.Render(data.Status))
		} else {
			lines = append(lines, statusStyle.Render(data.Status))
		}
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
