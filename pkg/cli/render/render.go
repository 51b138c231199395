// Package render provides terminal-aware output formatting for the CLI:
// detecting whether stdout is a real terminal, styling conflict fences and
// diff previews with lipgloss, and rendering markdown summaries via
// glamour.
package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format names an output rendering mode.
type Format int

const (
	// FormatAuto detects the mode from the output file and environment.
	FormatAuto Format = iota
	// FormatTerminal renders with color and box styling.
	FormatTerminal
	// FormatText renders plain, uncolored text.
	FormatText
)

// ParseFormat parses a --color flag value ("auto", "always"/"term", "never"/"text").
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "always", "term", "terminal":
		return FormatTerminal
	case "never", "text", "plain":
		return FormatText
	default:
		return FormatAuto
	}
}

// Detect resolves FormatAuto to FormatTerminal or FormatText by checking
// NO_COLOR, whether output is a real tty, and the terminal's color profile.
func Detect(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// Resolve returns f unchanged unless it is FormatAuto, in which case it
// detects against output.
func Resolve(f Format, output *os.File) Format {
	if f != FormatAuto {
		return f
	}
	return Detect(output)
}

var (
	fenceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	formerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Italic(true)
)

// Conflict renders one conflicted file's fenced text for terminal display,
// coloring the fence markers and each side of the conflict. In FormatText it
// returns text unchanged.
func Conflict(pathname, text string, format Format) string {
	if format != FormatTerminal {
		return text
	}

	var b strings.Builder
	b.WriteString(pathStyle.Render(pathname) + "\n")

	inFormer, inCurrent := false, false
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		trimmed := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(trimmed, "<<<<<<<"):
			inFormer, inCurrent = true, false
			b.WriteString(fenceStyle.Render(trimmed) + "\n")
		case trimmed == "=======":
			inFormer, inCurrent = false, true
			b.WriteString(fenceStyle.Render(trimmed) + "\n")
		case strings.HasPrefix(trimmed, ">>>>>>>"):
			inFormer, inCurrent = false, false
			b.WriteString(fenceStyle.Render(trimmed) + "\n")
		case inFormer:
			b.WriteString(formerStyle.Render(line))
		case inCurrent:
			b.WriteString(currentStyle.Render(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

// Markdown renders md via glamour for FormatTerminal, auto-detecting style
// and falling back to the raw text on any rendering error or in FormatText.
func Markdown(md string, format Format) string {
	if format != FormatTerminal {
		return md
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
