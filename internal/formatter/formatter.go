package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emirozbir/alert2jira/internal/document"
)

const (
	divider      = "═══════════════════════════════════════════════════════════════════════════════"
	sectionBreak = "───────────────────────────────────────────────────────────────────────────────"
)

type Formatter struct {
	useColors bool
}

func NewFormatter(useColors bool) *Formatter {
	return &Formatter{
		useColors: useColors,
	}
}

func (f *Formatter) paint(color, text string) string {
	if !f.useColors {
		return text
	}
	return Colorize(color, text)
}

func (f *Formatter) paintBold(color, text string) string {
	if !f.useColors {
		return text
	}
	return BoldColorize(color, text)
}

// FormatDocument renders a ticket description for the terminal.
func (f *Formatter) FormatDocument(summary string, doc document.Document) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(f.paint(Cyan, divider))
	sb.WriteString("\n")
	sb.WriteString(f.paintBold(Cyan, "  "+summary))
	sb.WriteString("\n")
	sb.WriteString(f.paint(Cyan, divider))
	sb.WriteString("\n\n")

	for i, block := range doc.Blocks() {
		switch b := block.(type) {
		case document.TextBlock:
			// The title is already shown as the banner.
			if i == 0 && b.IsHeading() {
				continue
			}
			f.writeText(&sb, b)
		case *document.Table:
			f.writeTable(&sb, b)
		}
	}

	sb.WriteString(f.paint(Cyan, divider))
	sb.WriteString("\n")

	return sb.String()
}

func (f *Formatter) writeText(sb *strings.Builder, b document.TextBlock) {
	if !b.IsHeading() {
		sb.WriteString(f.indentText(b.Text, "  "))
		sb.WriteString("\n")
		return
	}

	sb.WriteString(f.paintBold(Blue, strings.ToUpper(b.Text)))
	sb.WriteString("\n")
	sb.WriteString(f.paint(Gray, sectionBreak))
	sb.WriteString("\n")
}

func (f *Formatter) writeTable(sb *strings.Builder, t *document.Table) {
	rows := t.DataRows()
	if len(rows) == 0 {
		sb.WriteString(f.paint(Gray, "  (no fields)"))
		sb.WriteString("\n\n")
		return
	}

	width := 0
	for _, r := range rows {
		if n := utf8.RuneCountInString(r[0]); n > width {
			width = n
		}
	}

	pad := strings.Repeat(" ", width+5)
	for _, r := range rows {
		label := fmt.Sprintf("%s:", r[0])
		label += strings.Repeat(" ", width+1-utf8.RuneCountInString(label)+1)

		value := r[1]
		if r[0] == "Level" && f.useColors {
			value = LevelBadge(value)
		}
		value = strings.ReplaceAll(value, "\n", "\n"+pad)

		sb.WriteString(fmt.Sprintf("  %s %s\n", f.paint(White, label), value))
	}
	sb.WriteString("\n")
}

func (f *Formatter) indentText(text string, indent string) string {
	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			result.WriteString(indent)
			result.WriteString(line)
		}
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}
