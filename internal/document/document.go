// Package document models the rich-text ticket description and renders it
// as Atlassian Document Format (ADF).
package document

import "encoding/json"

// Block is a top-level document node: either a TextBlock or a *Table.
type Block interface {
	block()
}

// TextBlock is a paragraph (Level 0) or a heading (Level 1-6).
type TextBlock struct {
	Level int
	Text  string
}

func Paragraph(text string) TextBlock {
	return TextBlock{Text: text}
}

func Heading(level int, text string) TextBlock {
	return TextBlock{Level: level, Text: text}
}

func (TextBlock) block() {}

func (b TextBlock) IsHeading() bool {
	return b.Level > 0
}

// Row is one table row. Every cell wraps a single text block.
type Row struct {
	Header bool
	Cells  []TextBlock
}

// Table is a two-column Field/Value table. The first row is always the
// header row.
type Table struct {
	rows []Row
}

func NewTable() *Table {
	return &Table{
		rows: []Row{{
			Header: true,
			Cells:  []TextBlock{Paragraph("Field"), Paragraph("Value")},
		}},
	}
}

func (*Table) block() {}

// Add appends a data row.
func (t *Table) Add(field, value string) *Table {
	t.rows = append(t.rows, Row{Cells: []TextBlock{Paragraph(field), Paragraph(value)}})
	return t
}

// Rows returns a copy of all rows, header included.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// DataRows returns the rows after the header as field/value pairs.
func (t *Table) DataRows() [][2]string {
	pairs := make([][2]string, 0, len(t.rows)-1)
	for _, r := range t.rows[1:] {
		pairs = append(pairs, [2]string{r.Cells[0].Text, r.Cells[1].Text})
	}
	return pairs
}

// Value returns the value of the first data row labelled field.
func (t *Table) Value(field string) (string, bool) {
	for _, r := range t.rows[1:] {
		if r.Cells[0].Text == field {
			return r.Cells[1].Text, true
		}
	}
	return "", false
}

// Document is an ordered sequence of blocks.
type Document struct {
	blocks []Block
}

func (d Document) Blocks() []Block {
	blocks := make([]Block, len(d.blocks))
	copy(blocks, d.blocks)
	return blocks
}

// Title returns the text of the first heading.
func (d Document) Title() string {
	for _, b := range d.blocks {
		if tb, ok := b.(TextBlock); ok && tb.IsHeading() {
			return tb.Text
		}
	}
	return ""
}

// Sections returns the section headings in order, excluding the title.
func (d Document) Sections() []string {
	var names []string
	for i, b := range d.blocks {
		tb, ok := b.(TextBlock)
		if !ok || !tb.IsHeading() || i == 0 {
			continue
		}
		names = append(names, tb.Text)
	}
	return names
}

// Section returns the table that follows the heading with the given text.
func (d Document) Section(name string) (*Table, bool) {
	for i, b := range d.blocks {
		tb, ok := b.(TextBlock)
		if !ok || !tb.IsHeading() || tb.Text != name || i+1 >= len(d.blocks) {
			continue
		}
		if t, ok := d.blocks[i+1].(*Table); ok {
			return t, true
		}
	}
	return nil, false
}

type builder struct {
	blocks []Block
}

func (b *builder) heading(level int, text string) {
	b.blocks = append(b.blocks, Heading(level, text))
}

func (b *builder) section(name string, t *Table) {
	b.heading(sectionLevel, name)
	b.blocks = append(b.blocks, t)
}

func (b *builder) build() Document {
	return Document{blocks: b.blocks}
}

type adfNode struct {
	Type    string         `json:"type"`
	Version int            `json:"version,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Text    string         `json:"text,omitempty"`
	Content []adfNode      `json:"content,omitempty"`
}

// MarshalJSON encodes the document as an ADF "doc" node.
func (d Document) MarshalJSON() ([]byte, error) {
	root := adfNode{Type: "doc", Version: 1, Content: []adfNode{}}
	for _, b := range d.blocks {
		switch v := b.(type) {
		case TextBlock:
			root.Content = append(root.Content, textNode(v))
		case *Table:
			root.Content = append(root.Content, tableNode(v))
		}
	}
	return json.Marshal(root)
}

func textNode(b TextBlock) adfNode {
	n := adfNode{Type: "paragraph"}
	if b.IsHeading() {
		n.Type = "heading"
		n.Attrs = map[string]any{"level": b.Level}
	}
	// ADF rejects empty text nodes.
	if b.Text != "" {
		n.Content = []adfNode{{Type: "text", Text: b.Text}}
	}
	return n
}

func tableNode(t *Table) adfNode {
	n := adfNode{
		Type:  "table",
		Attrs: map[string]any{"isNumberColumnEnabled": false, "layout": "default"},
	}
	for _, r := range t.rows {
		cellType := "tableCell"
		if r.Header {
			cellType = "tableHeader"
		}
		row := adfNode{Type: "tableRow"}
		for _, c := range r.Cells {
			row.Content = append(row.Content, adfNode{Type: cellType, Content: []adfNode{textNode(c)}})
		}
		n.Content = append(n.Content, row)
	}
	return n
}
