package htmlutil

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Table is an HTML table with colspan and rowspan already expanded.
type Table struct {
	// Header holds one slice per header row, outermost level first.
	Header [][]string
	// Rows holds the body rows followed by the footer rows.
	Rows [][]string
}

// Width is the number of columns of the widest row.
func (t Table) Width() int {
	width := 0
	for _, row := range t.Header {
		width = max(width, len(row))
	}
	for _, row := range t.Rows {
		width = max(width, len(row))
	}
	return width
}

// Cell returns the body cell at (row, col), ragged rows read as empty.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return cellAt(t.Rows[row], col)
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Columns returns one label per column. Multi-level headers are joined with
// "_", empty header cells are labeled "Unnamed: <col>" (or
// "Unnamed: <col>_level_<level>" inside a multi-level header) and a table
// without a header is labeled by column position.
func (t Table) Columns() []string {
	width := t.Width()
	labels := make([]string, width)
	for col := 0; col < width; col++ {
		switch len(t.Header) {
		case 0:
			labels[col] = strconv.Itoa(col)
		case 1:
			label := cellAt(t.Header[0], col)
			if label == "" {
				label = fmt.Sprintf("Unnamed: %d", col)
			}
			labels[col] = label
		default:
			parts := make([]string, len(t.Header))
			for level, row := range t.Header {
				part := cellAt(row, col)
				if part == "" {
					part = fmt.Sprintf("Unnamed: %d_level_%d", col, level)
				}
				parts[level] = part
			}
			labels[col] = strings.Join(parts, "_")
		}
	}
	return labels
}

// ParseTablesFromReader parses an HTML document and returns its tables.
func ParseTablesFromReader(ctx context.Context, r io.Reader) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return ParseTables(ctx, doc), nil
}

var anyText = regexp.MustCompile(`.+`)

// ParseTables returns every visible table of the document that carries some
// text, in document order. Nested tables are returned as tables of their own
// and their rows are not attributed to the enclosing table.
func ParseTables(ctx context.Context, doc *goquery.Document) []Table {
	_, span := tracer.Start(ctx, "ParseTables")
	defer span.End()

	var tables []Table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		if IsHidden(node) || !hasText(node) {
			return
		}
		tables = append(tables, parseTable(node))
	})

	span.SetAttributes(attribute.Int("tables", len(tables)))
	return tables
}

func hasText(node *html.Node) bool {
	if IsHidden(node) {
		return false
	}
	if node.Type == html.TextNode {
		return anyText.MatchString(node.Data)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if hasText(child) {
			return true
		}
	}
	return false
}

type tableSections struct {
	head []*html.Node
	body []*html.Node
	foot []*html.Node
}

func (s *tableSections) collect(node *html.Node, section atom.Atom) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || IsHidden(child) {
			continue
		}
		switch child.DataAtom {
		case atom.Table:
			continue
		case atom.Thead, atom.Tbody, atom.Tfoot:
			s.collect(child, child.DataAtom)
		case atom.Tr:
			switch section {
			case atom.Thead:
				s.head = append(s.head, child)
			case atom.Tfoot:
				s.foot = append(s.foot, child)
			default:
				s.body = append(s.body, child)
			}
		default:
			s.collect(child, section)
		}
	}
}

func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for child := tr.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || IsHidden(child) {
			continue
		}
		if child.DataAtom == atom.Td || child.DataAtom == atom.Th {
			cells = append(cells, child)
		}
	}
	return cells
}

func isHeaderRow(tr *html.Node) bool {
	cells := rowCells(tr)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c.DataAtom != atom.Th {
			return false
		}
	}
	return true
}

func parseTable(node *html.Node) Table {
	var sections tableSections
	sections.collect(node, 0)

	head := sections.head
	body := sections.body
	if len(head) == 0 {
		for len(body) > 0 && isHeaderRow(body[0]) {
			head = append(head, body[0])
			body = body[1:]
		}
	}

	return Table{
		Header: expandSpans(head),
		Rows:   append(expandSpans(body), expandSpans(sections.foot)...),
	}
}

func spanAttr(node *html.Node, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(Attr(node, key)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// pending is a cell carried down into later rows by its rowspan.
type pending struct {
	col  int
	text string
	rows int
}

func carry(out *[]pending, p pending) {
	if p.rows > 1 {
		*out = append(*out, pending{col: p.col, text: p.text, rows: p.rows - 1})
	}
}

func expandSpans(rows []*html.Node) [][]string {
	var result [][]string
	var remainder []pending

	for _, tr := range rows {
		var texts []string
		var next []pending
		col := 0

		for _, cell := range rowCells(tr) {
			for len(remainder) > 0 && remainder[0].col <= col {
				prev := remainder[0]
				remainder = remainder[1:]
				texts = append(texts, prev.text)
				carry(&next, prev)
				col++
			}

			text := CollapseWhitespace(GetText(cell))
			rowspan := spanAttr(cell, "rowspan")
			colspan := spanAttr(cell, "colspan")
			for i := 0; i < colspan; i++ {
				texts = append(texts, text)
				carry(&next, pending{col: col, text: text, rows: rowspan})
				col++
			}
		}
		for _, prev := range remainder {
			texts = append(texts, prev.text)
			carry(&next, prev)
		}

		result = append(result, texts)
		remainder = next
	}

	// rows that only exist because an earlier rowspan reaches past the last <tr>
	for len(remainder) > 0 {
		var texts []string
		var next []pending
		for _, prev := range remainder {
			texts = append(texts, prev.text)
			carry(&next, prev)
		}
		result = append(result, texts)
		remainder = next
	}

	return result
}
