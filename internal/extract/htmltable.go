package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"vanguard-notifier/internal/errors"
	"vanguard-notifier/internal/models"
)

// ParseTables parses a rendered page and projects every <table> into a typed
// Table, in document order. The core never looks at markup past this point.
func ParseTables(page models.RenderedPage) ([]models.Table, *goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, nil, errors.NewParseError(err)
	}

	var tables []models.Table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		tables = append(tables, projectTable(sel))
	})
	return tables, doc, nil
}

func projectTable(sel *goquery.Selection) models.Table {
	head := sel.Find("thead")
	table := models.Table{HasHead: head.Length() > 0}

	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := make([]string, 0)
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellText(cell))
		})
		table.Rows = append(table.Rows, models.Row{
			Cells:  cells,
			Header: table.HasHead && tr.Closest("thead").Length() > 0,
		})
	})

	if !table.HasHead && len(table.Rows) > 0 {
		table.Rows[0].Header = true
	}
	return table
}

// cellText concatenates every text node under the cell, each trimmed of
// surrounding whitespace.
func cellText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		appendText(n, &b)
	}
	return b.String()
}

func appendText(node *html.Node, b *strings.Builder) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		b.WriteString(strings.TrimSpace(node.Data))
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		appendText(child, b)
	}
}

// PageTitle returns the document title, if any.
func PageTitle(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
