package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/afad-quakes/internal/quake"
)

// TableSelector matches the data table on the AFAD page.
const TableSelector = "table.content-table"

// Table holds the text content of the located data table.
type Table struct {
	Header []string   // thead labels, empty when the table has no header
	Rows   [][]string // tbody rows with at least one td, cell text normalized
}

// LocateTable parses an HTML document and extracts the first table matching
// selector. A missing table is reported as a quake.StructureError.
func LocateTable(r io.Reader, selector string) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, &quake.StructureError{
			Row:    -1,
			Reason: fmt.Sprintf("data table %q was not found, check the URL or the page layout", selector),
		}
	}

	t := &Table{
		Header: make([]string, 0),
		Rows:   make([][]string, 0),
	}

	table.ChildrenFiltered("thead").Find("th").Each(func(_ int, th *goquery.Selection) {
		t.Header = append(t.Header, cleanText(th.Text()))
	})

	// Only direct rows of the table body; nested tables inside cells are ignored.
	table.ChildrenFiltered("tbody").ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.ChildrenFiltered("td")
		if tds.Length() == 0 {
			return
		}
		cells := make([]string, 0, tds.Length())
		tds.Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cleanText(td.Text()))
		})
		t.Rows = append(t.Rows, cells)
	})

	return t, nil
}

// cleanText collapses whitespace runs to single spaces and trims the result.
// goquery has already decoded HTML entities.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
