package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/enonoeno/housingbot/internal/housing"
)

const sheetName = "Sheet1"

// wishDelim separates user ids inside the Wish List cell. Inherited from the
// original sheets, which stored the list as one delimited string.
const wishDelim = "**"

var columns = []string{"Plot", "Size", "Available", "Listing Time", "Last Sweep", "ListingID", "Wish List"}

// readTable decodes one ward sheet. Any expected column that is missing is
// backfilled with defaults, so a table read from a sparse or legacy sheet
// still normalizes to 60 well-formed rows.
func readTable(path string, ward int) (*housing.WardTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheetName, err)
	}

	col := map[string]int{}
	if len(rows) > 0 {
		for i, h := range rows[0] {
			col[strings.TrimSpace(h)] = i
		}
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	t := &housing.WardTable{Ward: ward}
	for n, row := range rows {
		if n == 0 {
			continue // header
		}
		if n > housing.WardPlots {
			break
		}
		r := housing.PlotRecord{
			Plot:        parseIntCell(cell(row, "Plot"), n),
			Size:        housing.ParseSize(cell(row, "Size")),
			Available:   parseBoolCell(cell(row, "Available")),
			ListingTime: blankNaN(cell(row, "Listing Time")),
			LastSweep:   blankNaN(cell(row, "Last Sweep")),
			ListingID:   parseListingID(cell(row, "ListingID")),
			WishList:    parseWishes(cell(row, "Wish List")),
		}
		t.Records = append(t.Records, r)
	}
	t.Normalize()
	return t, nil
}

// writeTable encodes a full ward table, overwriting whatever was at path.
func writeTable(path string, t *housing.WardTable) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range columns {
		c, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, c, name); err != nil {
			return err
		}
	}
	for n, r := range t.Records {
		avail := 0
		if r.Available {
			avail = 1
		}
		values := []any{
			r.Plot,
			string(r.Size),
			avail,
			r.ListingTime,
			r.LastSweep,
			formatListingID(r.ListingID),
			strings.Join(r.WishList, wishDelim),
		}
		for i, v := range values {
			c, err := excelize.CoordinatesToCellName(i+1, n+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, c, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func parseIntCell(v string, fallback int) int {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return fallback
}

func parseBoolCell(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// blankNaN maps the "nan" strings pandas left behind in old sheets to empty.
func blankNaN(v string) string {
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

// Message ids were stored with a leading "s" to stop spreadsheet tooling
// from mangling them as numbers. Keep writing them that way so old sheets
// and new ones stay interchangeable.
func parseListingID(v string) string {
	v = blankNaN(v)
	return strings.TrimPrefix(v, "s")
}

func formatListingID(id string) string {
	if id == "" {
		return ""
	}
	return "s" + id
}

func parseWishes(v string) []string {
	var out []string
	for _, tok := range strings.Split(blankNaN(v), wishDelim) {
		tok = strings.TrimSpace(tok)
		if tok == "" || strings.EqualFold(tok, "nan") {
			continue
		}
		out = append(out, tok)
	}
	return out
}
