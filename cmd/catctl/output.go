package main

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/okian/catbreeds/internal/domain/cat"
	"github.com/olekukonko/tablewriter"
)

var tableHeader = []string{"Name", "Origin", "Length", "Weight (lbs)", "Life (years)"}

func writeCats(w io.Writer, cats []cat.Cat, asJSON bool) error {
	if asJSON {
		if cats == nil {
			cats = []cat.Cat{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cats)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(tableHeader)
	for _, c := range cats {
		table.Append([]string{
			c.Name,
			c.Origin,
			c.Length,
			span(c.MinWeight, c.MaxWeight),
			span(c.MinLifeExpectancy, c.MaxLifeExpectancy),
		})
	}
	table.Render()
	return nil
}

func span(lo, hi float64) string {
	if lo == 0 && hi == 0 {
		return ""
	}
	return strconv.FormatFloat(lo, 'f', -1, 64) + "-" + strconv.FormatFloat(hi, 'f', -1, 64)
}

// notice prints an empty-result message, yellow on a terminal.
func notice(w io.Writer, msg string) {
	_, _ = color.New(color.FgYellow).Fprintln(w, msg)
}
