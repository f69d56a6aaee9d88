package report

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"wikiviews/models"
)

const missingCell = "-"

// WriteTable writes the first maxRows merged rows as a plain table.
// Missing values are shown as "-".
func WriteTable(w io.Writer, result *models.Result, maxRows int) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					// Keep the views_<article> labels verbatim
					AutoFormat: tw.Off,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	table.Header([]string{"Date", "views_" + result.TitleA, "views_" + result.TitleB})

	if maxRows <= 0 || maxRows > len(result.Merged) {
		maxRows = len(result.Merged)
	}

	rows := make([][]string, 0, maxRows)
	for _, row := range result.Merged[:maxRows] {
		rows = append(rows, []string{
			row.Date.Format("2006-01-02"),
			formatViews(row.ViewsA),
			formatViews(row.ViewsB),
		})
	}

	table.Bulk(rows)
	table.Render()
}

// PreviewRows returns the first maxRows merged rows as formatted string
// cells, for shells that render their own table markup.
func PreviewRows(result *models.Result, maxRows int) [][]string {
	if maxRows <= 0 || maxRows > len(result.Merged) {
		maxRows = len(result.Merged)
	}

	rows := make([][]string, 0, maxRows)
	for _, row := range result.Merged[:maxRows] {
		rows = append(rows, []string{
			row.Date.Format("2006-01-02"),
			formatViews(row.ViewsA),
			formatViews(row.ViewsB),
		})
	}
	return rows
}

func formatViews(views *int) string {
	if views == nil {
		return missingCell
	}
	return strconv.Itoa(*views)
}
