package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"wikiviews/models"
)

func intPtr(v int) *int { return &v }

func testResult(days int) *models.Result {
	result := &models.Result{TitleA: "Coffee", TitleB: "Tea"}
	for i := 0; i < days; i++ {
		row := models.MergedRow{
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			ViewsA: intPtr(10 + i),
		}
		if i%2 == 0 {
			row.ViewsB = intPtr(5 + i)
		}
		result.Merged = append(result.Merged, row)
	}
	return result
}

func TestWriteTablePreviewLimit(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, testResult(30), 20)

	out := buf.String()
	if !strings.Contains(out, "views_Coffee") || !strings.Contains(out, "views_Tea") {
		t.Errorf("table is missing per-article headers:\n%s", out)
	}
	// Header labels must come through verbatim, not title-cased with
	// the underscores stripped
	if strings.Contains(out, "VIEWS COFFEE") || strings.Contains(out, "VIEWS TEA") {
		t.Errorf("header labels were reformatted:\n%s", out)
	}
	if !strings.Contains(out, "2024-01-20") {
		t.Errorf("table should include the 20th row:\n%s", out)
	}
	if strings.Contains(out, "2024-01-21") {
		t.Errorf("table should stop at the preview limit:\n%s", out)
	}
}

func TestWriteTableShortSeries(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, testResult(3), 20)

	out := buf.String()
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if !strings.Contains(out, date) {
			t.Errorf("table is missing %s:\n%s", date, out)
		}
	}
}

func TestPreviewRows(t *testing.T) {
	rows := PreviewRows(testResult(5), 20)

	if len(rows) != 5 {
		t.Fatalf("PreviewRows() returned %d rows, want 5", len(rows))
	}

	// Odd rows have no value for the second article
	if rows[1][2] != "-" {
		t.Errorf("missing value rendered as %q, want %q", rows[1][2], "-")
	}
	if rows[0][0] != "2024-01-01" || rows[0][1] != "10" || rows[0][2] != "5" {
		t.Errorf("first row = %v, want [2024-01-01 10 5]", rows[0])
	}
}
