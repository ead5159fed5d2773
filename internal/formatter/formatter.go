// package formatter renders catalog entities as text tables, CSV, or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/raocow/internal/models"
	"github.com/desertthunder/raocow/internal/shared"
	"github.com/desertthunder/raocow/internal/ui"
)

// Format selects an output encoding.
type Format string

const (
	Text Format = "text"
	CSV  Format = "csv"
	JSON Format = "json"
)

// Formats lists the accepted values of --format.
var Formats = []Format{Text, CSV, JSON}

// ParseFormat validates a --format value. Empty means [Text].
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return Text, nil
	}
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("%w: unknown format %q (want text, csv or json)", shared.ErrInvalidArgument, s)
	}
	return f, nil
}

// Table is a rendered listing: a header row and string cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

const dateLayout = "2006-01-02"

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(layout)
}

// ChannelTable lists channels with columns: ID, Name, YouTube ID, Updated
func ChannelTable(channels []*models.Channel) Table {
	t := Table{Headers: []string{"ID", "Name", "YouTube ID", "Updated"}}
	for _, c := range channels {
		t.Rows = append(t.Rows, []string{c.ID(), c.Name, c.YoutubeID, formatTime(c.Updated, time.RFC3339)})
	}
	return t
}

// SeriesTable lists series with columns: ID, Name, Updated
func SeriesTable(series []*models.Series) Table {
	t := Table{Headers: []string{"ID", "Name", "Updated"}}
	for _, s := range series {
		t.Rows = append(t.Rows, []string{s.ID(), s.Name, formatTime(s.Updated, time.RFC3339)})
	}
	return t
}

// VideoTable lists videos with columns: ID, Title, YouTube ID, Published
func VideoTable(videos []*models.Video) Table {
	t := Table{Headers: []string{"ID", "Title", "YouTube ID", "Published"}}
	for _, v := range videos {
		t.Rows = append(t.Rows, []string{v.ID(), v.Title, v.YoutubeID, formatTime(v.Published, dateLayout)})
	}
	return t
}

// IDTable lists bare ids under a single column named after kind.
func IDTable(kind models.Kind, ids []string) Table {
	t := Table{Headers: []string{kind.String()}}
	for _, id := range ids {
		t.Rows = append(t.Rows, []string{id})
	}
	return t
}

// ToCSV encodes t with its header row.
func ToCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ToText draws t as a bordered table followed by a row count.
func ToText(t Table) string {
	palette := ui.Styles()
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(palette.BorderStyle()).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return palette.HeaderStyle()
			}
			return palette.CellStyle()
		})

	noun := "rows"
	if len(t.Rows) == 1 {
		noun = "row"
	}
	return fmt.Sprintf("%s\n%s\n", tbl.Render(), palette.Help(fmt.Sprintf("%d %s", len(t.Rows), noun)))
}

// Write renders t to w. JSON output encodes data instead of the table cells so that field
// names and timestamps keep their model form.
func Write(w io.Writer, f Format, t Table, data any) error {
	var out []byte
	switch f {
	case CSV:
		b, err := ToCSV(t)
		if err != nil {
			return err
		}
		out = b
	case JSON:
		b, err := shared.MarshalJSON(data, true)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		out = append(b, '\n')
	default:
		out = []byte(ToText(t))
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
