package report

import (
	"bytes"
	"cdpricesearch/lib/timezone"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Columns is the header row of a rendered report.
var Columns = []string{"date", "origin", "destination", "price"}

// Price is a fare in whole euros, or the error marker when no usable
// fare was found. the zero value is the error marker.
type Price struct {
	Value int
	Valid bool
}

// ErrorPrice marks a query that produced no fare, it is the zero Price.
func ErrorPrice() Price {
	return Price{}
}

func NewPrice(value int) Price {
	return Price{Value: value, Valid: true}
}

func (p Price) String() string {
	if !p.Valid {
		return "Error"
	}
	return strconv.Itoa(p.Value)
}

type Row struct {
	Date        time.Time
	Origin      string
	Destination string
	Price       Price
}

func (r Row) fields() []string {
	return []string{timezone.FormatDate(r.Date), r.Origin, r.Destination, r.Price.String()}
}

// Report keeps rows in the order they were queried, it is never sorted.
type Report struct {
	Rows []Row
}

func (r *Report) Append(date time.Time, origin, destination string, price Price) {
	r.Rows = append(r.Rows, Row{
		Date:        date,
		Origin:      origin,
		Destination: destination,
		Price:       price,
	})
}

func (r Report) Len() int {
	return len(r.Rows)
}

// Render writes the report as CSV. lines end in CRLF like the csv
// exports spreadsheet users already receive.
func (r Report) Render() string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	// writes into a bytes.Buffer cannot fail
	w.Write(Columns)
	for _, row := range r.Rows {
		w.Write(row.fields())
	}
	w.Flush()
	return buf.String()
}

// RenderTable draws the report as a box table for terminals.
func (r Report) RenderTable() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, row := range r.Rows {
		fields := row.fields()
		t.AppendRow(table.Row{fields[0], fields[1], fields[2], fields[3]})
	}
	return t.Render()
}
