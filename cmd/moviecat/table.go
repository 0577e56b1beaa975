package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const maxCellWidth = 60

// tableFields is the projection used for tables when --fields is not given.
var tableFields = []string{"Ids", "Title", "Year", "Rating", "Runtime", "Director"}

var numericFields = map[string]bool{
	"Ids": true, "Year": true, "Runtime": true, "Rating": true, "Votes": true, "Revenue": true,
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    maxCellWidth,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderMovies renders projected records, one row per movie.
func renderMovies(movies []map[string]any, fields []string) string {
	aligns := make([]columnAlignment, len(fields))
	for i, f := range fields {
		if numericFields[f] {
			aligns[i] = alignRight
		}
	}
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = formatValue(m[f])
		}
		rows = append(rows, row)
	}
	return renderTable(fields, rows, aligns)
}

// renderMovie renders a single projected record as field/value pairs.
func renderMovie(movie map[string]any, fields []string) string {
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f, formatValue(movie[f])})
	}
	return renderTable([]string{"Field", "Value"}, rows, nil)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if strings.TrimSpace(val) == "" {
			return "-"
		}
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
