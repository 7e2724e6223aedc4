package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/gambler/sdk/lookup"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// window renders an empty window as a dash so columns stay readable.
func window(w lookup.Window) string {
	if w == "" {
		return "-"
	}
	return string(w)
}

// keysTable lists keys in canonical order, with weights when given.
func keysTable(keys []lookup.Key, weights []float64) *table.Table {
	headers := []string{"#", "self", "opponent", "opening"}
	if weights != nil {
		headers = append(headers, "weight")
	}
	t := newTable(headers...)
	for i, k := range keys {
		row := []string{strconv.Itoa(i), window(k.Self), window(k.Opponent), window(k.Opening)}
		if weights != nil {
			row = append(row, strconv.FormatFloat(weights[i], 'g', 6, 64))
		}
		t.Row(row...)
	}
	return t
}

func printField(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s %v\n", labelStyle.Render(label+":"), value)
}
