package tui

import (
	"sort"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/ivoronin/s3bmon/internal/table"
)

// tableSurface adapts a bubbles table to the reconciler's Surface contract.
// It keeps the row keys the widget itself does not track, applies operations
// to its own row list, and pushes the result to the widget after the sort
// that ends every reconciliation pass.
type tableSurface struct {
	widget *btable.Model
	rows   []table.Row
}

func newTableSurface(widget *btable.Model) *tableSurface {
	return &tableSurface{widget: widget}
}

func (s *tableSurface) InsertRow(row table.Row) {
	s.rows = append(s.rows, row)
}

func (s *tableSurface) UpdateCell(key string, column int, value string) {
	for i := range s.rows {
		if s.rows[i].Key == key {
			s.rows[i].Fields[column] = value
			return
		}
	}
}

func (s *tableSurface) RemoveRow(key string) {
	for i := range s.rows {
		if s.rows[i].Key == key {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return
		}
	}
}

func (s *tableSurface) SortByCreationDesc() {
	sort.SliceStable(s.rows, func(i, j int) bool {
		return s.rows[i].CreatedAt.After(s.rows[j].CreatedAt)
	})
	s.sync()
}

// keyAt maps the widget's cursor position back to a job id.
func (s *tableSurface) keyAt(index int) string {
	if index < 0 || index >= len(s.rows) {
		return ""
	}
	return s.rows[index].Key
}

func (s *tableSurface) sync() {
	rows := make([]btable.Row, len(s.rows))
	for i, row := range s.rows {
		rows[i] = row.Fields[:]
	}
	s.widget.SetRows(rows)
}
