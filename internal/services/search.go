package services

import (
	"strings"

	"csv_manager_backend/internal/models"
)

// Search returns the rows of table in which any cell contains term,
// case-insensitively. Every cell counts, including extra columns.
// An empty or blank term applies no filter and returns every row. Any other
// term is matched as given, surrounding spaces included.
func Search(table *models.RecordTable, term string) *models.RecordTable {
	if table == nil {
		return models.NewRecordTable()
	}
	out := &models.RecordTable{
		Columns: append([]string(nil), table.Columns...),
		Rows:    [][]string{},
	}
	all := strings.TrimSpace(term) == ""
	needle := strings.ToLower(term)
	for _, row := range table.Rows {
		if all || rowContains(row, needle) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}

func rowContains(row []string, lowered string) bool {
	for _, cell := range row {
		if strings.Contains(strings.ToLower(cell), lowered) {
			return true
		}
	}
	return false
}
