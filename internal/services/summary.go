package services

import (
	"strings"

	"csv_manager_backend/internal/models"
)

// Summarize counts rows, columns and per-column filled/blank cells.
// Blank means empty after trimming whitespace.
func Summarize(table *models.RecordTable, sizeBytes int64) models.TableSummary {
	summary := models.TableSummary{SizeBytes: sizeBytes, ColumnStats: []models.ColumnStat{}}
	if table == nil {
		return summary
	}
	summary.Rows = len(table.Rows)
	summary.Columns = len(table.Columns)
	for ci, name := range table.Columns {
		stat := models.ColumnStat{Name: name}
		for _, row := range table.Rows {
			if ci < len(row) && strings.TrimSpace(row[ci]) != "" {
				stat.NonEmpty++
			} else {
				stat.Empty++
			}
		}
		summary.ColumnStats = append(summary.ColumnStats, stat)
	}
	return summary
}
