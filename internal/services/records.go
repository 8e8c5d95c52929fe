package services

import (
	"strings"

	"csv_manager_backend/internal/models"
)

var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeCell folds CRLF and lone CR to LF. The CSV reader drops a CR
// before LF even inside quotes, so a cell must already hold LF to survive a
// save and reload unchanged.
func normalizeCell(s string) string {
	return newlineNormalizer.Replace(s)
}

// Append returns a copy of table with record added as the last row. Record
// fields are placed by column name; columns the record does not know stay
// empty, and fields without a matching column are dropped. The schema is
// never changed.
func Append(table *models.RecordTable, record models.ClientRecord) *models.RecordTable {
	if table == nil {
		table = models.NewRecordTable()
	}
	out := table.Clone()
	values := record.Values()
	row := make([]string, len(out.Columns))
	for i, col := range out.Columns {
		row[i] = normalizeCell(values[col])
	}
	out.Rows = append(out.Rows, row)
	return out
}

// ReplaceAll returns a table with the same columns as table and rows replaced
// wholesale. Row count may differ arbitrarily from the previous one. Line
// breaks inside cells are stored as LF.
func ReplaceAll(table *models.RecordTable, rows [][]string) *models.RecordTable {
	if table == nil {
		table = models.NewRecordTable()
	}
	out := &models.RecordTable{
		Columns: append([]string(nil), table.Columns...),
		Rows:    make([][]string, len(rows)),
	}
	for i, row := range rows {
		r := make([]string, len(row))
		for j, cell := range row {
			r[j] = normalizeCell(cell)
		}
		for len(r) < len(out.Columns) {
			r = append(r, "")
		}
		out.Rows[i] = r
	}
	return out
}

// RecordAt reads row i of table back as a ClientRecord.
func RecordAt(table *models.RecordTable, i int) models.ClientRecord {
	return models.ClientRecord{
		FirstName:        table.Cell(i, models.ColumnFirstName),
		LastName:         table.Cell(i, models.ColumnLastName),
		Email:            table.Cell(i, models.ColumnEmail),
		Phone:            table.Cell(i, models.ColumnPhone),
		ReservationDates: table.Cell(i, models.ColumnReservationDates),
		Status:           table.Cell(i, models.ColumnStatus),
	}
}
