package models

import "time"

// Column names of the default client-record schema, in file order.
const (
	ColumnFirstName        = "First Name"
	ColumnLastName         = "Last Name"
	ColumnEmail            = "Email"
	ColumnPhone            = "Phone"
	ColumnReservationDates = "Reservation Dates"
	ColumnStatus           = "Status"
)

// DefaultColumns is the header written for a table that did not come from a file.
var DefaultColumns = []string{
	ColumnFirstName,
	ColumnLastName,
	ColumnEmail,
	ColumnPhone,
	ColumnReservationDates,
	ColumnStatus,
}

// ReservationStatus is the status a client reservation can be entered with.
// The store keeps it as free text; only entry points validate it.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pending"
	ReservationStatusConfirmed ReservationStatus = "Confirmed"
	ReservationStatusCancelled ReservationStatus = "Cancelled"

	// StatusUnknown is reported for rows with an empty status.
	StatusUnknown = "Unknown"
)

// IsValidReservationStatus checks if the provided status string is a valid ReservationStatus.
func IsValidReservationStatus(status string) bool {
	switch ReservationStatus(status) {
	case ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusCancelled:
		return true
	default:
		return false
	}
}

// ClientRecord is one client row addressed by field rather than by column position.
type ClientRecord struct {
	FirstName        string `json:"first_name" form:"first_name"`
	LastName         string `json:"last_name" form:"last_name"`
	Email            string `json:"email" form:"email"`
	Phone            string `json:"phone" form:"phone"`
	ReservationDates string `json:"reservation_dates" form:"reservation_dates"` // encoded "YYYY-MM-DD, YYYY-MM-DD"
	Status           string `json:"status" form:"status"`
}

// Values returns the record keyed by default column name.
func (r ClientRecord) Values() map[string]string {
	return map[string]string{
		ColumnFirstName:        r.FirstName,
		ColumnLastName:         r.LastName,
		ColumnEmail:            r.Email,
		ColumnPhone:            r.Phone,
		ColumnReservationDates: r.ReservationDates,
		ColumnStatus:           r.Status,
	}
}

// RecordTable is an ordered, text-only table. Row order is display order.
// Rows normally have len(Columns) cells; rows read from a file with extra
// trailing cells keep them.
type RecordTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewRecordTable returns an empty table with the default schema.
func NewRecordTable() *RecordTable {
	cols := make([]string, len(DefaultColumns))
	copy(cols, DefaultColumns)
	return &RecordTable{Columns: cols, Rows: [][]string{}}
}

// Clone deep-copies the table so callers can hand out snapshots.
func (t *RecordTable) Clone() *RecordTable {
	if t == nil {
		return nil
	}
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, len(row))
		copy(r, row)
		rows[i] = r
	}
	return &RecordTable{Columns: cols, Rows: rows}
}

// ColumnIndex returns the position of the named column or -1.
func (t *RecordTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i for the named column; absent columns and
// short rows read as empty.
func (t *RecordTable) Cell(i int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) || idx >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][idx]
}

// ParsedDate is one decoded token of a reservation date list.
// Valid is false when Raw could not be read as a calendar date.
type ParsedDate struct {
	Raw   string    `json:"raw"`
	Date  time.Time `json:"date"`
	Valid bool      `json:"valid"`
}

// ColumnStat counts filled and blank cells for one column.
type ColumnStat struct {
	Name     string `json:"name"`
	NonEmpty int    `json:"non_empty"`
	Empty    int    `json:"empty"`
}

// TableSummary describes a loaded table, as shown after an upload.
type TableSummary struct {
	Rows        int          `json:"rows"`
	Columns     int          `json:"columns"`
	SizeBytes   int64        `json:"size_bytes"`
	ColumnStats []ColumnStat `json:"column_stats"`
}
