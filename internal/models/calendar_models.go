package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar date format used on disk and on the wire.
const DateLayout = "2006-01-02"

// CalendarEntry is one (client, date, status) triple of the reservation calendar.
type CalendarEntry struct {
	Client string    `json:"client"`
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

// MarshalJSON writes Date as a plain YYYY-MM-DD date.
func (e CalendarEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Client string `json:"client"`
		Date   string `json:"date"`
		Status string `json:"status"`
	}{e.Client, e.Date.Format(DateLayout), e.Status})
}

// CalendarDay groups the entries projected onto one date, for timeline views.
type CalendarDay struct {
	Date    string          `json:"date"`
	Entries []CalendarEntry `json:"entries"`
}
