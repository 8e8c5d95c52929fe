package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"csv_manager_backend/internal/models"
)

const (
	ICSProductID   = "-//CSV Manager//Reservations//EN"
	icsStampLayout = "20060102T150405Z"
	icsDateLayout  = "20060102"
)

// Project expands every row's reservation dates into one calendar entry per
// valid date. Rows without valid dates contribute nothing. Output follows row
// order, then the order of dates inside each row. The table is not modified.
func Project(table *models.RecordTable) []models.CalendarEntry {
	if table == nil {
		return nil
	}
	entries := []models.CalendarEntry{}
	for i := range table.Rows {
		rec := RecordAt(table, i)
		dates := ValidDates(rec.ReservationDates)
		if len(dates) == 0 {
			continue
		}
		label := rec.FirstName + " " + rec.LastName
		status := rec.Status
		if status == "" {
			status = models.StatusUnknown
		}
		for _, d := range dates {
			entries = append(entries, models.CalendarEntry{Client: label, Date: d, Status: status})
		}
	}
	return entries
}

// GroupByDate buckets projected entries per day, days ascending. Entries keep
// their projected order inside a day.
func GroupByDate(entries []models.CalendarEntry) []models.CalendarDay {
	byDay := make(map[string][]models.CalendarEntry)
	for _, e := range entries {
		key := e.Date.Format(models.DateLayout)
		byDay[key] = append(byDay[key], e)
	}
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	days := make([]models.CalendarDay, 0, len(keys))
	for _, k := range keys {
		days = append(days, models.CalendarDay{Date: k, Entries: byDay[k]})
	}
	return days
}

// WriteICS renders entries as an iCalendar document of all-day events.
func WriteICS(w io.Writer, calendarName string, entries []models.CalendarEntry, now time.Time) error {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	fmt.Fprintf(&b, "PRODID:%s\r\n", ICSProductID)
	fmt.Fprintf(&b, "X-WR-CALNAME:%s\r\n", icsEscape(calendarName))
	b.WriteString("CALSCALE:GREGORIAN\r\n")

	stamp := now.UTC().Format(icsStampLayout)
	for i, e := range entries {
		day := e.Date.Format(icsDateLayout)
		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:%s-%d-%s@csv-manager\r\n", day, i, icsUIDPart(e.Client))
		fmt.Fprintf(&b, "DTSTAMP:%s\r\n", stamp)
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\r\n", day)
		fmt.Fprintf(&b, "DTEND;VALUE=DATE:%s\r\n", e.Date.AddDate(0, 0, 1).Format(icsDateLayout))
		fmt.Fprintf(&b, "SUMMARY:%s (%s)\r\n", icsEscape(e.Client), icsEscape(e.Status))
		fmt.Fprintf(&b, "DESCRIPTION:Reservation %s\r\n", icsEscape(e.Status))
		b.WriteString("END:VEVENT\r\n")
	}
	b.WriteString("END:VCALENDAR\r\n")

	_, err := io.WriteString(w, b.String())
	return err
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`, "\r", "")

func icsEscape(s string) string {
	return icsEscaper.Replace(s)
}

func icsUIDPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
		} else if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	if b.Len() == 0 {
		return "client"
	}
	return strings.TrimRight(b.String(), "-")
}
