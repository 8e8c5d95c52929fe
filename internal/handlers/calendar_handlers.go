package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"csv_manager_backend/internal/services"
	"csv_manager_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CalendarHandler serves the reservation calendar projected from a session.
type CalendarHandler struct {
	sessionService services.SessionService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(ss services.SessionService) *CalendarHandler {
	return &CalendarHandler{sessionService: ss}
}

// GetCalendar returns one entry per reservation date. With group=day the
// entries come bucketed per date for timeline views.
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	entries, err := h.sessionService.Calendar(id)
	if err != nil {
		respondSessionError(c, err, "project calendar")
		return
	}

	if c.Query("group") == "day" {
		c.JSON(http.StatusOK, gin.H{"days": services.GroupByDate(entries), "total": len(entries)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

// GetCalendarICS returns the projection as an iCalendar feed.
func (h *CalendarHandler) GetCalendarICS(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	session, err := h.sessionService.Get(id)
	if err != nil {
		respondSessionError(c, err, "export calendar")
		return
	}
	entries, err := h.sessionService.Calendar(id)
	if err != nil {
		respondSessionError(c, err, "export calendar")
		return
	}

	name := strings.TrimSuffix(filepath.Base(session.Path), filepath.Ext(session.Path))
	var buf bytes.Buffer
	if err := services.WriteICS(&buf, "Reservations "+name, entries, time.Now()); err != nil {
		utils.LogError(err, "GetCalendarICS: failed to render calendar")
		utils.RespondInternal(c, "Failed to render calendar.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".ics"))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}
