package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/klinik/clinic-scheduler/internal/httperr"
)

// pathID reads a positive id path parameter, writing a 400 when it is not.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

// queryUint returns zero for a missing parameter.
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

// parseScheduledAt accepts an RFC 3339 instant, or a date and a wall-clock
// time in the clinic's zone.
func parseScheduledAt(loc *time.Location, scheduledAt, date, clock string) (time.Time, error) {
	if scheduledAt != "" {
		return time.Parse(time.RFC3339, scheduledAt)
	}
	return time.ParseInLocation(
		"2006-01-02 15:04",
		strings.TrimSpace(date)+" "+strings.TrimSpace(clock),
		loc,
	)
}
