package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/klinik/clinic-scheduler/internal/audit"
	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/httpresp"
	"github.com/klinik/clinic-scheduler/internal/middleware"
)

type AuditLogsHandler struct {
	logs *audit.Logger
	loc  *time.Location
}

func NewAuditLogsHandler(logs *audit.Logger, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, loc: loc}
}

// List is restricted to admins. from and to are clinic-local dates, both
// inclusive.
func (h *AuditLogsHandler) List(c *gin.Context) {
	if middleware.PrincipalFrom(c).Role != identity.RoleAdmin {
		httperr.Forbidden(c, "forbidden", "Only administrators can read the audit log.")
		return
	}

	userID, ok := queryUint(c, "user_id")
	if !ok {
		return
	}

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		UserID: userID,
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.ParseInLocation(domain.DateLayout, raw, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
			return
		}
		f.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.ParseInLocation(domain.DateLayout, raw, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD.")
			return
		}
		f.To = to.AddDate(0, 0, 1)
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	f = f.Normalized()
	httpresp.Page(c, logs, total, f.Page, f.Limit)
}
