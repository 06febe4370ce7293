package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/middleware"
)

// respondError maps use case errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var rej *domain.RejectionError
	if errors.As(err, &rej) {
		first := rej.Reasons[0]
		httperr.Rejected(c, first.Code, first.Message, rej.Reasons)
		return
	}

	switch {
	case errors.Is(err, httperr.ErrForbidden):
		httperr.Forbidden(c, "forbidden", "You are not allowed to perform this action.")
	case errors.Is(err, httperr.ErrNotFound):
		httperr.NotFound(c, "not_found", "Resource not found.")
	default:
		if code, ok := httperr.AsBusiness(err); ok {
			httperr.BadRequest(c, code, businessMessage(code))
			return
		}
		rid, _ := c.Get(middleware.ContextRequestID)
		slog.Error("request failed",
			"request_id", rid,
			"path", c.FullPath(),
			"error", err,
		)
		httperr.Internal(c, "internal_error", "Unexpected error.")
	}
}

var businessMessages = map[string]string{
	"invalid_time":           "Time must be HH:MM.",
	"invalid_day_of_week":    "Day of week must be between 0 (Monday) and 6 (Sunday).",
	"invalid_time_range":     "End time must be after start time.",
	"availability_overlap":   "This window overlaps an existing availability.",
	"invalid_date_range":     "End date must not be before start date.",
	"holiday_overlap":        "This period overlaps an existing holiday.",
	"invalid_amount":         "Amount must be greater than zero.",
	"invalid_payment_method": "Unknown payment method.",
	"already_paid":           "This appointment is already paid.",
	"invalid_state":          "The appointment is not in a state that allows this action.",
	"agent_cycle":            "This parent would create a loop in the agent hierarchy.",
	"agent_required":         "An agent must be given.",
	"agent_profile_missing":  "Your agent profile was not found.",
	"client_not_found":       "Client not found.",
	"expert_not_found":       "Expert not found.",
	"parent_not_found":       "Parent agent not found.",
	"not_a_client":           "The user is not a client.",
	"invalid_date":           "Date must be YYYY-MM-DD.",
	"invalid_month":          "Month must be between 1 and 12.",
	"invalid_status":         "Unknown appointment status.",
	"invalid_email":          "Invalid e-mail address.",
	"invalid_phone":          "Invalid phone number.",
	"username_required":      "Username is required.",
	"username_taken":         "Username is already in use.",
}

func businessMessage(code string) string {
	if m, ok := businessMessages[code]; ok {
		return m
	}
	return "Invalid request."
}
