package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/httpresp"
	"github.com/klinik/clinic-scheduler/internal/middleware"
	ucSchedule "github.com/klinik/clinic-scheduler/internal/usecase/schedule"
)

type ScheduleHandler struct {
	get                *ucSchedule.GetSchedule
	saveAvailability   *ucSchedule.SaveAvailability
	deleteAvailability *ucSchedule.DeleteAvailability
	saveHoliday        *ucSchedule.SaveHoliday
	deleteHoliday      *ucSchedule.DeleteHoliday
}

func NewScheduleHandler(
	get *ucSchedule.GetSchedule,
	saveAvailability *ucSchedule.SaveAvailability,
	deleteAvailability *ucSchedule.DeleteAvailability,
	saveHoliday *ucSchedule.SaveHoliday,
	deleteHoliday *ucSchedule.DeleteHoliday,
) *ScheduleHandler {
	return &ScheduleHandler{
		get:                get,
		saveAvailability:   saveAvailability,
		deleteAvailability: deleteAvailability,
		saveHoliday:        saveHoliday,
		deleteHoliday:      deleteHoliday,
	}
}

type AvailabilityRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type HolidayRequest struct {
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Description string `json:"description"`
}

// GET /api/experts/:id/schedule
func (h *ScheduleHandler) Get(c *gin.Context) {
	expertID, ok := pathID(c, "id")
	if !ok {
		return
	}

	s, err := h.get.Execute(c.Request.Context(), expertID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, s)
}

// ------------------------------
// Availability
// ------------------------------

func (h *ScheduleHandler) CreateAvailability(c *gin.Context) {
	h.writeAvailability(c, false)
}

func (h *ScheduleHandler) UpdateAvailability(c *gin.Context) {
	h.writeAvailability(c, true)
}

func (h *ScheduleHandler) writeAvailability(c *gin.Context, existing bool) {
	expertID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var id uint
	if existing {
		if id, ok = pathID(c, "availabilityID"); !ok {
			return
		}
	}

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "day_of_week, start_time and end_time are required.")
		return
	}

	av, err := h.saveAvailability.Execute(c.Request.Context(), ucSchedule.AvailabilityInput{
		Principal: middleware.PrincipalFrom(c),
		ID:        id,
		ExpertID:  expertID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if existing {
		httpresp.OK(c, av)
		return
	}
	httpresp.Created(c, av)
}

func (h *ScheduleHandler) DeleteAvailability(c *gin.Context) {
	id, ok := pathID(c, "availabilityID")
	if !ok {
		return
	}

	if err := h.deleteAvailability.Execute(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ------------------------------
// Holidays
// ------------------------------

func (h *ScheduleHandler) CreateHoliday(c *gin.Context) {
	h.writeHoliday(c, false)
}

func (h *ScheduleHandler) UpdateHoliday(c *gin.Context) {
	h.writeHoliday(c, true)
}

func (h *ScheduleHandler) writeHoliday(c *gin.Context, existing bool) {
	expertID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var id uint
	if existing {
		if id, ok = pathID(c, "holidayID"); !ok {
			return
		}
	}

	var req HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "start_date and end_date are required.")
		return
	}

	hol, err := h.saveHoliday.Execute(c.Request.Context(), ucSchedule.HolidayInput{
		Principal:   middleware.PrincipalFrom(c),
		ID:          id,
		ExpertID:    expertID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if existing {
		httpresp.OK(c, hol)
		return
	}
	httpresp.Created(c, hol)
}

func (h *ScheduleHandler) DeleteHoliday(c *gin.Context) {
	id, ok := pathID(c, "holidayID")
	if !ok {
		return
	}

	if err := h.deleteHoliday.Execute(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
