package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/httpresp"
	"github.com/klinik/clinic-scheduler/internal/middleware"
	"github.com/klinik/clinic-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe echoes the caller and the profiles the token resolved to.
func (h *MeHandler) GetMe(c *gin.Context) {
	p := middleware.PrincipalFrom(c)

	var user models.User
	err := h.db.WithContext(c.Request.Context()).First(&user, p.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"phone":      user.Phone,
			"role":       p.Role,
		},
		"expert_id": p.ExpertID,
		"agent_id":  p.AgentID,
	}
	if p.MissingProfile() {
		body["warning"] = "your " + string(p.Role) + " profile was not found"
	}
	httpresp.OK(c, body)
}
