package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/klinik/clinic-scheduler/internal/httperr"
	"github.com/klinik/clinic-scheduler/internal/httpresp"
	"github.com/klinik/clinic-scheduler/internal/middleware"
	"github.com/klinik/clinic-scheduler/internal/models"
	ucAgent "github.com/klinik/clinic-scheduler/internal/usecase/agent"
)

// ======================================================
// HANDLER
// ======================================================

type AgentHandler struct {
	list      *ucAgent.ListAgents
	setParent *ucAgent.SetParent
	assign    *ucAgent.AssignClient
	clients   *ucAgent.ListClients
	register  *ucAgent.RegisterClient
}

func NewAgentHandler(
	list *ucAgent.ListAgents,
	setParent *ucAgent.SetParent,
	assign *ucAgent.AssignClient,
	clients *ucAgent.ListClients,
	register *ucAgent.RegisterClient,
) *AgentHandler {
	return &AgentHandler{
		list:      list,
		setParent: setParent,
		assign:    assign,
		clients:   clients,
		register:  register,
	}
}

// ======================================================
// DTO
// ======================================================

type agentView struct {
	ID                     uint    `json:"id"`
	UserID                 uint    `json:"user_id"`
	Name                   string  `json:"name"`
	ParentID               *uint   `json:"parent_id"`
	CommissionRate         *string `json:"commission_rate"`
	SubAgentCommissionRate *string `json:"sub_agent_commission_rate"`
}

func newAgentView(a models.Agent) agentView {
	v := agentView{
		ID:       a.ID,
		UserID:   a.UserID,
		Name:     a.User.FullName(),
		ParentID: a.ParentID,
	}
	if a.CommissionRate.Valid {
		s := a.CommissionRate.Decimal.StringFixed(2)
		v.CommissionRate = &s
	}
	if a.SubAgentCommissionRate.Valid {
		s := a.SubAgentCommissionRate.Decimal.StringFixed(2)
		v.SubAgentCommissionRate = &s
	}
	return v
}

type clientView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func newClientView(u models.User) clientView {
	return clientView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type SetParentRequest struct {
	// Null detaches the agent.
	ParentID *uint `json:"parent_id"`
}

type RegisterClientRequest struct {
	AgentID   uint   `json:"agent_id"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ======================================================
// ENDPOINTS
// ======================================================

func (h *AgentHandler) List(c *gin.Context) {
	agents, err := h.list.Execute(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]agentView, 0, len(agents))
	for _, a := range agents {
		out = append(out, newAgentView(a))
	}
	httpresp.List(c, out)
}

// PUT /api/agents/:id/parent
func (h *AgentHandler) SetParent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SetParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	a, err := h.setParent.Execute(c.Request.Context(), middleware.PrincipalFrom(c), id, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, newAgentView(*a))
}

func (h *AgentHandler) AssignClient(c *gin.Context) {
	h.changeAssignment(c, true)
}

func (h *AgentHandler) UnassignClient(c *gin.Context) {
	h.changeAssignment(c, false)
}

func (h *AgentHandler) changeAssignment(c *gin.Context, assign bool) {
	agentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	clientID, ok := pathID(c, "clientID")
	if !ok {
		return
	}

	if err := h.assign.Execute(c.Request.Context(), middleware.PrincipalFrom(c), agentID, clientID, assign); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/agents/:id/clients
func (h *AgentHandler) Clients(c *gin.Context) {
	agentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.writeClients(c, agentID)
}

// GET /api/me/clients
func (h *AgentHandler) MyClients(c *gin.Context) {
	h.writeClients(c, 0)
}

func (h *AgentHandler) writeClients(c *gin.Context, agentID uint) {
	users, err := h.clients.Execute(c.Request.Context(), middleware.PrincipalFrom(c), agentID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]clientView, 0, len(users))
	for _, u := range users {
		out = append(out, newClientView(u))
	}
	httpresp.List(c, out)
}

// POST /api/clients
func (h *AgentHandler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "username is required.")
		return
	}

	u, err := h.register.Execute(c.Request.Context(), ucAgent.RegisterClientInput{
		Principal: middleware.PrincipalFrom(c),
		AgentID:   req.AgentID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.Created(c, newClientView(*u))
}
