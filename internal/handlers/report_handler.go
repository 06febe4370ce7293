package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/klinik/clinic-scheduler/internal/httpresp"
	"github.com/klinik/clinic-scheduler/internal/middleware"
	ucReport "github.com/klinik/clinic-scheduler/internal/usecase/report"
)

type ReportHandler struct {
	summary           *ucReport.GetPaymentSummary
	monthly           *ucReport.GetMonthlySummary
	expertCommissions *ucReport.ListCommissions
	agentCommissions  *ucReport.ListCommissions
	agentRevenue      *ucReport.GetAgentRevenue
}

func NewReportHandler(
	summary *ucReport.GetPaymentSummary,
	monthly *ucReport.GetMonthlySummary,
	expertCommissions *ucReport.ListCommissions,
	agentCommissions *ucReport.ListCommissions,
	agentRevenue *ucReport.GetAgentRevenue,
) *ReportHandler {
	return &ReportHandler{
		summary:           summary,
		monthly:           monthly,
		expertCommissions: expertCommissions,
		agentCommissions:  agentCommissions,
		agentRevenue:      agentRevenue,
	}
}

// GET /api/payments?expert_id=&agent_id=&service_type=&month=&year=
func (h *ReportHandler) PaymentSummary(c *gin.Context) {
	expertID, ok := queryUint(c, "expert_id")
	if !ok {
		return
	}
	agentID, ok := queryUint(c, "agent_id")
	if !ok {
		return
	}

	out, err := h.summary.Execute(c.Request.Context(), ucReport.PaymentSummaryInput{
		Principal:   middleware.PrincipalFrom(c),
		ExpertID:    expertID,
		AgentID:     agentID,
		ServiceType: c.Query("service_type"),
		Month:       queryInt(c, "month"),
		Year:        queryInt(c, "year"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) Monthly(c *gin.Context) {
	expertID, ok := queryUint(c, "expert_id")
	if !ok {
		return
	}
	agentID, ok := queryUint(c, "agent_id")
	if !ok {
		return
	}

	rows, err := h.monthly.Execute(c.Request.Context(), middleware.PrincipalFrom(c), expertID, agentID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ReportHandler) ExpertCommissions(c *gin.Context) {
	out, err := h.expertCommissions.Execute(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *ReportHandler) AgentCommissions(c *gin.Context) {
	out, err := h.agentCommissions.Execute(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, out)
}

// GET /api/reports/agent-revenue[?agent_id=] (agent_id is for admins)
func (h *ReportHandler) AgentRevenue(c *gin.Context) {
	agentID, ok := queryUint(c, "agent_id")
	if !ok {
		return
	}

	out, err := h.agentRevenue.Execute(c.Request.Context(), middleware.PrincipalFrom(c), agentID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, out)
}
