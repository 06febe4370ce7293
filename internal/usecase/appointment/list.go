package appointment

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/klinik/clinic-scheduler/internal/domain/appointment"
	"github.com/klinik/clinic-scheduler/internal/domain/identity"
	"github.com/klinik/clinic-scheduler/internal/dto"
	"github.com/klinik/clinic-scheduler/internal/httperr"
)

type ListAppointmentsInput struct {
	Principal identity.Principal

	ClientName  string
	Date        string // YYYY-MM-DD, clinic time
	Status      string
	ExpertID    uint
	AgentID     uint
	ClientID    uint
	ServiceType string

	Page     int
	PageSize int
}

type ListAppointmentsResult struct {
	Items    []dto.AppointmentListDTO
	Total    int64
	Page     int
	PageSize int
	Warning  string
}

type ListAppointments struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListAppointments(repo domain.Repository, loc *time.Location) *ListAppointments {
	return &ListAppointments{repo: repo, loc: loc}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) (*ListAppointmentsResult, error) {

	p := in.Principal
	paged := domain.Filter{Page: in.Page, PageSize: in.PageSize}.Paged()
	res := &ListAppointmentsResult{Page: paged.Page, PageSize: paged.PageSize}

	if p.MissingProfile() {
		res.Warning = "your " + string(p.Role) + " profile was not found"
		res.Items = []dto.AppointmentListDTO{}
		slog.Warn("principal without profile", "user_id", p.UserID, "role", p.Role)
		return res, nil
	}

	f := domain.Filter{
		ClientName:  in.ClientName,
		Status:      in.Status,
		ExpertID:    in.ExpertID,
		AgentID:     in.AgentID,
		ClientID:    in.ClientID,
		ServiceType: in.ServiceType,
		Page:        paged.Page,
		PageSize:    paged.PageSize,
	}
	if in.Date != "" {
		day, err := time.ParseInLocation(domain.DateLayout, in.Date, uc.loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		f.From = day
		f.To = day.AddDate(0, 0, 1)
	}

	apps, total, err := uc.repo.List(ctx, identity.For(p).AppointmentScope(p), f)
	if err != nil {
		return nil, err
	}

	res.Items = dto.NewAppointmentList(apps, uc.loc)
	res.Total = total
	return res, nil
}

// ClientAppointments lists one client's appointments for a caller allowed
// to see that client.
type ClientAppointments struct {
	list *ListAppointments
	repo domain.Repository
}

func NewClientAppointments(repo domain.Repository, list *ListAppointments) *ClientAppointments {
	return &ClientAppointments{list: list, repo: repo}
}

func (uc *ClientAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) (*ListAppointmentsResult, error) {

	p := in.Principal
	switch p.Role {
	case identity.RoleClient:
		if p.UserID != in.ClientID {
			return nil, httperr.ErrForbidden
		}
	case identity.RoleAgent:
		if p.AgentID == nil {
			break
		}
		ok, err := uc.repo.IsAssignedClient(ctx, *p.AgentID, in.ClientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrForbidden
		}
	}

	// The caller's own scope still applies on top of the client filter.
	return uc.list.Execute(ctx, in)
}
