package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/internal/core/ports"
	"github.com/relaycrm/crm-system/pkg/httpx"
)

type LeadHandler struct {
	leadService ports.LeadService
}

func NewLeadHandler(leadService ports.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

type createLeadRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Source     string `json:"source"`
	AssignedTo string `json:"assignedTo"`
}

type updateLeadRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
}

type leadListPayload struct {
	Leads any            `json:"leads"`
	Meta  ports.PageMeta `json:"meta"`
}

// Create registers a new lead in the pipeline.
//
// @Summary      Create a lead
// @Tags         lead
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLeadRequest  true  "Lead details"
// @Success      201   {object}  httpx.Response
// @Failure      400   {object}  httpx.Response
// @Router       /lead [post]
func (h *LeadHandler) Create(c echo.Context) error {
	var req createLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpx.Fail("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpx.Fail(err.Error()))
	}

	lead, err := h.leadService.CreateLead(c.Request().Context(), ports.CreateLeadInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     req.Source,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, httpx.OK(lead))
}

// List returns a page of leads.
//
// @Summary      List leads
// @Tags         lead
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  httpx.Response
// @Router       /lead [get]
func (h *LeadHandler) List(c echo.Context) error {
	page, limit := pageParams(c)

	leads, meta, err := h.leadService.ListLeads(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, httpx.OK(leadListPayload{Leads: leads, Meta: meta}))
}

// Update patches the mutable fields of a lead.
//
// @Summary      Update a lead
// @Tags         lead
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Lead ID"
// @Param        body  body      updateLeadRequest  true  "Fields to update"
// @Success      200   {object}  httpx.Response
// @Failure      404   {object}  httpx.Response
// @Router       /lead/{id} [patch]
func (h *LeadHandler) Update(c echo.Context) error {
	var req updateLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpx.Fail("invalid payload"))
	}

	upd := ports.LeadUpdate{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		AssignedTo: req.AssignedTo,
	}
	if req.Status != nil {
		status := domain.LeadStatus(*req.Status)
		upd.Status = &status
	}

	lead, err := h.leadService.UpdateLead(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, httpx.OK(lead))
}
