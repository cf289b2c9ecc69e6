package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/portfolio/internal/domains/leads"
	"github.com/xpanvictor/portfolio/internal/domains/user"
	"github.com/xpanvictor/portfolio/pkg/Logger"
)

const (
	CodePersonalEmail = "PERSONAL_EMAIL"

	leadsPageSize = 50
	leadsMaxPage  = 200
)

type LeadsHandler struct {
	leadsService   leads.LeadsService
	userService    user.UserService
	trustForwarded bool
	logger         *Logger.Logger
}

func NewLeadsHandler(leadsService leads.LeadsService, userService user.UserService, trustForwarded bool, logger *Logger.Logger) *LeadsHandler {
	return &LeadsHandler{
		leadsService:   leadsService,
		userService:    userService,
		trustForwarded: trustForwarded,
		logger:         logger,
	}
}

// RequestResume gates the resume download behind a work email
// @Summary Request resume download
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body leads.ResumeRequestBody true "Work email"
// @Success 200 {object} ResumeRequestResponse
// @Failure 400 {object} ErrorResponse "Missing, malformed or personal email (code PERSONAL_EMAIL)"
// @Failure 500 {object} ErrorResponse
// @Router /resume-request [post]
func (h *LeadsHandler) RequestResume(c *gin.Context) {
	var body leads.ResumeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email is required"})
		return
	}

	visitor := leads.Visitor{
		IPAddress: clientIP(c, h.trustForwarded),
		UserAgent: c.Request.UserAgent(),
	}
	req, err := h.leadsService.RequestResume(c.Request.Context(), body.Email, visitor)
	if err != nil {
		switch {
		case errors.Is(err, leads.ErrEmailRequired):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email is required"})
		case errors.Is(err, leads.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Please enter a valid email address"})
		case errors.Is(err, leads.ErrPersonalEmail):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Please use your work email. This resume is intended for professional/recruitment purposes only.",
				Code:  CodePersonalEmail,
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong. Please try again."})
		}
		return
	}

	h.logger.Debugf("resume request %s stored", req.ID)
	c.JSON(http.StatusOK, ResumeRequestResponse{Success: true, DownloadURL: leads.ResumeDownloadURL})
}

// SubmitInquiry stores a service inquiry and mails it to the owner
// @Summary Submit service inquiry
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body leads.InquiryRequest true "Inquiry form"
// @Success 201 {object} InquiryResponse
// @Failure 400 {object} ErrorResponse "Invalid inquiry"
// @Failure 502 {object} InquiryResponse "Stored but the notification email failed"
// @Failure 500 {object} ErrorResponse
// @Router /inquiries [post]
func (h *LeadsHandler) SubmitInquiry(c *gin.Context) {
	var req leads.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}

	inquiry, err := h.leadsService.SubmitInquiry(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, InquiryResponse{Success: true, Message: "Inquiry sent successfully", Inquiry: *inquiry})
	case errors.Is(err, leads.ErrInvalidInquiry):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid inquiry", Details: err.Error()})
	case errors.Is(err, leads.ErrDeliveryFailed) && inquiry != nil:
		c.JSON(http.StatusBadGateway, InquiryResponse{
			Success: false,
			Message: "Your inquiry was saved but we could not send it right now. We'll follow up soon.",
			Inquiry: *inquiry,
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Something went wrong. Please try again."})
	}
}

// ListResumeRequests
// @Summary List resume downloads (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} ListResumeRequestsResponse
// @Router /resume-requests [get]
func (h *LeadsHandler) ListResumeRequests(c *gin.Context) {
	page, limit := pageParams(c, leadsPageSize, leadsMaxPage)
	requests, total, err := h.leadsService.ListResumeRequests(c.Request.Context(), (page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch resume requests"})
		return
	}
	if requests == nil {
		requests = []leads.ResumeRequest{}
	}
	c.JSON(http.StatusOK, ListResumeRequestsResponse{Requests: requests, Pagination: newPageInfo(page, limit, total)})
}

// ListInquiries
// @Summary List service inquiries (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} ListInquiriesResponse
// @Router /inquiries [get]
func (h *LeadsHandler) ListInquiries(c *gin.Context) {
	page, limit := pageParams(c, leadsPageSize, leadsMaxPage)
	inquiries, total, err := h.leadsService.ListInquiries(c.Request.Context(), (page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch inquiries"})
		return
	}
	if inquiries == nil {
		inquiries = []leads.Inquiry{}
	}
	c.JSON(http.StatusOK, ListInquiriesResponse{Inquiries: inquiries, Pagination: newPageInfo(page, limit, total)})
}

func (h *LeadsHandler) RegisterLeadsRoutes(r *gin.RouterGroup) {
	r.POST("/resume-request", h.RequestResume)
	r.POST("/inquiries", h.SubmitInquiry)

	admin := r.Group("")
	admin.Use(AuthMiddleware(h.userService, h.logger), AdminMiddleware())
	{
		admin.GET("/resume-requests", h.ListResumeRequests)
		admin.GET("/inquiries", h.ListInquiries)
	}
}
