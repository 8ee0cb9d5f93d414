package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/UsmanRajput1111/SolarRevive/internal/application"
	bookingDomain "github.com/UsmanRajput1111/SolarRevive/internal/domain/booking"
	"github.com/UsmanRajput1111/SolarRevive/internal/platform/auth"
	"github.com/UsmanRajput1111/SolarRevive/internal/platform/middleware"
	"github.com/UsmanRajput1111/SolarRevive/internal/platform/response"
)

// AssignTechnicianRequest is the body of POST /bookings/:id/assign.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technicianId" binding:"required,uuid"`
}

// UpdateStatusRequest is the body of POST /bookings/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AttachImageRequest is the body of POST /bookings/:id/images.
type AttachImageRequest struct {
	Kind string `json:"kind" binding:"required,oneof=before after"`
	URL  string `json:"url" binding:"required"`
}

// RateBookingRequest is the body of POST /bookings/:id/rating.
type RateBookingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", middleware.RequireRole(auth.RoleCustomer), h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.POST("/:id/assign", middleware.RequireRole(auth.RoleAdmin), h.AssignTechnician)
		bookings.POST("/:id/payment/approve", middleware.RequireRole(auth.RoleAdmin), h.ApprovePayment)
		bookings.POST("/:id/payment/confirm-cash", middleware.RequireRole(auth.RoleTechnician), h.ConfirmCashPayment)
		bookings.POST("/:id/status", middleware.RequireRole(auth.RoleTechnician), h.UpdateStatus)
		bookings.POST("/:id/images", middleware.RequireRole(auth.RoleTechnician), h.AttachImage)
		bookings.POST("/:id/rating", middleware.RequireRole(auth.RoleCustomer), h.RateBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings. Admins see all, technicians their jobs, customers their own.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListBookings(c.Request.Context(), actor, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, bookingID, ok := actorAndBooking(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBooking handles PUT /api/v1/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	actor, bookingID, ok := actorAndBooking(c)
	if !ok {
		return
	}

	var req application.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AssignTechnician handles POST /api/v1/bookings/:id/assign.
func (h *BookingHandler) AssignTechnician(c *gin.Context) {
	actor, bookingID, ok := actorAndBooking(c)
	if !ok {
		return
	}

	var req AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	technicianID, err := uuid.Parse(req.TechnicianID)
	if err != nil {
		response.BadRequest(c, "invalid technician ID")
		return
	}

	result, err := h.service.AssignTechnician(c.Request.Context(), actor, bookingID, technicianID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ApprovePayment handles POST /api/v1/bookings/:id/payment/approve.
func (h *BookingHandler) ApprovePayment(c *gin.Context) {
	actor, bookingID, ok := actorAndBooking(c)
	if !ok {
		return
	}

	result, err := h.service.ApprovePayment(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ConfirmCashPayment handles POST /api/v1/bookings/:id/payment/confirm-cash.
func (h *BookingHandler) ConfirmCashPayment(c *gin.Context) {
	actor, bookingID, ok := actorAndBooking(c)
	if !ok {
		return
	}

	result, err := h.service.ConfirmCashPayment(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, result, "cash payment confirmed")
}

// UpdateStatus handles POST /api/v1/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	actor, bookingID, ok := actorAndBooking(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), actor, bookingID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AttachImage handles POST /api/v1/bookings/:id/images.
func (h *BookingHandler) AttachImage(c *gin.Context) {
	actor, bookingID, ok := actorAndBooking(c)
	if !ok {
		return
	}

	var req AttachImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.AttachImage(c.Request.Context(), actor, bookingID, req.Kind, req.URL)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RateBooking handles POST /api/v1/bookings/:id/rating.
func (h *BookingHandler) RateBooking(c *gin.Context) {
	actor, bookingID, ok := actorAndBooking(c)
	if !ok {
		return
	}

	var req RateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.RateBooking(c.Request.Context(), actor, bookingID, req.Rating)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// actorFrom builds the caller's identity from the auth middleware's context values.
func actorFrom(c *gin.Context) (bookingDomain.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return bookingDomain.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return bookingDomain.Actor{}, false
	}
	return bookingDomain.Actor{UserID: userID, Role: bookingDomain.Role(role)}, true
}

func actorAndBooking(c *gin.Context) (bookingDomain.Actor, uuid.UUID, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		return actor, uuid.Nil, false
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return actor, uuid.Nil, false
	}
	return actor, bookingID, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
