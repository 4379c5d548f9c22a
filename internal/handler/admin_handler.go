package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/unimentor/service-booking/internal/application"
	"github.com/unimentor/service-booking/internal/platform/auth"
	"github.com/unimentor/service-booking/internal/platform/middleware"
	"github.com/unimentor/service-booking/internal/platform/response"
)

// AdminHandler handles administrative HTTP endpoints.
type AdminHandler struct {
	bookings *application.BookingService
	mentors  *application.MentorService
	payments *application.PaymentService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	bookings *application.BookingService,
	mentors *application.MentorService,
	payments *application.PaymentService,
) *AdminHandler {
	return &AdminHandler{bookings: bookings, mentors: mentors, payments: payments}
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/stats", h.GetBookingStats)
		admin.GET("/payments", h.ListTransactions)
		admin.GET("/mentors", h.ListMentors)
		admin.POST("/mentors/:id/approve", h.ApproveMentor)
		admin.POST("/mentors/:id/reject", h.RejectMentor)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// GetBookingStats handles GET /api/v1/admin/bookings/stats.
func (h *AdminHandler) GetBookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ListTransactions handles GET /api/v1/admin/payments.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.payments.ListAllTransactions(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// ListMentors handles GET /api/v1/admin/mentors. The optional status query
// filters the moderation queue.
func (h *AdminHandler) ListMentors(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.mentors.ListProfilesByStatus(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, page, limit)
}

// ApproveMentor handles POST /api/v1/admin/mentors/:id/approve.
func (h *AdminHandler) ApproveMentor(c *gin.Context) {
	h.moderate(c, h.mentors.ApproveProfile)
}

// RejectMentor handles POST /api/v1/admin/mentors/:id/reject.
func (h *AdminHandler) RejectMentor(c *gin.Context) {
	h.moderate(c, h.mentors.RejectProfile)
}

func (h *AdminHandler) moderate(c *gin.Context, fn func(ctx context.Context, profileID uuid.UUID) (*application.MentorProfileDTO, error)) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid profile ID")
		return
	}

	result, err := fn(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
