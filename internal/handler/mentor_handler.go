package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/unimentor/service-booking/internal/application"
	"github.com/unimentor/service-booking/internal/platform/auth"
	"github.com/unimentor/service-booking/internal/platform/middleware"
	"github.com/unimentor/service-booking/internal/platform/response"
)

// MentorHandler handles HTTP requests for mentor profile operations.
type MentorHandler struct {
	service *application.MentorService
}

// NewMentorHandler creates a new MentorHandler.
func NewMentorHandler(service *application.MentorService) *MentorHandler {
	return &MentorHandler{service: service}
}

// RegisterRoutes registers all mentor routes on the given router group.
func (h *MentorHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	mentors := r.Group("/api/v1/mentors")
	mentors.Use(authMW)
	{
		mentors.POST("", middleware.RequireRole(auth.RoleMentor), h.CreateProfile)
		mentors.GET("", h.SearchMentors)
		mentors.GET("/me", middleware.RequireRole(auth.RoleMentor), h.GetOwnProfile)
		mentors.GET("/me/earnings", middleware.RequireRole(auth.RoleMentor), h.GetEarnings)
		mentors.GET("/:id", h.GetProfile)
		mentors.PUT("/:id", middleware.RequireRole(auth.RoleMentor), h.UpdateProfile)
	}
}

// CreateProfile handles POST /api/v1/mentors.
func (h *MentorHandler) CreateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateProfile(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// SearchMentors handles GET /api/v1/mentors with filter query parameters.
func (h *MentorHandler) SearchMentors(c *gin.Context) {
	var req application.SearchMentorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, _ := middleware.GetUserRole(c)
	page, limit := parsePagination(c)

	result, err := h.service.Search(c.Request.Context(), req, role == auth.RoleAdmin, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetOwnProfile handles GET /api/v1/mentors/me.
func (h *MentorHandler) GetOwnProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetEarnings handles GET /api/v1/mentors/me/earnings.
func (h *MentorHandler) GetEarnings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetEarnings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetProfile handles GET /api/v1/mentors/:id.
func (h *MentorHandler) GetProfile(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid profile ID")
		return
	}

	result, err := h.service.GetProfile(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateProfile handles PUT /api/v1/mentors/:id.
func (h *MentorHandler) UpdateProfile(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid profile ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateProfile(c.Request.Context(), profileID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
