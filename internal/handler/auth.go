package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/middleware"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	user, token, expireAt, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{
		"token":      token,
		"expires_at": expireAt,
		"user":       user.Brief(),
	})
}

// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		Unauthorized(c, "not authenticated")
		return
	}
	perms := policy.For(middleware.GetCurrentUserRole(c))
	Success(c, gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"phone":         user.Phone,
		"role":          user.Role,
		"is_active":     user.IsActive,
		"last_login_at": user.LastLoginAt,
		"permissions": gin.H{
			"manage_users":        perms.ManageUsers,
			"manage_cases":        perms.ManageCases,
			"view_dashboard":      perms.ViewDashboard,
			"search_perpetrators": perms.SearchPerpetrators,
			"generate_reports":    perms.GenerateReports,
			"register_cases":      perms.RegisterCases,
		},
	})
}
