package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/middleware"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/service"
)

type UserHandler struct {
	authService *service.AuthService
}

func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GET /admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := parsePage(c)
	keyword := c.Query("keyword")
	role := c.Query("role")

	var isActive *bool
	if s := c.Query("is_active"); s != "" {
		v := s == "true" || s == "1"
		isActive = &v
	}

	users, total, err := h.authService.ListUsers(keyword, role, isActive, page, pageSize)
	if err != nil {
		ServiceError(c, err)
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, u := range users {
		list = append(list, gin.H{
			"id":            u.ID,
			"name":          u.Name,
			"email":         u.Email,
			"phone":         u.Phone,
			"role":          u.Role,
			"is_active":     u.IsActive,
			"last_login_at": u.LastLoginAt,
			"created_at":    u.CreatedAt,
		})
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// POST /admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Phone    string `json:"phone"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	user, err := h.authService.CreateUser(service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, user.Brief())
}

// PUT /admin/users/:id/role
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	user, err := h.authService.UpdateRole(id, req.Role)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"role":       user.Role,
		"updated_at": user.UpdatedAt,
	})
}

// PUT /admin/users/:id/status
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	id := parseID(c.Param("id"))
	if id == middleware.GetCurrentUserID(c) {
		BadRequest(c, "cannot deactivate the current account")
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationError(c, "validation failed", err.Error())
		return
	}

	user, err := h.authService.SetActive(id, *req.IsActive)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"is_active":  user.IsActive,
		"updated_at": user.UpdatedAt,
	})
}
