package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
)

func forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"status":  "error",
		"message": "insufficient permissions",
		"data":    nil,
	})
}

// RequirePermission gates a route on one entry of the static permission
// table. The caller's role is resolved by AuthMiddleware; unknown roles carry
// no permissions at all.
func RequirePermission(check func(policy.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !check(GetCurrentUserRole(c)) {
			forbidden(c)
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetCurrentUserRole(c)
		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}
		forbidden(c)
	}
}
