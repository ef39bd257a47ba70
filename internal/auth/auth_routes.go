package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/middleware"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/refresh", handler.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)

		// new admins can only be provisioned by an existing admin
		auth.POST("/register-admin",
			middleware.AuthMiddleware(),
			middleware.RBACAuthorize(rbacService, "employee", "create"),
			handler.RegisterAdmin,
		)
	}
}
