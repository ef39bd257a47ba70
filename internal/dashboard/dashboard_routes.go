package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/middleware"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware())
	{
		dashboard.GET("/my", middleware.RBACAuthorize(rbacService, "dashboard", "read"), handler.MyDashboard)
		dashboard.GET("/admin", middleware.RBACAuthorize(rbacService, "dashboard", "read_all"), handler.AdminDashboard)
	}
}
