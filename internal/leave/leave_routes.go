package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Apply)
		leaves.GET("/my", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetMine)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetAll)
		leaves.GET("/pending", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetPending)
		leaves.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetForEmployee)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.PATCH("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.PATCH("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		leaves.PATCH("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
	}

	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/my", middleware.RBACAuthorize(rbacService, "leave_balance", "read"), handler.GetMyBalances)
		balances.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "leave_balance", "read_all"), handler.GetEmployeeBalances)
	}
}
