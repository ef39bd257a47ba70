package attendance

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
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.GET("/my", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetMine)
		attendance.GET("/my/summary", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetMySummary)
		attendance.GET("/my/calendar", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetMyCalendar)
		attendance.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read_all"), handler.GetByDate)
		attendance.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "attendance", "read_all"), handler.GetForEmployee)
		attendance.GET("/summary/:employeeId", middleware.RBACAuthorize(rbacService, "attendance", "read_all"), handler.GetEmployeeSummary)
		attendance.POST("/generate", middleware.RBACAuthorize(rbacService, "attendance", "generate"), handler.Generate)
		attendance.GET("/report", middleware.RBACAuthorize(rbacService, "attendance", "export"), handler.ExportReport)
	}
}
