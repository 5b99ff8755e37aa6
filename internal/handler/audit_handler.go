package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	authmw       *middleware.AuthMiddleware
}

func NewAuditHandler(auditService service.AuditService, authmw *middleware.AuthMiddleware) *AuditHandler {
	return &AuditHandler{auditService: auditService, authmw: authmw}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/audit-logs", h.authmw.Authenticate())
	{
		logs.GET("", h.authmw.RequireRole(model.RoleAdmin, model.RoleManager), h.ListAuditLogs)
	}
}

// ListAuditLogs returns the security audit trail, newest first
// @Summary      List audit logs
// @Description  Retrieves a paginated list of security-relevant events, newest first
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action   query     string  false  "Filter by recorded action (e.g. LOGIN, ASSIGN_ORDER)"
// @Param        user_id  query     string  false  "Filter by acting user"
// @Param        page     query     int     false  "Page number (default 1)"
// @Param        limit    query     int     false  "Number of items per page (default 20)"
// @Success      200      {object}  response.Response{data=[]service.AuditLogResponse}
// @Failure      500      {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)
	filters := repository.AuditFilters{
		Action: c.Query("action"),
		UserID: c.Query("user_id"),
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), filters, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch audit logs"))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, logs, params.Page, params.Limit, total))
}
