package handler

import (
	"net/http"

	"backend/internal/auth"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	authmw         *middleware.AuthMiddleware
}

func NewInvoiceHandler(invoiceService service.InvoiceService, authmw *middleware.AuthMiddleware) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, authmw: authmw}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices", h.authmw.Authenticate())
	{
		invoices.POST("", h.authmw.RequirePermission(auth.ResourceInvoices, auth.ActionCreate), h.CreateInvoice)
		invoices.GET("", h.authmw.RequirePermission(auth.ResourceInvoices, auth.ActionRead), h.ListInvoices)
		invoices.GET("/:id", h.authmw.RequirePermission(auth.ResourceInvoices, auth.ActionRead), h.GetInvoiceByID)
		invoices.POST("/:id/cancel", h.authmw.RequirePermission(auth.ResourceInvoices, auth.ActionCancel), h.CancelInvoice)
		invoices.PUT("/:id/pay", h.authmw.RequirePermission(auth.ResourceInvoices, auth.ActionUpdate), h.MarkPaid)
		invoices.DELETE("/:id", h.authmw.RequirePermission(auth.ResourceInvoices, auth.ActionDelete), h.DeleteInvoice)
	}
}

// CreateInvoice issues an invoice for a completed work order
// @Summary      Create invoice
// @Description  Issues an invoice for a completed work order, applying the configured tax rate
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInvoiceRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated list of invoices
// @Summary      List invoices
// @Description  Retrieves a paginated list of invoices, optionally filtered by status or client
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        status     query     string  false  "Filter by status (issued, paid, cancelled)"
// @Param        client_id  query     string  false  "Filter by client"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=[]service.InvoiceResponse}
// @Failure      500        {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)
	filters := repository.InvoiceFilters{
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filters, params.Offset, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch invoices"))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, invoices, params.Page, params.Limit, total))
}

// GetInvoiceByID fetches a single invoice
// @Summary      Get invoice by ID
// @Description  Fetch a single invoice's detail by its UUID
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	id := c.Param("id")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// CancelInvoice voids an issued invoice
// @Summary      Cancel invoice
// @Description  Voids an issued invoice and reopens its work order for invoicing
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id}/cancel [post]
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	id := c.Param("id")

	actor, _ := middleware.Identity(c)
	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), actor, id)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// MarkPaid marks an issued invoice as paid
// @Summary      Mark invoice paid
// @Description  Marks an issued invoice as paid
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id}/pay [put]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id := c.Param("id")

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice removes a cancelled invoice
// @Summary      Delete invoice
// @Description  Soft deletes a cancelled invoice by ID
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id := c.Param("id")

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Invoice deleted successfully"))
}
