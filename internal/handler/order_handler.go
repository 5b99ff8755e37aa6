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

type OrderHandler struct {
	orderService service.OrderService
	authmw       *middleware.AuthMiddleware
}

func NewOrderHandler(orderService service.OrderService, authmw *middleware.AuthMiddleware) *OrderHandler {
	return &OrderHandler{orderService: orderService, authmw: authmw}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders", h.authmw.Authenticate())
	{
		orders.GET("", h.authmw.RequirePermission(auth.ResourceOrders, auth.ActionRead), h.ListOrders)
		orders.GET("/:id", h.authmw.RequirePermission(auth.ResourceOrders, auth.ActionRead), h.GetOrderByID)
		orders.POST("", h.authmw.RequirePermission(auth.ResourceOrders, auth.ActionCreate), h.CreateOrder)
		orders.PUT("/:id", h.authmw.RequirePermission(auth.ResourceOrders, auth.ActionUpdate), h.UpdateOrder)
		orders.POST("/:id/assign", h.authmw.RequirePermission(auth.ResourceOrders, auth.ActionAssign), h.AssignMechanic)
		orders.DELETE("/:id", h.authmw.RequirePermission(auth.ResourceOrders, auth.ActionDelete), h.DeleteOrder)
	}
}

// CreateOrder opens a new work order
// @Summary      Create work order
// @Description  Opens a new work order for a client's vehicle
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListOrders returns a paginated list of work orders
// @Summary      List work orders
// @Description  Retrieves a paginated list of work orders with optional filters
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status (received, in_progress, completed, delivered, cancelled)"
// @Param        client_id    query     string  false  "Filter by client"
// @Param        vehicle_id   query     string  false  "Filter by vehicle"
// @Param        mechanic_id  query     string  false  "Filter by assigned mechanic"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=[]service.OrderResponse}
// @Failure      500          {object}  response.Response
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)
	filters := repository.OrderFilters{
		Status:     c.Query("status"),
		ClientID:   c.Query("client_id"),
		VehicleID:  c.Query("vehicle_id"),
		MechanicID: c.Query("mechanic_id"),
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filters, params.Offset, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch orders"))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, orders, params.Page, params.Limit, total))
}

// GetOrderByID fetches a single work order
// @Summary      Get work order by ID
// @Description  Fetch a single work order's detail by its UUID
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id := c.Param("id")

	order, err := h.orderService.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// UpdateOrder updates a work order's details or advances its status
// @Summary      Update work order
// @Description  Updates a work order's details or advances its status along the allowed transitions
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Order ID"
// @Param        payload  body      service.UpdateOrderRequest  true  "Update Order Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// AssignMechanic assigns a mechanic to a work order
// @Summary      Assign mechanic
// @Description  Assigns an active mechanic to an open work order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Order ID"
// @Param        payload  body      service.AssignOrderRequest  true  "Assign Mechanic Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders/{id}/assign [post]
func (h *OrderHandler) AssignMechanic(c *gin.Context) {
	id := c.Param("id")
	var req service.AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	actor, _ := middleware.Identity(c)
	order, err := h.orderService.AssignMechanic(c.Request.Context(), actor, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DeleteOrder soft deletes a work order
// @Summary      Delete work order
// @Description  Soft deletes a work order by ID; invoiced orders cannot be deleted
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id := c.Param("id")

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Order deleted successfully"))
}
