package handler

import (
	"net/http"
	"strconv"

	"backend/internal/auth"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService service.ClientService
	authmw        *middleware.AuthMiddleware
}

func NewClientHandler(clientService service.ClientService, authmw *middleware.AuthMiddleware) *ClientHandler {
	return &ClientHandler{clientService: clientService, authmw: authmw}
}

func (h *ClientHandler) RegisterRoutes(router *gin.RouterGroup) {
	clients := router.Group("/clients", h.authmw.Authenticate())
	{
		clients.GET("", h.authmw.RequirePermission(auth.ResourceClients, auth.ActionRead), h.ListClients)
		clients.GET("/search", h.SearchClients)
		clients.GET("/:id", h.authmw.RequirePermission(auth.ResourceClients, auth.ActionRead), h.GetClientByID)
		clients.GET("/:id/vehicles", h.authmw.RequirePermission(auth.ResourceClients, auth.ActionRead), h.GetClientVehicles)
		clients.GET("/:id/history", h.authmw.RequirePermission(auth.ResourceClients, auth.ActionRead), h.GetClientHistory)
		clients.POST("", h.authmw.RequirePermission(auth.ResourceClients, auth.ActionCreate), h.CreateClient)
		clients.PUT("/:id", h.authmw.RequirePermission(auth.ResourceClients, auth.ActionUpdate), h.UpdateClient)
		clients.DELETE("/:id", h.authmw.RequirePermission(auth.ResourceClients, auth.ActionDelete), h.DeleteClient)
	}
}

// CreateClient registers a new workshop client
// @Summary      Create client
// @Description  Registers a new client with contact details
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateClientRequest  true  "Create Client Payload"
// @Success      201      {object}  response.Response{data=service.ClientResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, client))
}

// ListClients returns a paginated list of clients
// @Summary      List clients
// @Description  Retrieves a paginated list of clients, optionally filtered by search term or city
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search by name, ID number, email, or phone"
// @Param        city    query     string  false  "Filter by city"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=[]service.ClientResponse}
// @Failure      500     {object}  response.Response
// @Router       /api/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	params := pagination.Parse(c)
	filters := repository.ClientFilters{
		Search: c.Query("search"),
		City:   c.Query("city"),
	}

	clients, total, err := h.clientService.ListClients(c.Request.Context(), filters, params.Offset, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch clients"))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, clients, params.Page, params.Limit, total))
}

// SearchClients performs a quick lookup for autocomplete widgets
// @Summary      Search clients
// @Description  Returns up to ten clients matching the query term
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search term"
// @Success      200  {object}  response.Response{data=[]service.ClientResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/clients/search [get]
func (h *ClientHandler) SearchClients(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing search term"))
		return
	}

	clients, err := h.clientService.SearchClients(c.Request.Context(), term)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Search failed"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, clients))
}

// GetClientByID fetches a single client
// @Summary      Get client by ID
// @Description  Fetch a single client's detail by their UUID
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  response.Response{data=service.ClientResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	id := c.Param("id")

	client, err := h.clientService.GetClientByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, client))
}

// GetClientVehicles lists the vehicles registered to a client
// @Summary      Get client vehicles
// @Description  Lists all vehicles registered to the given client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  response.Response{data=[]model.Vehicle}
// @Failure      404  {object}  response.Response
// @Router       /api/clients/{id}/vehicles [get]
func (h *ClientHandler) GetClientVehicles(c *gin.Context) {
	id := c.Param("id")

	vehicles, err := h.clientService.GetClientVehicles(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicles))
}

// GetClientHistory lists a client's recent work orders
// @Summary      Get client service history
// @Description  Lists a client's work orders, most recent first
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Client ID"
// @Param        limit  query     int     false  "Number of orders to return (default 10)"
// @Success      200    {object}  response.Response{data=[]model.WorkOrder}
// @Failure      404    {object}  response.Response
// @Router       /api/clients/{id}/history [get]
func (h *ClientHandler) GetClientHistory(c *gin.Context) {
	id := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	history, err := h.clientService.GetClientHistory(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}

// UpdateClient updates a client's details
// @Summary      Update client
// @Description  Updates a client's contact details
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Client ID"
// @Param        payload  body      service.UpdateClientRequest  true  "Update Client Payload"
// @Success      200      {object}  response.Response{data=service.ClientResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, client))
}

// DeleteClient soft deletes a client
// @Summary      Delete client
// @Description  Soft deletes a client by ID
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id := c.Param("id")

	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Client deleted successfully"))
}
