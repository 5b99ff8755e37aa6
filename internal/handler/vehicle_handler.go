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

type VehicleHandler struct {
	vehicleService service.VehicleService
	authmw         *middleware.AuthMiddleware
}

func NewVehicleHandler(vehicleService service.VehicleService, authmw *middleware.AuthMiddleware) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService, authmw: authmw}
}

func (h *VehicleHandler) RegisterRoutes(router *gin.RouterGroup) {
	vehicles := router.Group("/vehicles", h.authmw.Authenticate())
	{
		vehicles.GET("", h.authmw.RequirePermission(auth.ResourceVehicles, auth.ActionRead), h.ListVehicles)
		vehicles.GET("/search", h.authmw.RequirePermission(auth.ResourceVehicles, auth.ActionRead), h.SearchVehicles)
		vehicles.GET("/makes", h.authmw.RequirePermission(auth.ResourceVehicles, auth.ActionRead), h.GetMakes)
		vehicles.GET("/:id", h.authmw.RequirePermission(auth.ResourceVehicles, auth.ActionRead), h.GetVehicleByID)
		vehicles.GET("/:id/history", h.authmw.RequirePermission(auth.ResourceVehicles, auth.ActionRead), h.GetVehicleHistory)
		vehicles.POST("", h.authmw.RequirePermission(auth.ResourceVehicles, auth.ActionCreate), h.CreateVehicle)
		vehicles.PUT("/:id", h.authmw.RequirePermission(auth.ResourceVehicles, auth.ActionUpdate), h.UpdateVehicle)
		vehicles.DELETE("/:id", h.authmw.RequirePermission(auth.ResourceVehicles, auth.ActionDelete), h.DeleteVehicle)
	}
}

// CreateVehicle registers a vehicle under a client
// @Summary      Create vehicle
// @Description  Registers a vehicle under an existing client
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateVehicleRequest  true  "Create Vehicle Payload"
// @Success      201      {object}  response.Response{data=service.VehicleResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/vehicles [post]
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req service.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vehicle))
}

// ListVehicles returns a paginated list of vehicles
// @Summary      List vehicles
// @Description  Retrieves a paginated list of vehicles, optionally filtered by search term or client
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        search     query     string  false  "Search by plate, make, model, or VIN"
// @Param        client_id  query     string  false  "Filter by owning client"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Success      200        {object}  response.Response{data=[]service.VehicleResponse}
// @Failure      500        {object}  response.Response
// @Router       /api/vehicles [get]
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	params := pagination.Parse(c)
	filters := repository.VehicleFilters{
		Search:   c.Query("search"),
		ClientID: c.Query("client_id"),
	}

	vehicles, total, err := h.vehicleService.ListVehicles(c.Request.Context(), filters, params.Offset, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch vehicles"))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, vehicles, params.Page, params.Limit, total))
}

// SearchVehicles performs a quick lookup for autocomplete widgets
// @Summary      Search vehicles
// @Description  Returns up to ten vehicles matching the query term
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search term"
// @Success      200  {object}  response.Response{data=[]service.VehicleResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/vehicles/search [get]
func (h *VehicleHandler) SearchVehicles(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing search term"))
		return
	}

	vehicles, err := h.vehicleService.SearchVehicles(c.Request.Context(), term)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Search failed"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicles))
}

// GetMakes lists the distinct vehicle makes on record
// @Summary      List vehicle makes
// @Description  Returns the distinct makes across all registered vehicles
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]string}
// @Failure      500  {object}  response.Response
// @Router       /api/vehicles/makes [get]
func (h *VehicleHandler) GetMakes(c *gin.Context) {
	makes, err := h.vehicleService.GetMakes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch makes"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, makes))
}

// GetVehicleByID fetches a single vehicle
// @Summary      Get vehicle by ID
// @Description  Fetch a single vehicle's detail by its UUID
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response{data=service.VehicleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/vehicles/{id} [get]
func (h *VehicleHandler) GetVehicleByID(c *gin.Context) {
	id := c.Param("id")

	vehicle, err := h.vehicleService.GetVehicleByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicle))
}

// GetVehicleHistory lists a vehicle's recent work orders
// @Summary      Get vehicle service history
// @Description  Lists a vehicle's work orders, most recent first
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Vehicle ID"
// @Param        limit  query     int     false  "Number of orders to return (default 10)"
// @Success      200    {object}  response.Response{data=[]model.WorkOrder}
// @Failure      404    {object}  response.Response
// @Router       /api/vehicles/{id}/history [get]
func (h *VehicleHandler) GetVehicleHistory(c *gin.Context) {
	id := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	history, err := h.vehicleService.GetVehicleHistory(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, history))
}

// UpdateVehicle updates a vehicle's details
// @Summary      Update vehicle
// @Description  Updates a vehicle's details
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Vehicle ID"
// @Param        payload  body      service.UpdateVehicleRequest  true  "Update Vehicle Payload"
// @Success      200      {object}  response.Response{data=service.VehicleResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/vehicles/{id} [put]
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, vehicle))
}

// DeleteVehicle soft deletes a vehicle
// @Summary      Delete vehicle
// @Description  Soft deletes a vehicle by ID
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vehicle ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/vehicles/{id} [delete]
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	id := c.Param("id")

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Vehicle deleted successfully"))
}
