package controller

import (
	"fantasy/internal/fantasy/model"
	"fantasy/internal/fantasy/service"
	"fantasy/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// CountryController handles country HTTP endpoints.
type CountryController struct {
	countryService *service.CountryService
}

// NewCountryController creates a new CountryController.
func NewCountryController(countryService *service.CountryService) *CountryController {
	return &CountryController{countryService: countryService}
}

// GetAll returns every country with its teams.
func (h *CountryController) GetAll(c *gin.Context) {
	countries, err := h.countryService.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, countries)
}

// Get returns one country with its teams.
func (h *CountryController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid country id")
		return
	}
	country, err := h.countryService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, country)
}

// GetPaginated returns one page of countries.
func (h *CountryController) GetPaginated(c *gin.Context) {
	pagination, ok := bindPagination(c)
	if !ok {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	countries, err := h.countryService.GetPaginated(c.Request.Context(), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, countries)
}

// GetTotalRecords returns the number of countries matching the filter.
func (h *CountryController) GetTotalRecords(c *gin.Context) {
	pagination, ok := bindPagination(c)
	if !ok {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	total, err := h.countryService.GetTotalRecords(c.Request.Context(), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, total)
}

// GetCombo returns id/name pairs of every country.
func (h *CountryController) GetCombo(c *gin.Context) {
	combo, err := h.countryService.GetCombo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, combo)
}

// Create handles country creation.
func (h *CountryController) Create(c *gin.Context) {
	var req CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	country, err := h.countryService.Create(c.Request.Context(), &model.Country{Name: req.Name})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, country)
}

// Update handles country rename.
func (h *CountryController) Update(c *gin.Context) {
	var req CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	country, err := h.countryService.Update(c.Request.Context(), &model.Country{ID: req.ID, Name: req.Name})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, country)
}

// Delete handles country deletion.
func (h *CountryController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid country id")
		return
	}
	if err := h.countryService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "Delete success", nil)
}

// CountryRequest defines the country write payload.
type CountryRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
