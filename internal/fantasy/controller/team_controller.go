package controller

import (
	"strconv"

	"fantasy/internal/fantasy/model"
	"fantasy/internal/fantasy/service"
	"fantasy/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// TeamController handles team HTTP endpoints.
type TeamController struct {
	teamService *service.TeamService
}

// NewTeamController creates a new TeamController.
func NewTeamController(teamService *service.TeamService) *TeamController {
	return &TeamController{teamService: teamService}
}

func (h *TeamController) GetAll(c *gin.Context) {
	teams, err := h.teamService.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, teams)
}

func (h *TeamController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid team id")
		return
	}
	team, err := h.teamService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, team)
}

// GetPaginated returns one page of teams; the filter matches the country name.
func (h *TeamController) GetPaginated(c *gin.Context) {
	pagination, ok := bindPagination(c)
	if !ok {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	teams, err := h.teamService.GetPaginated(c.Request.Context(), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, teams)
}

func (h *TeamController) GetTotalRecords(c *gin.Context) {
	pagination, ok := bindPagination(c)
	if !ok {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	total, err := h.teamService.GetTotalRecords(c.Request.Context(), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, total)
}

// GetCombo returns the teams of a country, taken from the path or the
// countryId query parameter.
func (h *TeamController) GetCombo(c *gin.Context) {
	raw := c.Param("countryId")
	if raw == "" {
		raw = c.Query("countryId")
	}
	countryID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || countryID <= 0 {
		response.BadRequest(c, "Invalid country id")
		return
	}
	combo, err := h.teamService.GetCombo(c.Request.Context(), countryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, combo)
}

// Create inserts a team whose image is already a stored locator.
func (h *TeamController) Create(c *gin.Context) {
	var req model.Team
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	team, err := h.teamService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, team)
}

func (h *TeamController) Update(c *gin.Context) {
	var req model.Team
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	team, err := h.teamService.Update(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, team)
}

// AddFull creates a team from a DTO carrying a base64 image.
func (h *TeamController) AddFull(c *gin.Context) {
	var req model.TeamDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	team, err := h.teamService.AddFull(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, team)
}

// UpdateFull updates a team from a DTO; an omitted image keeps the stored one.
func (h *TeamController) UpdateFull(c *gin.Context) {
	var req model.TeamDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}
	team, err := h.teamService.UpdateFull(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, team)
}

func (h *TeamController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid team id")
		return
	}
	if err := h.teamService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "Delete success", nil)
}
