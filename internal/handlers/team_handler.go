package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstage/groupstage-backend/internal/services"
)

// TeamHandler handles team related HTTP requests
type TeamHandler struct {
	teamService services.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound), errors.Is(err, services.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateTeamRequest is the payload for POST /teams
type CreateTeamRequest struct {
	GroupID   string   `json:"groupId" binding:"required"`
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"memberIds"`
}

// CreateTeam handles POST /teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	groupID, err := primitive.ObjectIDFromHex(req.GroupID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID format"})
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), groupID, req.Name, req.MemberIDs)
	if err != nil {
		respondTeamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// GetTeam handles GET /teams/:id
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), id)
	if err != nil {
		respondTeamError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// ListGroupTeams handles GET /groups/:id/teams
func (h *TeamHandler) ListGroupTeams(c *gin.Context) {
	groupID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	teams, err := h.teamService.ListGroupTeams(c.Request.Context(), groupID, page, limit)
	if err != nil {
		respondTeamError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// AddMemberRequest is the payload for POST /teams/:id/members
type AddMemberRequest struct {
	MemberID string `json:"memberId" binding:"required"`
}

// AddTeamMember handles POST /teams/:id/members
func (h *TeamHandler) AddTeamMember(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teamService.AddTeamMember(c.Request.Context(), id, req.MemberID)
	if err != nil {
		respondTeamError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// RemoveTeamMember handles DELETE /teams/:id/members/:memberId
func (h *TeamHandler) RemoveTeamMember(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	team, err := h.teamService.RemoveTeamMember(c.Request.Context(), id, c.Param("memberId"))
	if err != nil {
		respondTeamError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// DeleteTeam handles DELETE /teams/:id
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), id); err != nil {
		respondTeamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team deleted"})
}
