package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstage/groupstage-backend/internal/lifecycle"
	"github.com/groupstage/groupstage-backend/internal/models"
	"github.com/groupstage/groupstage-backend/internal/repositories"
	"github.com/groupstage/groupstage-backend/internal/services"
)

// EventHandler handles event lifecycle HTTP requests
type EventHandler struct {
	eventService services.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// objectIDParam parses a path parameter as an object id, answering 400 itself
// when the value is malformed.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseObjectIDs(values []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// respondEventError maps service and lifecycle errors to HTTP status codes.
// Validation problems answer 400, missing records 404, and state problems
// (illegal transitions, cycles, terminal events, lost races) 409.
func respondEventError(c *gin.Context, err error) {
	var schedErr *lifecycle.ScheduleError
	var invalidErr *lifecycle.InvalidTransitionError
	var cycleErr *lifecycle.CyclicPrerequisiteError

	switch {
	case errors.Is(err, services.ErrEventNotFound), errors.Is(err, services.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTeamOutsideGroup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &schedErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &invalidErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "from": invalidErr.From, "to": invalidErr.To})
	case errors.As(err, &cycleErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "path": cycleErr.Path})
	case errors.Is(err, lifecycle.ErrTerminalState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateEventRequest is the payload for POST /events
type CreateEventRequest struct {
	GroupID         string                 `json:"groupId" binding:"required"`
	Title           string                 `json:"title" binding:"required"`
	Description     string                 `json:"description"`
	EventType       string                 `json:"eventType" binding:"required"`
	JudgingCriteria map[string]interface{} `json:"judgingCriteria"`
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	groupID, err := primitive.ObjectIDFromHex(req.GroupID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID format"})
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), services.CreateEventInput{
		GroupID:         groupID,
		Title:           req.Title,
		Description:     req.Description,
		EventType:       models.EventType(req.EventType),
		JudgingCriteria: req.JudgingCriteria,
		CreatedBy:       c.GetString("userEmail"),
	})
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEvent handles GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListGroupEvents handles GET /groups/:id/events
func (h *EventHandler) ListGroupEvents(c *gin.Context) {
	groupID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := models.EventStatus(c.Query("status"))

	events, err := h.eventService.ListGroupEvents(c.Request.Context(), groupID, status, page, limit)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// DeleteEvent handles DELETE /events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.DeleteEvent(c.Request.Context(), id); err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// ScheduleEventRequest is the payload for PUT /events/:id/schedule.
// Timestamps are RFC3339.
type ScheduleEventRequest struct {
	StartTime          string `json:"startTime" binding:"required"`
	EndTime            string `json:"endTime" binding:"required"`
	SubmissionDeadline string `json:"submissionDeadline"`
	Backfill           bool   `json:"backfill"`
}

// ScheduleEvent handles PUT /events/:id/schedule
func (h *EventHandler) ScheduleEvent(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req ScheduleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startTime (RFC3339 expected)"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endTime (RFC3339 expected)"})
		return
	}
	input := services.ScheduleInput{
		StartTime: start,
		EndTime:   end,
		Backfill:  req.Backfill,
		Actor:     c.GetString("userEmail"),
	}
	if req.SubmissionDeadline != "" {
		deadline, err := time.Parse(time.RFC3339, req.SubmissionDeadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submissionDeadline (RFC3339 expected)"})
			return
		}
		input.SubmissionDeadline = &deadline
	}

	event, err := h.eventService.ScheduleEvent(c.Request.Context(), id, input)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// AccessControlRequest is the payload for PUT /events/:id/access-control
type AccessControlRequest struct {
	Restricted bool     `json:"restricted"`
	TeamIDs    []string `json:"teamIds"`
}

// SetAccessControl handles PUT /events/:id/access-control
func (h *EventHandler) SetAccessControl(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req AccessControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	teamIDs, err := parseObjectIDs(req.TeamIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.SetAccessControl(c.Request.Context(), id, services.AccessControlInput{
		Restricted: req.Restricted,
		TeamIDs:    teamIDs,
		Actor:      c.GetString("userEmail"),
	})
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// PrerequisitesRequest is the payload for PUT /events/:id/prerequisites
type PrerequisitesRequest struct {
	PrerequisiteEventIDs []string `json:"prerequisiteEventIds"`
}

// SetPrerequisites handles PUT /events/:id/prerequisites
func (h *EventHandler) SetPrerequisites(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req PrerequisitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prerequisiteIDs, err := parseObjectIDs(req.PrerequisiteEventIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.SetPrerequisites(c.Request.Context(), id, prerequisiteIDs, c.GetString("userEmail"))
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// TransitionRequest is the payload for POST /events/:id/transition
type TransitionRequest struct {
	TargetStatus string `json:"targetStatus" binding:"required"`
}

// RequestTransition handles POST /events/:id/transition
func (h *EventHandler) RequestTransition(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.RequestTransition(c.Request.Context(), id, models.EventStatus(req.TargetStatus), c.GetString("userEmail"))
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// RecommendStatus handles GET /events/:id/recommended-status. An optional
// "at" query (RFC3339) probes another instant than now.
func (h *EventHandler) RecommendStatus(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	at := time.Now()
	if q := c.Query("at"); q != "" {
		parsed, err := time.Parse(time.RFC3339, q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid at (RFC3339 expected)"})
			return
		}
		at = parsed
	}

	event, recommended, err := h.eventService.RecommendStatus(c.Request.Context(), id, at)
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"eventId":           event.ID.Hex(),
		"status":            event.Status,
		"recommendedStatus": recommended,
	})
}

// CloneEventRequest is the payload for POST /events/:id/clone
type CloneEventRequest struct {
	Title                 string `json:"title" binding:"required"`
	Description           string `json:"description"`
	PreserveSchedule      bool   `json:"preserveSchedule"`
	PreserveAccessControl bool   `json:"preserveAccessControl"`
}

// CloneEvent handles POST /events/:id/clone
func (h *EventHandler) CloneEvent(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req CloneEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clone, err := h.eventService.CloneEvent(c.Request.Context(), id, services.CloneEventInput{
		Title:                 req.Title,
		Description:           req.Description,
		PreserveSchedule:      req.PreserveSchedule,
		PreserveAccessControl: req.PreserveAccessControl,
		Actor:                 c.GetString("userEmail"),
	})
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusCreated, clone)
}

// TeamEligibility handles GET /events/:id/eligibility/:teamId
func (h *EventHandler) TeamEligibility(c *gin.Context) {
	eventID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	teamID, err := primitive.ObjectIDFromHex(c.Param("teamId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID format"})
		return
	}

	eligibility, err := h.eventService.ResolveTeamEligibility(c.Request.Context(), eventID, teamID)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, eligibility)
}

// SweepRequest is the payload for POST /events/sweep. With no groupId the
// sweep covers every group.
type SweepRequest struct {
	GroupID string `json:"groupId"`
}

// Sweep handles POST /events/sweep
func (h *EventHandler) Sweep(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var report *services.SweepReport
	var err error
	if req.GroupID != "" {
		groupID, parseErr := primitive.ObjectIDFromHex(req.GroupID)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID format"})
			return
		}
		report, err = h.eventService.SweepGroupEvents(c.Request.Context(), groupID, time.Now())
	} else {
		report, err = h.eventService.SweepDueEvents(c.Request.Context(), time.Now())
	}
	if err != nil {
		respondEventError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
