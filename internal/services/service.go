package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/groupstage/groupstage-backend/internal/lifecycle"
	"github.com/groupstage/groupstage-backend/internal/models"
)

// Sentinel errors the services surface so handlers can map them to HTTP
// status codes.
var (
	// ErrInvalidInput wraps validation failures on caller-supplied fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEventNotFound is returned when the addressed event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrGroupNotFound is returned when the addressed group does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrTeamNotFound is returned when the addressed team does not exist.
	ErrTeamNotFound = errors.New("team not found")

	// ErrTeamOutsideGroup is returned when a team belongs to a different
	// group than the event it was named for.
	ErrTeamOutsideGroup = errors.New("team belongs to a different group")

	// ErrEmailTaken is returned when registering with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CreateEventInput carries the fields accepted when creating a draft event.
type CreateEventInput struct {
	GroupID         primitive.ObjectID
	Title           string
	Description     string
	EventType       models.EventType
	JudgingCriteria map[string]interface{}
	CreatedBy       string
}

// ScheduleInput carries the schedule fields for an event. Backfill skips the
// past-start check so historical records can be entered after the fact.
type ScheduleInput struct {
	StartTime          time.Time
	EndTime            time.Time
	SubmissionDeadline *time.Time
	Backfill           bool
	Actor              string
}

// AccessControlInput carries the eligibility roster for an event. When
// Restricted is false the roster is cleared and the event is open to every
// team of its group.
type AccessControlInput struct {
	Restricted bool
	TeamIDs    []primitive.ObjectID
	Actor      string
}

// CloneEventInput carries the fields accepted when cloning an event.
type CloneEventInput struct {
	Title                 string
	Description           string
	PreserveSchedule      bool
	PreserveAccessControl bool
	Actor                 string
}

// SweepReport summarizes one auto-promotion sweep run.
type SweepReport struct {
	Examined  int `json:"examined"`
	Promoted  int `json:"promoted"`
	Conflicts int `json:"conflicts"`
	Errors    int `json:"errors"`
}

// EventService defines the interface for event lifecycle operations
type EventService interface {
	// CreateEvent creates a new draft event inside an existing group
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)

	// GetEvent retrieves an event by its ID
	GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error)

	// ListGroupEvents retrieves a group's events, optionally filtered by status
	ListGroupEvents(ctx context.Context, groupID primitive.ObjectID, status models.EventStatus, page, limit int) ([]*models.Event, error)

	// DeleteEvent removes an event
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error

	// ScheduleEvent sets the start/end/deadline times of an event
	ScheduleEvent(ctx context.Context, id primitive.ObjectID, input ScheduleInput) (*models.Event, error)

	// SetAccessControl replaces the eligibility roster of an event
	SetAccessControl(ctx context.Context, id primitive.ObjectID, input AccessControlInput) (*models.Event, error)

	// SetPrerequisites replaces the prerequisite list of an event
	SetPrerequisites(ctx context.Context, id primitive.ObjectID, prerequisiteIDs []primitive.ObjectID, actor string) (*models.Event, error)

	// RequestTransition moves an event to the target status
	RequestTransition(ctx context.Context, id primitive.ObjectID, target models.EventStatus, actor string) (*models.Event, error)

	// RecommendStatus reports the status an event's schedule calls for at the
	// given instant without persisting anything
	RecommendStatus(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.Event, models.EventStatus, error)

	// ResolveTeamEligibility decides whether a team may participate in an event
	ResolveTeamEligibility(ctx context.Context, eventID, teamID primitive.ObjectID) (*lifecycle.Eligibility, error)

	// CloneEvent creates a new draft event copied from an existing one
	CloneEvent(ctx context.Context, sourceID primitive.ObjectID, input CloneEventInput) (*models.Event, error)

	// SweepGroupEvents promotes one group's due scheduled/active events
	SweepGroupEvents(ctx context.Context, groupID primitive.ObjectID, now time.Time) (*SweepReport, error)

	// SweepDueEvents promotes due scheduled/active events across all groups
	SweepDueEvents(ctx context.Context, now time.Time) (*SweepReport, error)
}

// GroupService defines the interface for group operations
type GroupService interface {
	// CreateGroup creates a new active group
	CreateGroup(ctx context.Context, name, description, createdBy string) (*models.Group, error)

	// GetGroup retrieves a group by its ID
	GetGroup(ctx context.Context, id primitive.ObjectID) (*models.Group, error)

	// ListGroups retrieves groups with pagination
	ListGroups(ctx context.Context, page, limit int) ([]*models.Group, error)

	// ArchiveGroup marks a group as archived
	ArchiveGroup(ctx context.Context, id primitive.ObjectID) (*models.Group, error)
}

// TeamService defines the interface for team operations
type TeamService interface {
	// CreateTeam creates a new team inside an existing group
	CreateTeam(ctx context.Context, groupID primitive.ObjectID, name string, memberIDs []string) (*models.Team, error)

	// GetTeam retrieves a team by its ID
	GetTeam(ctx context.Context, id primitive.ObjectID) (*models.Team, error)

	// ListGroupTeams retrieves a group's teams with pagination
	ListGroupTeams(ctx context.Context, groupID primitive.ObjectID, page, limit int) ([]*models.Team, error)

	// AddTeamMember adds a member to a team's roster
	AddTeamMember(ctx context.Context, teamID primitive.ObjectID, memberID string) (*models.Team, error)

	// RemoveTeamMember removes a member from a team's roster
	RemoveTeamMember(ctx context.Context, teamID primitive.ObjectID, memberID string) (*models.Team, error)

	// DeleteTeam removes a team
	DeleteTeam(ctx context.Context, id primitive.ObjectID) error
}
