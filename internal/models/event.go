package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventStatus represents the lifecycle status of an event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusScheduled EventStatus = "SCHEDULED"
	EventStatusActive    EventStatus = "ACTIVE"
	EventStatusCompleted EventStatus = "COMPLETED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// Terminal reports whether an event in this status accepts no further
// status or schedule changes.
func (s EventStatus) Terminal() bool {
	return s == EventStatusCompleted || s == EventStatusCancelled
}

// ValidEventStatus reports whether s is one of the known lifecycle statuses.
func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventStatusDraft, EventStatusScheduled, EventStatusActive,
		EventStatusCompleted, EventStatusCancelled:
		return true
	default:
		return false
	}
}

// EventType represents the kind of event
type EventType string

const (
	EventTypeCompetition EventType = "COMPETITION"
	EventTypeChallenge   EventType = "CHALLENGE"
	EventTypeSurvey      EventType = "SURVEY"
)

// ValidEventType reports whether t is one of the known event types.
func ValidEventType(t EventType) bool {
	switch t {
	case EventTypeCompetition, EventTypeChallenge, EventTypeSurvey:
		return true
	default:
		return false
	}
}

// PrerequisitesCriteriaKey is the reserved key inside the judging criteria
// map under which the prerequisite event-id list is persisted.
const PrerequisitesCriteriaKey = "prerequisites"

// Event represents a time-boxed competitive event owned by a group
type Event struct {
	ID                 primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	GroupID            primitive.ObjectID     `bson:"groupId" json:"groupId"`
	Title              string                 `bson:"title" json:"title"`
	Description        string                 `bson:"description,omitempty" json:"description,omitempty"`
	EventType          EventType              `bson:"eventType" json:"eventType"`
	Status             EventStatus            `bson:"status" json:"status"`
	StartTime          *time.Time             `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime            *time.Time             `bson:"endTime,omitempty" json:"endTime,omitempty"`
	SubmissionDeadline *time.Time             `bson:"submissionDeadline,omitempty" json:"submissionDeadline,omitempty"`
	EligibleTeamIDs    []primitive.ObjectID   `bson:"eligibleTeamIds,omitempty" json:"eligibleTeamIds,omitempty"`
	JudgingCriteria    map[string]interface{} `bson:"judgingCriteria,omitempty" json:"judgingCriteria,omitempty"`
	// PrerequisiteEventIDs is the typed view of the prerequisite list. It is
	// not persisted directly: repositories fold it into JudgingCriteria under
	// PrerequisitesCriteriaKey on write and extract it back on read.
	PrerequisiteEventIDs []primitive.ObjectID `bson:"-" json:"prerequisiteEventIds,omitempty"`
	CreatedBy            string               `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Restricted reports whether the event limits participation to an explicit
// set of teams. An empty or nil set means the event is open to every team
// of the group.
func (e *Event) Restricted() bool {
	return len(e.EligibleTeamIDs) > 0
}

// FoldPrerequisites writes PrerequisiteEventIDs into the judging criteria map
// as a list of hex id strings. An empty list removes the reserved key, which
// is the persisted form of "no prerequisites".
func (e *Event) FoldPrerequisites() {
	if len(e.PrerequisiteEventIDs) == 0 {
		delete(e.JudgingCriteria, PrerequisitesCriteriaKey)
		return
	}
	if e.JudgingCriteria == nil {
		e.JudgingCriteria = make(map[string]interface{})
	}
	ids := make([]string, 0, len(e.PrerequisiteEventIDs))
	for _, id := range e.PrerequisiteEventIDs {
		ids = append(ids, id.Hex())
	}
	e.JudgingCriteria[PrerequisitesCriteriaKey] = ids
}

// ExtractPrerequisites parses the reserved criteria key back into
// PrerequisiteEventIDs. The value arrives as primitive.A from the MongoDB
// driver, as []interface{} from JSON, or as []string from untouched
// in-process records; entries that are not valid hex object ids are skipped
// rather than failing the whole document. A missing key means no
// prerequisites.
func (e *Event) ExtractPrerequisites() {
	e.PrerequisiteEventIDs = nil
	raw, ok := e.JudgingCriteria[PrerequisitesCriteriaKey]
	if !ok {
		return
	}

	var items []interface{}
	switch v := raw.(type) {
	case primitive.A:
		items = v
	case []interface{}:
		items = v
	case []string:
		items = make([]interface{}, 0, len(v))
		for _, s := range v {
			items = append(items, s)
		}
	default:
		return
	}

	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			continue
		}
		e.PrerequisiteEventIDs = append(e.PrerequisiteEventIDs, id)
	}
}
