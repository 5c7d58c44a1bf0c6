package lifecycle

import (
	"time"

	"github.com/groupstage/groupstage-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CloneOptions controls which parts of the source event a clone carries.
type CloneOptions struct {
	Title                 string
	Description           string
	CreatedBy             string
	PreserveSchedule      bool
	PreserveAccessControl bool
}

// CloneEvent builds a new draft record from an existing event. The clone gets
// a fresh id, draft status, the caller as creator and fresh timestamps; the
// event type and the non-prerequisite judging criteria are copied verbatim.
// Prerequisites are never copied so a clone always starts ungated.
// PreserveSchedule carries the three time fields over unchanged (a draft may
// legally hold a schedule); PreserveAccessControl carries the eligible-team
// set. Nothing is persisted here.
func CloneEvent(source models.Event, opts CloneOptions, now time.Time) models.Event {
	clone := models.Event{
		ID:          primitive.NewObjectID(),
		GroupID:     source.GroupID,
		Title:       opts.Title,
		Description: opts.Description,
		EventType:   source.EventType,
		Status:      models.EventStatusDraft,
		CreatedBy:   opts.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if len(source.JudgingCriteria) > 0 {
		criteria := make(map[string]interface{}, len(source.JudgingCriteria))
		for key, value := range source.JudgingCriteria {
			if key == models.PrerequisitesCriteriaKey {
				continue
			}
			criteria[key] = value
		}
		if len(criteria) > 0 {
			clone.JudgingCriteria = criteria
		}
	}

	if opts.PreserveSchedule {
		clone.StartTime = copyTime(source.StartTime)
		clone.EndTime = copyTime(source.EndTime)
		clone.SubmissionDeadline = copyTime(source.SubmissionDeadline)
	}
	if opts.PreserveAccessControl && len(source.EligibleTeamIDs) > 0 {
		clone.EligibleTeamIDs = append([]primitive.ObjectID(nil), source.EligibleTeamIDs...)
	}

	return clone
}

// copyTime clones an optional instant so the new record never aliases the
// source's pointers.
func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
