// Package lifecycle implements the event lifecycle engine: schedule
// validation, the status transition table, time-driven status
// recommendations, eligibility resolution and event cloning. Every function
// here is a pure function over event snapshots; callers persist the returned
// copies. The package never touches the store and never invents a clock.
package lifecycle

import (
	"time"

	"github.com/groupstage/groupstage-backend/internal/models"
)

// forwardChain is the monotonic status progression. Cancellation branches off
// this chain and is handled separately.
var forwardChain = []models.EventStatus{
	models.EventStatusDraft,
	models.EventStatusScheduled,
	models.EventStatusActive,
	models.EventStatusCompleted,
}

// Transition validates and applies a single status change, returning an
// updated copy of the event. Transitioning to the current status is a no-op
// success. A draft may only be scheduled once both start and end times are
// set and the schedule validates.
func Transition(event models.Event, target models.EventStatus) (models.Event, error) {
	if target == event.Status {
		return event, nil
	}
	if !transitionAllowed(event.Status, target) {
		return models.Event{}, &InvalidTransitionError{From: event.Status, To: target}
	}
	if target == models.EventStatusScheduled {
		if event.StartTime == nil || event.EndTime == nil {
			return models.Event{}, &ScheduleError{Reason: "start and end times must be set before scheduling"}
		}
		if err := ValidateSchedule(event.StartTime, event.EndTime, event.SubmissionDeadline); err != nil {
			return models.Event{}, err
		}
	}

	updated := event
	updated.Status = target
	return updated, nil
}

// transitionAllowed reports whether the status change is in the transition
// table. Cancellation is reachable from every non-terminal status; the
// forward chain only advances one step at a time.
func transitionAllowed(from, to models.EventStatus) bool {
	if to == models.EventStatusCancelled {
		return !from.Terminal()
	}
	switch from {
	case models.EventStatusDraft:
		return to == models.EventStatusScheduled
	case models.EventStatusScheduled:
		return to == models.EventStatusActive
	case models.EventStatusActive:
		return to == models.EventStatusCompleted
	default:
		return false
	}
}

// Advance applies forward transitions one step at a time until the event
// reaches target, returning the final copy. This is how callers apply an
// AppropriateStatus recommendation that is more than one step ahead, e.g. a
// scheduled event whose end time has already passed completes by logically
// passing through active. Cancellation and backward moves are rejected.
func Advance(event models.Event, target models.EventStatus) (models.Event, error) {
	from := chainIndex(event.Status)
	to := chainIndex(target)
	if from < 0 || to < 0 || to < from {
		return models.Event{}, &InvalidTransitionError{From: event.Status, To: target}
	}

	updated := event
	for _, step := range forwardChain[from+1 : to+1] {
		var err error
		updated, err = Transition(updated, step)
		if err != nil {
			return models.Event{}, err
		}
	}
	return updated, nil
}

func chainIndex(status models.EventStatus) int {
	for i, s := range forwardChain {
		if s == status {
			return i
		}
	}
	return -1
}

// AppropriateStatus recommends the status an event should hold at the given
// instant, derived purely from its current status and schedule. It never
// recommends cancellation or a backward move, and it never promotes a draft:
// leaving draft requires an operator-supplied schedule. Callers apply the
// recommendation through Transition or Advance and persist the result.
func AppropriateStatus(event models.Event, now time.Time) models.EventStatus {
	switch event.Status {
	case models.EventStatusScheduled:
		if event.EndTime != nil && !now.Before(*event.EndTime) {
			return models.EventStatusCompleted
		}
		if event.StartTime != nil && event.EndTime != nil &&
			!now.Before(*event.StartTime) && now.Before(*event.EndTime) {
			return models.EventStatusActive
		}
	case models.EventStatusActive:
		if event.EndTime != nil && !now.Before(*event.EndTime) {
			return models.EventStatusCompleted
		}
	}
	return event.Status
}
