package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/groupstage/groupstage-backend/internal/models"
)

// ErrTerminalState is returned when a schedule or status mutation is
// attempted on a completed or cancelled event.
var ErrTerminalState = errors.New("event is in a terminal state")

// ScheduleError reports an invalid relationship between the schedule instants
// of an event.
type ScheduleError struct {
	Reason string
}

func (e *ScheduleError) Error() string {
	return "invalid schedule: " + e.Reason
}

// InvalidTransitionError reports a status change that the transition table
// does not permit.
type InvalidTransitionError struct {
	From models.EventStatus
	To   models.EventStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// CyclicPrerequisiteError reports that the prerequisite graph revisits an
// event. Path holds the hex event ids along the offending chain, ending at
// the repeated id.
type CyclicPrerequisiteError struct {
	Path []string
}

func (e *CyclicPrerequisiteError) Error() string {
	return "cyclic prerequisite chain: " + strings.Join(e.Path, " -> ")
}
