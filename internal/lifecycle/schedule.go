package lifecycle

import "time"

// ValidateSchedule checks the time ordering of an event schedule. All three
// instants are optional; only the relationships between the ones present are
// checked, first failure wins:
//
//   - end must be strictly after start when both are set
//   - the submission deadline must fall within [start, end] when set
//
// Past instants are deliberately allowed so that backfilled records validate;
// rejecting a start time earlier than "now" is a caller policy on interactive
// scheduling, not part of this function.
func ValidateSchedule(start, end, deadline *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return &ScheduleError{Reason: "end time must be after start time"}
	}
	if deadline != nil {
		if start != nil && deadline.Before(*start) {
			return &ScheduleError{Reason: "submission deadline must not be before start time"}
		}
		if end != nil && deadline.After(*end) {
			return &ScheduleError{Reason: "submission deadline must not be after end time"}
		}
	}
	return nil
}
