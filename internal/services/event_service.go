package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/groupstage/groupstage-backend/internal/lifecycle"
	"github.com/groupstage/groupstage-backend/internal/metrics"
	"github.com/groupstage/groupstage-backend/internal/models"
	"github.com/groupstage/groupstage-backend/internal/repositories"
)

// maxTransitionRetries bounds the re-read/recompute/reapply loop run after a
// versioned write loses a race. The final failure surfaces as ErrConflict.
const maxTransitionRetries = 3

// Compile-time check to ensure EventServiceImpl implements EventService
var _ EventService = (*EventServiceImpl)(nil)

// EventServiceImpl handles event lifecycle business logic
type EventServiceImpl struct {
	eventRepo    repositories.EventRepository
	groupRepo    repositories.GroupRepository
	teamRepo     repositories.TeamRepository
	sweepMetrics *metrics.SweepMetrics
	now          func() time.Time
}

// NewEventService creates a new EventServiceImpl. sweepMetrics may be nil when
// no registry is wired (scripts, tests); now defaults to time.Now.
func NewEventService(
	eventRepo repositories.EventRepository,
	groupRepo repositories.GroupRepository,
	teamRepo repositories.TeamRepository,
	sweepMetrics *metrics.SweepMetrics,
	now func() time.Time,
) *EventServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &EventServiceImpl{
		eventRepo:    eventRepo,
		groupRepo:    groupRepo,
		teamRepo:     teamRepo,
		sweepMetrics: sweepMetrics,
		now:          now,
	}
}

// CreateEvent creates a draft event with no schedule inside an existing group.
func (s *EventServiceImpl) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !models.ValidEventType(input.EventType) {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, input.EventType)
	}

	group, err := s.groupRepo.FindByID(ctx, input.GroupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	if group.Status == models.GroupStatusArchived {
		return nil, fmt.Errorf("%w: group is archived", ErrInvalidInput)
	}

	// Prerequisites are managed through SetPrerequisites only; the reserved
	// criteria key is never accepted from callers.
	delete(input.JudgingCriteria, models.PrerequisitesCriteriaKey)

	event := &models.Event{
		GroupID:         input.GroupID,
		Title:           input.Title,
		Description:     input.Description,
		EventType:       input.EventType,
		Status:          models.EventStatusDraft,
		JudgingCriteria: input.JudgingCriteria,
		CreatedBy:       input.CreatedBy,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	slog.Info("event created", "eventId", event.ID.Hex(), "groupId", event.GroupID.Hex(), "createdBy", event.CreatedBy)
	return event, nil
}

// GetEvent retrieves an event by its ID.
func (s *EventServiceImpl) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	return s.loadEvent(ctx, id)
}

// ListGroupEvents retrieves a group's events, newest first, optionally
// filtered by status.
func (s *EventServiceImpl) ListGroupEvents(ctx context.Context, groupID primitive.ObjectID, status models.EventStatus, page, limit int) ([]*models.Event, error) {
	if status != "" && !models.ValidEventStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	events, err := s.eventRepo.FindByGroup(ctx, groupID, status, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// DeleteEvent removes an event. Terminal statuses forbid further status and
// schedule changes but not deletion.
func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.loadEvent(ctx, id); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	slog.Info("event deleted", "eventId", id.Hex())
	return nil
}

// ScheduleEvent sets the start/end/deadline times of an event. The status is
// not changed here; promoting a draft to SCHEDULED is a separate transition.
// Start times in the past are rejected unless the input is marked as a
// backfill of a historical record.
func (s *EventServiceImpl) ScheduleEvent(ctx context.Context, id primitive.ObjectID, input ScheduleInput) (*models.Event, error) {
	if err := lifecycle.ValidateSchedule(&input.StartTime, &input.EndTime, input.SubmissionDeadline); err != nil {
		return nil, err
	}
	if !input.Backfill && input.StartTime.Before(s.now()) {
		return nil, &lifecycle.ScheduleError{Reason: "start time is in the past"}
	}

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		event, err := s.loadEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		if event.Status.Terminal() {
			return nil, lifecycle.ErrTerminalState
		}

		token := event.UpdatedAt
		start := input.StartTime
		end := input.EndTime
		event.StartTime = &start
		event.EndTime = &end
		if input.SubmissionDeadline != nil {
			deadline := *input.SubmissionDeadline
			event.SubmissionDeadline = &deadline
		} else {
			event.SubmissionDeadline = nil
		}

		err = s.eventRepo.UpdateVersioned(ctx, event, token)
		if errors.Is(err, repositories.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save schedule: %w", err)
		}
		slog.Info("event schedule updated", "eventId", id.Hex(), "actor", input.Actor)
		return event, nil
	}
	return nil, repositories.ErrConflict
}

// SetAccessControl replaces the eligibility roster of an event. Every named
// team must exist and belong to the event's group.
func (s *EventServiceImpl) SetAccessControl(ctx context.Context, id primitive.ObjectID, input AccessControlInput) (*models.Event, error) {
	teamIDs := dedupeIDs(input.TeamIDs)
	if input.Restricted && len(teamIDs) == 0 {
		// A restricted event with no roster would read back as open.
		return nil, fmt.Errorf("%w: a restricted event needs at least one team", ErrInvalidInput)
	}

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		event, err := s.loadEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		if event.Status.Terminal() {
			return nil, lifecycle.ErrTerminalState
		}

		if input.Restricted {
			if err := s.verifyTeamsInGroup(ctx, event.GroupID, teamIDs); err != nil {
				return nil, err
			}
		}

		token := event.UpdatedAt
		if input.Restricted {
			event.EligibleTeamIDs = append([]primitive.ObjectID{}, teamIDs...)
		} else {
			event.EligibleTeamIDs = nil
		}

		err = s.eventRepo.UpdateVersioned(ctx, event, token)
		if errors.Is(err, repositories.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save access control: %w", err)
		}
		slog.Info("event access control updated", "eventId", id.Hex(), "restricted", input.Restricted, "teams", len(event.EligibleTeamIDs), "actor", input.Actor)
		return event, nil
	}
	return nil, repositories.ErrConflict
}

// SetPrerequisites replaces the prerequisite list of an event. Prerequisites
// must exist in the same group, and the resulting dependency graph must stay
// acyclic.
func (s *EventServiceImpl) SetPrerequisites(ctx context.Context, id primitive.ObjectID, prerequisiteIDs []primitive.ObjectID, actor string) (*models.Event, error) {
	prerequisiteIDs = dedupeIDs(prerequisiteIDs)
	for _, pid := range prerequisiteIDs {
		if pid == id {
			return nil, &lifecycle.CyclicPrerequisiteError{Path: []string{id.Hex(), id.Hex()}}
		}
	}

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		event, err := s.loadEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		if event.Status.Terminal() {
			return nil, lifecycle.ErrTerminalState
		}

		for _, pid := range prerequisiteIDs {
			prereq, err := s.eventRepo.FindByID(ctx, pid)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return nil, fmt.Errorf("%w: prerequisite event %s not found", ErrInvalidInput, pid.Hex())
				}
				return nil, fmt.Errorf("failed to load prerequisite event: %w", err)
			}
			if prereq.GroupID != event.GroupID {
				return nil, fmt.Errorf("%w: prerequisite event %s belongs to a different group", ErrInvalidInput, pid.Hex())
			}
		}

		if err := s.checkPrerequisiteCycle(ctx, id, prerequisiteIDs); err != nil {
			return nil, err
		}

		token := event.UpdatedAt
		event.PrerequisiteEventIDs = append([]primitive.ObjectID{}, prerequisiteIDs...)

		err = s.eventRepo.UpdateVersioned(ctx, event, token)
		if errors.Is(err, repositories.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save prerequisites: %w", err)
		}
		slog.Info("event prerequisites updated", "eventId", id.Hex(), "count", len(prerequisiteIDs), "actor", actor)
		return event, nil
	}
	return nil, repositories.ErrConflict
}

// RequestTransition moves an event to the target status, enforcing the
// lifecycle rules. Lost races are retried against a fresh snapshot a bounded
// number of times.
func (s *EventServiceImpl) RequestTransition(ctx context.Context, id primitive.ObjectID, target models.EventStatus, actor string) (*models.Event, error) {
	if !models.ValidEventStatus(target) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, target)
	}

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		event, err := s.loadEvent(ctx, id)
		if err != nil {
			return nil, err
		}

		updated, err := lifecycle.Transition(*event, target)
		if err != nil {
			return nil, err
		}
		if updated.Status == event.Status {
			// Already there; nothing to persist.
			return event, nil
		}

		err = s.eventRepo.UpdateVersioned(ctx, &updated, event.UpdatedAt)
		if errors.Is(err, repositories.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save transition: %w", err)
		}
		slog.Info("event status changed", "eventId", id.Hex(), "from", event.Status, "to", updated.Status, "actor", actor)
		return &updated, nil
	}
	return nil, repositories.ErrConflict
}

// RecommendStatus reports the status the event's schedule calls for at the
// given instant. Nothing is persisted.
func (s *EventServiceImpl) RecommendStatus(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.Event, models.EventStatus, error) {
	event, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return event, lifecycle.AppropriateStatus(*event, now), nil
}

// ResolveTeamEligibility decides whether a team may participate in an event.
// The team must exist and belong to the event's group; prerequisite statuses
// are fetched for the event's direct prerequisites, with missing records
// counting as incomplete.
func (s *EventServiceImpl) ResolveTeamEligibility(ctx context.Context, eventID, teamID primitive.ObjectID) (*lifecycle.Eligibility, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if team.GroupID != event.GroupID {
		return nil, ErrTeamOutsideGroup
	}

	// Guard against cycles written before the prerequisite check existed;
	// without this a corrupt chain would gate the team forever.
	if err := s.checkPrerequisiteCycle(ctx, eventID, event.PrerequisiteEventIDs); err != nil {
		return nil, err
	}

	statuses := make(map[string]models.EventStatus, len(event.PrerequisiteEventIDs))
	for _, pid := range event.PrerequisiteEventIDs {
		prereq, err := s.eventRepo.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return nil, fmt.Errorf("failed to load prerequisite event: %w", err)
		}
		statuses[pid.Hex()] = prereq.Status
	}

	eligibility := lifecycle.ResolveEligibility(*event, teamID, statuses)
	return &eligibility, nil
}

// CloneEvent creates a new draft event copied from an existing one and
// persists it.
func (s *EventServiceImpl) CloneEvent(ctx context.Context, sourceID primitive.ObjectID, input CloneEventInput) (*models.Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	source, err := s.loadEvent(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	clone := lifecycle.CloneEvent(*source, lifecycle.CloneOptions{
		Title:                 input.Title,
		Description:           input.Description,
		CreatedBy:             input.Actor,
		PreserveSchedule:      input.PreserveSchedule,
		PreserveAccessControl: input.PreserveAccessControl,
	}, s.now())

	if err := s.eventRepo.Create(ctx, &clone); err != nil {
		return nil, fmt.Errorf("failed to create clone: %w", err)
	}
	slog.Info("event cloned", "sourceId", sourceID.Hex(), "cloneId", clone.ID.Hex(), "actor", input.Actor)
	return &clone, nil
}

// SweepGroupEvents promotes one group's due scheduled/active events.
func (s *EventServiceImpl) SweepGroupEvents(ctx context.Context, groupID primitive.ObjectID, now time.Time) (*SweepReport, error) {
	return s.sweep(ctx, groupID, now)
}

// SweepDueEvents promotes due scheduled/active events across all groups.
func (s *EventServiceImpl) SweepDueEvents(ctx context.Context, now time.Time) (*SweepReport, error) {
	return s.sweep(ctx, primitive.NilObjectID, now)
}

func (s *EventServiceImpl) sweep(ctx context.Context, groupID primitive.ObjectID, now time.Time) (*SweepReport, error) {
	started := time.Now()
	report := &SweepReport{}
	statuses := []models.EventStatus{models.EventStatusScheduled, models.EventStatusActive}

	handle := func(event models.Event) error {
		report.Examined++
		if err := s.promoteEvent(ctx, event, now, report); err != nil {
			// One stuck event must not abort the whole sweep.
			slog.Error("failed to promote event", "eventId", event.ID.Hex(), "error", err)
			report.Errors++
			s.sweepMetrics.ObserveError()
		}
		return nil
	}

	var err error
	if groupID.IsZero() {
		err = s.eventRepo.StreamByStatuses(ctx, statuses, handle)
	} else {
		err = s.eventRepo.StreamByGroupAndStatuses(ctx, groupID, statuses, handle)
	}
	if err != nil {
		return report, fmt.Errorf("failed to stream events: %w", err)
	}

	s.sweepMetrics.ObserveSweep(time.Since(started), report.Examined)
	slog.Info("sweep finished", "examined", report.Examined, "promoted", report.Promoted, "conflicts", report.Conflicts, "errors", report.Errors)
	return report, nil
}

// promoteEvent applies the schedule-implied status to one event. A schedule
// that has fully elapsed can call for more than one step forward; the steps
// are taken in memory and persisted as a single versioned write.
func (s *EventServiceImpl) promoteEvent(ctx context.Context, snapshot models.Event, now time.Time, report *SweepReport) error {
	event := &snapshot
	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		target := lifecycle.AppropriateStatus(*event, now)
		if target == event.Status {
			return nil
		}

		from := event.Status
		updated, err := lifecycle.Advance(*event, target)
		if err != nil {
			return err
		}

		err = s.eventRepo.UpdateVersioned(ctx, &updated, event.UpdatedAt)
		if errors.Is(err, repositories.ErrConflict) {
			report.Conflicts++
			s.sweepMetrics.ObserveConflict()
			event, err = s.loadEvent(ctx, event.ID)
			if err != nil {
				if errors.Is(err, ErrEventNotFound) {
					// Deleted while sweeping; nothing left to promote.
					return nil
				}
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		report.Promoted++
		s.sweepMetrics.ObservePromotion(from, updated.Status)
		slog.Info("event promoted", "eventId", event.ID.Hex(), "from", from, "to", updated.Status)
		return nil
	}
	return repositories.ErrConflict
}

// checkPrerequisiteCycle walks the persisted prerequisite graph depth-first
// from the proposed edges and fails if origin is reachable. Dangling edges are
// skipped; the eligibility resolver treats them as incomplete.
func (s *EventServiceImpl) checkPrerequisiteCycle(ctx context.Context, origin primitive.ObjectID, proposed []primitive.ObjectID) error {
	path := []string{origin.Hex()}
	visited := make(map[primitive.ObjectID]bool)

	var visit func(id primitive.ObjectID) error
	visit = func(id primitive.ObjectID) error {
		if id == origin {
			return &lifecycle.CyclicPrerequisiteError{Path: append(append([]string{}, path...), id.Hex())}
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		path = append(path, id.Hex())
		defer func() { path = path[:len(path)-1] }()

		node, err := s.eventRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil
			}
			return fmt.Errorf("failed to load prerequisite event: %w", err)
		}
		for _, next := range node.PrerequisiteEventIDs {
			if err := visit(next); err != nil {
				return err
			}
		}
		return nil
	}

	for _, pid := range proposed {
		if err := visit(pid); err != nil {
			return err
		}
	}
	return nil
}

func (s *EventServiceImpl) verifyTeamsInGroup(ctx context.Context, groupID primitive.ObjectID, teamIDs []primitive.ObjectID) error {
	if len(teamIDs) == 0 {
		return nil
	}
	teams, err := s.teamRepo.FindByIDs(ctx, teamIDs)
	if err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}
	found := make(map[primitive.ObjectID]*models.Team, len(teams))
	for _, team := range teams {
		found[team.ID] = team
	}
	for _, id := range teamIDs {
		team, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrTeamNotFound, id.Hex())
		}
		if team.GroupID != groupID {
			return fmt.Errorf("%w: %s", ErrTeamOutsideGroup, id.Hex())
		}
	}
	return nil
}

func (s *EventServiceImpl) loadEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

// dedupeIDs keeps the first occurrence of each id, preserving order.
func dedupeIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
