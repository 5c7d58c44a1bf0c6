package lifecycle

import (
	"testing"
	"time"

	"github.com/groupstage/groupstage-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func cloneSource() models.Event {
	return models.Event{
		ID:                 primitive.NewObjectID(),
		GroupID:            primitive.NewObjectID(),
		Title:              "Autumn Design Sprint",
		Description:        "48h prototype sprint",
		EventType:          models.EventTypeChallenge,
		Status:             models.EventStatusCompleted,
		StartTime:          timePtr(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
		EndTime:            timePtr(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
		SubmissionDeadline: timePtr(time.Date(2025, 3, 1, 11, 30, 0, 0, time.UTC)),
		EligibleTeamIDs:    []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
		JudgingCriteria: map[string]interface{}{
			"scoring":                       "panel",
			"maxScore":                      100,
			models.PrerequisitesCriteriaKey: []string{primitive.NewObjectID().Hex()},
		},
		PrerequisiteEventIDs: []primitive.ObjectID{primitive.NewObjectID()},
		CreatedBy:            "original@groupstage.io",
		CreatedAt:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:            time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

var cloneNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func TestCloneEventFreshDraft(t *testing.T) {
	source := cloneSource()
	clone := CloneEvent(source, CloneOptions{
		Title:     "Autumn Design Sprint II",
		CreatedBy: "operator@groupstage.io",
	}, cloneNow)

	if clone.ID == source.ID || clone.ID.IsZero() {
		t.Fatal("clone must get a fresh id")
	}
	if clone.GroupID != source.GroupID {
		t.Fatal("clone must stay in the source group")
	}
	if clone.Status != models.EventStatusDraft {
		t.Fatalf("expected DRAFT, got %s", clone.Status)
	}
	if clone.EventType != models.EventTypeChallenge {
		t.Fatalf("event type must be copied, got %s", clone.EventType)
	}
	if clone.Title != "Autumn Design Sprint II" {
		t.Fatalf("expected new title, got %q", clone.Title)
	}
	if clone.CreatedBy != "operator@groupstage.io" {
		t.Fatalf("expected cloning operator as creator, got %q", clone.CreatedBy)
	}
	if !clone.CreatedAt.Equal(cloneNow) || !clone.UpdatedAt.Equal(cloneNow) {
		t.Fatal("expected fresh timestamps")
	}
}

func TestCloneEventClearsScheduleAndAccessByDefault(t *testing.T) {
	source := cloneSource()
	clone := CloneEvent(source, CloneOptions{Title: "Copy"}, cloneNow)

	if clone.StartTime != nil || clone.EndTime != nil || clone.SubmissionDeadline != nil {
		t.Fatal("expected cleared schedule")
	}
	if clone.EligibleTeamIDs != nil {
		t.Fatal("expected open access control")
	}
	if len(clone.PrerequisiteEventIDs) != 0 {
		t.Fatal("prerequisites must never be copied")
	}
}

func TestCloneEventPreservesSchedule(t *testing.T) {
	source := cloneSource()
	clone := CloneEvent(source, CloneOptions{Title: "Copy", PreserveSchedule: true}, cloneNow)

	if clone.StartTime == nil || !clone.StartTime.Equal(*source.StartTime) {
		t.Fatal("start time not preserved")
	}
	if clone.EndTime == nil || !clone.EndTime.Equal(*source.EndTime) {
		t.Fatal("end time not preserved")
	}
	if clone.SubmissionDeadline == nil || !clone.SubmissionDeadline.Equal(*source.SubmissionDeadline) {
		t.Fatal("submission deadline not preserved")
	}
	if clone.Status != models.EventStatusDraft {
		t.Fatal("a preserved schedule must not change the draft status")
	}
	// Snapshot semantics: the clone must not alias the source's pointers.
	if clone.StartTime == source.StartTime {
		t.Fatal("clone aliases the source start time pointer")
	}
}

func TestCloneEventPreservesAccessControl(t *testing.T) {
	source := cloneSource()
	clone := CloneEvent(source, CloneOptions{Title: "Copy", PreserveAccessControl: true}, cloneNow)

	if len(clone.EligibleTeamIDs) != len(source.EligibleTeamIDs) {
		t.Fatalf("expected %d team ids, got %d", len(source.EligibleTeamIDs), len(clone.EligibleTeamIDs))
	}
	for i, id := range source.EligibleTeamIDs {
		if clone.EligibleTeamIDs[i] != id {
			t.Fatal("team ids not copied verbatim")
		}
	}

	// Independent backing array.
	source.EligibleTeamIDs[0] = primitive.NewObjectID()
	if clone.EligibleTeamIDs[0] == source.EligibleTeamIDs[0] {
		t.Fatal("clone shares the source's team id slice")
	}
}

func TestCloneEventCopiesCriteriaWithoutPrerequisites(t *testing.T) {
	source := cloneSource()
	clone := CloneEvent(source, CloneOptions{Title: "Copy"}, cloneNow)

	if clone.JudgingCriteria["scoring"] != "panel" || clone.JudgingCriteria["maxScore"] != 100 {
		t.Fatalf("expected non-prerequisite criteria copied, got %v", clone.JudgingCriteria)
	}
	if _, ok := clone.JudgingCriteria[models.PrerequisitesCriteriaKey]; ok {
		t.Fatal("reserved prerequisites key must not be copied")
	}
}

func TestCloneEventCriteriaOnlyPrerequisites(t *testing.T) {
	source := cloneSource()
	source.JudgingCriteria = map[string]interface{}{
		models.PrerequisitesCriteriaKey: []string{primitive.NewObjectID().Hex()},
	}

	clone := CloneEvent(source, CloneOptions{Title: "Copy"}, cloneNow)
	if clone.JudgingCriteria != nil {
		t.Fatalf("expected nil criteria when only prerequisites existed, got %v", clone.JudgingCriteria)
	}
}
