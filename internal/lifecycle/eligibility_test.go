package lifecycle

import (
	"testing"

	"github.com/groupstage/groupstage-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveEligibilityOpenEvent(t *testing.T) {
	event := models.Event{Status: models.EventStatusActive}
	team := primitive.NewObjectID()

	result := ResolveEligibility(event, team, nil)
	if !result.Eligible {
		t.Fatalf("open event with no prerequisites should be eligible, got reason %s", result.Reason)
	}
}

func TestResolveEligibilityMembership(t *testing.T) {
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()
	event := models.Event{EligibleTeamIDs: []primitive.ObjectID{member}}

	if result := ResolveEligibility(event, member, nil); !result.Eligible {
		t.Fatalf("member should be eligible, got reason %s", result.Reason)
	}

	result := ResolveEligibility(event, outsider, nil)
	if result.Eligible {
		t.Fatal("outsider should not be eligible")
	}
	if result.Reason != ReasonNotMember {
		t.Fatalf("expected NOT_MEMBER, got %s", result.Reason)
	}
}

func TestResolveEligibilityPrerequisites(t *testing.T) {
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()
	prereq := primitive.NewObjectID()
	event := models.Event{
		EligibleTeamIDs:      []primitive.ObjectID{member},
		PrerequisiteEventIDs: []primitive.ObjectID{prereq},
	}

	t.Run("incomplete prerequisite blocks member", func(t *testing.T) {
		statuses := map[string]models.EventStatus{prereq.Hex(): models.EventStatusActive}
		result := ResolveEligibility(event, member, statuses)
		if result.Eligible {
			t.Fatal("expected ineligible")
		}
		if result.Reason != ReasonPrerequisiteIncomplete {
			t.Fatalf("expected PREREQUISITE_INCOMPLETE, got %s", result.Reason)
		}
		if len(result.MissingPrerequisites) != 1 || result.MissingPrerequisites[0] != prereq {
			t.Fatalf("expected missing id %s, got %v", prereq.Hex(), result.MissingPrerequisites)
		}
	})

	t.Run("membership checked before prerequisites", func(t *testing.T) {
		// Even with the prerequisite completed, a non-member stays out.
		statuses := map[string]models.EventStatus{prereq.Hex(): models.EventStatusCompleted}
		result := ResolveEligibility(event, outsider, statuses)
		if result.Reason != ReasonNotMember {
			t.Fatalf("expected NOT_MEMBER, got %s", result.Reason)
		}
	})

	t.Run("completed prerequisite admits member", func(t *testing.T) {
		statuses := map[string]models.EventStatus{prereq.Hex(): models.EventStatusCompleted}
		result := ResolveEligibility(event, member, statuses)
		if !result.Eligible {
			t.Fatalf("expected eligible, got reason %s", result.Reason)
		}
	})

	t.Run("absent status counts as incomplete", func(t *testing.T) {
		result := ResolveEligibility(event, member, map[string]models.EventStatus{})
		if result.Reason != ReasonPrerequisiteIncomplete {
			t.Fatalf("expected PREREQUISITE_INCOMPLETE, got %s", result.Reason)
		}
	})
}

func TestResolveEligibilityReportsAllMissing(t *testing.T) {
	team := primitive.NewObjectID()
	done := primitive.NewObjectID()
	pending := primitive.NewObjectID()
	unknown := primitive.NewObjectID()
	event := models.Event{
		PrerequisiteEventIDs: []primitive.ObjectID{done, pending, unknown},
	}
	statuses := map[string]models.EventStatus{
		done.Hex():    models.EventStatusCompleted,
		pending.Hex(): models.EventStatusScheduled,
	}

	result := ResolveEligibility(event, team, statuses)
	if result.Eligible {
		t.Fatal("expected ineligible")
	}
	if len(result.MissingPrerequisites) != 2 {
		t.Fatalf("expected 2 missing ids, got %v", result.MissingPrerequisites)
	}
	if result.MissingPrerequisites[0] != pending || result.MissingPrerequisites[1] != unknown {
		t.Fatalf("missing ids should preserve prerequisite order, got %v", result.MissingPrerequisites)
	}
}

func TestResolveEligibilityEmptyPrerequisiteListPasses(t *testing.T) {
	team := primitive.NewObjectID()
	event := models.Event{PrerequisiteEventIDs: []primitive.ObjectID{}}

	if result := ResolveEligibility(event, team, nil); !result.Eligible {
		t.Fatalf("empty prerequisite list should pass, got reason %s", result.Reason)
	}
}
