package lifecycle

import (
	"github.com/groupstage/groupstage-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EligibilityReason explains why a team was denied access to an event.
type EligibilityReason string

const (
	ReasonNotMember              EligibilityReason = "NOT_MEMBER"
	ReasonPrerequisiteIncomplete EligibilityReason = "PREREQUISITE_INCOMPLETE"
)

// Eligibility is the outcome of resolving whether a team may view or submit
// to an event.
type Eligibility struct {
	Eligible             bool                 `json:"eligible"`
	Reason               EligibilityReason    `json:"reason,omitempty"`
	MissingPrerequisites []primitive.ObjectID `json:"missingPrerequisites,omitempty"`
}

// ResolveEligibility decides whether a team may access an event. Membership
// is checked first: an event with no eligible-team restriction is open to
// every team of the group. Then every direct prerequisite must be completed;
// prereqStatuses is keyed by hex event id and is supplied by the caller, who
// has already walked the prerequisite graph. A prerequisite whose status is
// absent from the map counts as incomplete.
func ResolveEligibility(event models.Event, teamID primitive.ObjectID, prereqStatuses map[string]models.EventStatus) Eligibility {
	if event.Restricted() {
		member := false
		for _, id := range event.EligibleTeamIDs {
			if id == teamID {
				member = true
				break
			}
		}
		if !member {
			return Eligibility{Reason: ReasonNotMember}
		}
	}

	var missing []primitive.ObjectID
	for _, id := range event.PrerequisiteEventIDs {
		if prereqStatuses[id.Hex()] != models.EventStatusCompleted {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return Eligibility{Reason: ReasonPrerequisiteIncomplete, MissingPrerequisites: missing}
	}

	return Eligibility{Eligible: true}
}
