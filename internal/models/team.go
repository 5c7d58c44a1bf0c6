package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team represents a named member set that interacts with events. A team
// belongs to exactly one group.
type Team struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GroupID   primitive.ObjectID `bson:"groupId" json:"groupId"`
	Name      string             `bson:"name" json:"name"`
	MemberIDs []string           `bson:"memberIds,omitempty" json:"memberIds,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasMember reports whether the given member id belongs to the team.
func (t *Team) HasMember(memberID string) bool {
	for _, id := range t.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}
