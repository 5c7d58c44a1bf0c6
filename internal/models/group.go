package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupStatus represents the status of an organizational group
type GroupStatus string

const (
	GroupStatusActive   GroupStatus = "ACTIVE"
	GroupStatusArchived GroupStatus = "ARCHIVED"
)

// Group represents an organizational container owning events and teams
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      GroupStatus        `bson:"status" json:"status"`
	CreatedBy   string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
