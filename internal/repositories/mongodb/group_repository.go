package mongodb

import (
	"context"

	"github.com/groupstage/groupstage-backend/internal/models"
	"github.com/groupstage/groupstage-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GroupRepository implements the repositories.GroupRepository interface
type GroupRepository struct {
	collection *mongo.Collection
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *mongo.Database) repositories.GroupRepository {
	return &GroupRepository{
		collection: db.Collection("groups"),
	}
}

// Create creates a new group
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}
	now := storageNow()
	group.CreatedAt = now
	group.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, group)
	return err
}

// FindByID finds a group by ID
func (r *GroupRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Update updates a group
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = storageNow()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": group.ID}, group)
	return err
}

// Delete deletes a group by ID
func (r *GroupRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindAll finds all groups, newest first
func (r *GroupRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Group, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []*models.Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return groups, nil
}
