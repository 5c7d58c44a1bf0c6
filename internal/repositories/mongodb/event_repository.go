package mongodb

import (
	"context"
	"time"

	"github.com/groupstage/groupstage-backend/internal/models"
	"github.com/groupstage/groupstage-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository implements the repositories.EventRepository interface
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *mongo.Database) repositories.EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
	}
}

// storageNow returns the write timestamp used for updatedAt tokens. MongoDB
// stores timestamps at millisecond precision, so the token is truncated to
// survive a round-trip through the equality precondition.
func storageNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Create inserts a new event. A pre-assigned id (e.g. from CloneEvent) is
// kept; otherwise a fresh one is generated.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	event.FoldPrerequisites()
	now := storageNow()
	event.CreatedAt = now
	event.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// FindByID finds an event by ID
func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		return nil, err
	}
	event.ExtractPrerequisites()
	return &event, nil
}

// UpdateVersioned replaces the stored event only if its updatedAt still
// equals the token observed at read time, returning repositories.ErrConflict
// when another writer got there first.
func (r *EventRepository) UpdateVersioned(ctx context.Context, event *models.Event, expectedUpdatedAt time.Time) error {
	event.FoldPrerequisites()
	event.UpdatedAt = storageNow()
	if !event.UpdatedAt.After(expectedUpdatedAt) {
		// Two writes within the same millisecond must still advance the token.
		event.UpdatedAt = expectedUpdatedAt.Add(time.Millisecond)
	}

	filter := bson.M{"_id": event.ID, "updatedAt": expectedUpdatedAt}
	res, err := r.collection.ReplaceOne(ctx, filter, event)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrConflict
	}
	return nil
}

// Delete deletes an event by ID
func (r *EventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindByGroup finds events belonging to a group, newest first, optionally
// filtered by status.
func (r *EventRepository) FindByGroup(ctx context.Context, groupID primitive.ObjectID, status models.EventStatus, page, limit int) ([]*models.Event, error) {
	filter := bson.M{"groupId": groupID}
	if status != "" {
		filter["status"] = status
	}

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

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.Event{}
	}
	for _, event := range events {
		event.ExtractPrerequisites()
	}
	return events, nil
}

// StreamByStatuses walks every event in one of the given statuses, invoking
// fn per decoded document. Used by the promotion sweeper so a large backlog
// is never loaded into memory at once.
func (r *EventRepository) StreamByStatuses(ctx context.Context, statuses []models.EventStatus, fn func(models.Event) error) error {
	return r.stream(ctx, bson.M{"status": bson.M{"$in": statuses}}, fn)
}

// StreamByGroupAndStatuses is StreamByStatuses scoped to a single group.
func (r *EventRepository) StreamByGroupAndStatuses(ctx context.Context, groupID primitive.ObjectID, statuses []models.EventStatus, fn func(models.Event) error) error {
	return r.stream(ctx, bson.M{"groupId": groupID, "status": bson.M{"$in": statuses}}, fn)
}

func (r *EventRepository) stream(ctx context.Context, filter bson.M, fn func(models.Event) error) error {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var event models.Event
		if err := cursor.Decode(&event); err != nil {
			return err
		}
		event.ExtractPrerequisites()
		if err := fn(event); err != nil {
			return err
		}
	}
	return cursor.Err()
}
