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

// TeamRepository implements the repositories.TeamRepository interface
type TeamRepository struct {
	collection *mongo.Collection
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *mongo.Database) repositories.TeamRepository {
	return &TeamRepository{
		collection: db.Collection("teams"),
	}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	now := storageNow()
	team.CreatedAt = now
	team.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, team)
	return err
}

// FindByID finds a team by ID
func (r *TeamRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByIDs finds all teams matching the given ids. Missing ids are simply
// absent from the result; callers compare lengths when they need all of them.
func (r *TeamRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Team, error) {
	if len(ids) == 0 {
		return []*models.Team{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var teams []*models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []*models.Team{}
	}
	return teams, nil
}

// FindByGroup finds teams belonging to a group
func (r *TeamRepository) FindByGroup(ctx context.Context, groupID primitive.ObjectID, page, limit int) ([]*models.Team, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"name": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"groupId": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var teams []*models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []*models.Team{}
	}
	return teams, nil
}

// Update updates a team
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	team.UpdatedAt = storageNow()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": team.ID}, team)
	return err
}

// Delete deletes a team by ID
func (r *TeamRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
