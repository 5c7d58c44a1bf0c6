package mongodb

import (
	"context"

	"github.com/groupstage/groupstage-backend/internal/models"
	"github.com/groupstage/groupstage-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Ensure adminUserRepository implements repositories.AdminUserRepository
var _ repositories.AdminUserRepository = (*adminUserRepository)(nil)

type adminUserRepository struct {
	collection *mongo.Collection
}

// NewAdminUserRepository creates a new repository for admin users
func NewAdminUserRepository(db *mongo.Database) repositories.AdminUserRepository {
	return &adminUserRepository{
		collection: db.Collection("admin_users"),
	}
}

// Create inserts a new admin user into the database
func (r *adminUserRepository) Create(ctx context.Context, adminUser *models.AdminUser) error {
	if adminUser.ID.IsZero() {
		adminUser.ID = primitive.NewObjectID()
	}
	now := storageNow()
	adminUser.CreatedAt = now
	adminUser.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, adminUser)
	return err
}

// FindByEmail finds an admin user by their email address. mongo.ErrNoDocuments
// is passed through so the service layer can distinguish "not found" from
// other errors.
func (r *adminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&adminUser)
	if err != nil {
		return nil, err
	}
	return &adminUser, nil
}

// FindByID finds an admin user by their ID
func (r *adminUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	var adminUser models.AdminUser
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&adminUser)
	if err != nil {
		return nil, err
	}
	return &adminUser, nil
}

// Update updates an admin user
func (r *adminUserRepository) Update(ctx context.Context, adminUser *models.AdminUser) error {
	adminUser.UpdatedAt = storageNow()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": adminUser.ID}, adminUser)
	return err
}

// Delete deletes an admin user by ID
func (r *adminUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindAll finds all admin users
func (r *adminUserRepository) FindAll(ctx context.Context) ([]*models.AdminUser, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var adminUsers []*models.AdminUser
	if err := cursor.All(ctx, &adminUsers); err != nil {
		return nil, err
	}
	if adminUsers == nil {
		adminUsers = []*models.AdminUser{}
	}
	return adminUsers, nil
}
