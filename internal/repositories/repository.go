package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/groupstage/groupstage-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrConflict is returned by versioned updates when the stored document no
// longer carries the updatedAt token observed at read time. Callers re-read,
// recompute and retry.
var ErrConflict = errors.New("document was modified concurrently")

// EventRepository defines the interface for event data operations. Event
// mutations go through UpdateVersioned only: every write is conditioned on
// the updatedAt token observed at read time.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	UpdateVersioned(ctx context.Context, event *models.Event, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByGroup(ctx context.Context, groupID primitive.ObjectID, status models.EventStatus, page, limit int) ([]*models.Event, error)
	StreamByStatuses(ctx context.Context, statuses []models.EventStatus, fn func(models.Event) error) error
	StreamByGroupAndStatuses(ctx context.Context, groupID primitive.ObjectID, statuses []models.EventStatus, fn func(models.Event) error) error
}

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context, page, limit int) ([]*models.Group, error)
}

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Team, error)
	FindByGroup(ctx context.Context, groupID primitive.ObjectID, page, limit int) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
	Update(ctx context.Context, adminUser *models.AdminUser) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context) ([]*models.AdminUser, error)
}
