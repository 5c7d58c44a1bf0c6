package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/groupstage/groupstage-backend/internal/models"
	"github.com/groupstage/groupstage-backend/internal/repositories"
)

// Compile-time check to ensure GroupServiceImpl implements GroupService
var _ GroupService = (*GroupServiceImpl)(nil)

// GroupServiceImpl handles group business logic
type GroupServiceImpl struct {
	groupRepo repositories.GroupRepository
}

// NewGroupService creates a new GroupServiceImpl
func NewGroupService(groupRepo repositories.GroupRepository) *GroupServiceImpl {
	return &GroupServiceImpl{
		groupRepo: groupRepo,
	}
}

// CreateGroup creates a new active group
func (s *GroupServiceImpl) CreateGroup(ctx context.Context, name, description, createdBy string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		Status:      models.GroupStatusActive,
		CreatedBy:   createdBy,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	slog.Info("group created", "groupId", group.ID.Hex(), "name", group.Name, "createdBy", createdBy)
	return group, nil
}

// GetGroup retrieves a group by its ID
func (s *GroupServiceImpl) GetGroup(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	return group, nil
}

// ListGroups retrieves groups with pagination
func (s *GroupServiceImpl) ListGroups(ctx context.Context, page, limit int) ([]*models.Group, error) {
	groups, err := s.groupRepo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// ArchiveGroup marks a group as archived. Archived groups keep their events
// and teams but stop accepting new ones.
func (s *GroupServiceImpl) ArchiveGroup(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	group, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.Status == models.GroupStatusArchived {
		return group, nil
	}

	group.Status = models.GroupStatusArchived
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to archive group: %w", err)
	}
	slog.Info("group archived", "groupId", id.Hex())
	return group, nil
}
