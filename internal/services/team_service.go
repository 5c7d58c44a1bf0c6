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

// Compile-time check to ensure TeamServiceImpl implements TeamService
var _ TeamService = (*TeamServiceImpl)(nil)

// TeamServiceImpl handles team business logic
type TeamServiceImpl struct {
	teamRepo  repositories.TeamRepository
	groupRepo repositories.GroupRepository
}

// NewTeamService creates a new TeamServiceImpl
func NewTeamService(teamRepo repositories.TeamRepository, groupRepo repositories.GroupRepository) *TeamServiceImpl {
	return &TeamServiceImpl{
		teamRepo:  teamRepo,
		groupRepo: groupRepo,
	}
}

// CreateTeam creates a new team inside an existing group
func (s *TeamServiceImpl) CreateTeam(ctx context.Context, groupID primitive.ObjectID, name string, memberIDs []string) (*models.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	if group.Status == models.GroupStatusArchived {
		return nil, fmt.Errorf("%w: group is archived", ErrInvalidInput)
	}

	team := &models.Team{
		GroupID:   groupID,
		Name:      name,
		MemberIDs: dedupeStrings(memberIDs),
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	slog.Info("team created", "teamId", team.ID.Hex(), "groupId", groupID.Hex(), "name", team.Name)
	return team, nil
}

// GetTeam retrieves a team by its ID
func (s *TeamServiceImpl) GetTeam(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	return team, nil
}

// ListGroupTeams retrieves a group's teams with pagination
func (s *TeamServiceImpl) ListGroupTeams(ctx context.Context, groupID primitive.ObjectID, page, limit int) ([]*models.Team, error) {
	teams, err := s.teamRepo.FindByGroup(ctx, groupID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// AddTeamMember adds a member to a team's roster. Adding an existing member
// is a no-op.
func (s *TeamServiceImpl) AddTeamMember(ctx context.Context, teamID primitive.ObjectID, memberID string) (*models.Team, error) {
	if strings.TrimSpace(memberID) == "" {
		return nil, fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}

	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.HasMember(memberID) {
		return team, nil
	}

	team.MemberIDs = append(team.MemberIDs, memberID)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	slog.Info("team member added", "teamId", teamID.Hex(), "memberId", memberID)
	return team, nil
}

// RemoveTeamMember removes a member from a team's roster. Removing an absent
// member is a no-op.
func (s *TeamServiceImpl) RemoveTeamMember(ctx context.Context, teamID primitive.ObjectID, memberID string) (*models.Team, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(memberID) {
		return team, nil
	}

	members := make([]string, 0, len(team.MemberIDs)-1)
	for _, id := range team.MemberIDs {
		if id != memberID {
			members = append(members, id)
		}
	}
	team.MemberIDs = members
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	slog.Info("team member removed", "teamId", teamID.Hex(), "memberId", memberID)
	return team, nil
}

// DeleteTeam removes a team
func (s *TeamServiceImpl) DeleteTeam(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetTeam(ctx, id); err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	slog.Info("team deleted", "teamId", id.Hex())
	return nil
}

// dedupeStrings keeps the first occurrence of each non-empty entry,
// preserving order.
func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
