package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/repository"
)

type TeamService struct {
	teams  repository.TeamRepository
	users  repository.UserRepository
	logger *zap.SugaredLogger
}

func NewTeamService(teams repository.TeamRepository, users repository.UserRepository, logger *zap.SugaredLogger) *TeamService {
	return &TeamService{teams: teams, users: users, logger: logger}
}

func (s *TeamService) Create(ctx context.Context, owner *models.User, name string, members []models.Member) (*models.Team, error) {
	team := &models.Team{
		TeamName:  name,
		Members:   members,
		CreatedBy: owner.ID,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	if err := s.users.PushTeam(ctx, owner.ID, team.ID); err != nil {
		s.logger.Errorf("link team %s to owner: %v", team.ID.Hex(), err)
	}
	return team, nil
}

// Edit updates name and roster; only the creator may edit.
func (s *TeamService) Edit(ctx context.Context, requester *models.User, teamID primitive.ObjectID, name string, members []models.Member) (*models.Team, error) {
	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.CreatedBy != requester.ID {
		return nil, ErrNotOwner
	}
	if name != "" {
		team.TeamName = name
	}
	if members != nil {
		team.Members = members
	}
	if err := s.teams.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// Delete removes the team and detaches it from the owner's user document.
func (s *TeamService) Delete(ctx context.Context, requester *models.User, teamID primitive.ObjectID) error {
	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.CreatedBy != requester.ID {
		return ErrNotOwner
	}
	if err := s.teams.Delete(ctx, teamID); err != nil {
		return err
	}
	return s.users.PullTeam(ctx, requester.ID, teamID)
}

func (s *TeamService) List(ctx context.Context, owner *models.User) ([]models.Team, error) {
	return s.teams.FindByIDs(ctx, owner.Teams)
}
