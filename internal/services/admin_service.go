package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/repository"
)

type AdminService struct {
	proposals repository.ProposalRepository
	users     repository.UserRepository
}

func NewAdminService(proposals repository.ProposalRepository, users repository.UserRepository) *AdminService {
	return &AdminService{proposals: proposals, users: users}
}

func (s *AdminService) AllProposals(ctx context.Context) ([]models.Proposal, error) {
	return s.proposals.List(ctx)
}

// AdminUser is the trimmed user view for the admin dashboard.
type AdminUser struct {
	ID                 primitive.ObjectID `json:"_id"`
	Email              string             `json:"email"`
	ProposalCount      int                `json:"proposalCount"`
	SubscriptionStatus bool               `json:"subscriptionStatus"`
}

func (s *AdminService) AllUsers(ctx context.Context) ([]AdminUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AdminUser, 0, len(users))
	for _, u := range users {
		out = append(out, AdminUser{
			ID:                 u.ID,
			Email:              u.Email,
			ProposalCount:      len(u.Proposals),
			SubscriptionStatus: u.SubscriptionStatus,
		})
	}
	return out, nil
}
