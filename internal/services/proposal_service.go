package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/mailer"
	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/repository"
	"github.com/jordan-levelle/CC-Server/internal/utils"
)

// voteLimit caps proposals whose owner has no active subscription.
const voteLimit = 15

const slugLength = 10

type ProposalService struct {
	proposals repository.ProposalRepository
	users     repository.UserRepository
	teams     repository.TeamRepository
	mail      mailer.Sender
	digest    *mailer.DigestQueue
	relay     Broadcaster
	tx        repository.TxRunner
	origin    string
	logger    *zap.SugaredLogger
}

func NewProposalService(
	proposals repository.ProposalRepository,
	users repository.UserRepository,
	teams repository.TeamRepository,
	mail mailer.Sender,
	digest *mailer.DigestQueue,
	relay Broadcaster,
	tx repository.TxRunner,
	origin string,
	logger *zap.SugaredLogger,
) *ProposalService {
	return &ProposalService{
		proposals: proposals,
		users:     users,
		teams:     teams,
		mail:      mail,
		digest:    digest,
		relay:     relay,
		tx:        tx,
		origin:    origin,
		logger:    logger,
	}
}

type CreateProposalInput struct {
	Title       string
	Description string
	Name        string
	Email       string
	TeamID      string
}

// Create persists a new proposal for the given owner (nil for anonymous
// creation), links it into the owner's proposal list, and notifies the
// creator and any bound team by email.
func (s *ProposalService) Create(ctx context.Context, owner *models.User, in CreateProposalInput) (*models.Proposal, error) {
	if in.Title == "" || in.Description == "" {
		return nil, ErrMissingFields
	}

	slug, err := s.uniqueSlug(ctx)
	if err != nil {
		return nil, err
	}

	p := &models.Proposal{
		Title:                in.Title,
		Description:          in.Description,
		Name:                 in.Name,
		Email:                in.Email,
		UniqueURL:            slug,
		EditToken:            uuid.NewString(),
		FirstRender:          true,
		ReceiveNotifications: true,
	}
	if owner != nil {
		p.OwnerID = &owner.ID
	}

	var team *models.Team
	if in.TeamID != "" {
		teamID, err := primitive.ObjectIDFromHex(in.TeamID)
		if err != nil {
			return nil, repository.ErrTeamNotFound
		}
		team, err = s.teams.FindByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		p.TeamID = &team.ID
		p.TeamName = team.TeamName
	}

	if err := s.proposals.Create(ctx, p); err != nil {
		return nil, err
	}

	if owner != nil {
		if err := s.users.PushProposal(ctx, owner.ID, p.ID); err != nil {
			s.logger.Errorf("link proposal %s to owner: %v", p.ID.Hex(), err)
		}
	}

	s.sendCreationEmails(ctx, p, team)
	return p, nil
}

func (s *ProposalService) uniqueSlug(ctx context.Context) (string, error) {
	for i := 0; i < 5; i++ {
		slug := utils.GenerateSlug(slugLength)
		exists, err := s.proposals.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique proposal url")
}

func (s *ProposalService) sendCreationEmails(ctx context.Context, p *models.Proposal, team *models.Team) {
	if p.Email != "" {
		content := fmt.Sprintf(`<p>You submitted a new proposal!</p>
<p><strong>Title:</strong> %s</p>
<p><strong>Submitted by:</strong> %s</p>
<p><a href="%s%s">Link to Proposal</a></p>
<p><a href="%sedit/%s/%s">Link to Edit Proposal</a></p>`,
			p.Title, p.Name, s.origin, p.UniqueURL, s.origin, p.EditToken, p.UniqueURL)
		if err := s.mail.Send(ctx, []string{p.Email}, "New Proposal Submitted", content); err != nil {
			s.logger.Errorf("creation email for proposal %s: %v", p.ID.Hex(), err)
		}
	}

	if team == nil || len(team.Members) == 0 {
		return
	}
	var recipients []string
	for _, m := range team.Members {
		if m.MemberEmail != "" {
			recipients = append(recipients, m.MemberEmail)
		}
	}
	if len(recipients) == 0 {
		return
	}
	content := fmt.Sprintf(`<p><strong>Title:</strong> %s</p>
<p><strong>Submitted by:</strong> %s</p>
<p><strong>Description:</strong> %s</p>
<p>New proposal has been submitted to your team: %s</p>
<p><a href="%s%s">Link to Proposal</a></p>`,
		p.Title, p.Name, p.Description, team.TeamName, s.origin, p.UniqueURL)
	if err := s.mail.Send(ctx, recipients, "New Proposal: "+p.Title, content); err != nil {
		s.logger.Errorf("team notification for proposal %s: %v", p.ID.Hex(), err)
	}
}

// GetBySlug returns the proposal and whether the requester owns it. The raw
// owner id never leaves the service; callers surface only the flag.
func (s *ProposalService) GetBySlug(ctx context.Context, slug string, requester *models.User) (*models.Proposal, bool, error) {
	p, err := s.proposals.FindBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}
	isOwner := requester != nil && p.OwnerID != nil && *p.OwnerID == requester.ID
	return p, isOwner, nil
}

func (s *ProposalService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, filter repository.ProposalFilter) ([]models.Proposal, error) {
	return s.proposals.FindByOwner(ctx, ownerID, filter)
}

func (s *ProposalService) Example(ctx context.Context) (*models.Proposal, error) {
	return s.proposals.FindExample(ctx)
}

type UpdateProposalInput struct {
	Title                string
	Description          string
	Name                 string
	Email                string
	ReceiveNotifications bool
}

func (s *ProposalService) Update(ctx context.Context, slug string, in UpdateProposalInput) (*models.Proposal, error) {
	p, err := s.proposals.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.Title = in.Title
	p.Description = in.Description
	p.Name = in.Name
	p.Email = in.Email
	p.ReceiveNotifications = in.ReceiveNotifications
	if err := s.proposals.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// FirstRender reports the flag and clears it on first read.
func (s *ProposalService) FirstRender(ctx context.Context, id primitive.ObjectID) (bool, error) {
	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	first := p.FirstRender
	if first {
		p.FirstRender = false
		if err := s.proposals.Update(ctx, p); err != nil {
			return false, err
		}
	}
	return first, nil
}

func (s *ProposalService) Votes(ctx context.Context, id primitive.ObjectID) ([]models.Vote, error) {
	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Votes, nil
}

type VoteInput struct {
	Name    string
	Opinion string
	Comment string
}

// VoteResult mirrors the response contract of vote submission: when the
// owner's plan is out of votes the proposal is returned untouched with
// LimitReached set and no vote is added.
type VoteResult struct {
	Proposal     *models.Proposal
	AddedVote    *models.Vote
	LimitReached bool
}

// SubmitVote inserts a vote into the proposal. Team-bound proposals slot the
// vote at the voter's roster position and reject names that are not on the
// roster; unbound proposals append in arrival order.
func (s *ProposalService) SubmitVote(ctx context.Context, id primitive.ObjectID, voter *models.User, in VoteInput) (*VoteResult, error) {
	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.ownerSubscribed(ctx, p)
	if err != nil {
		return nil, err
	}
	if !subscribed && filledVotes(p.Votes) >= voteLimit {
		return &VoteResult{Proposal: p, LimitReached: true}, nil
	}

	now := time.Now().UTC()
	vote := models.Vote{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Opinion:   in.Opinion,
		Comment:   in.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if voter != nil {
		vote.VoterID = &voter.ID
	}

	if p.TeamID != nil {
		team, err := s.teams.FindByID(ctx, *p.TeamID)
		if err != nil {
			return nil, err
		}
		idx := team.MemberIndex(in.Name)
		if idx < 0 {
			return nil, ErrNotTeamMember
		}
		// Slot the vote at the member's roster position. Earlier slots that
		// have not been voted yet are held by zero-ID placeholders so every
		// member's vote lands at the same index regardless of arrival order.
		for len(p.Votes) <= idx {
			p.Votes = append(p.Votes, models.Vote{})
		}
		p.Votes[idx] = vote
	} else {
		p.Votes = append(p.Votes, vote)
	}

	if err := s.proposals.Update(ctx, p); err != nil {
		return nil, err
	}

	s.queueNotification(p, vote, "submit")
	s.relay.BroadcastVote(p.UniqueURL, "newVote", vote)

	if voter != nil && (p.OwnerID == nil || *p.OwnerID != voter.ID) {
		part := models.Participation{ProposalID: p.ID, VoteID: vote.ID}
		if err := s.users.UpsertParticipation(ctx, voter.ID, part); err != nil {
			s.logger.Errorf("participation record for user %s: %v", voter.ID.Hex(), err)
		}
	}

	return &VoteResult{Proposal: p, AddedVote: &vote}, nil
}

// filledVotes counts submitted votes, skipping the placeholder slots a
// team-bound proposal keeps for members who have not voted yet.
func filledVotes(votes []models.Vote) int {
	n := 0
	for i := range votes {
		if !votes[i].ID.IsZero() {
			n++
		}
	}
	return n
}

func (s *ProposalService) ownerSubscribed(ctx context.Context, p *models.Proposal) (bool, error) {
	if p.OwnerID == nil {
		return false, nil
	}
	owner, err := s.users.FindByID(ctx, *p.OwnerID)
	if err == repository.ErrUserNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner.SubscriptionStatus, nil
}

func (s *ProposalService) queueNotification(p *models.Proposal, vote models.Vote, action string) {
	if s.digest == nil || !p.ReceiveNotifications {
		return
	}
	s.digest.Add(p.ID.Hex(), p.Title, p.UniqueURL, p.Email, mailer.QueuedVote{
		VoteID:  vote.ID.Hex(),
		Name:    vote.Name,
		Opinion: vote.Opinion,
		Comment: vote.Comment,
		Action:  action,
	})
}

type UpdateVoteInput struct {
	Name    *string
	Opinion *string
	Comment *string
}

// UpdateVote mutates the embedded vote in place and re-queues the
// notification so an edit inside the debounce window amends the digest.
func (s *ProposalService) UpdateVote(ctx context.Context, proposalID, voteID primitive.ObjectID, in UpdateVoteInput) error {
	p, err := s.proposals.FindByID(ctx, proposalID)
	if err != nil {
		return err
	}
	idx := p.VoteByID(voteID)
	if idx < 0 {
		return repository.ErrVoteNotFound
	}

	vote := &p.Votes[idx]
	if in.Name != nil {
		vote.Name = *in.Name
	}
	if in.Opinion != nil {
		vote.Opinion = *in.Opinion
	}
	if in.Comment != nil {
		vote.Comment = *in.Comment
	}
	vote.UpdatedAt = time.Now().UTC()

	if err := s.proposals.Update(ctx, p); err != nil {
		return err
	}

	s.queueNotification(p, *vote, "update")
	s.relay.BroadcastVote(p.UniqueURL, "voteUpdated", *vote)
	return nil
}

// DeleteVote removes the embedded vote, located through its owning proposal.
func (s *ProposalService) DeleteVote(ctx context.Context, voteID primitive.ObjectID) error {
	p, err := s.proposals.FindByVoteID(ctx, voteID)
	if err != nil {
		return err
	}
	idx := p.VoteByID(voteID)
	if idx < 0 {
		return repository.ErrVoteNotFound
	}
	if p.TeamID != nil {
		// Keep the remaining votes on their roster slots.
		p.Votes[idx] = models.Vote{}
	} else {
		p.Votes = append(p.Votes[:idx], p.Votes[idx+1:]...)
	}
	return s.proposals.Update(ctx, p)
}

// Delete removes the proposal and pulls its id from every user's proposal
// and participation lists in one transaction.
func (s *ProposalService) Delete(ctx context.Context, id primitive.ObjectID, requester *models.User) error {
	p, err := s.proposals.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if requester == nil || p.OwnerID == nil || *p.OwnerID != requester.ID {
		return ErrNotOwner
	}

	return s.tx.Run(ctx, func(ctx context.Context) error {
		if err := s.proposals.Delete(ctx, id); err != nil {
			return err
		}
		return s.users.PullProposalRefs(ctx, []primitive.ObjectID{id})
	})
}

// DeleteByOwner is the bulk cleanup used by account deletion.
func (s *ProposalService) DeleteByOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	return s.tx.Run(ctx, func(ctx context.Context) error {
		ids, err := s.proposals.DeleteByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		return s.users.PullProposalRefs(ctx, ids)
	})
}
