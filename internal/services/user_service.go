package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jordan-levelle/CC-Server/internal/mailer"
	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/payments"
	"github.com/jordan-levelle/CC-Server/internal/repository"
	"github.com/jordan-levelle/CC-Server/internal/utils"
)

const resetTokenTTL = time.Hour

type UserService struct {
	users     repository.UserRepository
	proposals *ProposalService
	mail      mailer.Sender
	pay       payments.Client
	secret    string
	tokenTTL  time.Duration
	origin    string
	logger    *zap.SugaredLogger
}

func NewUserService(
	users repository.UserRepository,
	proposals *ProposalService,
	mail mailer.Sender,
	pay payments.Client,
	secret string,
	tokenTTL time.Duration,
	origin string,
	logger *zap.SugaredLogger,
) *UserService {
	return &UserService{
		users:     users,
		proposals: proposals,
		mail:      mail,
		pay:       pay,
		secret:    secret,
		tokenTTL:  tokenTTL,
		origin:    origin,
		logger:    logger,
	}
}

// Signup creates an unverified account, emails the verification link, and
// returns a session token so the user is signed in immediately.
func (s *UserService) Signup(ctx context.Context, email, password string) (string, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", ErrEmailInUse
	} else if err != repository.ErrUserNotFound {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	user.VerificationToken = utils.GenerateVerificationToken(user.ID.Hex())
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	link := fmt.Sprintf("%sverify/%s", s.origin, user.VerificationToken)
	content := fmt.Sprintf(`Click <a href="%s">here</a> to verify your account and be redirected to your account page.`, link)
	if err := s.mail.Send(ctx, []string{email}, "Account Verification", content); err != nil {
		s.logger.Errorf("verification email for %s: %v", email, err)
	}

	return utils.CreateToken(user.ID.Hex(), s.secret, s.tokenTTL)
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrIncorrectPassword
	}
	return utils.CreateToken(user.ID.Hex(), s.secret, s.tokenTTL)
}

func (s *UserService) Verify(ctx context.Context, token string) error {
	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	user.Verified = true
	user.VerificationToken = ""
	return s.users.Update(ctx, user)
}

func (s *UserService) UpdateEmail(ctx context.Context, user *models.User, email string) error {
	user.Email = email
	return s.users.Update(ctx, user)
}

// DeleteAccount removes the user, optionally cascading to their proposals.
func (s *UserService) DeleteAccount(ctx context.Context, user *models.User, deleteProposals bool) error {
	if deleteProposals {
		if err := s.proposals.DeleteByOwner(ctx, user.ID); err != nil {
			return err
		}
	}
	return s.users.Delete(ctx, user.ID)
}

func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	user.ResetPasswordToken = utils.GenerateVerificationToken(user.ID.Hex())
	user.ResetPasswordExpires = time.Now().UTC().Add(resetTokenTTL)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	link := fmt.Sprintf("%sresetPassword/%s", s.origin, user.ResetPasswordToken)
	content := fmt.Sprintf(`Click <a href="%s">here</a> to reset your password. The link expires in one hour.`, link)
	if err := s.mail.Send(ctx, []string{email}, "Password Reset", content); err != nil {
		s.logger.Errorf("reset email for %s: %v", email, err)
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if time.Now().UTC().After(user.ResetPasswordExpires) {
		return ErrResetTokenExpired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = time.Time{}
	return s.users.Update(ctx, user)
}

// SetParticipated records the user's vote on someone else's proposal,
// replacing any earlier entry for the same proposal.
func (s *UserService) SetParticipated(ctx context.Context, user *models.User, proposalID, voteID primitive.ObjectID) error {
	return s.users.UpsertParticipation(ctx, user.ID, models.Participation{
		ProposalID: proposalID,
		VoteID:     voteID,
	})
}

// ParticipatedProposal pairs a proposal with the user's vote id in it.
type ParticipatedProposal struct {
	Proposal models.Proposal    `json:"proposal"`
	VoteID   primitive.ObjectID `json:"voteId"`
}

func (s *UserService) GetParticipatedProposals(ctx context.Context, user *models.User) ([]ParticipatedProposal, error) {
	ids := make([]primitive.ObjectID, 0, len(user.ParticipatedProposals))
	voteByProposal := make(map[primitive.ObjectID]primitive.ObjectID, len(user.ParticipatedProposals))
	for _, p := range user.ParticipatedProposals {
		ids = append(ids, p.ProposalID)
		voteByProposal[p.ProposalID] = p.VoteID
	}
	proposals, err := s.proposals.proposals.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ParticipatedProposal, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, ParticipatedProposal{Proposal: p, VoteID: voteByProposal[p.ID]})
	}
	return out, nil
}

// ArchiveProposal toggles the proposal in the user's archive list, so a
// second call restores the original state.
func (s *UserService) ArchiveProposal(ctx context.Context, user *models.User, proposalID primitive.ObjectID) (bool, error) {
	user.ArchivedProposals, _ = toggleID(user.ArchivedProposals, proposalID)
	archived := containsID(user.ArchivedProposals, proposalID)
	return archived, s.users.Update(ctx, user)
}

// ArchiveParticipated is the same toggle over participated proposals.
func (s *UserService) ArchiveParticipated(ctx context.Context, user *models.User, proposalID primitive.ObjectID) (bool, error) {
	user.ArchivedParticipated, _ = toggleID(user.ArchivedParticipated, proposalID)
	archived := containsID(user.ArchivedParticipated, proposalID)
	return archived, s.users.Update(ctx, user)
}

func toggleID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i], ids[i+1:]...), false
		}
	}
	return append(ids, id), true
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for i := range ids {
		if ids[i] == id {
			return true
		}
	}
	return false
}

// Subscribe returns a hosted checkout URL, creating the payment-provider
// customer on first use.
func (s *UserService) Subscribe(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID == "" {
		customerID, err := s.pay.CreateCustomer(user.Email)
		if err != nil {
			return "", fmt.Errorf("create customer: %w", err)
		}
		user.StripeCustomerID = customerID
		if err := s.users.Update(ctx, user); err != nil {
			return "", err
		}
	}
	return s.pay.CreateCheckoutSession(user.StripeCustomerID, s.origin+"account", s.origin+"upgrade")
}

// CancelSubscription cancels with the provider and mirrors the status
// locally.
func (s *UserService) CancelSubscription(ctx context.Context, user *models.User) error {
	if user.StripeSubscriptionID == "" {
		return ErrNoSubscription
	}
	if err := s.pay.CancelSubscription(user.StripeSubscriptionID); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	user.SubscriptionStatus = false
	user.StripeSubscriptionID = ""
	return s.users.Update(ctx, user)
}

// ApplyCheckoutCompleted mirrors a successful checkout from the provider
// webhook.
func (s *UserService) ApplyCheckoutCompleted(ctx context.Context, customerID, subscriptionID string) error {
	user, err := s.users.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	user.SubscriptionStatus = true
	user.StripeSubscriptionID = subscriptionID
	return s.users.Update(ctx, user)
}

// ApplySubscriptionEnded clears the mirrored subscription state.
func (s *UserService) ApplySubscriptionEnded(ctx context.Context, customerID string) error {
	user, err := s.users.FindByStripeCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	user.SubscriptionStatus = false
	user.StripeSubscriptionID = ""
	return s.users.Update(ctx, user)
}
