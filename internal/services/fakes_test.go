package services

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v76"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/repository"
)

// In-memory fakes backing the service tests. Methods a test never reaches
// are inherited from the embedded interface and panic if called.

type fakeProposalRepo struct {
	repository.ProposalRepository
	byID    map[primitive.ObjectID]*models.Proposal
	deleted []primitive.ObjectID
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{byID: make(map[primitive.ObjectID]*models.Proposal)}
}

func (r *fakeProposalRepo) add(p *models.Proposal) *models.Proposal {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.byID[p.ID] = p
	return p
}

func (r *fakeProposalRepo) Create(_ context.Context, p *models.Proposal) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProposalRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Proposal, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrProposalNotFound
	}
	cp := *p
	cp.Votes = append([]models.Vote(nil), p.Votes...)
	return &cp, nil
}

func (r *fakeProposalRepo) FindBySlug(_ context.Context, slug string) (*models.Proposal, error) {
	for _, p := range r.byID {
		if p.UniqueURL == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrProposalNotFound
}

func (r *fakeProposalRepo) FindByVoteID(_ context.Context, voteID primitive.ObjectID) (*models.Proposal, error) {
	for _, p := range r.byID {
		if p.VoteByID(voteID) >= 0 {
			cp := *p
			cp.Votes = append([]models.Vote(nil), p.Votes...)
			return &cp, nil
		}
	}
	return nil, repository.ErrVoteNotFound
}

func (r *fakeProposalRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, p := range r.byID {
		if p.UniqueURL == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProposalRepo) Update(_ context.Context, p *models.Proposal) error {
	if _, ok := r.byID[p.ID]; !ok {
		return repository.ErrProposalNotFound
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *fakeProposalRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrProposalNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeProposalRepo) DeleteByOwner(_ context.Context, ownerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id, p := range r.byID {
		if p.OwnerID != nil && *p.OwnerID == ownerID {
			ids = append(ids, id)
			delete(r.byID, id)
		}
	}
	r.deleted = append(r.deleted, ids...)
	return ids, nil
}

func (r *fakeProposalRepo) PushDocument(_ context.Context, proposalID, documentID primitive.ObjectID) error {
	p, ok := r.byID[proposalID]
	if !ok {
		return repository.ErrProposalNotFound
	}
	p.Documents = append(p.Documents, documentID)
	return nil
}

func (r *fakeProposalRepo) PullDocument(_ context.Context, proposalID, documentID primitive.ObjectID) error {
	p, ok := r.byID[proposalID]
	if !ok {
		return repository.ErrProposalNotFound
	}
	for i := range p.Documents {
		if p.Documents[i] == documentID {
			p.Documents = append(p.Documents[:i], p.Documents[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeProposalRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Proposal, error) {
	var out []models.Proposal
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	repository.UserRepository
	byID           map[primitive.ObjectID]*models.User
	pulledRefs     [][]primitive.ObjectID
	participations map[primitive.ObjectID][]models.Participation
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:           make(map[primitive.ObjectID]*models.User),
		participations: make(map[primitive.ObjectID][]models.Participation),
	}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.byID[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range r.byID {
		if token != "" && u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByResetToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range r.byID {
		if token != "" && u.ResetPasswordToken == token {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByStripeCustomerID(_ context.Context, customerID string) (*models.User, error) {
	for _, u := range r.byID {
		if customerID != "" && u.StripeCustomerID == customerID {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) PushProposal(_ context.Context, userID, proposalID primitive.ObjectID) error {
	u, ok := r.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Proposals = append(u.Proposals, proposalID)
	return nil
}

func (r *fakeUserRepo) PullProposalRefs(_ context.Context, proposalIDs []primitive.ObjectID) error {
	r.pulledRefs = append(r.pulledRefs, proposalIDs)
	return nil
}

func (r *fakeUserRepo) PushTeam(_ context.Context, userID, teamID primitive.ObjectID) error {
	u, ok := r.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Teams = append(u.Teams, teamID)
	return nil
}

func (r *fakeUserRepo) PullTeam(_ context.Context, userID, teamID primitive.ObjectID) error {
	u, ok := r.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for i := range u.Teams {
		if u.Teams[i] == teamID {
			u.Teams = append(u.Teams[:i], u.Teams[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeUserRepo) UpsertParticipation(_ context.Context, userID primitive.ObjectID, p models.Participation) error {
	list := r.participations[userID]
	for i := range list {
		if list[i].ProposalID == p.ProposalID {
			list[i] = p
			r.participations[userID] = list
			return nil
		}
	}
	r.participations[userID] = append(list, p)
	return nil
}

type fakeTeamRepo struct {
	repository.TeamRepository
	byID map[primitive.ObjectID]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{byID: make(map[primitive.ObjectID]*models.Team)}
}

func (r *fakeTeamRepo) add(t *models.Team) *models.Team {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	r.byID[t.ID] = t
	return t
}

func (r *fakeTeamRepo) Create(_ context.Context, t *models.Team) error {
	t.ID = primitive.NewObjectID()
	r.byID[t.ID] = t
	return nil
}

func (r *fakeTeamRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Team, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrTeamNotFound
	}
	return t, nil
}

func (r *fakeTeamRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Team, error) {
	var out []models.Team
	for _, id := range ids {
		if t, ok := r.byID[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, t *models.Team) error {
	if _, ok := r.byID[t.ID]; !ok {
		return repository.ErrTeamNotFound
	}
	r.byID[t.ID] = t
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrTeamNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeDocumentRepo struct {
	repository.DocumentRepository
	byID map[primitive.ObjectID]*models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{byID: make(map[primitive.ObjectID]*models.Document)}
}

func (r *fakeDocumentRepo) Create(_ context.Context, d *models.Document) error {
	d.ID = primitive.NewObjectID()
	d.UploadedAt = time.Now().UTC()
	r.byID[d.ID] = d
	return nil
}

func (r *fakeDocumentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Document, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}
	return d, nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.byID[id]; !ok {
		return repository.ErrDocumentNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeSender struct {
	sends []fakeEmail
}

type fakeEmail struct {
	to      []string
	subject string
}

func (s *fakeSender) Send(_ context.Context, to []string, subject, _ string) error {
	s.sends = append(s.sends, fakeEmail{to: to, subject: subject})
	return nil
}

type recordingBroadcaster struct {
	events []string
	rooms  []string
}

func (b *recordingBroadcaster) BroadcastVote(room, event string, _ any) {
	b.rooms = append(b.rooms, room)
	b.events = append(b.events, event)
}

type fakeTxRunner struct{ runs int }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(context.Context) error) error {
	t.runs++
	return fn(ctx)
}

type fakePayments struct {
	customers     int
	cancelled     []string
	checkoutCalls int
}

func (p *fakePayments) CreateCustomer(string) (string, error) {
	p.customers++
	return "cus_test", nil
}

func (p *fakePayments) CreateCheckoutSession(string, string, string) (string, error) {
	p.checkoutCalls++
	return "https://checkout.test/session", nil
}

func (p *fakePayments) CancelSubscription(id string) error {
	p.cancelled = append(p.cancelled, id)
	return nil
}

func (p *fakePayments) ConstructEvent([]byte, string) (stripe.Event, error) {
	return stripe.Event{}, nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
