package scheduler

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/repository"
)

type fakeProposalRepo struct {
	repository.ProposalRepository
	proposals map[primitive.ObjectID]*models.Proposal
}

func (r *fakeProposalRepo) FindOlderThan(_ context.Context, cutoff time.Time) ([]models.Proposal, error) {
	var out []models.Proposal
	for _, p := range r.proposals {
		if !p.IsExpired && p.CreatedAt.Before(cutoff) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProposalRepo) Update(_ context.Context, p *models.Proposal) error {
	cp := *p
	r.proposals[p.ID] = &cp
	return nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users map[primitive.ObjectID]*models.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func TestSweep(t *testing.T) {
	old := time.Now().UTC().Add(-40 * 24 * time.Hour)
	fresh := time.Now().UTC().Add(-1 * 24 * time.Hour)

	users := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	subscribed := &models.User{ID: primitive.NewObjectID(), SubscriptionStatus: true}
	unsubscribed := &models.User{ID: primitive.NewObjectID()}
	users.users[subscribed.ID] = subscribed
	users.users[unsubscribed.ID] = unsubscribed
	deletedOwner := primitive.NewObjectID()

	proposals := &fakeProposalRepo{proposals: make(map[primitive.ObjectID]*models.Proposal)}
	add := func(owner *primitive.ObjectID, createdAt time.Time) primitive.ObjectID {
		p := &models.Proposal{ID: primitive.NewObjectID(), OwnerID: owner, CreatedAt: createdAt}
		proposals.proposals[p.ID] = p
		return p.ID
	}

	oldSubscribed := add(&subscribed.ID, old)
	oldUnsubscribed := add(&unsubscribed.ID, old)
	oldAnonymous := add(nil, old)
	oldOrphaned := add(&deletedOwner, old)
	recent := add(&unsubscribed.ID, fresh)

	sweeper := NewExpirySweeper(proposals, users, 30, zap.NewNop().Sugar())
	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	tests := []struct {
		name    string
		id      primitive.ObjectID
		expired bool
	}{
		{"subscribed owner keeps old proposal", oldSubscribed, false},
		{"unsubscribed owner expires", oldUnsubscribed, true},
		{"anonymous expires", oldAnonymous, true},
		{"deleted owner expires", oldOrphaned, true},
		{"recent proposal untouched", recent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := proposals.proposals[tt.id].IsExpired; got != tt.expired {
				t.Errorf("IsExpired = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestSweepIdempotent(t *testing.T) {
	users := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	proposals := &fakeProposalRepo{proposals: make(map[primitive.ObjectID]*models.Proposal)}
	p := &models.Proposal{ID: primitive.NewObjectID(), CreatedAt: time.Now().UTC().Add(-60 * 24 * time.Hour)}
	proposals.proposals[p.ID] = p

	sweeper := NewExpirySweeper(proposals, users, 30, zap.NewNop().Sugar())
	for i := 0; i < 2; i++ {
		if err := sweeper.Sweep(context.Background()); err != nil {
			t.Fatalf("Sweep %d: %v", i, err)
		}
	}
	if !proposals.proposals[p.ID].IsExpired {
		t.Error("old proposal not expired")
	}
}
