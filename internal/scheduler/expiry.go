package scheduler

import (
	"context"
	"time"

	"github.com/jordan-levelle/CC-Server/internal/repository"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpirySweeper flags proposals older than the retention window whose owner
// has no active subscription. It runs once a day; a failed run is simply
// retried at the next tick.
type ExpirySweeper struct {
	proposals repository.ProposalRepository
	users     repository.UserRepository
	retention time.Duration
	logger    *zap.SugaredLogger
	cron      *cron.Cron
}

func NewExpirySweeper(proposals repository.ProposalRepository, users repository.UserRepository, retentionDays int, logger *zap.SugaredLogger) *ExpirySweeper {
	return &ExpirySweeper{
		proposals: proposals,
		users:     users,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}
}

// Start schedules the daily sweep at midnight.
func (s *ExpirySweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc("0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.Sweep(ctx); err != nil {
			s.logger.Errorf("expiry sweep failed: %v", err)
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *ExpirySweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep performs one pass. Proposals owned by subscribed users are left
// alone; anonymous proposals (nil owner) expire like unsubscribed ones.
func (s *ExpirySweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.retention)
	candidates, err := s.proposals.FindOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	expired := 0
	for i := range candidates {
		p := &candidates[i]
		if p.OwnerID != nil {
			owner, err := s.users.FindByID(ctx, *p.OwnerID)
			if err == nil && owner.SubscriptionStatus {
				continue
			}
			if err != nil && err != repository.ErrUserNotFound {
				s.logger.Errorf("expiry sweep: owner lookup for proposal %s: %v", p.ID.Hex(), err)
				continue
			}
		}
		p.IsExpired = true
		if err := s.proposals.Update(ctx, p); err != nil {
			s.logger.Errorf("expiry sweep: flag proposal %s: %v", p.ID.Hex(), err)
			continue
		}
		expired++
	}

	s.logger.Infof("expiry sweep done, %d of %d candidates flagged", expired, len(candidates))
	return nil
}
