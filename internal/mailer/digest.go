package mailer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// QueuedVote is one pending vote notification.
type QueuedVote struct {
	VoteID  string
	Name    string
	Opinion string
	Comment string
	Action  string // "submit" or "update"
}

type pendingDigest struct {
	proposalTitle string
	proposalSlug  string
	recipient     string
	votes         []QueuedVote
	timer         *time.Timer
}

// DigestQueue batches vote notifications per proposal: the first vote arms a
// delay timer, later votes within the window join the same batch, and one
// email summarizing all of them goes out when the timer fires. Pending
// entries live only in this process; a restart drops them.
type DigestQueue struct {
	mu      sync.Mutex
	pending map[string]*pendingDigest
	sender  Sender
	origin  string
	delay   time.Duration
	logger  *zap.SugaredLogger
	closed  bool
	wg      sync.WaitGroup
}

func NewDigestQueue(sender Sender, origin string, delay time.Duration, logger *zap.SugaredLogger) *DigestQueue {
	return &DigestQueue{
		pending: make(map[string]*pendingDigest),
		sender:  sender,
		origin:  origin,
		delay:   delay,
		logger:  logger,
	}
}

// Add queues a vote notification for the proposal. A vote already queued
// under the same id is replaced rather than duplicated, so an update within
// the window amends the earlier entry.
func (q *DigestQueue) Add(proposalID, proposalTitle, proposalSlug, recipient string, vote QueuedVote) {
	if recipient == "" {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}

	entry, ok := q.pending[proposalID]
	if !ok {
		entry = &pendingDigest{
			proposalTitle: proposalTitle,
			proposalSlug:  proposalSlug,
			recipient:     recipient,
		}
		q.pending[proposalID] = entry
		entry.timer = time.AfterFunc(q.delay, func() { q.flush(proposalID) })
	}

	for i := range entry.votes {
		if vote.VoteID != "" && entry.votes[i].VoteID == vote.VoteID {
			entry.votes[i] = vote
			return
		}
	}
	entry.votes = append(entry.votes, vote)
}

func (q *DigestQueue) flush(proposalID string) {
	q.mu.Lock()
	entry, ok := q.pending[proposalID]
	if ok {
		delete(q.pending, proposalID)
		// Registered before the entry is released so Close's Wait cannot
		// miss a send that is already in flight.
		q.wg.Add(1)
	}
	q.mu.Unlock()
	if !ok {
		return
	}
	defer q.wg.Done()

	if len(entry.votes) == 0 {
		return
	}

	subject, content := digestContent(entry, q.origin)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := q.sender.Send(ctx, []string{entry.recipient}, subject, content); err != nil {
		q.logger.Errorf("vote digest email failed for proposal %s: %v", proposalID, err)
	}
}

// Close cancels pending timers, sends whatever is queued, and waits for the
// sends to finish.
func (q *DigestQueue) Close() {
	q.mu.Lock()
	q.closed = true
	ids := make([]string, 0, len(q.pending))
	for id, entry := range q.pending {
		entry.timer.Stop()
		ids = append(ids, id)
	}
	q.mu.Unlock()

	for _, id := range ids {
		q.flush(id)
	}
	q.wg.Wait()
}

// Len reports the number of proposals with queued notifications.
func (q *DigestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func digestContent(entry *pendingDigest, origin string) (string, string) {
	link := fmt.Sprintf(`<p><a href="%s%s">View Proposal</a></p>`, origin, entry.proposalSlug)

	if len(entry.votes) == 1 {
		v := entry.votes[0]
		verb, title := "submitted", "New Vote Submitted"
		if v.Action == "update" {
			verb, title = "updated", "Vote Updated"
		}
		var b strings.Builder
		fmt.Fprintf(&b, `<p>A vote has been %s for your proposal titled "<strong>%s</strong>".</p>`, verb, entry.proposalTitle)
		fmt.Fprintf(&b, "<p><strong>Submitted by:</strong> %s</p>", v.Name)
		fmt.Fprintf(&b, "<p><strong>Vote:</strong> %s</p>", v.Opinion)
		fmt.Fprintf(&b, "<p><strong>Comment:</strong> %s</p>", v.Comment)
		b.WriteString(link)
		return title, b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<p>Multiple votes have been submitted for your proposal titled "<strong>%s</strong>".</p>`, entry.proposalTitle)
	for _, v := range entry.votes {
		fmt.Fprintf(&b, "<p><strong>Submitted by:</strong> %s</p>", v.Name)
		fmt.Fprintf(&b, "<p><strong>Vote:</strong> %s</p>", v.Opinion)
		fmt.Fprintf(&b, "<p><strong>Comment:</strong> %s</p><hr>", v.Comment)
	}
	b.WriteString(link)
	return "Multiple Vote Notifications", b.String()
}
