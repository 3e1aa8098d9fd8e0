package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/game-hipe/remembering/internal/domain/entity"
	"github.com/game-hipe/remembering/internal/domain/repository"
	"github.com/game-hipe/remembering/internal/pkg/logger"
)

const (
	// DefaultBatchSize is the user page size used when none is configured.
	DefaultBatchSize = 100
	// DefaultInterval is the pause between sweeps when none is configured.
	DefaultInterval = 300 * time.Second

	remindTimeLayout = "02-01-2006, 15:04:05"
	snippetRunes     = 20
)

type notifierService struct {
	userRepo  repository.UserRepository
	sender    Sender
	log       logger.Logger
	batchSize int
	interval  time.Duration
	limiter   *rate.Limiter
}

// NewNotifierService creates a new instance of NotifierService implementation.
// ratePerSec caps outbound sends across a batch; 0 disables pacing.
func NewNotifierService(
	userRepo repository.UserRepository,
	sender Sender,
	log logger.Logger,
	batchSize int,
	interval time.Duration,
	ratePerSec int,
) NotifierService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec)
	}
	return &notifierService{
		userRepo:  userRepo,
		sender:    sender,
		log:       log,
		batchSize: batchSize,
		interval:  interval,
		limiter:   limiter,
	}
}

// Start runs the sweep loop until ctx is cancelled. Each iteration performs
// one full sweep over all users, then sleeps for the configured interval.
func (s *notifierService) Start(ctx context.Context) {
	s.log.Info(fmt.Sprintf("Notifier started (batch_size=%d, interval=%s)", s.batchSize, s.interval))
	for {
		s.sweep(ctx)
		if ctx.Err() != nil {
			s.log.Info("Notifier stopped.")
			return
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("Notifier stopped.")
			return
		case <-timer.C:
		}
	}
}

// sweep performs one pass over all users. Pages are fetched in cursor order
// and dispatched strictly one at a time, which bounds concurrent outbound
// load to a single page's worth of users. A paging error abandons the sweep;
// the loop retries after the next sleep.
func (s *notifierService) sweep(ctx context.Context) {
	start := time.Now()
	cursor := uint(1)
	pages, notified := 0, 0

	for {
		if ctx.Err() != nil {
			return
		}
		users, err := s.userRepo.PageWithMemories(ctx, cursor, s.batchSize)
		if err != nil {
			s.log.Error("Failed to page users, abandoning this sweep", err)
			return
		}
		// An empty page is the authoritative end-of-stream signal. A page of
		// exactly batchSize users may still be the last non-empty one.
		if len(users) == 0 {
			break
		}
		pages++

		due := dueUsers(users, time.Now())
		notified += len(due)
		s.dispatch(ctx, due)

		cursor = users[len(users)-1].ID + 1
	}
	s.log.Info(fmt.Sprintf("Sweep finished: %d pages, %d users notified in %s", pages, notified, time.Since(start)))
}

// dispatch fans out one message per user and joins on the whole batch. A
// failed send is logged and does not affect the other recipients; the
// underlying memories stay due and are retried on the next sweep.
func (s *notifierService) dispatch(ctx context.Context, users []*entity.User) {
	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(u *entity.User) {
			defer wg.Done()
			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					return
				}
			}
			if err := s.sender.PushText(u.ChatID, formatNotification(u.Memories)); err != nil {
				s.log.Error(fmt.Sprintf("Failed to push notification to user %d (chat %s)", u.ID, u.ChatID), err)
			}
		}(user)
	}
	wg.Wait()
}

// dueUsers projects a page of users down to those with at least one due
// memory, each carrying only its due memories. The input values are not
// mutated.
func dueUsers(users []*entity.User, now time.Time) []*entity.User {
	result := make([]*entity.User, 0, len(users))
	for _, user := range users {
		due := dueMemories(user.Memories, now)
		if len(due) == 0 {
			continue
		}
		projected := *user
		projected.Memories = due
		result = append(result, &projected)
	}
	return result
}

func dueMemories(memories []entity.Memory, now time.Time) []entity.Memory {
	var due []entity.Memory
	for _, m := range memories {
		if m.Due(now) {
			due = append(due, m)
		}
	}
	return due
}

// formatNotification renders the message body for a user's due memories.
// Exactly one due memory gets the full single-item text; two or more get a
// count with an enumerated list.
func formatNotification(memories []entity.Memory) string {
	if len(memories) == 1 {
		m := memories[0]
		return fmt.Sprintf(
			"Hey! You have an unfinished item: %s.\n\nHere is what you left for yourself:\n%s\nYou wanted to be reminded of it at %s",
			m.Title, m.Content, m.RemindAt.Format(remindTimeLayout),
		)
	}

	var items strings.Builder
	for i, m := range memories {
		fmt.Fprintf(&items, "%d. %s - %s\n", i+1, m.Title, snippet(m.Content))
	}
	return fmt.Sprintf(
		"Hey! I wanted to remind you about %d memories.\n\n%sBetter take a look!",
		len(memories), items.String(),
	)
}

// snippet returns the first 20 characters of content, with an ellipsis only
// when the cut actually shortened it.
func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetRunes {
		return content
	}
	return string(runes[:snippetRunes]) + "..."
}
