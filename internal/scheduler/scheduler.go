package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often the scheduler scans for due entries.
const DefaultPollInterval = time.Minute

// Scheduler queues follow-up emails and delivers them once their send
// time arrives.
type Scheduler struct {
	registry *Registry
	sender   EmailSender
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithPollInterval overrides the poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithClock overrides the time source. Tests use this to move the
// follow-up window around.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New builds a Scheduler around a registry and a sender.
func New(registry *Registry, sender EmailSender, logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		registry: registry,
		sender:   sender,
		logger:   logger,
		interval: DefaultPollInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleFollowUp queues a follow-up email for the applicant, due the
// next day at 10:00 UTC.
func (s *Scheduler) ScheduleFollowUp(ctx context.Context, email, name string) error {
	sendAt := nextFollowUpTime(s.now())
	if err := s.registry.Schedule(ctx, email, name, sendAt); err != nil {
		return err
	}
	s.logger.Info("follow-up email scheduled",
		zap.String("email", email),
		zap.Time("sendAt", sendAt))
	return nil
}

// Start launches the background poller. It is a no-op if the poller is
// already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.dispatchDue(ctx)
			}
		}
	}()
}

// Stop halts the poller and waits for the in-flight scan to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// DispatchDue sends every entry whose time has come, removing each from
// the queue after a successful send. Failed sends stay queued.
func (s *Scheduler) DispatchDue(ctx context.Context) {
	s.dispatchDue(ctx)
}

func (s *Scheduler) dispatchDue(ctx context.Context) {
	entries, err := s.registry.Due(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to scan follow-up queue", zap.Error(err))
		return
	}

	for _, entry := range entries {
		if err := s.sender.SendFollowUp(ctx, entry.Email, entry.Name); err != nil {
			s.logger.Error("failed to send follow-up email",
				zap.String("email", entry.Email),
				zap.Error(err))
			continue
		}
		if err := s.registry.Remove(ctx, entry.Email); err != nil {
			s.logger.Error("failed to dequeue follow-up", zap.String("email", entry.Email), zap.Error(err))
			continue
		}
		s.logger.Info("follow-up email sent", zap.String("email", entry.Email))
	}
}

// nextFollowUpTime is the next day at 10:00 UTC relative to now.
func nextFollowUpTime(now time.Time) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 10, 0, 0, 0, time.UTC)
	return next
}
