package scheduler

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/treydodson26/talo-studio/internal/repository"
	"github.com/treydodson26/talo-studio/internal/service"
)

const maxAttempts = 3

// Mailer delivers one queued email. The notify binary wires the
// webhook-backed mailer; dev setups can use the console one.
type Mailer interface {
	SendEmail(ctx context.Context, recipient, subject, body string) error
}

// Scheduler drains the email queue on a fixed cron tick. Campaign sends
// only enqueue; this is the piece that actually delivers.
type Scheduler struct {
	cron   *cron.Cron
	comms  *repository.CommsRepo
	mailer Mailer
	log    zerolog.Logger
}

func New(comms *repository.CommsRepo, mailer Mailer) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		comms:  comms,
		mailer: mailer,
		log:    zerolog.New(os.Stdout).With().Timestamp().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() {
	s.cron.AddFunc("@every 30s", s.processQueue)
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) processQueue() {
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	items, err := s.comms.DuePending(ctx, time.Now(), 100)
	if err != nil {
		s.log.Error().Err(err).Msg("load due queue items")
		return
	}
	for _, item := range items {
		err := s.mailer.SendEmail(ctx, item.Recipient, item.Subject, item.Body)
		if err == nil {
			if err := s.comms.MarkSent(ctx, item.ID); err != nil {
				s.log.Error().Err(err).Str("item_id", item.ID).Msg("mark sent")
			}
			continue
		}

		attempts := item.Attempts + 1
		// non-retryable failures burn all attempts at once
		if !service.ShouldRetry(err) {
			attempts = maxAttempts
		}
		s.log.Warn().Err(err).Str("item_id", item.ID).Int("attempts", attempts).Msg("send failed")
		if err := s.comms.MarkAttemptFailed(ctx, item.ID, attempts, maxAttempts, err.Error()); err != nil {
			s.log.Error().Err(err).Str("item_id", item.ID).Msg("mark failed")
		}
	}
	if len(items) > 0 {
		s.log.Info().Int("processed", len(items)).Msg("queue tick done")
	}
}
