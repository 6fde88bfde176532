package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// PinExpirer removes feed pins whose expiry has passed.
type PinExpirer interface {
	ClearExpiredPins(ctx context.Context) (int, error)
}

// SummarySender produces the monthly points summary notifications.
type SummarySender interface {
	SendMonthlySummaries(ctx context.Context) (int, error)
}

// Scheduler runs the periodic maintenance jobs of the application.
type Scheduler struct {
	cron       *cron.Cron
	pinExpirer PinExpirer
	summaries  SummarySender
}

func New(pinExpirer PinExpirer, summaries SummarySender) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		pinExpirer: pinExpirer,
		summaries:  summaries,
	}
}

// Start registers the jobs and launches the cron loop in the background.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 15m", s.expirePins); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@monthly", s.sendMonthlySummaries); err != nil {
		return err
	}
	s.cron.Start()
	log.Info("Scheduler started")
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) expirePins() {
	if _, err := s.pinExpirer.ClearExpiredPins(context.Background()); err != nil {
		log.Errorf("scheduled pin expiry failed: %v", err)
	}
}

func (s *Scheduler) sendMonthlySummaries() {
	sent, err := s.summaries.SendMonthlySummaries(context.Background())
	if err != nil {
		log.Errorf("monthly summary digest failed: %v", err)
		return
	}
	log.Infof("Monthly summary digest sent %d notifications", sent)
}
