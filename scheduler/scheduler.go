// Package scheduler runs the periodic maintenance jobs. Today that is the
// nightly visit aggregation.
package scheduler

import (
	"context"
	"time"

	"github.com/pitabwire/util"
	"github.com/robfig/cron/v3"

	"github.com/gnuboard/goboard/service/repository"
)

// Scheduler owns the cron runner.
type Scheduler struct {
	cron   *cron.Cron
	visits repository.VisitRepository
}

// New builds a Scheduler over the given visit repository.
func New(visits repository.VisitRepository) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		visits: visits,
	}
}

// Start registers the jobs and launches the runner.
func (s *Scheduler) Start(ctx context.Context) error {
	log := util.Log(ctx)

	// Shortly after midnight, roll yesterday's visits into the summary
	// table.
	_, err := s.cron.AddFunc("5 0 * * *", func() {
		yesterday := time.Now().AddDate(0, 0, -1)
		if err := s.visits.SummarizeDay(ctx, yesterday); err != nil {
			log.WithError(err).Error("visit summary job failed")
			return
		}
		log.WithField("day", yesterday.Format("2006-01-02")).Info("visit summary updated")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the runner, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
