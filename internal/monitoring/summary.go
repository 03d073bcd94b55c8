package monitoring

import (
	"strconv"
	"time"

	"github.com/kidchores/kidchores-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Summary logs each family member's completed-task count once a day so the
// history survives in the logs even if rows are edited later.
type Summary struct {
	taskSvc  services.TaskServiceProvider
	schedule cron.Schedule
	done     chan bool
}

// NewSummary creates the job from a standard cron expression.
func NewSummary(taskSvc services.TaskServiceProvider, spec string) (*Summary, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Summary{
		taskSvc:  taskSvc,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run sleeps until each next scheduled firing and reports the current
// day's counts.
func (s *Summary) Run() {
	log.Info().Msg("Starting completion summary job")
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping completion summary job")
			return
		case now := <-timer.C:
			s.report(now)
		}
	}
}

// Stop halts the job.
func (s *Summary) Stop() {
	s.done <- true
}

// report logs per-user counts for the day the timer fired on.
func (s *Summary) report(now time.Time) {
	dateCode := DateCode(now)
	counts, err := s.taskSvc.CompletionCounts(dateCode)
	if err != nil {
		log.Error().Err(err).Str("datecode", dateCode).Msg("Completion summary failed")
		return
	}
	if len(counts) == 0 {
		log.Info().Str("datecode", dateCode).Msg("No tasks completed today")
		return
	}
	for username, count := range counts {
		log.Info().Str("datecode", dateCode).Str("username", username).Int("completed", count).Msg("Daily completion summary")
	}
}

// DateCode converts a time to the epoch-day partition key clients use.
func DateCode(t time.Time) string {
	return strconv.FormatInt(t.Unix()/86400, 10)
}
