package cron

import (
	"context"
	"log"

	"github.com/gonzalezcreative/directoryv7/internal/service"
	"github.com/robfig/cron/v3"
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	services *service.Services
}

// NewScheduler creates a new scheduler
func NewScheduler(services *service.Services) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		services: services,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every 5 minutes - expire abandoned payment sessions
	s.cron.AddFunc("*/5 * * * *", func() {
		log.Println("[Cron] Running payment session expiry...")
		s.expireStaleSessions()
	})

	// Clean up resolved payment sessions - Run every Sunday at midnight
	s.cron.AddFunc("0 0 * * 0", func() {
		log.Println("[Cron] Running payment session cleanup...")
		s.purgeResolvedSessions()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// expireStaleSessions marks open payment sessions past their TTL as expired.
// A user who walked away from the payment step never sends a cancel signal,
// so the sweep is what closes those sessions.
func (s *Scheduler) expireStaleSessions() {
	ctx := context.Background()

	expired, err := s.services.Payment.ExpireStaleSessions(ctx)
	if err != nil {
		log.Printf("[Cron] Error expiring payment sessions: %v", err)
		return
	}

	if expired > 0 {
		log.Printf("[Cron] Expired %d stale payment sessions", expired)
	}
}

// purgeResolvedSessions removes resolved sessions older than 30 days
func (s *Scheduler) purgeResolvedSessions() {
	ctx := context.Background()

	purged, err := s.services.Payment.PurgeResolvedSessions(ctx, 30)
	if err != nil {
		log.Printf("[Cron] Error purging payment sessions: %v", err)
		return
	}

	if purged > 0 {
		log.Printf("[Cron] Purged %d resolved payment sessions", purged)
	}
}

// ManualTrigger allows manual triggering of scheduled checks (for testing)
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case "expire":
		s.expireStaleSessions()
	case "purge":
		s.purgeResolvedSessions()
	case "all":
		s.expireStaleSessions()
		s.purgeResolvedSessions()
	}
}
