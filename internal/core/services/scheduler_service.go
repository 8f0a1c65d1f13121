package services

import (
	"context"
	"log"
	"time"

	"svs-schoolpay/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the periodic housekeeping jobs: expiring fee
// structures whose effective window has closed and pruning dead
// refresh tokens.
type SchedulerService struct {
	feeStructureRepo repositories.FeeStructureRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(
	feeStructureRepo repositories.FeeStructureRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *SchedulerService {
	return &SchedulerService{
		feeStructureRepo: feeStructureRepo,
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start registers the jobs and starts the scheduler
func (s *SchedulerService) Start() error {
	// Expire fee structures shortly after midnight
	if _, err := s.cron.AddFunc("15 0 * * *", s.expireFeeStructures); err != nil {
		return err
	}

	// Prune expired refresh tokens hourly
	if _, err := s.cron.AddFunc("@hourly", s.pruneRefreshTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("⏰ Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("⏰ Scheduler stopped")
}

func (s *SchedulerService) expireFeeStructures() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.feeStructureRepo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		log.Printf("⚠️ Fee structure expiry job failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("⏰ Deactivated %d expired fee structure(s)", count)
	}
}

func (s *SchedulerService) pruneRefreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Refresh token prune job failed: %v", err)
	}
}
