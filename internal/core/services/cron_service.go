package services

import (
	"context"
	"log"

	"medcredhub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled background jobs: the daily alert scan and
// the hourly refresh-token purge
type CronService struct {
	cron             *cron.Cron
	alertService     *AlertService
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(alertService *AlertService, refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:             cron.New(),
		alertService:     alertService,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	// Daily credential scan at 08:30 server time
	if _, err := s.cron.AddFunc("30 8 * * *", s.runAlertScan); err != nil {
		return err
	}

	// Hourly purge of expired refresh tokens
	if _, err := s.cron.AddFunc("0 * * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron service started (daily alert scan 08:30, hourly token purge)")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) runAlertScan() {
	log.Println("🔔 Daily alert scan starting")
	s.alertService.RunScheduledScan(context.Background())
}

func (s *CronService) purgeExpiredTokens() {
	if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("❌ Token purge failed: %v", err)
	}
}
