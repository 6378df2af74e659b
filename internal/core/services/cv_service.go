package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// CVService assembles a curriculum vitae document from the stored
// credential sections
type CVService struct {
	userRepo       repositories.UserRepository
	credentialRepo repositories.CredentialRepository
	cmeRepo        repositories.CMERepository
}

// NewCVService creates a new CV service
func NewCVService(
	userRepo repositories.UserRepository,
	credentialRepo repositories.CredentialRepository,
	cmeRepo repositories.CMERepository,
) *CVService {
	return &CVService{
		userRepo:       userRepo,
		credentialRepo: credentialRepo,
		cmeRepo:        cmeRepo,
	}
}

// CVDocument represents the assembled CV payload
type CVDocument struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	Physician     *models.UserResponse `json:"physician"`
	Education     []*models.Education  `json:"education"`
	WorkHistory   []*models.WorkEntry  `json:"work_history"`
	Licenses      []*models.License    `json:"licenses"`
	Privileges    []*models.Privilege  `json:"privileges"`
	TotalCMEHours float64              `json:"total_cme_hours"`
	RecentCME     []*models.CMEEntry   `json:"recent_cme"`
}

const recentCMELimit = 10

// Generate builds the CV document for a user
func (s *CVService) Generate(ctx context.Context, userID uint) (*CVDocument, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	education, err := s.credentialRepo.Education().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortByCompletion(education)

	work, err := s.credentialRepo.WorkEntries().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(work, func(i, j int) bool {
		return laterDate(work[i].StartedAt, work[j].StartedAt)
	})

	licenses, err := s.credentialRepo.Licenses().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	privileges, err := s.credentialRepo.Privileges().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalHours, err := s.cmeRepo.SumHours(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.cmeRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) > recentCMELimit {
		entries = entries[:recentCMELimit]
	}

	return &CVDocument{
		GeneratedAt:   time.Now(),
		Physician:     user.ToResponse(),
		Education:     education,
		WorkHistory:   work,
		Licenses:      licenses,
		Privileges:    privileges,
		TotalCMEHours: totalHours,
		RecentCME:     entries,
	}, nil
}

// sortByCompletion orders education entries newest first
func sortByCompletion(records []*models.Education) {
	sort.Slice(records, func(i, j int) bool {
		return laterDate(records[i].CompletedAt, records[j].CompletedAt)
	})
}

// laterDate reports whether a sorts after b, treating nil as oldest
func laterDate(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
