package services

import (
	"context"
	"errors"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/adapters/persistence/repositories"
	"medcredhub/internal/core/domain"

	"gorm.io/gorm"
)

// Credential errors
var (
	ErrCredentialNotFound = errors.New("credential record not found")
)

// CredentialService handles the user-managed credential sections. The
// per-section CRUD is a direct mapping from input to stored record; the
// cross-section queries feed the alert scheduler and dashboard.
type CredentialService struct {
	repo repositories.CredentialRepository
}

// NewCredentialService creates a new credential service
func NewCredentialService(repo repositories.CredentialRepository) *CredentialService {
	return &CredentialService{repo: repo}
}

// Section accessors used by the CRUD handlers

func (s *CredentialService) Licenses() repositories.SectionRepository[models.License] {
	return s.repo.Licenses()
}

func (s *CredentialService) Privileges() repositories.SectionRepository[models.Privilege] {
	return s.repo.Privileges()
}

func (s *CredentialService) Insurance() repositories.SectionRepository[models.InsurancePolicy] {
	return s.repo.Insurance()
}

func (s *CredentialService) Education() repositories.SectionRepository[models.Education] {
	return s.repo.Education()
}

func (s *CredentialService) HealthRecords() repositories.SectionRepository[models.HealthRecord] {
	return s.repo.HealthRecords()
}

func (s *CredentialService) WorkEntries() repositories.SectionRepository[models.WorkEntry] {
	return s.repo.WorkEntries()
}

// ListExpirable flattens every dated record of a user into alert input
func (s *CredentialService) ListExpirable(ctx context.Context, userID uint) ([]domain.ExpiringItem, error) {
	return s.repo.ListExpirable(ctx, userID)
}

// CountsBySection returns record counts keyed by section name
func (s *CredentialService) CountsBySection(ctx context.Context, userID uint) (map[string]int64, error) {
	return s.repo.CountsBySection(ctx, userID)
}

// GetSectionRecord is the shared get-or-not-found helper used by the
// section handlers
func GetSectionRecord[T any](ctx context.Context, repo repositories.SectionRepository[T], userID, id uint) (*T, error) {
	rec, err := repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	return rec, nil
}

// DeleteSectionRecord is the shared delete-or-not-found helper used by the
// section handlers
func DeleteSectionRecord[T any](ctx context.Context, repo repositories.SectionRepository[T], userID, id uint) error {
	if err := repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCredentialNotFound
		}
		return err
	}
	return nil
}
