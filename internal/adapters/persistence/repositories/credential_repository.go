package repositories

import (
	"context"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/core/domain"

	"gorm.io/gorm"
)

// sectionRepository is the shared gorm-backed CRUD implementation behind
// every credential section
type sectionRepository[T any] struct {
	db *gorm.DB
}

func (r *sectionRepository[T]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *sectionRepository[T]) GetByID(ctx context.Context, userID, id uint) (*T, error) {
	var rec T
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sectionRepository[T]) Update(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *sectionRepository[T]) Delete(ctx context.Context, userID, id uint) error {
	var rec T
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&rec)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sectionRepository[T]) ListByUser(ctx context.Context, userID uint) ([]*T, error) {
	var recs []*T
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sectionRepository[T]) ListPage(ctx context.Context, userID uint, offset, limit int) ([]*T, int64, error) {
	var recs []*T
	var total int64

	var model T
	query := r.db.WithContext(ctx).Model(&model).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db            *gorm.DB
	licenses      *sectionRepository[models.License]
	privileges    *sectionRepository[models.Privilege]
	insurance     *sectionRepository[models.InsurancePolicy]
	education     *sectionRepository[models.Education]
	healthRecords *sectionRepository[models.HealthRecord]
	workEntries   *sectionRepository[models.WorkEntry]
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{
		db:            db,
		licenses:      &sectionRepository[models.License]{db: db},
		privileges:    &sectionRepository[models.Privilege]{db: db},
		insurance:     &sectionRepository[models.InsurancePolicy]{db: db},
		education:     &sectionRepository[models.Education]{db: db},
		healthRecords: &sectionRepository[models.HealthRecord]{db: db},
		workEntries:   &sectionRepository[models.WorkEntry]{db: db},
	}
}

func (r *credentialRepository) Licenses() SectionRepository[models.License] {
	return r.licenses
}

func (r *credentialRepository) Privileges() SectionRepository[models.Privilege] {
	return r.privileges
}

func (r *credentialRepository) Insurance() SectionRepository[models.InsurancePolicy] {
	return r.insurance
}

func (r *credentialRepository) Education() SectionRepository[models.Education] {
	return r.education
}

func (r *credentialRepository) HealthRecords() SectionRepository[models.HealthRecord] {
	return r.healthRecords
}

func (r *credentialRepository) WorkEntries() SectionRepository[models.WorkEntry] {
	return r.workEntries
}

// ListExpirable flattens every dated record of a user into alert input.
// Records without an expiration date are skipped.
func (r *credentialRepository) ListExpirable(ctx context.Context, userID uint) ([]domain.ExpiringItem, error) {
	var items []domain.ExpiringItem

	licenses, err := r.licenses.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range licenses {
		items = appendExpirable(items, rec)
	}

	privileges, err := r.privileges.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range privileges {
		items = appendExpirable(items, rec)
	}

	policies, err := r.insurance.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range policies {
		items = appendExpirable(items, rec)
	}

	educations, err := r.education.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range educations {
		items = appendExpirable(items, rec)
	}

	healthRecords, err := r.healthRecords.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range healthRecords {
		items = appendExpirable(items, rec)
	}

	return items, nil
}

func appendExpirable(items []domain.ExpiringItem, rec domain.Expirable) []domain.ExpiringItem {
	exp := rec.Expiration()
	if exp == nil {
		return items
	}
	return append(items, domain.ExpiringItem{
		Section:   rec.Section(),
		Label:     rec.Label(),
		ExpiresAt: *exp,
	})
}

// CountsBySection returns record counts keyed by section name
func (r *credentialRepository) CountsBySection(ctx context.Context, userID uint) (map[string]int64, error) {
	counts := make(map[string]int64)
	tables := map[string]interface{}{
		models.SectionLicenses:      &models.License{},
		models.SectionPrivileges:    &models.Privilege{},
		models.SectionInsurance:     &models.InsurancePolicy{},
		models.SectionEducation:     &models.Education{},
		models.SectionHealthRecords: &models.HealthRecord{},
		models.SectionCME:           &models.CMEEntry{},
	}
	for section, model := range tables {
		var count int64
		err := r.db.WithContext(ctx).Model(model).
			Where("user_id = ?", userID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		counts[section] = count
	}
	return counts, nil
}
