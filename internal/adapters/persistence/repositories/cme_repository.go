package repositories

import (
	"context"

	"medcredhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// cmeRepository implements CMERepository interface
type cmeRepository struct {
	db *gorm.DB
}

// NewCMERepository creates a new CME repository
func NewCMERepository(db *gorm.DB) CMERepository {
	return &cmeRepository{db: db}
}

// Create creates a new CME entry
func (r *cmeRepository) Create(ctx context.Context, entry *models.CMEEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID gets a CME entry by ID, scoped to the owning user
func (r *cmeRepository) GetByID(ctx context.Context, userID, id uint) (*models.CMEEntry, error) {
	var entry models.CMEEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update updates a CME entry
func (r *cmeRepository) Update(ctx context.Context, entry *models.CMEEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete soft-deletes a CME entry, scoped to the owning user
func (r *cmeRepository) Delete(ctx context.Context, userID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CMEEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List gets CME entries of a user with pagination
func (r *cmeRepository) List(ctx context.Context, userID uint, offset, limit int) ([]*models.CMEEntry, int64, error) {
	var entries []*models.CMEEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.CMEEntry{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("completed_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListAll gets every CME entry of a user (compliance engine input)
func (r *cmeRepository) ListAll(ctx context.Context, userID uint) ([]*models.CMEEntry, error) {
	var entries []*models.CMEEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SumHours returns the total recorded hours of a user
func (r *cmeRepository) SumHours(ctx context.Context, userID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.CMEEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
