package repositories

import (
	"context"

	"medcredhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// masterRepository implements MasterRepository interface
type masterRepository struct {
	db *gorm.DB
}

// NewMasterRepository creates a new master data repository
func NewMasterRepository(db *gorm.DB) MasterRepository {
	return &masterRepository{db: db}
}

// ListStateRequirements gets every active state CME rule with its topics
func (r *masterRepository) ListStateRequirements(ctx context.Context) ([]*models.StateRequirement, error) {
	var reqs []*models.StateRequirement
	err := r.db.WithContext(ctx).
		Preload("Topics").
		Where("is_active = ?", true).
		Order("state ASC, degree ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// GetStateRequirement gets the rule for a (state, degree) pair
func (r *masterRepository) GetStateRequirement(ctx context.Context, state, degree string) (*models.StateRequirement, error) {
	var req models.StateRequirement
	err := r.db.WithContext(ctx).
		Preload("Topics").
		Where("state = ? AND degree = ? AND is_active = ?", state, degree, true).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateStateRequirement creates a state requirement with its topic rows
func (r *masterRepository) CreateStateRequirement(ctx context.Context, req *models.StateRequirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// CountStateRequirements counts state requirement rows
func (r *masterRepository) CountStateRequirements(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StateRequirement{}).Count(&count).Error
	return count, err
}

// SearchCPTCodes searches procedure codes by code prefix or description
func (r *masterRepository) SearchCPTCodes(ctx context.Context, query string, limit int) ([]*models.CPTCode, error) {
	var codes []*models.CPTCode
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("code LIKE ? OR description LIKE ?", query+"%", "%"+query+"%").
		Order("code ASC").
		Limit(limit).
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// CreateCPTCodes bulk-inserts procedure codes
func (r *masterRepository) CreateCPTCodes(ctx context.Context, codes []*models.CPTCode) error {
	if len(codes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(codes, 100).Error
}

// CountCPTCodes counts procedure code rows
func (r *masterRepository) CountCPTCodes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CPTCode{}).Count(&count).Error
	return count, err
}
