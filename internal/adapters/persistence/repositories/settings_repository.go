package repositories

import (
	"context"

	"medcredhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// alertSettingsRepository implements AlertSettingsRepository interface
type alertSettingsRepository struct {
	db *gorm.DB
}

// NewAlertSettingsRepository creates a new alert settings repository
func NewAlertSettingsRepository(db *gorm.DB) AlertSettingsRepository {
	return &alertSettingsRepository{db: db}
}

// GetByUserID gets the alert settings row of a user
func (r *alertSettingsRepository) GetByUserID(ctx context.Context, userID uint) (*models.AlertSettings, error) {
	var settings models.AlertSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Create creates an alert settings row
func (r *alertSettingsRepository) Create(ctx context.Context, settings *models.AlertSettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

// Update updates an alert settings row
func (r *alertSettingsRepository) Update(ctx context.Context, settings *models.AlertSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
