package repositories

import (
	"context"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ListActive(ctx context.Context) ([]*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// SectionRepository defines the CRUD surface shared by every credential
// section table. All lookups are scoped to the owning user.
type SectionRepository[T any] interface {
	Create(ctx context.Context, rec *T) error
	GetByID(ctx context.Context, userID, id uint) (*T, error)
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, userID, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]*T, error)
	ListPage(ctx context.Context, userID uint, offset, limit int) ([]*T, int64, error)
}

// CredentialRepository groups the six credential section tables plus the
// cross-section queries the alert scheduler and dashboard need
type CredentialRepository interface {
	Licenses() SectionRepository[models.License]
	Privileges() SectionRepository[models.Privilege]
	Insurance() SectionRepository[models.InsurancePolicy]
	Education() SectionRepository[models.Education]
	HealthRecords() SectionRepository[models.HealthRecord]
	WorkEntries() SectionRepository[models.WorkEntry]

	// ListExpirable flattens every dated record of a user into alert input
	ListExpirable(ctx context.Context, userID uint) ([]domain.ExpiringItem, error)
	// CountsBySection returns record counts keyed by section name
	CountsBySection(ctx context.Context, userID uint) (map[string]int64, error)
}

// CMERepository defines CME entry repository interface
type CMERepository interface {
	Create(ctx context.Context, entry *models.CMEEntry) error
	GetByID(ctx context.Context, userID, id uint) (*models.CMEEntry, error)
	Update(ctx context.Context, entry *models.CMEEntry) error
	Delete(ctx context.Context, userID, id uint) error
	List(ctx context.Context, userID uint, offset, limit int) ([]*models.CMEEntry, int64, error)
	ListAll(ctx context.Context, userID uint) ([]*models.CMEEntry, error)
	SumHours(ctx context.Context, userID uint) (float64, error)
}

// MasterRepository defines master data repository interface
type MasterRepository interface {
	ListStateRequirements(ctx context.Context) ([]*models.StateRequirement, error)
	GetStateRequirement(ctx context.Context, state, degree string) (*models.StateRequirement, error)
	CreateStateRequirement(ctx context.Context, req *models.StateRequirement) error
	CountStateRequirements(ctx context.Context) (int64, error)
	SearchCPTCodes(ctx context.Context, query string, limit int) ([]*models.CPTCode, error)
	CreateCPTCodes(ctx context.Context, codes []*models.CPTCode) error
	CountCPTCodes(ctx context.Context) (int64, error)
}

// AlertSettingsRepository defines alert settings repository interface
type AlertSettingsRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.AlertSettings, error)
	Create(ctx context.Context, settings *models.AlertSettings) error
	Update(ctx context.Context, settings *models.AlertSettings) error
}
