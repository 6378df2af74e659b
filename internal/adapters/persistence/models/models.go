package models

import (
	"strconv"
	"time"

	"medcredhub/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table (one physician account)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FullName  string         `gorm:"size:100" json:"full_name"`
	Degree    string         `gorm:"size:4;default:'MD'" json:"degree"`
	NPINumber string         `gorm:"size:20" json:"npi_number"`
	Role      string         `gorm:"size:20;default:'USER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Degree    string    `json:"degree"`
	NPINumber string    `json:"npi_number,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Degree:    u.Degree,
		NPINumber: u.NPINumber,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Credential Section Tables
// ============================================================

// Section names used in alerts and dashboards
const (
	SectionLicenses      = "licenses"
	SectionPrivileges    = "privileges"
	SectionInsurance     = "insurance"
	SectionEducation     = "education"
	SectionHealthRecords = "health_records"
	SectionCME           = "cme"
)

// License represents licenses table (state medical licenses)
type License struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	State          string         `gorm:"size:2;not null" json:"state"`
	LicenseNumber  string         `gorm:"size:50" json:"license_number"`
	Board          string         `gorm:"size:100" json:"board"`
	IssuedAt       *time.Time     `gorm:"type:date" json:"issued_at"`
	ExpirationDate *time.Time     `gorm:"type:date;index" json:"expiration_date"`
	Remark         string         `gorm:"type:text" json:"remark"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (License) TableName() string {
	return "licenses"
}

func (l *License) Section() string        { return SectionLicenses }
func (l *License) Label() string          { return l.State + " " + l.LicenseNumber }
func (l *License) Expiration() *time.Time { return l.ExpirationDate }

// Privilege represents privileges table (hospital privileges)
type Privilege struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Hospital       string         `gorm:"size:150;not null" json:"hospital"`
	Department     string         `gorm:"size:100" json:"department"`
	Status         string         `gorm:"size:30" json:"status"`
	ExpirationDate *time.Time     `gorm:"type:date;index" json:"expiration_date"`
	Remark         string         `gorm:"type:text" json:"remark"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Privilege) TableName() string {
	return "privileges"
}

func (p *Privilege) Section() string        { return SectionPrivileges }
func (p *Privilege) Label() string          { return p.Hospital }
func (p *Privilege) Expiration() *time.Time { return p.ExpirationDate }

// InsurancePolicy represents insurance_policies table (malpractice coverage)
type InsurancePolicy struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Carrier        string         `gorm:"size:100;not null" json:"carrier"`
	PolicyNumber   string         `gorm:"size:50" json:"policy_number"`
	CoverageType   string         `gorm:"size:50" json:"coverage_type"`
	CoverageAmount float64        `gorm:"type:decimal(15,2)" json:"coverage_amount"`
	ExpirationDate *time.Time     `gorm:"type:date;index" json:"expiration_date"`
	Remark         string         `gorm:"type:text" json:"remark"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InsurancePolicy) TableName() string {
	return "insurance_policies"
}

func (i *InsurancePolicy) Section() string        { return SectionInsurance }
func (i *InsurancePolicy) Label() string          { return i.Carrier + " " + i.PolicyNumber }
func (i *InsurancePolicy) Expiration() *time.Time { return i.ExpirationDate }

// Education represents educations table (degrees and board certifications;
// ExpirationDate is the certification expiry where one applies)
type Education struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Institution    string         `gorm:"size:150;not null" json:"institution"`
	Degree         string         `gorm:"size:50" json:"degree"`
	FieldOfStudy   string         `gorm:"size:100" json:"field_of_study"`
	CompletedAt    *time.Time     `gorm:"type:date" json:"completed_at"`
	ExpirationDate *time.Time     `gorm:"type:date;index" json:"expiration_date"`
	Remark         string         `gorm:"type:text" json:"remark"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Education) TableName() string {
	return "educations"
}

func (e *Education) Section() string        { return SectionEducation }
func (e *Education) Label() string          { return e.Institution }
func (e *Education) Expiration() *time.Time { return e.ExpirationDate }

// HealthRecord represents health_records table (immunizations, TB tests,
// fit tests — anything hospitals ask to see with a validity window)
type HealthRecord struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	RecordType     string         `gorm:"size:50;not null" json:"record_type"`
	Provider       string         `gorm:"size:100" json:"provider"`
	PerformedAt    *time.Time     `gorm:"type:date" json:"performed_at"`
	ExpirationDate *time.Time     `gorm:"type:date;index" json:"expiration_date"`
	Remark         string         `gorm:"type:text" json:"remark"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (HealthRecord) TableName() string {
	return "health_records"
}

func (h *HealthRecord) Section() string        { return SectionHealthRecords }
func (h *HealthRecord) Label() string          { return h.RecordType }
func (h *HealthRecord) Expiration() *time.Time { return h.ExpirationDate }

// WorkEntry represents work_entries table (employment history; feeds the CV
// generator, not the alert scheduler)
type WorkEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Employer  string         `gorm:"size:150;not null" json:"employer"`
	Position  string         `gorm:"size:100" json:"position"`
	StartedAt *time.Time     `gorm:"type:date" json:"started_at"`
	EndedAt   *time.Time     `gorm:"type:date" json:"ended_at"`
	Remark    string         `gorm:"type:text" json:"remark"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WorkEntry) TableName() string {
	return "work_entries"
}

// ============================================================
// CME Tables
// ============================================================

// CMEEntry represents cme_entries table (one earned credit record)
type CMEEntry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Provider    string         `gorm:"size:150" json:"provider"`
	Hours       float64        `gorm:"type:decimal(6,2);not null;default:0" json:"hours"`
	Category    string         `gorm:"size:50" json:"category"`
	Topics      []string       `gorm:"serializer:json;type:json" json:"topics"`
	CompletedAt *time.Time     `gorm:"type:date" json:"completed_at"`
	Certificate string         `gorm:"size:255" json:"certificate"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CMEEntry) TableName() string {
	return "cme_entries"
}

// ToDomain converts the stored row into the engine's read-only input shape
func (e *CMEEntry) ToDomain() domain.CMEEntry {
	return domain.CMEEntry{
		ID:        strconv.FormatUint(uint64(e.ID), 10),
		Title:     e.Title,
		Hours:     domain.Hours(e.Hours),
		Category:  e.Category,
		Topics:    e.Topics,
		Completed: e.CompletedAt,
	}
}

// ============================================================
// Alert Settings
// ============================================================

// AlertSettings represents alert_settings table. It holds the caller-owned
// scheduling state: the stored fingerprint, snooze and last-notified
// timestamps the cron service threads through the alert engine.
type AlertSettings struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	UserID                 uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	TrackedStates          []string   `gorm:"serializer:json;type:json" json:"tracked_states"`
	ReminderLeadDays       int        `gorm:"not null;default:90" json:"reminder_lead_days"`
	NotifyFrequencyDays    int        `gorm:"not null;default:7" json:"notify_frequency_days"`
	EmailEnabled           bool       `gorm:"default:true" json:"email_enabled"`
	SnoozedUntil           *time.Time `json:"snoozed_until"`
	LastNotifiedAt         *time.Time `json:"last_notified_at"`
	Fingerprint            string     `gorm:"size:64" json:"fingerprint"`
	EffectiveFrequencyDays int        `gorm:"default:7" json:"effective_frequency_days"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AlertSettings) TableName() string {
	return "alert_settings"
}

// IsSnoozed reports whether notifications are currently snoozed
func (s *AlertSettings) IsSnoozed(now time.Time) bool {
	return s.SnoozedUntil != nil && now.Before(*s.SnoozedUntil)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&User{},
		&RefreshToken{},
		// Credential sections
		&License{},
		&Privilege{},
		&InsurancePolicy{},
		&Education{},
		&HealthRecord{},
		&WorkEntry{},
		// CME
		&CMEEntry{},
		// Settings
		&AlertSettings{},
		// Master tables
		&StateRequirement{},
		&TopicRequirement{},
		&CPTCode{},
	)
}
