package models

import (
	"time"

	"medcredhub/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Master Tables
// ============================================================

// StateRequirement is the per-(state, degree) CME rule (Master).
// TotalHours 0 means the state has no general hour requirement.
type StateRequirement struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	State            string         `gorm:"size:2;not null;uniqueIndex:idx_state_degree" json:"state"`
	Degree           string         `gorm:"size:4;not null;uniqueIndex:idx_state_degree" json:"degree"`
	TotalHours       float64        `gorm:"type:decimal(6,2);not null" json:"total_hours"`
	CycleYears       int            `gorm:"not null" json:"cycle_years"`
	Category1Minimum float64        `gorm:"type:decimal(6,2);default:0" json:"category1_minimum"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Topics []TopicRequirement `gorm:"foreignKey:StateRequirementID" json:"topics,omitempty"`
}

func (StateRequirement) TableName() string {
	return "state_requirements"
}

// ToDomain converts the stored rule into the compliance engine's input shape
func (r *StateRequirement) ToDomain() domain.StateRequirement {
	req := domain.StateRequirement{
		State:            r.State,
		Degree:           domain.DegreeType(r.Degree),
		TotalHours:       r.TotalHours,
		CycleYears:       r.CycleYears,
		Category1Minimum: r.Category1Minimum,
	}
	for _, t := range r.Topics {
		req.Topics = append(req.Topics, domain.TopicRequirement{
			Topic:         t.Topic,
			RequiredHours: t.RequiredHours,
			Note:          t.Note,
		})
	}
	return req
}

// TopicRequirement is one per-topic mandate row under a state requirement
type TopicRequirement struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	StateRequirementID uint      `gorm:"not null;index" json:"state_requirement_id"`
	Topic              string    `gorm:"size:100;not null" json:"topic"`
	RequiredHours      float64   `gorm:"type:decimal(6,2);not null" json:"required_hours"`
	Note               string    `gorm:"type:text" json:"note"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TopicRequirement) TableName() string {
	return "topic_requirements"
}

// CPTCode is a procedure code row for fuzzy search (Master)
type CPTCode struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Description string         `gorm:"size:255;not null" json:"description"`
	Category    string         `gorm:"size:100" json:"category"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CPTCode) TableName() string {
	return "cpt_codes"
}
