package services

import (
	"context"
	"errors"
	"strings"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/adapters/persistence/repositories"
	"medcredhub/internal/core/domain"

	"gorm.io/gorm"
)

// Master data errors
var (
	ErrStateRequirementNotFound = errors.New("state requirement not found")
	ErrStateRequirementExists   = errors.New("state requirement already exists")
	ErrInvalidStateCode         = errors.New("state must be a two-letter code")
	ErrInvalidRequirement       = errors.New("cycle years must be at least 1 and hours cannot be negative")
	ErrEmptyCodeList            = errors.New("at least one code is required")
	ErrEmptySearchQuery         = errors.New("search query is required")
)

const cptSearchLimit = 25

// MasterService serves the static reference data: per-state CME rules and
// the procedure code table
type MasterService struct {
	masterRepo repositories.MasterRepository
}

// NewMasterService creates a new master data service
func NewMasterService(masterRepo repositories.MasterRepository) *MasterService {
	return &MasterService{masterRepo: masterRepo}
}

// ListStateRequirements gets every state CME rule
func (s *MasterService) ListStateRequirements(ctx context.Context) ([]*models.StateRequirement, error) {
	return s.masterRepo.ListStateRequirements(ctx)
}

// GetStateRequirement gets the rule for a (state, degree) pair
func (s *MasterService) GetStateRequirement(ctx context.Context, state, degree string) (*models.StateRequirement, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	degree = strings.ToUpper(strings.TrimSpace(degree))

	req, err := s.masterRepo.GetStateRequirement(ctx, state, degree)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStateRequirementNotFound
		}
		return nil, err
	}
	return req, nil
}

// SearchCPTCodes searches procedure codes by code prefix or description
func (s *MasterService) SearchCPTCodes(ctx context.Context, query string) ([]*models.CPTCode, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearchQuery
	}
	return s.masterRepo.SearchCPTCodes(ctx, query, cptSearchLimit)
}

// ============================================================
// Admin maintenance
// ============================================================

// TopicInput represents one topic mandate in a state requirement input
type TopicInput struct {
	Topic         string  `json:"topic" validate:"required"`
	RequiredHours float64 `json:"required_hours" validate:"min=0"`
	Note          string  `json:"note"`
}

// StateRequirementInput represents state requirement creation input
type StateRequirementInput struct {
	State            string       `json:"state" validate:"required,len=2"`
	Degree           string       `json:"degree" validate:"required,oneof=MD DO"`
	TotalHours       float64      `json:"total_hours" validate:"min=0"`
	CycleYears       int          `json:"cycle_years" validate:"required,min=1"`
	Category1Minimum float64      `json:"category1_minimum" validate:"min=0"`
	Topics           []TopicInput `json:"topics"`
}

// CreateStateRequirement adds a board rule for a (state, degree) pair
func (s *MasterService) CreateStateRequirement(ctx context.Context, input *StateRequirementInput) (*models.StateRequirement, error) {
	state := strings.ToUpper(strings.TrimSpace(input.State))
	degree := strings.ToUpper(strings.TrimSpace(input.Degree))

	if len(state) != 2 {
		return nil, ErrInvalidStateCode
	}
	if degree != string(domain.DegreeMD) && degree != string(domain.DegreeDO) {
		return nil, domain.ErrInvalidDegree
	}
	if input.CycleYears < 1 || input.TotalHours < 0 || input.Category1Minimum < 0 {
		return nil, ErrInvalidRequirement
	}

	if _, err := s.masterRepo.GetStateRequirement(ctx, state, degree); err == nil {
		return nil, ErrStateRequirementExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	req := &models.StateRequirement{
		State:            state,
		Degree:           degree,
		TotalHours:       input.TotalHours,
		CycleYears:       input.CycleYears,
		Category1Minimum: input.Category1Minimum,
		IsActive:         true,
	}
	for _, topic := range input.Topics {
		name := strings.TrimSpace(topic.Topic)
		if name == "" || topic.RequiredHours < 0 {
			return nil, ErrInvalidRequirement
		}
		req.Topics = append(req.Topics, models.TopicRequirement{
			Topic:         name,
			RequiredHours: topic.RequiredHours,
			Note:          strings.TrimSpace(topic.Note),
		})
	}

	if err := s.masterRepo.CreateStateRequirement(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// CPTCodeInput represents one procedure code in an import batch
type CPTCodeInput struct {
	Code        string `json:"code" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category"`
}

// ImportCPTCodes bulk-inserts procedure codes and returns the new table
// total. Rows with an empty code or description are rejected up front.
func (s *MasterService) ImportCPTCodes(ctx context.Context, inputs []CPTCodeInput) (int64, error) {
	if len(inputs) == 0 {
		return 0, ErrEmptyCodeList
	}

	codes := make([]*models.CPTCode, 0, len(inputs))
	for _, input := range inputs {
		code := strings.TrimSpace(input.Code)
		description := strings.TrimSpace(input.Description)
		if code == "" || description == "" {
			return 0, ErrEmptyCodeList
		}
		codes = append(codes, &models.CPTCode{
			Code:        strings.ToUpper(code),
			Description: description,
			Category:    strings.TrimSpace(input.Category),
			IsActive:    true,
		})
	}

	if err := s.masterRepo.CreateCPTCodes(ctx, codes); err != nil {
		return 0, err
	}
	return s.masterRepo.CountCPTCodes(ctx)
}

// MasterStats represents master table row counts
type MasterStats struct {
	StateRequirements int64 `json:"state_requirements"`
	CPTCodes          int64 `json:"cpt_codes"`
}

// Stats returns the master table row counts
func (s *MasterService) Stats(ctx context.Context) (*MasterStats, error) {
	reqCount, err := s.masterRepo.CountStateRequirements(ctx)
	if err != nil {
		return nil, err
	}
	cptCount, err := s.masterRepo.CountCPTCodes(ctx)
	if err != nil {
		return nil, err
	}
	return &MasterStats{
		StateRequirements: reqCount,
		CPTCodes:          cptCount,
	}, nil
}
