package services

import (
	"context"
	"errors"
	"strings"

	"medcredhub/internal/adapters/persistence/repositories"
	"medcredhub/internal/core/domain"

	"gorm.io/gorm"
)

// Compliance errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// category1Labels maps a degree type to the credit labels that count toward
// the board's Category 1 minimum. DO boards accept AMA Category 1 credit
// alongside AOA 1-A.
var category1Labels = map[domain.DegreeType][]string{
	domain.DegreeMD: {"AMA PRA Category 1", "Category 1"},
	domain.DegreeDO: {"AOA Category 1-A", "AMA PRA Category 1"},
}

// ComplianceService evaluates CME compliance against state rules
type ComplianceService struct {
	userRepo     repositories.UserRepository
	cmeRepo      repositories.CMERepository
	masterRepo   repositories.MasterRepository
	settingsRepo repositories.AlertSettingsRepository
}

// NewComplianceService creates a new compliance service
func NewComplianceService(
	userRepo repositories.UserRepository,
	cmeRepo repositories.CMERepository,
	masterRepo repositories.MasterRepository,
	settingsRepo repositories.AlertSettingsRepository,
) *ComplianceService {
	return &ComplianceService{
		userRepo:     userRepo,
		cmeRepo:      cmeRepo,
		masterRepo:   masterRepo,
		settingsRepo: settingsRepo,
	}
}

// ============================================================
// Pure evaluation — no I/O, always returns a complete result
// ============================================================

// EvaluateCompliance evaluates a set of CME entries against one state rule.
// isDefault marks results computed from the fallback rule so the caller can
// label the numbers as an approximation rather than board policy.
//
// The function is total: malformed hours have already been zeroed during
// parsing, and every input produces a fully populated result.
func EvaluateCompliance(entries []domain.CMEEntry, req domain.StateRequirement, isDefault bool) domain.ComplianceResult {
	result := domain.ComplianceResult{
		State:      req.State,
		Degree:     req.Degree,
		CycleYears: req.CycleYears,
		IsDefault:  isDefault,
	}

	labels := category1Labels[req.Degree]
	var totalEarned, cat1Earned float64
	for _, entry := range entries {
		hours := float64(entry.Hours)
		if hours < 0 {
			hours = 0
		}
		totalEarned += hours
		if matchesCategory1(entry.Category, labels) {
			cat1Earned += hours
		}
	}

	// States with no general hour requirement: total and category minimums
	// are forced met, only topic mandates count toward full compliance.
	if req.TotalHours == 0 {
		result.NoGeneralReq = true
		result.TotalEarned = totalEarned
		result.TotalMet = true
		result.Category1Met = true
		result.TopicResults = evaluateTopics(entries, req.Topics)
		result.FullyCompliant = allTopicsMet(result.TopicResults)
		return result
	}

	result.TotalRequired = req.TotalHours
	result.TotalEarned = totalEarned
	result.TotalMet = totalEarned >= req.TotalHours

	result.Category1Required = req.Category1Minimum
	result.Category1Earned = cat1Earned
	result.Category1Met = req.Category1Minimum == 0 || cat1Earned >= req.Category1Minimum

	result.TopicResults = evaluateTopics(entries, req.Topics)
	result.FullyCompliant = result.TotalMet && result.Category1Met && allTopicsMet(result.TopicResults)
	return result
}

// evaluateTopics evaluates every topic mandate with a positive requirement.
// Exact equality counts as met.
func evaluateTopics(entries []domain.CMEEntry, topics []domain.TopicRequirement) []domain.TopicResult {
	var results []domain.TopicResult
	for _, topic := range topics {
		if topic.RequiredHours <= 0 {
			continue
		}
		var earned float64
		for _, entry := range entries {
			if !hasTopic(entry.Topics, topic.Topic) {
				continue
			}
			hours := float64(entry.Hours)
			if hours < 0 {
				hours = 0
			}
			earned += hours
		}
		results = append(results, domain.TopicResult{
			Topic:    topic.Topic,
			Required: topic.RequiredHours,
			Earned:   earned,
			Met:      earned >= topic.RequiredHours,
			Note:     topic.Note,
		})
	}
	return results
}

func allTopicsMet(results []domain.TopicResult) bool {
	for _, r := range results {
		if !r.Met {
			return false
		}
	}
	return true
}

// matchesCategory1 reports whether an entry's category carries one of the
// degree's Category-1-equivalent labels. Matching is case-insensitive and
// tolerant of suffixes like "Credit(s)" on user-entered labels.
func matchesCategory1(category string, labels []string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return false
	}
	for _, label := range labels {
		if strings.Contains(category, strings.ToLower(label)) {
			return true
		}
	}
	return false
}

func hasTopic(topics []string, want string) bool {
	for _, t := range topics {
		if strings.EqualFold(strings.TrimSpace(t), want) {
			return true
		}
	}
	return false
}

// ============================================================
// DB-backed operations
// ============================================================

// ResolveRequirement looks up the rule for a (state, degree) pair. States
// without a degree-specific fork fall back to the MD rule, and unmapped
// states fall back to the generic default. The second return value is true
// when the default was used.
func (s *ComplianceService) ResolveRequirement(ctx context.Context, state string, degree domain.DegreeType) (domain.StateRequirement, bool) {
	row, err := s.masterRepo.GetStateRequirement(ctx, state, string(degree))
	if err == nil {
		return row.ToDomain(), false
	}

	if degree == domain.DegreeDO {
		if row, err := s.masterRepo.GetStateRequirement(ctx, state, string(domain.DegreeMD)); err == nil {
			req := row.ToDomain()
			req.Degree = degree
			return req, false
		}
	}

	return domain.DefaultRequirement(state, degree), true
}

// ComputeForState evaluates one tracked state for a user
func (s *ComplianceService) ComputeForState(ctx context.Context, userID uint, state string) (*domain.ComplianceResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	degree := domain.DegreeType(user.Degree)

	entries, err := s.loadEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	req, isDefault := s.ResolveRequirement(ctx, state, degree)
	result := EvaluateCompliance(entries, req, isDefault)
	return &result, nil
}

// ComputeAll evaluates every tracked state for a user. Users without
// settings get an empty result list, not an error.
func (s *ComplianceService) ComputeAll(ctx context.Context, userID uint) ([]domain.ComplianceResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	degree := domain.DegreeType(user.Degree)

	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []domain.ComplianceResult{}, nil
		}
		return nil, err
	}

	entries, err := s.loadEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ComplianceResult, 0, len(settings.TrackedStates))
	for _, state := range settings.TrackedStates {
		req, isDefault := s.ResolveRequirement(ctx, state, degree)
		results = append(results, EvaluateCompliance(entries, req, isDefault))
	}
	return results, nil
}

func (s *ComplianceService) loadEntries(ctx context.Context, userID uint) ([]domain.CMEEntry, error) {
	rows, err := s.cmeRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.CMEEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.ToDomain())
	}
	return entries, nil
}
