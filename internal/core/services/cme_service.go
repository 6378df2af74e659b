package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/adapters/persistence/repositories"
	"medcredhub/internal/core/domain"

	"gorm.io/gorm"
)

// CME errors
var (
	ErrCMEEntryNotFound = errors.New("cme entry not found")
	ErrMissingTitle     = errors.New("title is required")
)

// CMEService handles continuing-education credit records
type CMEService struct {
	cmeRepo repositories.CMERepository
}

// NewCMEService creates a new CME service
func NewCMEService(cmeRepo repositories.CMERepository) *CMEService {
	return &CMEService{cmeRepo: cmeRepo}
}

// CMEEntryInput represents create/update input for one credit record.
// Hours uses the lenient parser: numbers, numeric strings and null are all
// accepted, anything unparseable becomes 0.
type CMEEntryInput struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Provider    string       `json:"provider,omitempty" validate:"omitempty,max=150"`
	Hours       domain.Hours `json:"hours"`
	Category    string       `json:"category,omitempty" validate:"omitempty,max=50"`
	Topics      []string     `json:"topics,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Certificate string       `json:"certificate,omitempty" validate:"omitempty,max=255"`
}

// Create creates a new CME entry
func (s *CMEService) Create(ctx context.Context, userID uint, input *CMEEntryInput) (*models.CMEEntry, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	entry := &models.CMEEntry{
		UserID:      userID,
		Title:       title,
		Provider:    input.Provider,
		Hours:       float64(input.Hours),
		Category:    input.Category,
		Topics:      normalizeTopics(input.Topics),
		CompletedAt: input.CompletedAt,
		Certificate: input.Certificate,
	}

	if err := s.cmeRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	log.Printf("✅ CME entry created: %q (%.1f hours) for user %d", entry.Title, entry.Hours, userID)
	return entry, nil
}

// GetByID gets one CME entry of a user
func (s *CMEService) GetByID(ctx context.Context, userID, id uint) (*models.CMEEntry, error) {
	entry, err := s.cmeRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCMEEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// Update replaces the editable fields of a CME entry
func (s *CMEService) Update(ctx context.Context, userID, id uint, input *CMEEntryInput) (*models.CMEEntry, error) {
	entry, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	entry.Title = title
	entry.Provider = input.Provider
	entry.Hours = float64(input.Hours)
	entry.Category = input.Category
	entry.Topics = normalizeTopics(input.Topics)
	entry.CompletedAt = input.CompletedAt
	entry.Certificate = input.Certificate

	if err := s.cmeRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes a CME entry
func (s *CMEService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.cmeRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCMEEntryNotFound
		}
		return err
	}
	return nil
}

// List gets CME entries of a user with pagination
func (s *CMEService) List(ctx context.Context, userID uint, offset, limit int) ([]*models.CMEEntry, int64, error) {
	return s.cmeRepo.List(ctx, userID, offset, limit)
}

// TotalHours returns the total recorded hours of a user
func (s *CMEService) TotalHours(ctx context.Context, userID uint) (float64, error) {
	return s.cmeRepo.SumHours(ctx, userID)
}

// normalizeTopics trims and drops empty topic labels
func normalizeTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
