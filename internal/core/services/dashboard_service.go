package services

import (
	"context"
	"sort"
	"time"

	"medcredhub/internal/core/domain"
)

// DashboardService aggregates the home-screen summary
type DashboardService struct {
	credentialService *CredentialService
	cmeService        *CMEService
	complianceService *ComplianceService
	alertService      *AlertService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	credentialService *CredentialService,
	cmeService *CMEService,
	complianceService *ComplianceService,
	alertService *AlertService,
) *DashboardService {
	return &DashboardService{
		credentialService: credentialService,
		cmeService:        cmeService,
		complianceService: complianceService,
		alertService:      alertService,
	}
}

// ComplianceSummary is the per-state rollup shown on the dashboard
type ComplianceSummary struct {
	State          string `json:"state"`
	FullyCompliant bool   `json:"fully_compliant"`
	IsDefault      bool   `json:"is_default"`
}

// AlertSummary is the alert rollup shown on the dashboard
type AlertSummary struct {
	Count    int    `json:"count"`
	Priority string `json:"priority,omitempty"`
}

// DashboardResponse represents the dashboard payload
type DashboardResponse struct {
	SectionCounts   map[string]int64      `json:"section_counts"`
	TotalCMEHours   float64               `json:"total_cme_hours"`
	Compliance      []ComplianceSummary   `json:"compliance"`
	Alerts          AlertSummary          `json:"alerts"`
	NextExpirations []domain.ExpiringItem `json:"next_expirations"`
}

const nextExpirationLimit = 5

// GetDashboard builds the dashboard summary for a user
func (s *DashboardService) GetDashboard(ctx context.Context, userID uint) (*DashboardResponse, error) {
	counts, err := s.credentialService.CountsBySection(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalHours, err := s.cmeService.TotalHours(ctx, userID)
	if err != nil {
		return nil, err
	}

	results, err := s.complianceService.ComputeAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	compliance := make([]ComplianceSummary, 0, len(results))
	for _, r := range results {
		compliance = append(compliance, ComplianceSummary{
			State:          r.State,
			FullyCompliant: r.FullyCompliant,
			IsDefault:      r.IsDefault,
		})
	}

	alert, err := s.alertService.GetAlerts(ctx, userID)
	if err != nil {
		return nil, err
	}
	alerts := AlertSummary{}
	if alert != nil {
		alerts.Count = alert.Count
		alerts.Priority = alert.Priority
	}

	upcoming, err := s.nextExpirations(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		SectionCounts:   counts,
		TotalCMEHours:   totalHours,
		Compliance:      compliance,
		Alerts:          alerts,
		NextExpirations: upcoming,
	}, nil
}

// nextExpirations returns the soonest upcoming expirations, earliest first
func (s *DashboardService) nextExpirations(ctx context.Context, userID uint) ([]domain.ExpiringItem, error) {
	items, err := s.credentialService.ListExpirable(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	upcoming := make([]domain.ExpiringItem, 0, len(items))
	for _, item := range items {
		if item.ExpiresAt.After(now) {
			upcoming = append(upcoming, item)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].ExpiresAt.Before(upcoming[j].ExpiresAt)
	})

	if len(upcoming) > nextExpirationLimit {
		upcoming = upcoming[:nextExpirationLimit]
	}
	return upcoming, nil
}
