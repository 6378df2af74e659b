package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/adapters/persistence/repositories"
	"medcredhub/internal/core/domain"

	"gorm.io/gorm"
)

// Alert errors
var (
	ErrAlertSettingsNotFound = errors.New("alert settings not found")
	ErrInvalidSnoozeDays     = errors.New("snooze days must be between 1 and 90")
	ErrInvalidLeadDays       = errors.New("reminder lead days must be between 1 and 365")
	ErrInvalidFrequency      = errors.New("notify frequency days must be between 1 and 90")
)

// Default settings applied when a user has no alert_settings row yet
const (
	DefaultReminderLeadDays    = 90
	DefaultNotifyFrequencyDays = 7
)

// AlertService derives the alert picture from credential data and drives
// the notification schedule around it
type AlertService struct {
	userRepo          repositories.UserRepository
	credentialRepo    repositories.CredentialRepository
	cmeRepo           repositories.CMERepository
	settingsRepo      repositories.AlertSettingsRepository
	complianceService *ComplianceService
	notifyService     *NotificationService
}

// NewAlertService creates a new alert service
func NewAlertService(
	userRepo repositories.UserRepository,
	credentialRepo repositories.CredentialRepository,
	cmeRepo repositories.CMERepository,
	settingsRepo repositories.AlertSettingsRepository,
	complianceService *ComplianceService,
	notifyService *NotificationService,
) *AlertService {
	return &AlertService{
		userRepo:          userRepo,
		credentialRepo:    credentialRepo,
		cmeRepo:           cmeRepo,
		settingsRepo:      settingsRepo,
		complianceService: complianceService,
		notifyService:     notifyService,
	}
}

// ============================================================
// Pure scheduling core — no I/O, pure function of the snapshot
// ============================================================

// GenerateAlerts derives the alert picture from a credential snapshot.
// requirements maps tracked state codes to their resolved rules; states
// missing from the map are evaluated against the generic default.
//
// A nil return means there is nothing to alert on — callers short-circuit
// on it instead of inspecting counts.
func GenerateAlerts(snap domain.CredentialSnapshot, requirements map[string]domain.StateRequirement) *domain.AlertState {
	var expired, expiringSoon []domain.ExpiringItem
	for _, item := range snap.Items {
		days := daysUntil(snap.Now, item.ExpiresAt)
		switch {
		case days < 0:
			expired = append(expired, item)
		case days <= snap.ReminderLeadDays:
			expiringSoon = append(expiringSoon, item)
		}
	}

	var cmeIssues []domain.StateCMEIssues
	for _, state := range snap.TrackedStates {
		req, ok := requirements[state]
		if !ok {
			req = domain.DefaultRequirement(state, snap.Degree)
		}
		result := EvaluateCompliance(snap.Entries, req, !ok)
		if result.FullyCompliant {
			continue
		}
		cmeIssues = append(cmeIssues, domain.StateCMEIssues{
			State:  state,
			Issues: complianceIssues(result),
		})
	}

	if len(expired) == 0 && len(expiringSoon) == 0 && len(cmeIssues) == 0 {
		return nil
	}

	nearest, hasExpiration := nearestDays(snap.Now, expired, expiringSoon)

	priority := domain.PriorityMedium
	if len(expired) > 0 {
		priority = domain.PriorityCritical
	} else if hasExpiration && nearest <= 30 {
		priority = domain.PriorityHigh
	}

	effective := snap.NotifyFrequency
	if hasExpiration {
		effective = min(snap.NotifyFrequency, frequencyCap(nearest))
	}

	return &domain.AlertState{
		Expired:                expired,
		ExpiringSoon:           expiringSoon,
		CMEIssues:              cmeIssues,
		Count:                  len(expired) + len(expiringSoon) + len(cmeIssues),
		Priority:               priority,
		EffectiveFrequencyDays: effective,
		Fingerprint:            fingerprint(expired, expiringSoon, cmeIssues),
	}
}

// daysUntil returns whole days from now until the expiration date, both
// truncated to day granularity. Negative means already expired.
func daysUntil(now, expires time.Time) int {
	today := truncateToDay(now)
	expDay := truncateToDay(expires)
	return int(expDay.Sub(today).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// nearestDays returns the smallest days-remaining across all dated alerts
func nearestDays(now time.Time, expired, soon []domain.ExpiringItem) (int, bool) {
	found := false
	nearest := 0
	for _, item := range append(append([]domain.ExpiringItem{}, expired...), soon...) {
		days := daysUntil(now, item.ExpiresAt)
		if !found || days < nearest {
			nearest = days
			found = true
		}
	}
	return nearest, found
}

// frequencyCap is the escalation ladder: the closer the nearest deadline,
// the tighter the check interval. The cap only ever shortens the user's
// base frequency, never lengthens it.
func frequencyCap(nearestDays int) int {
	switch {
	case nearestDays <= 0:
		return 1
	case nearestDays <= 14:
		return 2
	case nearestDays <= 30:
		return 3
	case nearestDays <= 60:
		return 5
	default:
		return 1 << 30 // no cap
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// complianceIssues builds the human-readable gap list for one state
func complianceIssues(result domain.ComplianceResult) []string {
	var issues []string
	if !result.TotalMet {
		issues = append(issues, fmt.Sprintf("%.1f of %.1f required hours completed (%.1f short)",
			result.TotalEarned, result.TotalRequired, result.TotalRequired-result.TotalEarned))
	}
	if !result.Category1Met {
		issues = append(issues, fmt.Sprintf("Category 1: %.1f of %.1f hours (%.1f short)",
			result.Category1Earned, result.Category1Required, result.Category1Required-result.Category1Earned))
	}
	for _, topic := range result.TopicResults {
		if topic.Met {
			continue
		}
		issues = append(issues, fmt.Sprintf("%s: %.1f of %.1f hours (%.1f short)",
			topic.Topic, topic.Earned, topic.Required, topic.Required-topic.Earned))
	}
	return issues
}

// fingerprint is a change-detection key over the alert picture: a sha256
// hex digest of the sorted identifying tuples. Sorting makes it independent
// of input order.
func fingerprint(expired, soon []domain.ExpiringItem, cmeIssues []domain.StateCMEIssues) string {
	tuples := make([]string, 0, len(expired)+len(soon)+len(cmeIssues))
	for _, item := range expired {
		tuples = append(tuples, item.Section+"|"+item.ExpiresAt.Format("2006-01-02"))
	}
	for _, item := range soon {
		tuples = append(tuples, item.Section+"|"+item.ExpiresAt.Format("2006-01-02"))
	}
	for _, issue := range cmeIssues {
		tuples = append(tuples, fmt.Sprintf("cme|%s|%d", issue.State, len(issue.Issues)))
	}
	sort.Strings(tuples)

	sum := sha256.Sum256([]byte(strings.Join(tuples, ";")))
	return hex.EncodeToString(sum[:])
}

// ============================================================
// DB-backed operations
// ============================================================

// GetAlerts computes the current alert picture for a user and persists the
// fingerprint/frequency bookkeeping. fingerprint changes clear any active
// snooze so a materially changed picture is never suppressed.
func (s *AlertService) GetAlerts(ctx context.Context, userID uint) (*domain.AlertState, error) {
	settings, err := s.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	alert, err := s.computeAlerts(ctx, userID, settings, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.reconcileSettings(ctx, settings, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// computeAlerts builds the snapshot, resolves the tracked states' rules
// and runs the pure core
func (s *AlertService) computeAlerts(ctx context.Context, userID uint, settings *models.AlertSettings, now time.Time) (*domain.AlertState, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	degree := domain.DegreeType(user.Degree)

	items, err := s.credentialRepo.ListExpirable(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.cmeRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.CMEEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.ToDomain())
	}

	requirements := make(map[string]domain.StateRequirement, len(settings.TrackedStates))
	for _, state := range settings.TrackedStates {
		req, isDefault := s.complianceService.ResolveRequirement(ctx, state, degree)
		if !isDefault {
			requirements[state] = req
		}
	}

	snap := domain.CredentialSnapshot{
		Items:            items,
		Entries:          entries,
		TrackedStates:    settings.TrackedStates,
		Degree:           degree,
		ReminderLeadDays: settings.ReminderLeadDays,
		NotifyFrequency:  settings.NotifyFrequencyDays,
		Now:              now,
	}
	return GenerateAlerts(snap, requirements), nil
}

// reconcileSettings persists the computed fingerprint and effective
// frequency, clearing snooze and last-notified when the picture changed
func (s *AlertService) reconcileSettings(ctx context.Context, settings *models.AlertSettings, alert *domain.AlertState) error {
	newFingerprint := ""
	newFrequency := settings.NotifyFrequencyDays
	if alert != nil {
		newFingerprint = alert.Fingerprint
		newFrequency = alert.EffectiveFrequencyDays
	}

	changed := settings.Fingerprint != newFingerprint
	if !changed && settings.EffectiveFrequencyDays == newFrequency {
		return nil
	}

	if changed {
		settings.SnoozedUntil = nil
		settings.LastNotifiedAt = nil
		log.Printf("🔔 Alert picture changed for user %d, snooze cleared", settings.UserID)
	}
	settings.Fingerprint = newFingerprint
	settings.EffectiveFrequencyDays = newFrequency
	return s.settingsRepo.Update(ctx, settings)
}

// GetOrCreateSettings returns the user's alert settings, creating the row
// with defaults on first access. Tracked states default to the distinct
// states of the user's licenses.
func (s *AlertService) GetOrCreateSettings(ctx context.Context, userID uint) (*models.AlertSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = &models.AlertSettings{
		UserID:                 userID,
		TrackedStates:          []string{},
		ReminderLeadDays:       DefaultReminderLeadDays,
		NotifyFrequencyDays:    DefaultNotifyFrequencyDays,
		EffectiveFrequencyDays: DefaultNotifyFrequencyDays,
		EmailEnabled:           true,
	}

	licenses, err := s.credentialRepo.Licenses().ListByUser(ctx, userID)
	if err == nil {
		seen := make(map[string]bool)
		for _, lic := range licenses {
			if lic.State != "" && !seen[lic.State] {
				seen[lic.State] = true
				settings.TrackedStates = append(settings.TrackedStates, lic.State)
			}
		}
	}

	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		return nil, err
	}
	log.Printf("✅ Alert settings created for user %d (tracking %d states)", userID, len(settings.TrackedStates))
	return settings, nil
}

// UpdateSettingsInput represents alert settings update input
type UpdateSettingsInput struct {
	TrackedStates       *[]string `json:"tracked_states,omitempty"`
	ReminderLeadDays    *int      `json:"reminder_lead_days,omitempty" validate:"omitempty,min=1,max=365"`
	NotifyFrequencyDays *int      `json:"notify_frequency_days,omitempty" validate:"omitempty,min=1,max=90"`
	EmailEnabled        *bool     `json:"email_enabled,omitempty"`
}

// UpdateSettings applies a partial settings update
func (s *AlertService) UpdateSettings(ctx context.Context, userID uint, input *UpdateSettingsInput) (*models.AlertSettings, error) {
	settings, err := s.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.TrackedStates != nil {
		settings.TrackedStates = normalizeStates(*input.TrackedStates)
	}
	if input.ReminderLeadDays != nil {
		if *input.ReminderLeadDays < 1 || *input.ReminderLeadDays > 365 {
			return nil, ErrInvalidLeadDays
		}
		settings.ReminderLeadDays = *input.ReminderLeadDays
	}
	if input.NotifyFrequencyDays != nil {
		if *input.NotifyFrequencyDays < 1 || *input.NotifyFrequencyDays > 90 {
			return nil, ErrInvalidFrequency
		}
		settings.NotifyFrequencyDays = *input.NotifyFrequencyDays
	}
	if input.EmailEnabled != nil {
		settings.EmailEnabled = *input.EmailEnabled
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// normalizeStates upper-cases and de-duplicates state codes
func normalizeStates(states []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(states))
	for _, state := range states {
		state = strings.ToUpper(strings.TrimSpace(state))
		if state == "" || seen[state] {
			continue
		}
		seen[state] = true
		out = append(out, state)
	}
	return out
}

// Snooze suppresses notifications for a number of days
func (s *AlertService) Snooze(ctx context.Context, userID uint, days int) (*models.AlertSettings, error) {
	if days < 1 || days > 90 {
		return nil, ErrInvalidSnoozeDays
	}

	settings, err := s.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	until := time.Now().AddDate(0, 0, days)
	settings.SnoozedUntil = &until
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	log.Printf("🔕 Alerts snoozed for user %d until %s", userID, until.Format("2006-01-02"))
	return settings, nil
}

// Unsnooze clears an active snooze
func (s *AlertService) Unsnooze(ctx context.Context, userID uint) (*models.AlertSettings, error) {
	settings, err := s.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.SnoozedUntil = nil
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ============================================================
// Scheduled scan (called by the cron service)
// ============================================================

// RunScheduledScan recomputes alerts for every active user and notifies
// those whose alert picture is due. Per-user failures are logged and
// skipped so one bad row never stops the scan.
func (s *AlertService) RunScheduledScan(ctx context.Context) {
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		log.Printf("❌ Alert scan: failed to list users: %v", err)
		return
	}

	now := time.Now()
	notified := 0
	for _, user := range users {
		if err := s.scanUser(ctx, user, now); err != nil {
			log.Printf("⚠️ Alert scan: user %d skipped: %v", user.ID, err)
			continue
		}
		notified++
	}
	log.Printf("✅ Alert scan finished: %d/%d users processed", notified, len(users))
}

func (s *AlertService) scanUser(ctx context.Context, user *models.User, now time.Time) error {
	settings, err := s.GetOrCreateSettings(ctx, user.ID)
	if err != nil {
		return err
	}

	alert, err := s.computeAlerts(ctx, user.ID, settings, now)
	if err != nil {
		return err
	}
	if err := s.reconcileSettings(ctx, settings, alert); err != nil {
		return err
	}

	if alert == nil {
		return nil
	}
	if settings.IsSnoozed(now) {
		return nil
	}
	if !notificationDue(settings, now) {
		return nil
	}

	s.notifyService.NotifyAlerts(user, alert)

	settings.LastNotifiedAt = &now
	return s.settingsRepo.Update(ctx, settings)
}

// notificationDue reports whether the effective frequency interval has
// elapsed since the last notification
func notificationDue(settings *models.AlertSettings, now time.Time) bool {
	if settings.LastNotifiedAt == nil {
		return true
	}
	interval := time.Duration(settings.EffectiveFrequencyDays) * 24 * time.Hour
	return now.Sub(*settings.LastNotifiedAt) >= interval
}
