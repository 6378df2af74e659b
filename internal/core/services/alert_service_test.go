package services

import (
	"testing"
	"time"

	"medcredhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alertNow = time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC)

func snapshot(items ...domain.ExpiringItem) domain.CredentialSnapshot {
	return domain.CredentialSnapshot{
		Items:            items,
		Degree:           domain.DegreeMD,
		ReminderLeadDays: DefaultReminderLeadDays,
		NotifyFrequency:  DefaultNotifyFrequencyDays,
		Now:              alertNow,
	}
}

func expiringIn(days int, section, label string) domain.ExpiringItem {
	return domain.ExpiringItem{
		Section:   section,
		Label:     label,
		ExpiresAt: alertNow.AddDate(0, 0, days),
	}
}

func TestGenerateAlerts_NilWhenNothingToReport(t *testing.T) {
	snap := snapshot(expiringIn(200, "licenses", "CA Medical License"))
	alert := GenerateAlerts(snap, nil)
	assert.Nil(t, alert, "items outside the lead window produce no alert")

	empty := snapshot()
	assert.Nil(t, GenerateAlerts(empty, nil))
}

func TestGenerateAlerts_LeadWindow(t *testing.T) {
	item := expiringIn(45, "licenses", "TX Medical License")

	wide := snapshot(item)
	wide.ReminderLeadDays = 90
	alert := GenerateAlerts(wide, nil)
	require.NotNil(t, alert)
	assert.Len(t, alert.ExpiringSoon, 1)
	assert.Empty(t, alert.Expired)
	assert.Equal(t, domain.PriorityMedium, alert.Priority)

	narrow := snapshot(item)
	narrow.ReminderLeadDays = 30
	assert.Nil(t, GenerateAlerts(narrow, nil), "same item outside a narrower window")
}

func TestGenerateAlerts_ExpiredIsCritical(t *testing.T) {
	snap := snapshot(
		expiringIn(-5, "licenses", "FL Medical License"),
		expiringIn(20, "insurance", "Malpractice Policy"),
	)
	alert := GenerateAlerts(snap, nil)
	require.NotNil(t, alert)

	assert.Len(t, alert.Expired, 1)
	assert.Len(t, alert.ExpiringSoon, 1)
	assert.Equal(t, 2, alert.Count)
	assert.Equal(t, domain.PriorityCritical, alert.Priority)
	assert.Equal(t, 1, alert.EffectiveFrequencyDays, "an expired item caps the frequency at daily")
}

func TestGenerateAlerts_PriorityHighWithin30Days(t *testing.T) {
	snap := snapshot(expiringIn(25, "privileges", "General Hospital Privileges"))
	alert := GenerateAlerts(snap, nil)
	require.NotNil(t, alert)
	assert.Equal(t, domain.PriorityHigh, alert.Priority)
}

func TestGenerateAlerts_EscalationLadder(t *testing.T) {
	tests := []struct {
		name          string
		daysOut       int
		baseFrequency int
		wantEffective int
	}{
		{"expired caps at 1", -3, 7, 1},
		{"due today caps at 1", 0, 7, 1},
		{"14 days out caps at 2", 14, 7, 2},
		{"30 days out caps at 3", 30, 7, 3},
		{"60 days out caps at 5", 60, 7, 5},
		{"beyond 60 days keeps base", 75, 7, 7},
		{"base below cap wins", 45, 2, 2},
		{"cap below base wins", 10, 30, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshot(expiringIn(tt.daysOut, "licenses", "License"))
			snap.NotifyFrequency = tt.baseFrequency
			alert := GenerateAlerts(snap, nil)
			require.NotNil(t, alert)
			assert.Equal(t, tt.wantEffective, alert.EffectiveFrequencyDays)
		})
	}
}

func TestGenerateAlerts_CMEIssues(t *testing.T) {
	snap := snapshot()
	snap.TrackedStates = []string{"OH", "WY"}
	snap.Entries = []domain.CMEEntry{entry(10, "AMA PRA Category 1")}

	requirements := map[string]domain.StateRequirement{
		"OH": {State: "OH", Degree: domain.DegreeMD, TotalHours: 50, CycleYears: 2, Category1Minimum: 25},
	}

	alert := GenerateAlerts(snap, requirements)
	require.NotNil(t, alert)
	require.Len(t, alert.CMEIssues, 2, "unmapped states fall back to the default rule")

	assert.Equal(t, "OH", alert.CMEIssues[0].State)
	assert.Len(t, alert.CMEIssues[0].Issues, 2, "hour and Category 1 shortfalls are both listed")
	assert.Contains(t, alert.CMEIssues[0].Issues[0], "10.0 of 50.0 required hours")
	assert.Contains(t, alert.CMEIssues[0].Issues[1], "Category 1")

	assert.Equal(t, "WY", alert.CMEIssues[1].State)
	assert.Len(t, alert.CMEIssues[1].Issues, 1)

	assert.Equal(t, domain.PriorityMedium, alert.Priority)
	assert.Equal(t, DefaultNotifyFrequencyDays, alert.EffectiveFrequencyDays,
		"CME issues alone never tighten the frequency")
}

func TestGenerateAlerts_CompliantStateProducesNoIssue(t *testing.T) {
	snap := snapshot()
	snap.TrackedStates = []string{"GA"}
	snap.Entries = []domain.CMEEntry{entry(40, "AMA PRA Category 1")}

	requirements := map[string]domain.StateRequirement{
		"GA": {State: "GA", Degree: domain.DegreeMD, TotalHours: 40, CycleYears: 2},
	}

	assert.Nil(t, GenerateAlerts(snap, requirements))
}

func TestGenerateAlerts_FingerprintOrderIndependent(t *testing.T) {
	a := expiringIn(-2, "licenses", "FL Medical License")
	b := expiringIn(10, "insurance", "Malpractice Policy")
	c := expiringIn(40, "privileges", "Hospital Privileges")

	forward := GenerateAlerts(snapshot(a, b, c), nil)
	reversed := GenerateAlerts(snapshot(c, b, a), nil)
	require.NotNil(t, forward)
	require.NotNil(t, reversed)

	assert.Equal(t, forward.Fingerprint, reversed.Fingerprint)
	assert.Len(t, forward.Fingerprint, 64)
}

func TestGenerateAlerts_FingerprintChangesWithContent(t *testing.T) {
	base := GenerateAlerts(snapshot(expiringIn(10, "licenses", "License")), nil)
	shifted := GenerateAlerts(snapshot(expiringIn(11, "licenses", "License")), nil)
	otherSection := GenerateAlerts(snapshot(expiringIn(10, "insurance", "License")), nil)
	require.NotNil(t, base)

	assert.NotEqual(t, base.Fingerprint, shifted.Fingerprint, "a moved date changes the fingerprint")
	assert.NotEqual(t, base.Fingerprint, otherSection.Fingerprint, "the section is part of the identity")
}

func TestGenerateAlerts_DayGranularity(t *testing.T) {
	// Expires later today by the clock but on the same calendar day: not
	// expired, counts as zero days remaining.
	snap := snapshot(domain.ExpiringItem{
		Section:   "licenses",
		Label:     "License",
		ExpiresAt: time.Date(2026, 6, 1, 23, 59, 0, 0, time.UTC),
	})
	alert := GenerateAlerts(snap, nil)
	require.NotNil(t, alert)
	assert.Empty(t, alert.Expired)
	assert.Len(t, alert.ExpiringSoon, 1)
	assert.Equal(t, 1, alert.EffectiveFrequencyDays)

	// One second into the previous day is a full day expired.
	past := snapshot(domain.ExpiringItem{
		Section:   "licenses",
		Label:     "License",
		ExpiresAt: time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC),
	})
	pastAlert := GenerateAlerts(past, nil)
	require.NotNil(t, pastAlert)
	assert.Len(t, pastAlert.Expired, 1)
}
