package services

import (
	"testing"
	"time"

	"medcredhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(hours float64, category string, topics ...string) domain.CMEEntry {
	completed := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return domain.CMEEntry{
		Title:     "Course",
		Hours:     domain.Hours(hours),
		Category:  category,
		Topics:    topics,
		Completed: &completed,
	}
}

func TestEvaluateCompliance_GeneralAndCategory1(t *testing.T) {
	req := domain.StateRequirement{
		State:            "OH",
		Degree:           domain.DegreeMD,
		TotalHours:       50,
		CycleYears:       2,
		Category1Minimum: 25,
	}

	tests := []struct {
		name           string
		entries        []domain.CMEEntry
		wantTotalMet   bool
		wantCat1Met    bool
		wantFully      bool
		wantTotalEarn  float64
		wantCat1Earned float64
	}{
		{
			name: "below both minimums",
			entries: []domain.CMEEntry{
				entry(20, "AMA PRA Category 1"),
				entry(10, "Category 2"),
			},
			wantTotalMet:   false,
			wantCat1Met:    false,
			wantFully:      false,
			wantTotalEarn:  30,
			wantCat1Earned: 20,
		},
		{
			name: "above both minimums",
			entries: []domain.CMEEntry{
				entry(30, "AMA PRA Category 1 Credit"),
				entry(30, "Category 2"),
			},
			wantTotalMet:   true,
			wantCat1Met:    true,
			wantFully:      true,
			wantTotalEarn:  60,
			wantCat1Earned: 30,
		},
		{
			name: "exact hours count as met",
			entries: []domain.CMEEntry{
				entry(25, "AMA PRA Category 1"),
				entry(25, "Category 2"),
			},
			wantTotalMet:   true,
			wantCat1Met:    true,
			wantFully:      true,
			wantTotalEarn:  50,
			wantCat1Earned: 25,
		},
		{
			name:          "no entries",
			entries:       nil,
			wantTotalMet:  false,
			wantCat1Met:   false,
			wantFully:     false,
			wantTotalEarn: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EvaluateCompliance(tt.entries, req, false)
			assert.Equal(t, tt.wantTotalMet, result.TotalMet)
			assert.Equal(t, tt.wantCat1Met, result.Category1Met)
			assert.Equal(t, tt.wantFully, result.FullyCompliant)
			assert.Equal(t, tt.wantTotalEarn, result.TotalEarned)
			assert.Equal(t, tt.wantCat1Earned, result.Category1Earned)
			assert.False(t, result.IsDefault)
			assert.False(t, result.NoGeneralReq)
		})
	}
}

func TestEvaluateCompliance_Category1Labels(t *testing.T) {
	req := domain.StateRequirement{
		State:            "FL",
		TotalHours:       40,
		CycleYears:       2,
		Category1Minimum: 20,
	}

	tests := []struct {
		name       string
		degree     domain.DegreeType
		category   string
		wantCounts bool
	}{
		{"MD matches AMA PRA Category 1", domain.DegreeMD, "AMA PRA Category 1 Credit(s)", true},
		{"MD matches bare Category 1", domain.DegreeMD, "category 1", true},
		{"MD ignores Category 2", domain.DegreeMD, "Category 2", false},
		{"MD ignores AOA label", domain.DegreeMD, "AOA Category 1-A", false},
		{"DO matches AOA 1-A", domain.DegreeDO, "AOA Category 1-A", true},
		{"DO accepts AMA Category 1", domain.DegreeDO, "AMA PRA Category 1", true},
		{"DO ignores AOA 1-B", domain.DegreeDO, "AOA Category 1-B", false},
		{"empty category never counts", domain.DegreeMD, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			degreeReq := req
			degreeReq.Degree = tt.degree
			result := EvaluateCompliance([]domain.CMEEntry{entry(20, tt.category)}, degreeReq, false)
			if tt.wantCounts {
				assert.Equal(t, 20.0, result.Category1Earned)
			} else {
				assert.Zero(t, result.Category1Earned)
			}
		})
	}
}

func TestEvaluateCompliance_Topics(t *testing.T) {
	req := domain.StateRequirement{
		State:      "TX",
		Degree:     domain.DegreeMD,
		TotalHours: 48,
		CycleYears: 2,
		Topics: []domain.TopicRequirement{
			{Topic: "Medical Ethics", RequiredHours: 2},
			{Topic: "Human Trafficking Prevention", RequiredHours: 1},
			{Topic: "Informational Only", RequiredHours: 0},
		},
	}

	entries := []domain.CMEEntry{
		entry(40, "AMA PRA Category 1"),
		entry(8, "AMA PRA Category 1", "medical ethics"),
	}

	result := EvaluateCompliance(entries, req, false)
	require.Len(t, result.TopicResults, 2, "zero-hour topics are not evaluated")

	assert.Equal(t, "Medical Ethics", result.TopicResults[0].Topic)
	assert.True(t, result.TopicResults[0].Met, "topic match is case-insensitive")
	assert.Equal(t, 8.0, result.TopicResults[0].Earned)

	assert.Equal(t, "Human Trafficking Prevention", result.TopicResults[1].Topic)
	assert.False(t, result.TopicResults[1].Met)

	assert.True(t, result.TotalMet)
	assert.False(t, result.FullyCompliant, "one unmet topic blocks full compliance")
}

func TestEvaluateCompliance_NoGeneralRequirement(t *testing.T) {
	t.Run("topic mandates only", func(t *testing.T) {
		req := domain.StateRequirement{
			State:      "NY",
			Degree:     domain.DegreeMD,
			TotalHours: 0,
			CycleYears: 2,
			Topics: []domain.TopicRequirement{
				{Topic: "Infection Control", RequiredHours: 2},
			},
		}

		result := EvaluateCompliance(nil, req, false)
		assert.True(t, result.NoGeneralReq)
		assert.True(t, result.TotalMet)
		assert.True(t, result.Category1Met)
		assert.Zero(t, result.TotalRequired)
		assert.Zero(t, result.Category1Required)
		assert.False(t, result.FullyCompliant, "unmet topic mandate still blocks compliance")

		met := EvaluateCompliance([]domain.CMEEntry{entry(2, "Category 2", "Infection Control")}, req, false)
		assert.True(t, met.FullyCompliant)
	})

	t.Run("no requirements at all is vacuously compliant", func(t *testing.T) {
		req := domain.StateRequirement{State: "CO", Degree: domain.DegreeMD, TotalHours: 0, CycleYears: 2}
		result := EvaluateCompliance(nil, req, false)
		assert.True(t, result.NoGeneralReq)
		assert.True(t, result.FullyCompliant)
	})
}

func TestEvaluateCompliance_Deterministic(t *testing.T) {
	req := domain.StateRequirement{
		State:            "PA",
		Degree:           domain.DegreeMD,
		TotalHours:       100,
		CycleYears:       2,
		Category1Minimum: 20,
		Topics: []domain.TopicRequirement{
			{Topic: "Patient Safety", RequiredHours: 12},
		},
	}
	entries := []domain.CMEEntry{
		entry(60, "AMA PRA Category 1", "Patient Safety"),
		entry(20, "Category 2"),
	}

	first := EvaluateCompliance(entries, req, false)
	second := EvaluateCompliance(entries, req, false)
	assert.Equal(t, first, second)
}

func TestEvaluateCompliance_MoreHoursNeverHurts(t *testing.T) {
	req := domain.StateRequirement{
		State:            "IL",
		Degree:           domain.DegreeMD,
		TotalHours:       150,
		CycleYears:       3,
		Category1Minimum: 60,
	}

	base := []domain.CMEEntry{entry(150, "AMA PRA Category 1")}
	more := append(append([]domain.CMEEntry{}, base...), entry(10, "AMA PRA Category 1"))

	baseResult := EvaluateCompliance(base, req, false)
	moreResult := EvaluateCompliance(more, req, false)

	require.True(t, baseResult.FullyCompliant)
	assert.True(t, moreResult.FullyCompliant)
	assert.True(t, moreResult.TotalEarned >= baseResult.TotalEarned)
	assert.True(t, moreResult.Category1Earned >= baseResult.Category1Earned)
}

func TestEvaluateCompliance_DefaultFlag(t *testing.T) {
	req := domain.DefaultRequirement("WY", domain.DegreeMD)
	assert.Equal(t, 50.0, req.TotalHours)
	assert.Equal(t, 2, req.CycleYears)
	assert.Zero(t, req.Category1Minimum)

	result := EvaluateCompliance([]domain.CMEEntry{entry(50, "Category 2")}, req, true)
	assert.True(t, result.IsDefault)
	assert.True(t, result.FullyCompliant, "default rule has no category or topic minimums")
}
