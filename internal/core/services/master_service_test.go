package services

import (
	"context"
	"strings"
	"testing"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeMasterRepo is an in-memory MasterRepository for service tests
type fakeMasterRepo struct {
	reqs  map[string]*models.StateRequirement
	codes []*models.CPTCode
}

func newFakeMasterRepo() *fakeMasterRepo {
	return &fakeMasterRepo{reqs: make(map[string]*models.StateRequirement)}
}

func (f *fakeMasterRepo) ListStateRequirements(ctx context.Context) ([]*models.StateRequirement, error) {
	out := make([]*models.StateRequirement, 0, len(f.reqs))
	for _, req := range f.reqs {
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeMasterRepo) GetStateRequirement(ctx context.Context, state, degree string) (*models.StateRequirement, error) {
	if req, ok := f.reqs[state+"|"+degree]; ok {
		return req, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMasterRepo) CreateStateRequirement(ctx context.Context, req *models.StateRequirement) error {
	f.reqs[req.State+"|"+req.Degree] = req
	return nil
}

func (f *fakeMasterRepo) CountStateRequirements(ctx context.Context) (int64, error) {
	return int64(len(f.reqs)), nil
}

func (f *fakeMasterRepo) SearchCPTCodes(ctx context.Context, query string, limit int) ([]*models.CPTCode, error) {
	var out []*models.CPTCode
	for _, code := range f.codes {
		if len(out) == limit {
			break
		}
		if strings.HasPrefix(code.Code, query) || strings.Contains(code.Description, query) {
			out = append(out, code)
		}
	}
	return out, nil
}

func (f *fakeMasterRepo) CreateCPTCodes(ctx context.Context, codes []*models.CPTCode) error {
	f.codes = append(f.codes, codes...)
	return nil
}

func (f *fakeMasterRepo) CountCPTCodes(ctx context.Context) (int64, error) {
	return int64(len(f.codes)), nil
}

func TestMasterService_CreateStateRequirement(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes state and degree", func(t *testing.T) {
		service := NewMasterService(newFakeMasterRepo())
		req, err := service.CreateStateRequirement(ctx, &StateRequirementInput{
			State:      " fl ",
			Degree:     "md",
			TotalHours: 40,
			CycleYears: 2,
			Topics: []TopicInput{
				{Topic: "  Prevention of Medical Errors ", RequiredHours: 2},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "FL", req.State)
		assert.Equal(t, "MD", req.Degree)
		assert.True(t, req.IsActive)
		require.Len(t, req.Topics, 1)
		assert.Equal(t, "Prevention of Medical Errors", req.Topics[0].Topic)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		service := NewMasterService(newFakeMasterRepo())
		input := &StateRequirementInput{State: "TX", Degree: "MD", TotalHours: 48, CycleYears: 2}

		_, err := service.CreateStateRequirement(ctx, input)
		require.NoError(t, err)

		_, err = service.CreateStateRequirement(ctx, input)
		assert.ErrorIs(t, err, ErrStateRequirementExists)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			input   StateRequirementInput
			wantErr error
		}{
			{"bad state code", StateRequirementInput{State: "TEX", Degree: "MD", CycleYears: 2}, ErrInvalidStateCode},
			{"bad degree", StateRequirementInput{State: "TX", Degree: "DDS", CycleYears: 2}, domain.ErrInvalidDegree},
			{"zero cycle years", StateRequirementInput{State: "TX", Degree: "MD", CycleYears: 0}, ErrInvalidRequirement},
			{"negative hours", StateRequirementInput{State: "TX", Degree: "MD", CycleYears: 2, TotalHours: -1}, ErrInvalidRequirement},
			{"blank topic", StateRequirementInput{State: "TX", Degree: "MD", CycleYears: 2,
				Topics: []TopicInput{{Topic: "  ", RequiredHours: 2}}}, ErrInvalidRequirement},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := NewMasterService(newFakeMasterRepo())
				_, err := service.CreateStateRequirement(ctx, &tt.input)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestMasterService_ImportCPTCodes(t *testing.T) {
	ctx := context.Background()

	t.Run("imports and returns new total", func(t *testing.T) {
		repo := newFakeMasterRepo()
		repo.codes = []*models.CPTCode{{Code: "99213", Description: "Office visit"}}
		service := NewMasterService(repo)

		total, err := service.ImportCPTCodes(ctx, []CPTCodeInput{
			{Code: " 93000 ", Description: "Electrocardiogram, complete"},
			{Code: "80053", Description: "Comprehensive metabolic panel"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, "93000", repo.codes[1].Code)
		assert.True(t, repo.codes[1].IsActive)
	})

	t.Run("rejects empty batch and blank rows", func(t *testing.T) {
		service := NewMasterService(newFakeMasterRepo())

		_, err := service.ImportCPTCodes(ctx, nil)
		assert.ErrorIs(t, err, ErrEmptyCodeList)

		_, err = service.ImportCPTCodes(ctx, []CPTCodeInput{{Code: "99213", Description: " "}})
		assert.ErrorIs(t, err, ErrEmptyCodeList)
	})
}

func TestMasterService_Stats(t *testing.T) {
	repo := newFakeMasterRepo()
	repo.reqs["FL|MD"] = &models.StateRequirement{State: "FL", Degree: "MD"}
	repo.reqs["FL|DO"] = &models.StateRequirement{State: "FL", Degree: "DO"}
	repo.codes = []*models.CPTCode{{Code: "99213"}}
	service := NewMasterService(repo)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.StateRequirements)
	assert.Equal(t, int64(1), stats.CPTCodes)
}
