package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/pkg/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLicenseRepo is an in-memory SectionRepository for handler tests
type fakeLicenseRepo struct {
	rows       []*models.License
	lastOffset int
	lastLimit  int
}

func (f *fakeLicenseRepo) Create(ctx context.Context, rec *models.License) error {
	f.rows = append(f.rows, rec)
	return nil
}

func (f *fakeLicenseRepo) GetByID(ctx context.Context, userID, id uint) (*models.License, error) {
	for _, row := range f.rows {
		if row.ID == id && row.UserID == userID {
			return row, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (f *fakeLicenseRepo) Update(ctx context.Context, rec *models.License) error { return nil }

func (f *fakeLicenseRepo) Delete(ctx context.Context, userID, id uint) error { return nil }

func (f *fakeLicenseRepo) ListByUser(ctx context.Context, userID uint) ([]*models.License, error) {
	return f.rows, nil
}

func (f *fakeLicenseRepo) ListPage(ctx context.Context, userID uint, offset, limit int) ([]*models.License, int64, error) {
	f.lastOffset = offset
	f.lastLimit = limit

	total := int64(len(f.rows))
	if offset >= len(f.rows) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], total, nil
}

func licenseApp(repo *fakeLicenseRepo) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})

	handler := NewSectionHandler(repo, "License",
		func(r *models.License, userID, id uint) { r.UserID = userID; r.ID = id },
	)
	handler.Register(app.Group("/licenses"))
	return app
}

type listEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Data []models.License `json:"data"`
		Meta pagination.Meta  `json:"meta"`
	} `json:"data"`
}

func TestSectionHandler_ListPaginates(t *testing.T) {
	repo := &fakeLicenseRepo{}
	for i := 1; i <= 5; i++ {
		repo.rows = append(repo.rows, &models.License{
			ID:     uint(i),
			UserID: 1,
			State:  "CA",
		})
	}
	app := licenseApp(repo)

	resp, err := app.Test(httptest.NewRequest("GET", "/licenses/?page=2&limit=2", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body listEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, 2, repo.lastOffset)
	assert.Equal(t, 2, repo.lastLimit)
	assert.Len(t, body.Data.Data, 2)
	assert.Equal(t, int64(5), body.Data.Meta.Total)
	assert.Equal(t, 2, body.Data.Meta.Page)
	assert.Equal(t, 3, body.Data.Meta.TotalPages)
	assert.True(t, body.Data.Meta.HasNext)
	assert.True(t, body.Data.Meta.HasPrev)
}

func TestSectionHandler_ListDefaults(t *testing.T) {
	repo := &fakeLicenseRepo{}
	app := licenseApp(repo)

	resp, err := app.Test(httptest.NewRequest("GET", "/licenses/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, 0, repo.lastOffset)
	assert.Equal(t, pagination.DefaultLimit, repo.lastLimit)
}
