package discounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

func setupDiscountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS discounts (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  value TEXT NOT NULL,
  targets TEXT,
  conditions TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  combinable INTEGER NOT NULL DEFAULT 0,
  priority INTEGER NOT NULL DEFAULT 0,
  starts_at DATETIME,
  ends_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestRepositoryListActiveByTenant(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tenant := uuid.New()
	otherTenant := uuid.New()

	active := &models.Discount{
		TenantID: tenant,
		Name:     "ten percent",
		Type:     enums.DiscountTypePercentage,
		Value:    types.DiscountValue{Percent: decimal.NewFromInt(10)},
		Targets:  []types.DiscountTarget{{TargetType: enums.TargetTypeAll}},
		IsActive: true,
		Priority: 5,
	}
	_, err := repo.Create(ctx, active)
	require.NoError(t, err)

	inactive := &models.Discount{
		TenantID: tenant,
		Name:     "disabled",
		Type:     enums.DiscountTypePercentage,
		Value:    types.DiscountValue{Percent: decimal.NewFromInt(50)},
		IsActive: false,
	}
	_, err = repo.Create(ctx, inactive)
	require.NoError(t, err)

	foreign := &models.Discount{
		TenantID: otherTenant,
		Name:     "other tenant",
		Type:     enums.DiscountTypePercentage,
		Value:    types.DiscountValue{Percent: decimal.NewFromInt(20)},
		IsActive: true,
	}
	_, err = repo.Create(ctx, foreign)
	require.NoError(t, err)

	rules, err := repo.ListActiveByTenant(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, active.ID, rules[0].ID)
	assert.Equal(t, enums.TargetTypeAll, rules[0].Targets[0].TargetType)
	assert.True(t, rules[0].Value.Percent.Equal(decimal.NewFromInt(10)))

	// The false must survive the insert; a column default must not
	// resurrect a disabled rule.
	stored, err := repo.FindByID(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
