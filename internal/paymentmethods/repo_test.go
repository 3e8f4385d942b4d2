package paymentmethods

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	pkgerrors "github.com/camilorueda/vitrina-backend/pkg/errors"
	"github.com/camilorueda/vitrina-backend/pkg/types"
)

func setupPaymentMethodsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS payment_method_configs (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  type TEXT NOT NULL,
  enabled INTEGER NOT NULL DEFAULT 0,
  config TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (tenant_id, type)
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestRepositoryUpsertCreatesThenUpdates(t *testing.T) {
	db := setupPaymentMethodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tenant := uuid.New()
	config := &models.PaymentMethodConfig{
		TenantID: tenant,
		Type:     enums.PaymentMethodTypePayPal,
		Enabled:  true,
		Config:   types.JSONMap{"client_id": "abc"},
	}
	require.NoError(t, repo.Upsert(ctx, config))
	require.NotEqual(t, uuid.Nil, config.ID)
	firstID := config.ID

	update := &models.PaymentMethodConfig{
		TenantID: tenant,
		Type:     enums.PaymentMethodTypePayPal,
		Enabled:  false,
		Config:   types.JSONMap{"client_id": "rotated"},
	}
	require.NoError(t, repo.Upsert(ctx, update))
	assert.Equal(t, firstID, update.ID)

	var count int64
	require.NoError(t, db.Model(&models.PaymentMethodConfig{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := repo.FindByTenantAndType(ctx, tenant, enums.PaymentMethodTypePayPal)
	require.NoError(t, err)
	assert.False(t, stored.Enabled)
	assert.Equal(t, "rotated", stored.Config["client_id"])
}

func TestRepositoryListByTenantScopesRows(t *testing.T) {
	db := setupPaymentMethodsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tenant := uuid.New()
	other := uuid.New()
	require.NoError(t, repo.Upsert(ctx, &models.PaymentMethodConfig{
		TenantID: tenant,
		Type:     enums.PaymentMethodTypePayPal,
		Enabled:  true,
	}))
	require.NoError(t, repo.Upsert(ctx, &models.PaymentMethodConfig{
		TenantID: tenant,
		Type:     enums.PaymentMethodTypeBankTransfer,
		Enabled:  false,
	}))
	require.NoError(t, repo.Upsert(ctx, &models.PaymentMethodConfig{
		TenantID: other,
		Type:     enums.PaymentMethodTypeMercadoPago,
		Enabled:  true,
	}))

	configs, err := repo.ListByTenant(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	for _, config := range configs {
		assert.Equal(t, tenant, config.TenantID)
	}
}

func TestRepositoryFindMissingReturnsNotFound(t *testing.T) {
	db := setupPaymentMethodsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByTenantAndType(context.Background(), uuid.New(), enums.PaymentMethodTypePayPal)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
