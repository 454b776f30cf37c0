package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 30, cfg.Engine.LowStockThreshold)
	assert.Equal(t, 10*time.Second, cfg.Engine.UnitTimeout)
	assert.Equal(t, "snapshot", cfg.Engine.RollbackCostSource)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "inventory:alerts", cfg.Redis.AlertChannel)
	assert.Equal(t, time.Minute, cfg.Redis.ReportTTL)
	assert.Equal(t, time.Second, cfg.Redis.InvalidateDelay)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "postgres://postgres:@localhost:5432/inventario?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")
	v.Set("REDIS_ADDR", "redis:6379")
	v.Set("ENGINE_LOW_STOCK_THRESHOLD", "5")
	v.Set("ENGINE_UNIT_TIMEOUT_SECONDS", 3)
	v.Set("ENGINE_ROLLBACK_COST_SOURCE", "CURRENT")
	v.Set("DB_AUTO_MIGRATE", true)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5, cfg.Engine.LowStockThreshold)
	assert.Equal(t, 3*time.Second, cfg.Engine.UnitTimeout)
	assert.Equal(t, "current", cfg.Engine.RollbackCostSource)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestFromViper_InvalidValues(t *testing.T) {
	v := viper.New()
	v.Set("ENGINE_ROLLBACK_COST_SOURCE", "average")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("ENGINE_LOW_STOCK_THRESHOLD", -1)
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ZeroEngineValuesRejected(t *testing.T) {
	v := viper.New()
	v.Set("ENGINE_LOW_STOCK_THRESHOLD", "0")
	_, err := fromViper(v)
	assert.ErrorContains(t, err, "ENGINE_LOW_STOCK_THRESHOLD")

	v = viper.New()
	v.Set("ENGINE_UNIT_TIMEOUT_SECONDS", 0)
	_, err = fromViper(v)
	assert.ErrorContains(t, err, "ENGINE_UNIT_TIMEOUT_SECONDS")
}

func TestGetInt_BadStringFallsBack(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "abc")
	assert.Equal(t, 8080, getInt(v, "HTTP_PORT", 8080))
}
