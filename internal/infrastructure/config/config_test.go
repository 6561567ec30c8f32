package config

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTOML(t *testing.T, doc string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return fromViper(v)
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "multimart-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "multimart", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 15*time.Minute, cfg.Redis.CartTTL)
		assert.Equal(t, "multimart.events", cfg.Event.Kafka.Topic)
		assert.True(t, cfg.Pricing.TaxRate.Equal(decimal.RequireFromString("0.18")))
		assert.True(t, cfg.Pricing.FreeShippingThreshold.Equal(decimal.NewFromInt(1000)))
		assert.True(t, cfg.Pricing.FlatShippingFee.Equal(decimal.NewFromInt(100)))
	})

	t.Run("loads values from environment variables with MM prefix", func(t *testing.T) {
		t.Setenv("MM_APP_NAME", "test-app")
		t.Setenv("MM_APP_PORT", "9000")
		t.Setenv("MM_DATABASE_HOST", "testdb.local")
		t.Setenv("MM_DATABASE_PORT", "5433")
		t.Setenv("MM_DATABASE_PASSWORD", "testpass")
		t.Setenv("MM_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("MM_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("MM_PRICING_TAX_RATE", "0.05")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "0.05", cfg.Pricing.TaxRate.String())
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("MM_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("MM_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		t.Setenv("MM_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects a malformed tax rate", func(t *testing.T) {
		t.Setenv("MM_PRICING_TAX_RATE", "eighteen")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pricing.tax_rate")
	})
}

func TestLoad_Pricing(t *testing.T) {
	t.Run("reads coupons from the config file", func(t *testing.T) {
		cfg, err := loadTOML(t, `
[pricing]
tax_rate = "0.12"
flat_shipping_fee = "50"

[pricing.coupons]
welcome10 = "10"
festive = "250.50"
`)
		require.NoError(t, err)

		assert.Equal(t, "0.12", cfg.Pricing.TaxRate.String())
		assert.Equal(t, "50", cfg.Pricing.FlatShippingFee.String())
		assert.Equal(t, "1000", cfg.Pricing.FreeShippingThreshold.String())
		require.Len(t, cfg.Pricing.Coupons, 2)
		assert.Equal(t, "10", cfg.Pricing.Coupons["WELCOME10"].String())
		assert.Equal(t, "250.5", cfg.Pricing.Coupons["FESTIVE"].String())
	})

	t.Run("tax rate of one or more is rejected", func(t *testing.T) {
		_, err := loadTOML(t, "[pricing]\ntax_rate = \"1.5\"\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pricing.tax_rate")
	})

	t.Run("non-positive coupon is rejected", func(t *testing.T) {
		_, err := loadTOML(t, "[pricing.coupons]\nbroken = \"-5\"\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pricing.coupons.BROKEN")
	})

	t.Run("kafka settings", func(t *testing.T) {
		cfg, err := loadTOML(t, `
[event.kafka]
enabled = true
brokers = ["kafka-1:9092", "kafka-2:9092"]
topic = "orders"
breaker_max_failures = 3
`)
		require.NoError(t, err)
		assert.True(t, cfg.Event.Kafka.Enabled)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Event.Kafka.Brokers)
		assert.Equal(t, "orders", cfg.Event.Kafka.Topic)
		assert.Equal(t, uint32(3), cfg.Event.Kafka.BreakerMaxFailures)
		assert.Equal(t, 30*time.Second, cfg.Event.Kafka.BreakerOpenDuration)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("MM_APP_ENV", "production")
		t.Setenv("MM_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("MM_DATABASE_PASSWORD", "secure-password")
		t.Setenv("MM_DATABASE_SSLMODE", "require")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MM_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MM_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MM_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("user id header is refused in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MM_HTTP_ALLOW_USER_ID_HEADER", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allow_user_id_header")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
