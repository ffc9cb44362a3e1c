package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "supermercado_test")
	t.Setenv("MONGODB_COLLECTION", "articulos_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	require.Equal(t, "supermercado_test", cfg.MongoDB.Database)
	require.Equal(t, "articulos_test", cfg.MongoDB.Collection)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "articulos", cfg.MongoDB.Collection)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.EqualValues(t, 50, cfg.MongoDB.MaxPoolSize)
	require.Empty(t, cfg.Redis.Addr())
	require.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfig_PortAlias(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "8085")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8085", cfg.Server.Port)
	require.Equal(t, "0.0.0.0:8085", cfg.Server.Addr())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: "3000"},
			MongoDB: MongoDBConfig{URI: "mongodb://x", Database: "db", Collection: "c", Timeout: time.Second},
		}
	}
	require.NoError(t, base().Validate())

	c := base()
	c.MongoDB.Database = ""
	require.Error(t, c.Validate())

	c = base()
	c.MongoDB.Collection = ""
	require.Error(t, c.Validate())

	// no URI means in-memory mode, names are not needed
	c = base()
	c.MongoDB.URI = ""
	c.MongoDB.Database = ""
	require.NoError(t, c.Validate())

	c = base()
	c.MongoDB.Timeout = 0
	require.Error(t, c.Validate())

	c = base()
	c.RateLimit.Enabled = true
	require.Error(t, c.Validate())
}
