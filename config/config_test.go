package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  serviceName: storefront
  log:
    level: info
http:
  port: 5050
secretKey:
  access: from-file
auth:
  bcryptCost: 4
  tokenTTL: 2h
admin:
  email: admin@example.com
`

func TestLoadWithEnv_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(testYAML), 0o600))
	t.Chdir(dir)
	t.Setenv("SECRETKEY_ACCESS", "from-env")
	t.Setenv("HTTP_PORT", "8081")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.Env.ServiceName)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "from-env", cfg.SecretKey.Access)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	require.NotNil(t, cfg.Admin)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadWithEnv[Config]("absent")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Contains(t, err.Error(), "absent.yaml")
}

func TestLoadWithEnv_Shopper(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shopper.yaml"), []byte(`
api:
  baseUrl: http://api.test
stateUrl: mem://
bootstrapAdmin:
  email: admin@example.com
  password: secret
`), 0o600))
	t.Chdir(dir)
	t.Setenv("API_TIMEOUT", "3s")

	cfg, err := LoadWithEnv[ShopperConfig]("shopper")
	require.NoError(t, err)
	ApplyShopperDefaults(cfg)

	assert.Equal(t, "http://api.test", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "mem://", cfg.StateURL)
	require.NotNil(t, cfg.BootstrapAdmin)
	assert.Equal(t, "admin@example.com", cfg.BootstrapAdmin.Email)
}

func TestApplyShopperDefaults(t *testing.T) {
	cfg := &ShopperConfig{}
	ApplyShopperDefaults(cfg)

	assert.Equal(t, defaultShopperAPIURL, cfg.API.BaseURL)
	assert.Equal(t, defaultShopperAPITimeout, cfg.API.Timeout)
	assert.Equal(t, defaultShopperStateURL, cfg.StateURL)
	assert.Nil(t, cfg.BootstrapAdmin)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, defaultMaxUploadSize, cfg.HTTP.MaxUploadSize)
	require.NotNil(t, cfg.Storage)
	assert.Equal(t, defaultBucketURL, cfg.Storage.BucketURL)
	assert.Equal(t, defaultUploadPrefix, cfg.Storage.PublicPrefix)
}
