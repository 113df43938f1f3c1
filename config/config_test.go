package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Auth          struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		LoginTTL  time.Duration `mapstructure:"login_ttl"`
	} `mapstructure:"auth"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestServiceConfig_ApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "svc"}
	cfg.ApplyDefaults()
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "info", cfg.Logging.Level)

	prod := ServiceConfig{Name: "svc", Environment: "production"}
	prod.ApplyDefaults()
	assert.False(t, prod.Debug)
	assert.True(t, prod.IsProduction())
}

func TestServiceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadConfig_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: recordkit
environment: staging
auth:
  jwt_secret: from-file
  login_ttl: 1h
`)
	t.Setenv("RECORDKIT_AUTH_JWT_SECRET", "from-env")

	var cfg testConfig
	require.NoError(t, LoadConfig("recordkit", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none"))))

	assert.Equal(t, "recordkit", cfg.Name)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.LoginTTL)
}

func TestLoadConfig_EnvironmentOverlay(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: recordkit
environment: production
auth:
  jwt_secret: base
`)
	writeFile(t, dir, "config.production.yml", `
auth:
  jwt_secret: prod
`)

	var cfg testConfig
	require.NoError(t, LoadConfig("recordkit", &cfg, WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none"))))
	assert.Equal(t, "prod", cfg.Auth.JWTSecret)
	assert.Equal(t, "recordkit", cfg.Name)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "RECORDKIT_NAME=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("RECORDKIT_NAME") })

	var cfg testConfig
	require.NoError(t, LoadConfig("recordkit", &cfg, WithConfigFile(filepath.Join(dir, "missing.yml")), WithEnvFile(envPath)))
	assert.Equal(t, "from-dotenv", cfg.Name)
}

func TestLoadConfig_MissingFileIsNotAnError(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	assert.NoError(t, err)
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolver_SearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/recordkit/config.yml": true,
		"./config.yml":               true,
		".env":                       true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("recordkit", LoaderConfig{})
	assert.Equal(t, "./cmd/recordkit/config.yml", files.ConfigFile)
	assert.Equal(t, ".env", files.EnvFile)

	files = resolver.ResolveFiles("recordkit", LoaderConfig{ConfigFile: "/explicit.yml"})
	assert.Equal(t, "/explicit.yml", files.ConfigFile)
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("AUTH_JWT_SECRET")
	assert.Contains(t, variants, "auth.jwt_secret")
	assert.Contains(t, variants, "auth.jwt.secret")
	assert.Contains(t, variants, "auth_jwt_secret")

	assert.Equal(t, []string{"name"}, generateEnvKeyVariants("NAME"))
}

func TestOverlayPath(t *testing.T) {
	assert.Equal(t, "cmd/x/config.production.yml", overlayPath("cmd/x/config.yml", "production"))
}
