package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/registry"
)

var envKeys = []string{
	"APP_NAME", "APP_ENV", "APP_DEBUG", "APP_PORT",
	"INJECT_DEFAULT_LIFETIME", "INJECT_MAX_DEPTH", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets the keys config reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := config.Load(noEnvFile(t))

	assert.Equal(t, "GoInjector", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Env)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, "transient", cfg.Injector.DefaultLifetime)
	assert.Equal(t, 1000, cfg.Injector.MaxDepth)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, ".env", "APP_NAME=FromFile\nINJECT_MAX_DEPTH=42\nINJECT_DEFAULT_LIFETIME=singleton\n")

	cfg := config.Load(path)
	assert.Equal(t, "FromFile", cfg.App.Name)
	assert.Equal(t, 42, cfg.Injector.MaxDepth)

	l, err := cfg.Injector.Lifetime()
	require.NoError(t, err)
	assert.Equal(t, registry.Singleton, l)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_NAME", "FromEnv")
	path := writeFile(t, ".env", "APP_NAME=FromFile\n")

	assert.Equal(t, "FromEnv", config.Load(path).App.Name)
}

func TestLoadFlags_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("INJECT_DEFAULT_LIFETIME", "singleton")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-level=debug", "--max-depth=7"}))

	cfg, err := config.LoadFlags(fs, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level, "a set flag wins over the environment")
	assert.Equal(t, "singleton", cfg.Injector.DefaultLifetime, "the environment wins over flag defaults")
	assert.Equal(t, 7, cfg.Injector.MaxDepth)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFlags_NilFlagSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")

	cfg, err := config.LoadFlags(nil, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "GoInjector", cfg.App.Name)
}

func TestLoadFlags_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "injector.yaml", "app:\n  name: FromYAML\nlog:\n  format: json\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", path}))

	cfg, err := config.LoadFlags(fs, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "FromYAML", cfg.App.Name)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFlags_Invalid(t *testing.T) {
	cases := map[string][]string{
		"lifetime":  {"--default-lifetime=forever"},
		"depth":     {"--max-depth=-1"},
		"format":    {"--log-format=xml"},
		"no config": {"--config=/does/not/exist.yaml"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			config.RegisterFlags(fs)
			require.NoError(t, fs.Parse(args))

			_, err := config.LoadFlags(fs, noEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestGetHelpers(t *testing.T) {
	t.Setenv("CONFIG_TEST_INT", "12")
	t.Setenv("CONFIG_TEST_BAD", "twelve")
	t.Setenv("CONFIG_TEST_BOOL", "false")

	assert.Equal(t, 12, config.GetInt("CONFIG_TEST_INT", 1))
	assert.Equal(t, 1, config.GetInt("CONFIG_TEST_BAD", 1))
	assert.False(t, config.GetBool("CONFIG_TEST_BOOL", true))
	assert.Equal(t, "fallback", config.Get("CONFIG_TEST_MISSING", "fallback"))
}
