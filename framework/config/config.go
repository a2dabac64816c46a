package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/km-arc/go-injector/framework/registry"
)

// Config is the central typed configuration struct.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Injector InjectorConfig `yaml:"injector"`
	Log      LogConfig      `yaml:"log"`
}

type AppConfig struct {
	Name  string `yaml:"name"`
	Env   string `yaml:"env"` // local | production | testing
	Debug bool   `yaml:"debug"`
	Port  string `yaml:"port"`
}

// InjectorConfig tunes the container.
type InjectorConfig struct {
	DefaultLifetime string `yaml:"default_lifetime"` // transient | singleton
	MaxDepth        int    `yaml:"max_depth"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace | debug | info | warn | error
	Format string `yaml:"format"` // console | json
}

// Lifetime parses DefaultLifetime.
func (c InjectorConfig) Lifetime() (registry.Lifetime, error) {
	return registry.ParseLifetime(c.DefaultLifetime)
}

// keys maps viper keys to their environment variable and default.
var keys = []struct {
	key, env string
	def      any
}{
	{"app.name", "APP_NAME", "GoInjector"},
	{"app.env", "APP_ENV", "local"},
	{"app.debug", "APP_DEBUG", true},
	{"app.port", "APP_PORT", "8000"},
	{"injector.default_lifetime", "INJECT_DEFAULT_LIFETIME", "transient"},
	{"injector.max_depth", "INJECT_MAX_DEPTH", 1000},
	{"log.level", "LOG_LEVEL", "info"},
	{"log.format", "LOG_FORMAT", "console"},
}

// flags maps command-line flags to viper keys.
var flags = map[string]string{
	"default-lifetime": "injector.default_lifetime",
	"max-depth":        "injector.max_depth",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"port":             "app.port",
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	loadEnv(envFiles)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoInjector"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			Port:  env("APP_PORT", "8000"),
		},
		Injector: InjectorConfig{
			DefaultLifetime: env("INJECT_DEFAULT_LIFETIME", "transient"),
			MaxDepth:        GetInt("INJECT_MAX_DEPTH", 1000),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "console"),
		},
	}
}

// RegisterFlags adds the flags LoadFlags understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("default-lifetime", "transient", "lifetime of unconfigured targets: transient or singleton")
	fs.Int("max-depth", 1000, "maximum resolution depth")
	fs.String("log-level", "info", "log level: trace, debug, info, warn or error")
	fs.String("log-format", "console", "log format: console or json")
	fs.String("port", "8000", "HTTP port")
}

// LoadFlags builds a Config from, by increasing precedence: defaults, a
// config file named by the --config flag, the environment (after loading
// envFiles), and flags set on fs. fs may be nil.
func LoadFlags(fs *pflag.FlagSet, envFiles ...string) (*Config, error) {
	loadEnv(envFiles)

	v := viper.New()
	for _, k := range keys {
		v.SetDefault(k.key, k.def)
		if err := v.BindEnv(k.key, k.env); err != nil {
			return nil, errors.Wrapf(err, "config: bind %s", k.env)
		}
	}

	if fs != nil {
		for name, key := range flags {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "config: bind --%s", name)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "config: read %s", f.Value.String())
			}
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:  v.GetString("app.name"),
			Env:   v.GetString("app.env"),
			Debug: v.GetBool("app.debug"),
			Port:  v.GetString("app.port"),
		},
		Injector: InjectorConfig{
			DefaultLifetime: v.GetString("injector.default_lifetime"),
			MaxDepth:        v.GetInt("injector.max_depth"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the container and logger depend on.
func (c *Config) Validate() error {
	if _, err := c.Injector.Lifetime(); err != nil {
		return errors.WithMessage(err, "config: injector.default_lifetime")
	}
	if c.Injector.MaxDepth < 0 {
		return errors.Errorf("config: injector.max_depth must not be negative, got %d", c.Injector.MaxDepth)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return errors.Errorf("config: log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func loadEnv(envFiles []string) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
