package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ByLCY/quotecard/renderer"
	"github.com/ByLCY/quotecard/suggest"
	"github.com/ByLCY/quotecard/template"
)

// Config 对应 config.toml。样式本身不在这里配置，而是来自模板与命令行参数。
type Config struct {
	Size          int           `toml:"size"`
	Template      string        `toml:"template"`
	TemplatesFile string        `toml:"templates_file"`
	Suggest       SuggestConfig `toml:"suggest"`
	Cache         CacheConfig   `toml:"cache"`
	Serve         ServeConfig   `toml:"serve"`
}

type SuggestConfig struct {
	Endpoint  string   `toml:"endpoint"`
	Model     string   `toml:"model"`
	APIKeyEnv string   `toml:"api_key_env"`
	Timeout   Duration `toml:"timeout"`
}

type CacheConfig struct {
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
	Disabled      bool     `toml:"disabled"`
}

type ServeConfig struct {
	Addr string `toml:"addr"`
}

// Duration decodes toml strings such as "30s" or "168h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Size:     renderer.MaxSize,
		Template: template.MidnightSerenity,
		Suggest: SuggestConfig{
			Endpoint:  suggest.DefaultEndpoint,
			Model:     suggest.DefaultModel,
			APIKeyEnv: "API_KEY",
			Timeout:   Duration{suggest.DefaultTimeout},
		},
		Cache: CacheConfig{TTL: Duration{7 * 24 * time.Hour}},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/quotecard/config.toml (or the OS equivalent).
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quotecard", "config.toml")
}

// loadConfig 读取配置文件并覆盖默认值。
// path 为空时使用默认路径，默认路径下文件不存在不算错误。
func loadConfig(path string, logger *log.Logger) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("unknown config keys ignored", "file", path, "keys", strings.Join(keys, ", "))
	}
	if cfg.Size <= 0 {
		cfg.Size = renderer.MaxSize
	}
	logger.Debug("loaded config", "file", path)
	return cfg, nil
}

// cacheDir returns the configured cache directory or the user cache default.
func (c *Config) cacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "quotecard"), nil
}

// apiKey reads the Gemini key from the configured environment variable.
func (c *Config) apiKey() string {
	name := c.Suggest.APIKeyEnv
	if name == "" {
		name = "API_KEY"
	}
	return os.Getenv(name)
}
