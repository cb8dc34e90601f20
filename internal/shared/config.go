package shared

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

var (
	ErrLoadConfig    = errors.New("load config failed")
	ErrInvalidConfig = errors.New("invalid config")
)

const (
	envPrefix  = "IBE_"
	envFileVar = "IBE_CONFIG"
)

type Config struct {
	AppEnv   string `koanf:"app_env"`
	LogLevel string `koanf:"log_level"`

	HTTP struct {
		Addr           string        `koanf:"addr"`
		RequestTimeout time.Duration `koanf:"request_timeout"`
	} `koanf:"http"`

	Metrics struct {
		Addr string `koanf:"addr"`
	} `koanf:"metrics"`

	Upstream struct {
		BaseURL string        `koanf:"base_url"`
		APIKey  string        `koanf:"api_key"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"upstream"`

	BlobStorage struct {
		LinkEn string `koanf:"link_en"`
		LinkDe string `koanf:"link_de"`
	} `koanf:"blob_storage"`

	CORS struct {
		AllowedOrigins []string `koanf:"allowed_origins"`
	} `koanf:"cors"`

	Store struct {
		Driver        string `koanf:"driver"`
		MySQLDSN      string `koanf:"mysql_dsn"`
		MongoURI      string `koanf:"mongo_uri"`
		MongoDatabase string `koanf:"mongo_database"`
	} `koanf:"store"`

	Cache struct {
		Enabled   bool          `koanf:"enabled"`
		RedisAddr string        `koanf:"redis_addr"`
		RedisPass string        `koanf:"redis_password"`
		RedisDB   int           `koanf:"redis_db"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"cache"`
}

// Defaults returns the configuration used when neither a file nor env overrides a key.
func Defaults() Config {
	var c Config
	c.AppEnv = "prod"
	c.LogLevel = "info"
	c.HTTP.Addr = ":8080"
	c.Metrics.Addr = ""
	c.Upstream.BaseURL = "http://localhost:4000/graphql"
	c.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	c.Store.Driver = "mysql"
	c.Store.MySQLDSN = "root:root@tcp(localhost:3306)/ibe?parseTime=true&charset=utf8mb4&loc=UTC"
	c.Store.MongoURI = "mongodb://localhost:27017"
	c.Store.MongoDatabase = "ibe"
	c.Cache.RedisAddr = "localhost:6379"
	c.Cache.TTL = 5 * time.Minute
	return c
}

// Load layers defaults, the YAML file named by IBE_CONFIG (if set) and IBE_*
// environment variables, in that order of precedence.
// Nested keys use a double underscore in env: IBE_UPSTREAM__API_KEY -> upstream.api_key.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(key, envPrefix)
		if key == "CONFIG" {
			return "", nil
		}
		key = strings.ReplaceAll(strings.ToLower(key), "__", ".")
		if key == "cors.allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	c := Defaults()
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	if c.Upstream.APIKey == "" {
		log.Warn().Msg("upstream api key is empty")
	}
	return c, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("%w: http.addr must not be empty", ErrInvalidConfig)
	}
	switch c.Store.Driver {
	case "mysql", "mongo":
	default:
		return fmt.Errorf("%w: store.driver must be mysql or mongo, got %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Cache.Enabled && c.Cache.RedisAddr == "" {
		return fmt.Errorf("%w: cache.redis_addr is required when the cache is enabled", ErrInvalidConfig)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
