package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	Port string `koanf:"port"`
	Log  Log    `koanf:"log"`

	Amadeus  Amadeus  `koanf:"amadeus"`
	Cache    Cache    `koanf:"cache"`
	Database Database `koanf:"database"`
}

type Log struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

type Amadeus struct {
	APIKey            string        `koanf:"apiKey"`
	APISecret         string        `koanf:"apiSecret"`
	BaseURL           string        `koanf:"baseUrl"`
	MaxResults        int           `koanf:"maxResults"`
	RequestsPerSecond float64       `koanf:"requestsPerSecond"`
	Burst             int           `koanf:"burst"`
	Timeout           time.Duration `koanf:"timeout"`

	// TokenRequestsPerSecond caps the OAuth2 token endpoint separately.
	TokenRequestsPerSecond float64 `koanf:"tokenRequestsPerSecond"`
}

type Cache struct {
	Enabled       bool          `koanf:"enabled"`
	RedisHost     string        `koanf:"redisHost"`
	RedisPort     string        `koanf:"redisPort"`
	RedisPassword string        `koanf:"redisPassword"`
	TTL           time.Duration `koanf:"ttl"`
}

// Database.DSN empty means accounts live in memory only.
type Database struct {
	DSN string `koanf:"dsn"`
}

// envKeys maps the recognized environment variables onto config paths.
var envKeys = map[string]string{
	"PORT":                "port",
	"LOG_LEVEL":           "log.level",
	"LOG_PRETTY":          "log.pretty",
	"API_KEY":             "amadeus.apiKey",
	"API_SECRET":          "amadeus.apiSecret",
	"AMADEUS_BASE_URL":    "amadeus.baseUrl",
	"AMADEUS_MAX_RESULTS": "amadeus.maxResults",
	"AMADEUS_RPS":         "amadeus.requestsPerSecond",
	"AMADEUS_BURST":       "amadeus.burst",
	"AMADEUS_TIMEOUT":     "amadeus.timeout",
	"AMADEUS_TOKEN_RPS":   "amadeus.tokenRequestsPerSecond",
	"CACHE_ENABLED":       "cache.enabled",
	"REDIS_HOST":          "cache.redisHost",
	"REDIS_PORT":          "cache.redisPort",
	"REDIS_PASSWORD":      "cache.redisPassword",
	"REDIS_TTL":           "cache.ttl",
	"DATABASE_DSN":        "database.dsn",
}

func Default() Config {
	return Config{
		Port: "8080",
		Log: Log{
			Level: "info",
		},
		Amadeus: Amadeus{
			BaseURL:           "https://test.api.amadeus.com",
			MaxResults:        50,
			RequestsPerSecond: 10,
			Burst:             1,
			Timeout:           10 * time.Second,

			TokenRequestsPerSecond: 1,
		},
		Cache: Cache{
			Enabled:   false,
			RedisHost: "localhost",
			RedisPort: "6379",
			TTL:       5 * time.Minute,
		},
	}
}

// Load layers the defaults, an optional YAML file named by CONFIG_FILE, and
// the environment, in that order.
func Load() (*Config, error) {
	return load(os.Getenv("CONFIG_FILE"), os.Environ)
}

func load(path string, environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envKeys[strings.ToUpper(key)]
			if !ok || value == "" {
				return "", nil
			}
			return path, value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	return &cfg, nil
}
