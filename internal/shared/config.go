package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv      string `yaml:"app_env"`
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`

	// client side
	APIBase         string        `yaml:"api_base"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	RateLimitRPS    int           `yaml:"rate_limit_rps"`
	MaxRetries      int           `yaml:"max_retries"`
	StateBackend    string        `yaml:"state_backend"` // file|redis
	StatePath       string        `yaml:"state_path"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisPass       string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
	StatePrefix     string        `yaml:"state_prefix"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	DriverRate      float64       `yaml:"driver_rate_per_day"`
	DashboardFanout int           `yaml:"dashboard_concurrency"`

	// stub backend
	HTTPAddr  string  `yaml:"http_addr"`
	MySQLDSN  string  `yaml:"mysql_dsn"`
	JWTSecret string  `yaml:"jwt_secret"`
	RideFare  float64 `yaml:"ride_fare"`
}

func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		AppEnv:          "prod",
		LogLevel:        "info",
		APIBase:         "http://localhost:8000",
		RequestTimeout:  20 * time.Second,
		RateLimitRPS:    0,
		MaxRetries:      0,
		StateBackend:    "file",
		StatePath:       home + "/.tripdesk/state.json",
		RedisAddr:       "localhost:6379",
		StatePrefix:     "tripdesk:",
		SessionTTL:      24 * time.Hour,
		DriverRate:      50,
		DashboardFanout: 4,
		HTTPAddr:        ":8000",
		JWTSecret:       "dev-secret",
		RideFare:        25,
	}
}

// Load builds the config from defaults, then an optional YAML file named by
// TRIPDESK_CONFIG, then environment variables (a .env file is read first when present).
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	c := Defaults()
	if path := os.Getenv("TRIPDESK_CONFIG"); path != "" {
		if err := loadYAML(path, &c); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config file ignored")
		}
	}

	c.AppEnv = env("APP_ENV", c.AppEnv)
	c.LogLevel = env("LOG_LEVEL", c.LogLevel)
	c.MetricsAddr = env("METRICS_ADDR", c.MetricsAddr)
	c.APIBase = env("TRIPDESK_API_BASE", c.APIBase)
	c.RequestTimeout = dur("TRIPDESK_REQUEST_TIMEOUT", c.RequestTimeout)
	c.RateLimitRPS = atoi("TRIPDESK_RATE_LIMIT_RPS", c.RateLimitRPS)
	c.MaxRetries = atoi("TRIPDESK_MAX_RETRIES", c.MaxRetries)
	c.StateBackend = env("TRIPDESK_STATE_BACKEND", c.StateBackend)
	c.StatePath = env("TRIPDESK_STATE_PATH", c.StatePath)
	c.RedisAddr = env("REDIS_ADDR", c.RedisAddr)
	c.RedisPass = env("REDIS_PASSWORD", c.RedisPass)
	c.RedisDB = atoi("REDIS_DB", c.RedisDB)
	c.StatePrefix = env("TRIPDESK_STATE_PREFIX", c.StatePrefix)
	c.SessionTTL = dur("TRIPDESK_SESSION_TTL", c.SessionTTL)
	c.DriverRate = atof("TRIPDESK_DRIVER_RATE", c.DriverRate)
	c.DashboardFanout = atoi("TRIPDESK_DASHBOARD_CONCURRENCY", c.DashboardFanout)
	c.HTTPAddr = env("HTTP_ADDR", c.HTTPAddr)
	c.MySQLDSN = env("MYSQL_DSN", c.MySQLDSN)
	c.JWTSecret = env("JWT_SECRET", c.JWTSecret)
	c.RideFare = atof("STUB_RIDE_FARE", c.RideFare)

	if c.JWTSecret == "dev-secret" && c.AppEnv != "dev" && c.AppEnv != "development" {
		log.Warn().Msg("JWT_SECRET is the development default")
	}
	return c
}

func loadYAML(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, c)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func dur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
