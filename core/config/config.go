package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"meetsync/core/logger"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GoogleAPIConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	AccessTTLHours  int    `mapstructure:"access_ttl_hours"`
	RefreshTTLHours int    `mapstructure:"refresh_ttl_hours"`
}

type S3Config struct {
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Endpoint        string `mapstructure:"endpoint"`
}

// ScoringConfig holds the slot scoring weights and limits. Loaded once at
// process start and passed into the suggestion engine by value; never
// mutated afterwards.
type ScoringConfig struct {
	MaxScore                           float64 `mapstructure:"max_score"`
	MinScoreToSuggest                  float64 `mapstructure:"min_score_to_suggest"`
	OverlapPenaltyPerMinute            float64 `mapstructure:"overlap_penalty_per_minute"`
	EarlierIsBetterPenaltyPerDay       float64 `mapstructure:"earlier_is_better_penalty_per_day"`
	DistanceFromMidpointPenaltyPerHour float64 `mapstructure:"distance_from_midpoint_penalty_per_hour"`
	MorningBonus                       float64 `mapstructure:"morning_bonus"`
	DefaultTopSuggestions              int     `mapstructure:"default_top_suggestions"`
}

// SchedulingConfig holds engine defaults and the per-account timezone
// override table (identifier -> IANA zone).
type SchedulingConfig struct {
	FallbackStartHour int               `mapstructure:"fallback_start_hour"`
	FallbackEndHour   int               `mapstructure:"fallback_end_hour"`
	StepMinutes       int               `mapstructure:"step_minutes"`
	MinNoticeHours    int               `mapstructure:"min_notice_hours"`
	ExcludeWeekends   bool              `mapstructure:"exclude_weekends"`
	TimezoneOverrides map[string]string `mapstructure:"timezone_overrides"`
	Scoring           ScoringConfig     `mapstructure:"scoring"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	GoogleAPI  GoogleAPIConfig  `mapstructure:"google_api"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	S3         S3Config         `mapstructure:"s3"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env, environment variables and the optional config.yaml and
// initializes the process-wide configuration singleton.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("config: no .env file found, relying on environment")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.AutomaticEnv()
	bindEnvs(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

// Get returns the loaded configuration. Panics when called before Load.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the configuration and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "meetsync")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.access_ttl_hours", 24)
	v.SetDefault("jwt.refresh_ttl_hours", 168)

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "meetsync-exports")

	v.SetDefault("scheduling.fallback_start_hour", 8)
	v.SetDefault("scheduling.fallback_end_hour", 17)
	v.SetDefault("scheduling.step_minutes", 30)
	v.SetDefault("scheduling.min_notice_hours", 2)
	v.SetDefault("scheduling.exclude_weekends", true)
	v.SetDefault("scheduling.timezone_overrides", map[string]string{})

	v.SetDefault("scheduling.scoring.max_score", 100.0)
	v.SetDefault("scheduling.scoring.min_score_to_suggest", 20.0)
	v.SetDefault("scheduling.scoring.overlap_penalty_per_minute", -1.5)
	v.SetDefault("scheduling.scoring.earlier_is_better_penalty_per_day", -5.0)
	v.SetDefault("scheduling.scoring.distance_from_midpoint_penalty_per_hour", -2.0)
	v.SetDefault("scheduling.scoring.morning_bonus", 10.0)
	v.SetDefault("scheduling.scoring.default_top_suggestions", 5)
}

func bindEnvs(v *viper.Viper) {
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.dbname", "DB_NAME")
	_ = v.BindEnv("database.sslmode", "DB_SSLMODE")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("google_api.client_id", "GOOGLE_CLIENT_ID")
	_ = v.BindEnv("google_api.client_secret", "GOOGLE_CLIENT_SECRET")
	_ = v.BindEnv("google_api.redirect_uri", "GOOGLE_REDIRECT_URI")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("s3.region", "S3_REGION")
	_ = v.BindEnv("s3.bucket", "S3_BUCKET")
	_ = v.BindEnv("s3.access_key_id", "S3_ACCESS_KEY_ID")
	_ = v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	_ = v.BindEnv("s3.endpoint", "S3_ENDPOINT")
}
