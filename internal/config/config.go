package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Trivia   TriviaConfig
	Log      LogConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	// CORSOrigins: разрешённые источники. Пустой список означает "*".
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// MigrationsPath: источник миграций для golang-migrate
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт).
	Addrs []string `mapstructure:"addrs"`

	// Addr: адрес для режима 'single', если Addrs пуст.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// TriviaConfig содержит настройки выдачи вопросов
type TriviaConfig struct {
	QuestionsPerPage   int           `mapstructure:"questions_per_page"`
	CategoryCacheTTL   time.Duration `mapstructure:"category_cache_ttl"`
	CategoriesCacheKey string        `mapstructure:"categories_cache_key"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
	RateLimitKeyPrefix string        `mapstructure:"rate_limit_key_prefix"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level string // debug, info, warn, error
	Env   string // production → JSON, иначе консольный формат
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения (используется cmd/migrate)
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "5000")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 15)

	vip.SetDefault("database.host", "localhost")
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.dbname", "trivia")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.migrations_path", "file://migrations")

	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.addr", "localhost:6379")

	vip.SetDefault("trivia.questions_per_page", 10)
	vip.SetDefault("trivia.category_cache_ttl", 10*time.Minute)
	vip.SetDefault("trivia.rate_limit_requests", 60)
	vip.SetDefault("trivia.rate_limit_window", time.Minute)
	vip.SetDefault("trivia.rate_limit_key_prefix", "rl:trivia")
	vip.SetDefault("trivia.categories_cache_key", "trivia:categories")

	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.env", "development")
}

func bindEnv(vip *viper.Viper) {
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")
	vip.BindEnv("database.migrations_path", "DATABASE_MIGRATIONS_PATH")

	// Привязка для секции Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")
	vip.BindEnv("redis.max_retries", "REDIS_MAX_RETRIES")
	vip.BindEnv("redis.min_retry_backoff", "REDIS_MIN_RETRY_BACKOFF")
	vip.BindEnv("redis.max_retry_backoff", "REDIS_MAX_RETRY_BACKOFF")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	vip.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	vip.BindEnv("server.cors_origins", "SERVER_CORS_ORIGINS")

	// Привязка для Trivia
	vip.BindEnv("trivia.questions_per_page", "TRIVIA_QUESTIONS_PER_PAGE")
	vip.BindEnv("trivia.category_cache_ttl", "TRIVIA_CATEGORY_CACHE_TTL")
	vip.BindEnv("trivia.categories_cache_key", "TRIVIA_CATEGORIES_CACHE_KEY")
	vip.BindEnv("trivia.rate_limit_requests", "TRIVIA_RATE_LIMIT_REQUESTS")
	vip.BindEnv("trivia.rate_limit_window", "TRIVIA_RATE_LIMIT_WINDOW")
	vip.BindEnv("trivia.rate_limit_key_prefix", "TRIVIA_RATE_LIMIT_KEY_PREFIX")

	// Привязка для Log
	vip.BindEnv("log.level", "LOG_LEVEL")
	vip.BindEnv("log.env", "LOG_ENV")
}

// Load загружает конфигурацию из файла и переменных окружения.
// Отсутствие файла не является ошибкой.
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	setDefaults(vip)
	bindEnv(vip)

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Config file '%s' not found, using environment/defaults", configPath)
			} else {
				log.Printf("Warning: failed to read config file '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Trivia.QuestionsPerPage <= 0 {
		return fmt.Errorf("trivia.questions_per_page must be positive, got %d", c.Trivia.QuestionsPerPage)
	}
	if c.Trivia.RateLimitRequests <= 0 {
		return fmt.Errorf("trivia.rate_limit_requests must be positive, got %d", c.Trivia.RateLimitRequests)
	}
	if c.Trivia.RateLimitWindow <= 0 {
		return fmt.Errorf("trivia.rate_limit_window must be positive, got %s", c.Trivia.RateLimitWindow)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required (check SERVER_PORT env var)")
	}
	return nil
}
