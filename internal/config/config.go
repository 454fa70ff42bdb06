package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config 导入程序配置
type Config struct {
	Env string `env:"APP_ENV" envDefault:"development"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres" validate:"oneof=postgres sqlite"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBName      string `env:"DB_NAME" envDefault:"moovie"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`
	DatabaseURL string `env:"DATABASE_URL"` // 设置后覆盖上面的分项配置
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"moovie.db" validate:"required_if=DBDriver sqlite"`
	DBLogLevel  string `env:"DB_LOG_LEVEL" envDefault:"warn" validate:"oneof=silent error warn info"`

	DatasetPath     string `env:"DATASET_PATH"`
	BatchSize       int    `env:"BATCH_SIZE" envDefault:"100" validate:"min=1"`
	MaxRows         int    `env:"MAX_ROWS" envDefault:"0" validate:"min=0"`
	EntityCacheSize int    `env:"ENTITY_CACHE_SIZE" envDefault:"10000" validate:"min=0"`
	VectorIndex     bool   `env:"VECTOR_INDEX" envDefault:"false"`
	Progress        bool   `env:"PROGRESS" envDefault:"true"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置，命令行参数覆盖后需要再次调用
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置无效: %w", err)
	}
	return nil
}

// PostgresURL 返回 PostgreSQL 连接串
func (c *Config) PostgresURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
