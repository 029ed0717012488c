// config реализует конфигурацию profiles-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Поддерживаемые типы бэкенда.
const (
	DBTypeMongo = "mongodb"
	DBTypeHCD   = "hcd"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	DB       DBConfig      `yaml:"db"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — сервисные таймауты (общий дедлайн обработки запроса).
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
}

// HTTPConfig — публичный HTTP-сервер (страницы + JSON API + health/metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — выбор бэкенда и параметры подключения к каждому из них.
// Type выбирается один раз на старте процесса; смена бэкенда — рестарт.
type DBConfig struct {
	Type  string      `yaml:"type" env:"DATABASE_TYPE" env-default:"mongodb"`
	Mongo MongoConfig `yaml:"mongo"`
	HCD   HCDConfig   `yaml:"hcd"`
}

// MongoConfig — подключение к MongoDB.
type MongoConfig struct {
	URI      string `yaml:"uri"      env:"MONGODB_URI"      env-default:"mongodb://localhost:27017/"`
	Database string `yaml:"database" env:"MONGODB_DATABASE" env-default:"user_profiles"`
}

// HCDConfig — подключение к HTTP Data API (HCD).
// Endpoint/Username/Password обязательны, если выбран этот бэкенд.
type HCDConfig struct {
	Endpoint string `yaml:"endpoint" env:"HCD_API_ENDPOINT"`
	Username string `yaml:"username" env:"HCD_USERNAME"`
	Password string `yaml:"password" env:"HCD_PASSWORD"`
	Keyspace string `yaml:"keyspace" env:"HCD_KEYSPACE" env-default:"default_keyspace"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
// Ошибки здесь фатальны: процесс не стартует с неполной конфигурацией.
func (c *Config) validate() error {
	switch c.DB.Type {
	case DBTypeMongo:
		if strings.TrimSpace(c.DB.Mongo.URI) == "" {
			return fmt.Errorf("db.mongo.uri is required for db.type=%s", DBTypeMongo)
		}
	case DBTypeHCD:
		var missing []string
		if strings.TrimSpace(c.DB.HCD.Endpoint) == "" {
			missing = append(missing, "HCD_API_ENDPOINT")
		}
		if strings.TrimSpace(c.DB.HCD.Username) == "" {
			missing = append(missing, "HCD_USERNAME")
		}
		if strings.TrimSpace(c.DB.HCD.Password) == "" {
			missing = append(missing, "HCD_PASSWORD")
		}
		if len(missing) > 0 {
			return fmt.Errorf("hcd configuration incomplete: check %s", strings.Join(missing, ", "))
		}
		if strings.TrimSpace(c.DB.HCD.Keyspace) == "" {
			return fmt.Errorf("db.hcd.keyspace must not be empty")
		}
	default:
		return fmt.Errorf("unsupported db.type %q (expected %q or %q)", c.DB.Type, DBTypeMongo, DBTypeHCD)
	}

	if c.Timeouts.Service <= 0 {
		return fmt.Errorf("timeouts.service must be > 0")
	}

	return nil
}
