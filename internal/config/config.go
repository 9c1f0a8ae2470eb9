// config предоставляет структуру конфигурации сервиса и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Auth     AuthConfig    `yaml:"auth"`
	Redis    RedisConfig   `yaml:"redis"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"TIMEOUT_SERVICE" env-default:"5s"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host        string   `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port        string   `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	CORSOrigins []string `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS"` // пусто — CORS выключен.
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// AuthConfig содержит параметры выпуска и проверки токенов.
// Времена жизни задаются в секундах.
type AuthConfig struct {
	JWTSecret            string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	JWTExpiration        int    `yaml:"jwt_expiration" env:"JWT_EXPIRATION" env-default:"3600"`
	JWTRefreshSecret     string `yaml:"jwt_refresh_secret" env:"JWT_REFRESH_SECRET" env-required:"true"`
	JWTRefreshExpiration int    `yaml:"jwt_refresh_expiration" env:"JWT_REFRESH_EXPIRATION" env-default:"86400"`
}

// AccessTTL — время жизни access-токена.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.JWTExpiration) * time.Second
}

// RefreshTTL — время жизни refresh-токена и записи сессии в хранилище.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.JWTRefreshExpiration) * time.Second
}

// RedisConfig — параметры подключения к хранилищу сессий.
type RedisConfig struct {
	Host      string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port      int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password  string `yaml:"password" env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"auth:session:"`
}

// Addr возвращает адрес Redis в формате host:port.
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

var (
	// ErrEmptySecret — не задан один из секретов подписи.
	ErrEmptySecret = errors.New("jwt secret is empty")
	// ErrSameSecrets — access и refresh подписываются одним секретом.
	ErrSameSecrets = errors.New("access and refresh secrets must differ")
	// ErrInvalidTTL — неположительное время жизни токена.
	ErrInvalidTTL = errors.New("token ttl must be positive")
	// ErrRefreshShorterThanAccess — refresh живёт меньше access.
	ErrRefreshShorterThanAccess = errors.New("refresh ttl is shorter than access ttl")
)

// Validate проверяет согласованность параметров выпуска токенов.
func (a AuthConfig) Validate() error {
	const op = "config.AuthConfig.Validate"

	if a.JWTSecret == "" || a.JWTRefreshSecret == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}

	if a.JWTSecret == a.JWTRefreshSecret {
		return fmt.Errorf("%s: %w", op, ErrSameSecrets)
	}

	if a.JWTExpiration <= 0 || a.JWTRefreshExpiration <= 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidTTL)
	}

	if a.JWTRefreshExpiration < a.JWTExpiration {
		return fmt.Errorf("%s: %w", op, ErrRefreshShorterThanAccess)
	}

	return nil
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
// После чтения файла поверх значений из YAML накладываются ENV-переменные.
// Результат всегда проходит AuthConfig.Validate.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func read(path string) (*Config, error) {
	var cfg Config

	fromFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %q: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	if path != "" {
		return fromFile(path)
	}

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return fromFile(envPath)
	}

	if _, err := os.Stat("local.yaml"); err == nil {
		return fromFile("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}
