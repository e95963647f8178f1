// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"development"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	RabbitMQConnection      string `yaml:"rabbitmq_connection" env:"RABBITMQ_CONNECTION"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PayPal                  `yaml:"paypal"`
	Session                 `yaml:"session"`
	DefaultAdmin            `yaml:"default_admin"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// PayPal структура для настройки платёжного шлюза.
// Mode принимает значения sandbox или live и определяет базовый адрес API.
// BaseURL — внешний адрес приложения, из которого строятся return/cancel ссылки.
type PayPal struct {
	ClientID     string `yaml:"client_id" env:"PAYPAL_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"PAYPAL_CLIENT_SECRET"`
	Mode         string `yaml:"mode" env:"PAYPAL_MODE" env-default:"sandbox"`
	BaseURL      string `yaml:"base_url" env:"BASE_URL"`
}

// Session структура для настройки сессионной куки и окна жизни
// незавершённой регистрации.
type Session struct {
	CookieName    string        `yaml:"cookie_name" env-default:"juntimo.sid"`
	CookieTTL     time.Duration `yaml:"cookie_ttl" env-default:"168h"`
	PendingExpiry time.Duration `yaml:"pending_expiry" env-default:"30m"`
	SecureCookie  bool          `yaml:"secure_cookie" env-default:"false"`
}

// DefaultAdmin учётные данные администратора, создаваемого при старте.
type DefaultAdmin struct {
	Email    string `yaml:"email" env:"DEFAULT_ADMIN_EMAIL"`
	Password string `yaml:"password" env:"DEFAULT_ADMIN_PASSWORD"`
}

// MustLoad функция для загрузки конфига, завершает процесс при любой ошибке чтения
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
