package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	DBHost            string `envconfig:"DB_HOST" default:"postgres"`
	DBPort            int    `envconfig:"DB_PORT" default:"5432"`
	DBUser            string `envconfig:"DB_USER" default:"booking"`
	DBPassword        string `envconfig:"DB_PASSWORD" default:"booking"`
	DBName            string `envconfig:"DB_NAME" default:"booking_db"`
	DBSSLMode         string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpenConns    int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	DBMaxIdleConns    int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifeTime int    `envconfig:"DB_CONN_MAX_LIFETIME_MIN" default:"30"` // минут

	// Часовой пояс рабочих часов консультантов.
	BusinessTimeZone string `envconfig:"BUSINESS_TIMEZONE" default:"Europe/Moscow"`

	// HTTP
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// development | production
	Env string `envconfig:"APP_ENV" default:"development"`
}

func Load() (App, error) {
	var c App
	if err := envconfig.Process("", &c); err != nil {
		return App{}, err
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return App{}, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	return c, nil
}

// DSN собирает строку подключения к Postgres.
func (c App) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
	)
}

// Location загружает часовой пояс рабочих часов.
func (c App) Location() (*time.Location, error) {
	return time.LoadLocation(c.BusinessTimeZone)
}
