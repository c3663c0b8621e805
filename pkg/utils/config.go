package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Booking   BookingConfig
	Lifecycle LifecycleConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type BookingConfig struct {
	// CutoffMinutes closes booking this many minutes before start time.
	CutoffMinutes int
}

type LifecycleConfig struct {
	SweepIntervalSeconds int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("BOOKING_CUTOFF_MINUTES", 15)
	viper.SetDefault("LIFECYCLE_SWEEP_SECONDS", 60)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			CutoffMinutes: viper.GetInt("BOOKING_CUTOFF_MINUTES"),
		},
		Lifecycle: LifecycleConfig{
			SweepIntervalSeconds: viper.GetInt("LIFECYCLE_SWEEP_SECONDS"),
		},
	}

	return config, nil
}
