/**
 * @description
 * This package handles the configuration management for the planner-service.
 * It uses the Viper library to read configuration from environment variables
 * (with an optional .env file), providing a centralized way to manage
 * application settings — including the injectable planning policies: the
 * issuer minimum-payment convention, the emergency-fund milestone schedule,
 * and the projection horizon.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the planner-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort           string `mapstructure:"SERVER_PORT"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	RedisPlanCachePrefix string `mapstructure:"REDIS_PLAN_CACHE_PREFIX"`
	PlanCacheTTLMinutes  int    `mapstructure:"PLAN_CACHE_TTL_MINUTES"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	InternalAPIKey       string `mapstructure:"INTERNAL_API_KEY"`
	CORSAllowedOrigins   string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	ProjectionHorizonMonths int     `mapstructure:"PROJECTION_HORIZON_MONTHS"`
	MinPaymentFloorPercent  float64 `mapstructure:"MIN_PAYMENT_FLOOR_PERCENT"`
	MinPaymentFixedFloor    float64 `mapstructure:"MIN_PAYMENT_FIXED_FLOOR"`

	EmergencyFundTargetMonths    float64 `mapstructure:"EMERGENCY_FUND_TARGET_MONTHS"`
	EmergencyFirstStepMonth      int     `mapstructure:"EMERGENCY_FIRST_STEP_MONTH"`
	EmergencyFirstStepMonthsOfEx float64 `mapstructure:"EMERGENCY_FIRST_STEP_MONTHS_OF_EXPENSES"`

	CalendarRefreshSchedule string `mapstructure:"CALENDAR_REFRESH_SCHEDULE"`
	CalendarHorizonMonths   int    `mapstructure:"CALENDAR_HORIZON_MONTHS"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8086")
	viper.SetDefault("REDIS_PLAN_CACHE_PREFIX", "autopayplan:plan_cache")
	viper.SetDefault("PLAN_CACHE_TTL_MINUTES", 60)
	viper.SetDefault("PROJECTION_HORIZON_MONTHS", 600)
	viper.SetDefault("MIN_PAYMENT_FLOOR_PERCENT", 0.02)
	viper.SetDefault("MIN_PAYMENT_FIXED_FLOOR", 10.0)
	viper.SetDefault("EMERGENCY_FUND_TARGET_MONTHS", 3.0)
	viper.SetDefault("EMERGENCY_FIRST_STEP_MONTH", 2)
	viper.SetDefault("EMERGENCY_FIRST_STEP_MONTHS_OF_EXPENSES", 1.0)
	viper.SetDefault("CALENDAR_REFRESH_SCHEDULE", "0 5 * * *")
	viper.SetDefault("CALENDAR_HORIZON_MONTHS", 12)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL", "REDIS_URL", "PLANNER_REDIS_URL")
	_ = viper.BindEnv("REDIS_PLAN_CACHE_PREFIX")
	_ = viper.BindEnv("PLAN_CACHE_TTL_MINUTES")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("INTERNAL_API_KEY", "INTERNAL_API_KEY", "PLANNER_SERVICE_INTERNAL_API_KEY")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")
	_ = viper.BindEnv("PROJECTION_HORIZON_MONTHS")
	_ = viper.BindEnv("MIN_PAYMENT_FLOOR_PERCENT")
	_ = viper.BindEnv("MIN_PAYMENT_FIXED_FLOOR")
	_ = viper.BindEnv("EMERGENCY_FUND_TARGET_MONTHS")
	_ = viper.BindEnv("EMERGENCY_FIRST_STEP_MONTH")
	_ = viper.BindEnv("EMERGENCY_FIRST_STEP_MONTHS_OF_EXPENSES")
	_ = viper.BindEnv("CALENDAR_REFRESH_SCHEDULE")
	_ = viper.BindEnv("CALENDAR_HORIZON_MONTHS")

	// Attempt to read the .env file, but don't fail if it's not found.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(path); statErr == nil {
				// Config file exists but could not be parsed; real error.
				if _, parseOK := err.(*os.PathError); !parseOK {
					return config, err
				}
			}
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return config, err
}
