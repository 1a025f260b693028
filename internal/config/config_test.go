package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	for _, key := range []string{
		"SERVER_PORT", "PORT", "PROJECTION_HORIZON_MONTHS",
		"MIN_PAYMENT_FLOOR_PERCENT", "MIN_PAYMENT_FIXED_FLOOR",
		"EMERGENCY_FUND_TARGET_MONTHS", "CALENDAR_HORIZON_MONTHS",
	} {
		unsetEnvWithCleanup(t, key)
	}

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8086" {
		t.Fatalf("expected default port 8086, got %q", cfg.ServerPort)
	}
	if cfg.ProjectionHorizonMonths != 600 {
		t.Fatalf("expected default horizon 600, got %d", cfg.ProjectionHorizonMonths)
	}
	if cfg.MinPaymentFloorPercent != 0.02 || cfg.MinPaymentFixedFloor != 10.0 {
		t.Fatalf("unexpected minimum payment policy defaults: %v / %v", cfg.MinPaymentFloorPercent, cfg.MinPaymentFixedFloor)
	}
	if cfg.EmergencyFundTargetMonths != 3.0 {
		t.Fatalf("expected default emergency target of 3 months, got %v", cfg.EmergencyFundTargetMonths)
	}
	if cfg.CalendarHorizonMonths != 12 {
		t.Fatalf("expected default calendar horizon 12, got %d", cfg.CalendarHorizonMonths)
	}
}

func TestLoadConfig_UsesPortAlias(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "SERVER_PORT")
	setEnvWithCleanup(t, "PORT", "9099")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "9099" {
		t.Fatalf("expected ServerPort from PORT alias, got %q", cfg.ServerPort)
	}
}

func TestLoadConfig_PolicyOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "MIN_PAYMENT_FLOOR_PERCENT", "0.03")
	setEnvWithCleanup(t, "MIN_PAYMENT_FIXED_FLOOR", "25")
	setEnvWithCleanup(t, "PROJECTION_HORIZON_MONTHS", "120")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MinPaymentFloorPercent != 0.03 {
		t.Fatalf("expected floor percent override, got %v", cfg.MinPaymentFloorPercent)
	}
	if cfg.MinPaymentFixedFloor != 25 {
		t.Fatalf("expected fixed floor override, got %v", cfg.MinPaymentFixedFloor)
	}
	if cfg.ProjectionHorizonMonths != 120 {
		t.Fatalf("expected horizon override, got %d", cfg.ProjectionHorizonMonths)
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if !hadPrev {
		return
	}
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		os.Setenv(key, prev)
	})
}
