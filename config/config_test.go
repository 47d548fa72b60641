package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	unsetEnv(t, "MYSQL_DSN")
	setEnv(t, "VNPAY_HASH_SECRET", "secret")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing MYSQL_DSN")
	}
}

func TestLoadRequiresVNPayHashSecret(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/jobs?parseTime=true")
	unsetEnv(t, "VNPAY_HASH_SECRET")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing VNPAY_HASH_SECRET")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/jobs?parseTime=true")
	setEnv(t, "VNPAY_HASH_SECRET", "secret")
	setEnv(t, "APP_SERVICE_NAME", "subs-test")
	setEnv(t, "HTTP_PORT", "8181")
	setEnv(t, "MYSQL_MAX_OPEN_CONNS", "20")
	setEnv(t, "MYSQL_MAX_IDLE_CONNS", "8")
	setEnv(t, "MYSQL_CONN_MAX_LIFETIME_MINUTES", "40")
	setEnv(t, "QUOTA_DAILY_FREE_LIMIT", "3")
	setEnv(t, "VNPAY_TMN_CODE", "TESTCODE")
	setEnv(t, "VNPAY_RETURN_URL", "https://jobs.local/payments/vnpay-callback")
	setEnv(t, "VNPAY_EXPIRE_WINDOW_MINUTES", "20")
	setEnv(t, "EXPIRATION_CHECK_INTERVAL_MINUTES", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.ServiceName != "subs-test" {
		t.Fatalf("unexpected app service name: %s", cfg.App.ServiceName)
	}
	if cfg.HTTP.Port != "8181" {
		t.Fatalf("unexpected http port: %s", cfg.HTTP.Port)
	}
	if cfg.MySQL.MaxOpenConns != 20 || cfg.MySQL.MaxIdleConns != 8 {
		t.Fatalf("unexpected mysql pool config: %+v", cfg.MySQL)
	}
	if cfg.MySQL.ConnMaxLifetime != 40*time.Minute {
		t.Fatalf("unexpected mysql lifetime: %v", cfg.MySQL.ConnMaxLifetime)
	}
	if cfg.Quota.DailyFreeLimit != 3 {
		t.Fatalf("unexpected daily free limit: %d", cfg.Quota.DailyFreeLimit)
	}
	if cfg.VNPay.TmnCode != "TESTCODE" || cfg.VNPay.HashSecret != "secret" {
		t.Fatalf("unexpected vnpay config: %+v", cfg.VNPay)
	}
	if cfg.VNPay.ExpireWindow != 20*time.Minute {
		t.Fatalf("unexpected vnpay expire window: %v", cfg.VNPay.ExpireWindow)
	}
	if cfg.Jobs.ExpirationCheckInterval != 30*time.Minute {
		t.Fatalf("unexpected expiration interval: %v", cfg.Jobs.ExpirationCheckInterval)
	}
}

func TestLoadDefaultQuotaAndGateway(t *testing.T) {
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/jobs?parseTime=true")
	setEnv(t, "VNPAY_HASH_SECRET", "secret")
	unsetEnv(t, "QUOTA_DAILY_FREE_LIMIT")
	unsetEnv(t, "VNPAY_PAY_URL")
	unsetEnv(t, "VNPAY_EXPIRE_WINDOW_MINUTES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Quota.DailyFreeLimit != 1 {
		t.Fatalf("unexpected default free limit: %d", cfg.Quota.DailyFreeLimit)
	}
	if cfg.VNPay.PayURL != "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html" {
		t.Fatalf("unexpected default pay url: %s", cfg.VNPay.PayURL)
	}
	if cfg.VNPay.ExpireWindow != 15*time.Minute {
		t.Fatalf("unexpected default expire window: %v", cfg.VNPay.ExpireWindow)
	}
}
