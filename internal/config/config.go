// Package config 載入服務設定。
// 先嘗試讀取 .env（不存在不視為錯誤），再由環境變數覆蓋預設值。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	LogMode         string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// Load 讀取 envFiles（預設 ".env"）後解析 LEDGER_* 環境變數。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		Addr:        str("LEDGER_ADDR", ":8080"),
		CORSOrigins: list("LEDGER_CORS_ORIGINS", []string{"http://localhost:3000"}),
	}

	mode, err := logMode(str("LEDGER_LOG_MODE", "dev"))
	if err != nil {
		return nil, err
	}
	cfg.LogMode = mode

	secs, err := positiveInt("LEDGER_SHUTDOWN_TIMEOUT", 5)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = time.Duration(secs) * time.Second
	return cfg, nil
}

func str(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

// logMode 將模式正規化為 "dev" 或 "prod"（不分大小寫，接受完整拼寫）。
func logMode(v string) (string, error) {
	switch strings.ToLower(v) {
	case "dev", "development":
		return "dev", nil
	case "prod", "production":
		return "prod", nil
	default:
		return "", fmt.Errorf("LEDGER_LOG_MODE must be dev or prod, got %q", v)
	}
}

func positiveInt(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	return i, nil
}

func list(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
