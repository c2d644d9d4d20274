package main

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
)

// Config drives the process. Values come from an optional JSON file, with
// environment variables taking precedence.
type Config struct {
	Port       string `json:"port"`
	DBURL      string `json:"db_url"`
	SQLitePath string `json:"sqlite_path"`
	DBDriver   string `json:"db_driver"`
	IsDebug    bool   `json:"is_debug"`
}

const defaultConfigPath = "bankd.json"

func loadConfig() (Config, error) {
	// .env is a development convenience; missing is fine.
	_ = godotenv.Load()

	cfg := Config{
		Port:       ":8080",
		SQLitePath: "bank.db",
	}

	path := os.Getenv("BANKD_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("BANKD_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DBURL = v
	}
	if v := os.Getenv("BANKD_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("BANKD_DB_DRIVER"); v != "" {
		cfg.DBDriver = v
	}
	if v := os.Getenv("BANKD_DEBUG"); v == "1" || v == "true" {
		cfg.IsDebug = true
	}
	return cfg, nil
}
