package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

type config struct {
	Addr        string
	TokenKey    string
	DatabaseURL string
	TLSCert     string
	TLSKey      string
	// InsecureCookies is set when serving plain HTTP.
	InsecureCookies bool
}

// loadConfig reads .env if present, then the process environment. Accounts
// are enabled only when DATABASE_URL is set, and then TOKEN_KEY is required.
func loadConfig(files ...string) (config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("load env: %w", err)
	}
	cfg := config{
		Addr:        os.Getenv("ADDR"),
		TokenKey:    os.Getenv("TOKEN_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		TLSCert:     os.Getenv("TLS_CERT"),
		TLSKey:      os.Getenv("TLS_KEY"),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return config{}, errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	cfg.InsecureCookies = cfg.TLSCert == ""
	if cfg.DatabaseURL != "" && cfg.TokenKey == "" {
		return config{}, errors.New("TOKEN_KEY environment variable is not set")
	}
	return cfg, nil
}

func (c config) accounts() bool { return c.DatabaseURL != "" }
