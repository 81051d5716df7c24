package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := postgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	// TranslateError maps driver duplicate-key errors onto gorm.ErrDuplicatedKey.
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func postgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	parts := []string{
		"host=" + host,
		fmt.Sprintf("port=%d", port),
		"user=" + cfg.User,
		"dbname=" + cfg.Name,
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+cfg.Password)
	}

	extra := make(map[string]string, len(cfg.Options)+1)
	for key, value := range cfg.Options {
		extra[key] = value
	}
	if _, ok := extra["sslmode"]; !ok {
		extra["sslmode"] = "disable"
	}

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, key+"="+extra[key])
	}

	return strings.Join(parts, " "), nil
}
