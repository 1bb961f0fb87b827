package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

type ServerConfig struct {
	Port string
}

type MediaConfig struct {
	Root    string
	BaseURL string
}

type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
}

func (c SheetsConfig) Configured() bool {
	return c.CredentialsFile != "" && c.SpreadsheetID != ""
}

type AdminConfig struct {
	Token string
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("db.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("db.master_dsn is required")
	}

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("db.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("db.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("db.conn_max_lifetime_seconds")) * time.Second,
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}

	log.Info().Msg("database configuration built")
	return masterDSN, nil, opts, nil
}

func BuildMediaConfig(cfg *config.Config, log *zerolog.Logger) MediaConfig {
	mc := MediaConfig{
		Root:    cfg.GetString("media.root"),
		BaseURL: cfg.GetString("media.base_url"),
	}
	if mc.Root == "" {
		mc.Root = "./media"
	}
	if mc.BaseURL == "" {
		mc.BaseURL = "http://localhost:" + cfg.GetString("server.port")
		log.Warn().Msgf("media.base_url not set, defaulting to %s", mc.BaseURL)
	}
	return mc
}

func BuildSheetsConfig(cfg *config.Config) SheetsConfig {
	return SheetsConfig{
		CredentialsFile: cfg.GetString("google_sheets.credentials_file"),
		SpreadsheetID:   cfg.GetString("google_sheets.spreadsheet_id"),
	}
}

func BuildAdminConfig(cfg *config.Config, log *zerolog.Logger) AdminConfig {
	token := cfg.GetString("admin.token")
	if token == "" {
		log.Warn().Msg("admin.token not set, admin endpoints are disabled")
	}
	return AdminConfig{Token: token}
}

func BuildSMTPConfig(cfg *config.Config) SMTPConfig {
	return SMTPConfig{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetString("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}
}
