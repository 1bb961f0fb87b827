package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"github.com/SangulugariMadhuGoud/Superbloom/cmd/buildCFG"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/api/api"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/export"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/mailer"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/media"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/repo"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/service"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/sheets"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	cfg := config.New()
	if err := cfg.Load("config.yaml", "", "'"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	port := serverCfg.Port

	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	if err := db.Master.Ping(); err != nil {
		log.Fatal().Msgf("DB ping failed: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot get working directory")
	}
	migrationPath := filepath.Join(cwd, "migrations/postgres")
	if err := repository.MigrateUp(migrationPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("Migrations applied successfully")

	mediaCfg := buildCFG.BuildMediaConfig(cfg, &log)
	mediaStore, err := media.NewStore(mediaCfg.Root, mediaCfg.BaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize media store")
	}

	// The Sheets export is optional; with no credentials the admin
	// action reports the integration as unavailable instead.
	var sheetsSink export.SheetsSink
	sheetsCfg := buildCFG.BuildSheetsConfig(cfg)
	if sheetsCfg.Configured() {
		client, err := sheets.New(sheetsCfg.CredentialsFile, sheetsCfg.SpreadsheetID)
		if err != nil {
			log.Warn().Err(err).Msg("Google Sheets client init failed, export disabled")
		} else {
			sheetsSink = client
			log.Info().Msg("Google Sheets export enabled")
		}
	} else {
		log.Info().Msg("Google Sheets export not configured")
	}

	smtpCfg := buildCFG.BuildSMTPConfig(cfg)
	mail := mailer.New(smtpCfg.Host, smtpCfg.Port, smtpCfg.From, smtpCfg.Password, &log)

	adminCfg := buildCFG.BuildAdminConfig(cfg, &log)

	serviceInstance := service.NewService(repository, &log, mediaStore, sheetsSink, mail)
	app := api.NewRouters(&api.Routers{
		Service:    serviceInstance,
		MediaRoot:  mediaCfg.Root,
		AdminToken: adminCfg.Token,
	})

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", port)
		if err := app.Run(":" + port); err != nil {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if closer, ok := interface{}(app).(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(shutdownCtx); err != nil {
			log.Error().Msgf("Error shutting down server: %v", err)
		}
	}

	log.Info().Msg("Shutdown complete")
}
