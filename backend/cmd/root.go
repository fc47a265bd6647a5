package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

var rootCmd = &cobra.Command{
	Use:   "learnhub",
	Short: "LearnHub - learning tracker backend",
	Long: `LearnHub tracks learning tasks (books, videos, courses, articles),
aggregates per-user learning stats and lets users share learning journeys.

Configuration is read from .env and the environment (DB_DRIVER, DB_HOST,
JWT_SECRET, SMTP_HOST, REMINDER_CRON, ...).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

type runtime struct {
	cfg      *config.Config
	db       *gorm.DB
	logger   *log.Logger
	services *services.Services
}

// bootstrap loads the configuration, opens and migrates the database and
// builds the services.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := utils.InitLogger(utils.LoggerConfig{EnableColors: true})

	db, err := utils.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := utils.Migrate(db); err != nil {
		return nil, err
	}

	mailer := services.NewMailer(cfg, logger)
	return &runtime{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		services: services.New(db, cfg, mailer, logger),
	}, nil
}
