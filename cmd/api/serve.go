package main

import (
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/logging"
	"github.com/justsurfingit/job-portal/internal/metrics"
	"github.com/justsurfingit/job-portal/internal/server"
	"github.com/justsurfingit/job-portal/internal/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logging.New(cfg.LogLevel, cfg.IsProduction())

		migrate, _ := cmd.Flags().GetBool("migrate")
		store, closeStore, err := openStore(cfg, log, migrate)
		if err != nil {
			return err
		}
		defer closeStore()

		responses, closeCache := openCache(ctx, cfg, log)
		defer closeCache()

		srv := server.New(server.Deps{
			Config:    cfg,
			Log:       log,
			Store:     store,
			Cache:     responses,
			Files:     storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL),
			Metrics:   metrics.New(),
			Notifier:  openNotifier(ctx, cfg, log),
			Extractor: openExtractor(ctx, cfg, log),
		})
		return srv.Run(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logging.New(cfg.LogLevel, cfg.IsProduction())
		_, closeStore, err := openStore(cfg, log, true)
		if err != nil {
			return err
		}
		return closeStore()
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", true, "run schema migrations before serving")
}
