package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ecosmart2025/fiscal-audit-backend/internal/audit"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/ingest"
	"github.com/ecosmart2025/fiscal-audit-backend/internal/invoices"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/config"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/db"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/logger"
	"github.com/ecosmart2025/fiscal-audit-backend/pkg/migrate"
)

// app bundles the wired dependencies shared by every subcommand.
type app struct {
	cfg    *config.Config
	logg   *logger.Logger
	client *db.Client
	repo   invoices.Repository
	ingest ingest.Service
	audit  audit.Service
}

func newApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logg := logger.New(logger.Options{
		ServiceName: "fiscalctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, err
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	repo := invoices.NewRepository(client.DB())

	ingestService, err := ingest.NewService(ingest.ServiceParams{
		Client: client,
		Repo:   repo,
		Config: cfg.Ingest,
		Logger: logg,
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	tolerance, err := cfg.Audit.Tolerance()
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	auditService, err := audit.NewService(audit.ServiceParams{
		Repo:      repo,
		Tolerance: tolerance,
		Logger:    logg,
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logg:   logg,
		client: client,
		repo:   repo,
		ingest: ingestService,
		audit:  auditService,
	}, nil
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fiscalctl",
		Short:         "Load fiscal invoice batches and audit the stored data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newLoadCmd())
	root.AddCommand(newAuditCmd())
	return root
}
