package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"moviecat/internal/api"
	"moviecat/internal/httpapi"
	"moviecat/internal/logging"
	"moviecat/internal/preflight"
	"moviecat/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), ctx, strings.TrimSpace(bind))
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides api.bind)")
	return cmd
}

func runServer(cmdCtx context.Context, ctx *commandContext, bindOverride string) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	st, err := store.Open(cfg.Paths.DataFile, store.WithLogger(logger))
	if err != nil {
		logger.Error("open catalog", logging.Error(err))
		return err
	}
	defer st.Close()

	chatSvc, j, err := newChatService(cfg, st, logger)
	if err != nil {
		logger.Error("init chat", logging.Error(err))
		return err
	}
	if j != nil {
		defer j.Close()
	}

	for _, failed := range preflight.Failed(preflight.RunAll(signalCtx, cfg)) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
			logging.String(logging.FieldImpact, "dependent endpoints may return errors"))
	}

	bind := cfg.API.Bind
	if bindOverride != "" {
		bind = bindOverride
	}
	srv, err := httpapi.New(httpapi.Options{
		Bind:         bind,
		Token:        cfg.API.Token,
		HistoryLimit: cfg.Chat.HistoryLimit,
	}, httpapi.Dependencies{
		Catalog: api.NewCatalogService(st, logger),
		Chat:    chatSvc,
		Records: st,
	}, logger)
	if err != nil {
		return err
	}
	if err := srv.Start(signalCtx); err != nil {
		return err
	}
	defer srv.Stop()

	logger.Info("moviecat serving",
		logging.String("data_file", cfg.Paths.DataFile),
		logging.Int("records", st.Count()),
		logging.Bool("journal", chatSvc.JournalEnabled()))

	<-signalCtx.Done()
	logger.Info("moviecat shutting down")
	return nil
}
