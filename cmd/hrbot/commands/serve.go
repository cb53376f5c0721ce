package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/acmecorp/hrbot/internal/agent"
	"github.com/acmecorp/hrbot/internal/bus"
	"github.com/acmecorp/hrbot/internal/channel"
	"github.com/acmecorp/hrbot/internal/channel/telegram"
	"github.com/acmecorp/hrbot/internal/config"
	"github.com/acmecorp/hrbot/internal/gateway"
	"github.com/acmecorp/hrbot/internal/policy"
	"github.com/acmecorp/hrbot/internal/provider"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the hrbot server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model, err := provider.NewChatModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("no model configured: %w", err)
	}

	rt, err := buildRuntime(ctx, cfg, agent.NewLLMProposer(model))
	if err != nil {
		return err
	}
	defer rt.Close()

	msgBus := bus.NewMessageBus(100)

	errCh := make(chan error, 3)
	go func() {
		if err := rt.orch.Run(ctx, msgBus); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("orchestration loop failed: %w", err)
		}
	}()

	if cfg.Policy.HotReload {
		watcher := policy.NewWatcher(rt.engine, cfg.Policy.RulesFile)
		go func() {
			if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("policy watcher failed: %w", err)
			}
		}()
	}

	chanMgr := channel.NewManager(msgBus)

	if cfg.Channels.Telegram.Enabled {
		tg := telegram.New(&cfg.Channels.Telegram, msgBus)
		chanMgr.Register(tg)
	}

	chanMgr.StartAll(ctx)
	go chanMgr.RouteOutbound(ctx)

	gatewayServer := gateway.New(cfg.Gateway, rt.orch)
	go func() {
		if err := gatewayServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("gateway server failed: %w", err)
		}
	}()

	fmt.Printf("hrbot server running. Gateway: http://%s\nPress Ctrl+C to stop.\n", gatewayServer.Addr())

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		slog.Error("server component failed", "error", runErr)
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	slog.Info("shutting down")
	chanMgr.StopAll(shutdownCtx)
	if err := gatewayServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("gateway shutdown failed", "error", err)
	}

	return runErr
}
