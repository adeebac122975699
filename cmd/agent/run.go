package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sysinfo-agent/internal/agent"
	"sysinfo-agent/internal/config"
	"sysinfo-agent/internal/core"
	"sysinfo-agent/internal/core/metrics"
	"sysinfo-agent/internal/domain"
	"sysinfo-agent/internal/logger"
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rescan periodically (and on SIGHUP) and deliver every sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.ScanInterval, "interval", cfg.ScanInterval, "time between scans (SYSINFO_SCAN_INTERVAL)")
	return cmd
}

func runAgent(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.RequireServerURL(); err != nil {
		return err
	}

	appLog := logger.New(cfg)
	defer appLog.Sync()

	appLog.Info("sysinfo agent: starting...", "client_id", cfg.ClientID, "server_url", cfg.ServerURL, "interval", cfg.ScanInterval)

	sampler := metrics.NewProcSampler(afero.NewOsFs(), cfg, appLog)
	sampler.OnFinished(func(s domain.MetricsSample) {
		appLog.Debug("scan finished, delivering", "mem_load", s.MemLoadPercent, "cpu_load", s.CPULoadPercent, "proc_count", s.ProcessCount)
	})

	client := agent.NewClient(cfg.ClientID, sampler, agent.NewWebsocketTransport(cfg, appLog), appLog)

	sched := core.NewScheduler(cfg.ScanInterval, appLog, client.Rescan)
	sched.StopOn(agent.IsFatalError)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sched.Start(gCtx)
	})

	g.Go(func() error {
		for {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case <-hup:
				appLog.Info("rescan requested", "signal", "SIGHUP")
				sched.Trigger()
			}
		}
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		if agent.IsFatalError(err) {
			appLog.Error("agent failed fatally, exiting", "error", err)
		} else {
			appLog.Error("agent failed unexpectedly", "error", err)
		}
		return err
	}

	appLog.Info("agent stopped gracefully.")
	return nil
}
