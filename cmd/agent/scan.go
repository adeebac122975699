package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"sysinfo-agent/internal/agent"
	"sysinfo-agent/internal/config"
	"sysinfo-agent/internal/core/metrics"
	"sysinfo-agent/internal/logger"
)

func newScanCmd(cfg *config.Config) *cobra.Command {
	var send bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a single scan and print the sample as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), cfg, afero.NewOsFs(), send, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "deliver the sample to the collector before printing it")
	return cmd
}

func runScan(ctx context.Context, cfg *config.Config, fs afero.Fs, send bool, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if send {
		if err := cfg.RequireServerURL(); err != nil {
			return err
		}
	}

	appLog := logger.New(cfg)
	defer appLog.Sync()

	sampler := metrics.NewProcSampler(fs, cfg, appLog)

	var transport agent.Transport
	if send {
		transport = agent.NewWebsocketTransport(cfg, appLog)
	}
	return scanOnce(ctx, cfg.ClientID, sampler, transport, out, appLog)
}

// scanOnce prints the sample only after it was scanned and, with a non-nil
// transport, delivered.
func scanOnce(ctx context.Context, clientID int, scanner agent.Scanner, transport agent.Transport, out io.Writer, log logger.Logger) error {
	sample, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	if transport != nil {
		if err := agent.NewClient(clientID, scanner, transport, log).Deliver(ctx, sample); err != nil {
			return err
		}
	}

	return json.NewEncoder(out).Encode(sample.WithClientID(clientID))
}
