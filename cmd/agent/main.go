package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sysinfo-agent/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found, relying on system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.Load()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	run := newRunCmd(cfg)

	root := &cobra.Command{
		Use:          "sysinfo-agent",
		Short:        "Report memory, cpu and process counts to a websocket collector",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("client-id") {
				cfg.SetClientID(cfg.ClientID)
			}
		},
		RunE: run.RunE,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.ServerURL, "server-url", cfg.ServerURL, "collector websocket url (SYSINFO_SERVER_URL)")
	flags.IntVar(&cfg.ClientID, "client-id", cfg.ClientID, "client id attached to every sample (SYSINFO_CLIENT_ID)")
	flags.StringVar(&cfg.APIToken, "token", cfg.APIToken, "bearer token sent on the handshake (SYSINFO_API_TOKEN)")
	flags.StringVar(&cfg.ProcRoot, "proc-root", cfg.ProcRoot, "procfs mount point (SYSINFO_PROC_ROOT)")
	flags.DurationVar(&cfg.CPUSampleDelay, "cpu-delay", cfg.CPUSampleDelay, "pause between the two cpu snapshots (SYSINFO_CPU_SAMPLE_DELAY)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (LOG_LEVEL)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json (LOG_FORMAT)")

	root.Flags().AddFlagSet(run.Flags())
	root.AddCommand(run, newScanCmd(cfg))

	return root
}
