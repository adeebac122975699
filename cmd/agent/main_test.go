package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysinfo-agent/internal/config"
	"sysinfo-agent/internal/domain"
	"sysinfo-agent/internal/logger"
)

func baseConfig() *config.Config {
	return &config.Config{
		ScanInterval:     time.Second,
		CPUSampleDelay:   time.Millisecond,
		HandshakeTimeout: time.Second,
		ProcRoot:         "/proc",
		LogLevel:         "error",
		LogFormat:        "json",
	}
}

func TestRootCmd_FlagsOverrideConfig(t *testing.T) {
	cfg := baseConfig()
	root := newRootCmd(cfg)

	require.NoError(t, root.ParseFlags([]string{
		"--server-url", "ws://collector:9000/ws",
		"--client-id", "12",
		"--proc-root", "/host/proc",
		"--interval", "3s",
	}))

	assert.Equal(t, "ws://collector:9000/ws", cfg.ServerURL)
	assert.Equal(t, 12, cfg.ClientID)
	assert.Equal(t, "/host/proc", cfg.ProcRoot)
	assert.Equal(t, 3*time.Second, cfg.ScanInterval)
}

func TestRootCmd_ClientIDFlagReplacesBadEnv(t *testing.T) {
	t.Setenv("SYSINFO_CLIENT_ID", "12a")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("SYSINFO_PROC_ROOT", "")
	t.Setenv("SYSINFO_SERVER_URL", "")

	cfg := config.Load()
	require.Error(t, cfg.Validate())

	root := newRootCmd(cfg)
	require.NoError(t, root.ParseFlags([]string{"--client-id", "12"}))
	root.PersistentPreRun(root, nil)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 12, cfg.ClientID)
}

func TestRootCmd_BadEnvClientIDFailsScan(t *testing.T) {
	t.Setenv("SYSINFO_CLIENT_ID", "12a")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	var out bytes.Buffer
	err := runScan(context.Background(), config.Load(), afero.NewMemMapFs(), false, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ClientID")
	assert.Empty(t, out.String())
}

func TestRunAgent_RequiresServerURL(t *testing.T) {
	err := runAgent(context.Background(), baseConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYSINFO_SERVER_URL")
}

func TestRunScan_RequiresServerURLOnlyWhenSending(t *testing.T) {
	var out bytes.Buffer
	err := runScan(context.Background(), baseConfig(), afero.NewMemMapFs(), true, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYSINFO_SERVER_URL")
	assert.Empty(t, out.String())
}

func TestRunScan_FailedScanPrintsNothing(t *testing.T) {
	var out bytes.Buffer
	err := runScan(context.Background(), baseConfig(), afero.NewMemMapFs(), false, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Empty(t, out.String())
}

func TestRunScan_InvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.LogFormat = "xml"

	err := runScan(context.Background(), cfg, afero.NewMemMapFs(), false, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogFormat")
}

type stubScanner struct {
	sample domain.MetricsSample
}

func (s stubScanner) Scan(ctx context.Context) (domain.MetricsSample, error) {
	return s.sample, nil
}

type stubTransport struct {
	err  error
	sent []domain.MetricsSample
}

func (s *stubTransport) Send(ctx context.Context, sample domain.MetricsSample) error {
	s.sent = append(s.sent, sample)
	return s.err
}

func TestScanOnce_PrintsAfterDelivery(t *testing.T) {
	scanner := stubScanner{sample: domain.MetricsSample{MemLoadPercent: 25, CPULoadPercent: 15, ProcessCount: 3}}

	t.Run("delivered", func(t *testing.T) {
		var out bytes.Buffer
		tr := &stubTransport{}

		require.NoError(t, scanOnce(context.Background(), 9, scanner, tr, &out, logger.NewNop()))
		require.Len(t, tr.sent, 1)
		assert.Equal(t, 9, tr.sent[0].ClientID)
		assert.JSONEq(t, `{"id":9,"mem_load":25,"cpu_load":15,"proc_count":3}`, out.String())
	})

	t.Run("send failed", func(t *testing.T) {
		var out bytes.Buffer
		tr := &stubTransport{err: errors.New("connection refused")}

		err := scanOnce(context.Background(), 9, scanner, tr, &out, logger.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delivery failed")
		assert.Empty(t, out.String())
	})

	t.Run("no transport", func(t *testing.T) {
		var out bytes.Buffer

		require.NoError(t, scanOnce(context.Background(), 9, scanner, nil, &out, logger.NewNop()))
		assert.JSONEq(t, `{"id":9,"mem_load":25,"cpu_load":15,"proc_count":3}`, out.String())
	})
}
