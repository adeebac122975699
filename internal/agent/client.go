package agent

import (
	"context"
	"fmt"

	"sysinfo-agent/internal/domain"
	"sysinfo-agent/internal/logger"
)

type Scanner interface {
	Scan(ctx context.Context) (domain.MetricsSample, error)
}

// Client scans the host and delivers each completed sample under its own
// client id.
type Client struct {
	clientID  int
	scanner   Scanner
	transport Transport
	log       logger.Logger
}

func NewClient(clientID int, scanner Scanner, transport Transport, log logger.Logger) *Client {
	return &Client{
		clientID:  clientID,
		scanner:   scanner,
		transport: transport,
		log:       log,
	}
}

// Rescan runs one scan and, only if it succeeds, sends the sample.
func (c *Client) Rescan(ctx context.Context) error {
	sample, err := c.scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	return c.Deliver(ctx, sample)
}

func (c *Client) Deliver(ctx context.Context, sample domain.MetricsSample) error {
	packet := sample.WithClientID(c.clientID)

	if err := c.transport.Send(ctx, packet); err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}

	c.log.Info("sample delivered",
		"client_id", packet.ClientID,
		"mem_load", packet.MemLoadPercent,
		"cpu_load", packet.CPULoadPercent,
		"proc_count", packet.ProcessCount,
	)
	return nil
}
