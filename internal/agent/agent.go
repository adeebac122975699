// Package agent
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"sysinfo-agent/internal/config"
	"sysinfo-agent/internal/domain"
	"sysinfo-agent/internal/logger"
)

const writeWait = 10 * time.Second

var ErrUnauthorized = errors.New("connection failed: unauthorized (check token)")

func IsFatalError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

type Transport interface {
	Send(ctx context.Context, sample domain.MetricsSample) error
}

// WebsocketTransport opens a connection per sample, writes one text message
// and closes. Nothing is read back from the collector.
type WebsocketTransport struct {
	url    string
	token  string
	dialer websocket.Dialer
	log    logger.Logger
}

func NewWebsocketTransport(cfg *config.Config, log logger.Logger) *WebsocketTransport {
	return &WebsocketTransport{
		url:    cfg.ServerURL,
		token:  cfg.APIToken,
		dialer: websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		log:    log,
	}
}

func (t *WebsocketTransport) Send(ctx context.Context, sample domain.MetricsSample) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}

	header := make(http.Header)
	if t.token != "" {
		header.Set("Authorization", "Bearer "+t.token)
	}

	t.log.Debug("scan complete, connecting", "url", t.url)

	conn, res, err := t.dialer.DialContext(ctx, t.url, header)
	if err != nil {
		if res != nil && (res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden) {
			return ErrUnauthorized
		}
		return fmt.Errorf("ws dial failed: %w", err)
	}
	defer conn.Close()

	t.log.Debug("ws connected, sending", "payload", string(payload))

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("ws write failed: %w", err)
	}

	_ = conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "sample delivered"),
	)

	t.log.Debug("ws disconnected", "url", t.url)
	return nil
}
