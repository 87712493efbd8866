package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rookgm/gofood/internal/models"
	"go.uber.org/zap"
)

const (
	natsConnectAttempts = 3
	natsPublishAttempts = 3
	natsRetryDelay      = 2 * time.Second
	natsFlushTimeout    = 2 * time.Second
)

// NATSPublisher publishes events to nats subjects
type NATSPublisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// NewNATSPublisher connects to nats, retrying a few times
func NewNATSPublisher(ctx context.Context, url string, logger *zap.Logger) (*NATSPublisher, error) {
	var err error

	for i := 0; i < natsConnectAttempts; i++ {
		var nc *nats.Conn
		nc, err = nats.Connect(url,
			nats.Name("gofood"),
			nats.MaxReconnects(5),
			nats.ReconnectWait(natsRetryDelay),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", zap.Error(err))
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
			}),
		)
		if err == nil {
			logger.Info("connected to nats", zap.String("url", url))
			return &NATSPublisher{nc: nc, logger: logger}, nil
		}

		logger.Warn("failed to connect to nats", zap.Int("attempt", i+1), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to nats: %w", err)
		case <-time.After(natsRetryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to nats after retries: %w", err)
}

// Publish sends event to orders.<type> subject
func (p *NATSPublisher) Publish(ctx context.Context, event models.OrderEvent) error {
	data, err := encode(event)
	if err != nil {
		return err
	}

	subject := Subject(event)

	for i := 0; i < natsPublishAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err = p.nc.Publish(subject, data); err == nil {
			err = p.nc.FlushTimeout(natsFlushTimeout)
		}
		if err == nil {
			return nil
		}

		p.logger.Warn("failed to publish to nats",
			zap.String("subject", subject),
			zap.Int("attempt", i+1),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	return fmt.Errorf("failed to publish event after retries: %w", err)
}

// Close closes nats connection
func (p *NATSPublisher) Close() error {
	if p.nc != nil && !p.nc.IsClosed() {
		p.nc.Close()
	}
	return nil
}
