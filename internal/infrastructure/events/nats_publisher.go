package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/okhomin/silent-auction-service/internal/application/ports"
	"github.com/okhomin/silent-auction-service/internal/config"
	"github.com/okhomin/silent-auction-service/internal/pkg/logger"
)

const (
	subjectBidAccepted   = "auction.bid.accepted.%s"
	subjectAuctionClosed = "auction.closed.%s"
)

// NATSPublisher fans events out through a JetStream stream so
// downstream consumers (archival, audit) get at-least-once delivery.
type NATSPublisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logger.Logger
}

func NewNATSPublisher(cfg config.NATSConfig, log *logger.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  []string{"auction.>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Replicas:  1,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.Stream, err)
	}

	return &NATSPublisher{
		conn:   conn,
		js:     js,
		logger: log,
	}, nil
}

func (p *NATSPublisher) PublishBidAccepted(ctx context.Context, event ports.BidAcceptedEvent) error {
	return p.publish(ctx, fmt.Sprintf(subjectBidAccepted, event.ItemID), event)
}

func (p *NATSPublisher) PublishAuctionClosed(ctx context.Context, event ports.AuctionClosedEvent) error {
	return p.publish(ctx, fmt.Sprintf(subjectAuctionClosed, event.ItemID), event)
}

func (p *NATSPublisher) publish(ctx context.Context, subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := p.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug("Event published", "subject", subject, "sequence", ack.Sequence)
	return nil
}

func (p *NATSPublisher) Status() string {
	if p.conn.IsConnected() {
		return "UP"
	}
	return "DOWN"
}

func (p *NATSPublisher) Close() {
	p.conn.Close()
}

// NoopPublisher is used when event fan-out is disabled.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) PublishBidAccepted(ctx context.Context, event ports.BidAcceptedEvent) error {
	return nil
}

func (NoopPublisher) PublishAuctionClosed(ctx context.Context, event ports.AuctionClosedEvent) error {
	return nil
}

func (NoopPublisher) Status() string {
	return "DISABLED"
}
