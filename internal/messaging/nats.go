package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/stan.go"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/logger"
)

type Config struct {
	URL       string
	ClusterID string
	ClientID  string
}

// NATSClient publishes purchase lifecycle events to NATS Streaming. A nil
// client is valid and drops every publish, the API runs fine without the
// broker.
type NATSClient struct {
	conn stan.Conn
}

func NewNATSClient(cfg Config) (*NATSClient, error) {
	// Unique client ID so restarts do not collide with a lingering session.
	clientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.New().String()[:8])

	conn, err := stan.Connect(cfg.ClusterID, clientID, stan.NatsURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS Streaming: %w", err)
	}

	logger.Get().Info("Connected to NATS Streaming",
		"url", cfg.URL,
		"cluster_id", cfg.ClusterID,
		"client_id", clientID)

	return &NATSClient{conn: conn}, nil
}

func (nc *NATSClient) Publish(subject string, data any) error {
	if nc == nil || nc.conn == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := nc.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}

	return nil
}

func (nc *NATSClient) Close() error {
	if nc == nil || nc.conn == nil {
		return nil
	}
	return nc.conn.Close()
}
