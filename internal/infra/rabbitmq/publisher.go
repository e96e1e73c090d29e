package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
	amqp "github.com/rabbitmq/amqp091-go"
)

const statusRoutingKey = "job.status"

// StatusPublisher pushes job status events to a topic exchange so other
// systems can follow generation progress without polling.
type StatusPublisher struct {
	channel  *amqp.Channel
	exchange string
}

func NewStatusPublisher(conn *amqp.Connection, exchange string) (*StatusPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publisher channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &StatusPublisher{channel: ch, exchange: exchange}, nil
}

func (p *StatusPublisher) PublishStatus(ctx context.Context, event entity.JobStatusEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		statusRoutingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
}

func (p *StatusPublisher) Close() error {
	return p.channel.Close()
}
