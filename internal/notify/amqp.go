package notify

import (
	"context"

	"chama/internal/amqp"
)

type amqpPublisher interface {
	Publish(ctx context.Context, msg *amqp.NotificationMessage) error
}

// AMQPSink publishes notifications to a RabbitMQ exchange.
type AMQPSink struct {
	pub amqpPublisher
}

func NewAMQPSink(pub amqpPublisher) *AMQPSink {
	return &AMQPSink{pub: pub}
}

func (s *AMQPSink) Notify(ctx context.Context, n Notification) error {
	return s.pub.Publish(ctx, &amqp.NotificationMessage{
		ID:          n.ID,
		Kind:        string(n.Kind),
		Title:       n.Title,
		Description: n.Description,
		MemberID:    n.MemberID,
		Timestamp:   n.At,
	})
}
