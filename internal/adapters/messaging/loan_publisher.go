package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bibliotech/library-service/internal/core/ports"
)

var _ ports.LoanEventPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishLoanOpened(ctx context.Context, evt ports.LoanOpenedEvent) error {
	return rmq.publish(ctx, ports.EventLoanOpened, evt)
}

func (rmq *RabbitMQBroker) PublishLoanReturned(ctx context.Context, evt ports.LoanReturnedEvent) error {
	return rmq.publish(ctx, ports.EventLoanReturned, evt)
}

func (rmq *RabbitMQBroker) publish(ctx context.Context, eventType string, evt any) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         eventType,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
