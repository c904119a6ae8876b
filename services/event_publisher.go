package services

import (
	"encoding/json"

	"github.com/streadway/amqp"
)

// EventPublisher ships achievement events to RabbitMQ for downstream
// consumers (notification fan-out, analytics). Optional: the bus
// works without it.
type EventPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewEventPublisher(url, queue string) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &EventPublisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *EventPublisher) Publish(payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.ch.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *EventPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
