package event

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Event types published to the topic exchange. Consumers bind with
// patterns like "room.*" or "attempt.submitted".
const (
	RoomCreated      = "room.created"
	RoomToggled      = "room.toggled"
	RoomJoined       = "room.joined"
	AttemptStarted   = "attempt.started"
	AttemptSubmitted = "attempt.submitted"
	UserRegistered   = "user.registered"
)

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

type envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publish sends an event using the event type as the routing key.
// Failures are logged and swallowed so a broker outage never fails a request.
func (p *Publisher) Publish(eventType string, payload interface{}) {
	body, err := json.Marshal(envelope{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("event marshal failed for %s: %v", eventType, err)
		return
	}
	err = p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Printf("event publish failed for %s: %v", eventType, err)
	}
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
