package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName     = "merchandising"
	resultRoutingKey = "merchandise.result"
)

// ResultEvent is published after every successful remote merchandising call
// so analytics and other consumers can react. Fire-and-forget: nothing in the
// pipeline consumes a response.
type ResultEvent struct {
	ID         string    `json:"id"`
	StoreCode  string    `json:"store"`
	Category   string    `json:"category,omitempty"`
	ProductIDs []string  `json:"product_ids"`
	TotalCount int       `json:"total_count"`
	Limit      int       `json:"limit"`
	Page       int       `json:"page"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RabbitPublisher sends merchandising events to a topic exchange.
type RabbitPublisher struct {
	connection *amqp.Connection
}

func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // noWait
		nil,   // arguments
	); err != nil {
		conn.Close()
		return nil, err
	}

	return &RabbitPublisher{connection: conn}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.connection.Close()
}

// PublishResult sends one result event. The event id is stamped here if the
// caller left it empty.
func (p *RabbitPublisher) PublishResult(ev ResultEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ch, err := p.connection.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		exchangeName,
		resultRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   ev.ID,
			Body:        body,
		},
	)
}
