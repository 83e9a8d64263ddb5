package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/mrhason/aitaskify/internal/models"
)

// TrxEventPublisher публикует события журнала транзакций в обменник событий.
type TrxEventPublisher struct {
	ch *amqp.Channel
}

func NewTrxEventPublisher(ch *amqp.Channel) *TrxEventPublisher {
	return &TrxEventPublisher{ch: ch}
}

// PublishTrxEvent отправляет событие смены статуса транзакции.
func (p *TrxEventPublisher) PublishTrxEvent(event models.TrxEvent) error {
	return PublishMessage(p.ch, Exchange, "status", event)
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
