package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"payflow/mq/mq"
)

const (
	exchangeName = "checkout_events_exchange"
)

const (
	dispatchedRoutingKey = "checkout.dispatched"
	failedRoutingKey     = "checkout.failed"
)

func getRoutingKey(action mq.Action) string {
	switch action {
	case mq.ActionDispatched:
		return dispatchedRoutingKey
	case mq.ActionFailed:
		return failedRoutingKey
	}
	return ""
}

// rabbitCheckoutEventQueue implements mq.CheckoutEventQueue for RabbitMQ.
type rabbitCheckoutEventQueue struct {
	action     mq.Action
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	queueName  string
	routingKey string
	mu         sync.RWMutex // Protects the consumers map
	consumers  map[uuid.UUID]chan mq.CheckoutEventMessage
}

// NewRabbitCheckoutEventQueue creates a RabbitMQ-backed queue for one action.
func NewRabbitCheckoutEventQueue(action mq.Action, conn *amqp091.Connection) (mq.CheckoutEventQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	queueName := fmt.Sprintf("checkout_event_%d_queue", action)
	routingKey := getRoutingKey(action)

	err = DeclareQueueAndExchange(ch, queueName, exchangeName, routingKey)
	if err != nil {
		ch.Close()
		return nil, err
	}

	return &rabbitCheckoutEventQueue{
		action:     action,
		conn:       conn,
		channel:    ch,
		queueName:  queueName,
		routingKey: routingKey,
		consumers:  make(map[uuid.UUID]chan mq.CheckoutEventMessage),
	}, nil
}

func (q *rabbitCheckoutEventQueue) GetAction() mq.Action {
	return q.action
}

// Publish sends a CheckoutEventMessage to the exchange.
func (q *rabbitCheckoutEventQueue) Publish(msg mq.CheckoutEventMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = q.channel.PublishWithContext(ctx,
		exchangeName, // exchange
		q.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Headers: amqp091.Table{
				"sessionId": msg.SessionID.String(),
			},
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe registers a consumer and returns a channel delivering messages
// for the given session (uuid.Nil for all sessions).
func (q *rabbitCheckoutEventQueue) Subscribe(sessionID uuid.UUID) (uuid.UUID, <-chan mq.CheckoutEventMessage, error) {
	msgs, err := q.channel.Consume(
		q.queueName, // queue
		"",          // consumer
		true,        // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	subscriberID := uuid.New()
	outputChan := make(chan mq.CheckoutEventMessage)

	q.mu.Lock()
	q.consumers[subscriberID] = outputChan
	q.mu.Unlock()

	go func() {
		defer func() {
			q.mu.Lock()
			// Clean up the consumer channel upon goroutine exit
			if ch, ok := q.consumers[subscriberID]; ok {
				close(ch)
				delete(q.consumers, subscriberID)
			}
			q.mu.Unlock()
		}()

		for d := range msgs {
			var msg mq.CheckoutEventMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Failed to unmarshal CheckoutEventMessage: %v", err)
				continue
			}

			if sessionID != uuid.Nil && msg.SessionID != sessionID {
				continue
			}

			q.mu.RLock()
			ch, ok := q.consumers[subscriberID]
			if !ok {
				// Consumer was unsubscribed while message was in flight
				q.mu.RUnlock()
				return
			}
			select {
			case ch <- msg:
				// Message sent to consumer
			case <-time.After(1 * time.Second): // Prevent blocking indefinitely
				log.Printf("Timeout sending message to consumer %s. Skipping.", subscriberID)
			}
			q.mu.RUnlock()
		}
	}()

	return subscriberID, outputChan, nil
}

// DeSubscribe removes a subscriber by its ID.
func (q *rabbitCheckoutEventQueue) DeSubscribe(subscriberID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if ch, ok := q.consumers[subscriberID]; ok {
		delete(q.consumers, subscriberID)
		close(ch)
		return nil
	}
	return fmt.Errorf("consumer with ID %s not found for queue %s", subscriberID, q.queueName)
}

// RabbitCheckoutEventQueueWrapper implements mq.CheckoutEventQueueWrapper
// over one RabbitMQ connection.
type RabbitCheckoutEventQueueWrapper struct {
	queues [mq.ActionCnt]mq.CheckoutEventQueue
}

func (w *RabbitCheckoutEventQueueWrapper) GetCheckoutEventQueue(action mq.Action) mq.CheckoutEventQueue {
	if action < 0 || action >= mq.ActionCnt {
		return nil
	}
	return w.queues[action]
}

// NewRabbitCheckoutEventQueueWrapper declares every queue on the connection.
func NewRabbitCheckoutEventQueueWrapper(conn *amqp091.Connection) (mq.CheckoutEventQueueWrapper, error) {
	wrapper := RabbitCheckoutEventQueueWrapper{}
	for action := mq.Action(0); action < mq.ActionCnt; action++ {
		q, err := NewRabbitCheckoutEventQueue(action, conn)
		if err != nil {
			return nil, fmt.Errorf("failed to create rabbit queue for action %d: %w", action, err)
		}
		wrapper.queues[action] = q
	}
	return &wrapper, nil
}
