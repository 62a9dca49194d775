package gcppubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"

	"payflow/mq/mq"
)

const (
	sessionIDAttribute = "sessionId"
)

// subscriptionInfo holds details about an active Pub/Sub subscription.
type subscriptionInfo struct {
	gcpSubscription *pubsub.Subscription
	cancel          context.CancelFunc
}

// checkoutEventPubSubQueue implements mq.CheckoutEventQueue on GCP Pub/Sub,
// one topic per action with filtered per-subscriber subscriptions.
type checkoutEventPubSubQueue struct {
	action              mq.Action
	client              *pubsub.Client
	topic               *pubsub.Topic
	activeSubscriptions map[uuid.UUID]*subscriptionInfo
	subscriptionsMutex  sync.Mutex
	ctx                 context.Context
}

// NewCheckoutEventPubSubQueue ensures the underlying topic exists, creating
// it if necessary, and returns the queue for one action.
func NewCheckoutEventPubSubQueue(ctx context.Context, client *pubsub.Client, action mq.Action) (mq.CheckoutEventQueue, error) {
	if client == nil {
		return nil, fmt.Errorf("GCP Pub/Sub client is nil")
	}

	topicID := fmt.Sprintf("checkout-events-%d", action)
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existence of topic %s: %w", topicID, err)
	}
	if !exists {
		topic, err = client.CreateTopic(ctx, topicID)
		if err != nil {
			return nil, fmt.Errorf("failed to create topic %s: %w", topicID, err)
		}
		log.Printf("Created Pub/Sub topic: %s", topicID)
	}

	return &checkoutEventPubSubQueue{
		action:              action,
		client:              client,
		topic:               topic,
		activeSubscriptions: make(map[uuid.UUID]*subscriptionInfo),
		ctx:                 ctx,
	}, nil
}

func (s *checkoutEventPubSubQueue) GetAction() mq.Action {
	return s.action
}

// Publish sends a message to the topic with the session id as an attribute.
func (s *checkoutEventPubSubQueue) Publish(msg mq.CheckoutEventMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal CheckoutEventMessage: %w", err)
	}

	pubsubMsg := &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			sessionIDAttribute: msg.GetTopic().String(),
		},
	}

	result := s.topic.Publish(s.ctx, pubsubMsg)
	_, err = result.Get(s.ctx)
	if err != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", s.topic.ID(), err)
	}
	return nil
}

// Subscribe creates a new filtered subscription on GCP and starts listening.
func (s *checkoutEventPubSubQueue) Subscribe(sessionID uuid.UUID) (uuid.UUID, <-chan mq.CheckoutEventMessage, error) {
	subscriptionID := uuid.New() // Internal ID for tracking

	gcpSubName := fmt.Sprintf("sub-checkout-%d-%s-%s", s.action, sessionID.String(), subscriptionID.String())

	config := pubsub.SubscriptionConfig{
		Topic:            s.topic,
		ExpirationPolicy: 24 * time.Hour,
		AckDeadline:      10 * time.Second,
	}
	if sessionID != uuid.Nil {
		config.Filter = fmt.Sprintf("attributes.%s = \"%s\"", sessionIDAttribute, sessionID.String())
	}

	gcpSub, err := s.client.CreateSubscription(s.ctx, gcpSubName, config)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to create GCP subscription %s: %w", gcpSubName, err)
	}

	msgChan := make(chan mq.CheckoutEventMessage, 5)
	receiveCtx, cancel := context.WithCancel(s.ctx)

	s.subscriptionsMutex.Lock()
	s.activeSubscriptions[subscriptionID] = &subscriptionInfo{
		gcpSubscription: gcpSub,
		cancel:          cancel,
	}
	s.subscriptionsMutex.Unlock()

	go func() {
		// Automatically clean up when the goroutine exits.
		defer func() {
			s.subscriptionsMutex.Lock()
			delete(s.activeSubscriptions, subscriptionID)
			s.subscriptionsMutex.Unlock()

			// Delete the subscription from GCP to prevent resource leaks.
			if deleteErr := gcpSub.Delete(context.Background()); deleteErr != nil {
				log.Printf("Error deleting GCP subscription %s: %v", gcpSub.ID(), deleteErr)
			}
			close(msgChan)
		}()

		// Receive blocks until the context is cancelled.
		err := gcpSub.Receive(receiveCtx, func(ctx context.Context, m *pubsub.Message) {
			var msg mq.CheckoutEventMessage
			if err := json.Unmarshal(m.Data, &msg); err != nil {
				log.Printf("Failed to unmarshal CheckoutEventMessage: %v", err)
				m.Nack()
				return
			}
			m.Ack()

			select {
			case msgChan <- msg:
			case <-ctx.Done():
			}
		})
		if err != nil && receiveCtx.Err() == nil {
			log.Printf("Pub/Sub receive for %s stopped with error: %v", gcpSubName, err)
		}
	}()

	return subscriptionID, msgChan, nil
}

// DeSubscribe cancels the receive loop; the goroutine deletes the GCP
// subscription on exit.
func (s *checkoutEventPubSubQueue) DeSubscribe(id uuid.UUID) error {
	s.subscriptionsMutex.Lock()
	info, ok := s.activeSubscriptions[id]
	s.subscriptionsMutex.Unlock()

	if !ok {
		return fmt.Errorf("subscription with ID %s not found", id)
	}
	info.cancel()
	return nil
}

// PubSubCheckoutEventQueueWrapper implements mq.CheckoutEventQueueWrapper
// over one Pub/Sub client.
type PubSubCheckoutEventQueueWrapper struct {
	queues [mq.ActionCnt]mq.CheckoutEventQueue
}

func (w *PubSubCheckoutEventQueueWrapper) GetCheckoutEventQueue(action mq.Action) mq.CheckoutEventQueue {
	if action < 0 || action >= mq.ActionCnt {
		return nil
	}
	return w.queues[action]
}

// NewPubSubCheckoutEventQueueWrapper creates the full set of Pub/Sub queues.
func NewPubSubCheckoutEventQueueWrapper(ctx context.Context, client *pubsub.Client) (mq.CheckoutEventQueueWrapper, error) {
	wrapper := PubSubCheckoutEventQueueWrapper{}
	for action := mq.Action(0); action < mq.ActionCnt; action++ {
		q, err := NewCheckoutEventPubSubQueue(ctx, client, action)
		if err != nil {
			return nil, err
		}
		wrapper.queues[action] = q
	}
	return &wrapper, nil
}
