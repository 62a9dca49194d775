package mq

import "github.com/google/uuid"

// TopicProvider is implemented by any message that can name the topic it
// belongs to (here: the checkout session id).
type TopicProvider interface {
	GetTopic() uuid.UUID
}

// CheckoutEventQueueWrapper hands out one queue per event action.
type CheckoutEventQueueWrapper interface {
	GetCheckoutEventQueue(action Action) CheckoutEventQueue
}

// CheckoutEventQueue publishes and fans out checkout dispatch outcomes.
// Subscribe filters by session id; uuid.Nil subscribes to every session.
type CheckoutEventQueue interface {
	GetAction() Action
	Publish(msg CheckoutEventMessage) error
	Subscribe(sessionID uuid.UUID) (uuid.UUID, <-chan CheckoutEventMessage, error)
	DeSubscribe(id uuid.UUID) error
}
