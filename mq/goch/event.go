package goch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"payflow/mq/mq"
)

// consumer is one active subscription on a channel-backed queue.
type consumer struct {
	topic uuid.UUID
	ch    chan mq.CheckoutEventMessage
}

// channelEventQueue implements mq.CheckoutEventQueue with in-process
// channels and per-subscriber fan-out.
type channelEventQueue struct {
	action    mq.Action
	buffer    int
	mu        sync.RWMutex
	consumers map[uuid.UUID]consumer
}

// NewChannelEventQueue creates a queue for one action. bufferSize determines
// the capacity of each subscriber channel; 0 means unbuffered.
func NewChannelEventQueue(action mq.Action, bufferSize int) *channelEventQueue {
	return &channelEventQueue{
		action:    action,
		buffer:    bufferSize,
		consumers: make(map[uuid.UUID]consumer),
	}
}

func (q *channelEventQueue) GetAction() mq.Action {
	return q.action
}

// Publish fans the message out to every subscriber whose topic matches the
// message's session (uuid.Nil subscribes to everything). Sends are
// non-blocking so one slow subscriber cannot stall the publisher.
func (q *channelEventQueue) Publish(msg mq.CheckoutEventMessage) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	for _, c := range q.consumers {
		if c.topic != uuid.Nil && c.topic != msg.GetTopic() {
			continue
		}
		select {
		case c.ch <- msg:
		default:
			// Subscriber buffer full; drop for this subscriber.
		}
	}
	return nil
}

func (q *channelEventQueue) Subscribe(sessionID uuid.UUID) (uuid.UUID, <-chan mq.CheckoutEventMessage, error) {
	id := uuid.New()
	ch := make(chan mq.CheckoutEventMessage, q.buffer)

	q.mu.Lock()
	q.consumers[id] = consumer{topic: sessionID, ch: ch}
	q.mu.Unlock()

	return id, ch, nil
}

func (q *channelEventQueue) DeSubscribe(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	c, ok := q.consumers[id]
	if !ok {
		return fmt.Errorf("subscriber with ID %s not found", id)
	}
	delete(q.consumers, id)
	close(c.ch)
	return nil
}

// GoChanCheckoutEventQueueWrapper implements mq.CheckoutEventQueueWrapper
// over channel-backed queues.
type GoChanCheckoutEventQueueWrapper struct {
	queues [mq.ActionCnt]mq.CheckoutEventQueue
}

func (w *GoChanCheckoutEventQueueWrapper) GetCheckoutEventQueue(action mq.Action) mq.CheckoutEventQueue {
	if action < 0 || action >= mq.ActionCnt {
		return nil
	}
	return w.queues[action]
}

// NewGoChanCheckoutEventQueueWrapper creates the full set of channel queues.
func NewGoChanCheckoutEventQueueWrapper() mq.CheckoutEventQueueWrapper {
	wrapper := GoChanCheckoutEventQueueWrapper{}
	wrapper.queues[mq.ActionDispatched] = NewChannelEventQueue(mq.ActionDispatched, 5)
	wrapper.queues[mq.ActionFailed] = NewChannelEventQueue(mq.ActionFailed, 5)
	return &wrapper
}
