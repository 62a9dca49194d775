package mq

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Subscriber is any service that can be subscribed to and unsubscribed from.
// M is the message type it delivers.
type Subscriber[M any] interface {
	Subscribe(uuid.UUID) (uuid.UUID, <-chan M, error)
	DeSubscribe(id uuid.UUID) error
}

// SubscribeProcessor subscribes to the given topic on any Subscriber,
// transforms each message and forwards the result to outputStream until the
// context is cancelled or the subscription closes. It de-subscribes and
// closes outputStream on exit.
func SubscribeProcessor[S Subscriber[M], M any, O any](
	topicID uuid.UUID,
	ctx context.Context,
	service S,
	transformFunc func(msg M) (O, bool, error),
	outputStream chan<- O,
) {
	go func() {
		uid, inputCh, err := service.Subscribe(topicID)
		if err != nil {
			return
		}

		defer func() {
			if err := service.DeSubscribe(uid); err != nil {
				fmt.Printf("Error de-subscribing %s: %v\n", uid, err)
			}
			close(outputStream)
		}()

		for {
			select {
			case msg, ok := <-inputCh:
				if !ok {
					// parent close channel
					return
				}

				output, skip, err := transformFunc(msg)
				if err != nil {
					continue
				}
				if skip {
					continue
				}

				select {
				case outputStream <- output:
				case <-ctx.Done():
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()
}
