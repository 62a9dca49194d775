package mq

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mode selects the message-queue backend at startup.
type Mode string

const (
	ModeGoChan    Mode = "go_chan"
	ModeRabbitMQ  Mode = "rabbitmq"
	ModeGCPPubSub Mode = "gcp_pub_sub"
)

type Action int

const (
	ActionDispatched Action = iota
	ActionFailed
	ActionCnt
)

// CheckoutEventMessage is published once per dispatch outcome.
type CheckoutEventMessage struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	Kind       string
	Amount     decimal.Decimal
	Currency   string
	Reference  string
	Message    string
	OccurredAt time.Time
}

// GetTopic routes the event by checkout session.
func (m CheckoutEventMessage) GetTopic() uuid.UUID {
	return m.SessionID
}
