package services

import (
	"context"

	"pandastore/pkg/paytm"
)

// Order lifecycle event types published to the order events queue.
const (
	EventOrderCreated = "order.created"
	EventOrderPaid    = "order.paid"
	EventOrderFailed  = "order.failed"
)

// EventPublisher publishes order lifecycle events. Satisfied by
// *rabbitmq.Client; services tolerate a nil publisher so the API can run
// without a broker.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// TransactionInitiator requests a payment transaction token from the
// external gateway. Satisfied by *paytm.Client.
type TransactionInitiator interface {
	InitiateTransaction(ctx context.Context, orderID, customerID string, amount float64) (*paytm.InitiateResponse, error)
}
