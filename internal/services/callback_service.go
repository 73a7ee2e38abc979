package services

import (
	"encoding/json"
	"fmt"
	"log"

	"pandastore/internal/models"
	"pandastore/internal/repositories"
	"pandastore/pkg/paytm"
)

// CallbackService applies the gateway's asynchronous payment decision to an
// order and reconciles inventory on success.
type CallbackService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
}

// NewCallbackService creates a new CallbackService.
func NewCallbackService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events EventPublisher) *CallbackService {
	return &CallbackService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
	}
}

// Process applies one gateway callback. rawPayload is the full callback
// body, stored verbatim on the order for audit.
//
// Per-order state machine: TXN_SUCCESS transitions Pending to Paid,
// PENDING re-affirms Pending, anything else transitions Pending to Failed.
// All transitions go through the store's conditional out-of-Pending
// updates, so a replayed success callback finds the order already Paid,
// changes nothing, and in particular never decrements inventory a second
// time.
func (s *CallbackService) Process(orderID, status string, rawPayload []byte) (*models.Order, error) {
	payload := string(rawPayload)

	var transitioned bool
	var err error
	switch status {
	case paytm.StatusTxnSuccess:
		transitioned, err = s.orderRepo.MarkPaid(orderID, payload)
	case paytm.StatusPending:
		transitioned, err = s.orderRepo.MarkFromPending(orderID, models.OrderStatusPending, payload)
	default:
		transitioned, err = s.orderRepo.MarkFromPending(orderID, models.OrderStatusFailed, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s callback: %w", status, err)
	}

	order, err := s.orderRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	if !transitioned {
		log.Printf("Order %s already settled as %s, callback ignored", orderID, order.Status)
		return order, nil
	}

	switch status {
	case paytm.StatusTxnSuccess:
		// This call won the Pending->Paid transition, so it is the only one
		// allowed to decrement inventory for this order.
		for _, item := range order.Items {
			if err := s.productRepo.DecrementStock(item.ProductID, item.Quantity); err != nil {
				log.Printf("Failed to decrement stock for product %s on order %s: %v", item.ProductID, orderID, err)
			}
		}
		s.publishSettled(EventOrderPaid, order)
	case paytm.StatusPending:
		// Re-affirmed Pending, nothing further to reconcile.
	default:
		s.publishSettled(EventOrderFailed, order)
	}

	return order, nil
}

func (s *CallbackService) publishSettled(eventType string, order *models.Order) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"orderId": order.OrderID,
		"email":   order.Email,
		"status":  order.Status,
		"amount":  order.Amount,
	})
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", eventType, order.OrderID, err)
	}
}
