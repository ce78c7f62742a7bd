package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/restokit/pos-core/internal/awsx"
	"github.com/restokit/pos-core/internal/orders"
)

// Processor applies realtime status pushes to persisted orders. Pushes that
// violate the lifecycle table are surfaced in the logs and dropped, never
// coerced into something legal: the store is authoritative once the order
// has left the register.
type Processor struct {
	orderStore *orders.Store
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *awsx.Clients, ordersTable string) *Processor {
	return &Processor{
		orderStore: orders.NewStore(clients.DynamoDB, ordersTable),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var push StatusPush
	if err := json.Unmarshal([]byte(rec.Body), &push); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%s new_status=%s source=%s",
		push.OrderID, push.NewStatus, push.Source)

	order, err := p.orderStore.Get(ctx, push.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// Should never happen — DLQ if it does
		return fmt.Errorf("order not found: %s", push.OrderID)
	}

	if order.Status == push.NewStatus {
		log.Printf("[worker] duplicate status push for order=%s status=%s", push.OrderID, push.NewStatus)
		return nil
	}

	if !orders.CanTransition(order.Status, push.NewStatus) {
		// Surface, don't auto-correct: the push is reported and dropped.
		log.Printf("[worker] rejecting illegal status push order=%s %s -> %s (source=%s): %v",
			push.OrderID, order.Status, push.NewStatus, push.Source, orders.ErrIllegalTransition)
		return nil
	}

	err = p.orderStore.UpdateStatus(ctx, push.OrderID, order.Status, push.NewStatus)
	if err == orders.ErrStatusMismatch {
		// A competing consumer moved the order between our read and write.
		o2, gerr := p.orderStore.Get(ctx, push.OrderID)
		if gerr != nil {
			return fmt.Errorf("failed to re-fetch order after conflict: %w", gerr)
		}
		if o2 == nil {
			// The condition also fails when the item no longer exists
			// (retention removed it between our read and write).
			log.Printf("[worker] order=%s gone after status conflict, dropping push", push.OrderID)
			return nil
		}
		if o2.Status == push.NewStatus {
			log.Printf("[worker] order=%s already at %s", push.OrderID, push.NewStatus)
			return nil
		}
		log.Printf("[worker] dropping stale status push order=%s wanted=%s current=%s",
			push.OrderID, push.NewStatus, o2.Status)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update status to %s: %w", push.NewStatus, err)
	}

	log.Printf("[worker] applied order=%s %s -> %s", push.OrderID, order.Status, push.NewStatus)
	return nil
}
