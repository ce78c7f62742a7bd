package orders

import "time"

// Order statuses
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusPreparing = "PREPARING"
	StatusReady     = "READY"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	// StatusServed is a legacy synonym of COMPLETED still emitted by some
	// consumers; the lifecycle treats the two as equivalent.
	StatusServed = "SERVED"
)

// OrderLine is the immutable snapshot of one cart line at compile time.
// SpecialInstructions carries the rendered combo selection so the kitchen
// can display the composition without the original definition.
type OrderLine struct {
	ProductName         string `dynamodbav:"product_name" json:"product_name"`
	Quantity            int    `dynamodbav:"quantity" json:"quantity"`
	UnitPrice           int64  `dynamodbav:"unit_price" json:"unit_price"`
	TotalPrice          int64  `dynamodbav:"total_price" json:"total_price"`
	SpecialInstructions string `dynamodbav:"special_instructions,omitempty" json:"special_instructions,omitempty"`
}

// Order is the item stored in the orders DynamoDB table. Amounts are minor
// currency units. Lines never change after compilation; only the status
// moves, through the lifecycle transition table.
type Order struct {
	OrderID     string      `dynamodbav:"order_id" json:"order_id"` // PK
	OrderNumber string      `dynamodbav:"order_number" json:"order_number"`
	Destination string      `dynamodbav:"destination" json:"destination"` // table id or takeaway marker
	Lines       []OrderLine `dynamodbav:"lines" json:"lines"`
	Subtotal    int64       `dynamodbav:"subtotal" json:"subtotal"`
	TaxAmount   int64       `dynamodbav:"tax_amount" json:"tax_amount"`
	TotalAmount int64       `dynamodbav:"total_amount" json:"total_amount"`
	Status      string      `dynamodbav:"status" json:"status"`
	Notes       string      `dynamodbav:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time   `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `dynamodbav:"updated_at" json:"updated_at"`
}
