package main

// StatusPush is the payload received from the realtime feed: a kitchen
// display or floor tablet asking for an order to move to a new status.
type StatusPush struct {
	OrderID   string `json:"order_id"`
	NewStatus string `json:"new_status"`
	Source    string `json:"source,omitempty"`
}
