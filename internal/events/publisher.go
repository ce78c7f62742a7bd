package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/restokit/pos-core/internal/awsx"
)

// StatusEvent is the realtime payload fanned out after an accepted status
// transition, and the shape the worker consumes for pushes originating
// elsewhere (kitchen display, floor tablets).
type StatusEvent struct {
	OrderID     string `json:"order_id"`
	NewStatus   string `json:"new_status"`
	OrderNumber string `json:"order_number,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      awsx.SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient awsx.SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// PublishStatus sends a status event to SQS. attributes are attached as
// string MessageAttributes; empty values are skipped, SQS rejects string
// attributes with no value.
func (p *Publisher) PublishStatus(ctx context.Context, ev StatusEvent, attributes map[string]string) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	messageBody := string(body)

	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &messageBody,
	}
	msgAttrs := map[string]sqstypes.MessageAttributeValue{}
	for k, v := range attributes {
		if v == "" {
			continue
		}
		msgAttrs[k] = sqstypes.MessageAttributeValue{
			DataType:    awsString("String"),
			StringValue: awsString(v),
		}
	}
	if len(msgAttrs) > 0 {
		input.MessageAttributes = msgAttrs
	}

	_, err = p.SQS.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
