package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// mockSQS captures the last SendMessage input.
type mockSQS struct {
	lastInput *sqs.SendMessageInput
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.lastInput = params
	return &sqs.SendMessageOutput{}, nil
}

func TestPublishStatus_BodyAndAttributes(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.test/queue")

	ev := StatusEvent{OrderID: "order-1", NewStatus: "CONFIRMED", OrderNumber: "POS-TEST-001", Source: "register"}
	err := p.PublishStatus(context.Background(), ev, map[string]string{"register_id": "reg-1"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if mock.lastInput == nil {
		t.Fatalf("no message sent")
	}
	if *mock.lastInput.QueueUrl != "https://sqs.test/queue" {
		t.Fatalf("queue url = %s", *mock.lastInput.QueueUrl)
	}

	var got StatusEvent
	if err := json.Unmarshal([]byte(*mock.lastInput.MessageBody), &got); err != nil {
		t.Fatalf("body not json: %v", err)
	}
	if got != ev {
		t.Fatalf("body round-trip = %+v, want %+v", got, ev)
	}

	attr, ok := mock.lastInput.MessageAttributes["register_id"]
	if !ok || *attr.StringValue != "reg-1" {
		t.Fatalf("register_id attribute missing or wrong: %+v", mock.lastInput.MessageAttributes)
	}
}

func TestPublishStatus_SkipsEmptyAttributeValues(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.test/queue")

	// An absent X-Request-Id header reaches the publisher as an empty
	// string; SQS rejects a string attribute with no value, so the entry
	// must be dropped rather than sent.
	err := p.PublishStatus(context.Background(), StatusEvent{OrderID: "order-1", NewStatus: "PENDING"}, map[string]string{
		"register_id":    "reg-1",
		"correlation_id": "",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, ok := mock.lastInput.MessageAttributes["correlation_id"]; ok {
		t.Fatalf("empty-valued attribute must be omitted: %+v", mock.lastInput.MessageAttributes)
	}
	if _, ok := mock.lastInput.MessageAttributes["register_id"]; !ok {
		t.Fatalf("non-empty attribute must survive: %+v", mock.lastInput.MessageAttributes)
	}
}

func TestPublishStatus_AllAttributesEmpty(t *testing.T) {
	mock := &mockSQS{}
	p := NewPublisher(mock, "https://sqs.test/queue")

	err := p.PublishStatus(context.Background(), StatusEvent{OrderID: "order-1", NewStatus: "PENDING"}, map[string]string{
		"correlation_id": "",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(mock.lastInput.MessageAttributes) != 0 {
		t.Fatalf("expected no message attributes, got %+v", mock.lastInput.MessageAttributes)
	}
}
