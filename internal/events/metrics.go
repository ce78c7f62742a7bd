package events

import (
	"context"
	"log"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/restokit/pos-core/internal/awsx"
)

// Metrics emits best-effort operational metrics. Failures are logged, never
// propagated: metric delivery must not fail an order submission.
type Metrics struct {
	client    awsx.CloudWatchAPI
	namespace string
}

func NewMetrics(client awsx.CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{client: client, namespace: namespace}
}

// OrderSubmitted records one submitted order and its total (major units).
func (m *Metrics) OrderSubmitted(ctx context.Context, totalAmount int64) {
	if m == nil || m.client == nil {
		return
	}
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String("OrdersSubmitted"),
				Value:      sdkaws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
			},
			{
				MetricName: sdkaws.String("OrderTotal"),
				Value:      sdkaws.Float64(float64(totalAmount) / 100),
				Unit:       cwtypes.StandardUnitNone,
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		log.Printf("[metrics] put metric data failed: %v", err)
	}
}
