package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	contractsv1 "agentlists/contracts/gen/events/v1"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEnvelope() contractsv1.Envelope {
	return contractsv1.Envelope{
		EventID:       "evt-1",
		EventType:     contractsv1.EventTypeBatchDistributed,
		OccurredAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		SourceService: "list-service",
		SchemaVersion: 1,
		PartitionKey:  "batch_1",
		Data:          json.RawMessage(`{"upload_batch":"batch_1"}`),
	}
}

func TestInProcessDeliversToSubscribers(t *testing.T) {
	bus := NewInProcess(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan contractsv1.Envelope, 1)
	bus.Subscribe(ctx, "agentlists.lists", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	})

	require.NoError(t, bus.Publish(ctx, "agentlists.lists", sampleEnvelope()))
	select {
	case event := <-received:
		assert.Equal(t, "evt-1", event.EventID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

type fakeWriter struct {
	messages []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublishKeysByPartition(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newKafkaWithWriter(writer, nil)

	require.NoError(t, publisher.Publish(context.Background(), "agentlists.lists", sampleEnvelope()))
	require.Len(t, writer.messages, 1)
	message := writer.messages[0]
	assert.Equal(t, "agentlists.lists", message.Topic)
	assert.Equal(t, "batch_1", string(message.Key))

	var decoded contractsv1.Envelope
	require.NoError(t, json.Unmarshal(message.Value, &decoded))
	assert.Equal(t, contractsv1.EventTypeBatchDistributed, decoded.EventType)
}

func TestNewKafkaRequiresBrokers(t *testing.T) {
	_, err := NewKafka(nil, nil)
	require.Error(t, err)
}

type fakeSNS struct {
	inputs []*sns.PublishInput
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSNSPublishCarriesTopicAttribute(t *testing.T) {
	client := &fakeSNS{}
	publisher := newSNSWithClient(client, "arn:aws:sns:us-east-1:000000000000:agentlists", nil)

	require.NoError(t, publisher.Publish(context.Background(), "agentlists.lists", sampleEnvelope()))
	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:agentlists", aws.ToString(input.TopicArn))
	assert.Equal(t, "agentlists.lists", aws.ToString(input.MessageAttributes["topic"].StringValue))
	assert.Contains(t, aws.ToString(input.Message), `"evt-1"`)
}
