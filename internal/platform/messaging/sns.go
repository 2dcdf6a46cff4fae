package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	contractsv1 "agentlists/contracts/gen/events/v1"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNS publishes envelopes to a single topic ARN. The logical topic name is
// carried as a message attribute for subscription filters.
type SNS struct {
	client   snsAPI
	topicARN string
	logger   *slog.Logger
}

func NewSNS(ctx context.Context, region string, topicARN string, logger *slog.Logger) (*SNS, error) {
	if topicARN == "" {
		return nil, errors.New("sns topic arn is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSNSWithClient(sns.NewFromConfig(cfg), topicARN, logger), nil
}

func newSNSWithClient(client snsAPI, topicARN string, logger *slog.Logger) *SNS {
	if logger == nil {
		logger = slog.Default()
	}
	return &SNS{client: client, topicARN: topicARN, logger: logger}
}

func (s *SNS) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"topic":      {DataType: aws.String("String"), StringValue: aws.String(topic)},
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(event.EventType)},
		},
	})
	if err != nil {
		s.logger.Error("sns publish failed",
			"event", "sns_publish_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	s.logger.Debug("event published",
		"event", "sns_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"message_id", aws.ToString(out.MessageId),
	)
	return nil
}

func (s *SNS) Close() error {
	return nil
}
