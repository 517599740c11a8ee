package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient wraps AWS SNS client for notification operations
type SNSClient struct {
	svc      snsAPI
	topicArn string
}

// NewSNSClient creates a new SNS client instance
func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &SNSClient{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

// SendAlert publishes a message to the configured topic
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}

	result, err := c.svc.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Debug().Str("message_id", aws.ToString(result.MessageId)).Msg("alert sent")
	return nil
}

// SendHighUsageAlert reports an appliance reading that tripped an off-peak rule.
func (c *SNSClient) SendHighUsageAlert(ctx context.Context, rec domain.ApplianceRecord, suggestions []string) error {
	subject := fmt.Sprintf("Energy Optimizer: %s running at peak", rec.Name)
	message := fmt.Sprintf(
		"High Usage Alert\n\n"+
			"Appliance: %s\n"+
			"Power Rating: %.0f W\n"+
			"Energy: %.2f kWh\n"+
			"Logged: %s %s (%s)\n"+
			"Suggestions: %s\n"+
			"Sent: %s",
		rec.Name,
		rec.Power,
		rec.EnergyKWh,
		rec.Date,
		rec.Time,
		rec.Day,
		strings.Join(suggestions, "; "),
		time.Now().Format(time.RFC3339),
	)

	return c.SendAlert(ctx, subject, message)
}

// NotifyHighUsage implements the service notifier contract.
func (c *SNSClient) NotifyHighUsage(ctx context.Context, rec domain.ApplianceRecord, suggestions []string) error {
	return c.SendHighUsageAlert(ctx, rec, suggestions)
}
