package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/dynamic-energy-optimizer/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoDBClient mirrors appliance records into a DynamoDB table.
type DynamoDBClient struct {
	svc   dynamoAPI
	table string
	now   func() time.Time
}

// NewDynamoDBClient creates a new DynamoDB client instance
func NewDynamoDBClient(ctx context.Context, region, table string) (*DynamoDBClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &DynamoDBClient{
		svc:   dynamodb.NewFromConfig(cfg),
		table: table,
		now:   time.Now,
	}, nil
}

// ApplianceItem is the DynamoDB shape of an appliance record.
type ApplianceItem struct {
	Name       string  `dynamodbav:"name"`
	RecordID   string  `dynamodbav:"recordId"`
	Hours      float64 `dynamodbav:"hours"`
	PowerWatts float64 `dynamodbav:"powerWatts"`
	EnergyKWh  float64 `dynamodbav:"energyKwh"`
	Date       string  `dynamodbav:"date"`
	Day        string  `dynamodbav:"day"`
	Time       string  `dynamodbav:"time"`
	ArchivedAt int64   `dynamodbav:"archivedAt"`
}

func newApplianceItem(rec domain.ApplianceRecord, at time.Time) ApplianceItem {
	return ApplianceItem{
		Name:       rec.Name,
		RecordID:   rec.ID,
		Hours:      rec.Hours,
		PowerWatts: rec.Power,
		EnergyKWh:  rec.EnergyKWh,
		Date:       rec.Date,
		Day:        rec.Day,
		Time:       rec.Time,
		ArchivedAt: at.Unix(),
	}
}

// PutApplianceRecord stores one record keyed by appliance name and record id.
func (c *DynamoDBClient) PutApplianceRecord(ctx context.Context, rec domain.ApplianceRecord) error {
	item, err := attributevalue.MarshalMap(newApplianceItem(rec, c.now()))
	if err != nil {
		return fmt.Errorf("failed to marshal appliance record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	}

	if _, err := c.svc.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}

	return nil
}

// Archive implements the service archiver contract.
func (c *DynamoDBClient) Archive(ctx context.Context, rec domain.ApplianceRecord) error {
	return c.PutApplianceRecord(ctx, rec)
}
