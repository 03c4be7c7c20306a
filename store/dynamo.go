package store

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/lightorchestra/model"
)

var ErrNoSession = errors.New("no session stored")

// Dynamo keeps one session per device in a DynamoDB table keyed by PK.
// Samples are stored as a list of [timestamp, value] number pairs.
type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
	pk     string
}

func NewDynamo(endpoint, region, table, deviceId string) (*Dynamo, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a DynamoDB session: %w", err)
	}
	return &Dynamo{client: dynamodb.New(sess), table: table, pk: deviceId}, nil
}

func (d *Dynamo) Save(samples model.Session) error {
	pairs := make([]*dynamodb.AttributeValue, 0, len(samples))
	for _, s := range samples {
		pairs = append(pairs, &dynamodb.AttributeValue{L: []*dynamodb.AttributeValue{
			{N: aws.String(strconv.FormatInt(s.Timestamp, 10))},
			{N: aws.String(strconv.Itoa(int(s.Value)))},
		}})
	}

	_, err := d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item: map[string]*dynamodb.AttributeValue{
			"PK":      {S: aws.String(d.pk)},
			"Samples": {L: pairs},
		},
	})
	if err != nil {
		return fmt.Errorf("error from DynamoDB: %w", err)
	}
	return nil
}

func (d *Dynamo) Load() (model.Session, error) {
	res, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(d.pk)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}
	attr, ok := res.Item["Samples"]
	if !ok {
		return nil, ErrNoSession
	}

	samples := make(model.Session, 0, len(attr.L))
	for i, pair := range attr.L {
		if len(pair.L) != 2 || pair.L[0].N == nil || pair.L[1].N == nil {
			return nil, fmt.Errorf("sample %d is not a [timestamp, value] pair", i)
		}
		ts, err := strconv.ParseInt(*pair.L[0].N, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sample %d timestamp: %w", i, err)
		}
		v, err := strconv.ParseUint(*pair.L[1].N, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("sample %d value: %w", i, err)
		}
		samples = append(samples, model.Sample{Timestamp: ts, Value: uint16(v)})
	}
	if !model.Sorted(samples) {
		return nil, errors.New("stored session has decreasing timestamps")
	}
	return samples, nil
}
