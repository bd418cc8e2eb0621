package store

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// API is the slice of the DynamoDB client the store uses. *dynamodb.Client
// satisfies it; tests substitute an in-memory fake.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store wraps the DynamoDB primitives the engine consumes.
type Store struct {
	client API
	config Config
}

// New creates a new Store instance.
func New(client API, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// NewClient builds a DynamoDB client from the default AWS config chain.
func NewClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// Config returns the store's configuration after defaulting.
func (s *Store) Config() Config {
	return s.config
}

// Get retrieves an item by key, returning ErrNotFound if missing.
func (s *Store) Get(ctx context.Context, table string, key PK) (map[string]types.AttributeValue, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}
	return result.Item, nil
}

// Put writes an item unconditionally, replacing any existing item.
func (s *Store) Put(ctx context.Context, table string, item map[string]types.AttributeValue) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	return err
}

// Update applies a field-level update template to an existing item.
// Returns ErrNotFound if the item doesn't exist.
func (s *Store) Update(ctx context.Context, table string, key PK, u *Update) error {
	expr, names, values, err := u.expression()
	if err != nil {
		return err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                aws.String(table),
		Key:                      key,
		UpdateExpression:         aws.String(expr),
		ConditionExpression:      aws.String(existsCondition(key, names)),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		input.ExpressionAttributeValues = values
	}

	_, err = s.client.UpdateItem(ctx, input)
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes an item by key. Deleting a missing item is not an error.
func (s *Store) Delete(ctx context.Context, table string, key PK) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	return err
}

// RunTransaction compiles the Tx and executes it as one atomic batch.
// Either every write commits or none do. A canceled batch surfaces as
// ErrTransactionAborted wrapped around the service error.
func (s *Store) RunTransaction(ctx context.Context, tx *Tx) error {
	input, err := tx.compile(s.config.MaxTransactItems)
	if err != nil {
		return err
	}
	if input == nil {
		return nil // empty transaction
	}

	_, err = s.client.TransactWriteItems(ctx, input)
	if err != nil {
		var txErr *types.TransactionCanceledException
		if errors.As(err, &txErr) {
			return errors.Join(ErrTransactionAborted, err)
		}
		return err
	}
	return nil
}
