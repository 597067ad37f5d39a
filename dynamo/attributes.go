package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/refkit/tablesync/tableapi"
)

// CreateAttribute adds an attribute to a data table. New attributes start at
// lock version 1.
func (s *Store) CreateAttribute(ctx context.Context, tableID string, def tableapi.AttributeDefinition) error {
	item, err := attributevalue.MarshalMap(attributeRecord{
		PK:          tablePK(tableID),
		SK:          attributeSK(def.Name),
		Name:        def.Name,
		ValueType:   string(def.ValueType),
		Description: def.Description,
		Primary:     def.Primary,
		Validation:  def.Validation,
		LockVersion: 1,
	})
	if err != nil {
		return fmt.Errorf("marshal attribute record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.MetaTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return tableapi.ErrAttributeExists
		}
		return err
	}
	return nil
}

// ListAttributes returns every attribute definition of a data table.
func (s *Store) ListAttributes(ctx context.Context, tableID string) ([]tableapi.AttributeDefinition, error) {
	records, err := s.listAttributeRecords(ctx, tableID)
	if err != nil {
		return nil, err
	}

	defs := make([]tableapi.AttributeDefinition, 0, len(records))
	for _, record := range records {
		defs = append(defs, tableapi.AttributeDefinition{
			Name:        record.Name,
			ValueType:   tableapi.ValueType(record.ValueType),
			Description: record.Description,
			Primary:     record.Primary,
			Validation:  record.Validation,
		})
	}
	return defs, nil
}

// ListAttributeLockVersions returns the current lock version of every
// attribute, encoded as an opaque token.
func (s *Store) ListAttributeLockVersions(ctx context.Context, tableID string) (tableapi.LockVersions, error) {
	// Distinguish "table without attributes" from "no such table".
	if _, err := s.getTable(ctx, tableID); err != nil {
		return nil, err
	}

	records, err := s.listAttributeRecords(ctx, tableID)
	if err != nil {
		return nil, err
	}

	locks := make(tableapi.LockVersions, len(records))
	for _, record := range records {
		locks[record.Name] = tableapi.LockVersion(strconv.FormatInt(record.LockVersion, 10))
	}
	return locks, nil
}

func (s *Store) listAttributeRecords(ctx context.Context, tableID string) ([]attributeRecord, error) {
	var records []attributeRecord

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.MetaTable),
		KeyConditionExpression: aws.String("pk = :pk AND begins_with(sk, :attr)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":   &types.AttributeValueMemberS{Value: tablePK(tableID)},
			":attr": &types.AttributeValueMemberS{Value: attributeSKPref},
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			var record attributeRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("unmarshal attribute record: %w", err)
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// attributeLockState returns the numeric lock versions used to validate
// tokens presented by batch value calls.
func (s *Store) attributeLockState(ctx context.Context, tableID string) (map[string]int64, error) {
	records, err := s.listAttributeRecords(ctx, tableID)
	if err != nil {
		return nil, err
	}
	state := make(map[string]int64, len(records))
	for _, record := range records {
		state[record.Name] = record.LockVersion
	}
	return state, nil
}

// bumpLockVersions rotates the lock version of every attribute in touched.
// Readers observing the old version before this point hold stale tokens.
func (s *Store) bumpLockVersions(ctx context.Context, tableID string, touched map[string]struct{}) error {
	for name := range touched {
		_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(s.config.MetaTable),
			Key: map[string]types.AttributeValue{
				"pk": &types.AttributeValueMemberS{Value: tablePK(tableID)},
				"sk": &types.AttributeValueMemberS{Value: attributeSK(name)},
			},
			UpdateExpression:    aws.String("ADD lock_version :one"),
			ConditionExpression: aws.String("attribute_exists(pk)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":one": &types.AttributeValueMemberN{Value: "1"},
			},
		})
		if err != nil {
			return fmt.Errorf("rotate lock version for %q: %w", name, err)
		}
	}
	return nil
}
