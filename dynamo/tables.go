package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/refkit/tablesync/tableapi"
)

// FindTable looks a data table up by name.
func (s *Store) FindTable(ctx context.Context, name string) (*tableapi.Table, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.MetaTable),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: namePK(name)},
			"sk": &types.AttributeValueMemberS{Value: metaSK},
		},
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, tableapi.ErrTableNotFound
	}

	var pointer namePointer
	if err := attributevalue.UnmarshalMap(result.Item, &pointer); err != nil {
		return nil, fmt.Errorf("unmarshal name pointer: %w", err)
	}

	return s.getTable(ctx, pointer.TableID)
}

func (s *Store) getTable(ctx context.Context, tableID string) (*tableapi.Table, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.MetaTable),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: tablePK(tableID)},
			"sk": &types.AttributeValueMemberS{Value: metaSK},
		},
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, tableapi.ErrTableNotFound
	}

	var record tableRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal table record: %w", err)
	}

	return &tableapi.Table{
		ID:             record.ID,
		Name:           record.Name,
		Description:    record.Description,
		TimeZone:       record.TimeZone,
		ValueLockLevel: record.ValueLockLevel,
		Status:         record.Status,
		Tags:           record.Tags,
		CreatedAt:      record.CreatedAt,
	}, nil
}

// CreateTable creates a new data table. The table record and its name
// pointer are written in one transaction; the pointer's existence condition
// keeps table names unique.
func (s *Store) CreateTable(ctx context.Context, table tableapi.Table) (*tableapi.Table, error) {
	created := table
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Status == "" {
		created.Status = "PUBLISHED"
	}
	if created.ValueLockLevel == "" {
		created.ValueLockLevel = "NONE"
	}
	created.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	record, err := attributevalue.MarshalMap(tableRecord{
		PK:             tablePK(created.ID),
		SK:             metaSK,
		ID:             created.ID,
		Name:           created.Name,
		Description:    created.Description,
		TimeZone:       created.TimeZone,
		ValueLockLevel: created.ValueLockLevel,
		Status:         created.Status,
		Tags:           created.Tags,
		CreatedAt:      created.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal table record: %w", err)
	}

	pointer, err := attributevalue.MarshalMap(namePointer{
		PK:      namePK(created.Name),
		SK:      metaSK,
		TableID: created.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal name pointer: %w", err)
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.config.MetaTable),
					Item:                pointer,
					ConditionExpression: aws.String("attribute_not_exists(pk)"),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(s.config.MetaTable),
					Item:      record,
				},
			},
		},
	})
	if err != nil {
		var txErr *types.TransactionCanceledException
		if errors.As(err, &txErr) {
			for _, reason := range txErr.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return nil, tableapi.ErrTableExists
				}
			}
		}
		return nil, err
	}

	return &created, nil
}

// DeleteTable removes a data table: every stored cell, every attribute
// record, the table record, and its name pointer.
func (s *Store) DeleteTable(ctx context.Context, tableID string) error {
	table, err := s.getTable(ctx, tableID)
	if err != nil {
		return err
	}

	// Cells first, so a partial delete leaves the schema discoverable.
	var valueKeys []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.ValuesTable),
		KeyConditionExpression: aws.String("pk = :pk"),
		ProjectionExpression:   aws.String("pk, sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: tableID},
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, item := range page.Items {
			valueKeys = append(valueKeys, map[string]types.AttributeValue{
				"pk": item["pk"],
				"sk": item["sk"],
			})
		}
	}
	if err := s.batchDelete(ctx, s.config.ValuesTable, valueKeys); err != nil {
		return err
	}

	metaKeys := []map[string]types.AttributeValue{
		{
			"pk": &types.AttributeValueMemberS{Value: tablePK(tableID)},
			"sk": &types.AttributeValueMemberS{Value: metaSK},
		},
		{
			"pk": &types.AttributeValueMemberS{Value: namePK(table.Name)},
			"sk": &types.AttributeValueMemberS{Value: metaSK},
		},
	}
	attrs, err := s.listAttributeRecords(ctx, tableID)
	if err != nil {
		return err
	}
	for _, attr := range attrs {
		metaKeys = append(metaKeys, map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: attr.PK},
			"sk": &types.AttributeValueMemberS{Value: attr.SK},
		})
	}

	return s.batchDelete(ctx, s.config.MetaTable, metaKeys)
}

// batchDelete issues BatchWriteItem deletes in chunks of the API's 25-item
// ceiling, re-submitting unprocessed keys.
func (s *Store) batchDelete(ctx context.Context, table string, keys []map[string]types.AttributeValue) error {
	for start := 0; start < len(keys); start += tableapi.MaxBatchValues {
		end := min(start+tableapi.MaxBatchValues, len(keys))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}

		pending := map[string][]types.WriteRequest{table: requests}
		for len(pending[table]) > 0 {
			out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return err
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}
