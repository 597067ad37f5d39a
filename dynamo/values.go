package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/refkit/tablesync/internal/rowkey"
	"github.com/refkit/tablesync/tableapi"
)

// BatchUpdateValues updates existing cells, reporting per-item failures with
// the canonical classification messages. Lock versions are validated once
// against the state at call entry, so all items in one call may carry tokens
// fetched at the same time.
func (s *Store) BatchUpdateValues(ctx context.Context, tableID string, values []tableapi.Value) (*tableapi.BatchResult, error) {
	if len(values) > tableapi.MaxBatchValues {
		return nil, tableapi.ErrBatchTooLarge
	}

	state, err := s.attributeLockState(ctx, tableID)
	if err != nil {
		return nil, err
	}

	result := &tableapi.BatchResult{}
	touched := make(map[string]struct{})
	now := time.Now().UTC().Format(time.RFC3339)

	for _, v := range values {
		if msg, ok := checkLockVersion(state, v); !ok {
			result.Failed = append(result.Failed, tableapi.FailedValue{Value: v, Message: msg})
			continue
		}

		_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(s.config.ValuesTable),
			Key: map[string]types.AttributeValue{
				"pk": &types.AttributeValueMemberS{Value: tableID},
				"sk": &types.AttributeValueMemberS{Value: valueSK(v.PrimaryValues, v.AttributeName)},
			},
			UpdateExpression:    aws.String("SET #value = :value, updated_at = :now"),
			ConditionExpression: aws.String("attribute_exists(pk)"),
			ExpressionAttributeNames: map[string]string{
				"#value": "value",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":value": &types.AttributeValueMemberS{Value: v.Value},
				":now":   &types.AttributeValueMemberS{Value: now},
			},
		})
		if err != nil {
			var condErr *types.ConditionalCheckFailedException
			if errors.As(err, &condErr) {
				result.Failed = append(result.Failed, tableapi.FailedValue{
					Value: v,
					Message: fmt.Sprintf("%s: %s/%s", tableapi.MsgValueNotFound,
						rowkey.Canonical(v.PrimaryValues), v.AttributeName),
				})
				continue
			}
			result.Failed = append(result.Failed, tableapi.FailedValue{Value: v, Message: err.Error()})
			continue
		}

		result.Successful = append(result.Successful, v)
		touched[v.AttributeName] = struct{}{}
	}

	if err := s.bumpLockVersions(ctx, tableID, touched); err != nil {
		return nil, err
	}
	return result, nil
}

// BatchCreateValues creates new cells. Lock versions are validated exactly as
// for updates; locking is attribute-level, so creation needs current tokens
// too.
func (s *Store) BatchCreateValues(ctx context.Context, tableID string, values []tableapi.Value) (*tableapi.BatchResult, error) {
	if len(values) > tableapi.MaxBatchValues {
		return nil, tableapi.ErrBatchTooLarge
	}

	state, err := s.attributeLockState(ctx, tableID)
	if err != nil {
		return nil, err
	}

	result := &tableapi.BatchResult{}
	touched := make(map[string]struct{})
	now := time.Now().UTC().Format(time.RFC3339)

	for _, v := range values {
		if msg, ok := checkLockVersion(state, v); !ok {
			result.Failed = append(result.Failed, tableapi.FailedValue{Value: v, Message: msg})
			continue
		}

		tuple, err := json.Marshal(v.PrimaryValues)
		if err != nil {
			result.Failed = append(result.Failed, tableapi.FailedValue{Value: v, Message: err.Error()})
			continue
		}

		item, err := attributevalue.MarshalMap(valueRecord{
			PK:            tableID,
			SK:            valueSK(v.PrimaryValues, v.AttributeName),
			RowKey:        rowkey.Derive(v.PrimaryValues),
			AttributeName: v.AttributeName,
			PrimaryValues: string(tuple),
			Value:         v.Value,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			result.Failed = append(result.Failed, tableapi.FailedValue{Value: v, Message: err.Error()})
			continue
		}

		_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(s.config.ValuesTable),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(pk)"),
		})
		if err != nil {
			var condErr *types.ConditionalCheckFailedException
			if errors.As(err, &condErr) {
				result.Failed = append(result.Failed, tableapi.FailedValue{
					Value: v,
					Message: fmt.Sprintf("%s: %s/%s", tableapi.MsgValueAlreadyExists,
						rowkey.Canonical(v.PrimaryValues), v.AttributeName),
				})
				continue
			}
			result.Failed = append(result.Failed, tableapi.FailedValue{Value: v, Message: err.Error()})
			continue
		}

		result.Successful = append(result.Successful, v)
		touched[v.AttributeName] = struct{}{}
	}

	if err := s.bumpLockVersions(ctx, tableID, touched); err != nil {
		return nil, err
	}
	return result, nil
}

// checkLockVersion validates the token presented with a value against the
// lock state snapshot. The empty token (attribute absent from the caller's
// lock map) never matches and reports as a conflict.
func checkLockVersion(state map[string]int64, v tableapi.Value) (string, bool) {
	current, ok := state[v.AttributeName]
	if !ok {
		return fmt.Sprintf("attribute %q is not defined on this table", v.AttributeName), false
	}
	if string(v.LockVersion) != strconv.FormatInt(current, 10) {
		return fmt.Sprintf("%s: stale lock version for attribute %q",
			tableapi.MsgConcurrencyConflict, v.AttributeName), false
	}
	return "", true
}

// ListValues returns stored cells, up to limit (0 = no limit).
func (s *Store) ListValues(ctx context.Context, tableID string, limit int32) ([]tableapi.RowValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.config.ValuesTable),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: tableID},
		},
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	var rows []tableapi.RowValue
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			var record valueRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("unmarshal value record: %w", err)
			}

			var primary []tableapi.PrimaryValue
			if err := json.Unmarshal([]byte(record.PrimaryValues), &primary); err != nil {
				return nil, fmt.Errorf("decode primary values for %s: %w", record.SK, err)
			}

			rows = append(rows, tableapi.RowValue{
				PrimaryValues: primary,
				AttributeName: record.AttributeName,
				Value:         record.Value,
			})
			if limit > 0 && len(rows) >= int(limit) {
				return rows, nil
			}
		}
	}

	return rows, nil
}
