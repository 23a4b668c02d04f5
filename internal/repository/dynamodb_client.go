package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"dale-assistant/internal/domain"
)

const (
	pkSequence  = "SEQ#ailog"
	skMeta      = "META#"
	pkLogPrefix = "LOG#"
	ttlDuration = 90 * 24 * time.Hour
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Client stores audit records of answered prompts in a single table.
// Log ids come from an atomic counter item so they stay monotonic across
// Lambda instances.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

func logPK(id int64) string {
	return pkLogPrefix + strconv.FormatInt(id, 10)
}

// Record assigns the next log id and writes the record under it.
func (c *Client) Record(ctx context.Context, rec domain.AuditRecord) (int64, error) {
	id, err := c.nextID(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: Record: %w", err)
	}
	rec.LogID = id
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = c.now().UTC()
	}

	_, err = c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                c.auditItem(rec),
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		return 0, fmt.Errorf("repository: Record put item: %w", err)
	}
	return id, nil
}

func (c *Client) nextID(ctx context.Context) (int64, error) {
	out, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pkSequence},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		UpdateExpression: aws.String("ADD #v :one"),
		ExpressionAttributeNames: map[string]string{
			"#v": "value",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("increment sequence: %w", err)
	}
	if out == nil {
		return 0, errors.New("increment sequence: empty response")
	}
	id, err := int64Attr(out.Attributes, "value")
	if err != nil {
		return 0, fmt.Errorf("decode sequence: %w", err)
	}
	return id, nil
}

// Get loads one audit record by log id. A missing record returns ok=false.
func (c *Client) Get(ctx context.Context, id int64) (domain.AuditRecord, bool, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: logPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
	})
	if err != nil {
		return domain.AuditRecord{}, false, fmt.Errorf("repository: Get: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.AuditRecord{}, false, nil
	}
	rec, err := itemToRecord(out.Item)
	if err != nil {
		return domain.AuditRecord{}, false, fmt.Errorf("repository: Get unmarshal: %w", err)
	}
	return rec, true, nil
}

func (c *Client) auditItem(rec domain.AuditRecord) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":          &types.AttributeValueMemberS{Value: logPK(rec.LogID)},
		"SK":          &types.AttributeValueMemberS{Value: skMeta},
		"logId":       &types.AttributeValueMemberN{Value: strconv.FormatInt(rec.LogID, 10)},
		"subject":     &types.AttributeValueMemberS{Value: rec.Subject},
		"contextType": &types.AttributeValueMemberS{Value: rec.ContextType},
		"contextId":   &types.AttributeValueMemberS{Value: rec.ContextID},
		"prompt":      &types.AttributeValueMemberS{Value: rec.Prompt},
		"response":    &types.AttributeValueMemberS{Value: rec.Response},
		"model":       &types.AttributeValueMemberS{Value: rec.Model},
		"tokensUsed":  &types.AttributeValueMemberN{Value: strconv.Itoa(rec.TokensUsed)},
		"createdAt":   &types.AttributeValueMemberS{Value: rec.CreatedAt.UTC().Format(time.RFC3339Nano)},
		"ttl":         &types.AttributeValueMemberN{Value: strconv.FormatInt(rec.CreatedAt.Add(ttlDuration).Unix(), 10)},
	}
}

func itemToRecord(item map[string]types.AttributeValue) (domain.AuditRecord, error) {
	id, err := int64Attr(item, "logId")
	if err != nil {
		return domain.AuditRecord{}, err
	}
	prompt, err := strAttr(item, "prompt")
	if err != nil {
		return domain.AuditRecord{}, err
	}
	response, err := strAttr(item, "response")
	if err != nil {
		return domain.AuditRecord{}, err
	}
	subject, _ := strAttr(item, "subject")
	contextType, _ := strAttr(item, "contextType")
	contextID, _ := strAttr(item, "contextId")
	model, _ := strAttr(item, "model")
	tokens, _ := int64Attr(item, "tokensUsed")

	rec := domain.AuditRecord{
		LogID:       id,
		Subject:     subject,
		ContextType: contextType,
		ContextID:   contextID,
		Prompt:      prompt,
		Response:    response,
		Model:       model,
		TokensUsed:  int(tokens),
	}
	if created, err := strAttr(item, "createdAt"); err == nil {
		if ts, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
			rec.CreatedAt = ts
		}
	}
	return rec, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func int64Attr(item map[string]types.AttributeValue, key string) (int64, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
