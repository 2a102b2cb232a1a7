package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/loanlead-api/internal/domain"
)

// API is the subset of the DynamoDB client used by VerificationRepo.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// verificationItem is the table row for one pending verification.
// PK: identifier. expires_at is a Unix timestamp used as DynamoDB TTL; expires_at_ms
// carries the exact expiry checked on read, since the TTL sweep may lag for hours.
type verificationItem struct {
	Identifier  string    `dynamodbav:"identifier"`
	IssueID     string    `dynamodbav:"issue_id"`
	Modality    string    `dynamodbav:"modality"`
	Channel     string    `dynamodbav:"channel"`
	SecretKind  string    `dynamodbav:"secret_kind"`
	Secret      string    `dynamodbav:"secret"`
	Hashed      bool      `dynamodbav:"hashed"`
	IssuedAt    time.Time `dynamodbav:"issued_at"`
	ExpiresAtMs int64     `dynamodbav:"expires_at_ms"`
	ExpiresAt   int64     `dynamodbav:"expires_at"`
}

func toItem(r *domain.VerificationRecord) verificationItem {
	return verificationItem{
		Identifier:  r.Identifier,
		IssueID:     r.IssueID,
		Modality:    string(r.Modality),
		Channel:     r.Channel,
		SecretKind:  string(r.SecretKind),
		Secret:      r.Secret,
		Hashed:      r.Hashed,
		IssuedAt:    r.IssuedAt.UTC(),
		ExpiresAtMs: r.ExpiresAt.UnixMilli(),
		ExpiresAt:   ttlSeconds(r.ExpiresAt),
	}
}

func (it verificationItem) record() *domain.VerificationRecord {
	return &domain.VerificationRecord{
		IssueID:    it.IssueID,
		Identifier: it.Identifier,
		Modality:   domain.Modality(it.Modality),
		Channel:    it.Channel,
		SecretKind: domain.SecretKind(it.SecretKind),
		Secret:     it.Secret,
		Hashed:     it.Hashed,
		IssuedAt:   it.IssuedAt,
		ExpiresAt:  time.UnixMilli(it.ExpiresAtMs).UTC(),
	}
}

// VerificationRepo is a CodeStore backed by a DynamoDB table shared by every instance.
// Local codes are written as bcrypt hashes.
type VerificationRepo struct {
	client    API
	tableName string
	nowF      func() time.Time
}

func NewVerificationRepo(client API, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName, nowF: time.Now}
}

// Put unconditionally overwrites the item for r.Identifier.
func (r *VerificationRepo) Put(ctx context.Context, rec *domain.VerificationRecord) error {
	sealed, err := rec.Seal()
	if err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(toItem(sealed))
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put verification: %w", err)
	}
	return nil
}

// Get returns the live item for identifier. An expired item is deleted and reported as
// domain.ErrNotFoundOrExpired.
func (r *VerificationRepo) Get(ctx context.Context, identifier string) (*domain.VerificationRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldIdentifier, identifier),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get verification: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFoundOrExpired)
	}
	var it verificationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal verification: %w", err)
	}
	rec := it.record()
	if rec.Expired(r.nowF()) {
		var ccf *types.ConditionalCheckFailedException
		if err := r.deleteIssue(ctx, identifier, rec.IssueID); err != nil && !errors.As(err, &ccf) {
			slog.Warn("failed to delete expired verification", "identifier", identifier, "err", err)
		}
		return nil, fmt.Errorf("verification expired: %w", domain.ErrNotFoundOrExpired)
	}
	return rec, nil
}

// Delete removes the item for identifier. Deleting a missing item is not an error.
func (r *VerificationRepo) Delete(ctx context.Context, identifier string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldIdentifier, identifier),
	})
	if err != nil {
		return fmt.Errorf("delete verification: %w", err)
	}
	return nil
}

// Consume deletes the item for identifier only while it still belongs to issueID.
// It reports domain.ErrNotFoundOrExpired when the item is gone or was re-issued.
func (r *VerificationRepo) Consume(ctx context.Context, identifier, issueID string) error {
	err := r.deleteIssue(ctx, identifier, issueID)
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("verification already consumed: %w", domain.ErrNotFoundOrExpired)
	}
	if err != nil {
		return fmt.Errorf("consume verification: %w", err)
	}
	return nil
}

// deleteIssue removes the item only if it still belongs to issueID, so a stale read
// never removes a concurrent re-issue.
func (r *VerificationRepo) deleteIssue(ctx context.Context, identifier, issueID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldIdentifier, identifier),
		ConditionExpression:       aws.String("#iid = :iid"),
		ExpressionAttributeNames:  map[string]string{"#iid": fieldIssueID},
		ExpressionAttributeValues: strValue(":iid", issueID),
	})
	return err
}
