package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/staHong/user-auth-account-system/internal/domain"
)

// SubAccountRepo provides typed DynamoDB operations for the sub-accounts table.
type SubAccountRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubAccountRepo(client *dynamodb.Client, tableName string) *SubAccountRepo {
	return &SubAccountRepo{client: client, tableName: tableName}
}

func (r *SubAccountRepo) Put(ctx context.Context, s *domain.SubAccount) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal sub-account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Get returns the sub-account regardless of lifecycle state (audit lookup).
func (r *SubAccountRepo) Get(ctx context.Context, accountID string) (*domain.SubAccount, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("account_id", accountID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("sub-account not found: %w", domain.ErrNotFound)
	}
	var s domain.SubAccount
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetActive returns the sub-account only when its lifecycle state is active.
func (r *SubAccountRepo) GetActive(ctx context.Context, accountID string) (*domain.SubAccount, error) {
	s, err := r.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !s.Active() {
		return nil, fmt.Errorf("sub-account deleted: %w", domain.ErrNotFound)
	}
	return s, nil
}

// GetActiveByEmail resolves an email in the sub-account namespace, active only.
func (r *SubAccountRepo) GetActiveByEmail(ctx context.Context, email string) (*domain.SubAccount, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": "email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
	})
	if err != nil {
		return nil, err
	}
	var subs []domain.SubAccount
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &subs); err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].Active() {
			return &subs[i], nil
		}
	}
	return nil, fmt.Errorf("sub-account not found by email: %w", domain.ErrNotFound)
}

// ListActiveByOwner returns every active sub-account owned by the primary id.
func (r *SubAccountRepo) ListActiveByOwner(ctx context.Context, ownerID string) ([]domain.SubAccount, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String("owner_id-index"),
		KeyConditionExpression:   aws.String("#o = :v"),
		FilterExpression:         aws.String("#s = :active"),
		ExpressionAttributeNames: map[string]string{"#o": "owner_id", "#s": "state"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v":      &types.AttributeValueMemberS{Value: ownerID},
			":active": &types.AttributeValueMemberS{Value: domain.StateActive},
		},
	})
	if err != nil {
		return nil, err
	}
	var subs []domain.SubAccount
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// CountActiveByOwner counts active sub-accounts for the cap check.
func (r *SubAccountRepo) CountActiveByOwner(ctx context.Context, ownerID string) (int, error) {
	subs, err := r.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}

func (r *SubAccountRepo) Update(ctx context.Context, accountID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("account_id", accountID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// SoftDelete marks the sub-account deleted and stamps the timestamp.
func (r *SubAccountRepo) SoftDelete(ctx context.Context, accountID string, at time.Time) error {
	return r.Update(ctx, accountID, map[string]interface{}{
		fieldState:     domain.StateDeleted,
		fieldDeletedAt: at.UTC().Format(time.RFC3339),
	})
}
