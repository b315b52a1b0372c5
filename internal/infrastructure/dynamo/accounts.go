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

// AccountRepo provides typed DynamoDB operations for the primary accounts table.
type AccountRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAccountRepo(client *dynamodb.Client, tableName string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName}
}

func (r *AccountRepo) Put(ctx context.Context, a *domain.PrimaryAccount) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Get returns the account regardless of lifecycle state. Withdrawn rows stay
// reachable here for audit and history.
func (r *AccountRepo) Get(ctx context.Context, accountID string) (*domain.PrimaryAccount, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("account_id", accountID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	var a domain.PrimaryAccount
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetActive returns the account only when its lifecycle state is active.
func (r *AccountRepo) GetActive(ctx context.Context, accountID string) (*domain.PrimaryAccount, error) {
	a, err := r.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !a.Active() {
		return nil, fmt.Errorf("account withdrawn: %w", domain.ErrNotFound)
	}
	return a, nil
}

// GetActiveByEmail resolves an email in the primary namespace, active records
// only. Withdrawn rows may share the email; they are skipped.
func (r *AccountRepo) GetActiveByEmail(ctx context.Context, email string) (*domain.PrimaryAccount, error) {
	accounts, err := r.queryGSI(ctx, "email-index", "email", email)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Active() {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account not found by email: %w", domain.ErrNotFound)
}

// ExistsActiveByCorpRegNo reports whether any active account carries the
// corporate registration number.
func (r *AccountRepo) ExistsActiveByCorpRegNo(ctx context.Context, corpRegNo string) (bool, error) {
	return r.existsActive(ctx, "corp_reg_no-index", "corp_reg_no", corpRegNo)
}

// ExistsActiveByBizRegNo reports whether any active account carries the
// business registration number.
func (r *AccountRepo) ExistsActiveByBizRegNo(ctx context.Context, bizRegNo string) (bool, error) {
	return r.existsActive(ctx, "biz_reg_no-index", "biz_reg_no", bizRegNo)
}

func (r *AccountRepo) Update(ctx context.Context, accountID string, updates map[string]interface{}) error {
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

// Withdraw marks the account withdrawn and stamps the timestamp. The row is
// kept for audit.
func (r *AccountRepo) Withdraw(ctx context.Context, accountID string, at time.Time) error {
	return r.Update(ctx, accountID, map[string]interface{}{
		fieldState:       domain.StateWithdrawn,
		fieldWithdrawnAt: at.UTC().Format(time.RFC3339),
	})
}

func (r *AccountRepo) existsActive(ctx context.Context, index, attr, value string) (bool, error) {
	accounts, err := r.queryGSI(ctx, index, attr, value)
	if err != nil {
		return false, err
	}
	for i := range accounts {
		if accounts[i].Active() {
			return true, nil
		}
	}
	return false, nil
}

func (r *AccountRepo) queryGSI(ctx context.Context, index, attr, value string) ([]domain.PrimaryAccount, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
	})
	if err != nil {
		return nil, err
	}
	var accounts []domain.PrimaryAccount
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}
