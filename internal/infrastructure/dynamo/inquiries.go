package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/staHong/user-auth-account-system/internal/domain"
)

// InquiryRepo provides typed DynamoDB operations for the inquiry board.
type InquiryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewInquiryRepo(client *dynamodb.Client, tableName string) *InquiryRepo {
	return &InquiryRepo{client: client, tableName: tableName}
}

func (r *InquiryRepo) Put(ctx context.Context, q *domain.Inquiry) error {
	item, err := attributevalue.MarshalMap(q)
	if err != nil {
		return fmt.Errorf("marshal inquiry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *InquiryRepo) Get(ctx context.Context, inquiryID string) (*domain.Inquiry, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("inquiry_id", inquiryID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("inquiry not found: %w", domain.ErrNotFound)
	}
	var q domain.Inquiry
	if err := attributevalue.UnmarshalMap(out.Item, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ScanFiltered returns inquiries matching the filter, newest first. Substring
// filters and the date range are applied after the scan; the board is an
// operator-facing view over a modest table.
func (r *InquiryRepo) ScanFiltered(ctx context.Context, f domain.InquiryFilter) ([]domain.Inquiry, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var all []domain.Inquiry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &all); err != nil {
		return nil, err
	}

	matched := all[:0]
	for _, q := range all {
		if f.UserName != "" && !strings.Contains(q.UserName, f.UserName) {
			continue
		}
		if f.CompanyName != "" && !strings.Contains(q.CompanyName, f.CompanyName) {
			continue
		}
		if f.Email != "" && !strings.Contains(q.Email, f.Email) {
			continue
		}
		if f.StartDate != nil && q.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && q.CreatedAt.After(*f.EndDate) {
			continue
		}
		matched = append(matched, q)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].InquiryID > matched[j].InquiryID })
	return matched, nil
}

// SetAnswer stores the operator's answer text on the inquiry.
func (r *InquiryRepo) SetAnswer(ctx context.Context, inquiryID, answer string) error {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{fieldAnswer: answer})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("inquiry_id", inquiryID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}
