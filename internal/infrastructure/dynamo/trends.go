package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/staHong/user-auth-account-system/internal/domain"
)

// TrendRepo provides typed DynamoDB operations for the regulatory-trend board.
// The table is small and operator-curated, so listing scans and sorts in
// memory; trend ids are ULIDs, so lexicographic order is creation order.
type TrendRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTrendRepo(client *dynamodb.Client, tableName string) *TrendRepo {
	return &TrendRepo{client: client, tableName: tableName}
}

func (r *TrendRepo) Put(ctx context.Context, t *domain.RegulatoryTrend) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal trend: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *TrendRepo) Get(ctx context.Context, trendID string) (*domain.RegulatoryTrend, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("trend_id", trendID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("trend not found: %w", domain.ErrNotFound)
	}
	var t domain.RegulatoryTrend
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ScanFiltered returns trends whose source name or title contains the given
// substrings, newest first. Empty filters match everything.
func (r *TrendRepo) ScanFiltered(ctx context.Context, source, title string) ([]domain.RegulatoryTrend, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	switch {
	case source != "":
		input.FilterExpression = aws.String("contains(source_name, :v)")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: source},
		}
	case title != "":
		input.FilterExpression = aws.String("contains(title, :v)")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: title},
		}
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, err
	}
	var trends []domain.RegulatoryTrend
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &trends); err != nil {
		return nil, err
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].TrendID > trends[j].TrendID })
	return trends, nil
}

// PrevNext returns the neighbouring postings around trendID in creation
// order: prev is the next-newer posting, next the next-older one. Either may
// be nil at the board edges.
func (r *TrendRepo) PrevNext(ctx context.Context, trendID string) (prev, next *domain.RegulatoryTrend, err error) {
	trends, err := r.ScanFiltered(ctx, "", "")
	if err != nil {
		return nil, nil, err
	}
	// trends is newest first.
	for i := range trends {
		if trends[i].TrendID == trendID {
			if i > 0 {
				prev = &trends[i-1]
			}
			if i+1 < len(trends) {
				next = &trends[i+1]
			}
			return prev, next, nil
		}
	}
	return nil, nil, fmt.Errorf("trend not found: %w", domain.ErrNotFound)
}

// HardDelete removes the posting row. Attachment cleanup is the caller's job.
func (r *TrendRepo) HardDelete(ctx context.Context, trendID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("trend_id", trendID),
	})
	return err
}
