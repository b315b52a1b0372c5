package domain

import "time"

// RegulatoryTrend is a posting on the regulatory-trend board. Attachments are
// stored as FileUpload records referencing the trend id.
type RegulatoryTrend struct {
	TrendID    string    `json:"id" dynamodbav:"trend_id"`
	SourceName string    `json:"source_name" dynamodbav:"source_name"`
	Title      string    `json:"title" dynamodbav:"title"`
	Content    string    `json:"content" dynamodbav:"content"`
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at"`

	AttachedFiles []FileUpload `json:"attached_files,omitempty" dynamodbav:"-"`
}

type CreateTrendRequest struct {
	SourceName string `json:"source_name" validate:"required,max=100"`
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required,max=4000"`
}
